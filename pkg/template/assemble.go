package template

import (
	"iter"
	"log/slog"
)

// Provider returns the fragments that fill a placeholder, in order.
type Provider[F any] func() []F

// Static returns a Provider that always yields fragments.
func Static[F any](fragments ...F) Provider[F] {
	return func() []F { return fragments }
}

// Lookup resolves placeholder names to providers.
type Lookup[F any] interface {
	Lookup(name string) (Provider[F], bool)
}

// Slots is a map-backed Lookup.
type Slots[F any] map[string]Provider[F]

// Lookup implements Lookup. A nil provider counts as missing.
func (s Slots[F]) Lookup(name string) (Provider[F], bool) {
	p, ok := s[name]
	return p, ok && p != nil
}

// NodeKind distinguishes text nodes from fragment nodes.
type NodeKind int

const (
	TextNode NodeKind = iota
	FragmentNode
)

// Node is one element of the assembled output.
type Node[F any] struct {
	Kind     NodeKind
	Text     string
	Fragment F
}

// TextOf returns a text node.
func TextOf[F any](s string) Node[F] {
	return Node[F]{Kind: TextNode, Text: s}
}

// FragmentOf returns a fragment node.
func FragmentOf[F any](f F) Node[F] {
	return Node[F]{Kind: FragmentNode, Fragment: f}
}

// Assemble resolves segments against lookup. Missing placeholders contribute
// nothing, and a nil lookup resolves nothing.
func Assemble[F any](segments iter.Seq[Segment], lookup Lookup[F]) []Node[F] {
	nodes, _ := assemble(segments, lookup)
	return nodes
}

// Render parses and assembles tmpl in one call.
func Render[F any](tmpl string, lookup Lookup[F]) []Node[F] {
	return Assemble(Parse(tmpl), lookup)
}

func assemble[F any](segments iter.Seq[Segment], lookup Lookup[F]) (nodes []Node[F], missing int) {
	nodes = []Node[F]{}
	for seg := range segments {
		if seg.Kind == Literal {
			if seg.Text != "" {
				nodes = append(nodes, TextOf[F](seg.Text))
			}
			continue
		}

		fragments, ok := resolve(lookup, seg.Text)
		if !ok {
			missing++
			continue
		}
		for _, f := range fragments {
			nodes = append(nodes, FragmentOf(f))
		}
	}
	return nodes, missing
}

// resolve treats a panicking lookup or provider as a miss.
func resolve[F any](lookup Lookup[F], name string) (fragments []F, ok bool) {
	if lookup == nil {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Default().Warn("Fragment provider panicked", "placeholder", name, "panic", r)
			fragments, ok = nil, false
		}
	}()
	provider, found := lookup.Lookup(name)
	if !found {
		return nil, false
	}
	return provider(), true
}
