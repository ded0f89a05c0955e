package template

import (
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrInvalidTag is returned when the wrapper tag is not a plain element name.
var ErrInvalidTag = errors.New("invalid wrapper tag")

var tagPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// Renderer writes nodes as HTML inside a single wrapper element.
type Renderer struct {
	// Tag is the wrapper element. Empty means "span".
	Tag string

	// Policy sanitizes fragment markup. Nil means bluemonday.UGCPolicy.
	Policy *bluemonday.Policy
}

var defaultPolicy = bluemonday.UGCPolicy()

// Render writes nodes to w. Text nodes are escaped, fragments are sanitized.
func (r Renderer) Render(w io.Writer, nodes []Node[Fragment]) error {
	tag := r.Tag
	if tag == "" {
		tag = "span"
	}
	if !tagPattern.MatchString(tag) {
		return fmt.Errorf("%w: %q", ErrInvalidTag, tag)
	}
	policy := r.Policy
	if policy == nil {
		policy = defaultPolicy
	}

	var b strings.Builder
	b.WriteString("<" + tag + ">")
	for _, n := range nodes {
		if n.Kind == TextNode {
			b.WriteString(html.EscapeString(n.Text))
			continue
		}
		if n.Fragment == nil {
			continue
		}
		markup, err := n.Fragment.HTML()
		if err != nil {
			return fmt.Errorf("failed to render fragment: %w", err)
		}
		b.WriteString(policy.Sanitize(markup))
	}
	b.WriteString("</" + tag + ">")

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderString is Render into a string.
func (r Renderer) RenderString(nodes []Node[Fragment]) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, nodes); err != nil {
		return "", err
	}
	return b.String(), nil
}

// PlainText concatenates text nodes and fragment sources.
func PlainText(nodes []Node[Fragment]) string {
	var b strings.Builder
	for _, n := range nodes {
		switch {
		case n.Kind == TextNode:
			b.WriteString(n.Text)
		case n.Fragment != nil:
			b.WriteString(n.Fragment.String())
		}
	}
	return b.String()
}
