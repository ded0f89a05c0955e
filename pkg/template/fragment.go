package template

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
)

// Fragment is content that fills a placeholder when rendering HTML.
type Fragment interface {
	// HTML returns the fragment as markup. The Renderer sanitizes it before writing.
	HTML() (string, error)

	// String returns the fragment source, used for plain text output.
	String() string
}

// Text is a fragment rendered as escaped text.
type Text string

func (t Text) HTML() (string, error) { return html.EscapeString(string(t)), nil }
func (t Text) String() string        { return string(t) }

// Markdown is a fragment converted to HTML with goldmark.
type Markdown string

var markdown = goldmark.New()

func (m Markdown) HTML() (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(m), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	// Inline fragments should not open a block.
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return out, nil
}

func (m Markdown) String() string { return string(m) }

// HTML is a fragment holding markup as-is.
type HTML string

func (h HTML) HTML() (string, error) { return string(h), nil }
func (h HTML) String() string        { return string(h) }

// Format names a fragment flavour.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Wrap converts s into a Fragment of format f. Unknown formats fall back to Text.
func (f Format) Wrap(s string) Fragment {
	switch f {
	case FormatMarkdown:
		return Markdown(s)
	case FormatHTML:
		return HTML(s)
	default:
		return Text(s)
	}
}

// FromMap builds a Lookup from plain strings, wrapping each as format f.
func FromMap(m map[string][]string, f Format) Slots[Fragment] {
	slots := make(Slots[Fragment], len(m))
	for name, values := range m {
		fragments := make([]Fragment, len(values))
		for i, v := range values {
			fragments[i] = f.Wrap(v)
		}
		slots[name] = Static(fragments...)
	}
	return slots
}
