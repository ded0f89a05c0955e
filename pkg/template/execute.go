package template

import (
	"maps"

	"github.com/aretw0/jsonms/pkg/domain"
)

// Request describes a one-shot render of a template with string fragments.
type Request struct {
	Template  string              `json:"template" mapstructure:"template"`
	Fragments map[string][]string `json:"fragments,omitempty" mapstructure:"fragments"`
	Format    Format              `json:"format,omitempty" mapstructure:"format"`
	Tag       string              `json:"tag,omitempty" mapstructure:"tag"`
}

// Result is the outcome of Execute.
type Result struct {
	HTML    string   `json:"html"`
	Text    string   `json:"text"`
	Nodes   int      `json:"nodes"`
	Missing []string `json:"missing,omitempty"`
}

// RequestFromDoc builds a Request from a stored template. overrides replace the
// document's default fragments name by name.
func RequestFromDoc(doc domain.TemplateDoc, overrides map[string][]string, format Format) Request {
	fragments := maps.Clone(doc.Fragments)
	if fragments == nil {
		fragments = make(map[string][]string, len(overrides))
	}
	maps.Copy(fragments, overrides)
	return Request{
		Template:  doc.Source,
		Fragments: fragments,
		Format:    format,
		Tag:       doc.Tag,
	}
}

// Execute renders req once. hooks receive the render event.
func Execute(req Request, hooks domain.Hooks) (Result, error) {
	lookup := FromMap(req.Fragments, req.Format)
	reactor := NewReactor[Fragment](req.Template, lookup, WithHooks(hooks))
	nodes := reactor.Nodes()

	html, err := Renderer{Tag: req.Tag}.RenderString(nodes)
	if err != nil {
		return Result{}, err
	}
	return Result{
		HTML:    html,
		Text:    PlainText(nodes),
		Nodes:   len(nodes),
		Missing: Missing(req.Template, lookup),
	}, nil
}

// Missing lists the placeholder names of tmpl that lookup cannot resolve, in order of first use.
func Missing[F any](tmpl string, lookup Lookup[F]) []string {
	var missing []string
	seen := make(map[string]bool)
	for seg := range Parse(tmpl) {
		if seg.Kind != Placeholder || seen[seg.Text] {
			continue
		}
		seen[seg.Text] = true
		if lookup == nil {
			missing = append(missing, seg.Text)
			continue
		}
		if _, ok := lookup.Lookup(seg.Text); !ok {
			missing = append(missing, seg.Text)
		}
	}
	return missing
}
