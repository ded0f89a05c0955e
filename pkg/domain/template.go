package domain

// DefaultTag wraps rendered nodes when no tag is given.
const DefaultTag = "span"

// TemplateDoc is a named template stored outside the host code.
type TemplateDoc struct {
	Name string `json:"name" mapstructure:"name"`

	// Source is the template string, e.g. "Hello {name}!".
	Source string `json:"source" mapstructure:"source"`

	// Tag wraps the rendered nodes. Empty means DefaultTag.
	Tag string `json:"tag,omitempty" mapstructure:"tag"`

	// Fragments are default fill-ins, keyed by placeholder name.
	Fragments map[string][]string `json:"fragments,omitempty" mapstructure:"fragments"`
}
