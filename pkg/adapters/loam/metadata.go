package loam

// TemplateMetadata is the frontmatter of a template document.
// The document body is the template source.
type TemplateMetadata struct {
	// Name overrides the name derived from the file path.
	Name string `json:"name" mapstructure:"name"`

	// Tag is the wrapper element used when the template is rendered to HTML.
	Tag string `json:"tag" mapstructure:"tag"`

	// Fragments holds default values for placeholders, by name.
	Fragments map[string][]string `json:"fragments" mapstructure:"fragments"`
}
