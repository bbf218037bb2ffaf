package models

// TicketTemplate is a named body-format template loaded from the templates
// directory. Frontmatter metadata is optional; markdown-only files get their
// name from the filename.
type TicketTemplate struct {
	Name     string   `yaml:"name"`
	About    string   `yaml:"about,omitempty"`
	Labels   []string `yaml:"labels,omitempty"`
	Content  string   `yaml:"-"`
	FilePath string   `yaml:"-"`
}

// TemplateMetadata is the listing entry for a template.
type TemplateMetadata struct {
	Name     string
	About    string
	FilePath string
}
