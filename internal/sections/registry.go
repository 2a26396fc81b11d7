package sections

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-sitecms/internal/validation"
)

var ErrUnknownFieldType = errors.New("sections: unknown field type")

// FieldType is the closed set of editor inputs.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldRichText FieldType = "richtext"
	FieldImage    FieldType = "image"
	FieldURL      FieldType = "url"
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
	FieldList     FieldType = "list"
	FieldIcon     FieldType = "icon"
)

// ParseFieldType rejects names outside the closed set.
func ParseFieldType(name string) (FieldType, error) {
	switch ft := FieldType(strings.ToLower(strings.TrimSpace(name))); ft {
	case FieldText, FieldTextarea, FieldRichText, FieldImage, FieldURL,
		FieldNumber, FieldBoolean, FieldList, FieldIcon:
		return ft, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, name)
}

func (f FieldType) jsonType() string {
	switch f {
	case FieldNumber:
		return "number"
	case FieldBoolean:
		return "boolean"
	case FieldList:
		return "array"
	default:
		return "string"
	}
}

// FieldDefinition describes one editable field of a section.
type FieldDefinition struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
}

// SectionDefinition describes one section an editor may add to a page.
type SectionDefinition struct {
	Key    string            `json:"key"`
	Label  string            `json:"label"`
	Fields []FieldDefinition `json:"fields"`
}

// PageDefinition lists the sections allowed on a page in editor order.
type PageDefinition struct {
	Slug     string              `json:"slug"`
	Title    string              `json:"title"`
	Sections []SectionDefinition `json:"sections"`
}

// Section looks up a section by key.
func (p PageDefinition) Section(key string) (SectionDefinition, bool) {
	for _, section := range p.Sections {
		if section.Key == key {
			return section, true
		}
	}
	return SectionDefinition{}, false
}

// Registry is the page editor configuration. It implements
// content.SectionCatalog.
type Registry struct {
	pages map[string]PageDefinition
	order []string
}

// NewRegistry builds a registry, rejecting duplicate pages or sections and
// field types outside the closed set.
func NewRegistry(pages ...PageDefinition) (*Registry, error) {
	r := &Registry{pages: make(map[string]PageDefinition, len(pages))}
	for _, page := range pages {
		if _, exists := r.pages[page.Slug]; exists {
			return nil, fmt.Errorf("sections: duplicate page %q", page.Slug)
		}
		seen := map[string]struct{}{}
		for _, section := range page.Sections {
			if _, dup := seen[section.Key]; dup {
				return nil, fmt.Errorf("sections: duplicate section %q on page %q", section.Key, page.Slug)
			}
			seen[section.Key] = struct{}{}
			for _, field := range section.Fields {
				if _, err := ParseFieldType(string(field.Type)); err != nil {
					return nil, fmt.Errorf("sections: %s/%s.%s: %w", page.Slug, section.Key, field.Name, err)
				}
			}
		}
		r.pages[page.Slug] = page
		r.order = append(r.order, page.Slug)
	}
	return r, nil
}

// MustNewRegistry panics on an invalid definition.
func MustNewRegistry(pages ...PageDefinition) *Registry {
	r, err := NewRegistry(pages...)
	if err != nil {
		panic(err)
	}
	return r
}

// Pages returns the page definitions in registration order.
func (r *Registry) Pages() []PageDefinition {
	out := make([]PageDefinition, 0, len(r.order))
	for _, slug := range r.order {
		out = append(out, r.pages[slug])
	}
	return out
}

// Page returns a single page definition.
func (r *Registry) Page(slug string) (PageDefinition, bool) {
	page, ok := r.pages[slug]
	return page, ok
}

func (r *Registry) Allowed(pageSlug, sectionKey string) bool {
	page, ok := r.pages[pageSlug]
	if !ok {
		return false
	}
	_, ok = page.Section(sectionKey)
	return ok
}

// Schema derives the JSON schema of a section from its field definitions.
func (r *Registry) Schema(pageSlug, sectionKey string) map[string]any {
	page, ok := r.pages[pageSlug]
	if !ok {
		return nil
	}
	section, ok := page.Section(sectionKey)
	if !ok {
		return nil
	}
	fields := make([]validation.Field, 0, len(section.Fields))
	for _, field := range section.Fields {
		fields = append(fields, validation.Field{
			Name:     field.Name,
			Type:     field.Type.jsonType(),
			Required: field.Required,
		})
	}
	return validation.SchemaFromFields(fields)
}

// AvailableSections returns the allow-listed keys of a page not present in
// existing, in editor order.
func (r *Registry) AvailableSections(pageSlug string, existing []string) []SectionDefinition {
	page, ok := r.pages[pageSlug]
	if !ok {
		return nil
	}
	out := make([]SectionDefinition, 0, len(page.Sections))
	for _, section := range page.Sections {
		if slices.Contains(existing, section.Key) {
			continue
		}
		out = append(out, section)
	}
	return out
}
