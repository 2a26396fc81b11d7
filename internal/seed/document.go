package seed

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

var (
	ErrPageMissing    = errors.New("seed: front matter page is required")
	ErrSectionMissing = errors.New("seed: front matter section is required")
)

// Document is one section file: front matter plus an optional markdown body.
type Document struct {
	Path       string
	PageSlug   string
	SectionKey string
	SortOrder  int
	Active     bool
	Content    map[string]any
	Body       []byte
}

type frontMatterEnvelope struct {
	Page      string         `yaml:"page"`
	Section   string         `yaml:"section"`
	SortOrder int            `yaml:"sort_order"`
	Active    *bool          `yaml:"active"`
	Content   map[string]any `yaml:"content"`
}

// ParseDocument reads the front matter of source. Sections are active unless
// the front matter says otherwise.
func ParseDocument(path string, source []byte) (*Document, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter %s: %w", path, err)
	}

	doc := &Document{
		Path:       path,
		PageSlug:   strings.TrimSpace(meta.Page),
		SectionKey: strings.TrimSpace(meta.Section),
		SortOrder:  meta.SortOrder,
		Active:     meta.Active == nil || *meta.Active,
		Content:    normalizeMap(meta.Content),
		Body:       bytes.TrimSpace(body),
	}
	if doc.PageSlug == "" {
		return nil, fmt.Errorf("%w: %s", ErrPageMissing, path)
	}
	if doc.SectionKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrSectionMissing, path)
	}
	return doc, nil
}

// normalizeMap converts YAML decoded maps into JSON compatible values.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return normalizeMap(v)
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[fmt.Sprint(key)] = normalizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = normalizeValue(inner)
		}
		return out
	default:
		return v
	}
}
