package content

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// Page is the active content of one page, ordered by sort order.
type Page struct {
	Slug    string
	Records []*Record
}

// Raw returns the content stored for key and whether a non-empty value
// exists.
func (p Page) Raw(key string) (map[string]any, bool) {
	for _, rec := range p.Records {
		if rec.SectionKey != key {
			continue
		}
		if len(rec.Content) == 0 {
			return nil, false
		}
		return cloneContent(rec.Content), true
	}
	return nil, false
}

// Sections lists the section keys present on the page in display order.
func (p Page) Sections() []string {
	keys := make([]string, 0, len(p.Records))
	for _, rec := range p.Records {
		keys = append(keys, rec.SectionKey)
	}
	return keys
}

// GetSection decodes the stored content for key into T. When the section is
// missing, empty or does not decode, def is returned unchanged. Stored
// content is never merged with def; see sections.Resolve for that.
func GetSection[T any](p Page, key string, def T) T {
	raw, ok := p.Raw(key)
	if !ok {
		return def
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return def
	}
	var out T
	if err := json.Unmarshal(encoded, &out); err != nil {
		return def
	}
	return out
}

// PublicService reads active content for public pages.
type PublicService interface {
	LoadPage(ctx context.Context, pageSlug string) Page
}

type publicService struct {
	repo   Repository
	logger interfaces.Logger
}

// NewPublicService constructs the public read path.
func NewPublicService(repo Repository, logger interfaces.Logger) PublicService {
	return &publicService{repo: repo, logger: logging.Ensure(logger)}
}

// LoadPage never fails. Store errors are logged and yield an empty page so
// callers fall back to their defaults.
func (s *publicService) LoadPage(ctx context.Context, pageSlug string) Page {
	slug := strings.TrimSpace(pageSlug)
	page := Page{Slug: slug, Records: []*Record{}}
	if slug == "" {
		return page
	}
	records, err := s.repo.List(ctx, ListOptions{PageSlug: slug, ActiveOnly: true})
	if err != nil {
		s.logger.Warn("content.page.load_failed", "page", slug, "error", err)
		return page
	}
	page.Records = records
	return page
}
