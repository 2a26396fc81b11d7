package seed

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"time"

	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

// ErrRepositoryRequired is returned when the importer has no store.
var ErrRepositoryRequired = errors.New("seed: content repository is required")

// BodyField receives the rendered markdown body.
const BodyField = "body_html"

// Allowlist reports whether a section may exist on a page.
type Allowlist interface {
	Allowed(pageSlug, sectionKey string) bool
}

// Report summarises an import run.
type Report struct {
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
	Errors  []error  `json:"-"`
}

// Err joins every per-document failure.
func (r *Report) Err() error {
	return errors.Join(r.Errors...)
}

// Option configures the importer.
type Option func(*Importer)

func WithRenderer(renderer *Renderer) Option {
	return func(i *Importer) {
		if renderer != nil {
			i.renderer = renderer
		}
	}
}

// WithAllowlist skips documents naming sections a page does not allow.
func WithAllowlist(allow Allowlist) Option {
	return func(i *Importer) {
		i.allow = allow
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(i *Importer) {
		i.logger = logging.Ensure(logger)
	}
}

// Importer upserts section documents into the content store. Record ids are
// derived from page and section so re-running an import updates in place.
type Importer struct {
	repo     content.Repository
	renderer *Renderer
	allow    Allowlist
	logger   interfaces.Logger
}

func NewImporter(repo content.Repository, opts ...Option) *Importer {
	i := &Importer{
		repo:     repo,
		renderer: NewRenderer(RenderOptions{}),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportDirectory loads root from fsys and imports every document.
func (i *Importer) ImportDirectory(ctx context.Context, fsys fs.FS, root string) (*Report, error) {
	docs, err := LoadDirectory(ctx, fsys, root, "")
	if err != nil {
		return nil, err
	}
	return i.Import(ctx, docs)
}

// Import upserts docs. Failures are collected per document and the run
// continues; the returned error is non-nil only when nothing could be done.
func (i *Importer) Import(ctx context.Context, docs []*Document) (*Report, error) {
	if i.repo == nil {
		return nil, ErrRepositoryRequired
	}
	report := &Report{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		label := doc.PageSlug + "/" + doc.SectionKey
		if i.allow != nil && !i.allow.Allowed(doc.PageSlug, doc.SectionKey) {
			i.logger.Warn("seed.section.not_allowed", "path", doc.Path, "section", label)
			report.Skipped = append(report.Skipped, label)
			continue
		}
		created, err := i.upsert(ctx, doc)
		if err != nil {
			i.logger.Error("seed.section.failed", "path", doc.Path, "section", label, "error", err)
			report.Errors = append(report.Errors, fmt.Errorf("%s: %w", doc.Path, err))
			continue
		}
		if created {
			report.Created = append(report.Created, label)
		} else {
			report.Updated = append(report.Updated, label)
		}
	}
	i.logger.Info("seed.import.completed",
		"created", len(report.Created),
		"updated", len(report.Updated),
		"skipped", len(report.Skipped),
		"failed", len(report.Errors),
	)
	return report, nil
}

func (i *Importer) upsert(ctx context.Context, doc *Document) (bool, error) {
	payload := maps.Clone(doc.Content)
	if payload == nil {
		payload = map[string]any{}
	}
	if len(doc.Body) > 0 {
		html, err := i.renderer.Render(doc.Body)
		if err != nil {
			return false, err
		}
		payload[BodyField] = html
	}

	id := identity.SectionUUID(doc.PageSlug, doc.SectionKey)
	existing, err := i.repo.GetByID(ctx, id)
	if err != nil {
		var notFound *content.NotFoundError
		if !errors.As(err, &notFound) {
			return false, err
		}
		_, err = i.repo.Create(ctx, &content.Record{
			ID:         id,
			PageSlug:   doc.PageSlug,
			SectionKey: doc.SectionKey,
			Content:    payload,
			SortOrder:  doc.SortOrder,
			IsActive:   doc.Active,
			Version:    1,
		})
		return err == nil, err
	}

	next := *existing
	next.Content = payload
	next.SortOrder = doc.SortOrder
	next.IsActive = doc.Active
	next.Version = existing.Version + 1
	next.UpdatedAt = time.Now().UTC()
	if _, err := i.repo.Update(ctx, &next, existing.Version); err != nil {
		return false, err
	}
	return false, nil
}
