package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/logging"
	cmsvalidation "github.com/goliatone/go-sitecms/internal/validation"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	ErrSectionExists     = errors.New("content: section already exists on page")
	ErrSectionNotAllowed = errors.New("content: section is not available for page")
	ErrRecordNotFound    = errors.New("content: record not found")
	ErrEmptyUpdate       = errors.New("content: update has no changes")
)

const contentValidationCode = "CONTENT_VALIDATION_FAILED"

// SectionCatalog is the per-page allow-list of editable sections.
type SectionCatalog interface {
	Allowed(pageSlug, sectionKey string) bool
	Schema(pageSlug, sectionKey string) map[string]any
}

// CreateRequest adds a section to a page.
type CreateRequest struct {
	PageSlug   string
	SectionKey string
	Content    map[string]any
	SortOrder  int
}

// Validate checks required fields.
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PageSlug, validation.Required),
		validation.Field(&r.SectionKey, validation.Required),
		validation.Field(&r.SortOrder, validation.Min(0)),
	)
}

// UpdateRequest is a partial update. Nil fields are left unchanged. When
// ExpectedVersion is set the update fails with ErrVersionConflict if the
// record changed since the caller loaded it.
type UpdateRequest struct {
	Content         map[string]any
	IsActive        *bool
	SortOrder       *int
	ExpectedVersion *int
}

func (r UpdateRequest) empty() bool {
	return r.Content == nil && r.IsActive == nil && r.SortOrder == nil
}

// AdminService is the admin view of page content. It keeps a snapshot of
// every record which each mutation refreshes.
type AdminService interface {
	LoadAll(ctx context.Context) ([]*Record, error)
	Records() []*Record
	FilterByPage(pageSlug string) []*Record
	FilterBySection(pageSlug, sectionKey string) []*Record
	Create(ctx context.Context, req CreateRequest) (*Record, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminOption configures the admin service.
type AdminOption func(*adminService)

// WithCatalog enables the section allow-list and schemas.
func WithCatalog(catalog SectionCatalog) AdminOption {
	return func(s *adminService) {
		s.catalog = catalog
	}
}

// WithSchemaValidation toggles content validation on write.
func WithSchemaValidation(enabled bool) AdminOption {
	return func(s *adminService) {
		s.validateSchemas = enabled
	}
}

// WithVersionCheck toggles enforcement of UpdateRequest.ExpectedVersion.
func WithVersionCheck(enabled bool) AdminOption {
	return func(s *adminService) {
		s.versionCheck = enabled
	}
}

// WithAdminLogger sets the logger.
func WithAdminLogger(logger interfaces.Logger) AdminOption {
	return func(s *adminService) {
		s.logger = logging.Ensure(logger)
	}
}

// WithActivityEmitter sets the audit emitter.
func WithActivityEmitter(emitter *activity.Emitter) AdminOption {
	return func(s *adminService) {
		s.activity = emitter
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) AdminOption {
	return func(s *adminService) {
		if clock != nil {
			s.now = clock
		}
	}
}

type adminService struct {
	repo            Repository
	catalog         SectionCatalog
	validateSchemas bool
	versionCheck    bool
	logger          interfaces.Logger
	activity        *activity.Emitter
	now             func() time.Time

	mu       sync.RWMutex
	snapshot []*Record
}

// NewAdminService constructs the admin content service.
func NewAdminService(repo Repository, opts ...AdminOption) AdminService {
	s := &adminService{
		repo:            repo,
		validateSchemas: true,
		versionCheck:    true,
		logger:          logging.NoOp(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll replaces the snapshot. On failure the previous snapshot stays in
// place and the error is returned.
func (s *adminService) LoadAll(ctx context.Context) ([]*Record, error) {
	records, err := s.repo.List(ctx, ListOptions{})
	if err != nil {
		s.logger.Warn("content.load_all.failed", "error", err)
		return s.Records(), err
	}
	s.mu.Lock()
	s.snapshot = cloneRecords(records)
	s.mu.Unlock()
	return cloneRecords(records), nil
}

func (s *adminService) Records() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.snapshot)
}

func (s *adminService) FilterByPage(pageSlug string) []*Record {
	return s.filter(func(rec *Record) bool {
		return rec.PageSlug == pageSlug
	})
}

func (s *adminService) FilterBySection(pageSlug, sectionKey string) []*Record {
	return s.filter(func(rec *Record) bool {
		return rec.PageSlug == pageSlug && rec.SectionKey == sectionKey
	})
}

func (s *adminService) filter(keep func(*Record) bool) []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0)
	for _, rec := range s.snapshot {
		if keep(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	return out
}

func (s *adminService) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	req.PageSlug = strings.TrimSpace(req.PageSlug)
	req.SectionKey = strings.TrimSpace(req.SectionKey)
	if err := req.Validate(); err != nil {
		return nil, wrapValidation(err)
	}
	if s.catalog != nil && !s.catalog.Allowed(req.PageSlug, req.SectionKey) {
		return nil, fmt.Errorf("%w: %s/%s", ErrSectionNotAllowed, req.PageSlug, req.SectionKey)
	}

	existing, err := s.repo.List(ctx, ListOptions{PageSlug: req.PageSlug, SectionKey: req.SectionKey})
	if err != nil {
		s.logger.Error("content.section.create_failed", "page", req.PageSlug, "section", req.SectionKey, "error", err)
		return nil, err
	}
	if len(existing) > 0 {
		return nil, ErrSectionExists
	}

	body := req.Content
	if body == nil {
		body = map[string]any{}
	}
	if err := s.validateContent(req.PageSlug, req.SectionKey, body, true); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &Record{
		ID:         uuid.New(),
		PageSlug:   req.PageSlug,
		SectionKey: req.SectionKey,
		Content:    cloneContent(body),
		SortOrder:  req.SortOrder,
		IsActive:   true,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		s.logger.Error("content.section.create_failed", "page", req.PageSlug, "section", req.SectionKey, "error", err)
		return nil, err
	}
	s.logger.Info("content.section.created", "id", created.ID, "page", created.PageSlug, "section", created.SectionKey)
	s.activity.Emit(ctx, "create", "page_content", created.ID.String(), map[string]any{
		"page_slug":   created.PageSlug,
		"section_key": created.SectionKey,
	})
	s.reload(ctx)
	return cloneRecord(created), nil
}

func (s *adminService) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Record, error) {
	if req.empty() {
		return nil, ErrEmptyUpdate
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		return nil, wrapValidation(validation.Errors{"sort_order": validation.NewError("validation_min_greater_equal_than_required", "must be no less than 0")})
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	expected := 0
	if s.versionCheck && req.ExpectedVersion != nil {
		expected = *req.ExpectedVersion
		if current.Version != expected {
			return nil, ErrVersionConflict
		}
	}

	next := cloneRecord(current)
	if req.Content != nil {
		if err := s.validateContent(current.PageSlug, current.SectionKey, req.Content, false); err != nil {
			return nil, err
		}
		next.Content = cloneContent(req.Content)
	}
	if req.IsActive != nil {
		next.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		next.SortOrder = *req.SortOrder
	}
	next.Version = current.Version + 1
	next.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, next, expected)
	if err != nil {
		s.logger.Error("content.section.update_failed", "id", id, "error", err)
		return nil, mapNotFound(err)
	}
	s.logger.Info("content.section.updated", "id", id, "version", updated.Version)
	s.activity.Emit(ctx, "update", "page_content", id.String(), map[string]any{
		"page_slug":   updated.PageSlug,
		"section_key": updated.SectionKey,
		"version":     updated.Version,
	})
	s.reload(ctx)
	return cloneRecord(updated), nil
}

func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("content.section.delete_failed", "id", id, "error", err)
		return mapNotFound(err)
	}
	s.logger.Info("content.section.deleted", "id", id)
	s.activity.Emit(ctx, "delete", "page_content", id.String(), nil)
	s.reload(ctx)
	return nil
}

// reload refreshes the snapshot after a write. The write already succeeded,
// so a failed reload only leaves the snapshot stale.
func (s *adminService) reload(ctx context.Context) {
	_, _ = s.LoadAll(ctx)
}

func (s *adminService) validateContent(pageSlug, sectionKey string, body map[string]any, partial bool) error {
	if !s.validateSchemas || s.catalog == nil {
		return nil
	}
	schema := s.catalog.Schema(pageSlug, sectionKey)
	if partial {
		// new sections start empty and are filled in by the editor
		return cmsvalidation.ValidatePartialPayload(schema, body)
	}
	return cmsvalidation.ValidatePayload(schema, body)
}

func wrapValidation(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "content request invalid").
		WithTextCode(contentValidationCode)
}

func mapNotFound(err error) error {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, notFound.Key)
	}
	return err
}
