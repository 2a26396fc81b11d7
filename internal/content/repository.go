package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrVersionConflict reports an update against a stale version.
var ErrVersionConflict = errors.New("content: record was modified by another editor")

// ListOptions scopes a repository listing. Results are ordered by page slug
// then sort order.
type ListOptions struct {
	PageSlug   string
	SectionKey string
	ActiveOnly bool
}

// Repository is the content store.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]*Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Create(ctx context.Context, record *Record) (*Record, error)
	// Update overwrites the record. When expectedVersion is positive the
	// write only applies if the stored version still matches.
	Update(ctx context.Context, record *Record, expectedVersion int) (*Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewRecordRepository builds the go-repository-bun repository for records.
func NewRecordRepository(db *bun.DB) repository.Repository[*Record] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Record]{
		NewRecord: func() *Record { return &Record{} },
		GetID: func(r *Record) uuid.UUID {
			return r.ID
		},
		SetID: func(r *Record, id uuid.UUID) {
			r.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(r *Record) string {
			if r == nil {
				return ""
			}
			return r.ID.String()
		},
	})
}

// BunRepository stores records in the page_content table.
type BunRepository struct {
	db     *bun.DB
	repo   repository.Repository[*Record]
	cached bool
}

// NewBunRepository creates a repository without caching.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache wraps reads with go-repository-cache when both
// a cache service and a key serializer are supplied.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	base := NewRecordRepository(db)
	cached := false
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		cached = true
	}
	return &BunRepository{db: db, repo: base, cached: cached}
}

func (r *BunRepository) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	slug := strings.TrimSpace(opts.PageSlug)
	key := strings.TrimSpace(opts.SectionKey)
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if slug != "" {
				q = q.Where("?TableAlias.page_slug = ?", slug)
			}
			if key != "" {
				q = q.Where("?TableAlias.section_key = ?", key)
			}
			if opts.ActiveOnly {
				q = q.Where("?TableAlias.is_active = ?", true)
			}
			return q.OrderExpr("?TableAlias.page_slug ASC, ?TableAlias.sort_order ASC, ?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("page_content repository error: %w", err)
	}
	return records, nil
}

func (r *BunRepository) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "page_content", id.String())
	}
	return record, nil
}

func (r *BunRepository) Create(ctx context.Context, record *Record) (*Record, error) {
	return r.repo.Create(ctx, record)
}

func (r *BunRepository) Update(ctx context.Context, record *Record, expectedVersion int) (*Record, error) {
	query := r.db.NewUpdate().
		Model(record).
		Column(updateColumns...).
		WherePK()
	if expectedVersion > 0 {
		query = query.Where("version = ?", expectedVersion)
	}
	result, err := query.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("page_content repository error: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		if _, getErr := r.GetByID(ctx, record.ID); getErr != nil {
			return nil, getErr
		}
		return nil, ErrVersionConflict
	}
	if r.cached {
		// replay through the cached repository so its entries are invalidated
		if _, err := r.repo.Update(ctx, record, repository.UpdateColumns(updateColumns...)); err != nil {
			return nil, fmt.Errorf("page_content repository error: %w", err)
		}
	}
	stored := &Record{}
	if err := r.db.NewSelect().Model(stored).Where("?TableAlias.id = ?", record.ID).Scan(ctx); err != nil {
		return nil, fmt.Errorf("page_content repository error: %w", err)
	}
	return stored, nil
}

var updateColumns = []string{"content", "sort_order", "is_active", "version", "updated_at"}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return r.repo.Delete(ctx, &Record{ID: id})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
