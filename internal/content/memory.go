package content

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
	now     func() time.Time
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records: make(map[uuid.UUID]*Record),
		now:     time.Now,
	}
}

func (m *MemoryRepository) List(_ context.Context, opts ListOptions) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		if opts.PageSlug != "" && rec.PageSlug != opts.PageSlug {
			continue
		}
		if opts.SectionKey != "" && rec.SectionKey != opts.SectionKey {
			continue
		}
		if opts.ActiveOnly && !rec.IsActive {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PageSlug != out[j].PageSlug {
			return out[i].PageSlug < out[j].PageSlug
		}
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &NotFoundError{Resource: "page_content", Key: id.String()}
	}
	return cloneRecord(rec), nil
}

func (m *MemoryRepository) Create(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := cloneRecord(record)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	now := m.now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = now
	}
	if stored.Version == 0 {
		stored.Version = 1
	}
	m.records[stored.ID] = stored
	return cloneRecord(stored), nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Record, expectedVersion int) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.records[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "page_content", Key: record.ID.String()}
	}
	if expectedVersion > 0 && current.Version != expectedVersion {
		return nil, ErrVersionConflict
	}
	stored := cloneRecord(current)
	stored.Content = cloneContent(record.Content)
	stored.SortOrder = record.SortOrder
	stored.IsActive = record.IsActive
	stored.Version = record.Version
	stored.UpdatedAt = record.UpdatedAt
	m.records[stored.ID] = stored
	return cloneRecord(stored), nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return &NotFoundError{Resource: "page_content", Key: id.String()}
	}
	delete(m.records, id)
	return nil
}
