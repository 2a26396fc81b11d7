package contact

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotFoundError reports a missing message.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contact message %q not found", e.ID)
}

// Repository stores contact messages.
type Repository interface {
	Create(ctx context.Context, msg *Message) (*Message, error)
	Get(ctx context.Context, id uuid.UUID) (*Message, error)
	List(ctx context.Context, unreadOnly bool) ([]*Message, error)
	SetRead(ctx context.Context, id uuid.UUID, read bool) (*Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context) (int, error)
}

// BunRepository stores messages in contact_messages.
type BunRepository struct {
	repo repository.Repository[*Message]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{repo: repository.MustNewRepository(db, repository.ModelHandlers[*Message]{
		NewRecord: func() *Message { return &Message{} },
		GetID: func(m *Message) uuid.UUID {
			return m.ID
		},
		SetID: func(m *Message, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(m *Message) string {
			return m.ID.String()
		},
	})}
}

func (r *BunRepository) Create(ctx context.Context, msg *Message) (*Message, error) {
	return r.repo.Create(ctx, msg)
}

func (r *BunRepository) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	msg, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id)
	}
	return msg, nil
}

func (r *BunRepository) List(ctx context.Context, unreadOnly bool) ([]*Message, error) {
	messages, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if unreadOnly {
				q = q.Where("?TableAlias.is_read = ?", false)
			}
			return q.OrderExpr("?TableAlias.created_at DESC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("contact repository: %w", err)
	}
	return messages, nil
}

func (r *BunRepository) SetRead(ctx context.Context, id uuid.UUID, read bool) (*Message, error) {
	msg, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.IsRead = read
	updated, err := r.repo.Update(ctx, msg, repository.UpdateColumns("is_read"))
	if err != nil {
		return nil, fmt.Errorf("contact repository: %w", err)
	}
	return updated, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return r.repo.Delete(ctx, &Message{ID: id})
}

func (r *BunRepository) CountUnread(ctx context.Context) (int, error) {
	unread, err := r.List(ctx, true)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

func mapRepositoryError(err error, id uuid.UUID) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{ID: id}
	}
	return fmt.Errorf("contact repository: %w", err)
}
