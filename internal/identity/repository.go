package identity

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotFoundError reports a missing user.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user %q not found", e.ID)
}

// Repository stores users and role assignments.
type Repository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	RolesFor(ctx context.Context, userID uuid.UUID) ([]Role, error)
	AllRoles(ctx context.Context) (map[uuid.UUID][]Role, error)
	// SetRole replaces every role of the user with role.
	SetRole(ctx context.Context, userID uuid.UUID, role Role) error
}

// BunRepository stores identities in users and user_roles.
type BunRepository struct {
	db    *bun.DB
	users repository.Repository[*User]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db: db,
		users: repository.MustNewRepository(db, repository.ModelHandlers[*User]{
			NewRecord: func() *User { return &User{} },
			GetID: func(u *User) uuid.UUID {
				return u.ID
			},
			SetID: func(u *User, id uuid.UUID) {
				u.ID = id
			},
			GetIdentifier: func() string {
				return "email"
			},
			GetIdentifierValue: func(u *User) string {
				return u.Email
			},
		}),
	}
}

func (r *BunRepository) CreateUser(ctx context.Context, user *User) (*User, error) {
	return r.users.Create(ctx, user)
}

func (r *BunRepository) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := r.users.GetByID(ctx, id.String())
	if err != nil {
		if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, fmt.Errorf("users repository: %w", err)
	}
	return user, nil
}

func (r *BunRepository) ListUsers(ctx context.Context) ([]*User, error) {
	users, _, err := r.users.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at ASC, ?TableAlias.email ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("users repository: %w", err)
	}
	return users, nil
}

func (r *BunRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetUser(ctx, id); err != nil {
		return err
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*UserRole)(nil)).Where("?TableAlias.user_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete user roles: %w", err)
		}
		if _, err := tx.NewDelete().Model((*User)(nil)).Where("?TableAlias.id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

func (r *BunRepository) RolesFor(ctx context.Context, userID uuid.UUID) ([]Role, error) {
	var rows []UserRole
	if err := r.db.NewSelect().Model(&rows).Where("?TableAlias.user_id = ?", userID).OrderExpr("?TableAlias.role ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("user_roles repository: %w", err)
	}
	roles := make([]Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, row.Role)
	}
	return roles, nil
}

func (r *BunRepository) AllRoles(ctx context.Context) (map[uuid.UUID][]Role, error) {
	var rows []UserRole
	if err := r.db.NewSelect().Model(&rows).OrderExpr("?TableAlias.role ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("user_roles repository: %w", err)
	}
	out := make(map[uuid.UUID][]Role)
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Role)
	}
	return out, nil
}

func (r *BunRepository) SetRole(ctx context.Context, userID uuid.UUID, role Role) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*UserRole)(nil)).Where("?TableAlias.user_id = ?", userID).Exec(ctx); err != nil {
			return fmt.Errorf("clear user roles: %w", err)
		}
		if _, err := tx.NewInsert().Model(&UserRole{UserID: userID, Role: role}).Exec(ctx); err != nil {
			return fmt.Errorf("insert user role: %w", err)
		}
		return nil
	})
}
