package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/google/uuid"
)

var (
	ErrForbidden    = errors.New("identity: admin role required")
	ErrSelfDeletion = errors.New("identity: cannot delete your own account")
	ErrInvalidRole  = errors.New("identity: invalid role")
	ErrUserNotFound = errors.New("identity: user not found")
)

const identityValidationCode = "IDENTITY_VALIDATION_FAILED"

// Service manages admin users. Every mutating call checks that caller holds
// the admin role.
type Service interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	RequireAdmin(ctx context.Context, caller uuid.UUID) error
	List(ctx context.Context, caller uuid.UUID) ([]*User, error)
	UpdateRole(ctx context.Context, caller, userID uuid.UUID, role Role) (*User, error)
	Delete(ctx context.Context, caller, userID uuid.UUID) error
	Provision(ctx context.Context, email string, role Role) (*User, error)
}

// ServiceOption configures the service.
type ServiceOption func(*service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		s.activity = emitter
	}
}

type service struct {
	repo     Repository
	logger   interfaces.Logger
	activity *activity.Emitter
}

// NewService constructs the identity service.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	if userID == uuid.Nil {
		return false, nil
	}
	roles, err := s.repo.RolesFor(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, role := range roles {
		if role == RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *service) RequireAdmin(ctx context.Context, caller uuid.UUID) error {
	ok, err := s.IsAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if !ok {
		return goerrors.Wrap(ErrForbidden, goerrors.CategoryAuthz, "admin role required").
			WithTextCode("ADMIN_REQUIRED")
	}
	return nil
}

func (s *service) List(ctx context.Context, caller uuid.UUID) ([]*User, error) {
	if err := s.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.repo.AllRoles(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		user.Roles = roles[user.ID]
	}
	return users, nil
}

func (s *service) UpdateRole(ctx context.Context, caller, userID uuid.UUID, role Role) (*User, error) {
	if err := s.RequireAdmin(ctx, caller); err != nil {
		return nil, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "role invalid").
			WithTextCode(identityValidationCode)
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetRole(ctx, userID, role); err != nil {
		s.logger.Error("identity.role.update_failed", "user_id", userID, "role", role, "error", err)
		return nil, err
	}
	user.Roles = []Role{role}

	s.logger.Info("identity.role.updated", "user_id", userID, "role", role)
	s.activity.Emit(activity.WithActor(ctx, caller), "role.update", "user", userID.String(), map[string]any{
		"role": string(role),
	})
	return user, nil
}

func (s *service) Delete(ctx context.Context, caller, userID uuid.UUID) error {
	if err := s.RequireAdmin(ctx, caller); err != nil {
		return err
	}
	if caller == userID {
		return goerrors.Wrap(ErrSelfDeletion, goerrors.CategoryValidation, "cannot delete your own account").
			WithTextCode("SELF_DELETION")
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
		}
		return err
	}

	s.logger.Info("identity.user.deleted", "user_id", userID)
	s.activity.Emit(activity.WithActor(ctx, caller), "user.delete", "user", userID.String(), nil)
	return nil
}

// Provision creates the user for email when missing and assigns role. The
// user id is derived from the email so repeated runs are idempotent.
func (s *service) Provision(ctx context.Context, email string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return nil, goerrors.Wrap(validation.Errors{"email": err}, goerrors.CategoryValidation, "email invalid").
			WithTextCode(identityValidationCode)
	}
	if _, err := ParseRole(string(role)); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "role invalid").
			WithTextCode(identityValidationCode)
	}

	id := UserUUID(email)
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		user, err = s.repo.CreateUser(ctx, &User{ID: id, Email: email})
		if err != nil {
			return nil, err
		}
		s.logger.Info("identity.user.created", "user_id", id, "email", email)
	}
	if err := s.repo.SetRole(ctx, id, role); err != nil {
		return nil, err
	}
	user.Roles = []Role{role}
	return user, nil
}

func (s *service) getUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
		}
		return nil, err
	}
	return user, nil
}
