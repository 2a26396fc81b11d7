package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
	"github.com/google/uuid"
)

func newService(t *testing.T) identity.Service {
	t.Helper()
	db := testsupport.NewBunDB(t, (*identity.User)(nil), (*identity.UserRole)(nil))
	return identity.NewService(identity.NewBunRepository(db))
}

func provision(t *testing.T, svc identity.Service, email string, role identity.Role) *identity.User {
	t.Helper()
	user, err := svc.Provision(context.Background(), email, role)
	if err != nil {
		t.Fatalf("provision %s: %v", email, err)
	}
	return user
}

func TestProvisionIsIdempotent(t *testing.T) {
	svc := newService(t)
	first := provision(t, svc, "Admin@Example.org", identity.RoleEditor)
	second := provision(t, svc, "admin@example.org ", identity.RoleAdmin)

	if first.ID != second.ID {
		t.Fatalf("expected same id, got %s and %s", first.ID, second.ID)
	}
	if first.ID != identity.UserUUID("admin@example.org") {
		t.Fatalf("expected id derived from email")
	}
	ok, err := svc.IsAdmin(context.Background(), second.ID)
	if err != nil || !ok {
		t.Fatalf("expected admin after re-provision, got %v %v", ok, err)
	}
}

func TestListRequiresAdmin(t *testing.T) {
	svc := newService(t)
	admin := provision(t, svc, "admin@example.org", identity.RoleAdmin)
	editor := provision(t, svc, "editor@example.org", identity.RoleEditor)

	if _, err := svc.List(context.Background(), editor.ID); !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.List(context.Background(), uuid.Nil); !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for anonymous caller, got %v", err)
	}

	users, err := svc.List(context.Background(), admin.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, user := range users {
		if len(user.Roles) != 1 {
			t.Fatalf("expected one role for %s, got %v", user.Email, user.Roles)
		}
	}
}

func TestUpdateRoleReplacesRoles(t *testing.T) {
	svc := newService(t)
	admin := provision(t, svc, "admin@example.org", identity.RoleAdmin)
	user := provision(t, svc, "user@example.org", identity.RoleUser)

	updated, err := svc.UpdateRole(context.Background(), admin.ID, user.ID, identity.RoleEditor)
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if !updated.HasRole(identity.RoleEditor) || updated.HasRole(identity.RoleUser) {
		t.Fatalf("unexpected roles %v", updated.Roles)
	}

	if _, err := svc.UpdateRole(context.Background(), admin.ID, user.ID, identity.Role("owner")); !errors.Is(err, identity.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), admin.ID, uuid.New(), identity.RoleAdmin); !errors.Is(err, identity.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), user.ID, admin.ID, identity.RoleUser); !errors.Is(err, identity.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeleteRejectsSelf(t *testing.T) {
	svc := newService(t)
	admin := provision(t, svc, "admin@example.org", identity.RoleAdmin)
	other := provision(t, svc, "other@example.org", identity.RoleEditor)

	if err := svc.Delete(context.Background(), admin.ID, admin.ID); !errors.Is(err, identity.ErrSelfDeletion) {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin.ID, other.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), admin.ID, other.ID); !errors.Is(err, identity.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
	ok, err := svc.IsAdmin(context.Background(), other.ID)
	if err != nil || ok {
		t.Fatalf("expected deleted user to hold no roles, got %v %v", ok, err)
	}
}

func TestParseRole(t *testing.T) {
	if role, err := identity.ParseRole(" Editor "); err != nil || role != identity.RoleEditor {
		t.Fatalf("expected editor, got %q %v", role, err)
	}
	if _, err := identity.ParseRole("root"); !errors.Is(err, identity.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestDeterministicIDs(t *testing.T) {
	if identity.UUID("  ") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key")
	}
	a := identity.SectionUUID("home", "hero")
	b := identity.SectionUUID(" HOME ", "Hero")
	if a != b || a == uuid.Nil {
		t.Fatalf("expected stable section id, got %s and %s", a, b)
	}
	if a == identity.SectionUUID("about", "hero") {
		t.Fatalf("expected distinct ids per page")
	}
}
