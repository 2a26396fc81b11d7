package di_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-sitecms/internal/auth"
	"github.com/goliatone/go-sitecms/internal/commands/sitecmd"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/di"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/notify"
	"github.com/goliatone/go-sitecms/internal/runtimeconfig"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
)

type recordingNotifier struct {
	sent chan notify.ContactNotification
}

func (n *recordingNotifier) ContactReceived(_ context.Context, msg notify.ContactNotification) error {
	n.sent <- msg
	return nil
}

type recordingSink struct {
	records chan interfaces.ActivityRecord
}

func (s *recordingSink) Log(_ context.Context, record interfaces.ActivityRecord) error {
	s.records <- record
	return nil
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "none"
	cfg.Auth.JWTSecret = "container-secret"
	cfg.Auth.Issuer = "site-test"
	return cfg
}

func newContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	opts = append([]di.Option{di.WithBunDB(testsupport.NewBunDB(t))}, opts...)
	container, err := di.NewContainer(context.Background(), cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })
	return container
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "oracle"
	if _, err := di.NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrDatabaseDriverUnknown) {
		t.Fatalf("expected ErrDatabaseDriverUnknown, got %v", err)
	}
}

func TestContainerWiresServices(t *testing.T) {
	sink := &recordingSink{records: make(chan interfaces.ActivityRecord, 8)}
	notifier := &recordingNotifier{sent: make(chan notify.ContactNotification, 1)}
	registry := &recordingRegistry{}

	container := newContainer(t, testConfig(),
		di.WithActivitySink(sink),
		di.WithNotifier(notifier),
		di.WithCommandRegistry(registry),
	)

	if container.TokenVerifier() == nil {
		t.Fatalf("expected token verifier")
	}
	if len(registry.handlers) != 3 {
		t.Fatalf("expected 3 registered command handlers, got %d", len(registry.handlers))
	}

	ctx := context.Background()
	msg, err := container.ContactService().Submit(ctx, contact.SubmitRequest{
		Name: "Ama", Email: "ama@example.org", Subject: "Visit", Message: "Hello",
	})
	if err != nil {
		t.Fatalf("submit contact: %v", err)
	}
	select {
	case sent := <-notifier.sent:
		if sent.Email != msg.Email {
			t.Fatalf("expected notification for %s, got %s", msg.Email, sent.Email)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected contact notification")
	}

	err = container.Commands().MarkMessageRead.Execute(ctx, sitecmd.MarkMessageReadCommand{MessageID: msg.ID, Read: true})
	if err != nil {
		t.Fatalf("mark read command: %v", err)
	}
	count, err := container.ContactService().UnreadCount(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected no unread messages, got %d %v", count, err)
	}

	admin, err := container.UserService().Provision(ctx, "admin@example.org", identity.RoleAdmin)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	editor, err := container.UserService().Provision(ctx, "editor@example.org", identity.RoleEditor)
	if err != nil {
		t.Fatalf("provision editor: %v", err)
	}
	if _, err := container.UserService().UpdateRole(ctx, admin.ID, editor.ID, identity.RoleUser); err != nil {
		t.Fatalf("update role: %v", err)
	}
	select {
	case record := <-sink.records:
		if record.Verb == "" {
			t.Fatalf("expected activity verb")
		}
	case <-time.After(time.Second):
		t.Fatalf("expected an activity record")
	}
}

func TestContainerHandlerServesPublicAndAdminRoutes(t *testing.T) {
	cfg := testConfig()
	container := newContainer(t, cfg)

	handler, err := container.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/pages/home", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public page 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/content", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected admin route 401 without token, got %d", rec.Code)
	}

	admin, err := container.UserService().Provision(context.Background(), "admin@example.org", identity.RoleAdmin)
	if err != nil {
		t.Fatalf("provision: %v", err)
	}
	token, err := auth.IssueToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, admin.ID, admin.Email, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/admin/api/content/reload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected reload 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestNewContainerRequiresJWTSecret(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.JWTSecret = " "
	if _, err := di.NewContainer(context.Background(), cfg); !errors.Is(err, runtimeconfig.ErrAuthSecretRequired) {
		t.Fatalf("expected ErrAuthSecretRequired, got %v", err)
	}
}

func TestContainerImporterSeedsContent(t *testing.T) {
	container := newContainer(t, testConfig())
	fsys := fstest.MapFS{
		"content/home/hero.md": {Data: []byte(strings.Join([]string{
			"---",
			"page: home",
			"section: hero",
			"content:",
			"  interval: 4000",
			"---",
			"Welcome to the network.",
		}, "\n"))},
	}

	report, err := container.Importer().ImportDirectory(context.Background(), fsys, "content")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(report.Created) != 1 {
		t.Fatalf("expected one created section, got %+v", report)
	}

	page := container.PageService().LoadPage(context.Background(), "home")
	if _, ok := page.Raw("hero"); !ok {
		t.Fatalf("expected seeded hero section on home page")
	}
}

func TestContainerAppliesEmbeddedMigrations(t *testing.T) {
	db := testsupport.NewBunDB(t)
	cfg := testConfig()
	container, err := di.NewContainer(context.Background(), cfg,
		di.WithBunDB(db),
		di.WithMigrations(os.DirFS("../../data/sql/migrations"), "."),
	)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	var count int
	if err := db.NewRaw("SELECT COUNT(*) FROM schema_migrations").Scan(context.Background(), &count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one applied migration, got %d", count)
	}
}
