package sitecms_test

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	sitecms "github.com/goliatone/go-sitecms"
	"github.com/goliatone/go-sitecms/internal/institutions"
)

func TestModuleServesPublicRoutes(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Provider = "none"
	cfg.Database.DSN = "file:sitecms_module_test?mode=memory&cache=shared&_fk=1"

	module, err := sitecms.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	handler, err := module.Handler()
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/institutions?category=hospitals", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	listing := module.Institutions().List(context.Background(), institutions.Filter{})
	if listing.Result.Total != 0 {
		t.Fatalf("expected an empty directory without stored content, got %d", listing.Result.Total)
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	matches, err := fs.Glob(sitecms.GetMigrationsFS(), "data/sql/migrations/*.up.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("expected embedded up migrations")
	}
}
