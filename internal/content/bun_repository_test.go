package content_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
)

func newBunRepository(t *testing.T, cached bool) *content.BunRepository {
	t.Helper()
	db := testsupport.NewBunDB(t, (*content.Record)(nil))
	if !cached {
		return content.NewBunRepository(db)
	}
	cfg := repocache.DefaultConfig()
	cfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	return content.NewBunRepositoryWithCache(db, cacheService, repocache.NewDefaultKeySerializer())
}

func TestBunRepositoryListsActiveRecordsInOrder(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t, false)
	seedPage(t, repo)

	active, err := repo.List(ctx, content.ListOptions{PageSlug: "home", ActiveOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	keys := make([]string, 0, len(active))
	for _, rec := range active {
		keys = append(keys, rec.SectionKey)
	}
	if !reflect.DeepEqual(keys, []string{"director_message", "hero", "gallery"}) {
		t.Fatalf("unexpected order %v", keys)
	}

	all, err := repo.List(ctx, content.ListOptions{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 5 || all[0].PageSlug != "about" {
		t.Fatalf("expected 5 records starting with about, got %d", len(all))
	}
}

func TestBunRepositoryUpdateChecksVersion(t *testing.T) {
	for _, cached := range []bool{false, true} {
		t.Run(map[bool]string{false: "direct", true: "cached"}[cached], func(t *testing.T) {
			checkVersionedUpdate(t, cached)
		})
	}
}

func checkVersionedUpdate(t *testing.T, cached bool) {
	ctx := context.Background()
	repo := newBunRepository(t, cached)
	svc := content.NewAdminService(repo)

	created, err := svc.Create(ctx, content.CreateRequest{PageSlug: "home", SectionKey: "hero"})
	if err != nil {
		t.Fatalf("create (cached=%v): %v", cached, err)
	}

	saved := map[string]any{"title": "Saved", "tags": []any{"a", "b"}}
	stale := created.Version
	updated, err := svc.Update(ctx, created.ID, content.UpdateRequest{Content: saved, ExpectedVersion: &stale})
	if err != nil {
		t.Fatalf("update (cached=%v): %v", cached, err)
	}
	if updated.Version != 2 || !reflect.DeepEqual(updated.Content, saved) {
		t.Fatalf("unexpected updated record (cached=%v): %+v", cached, updated)
	}

	stored := *updated
	stored.Version = 3
	if _, err := repo.Update(ctx, &stored, stale); !errors.Is(err, content.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict (cached=%v), got %v", cached, err)
	}

	records, err := svc.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all (cached=%v): %v", cached, err)
	}
	if len(records) != 1 || !reflect.DeepEqual(records[0].Content, saved) {
		t.Fatalf("round trip mismatch (cached=%v): %+v", cached, records)
	}
}

func TestBunRepositoryKeepsNumbersExact(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t, false)
	svc := content.NewAdminService(repo)

	created, err := svc.Create(ctx, content.CreateRequest{PageSlug: "home", SectionKey: "hero"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	saved := map[string]any{
		"n":      json.Number("9007199254740993"),
		"ratio":  json.Number("0.1"),
		"slides": []any{map[string]any{"order": json.Number("12345678901234567890")}},
	}
	if _, err := svc.Update(ctx, created.ID, content.UpdateRequest{Content: saved}); err != nil {
		t.Fatalf("update: %v", err)
	}

	records, err := svc.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
	if len(records) != 1 || !reflect.DeepEqual(records[0].Content, saved) {
		t.Fatalf("reloaded content changed: %#v", records[0].Content)
	}

	stored, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	encoded, err := json.Marshal(stored.Content)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"n":9007199254740993,"ratio":0.1,"slides":[{"order":12345678901234567890}]}`
	if string(encoded) != want {
		t.Fatalf("expected %s, got %s", want, encoded)
	}
}

func TestBunRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepository(t, false)

	_, err := repo.GetByID(ctx, uuid.New())
	var notFound *content.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := repo.Delete(ctx, uuid.New()); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError on delete, got %v", err)
	}
}
