package seed_test

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/identity"
	"github.com/goliatone/go-sitecms/internal/sections"
	"github.com/goliatone/go-sitecms/internal/seed"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
)

func TestParseDocument(t *testing.T) {
	data := testsupport.ReadFixture(t, "testdata/home/director.md")
	doc, err := seed.ParseDocument("home/director.md", data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.PageSlug != "home" || doc.SectionKey != "director_message" || doc.SortOrder != 1 || !doc.Active {
		t.Fatalf("unexpected document %+v", doc)
	}
	if doc.Content["name"] != "Dr. Kwame Asante" {
		t.Fatalf("unexpected content %#v", doc.Content)
	}
	if !strings.HasPrefix(string(doc.Body), "Our network") {
		t.Fatalf("unexpected body %q", doc.Body)
	}

	if _, err := seed.ParseDocument("x.md", []byte("---\nsection: hero\n---\n")); !errors.Is(err, seed.ErrPageMissing) {
		t.Fatalf("expected ErrPageMissing, got %v", err)
	}
	if _, err := seed.ParseDocument("x.md", []byte("---\npage: home\n---\n")); !errors.Is(err, seed.ErrSectionMissing) {
		t.Fatalf("expected ErrSectionMissing, got %v", err)
	}
}

func TestImportDirectoryUpsertsSections(t *testing.T) {
	ctx := context.Background()
	repo := content.NewMemoryRepository()
	importer := seed.NewImporter(repo, seed.WithAllowlist(sections.DefaultRegistry()))

	report, err := importer.ImportDirectory(ctx, os.DirFS("testdata"), ".")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if err := report.Err(); err != nil {
		t.Fatalf("unexpected document errors: %v", err)
	}
	if len(report.Created) != 3 || len(report.Updated) != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != "home/pricing" {
		t.Fatalf("expected pricing skipped, got %v", report.Skipped)
	}

	hero, err := repo.GetByID(ctx, identity.SectionUUID("home", "hero"))
	if err != nil {
		t.Fatalf("get hero: %v", err)
	}
	var want map[string]any
	testsupport.DecodeGolden(t, "testdata/hero.golden.json", &want)
	if !reflect.DeepEqual(hero.Content, want) {
		t.Fatalf("hero content mismatch\nwant %#v\ngot  %#v", want, hero.Content)
	}

	director, err := repo.GetByID(ctx, identity.SectionUUID("home", "director_message"))
	if err != nil {
		t.Fatalf("get director: %v", err)
	}
	body, _ := director.Content[seed.BodyField].(string)
	if !strings.Contains(body, "<strong>every region</strong>") {
		t.Fatalf("expected rendered body, got %q", body)
	}

	intro, err := repo.GetByID(ctx, identity.SectionUUID("about", "about_intro"))
	if err != nil {
		t.Fatalf("get intro: %v", err)
	}
	if intro.IsActive {
		t.Fatalf("expected intro to be inactive")
	}

	again, err := importer.ImportDirectory(ctx, os.DirFS("testdata"), ".")
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(again.Created) != 0 || len(again.Updated) != 3 {
		t.Fatalf("expected second run to update in place, got %+v", again)
	}
	hero, err = repo.GetByID(ctx, identity.SectionUUID("home", "hero"))
	if err != nil {
		t.Fatalf("get hero: %v", err)
	}
	if hero.Version != 2 {
		t.Fatalf("expected version 2 after re-import, got %d", hero.Version)
	}
}

func TestRendererSafeMode(t *testing.T) {
	source := []byte("<script>alert(1)</script>\n\nhello")
	unsafe, err := seed.NewRenderer(seed.RenderOptions{}).Render(source)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(unsafe, "<script>") {
		t.Fatalf("expected raw html kept, got %q", unsafe)
	}
	safe, err := seed.NewRenderer(seed.RenderOptions{SafeMode: true}).Render(source)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(safe, "<script>") {
		t.Fatalf("expected raw html dropped, got %q", safe)
	}
}

func TestImportRequiresRepository(t *testing.T) {
	if _, err := seed.NewImporter(nil).Import(context.Background(), nil); !errors.Is(err, seed.ErrRepositoryRequired) {
		t.Fatalf("expected ErrRepositoryRequired, got %v", err)
	}
}
