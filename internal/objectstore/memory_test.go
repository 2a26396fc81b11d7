package objectstore_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-sitecms/internal/objectstore"
)

func TestMemoryStorePutListRemove(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemoryStore("https://cdn.example.org")

	if _, err := store.Put(ctx, "cms-media", "b.png", strings.NewReader("png"), 3, "image/png"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "cms-media", "a.pdf", strings.NewReader("pdf!"), 4, "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}

	objects, err := store.List(ctx, "cms-media", "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(objects) != 2 || objects[0].Key != "a.pdf" || objects[0].Size != 4 {
		t.Fatalf("unexpected listing %+v", objects)
	}

	rc, info, err := store.Get(ctx, "cms-media", "b.png")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "png" || info.ContentType != "image/png" {
		t.Fatalf("unexpected object %q %+v", body, info)
	}

	if err := store.Remove(ctx, "cms-media", "b.png"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(ctx, "cms-media", "b.png"); !errors.Is(err, objectstore.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
}

func TestMemoryStoreURLs(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemoryStore("https://cdn.example.org/")

	if got := store.PublicURL("cms-media", "photo.jpg"); got != "https://cdn.example.org/cms-media/photo.jpg" {
		t.Fatalf("unexpected public url %q", got)
	}
	if got := store.PublicURL("form-submissions", "abc/1-cv file.pdf"); got != "https://cdn.example.org/form-submissions/abc/1-cv%20file.pdf" {
		t.Fatalf("unexpected nested url %q", got)
	}

	if _, err := store.SignedURL(ctx, "form-submissions", "missing.pdf", time.Hour); !errors.Is(err, objectstore.ErrObjectNotFound) {
		t.Fatalf("expected ErrObjectNotFound, got %v", err)
	}
	if _, err := store.Put(ctx, "form-submissions", "abc/cv.pdf", strings.NewReader("x"), 1, "application/pdf"); err != nil {
		t.Fatalf("put: %v", err)
	}
	signed, err := store.SignedURL(ctx, "form-submissions", "abc/cv.pdf", time.Hour)
	if err != nil {
		t.Fatalf("signed url: %v", err)
	}
	if !strings.HasPrefix(signed, "https://cdn.example.org/form-submissions/abc/cv.pdf?expires=") {
		t.Fatalf("unexpected signed url %q", signed)
	}
}

func TestMemoryStoreRejectsMissingRefs(t *testing.T) {
	store := objectstore.NewMemoryStore("")
	if _, err := store.Put(context.Background(), "", "k", strings.NewReader(""), 0, ""); !errors.Is(err, objectstore.ErrBucketRequired) {
		t.Fatalf("expected ErrBucketRequired, got %v", err)
	}
	if _, err := store.Put(context.Background(), "b", "", strings.NewReader(""), 0, ""); !errors.Is(err, objectstore.ErrKeyRequired) {
		t.Fatalf("expected ErrKeyRequired, got %v", err)
	}
}
