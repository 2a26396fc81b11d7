package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

type archiveMessage struct {
	ID string
}

func (archiveMessage) Type() string { return "site.test.archive" }

func (m archiveMessage) Validate() error {
	if m.ID == "" {
		return validation.Errors{"id": validation.NewError("id_required", "id is required")}
	}
	return nil
}

func TestHandlerRunsValidMessages(t *testing.T) {
	var seen string
	h := NewHandler(func(_ context.Context, msg archiveMessage) error {
		seen = msg.ID
		return nil
	}, WithOperation[archiveMessage]("archive"))

	if err := h.Execute(context.Background(), archiveMessage{ID: "a1"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if seen != "a1" {
		t.Fatalf("expected handler to receive a1, got %q", seen)
	}
}

func TestHandlerRejectsInvalidMessagesBeforeRunning(t *testing.T) {
	called := false
	h := NewHandler(func(context.Context, archiveMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), archiveMessage{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler(func(context.Context, archiveMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, archiveMessage{ID: "a1"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled command error, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerClassifiesExecutionErrors(t *testing.T) {
	notFound := errors.New("submission not found")
	cases := map[string]struct {
		err      error
		category goerrors.Category
	}{
		"plain":    {err: notFound, category: goerrors.CategoryCommand},
		"rejected": {err: validation.Errors{"status": errors.New("bad status")}, category: goerrors.CategoryValidation},
		"wrapped": {
			err:      goerrors.Wrap(notFound, goerrors.CategoryValidation, "domain says no"),
			category: goerrors.CategoryValidation,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := NewHandler(func(context.Context, archiveMessage) error { return tc.err })
			err := h.Execute(context.Background(), archiveMessage{ID: "a1"})
			if !goerrors.IsCategory(err, tc.category) {
				t.Fatalf("expected category %v, got %v", tc.category, err)
			}
		})
	}

	h := NewHandler(func(context.Context, archiveMessage) error { return notFound })
	if err := h.Execute(context.Background(), archiveMessage{ID: "a1"}); !errors.Is(err, notFound) {
		t.Fatalf("expected source error to stay matchable, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler(func(ctx context.Context, _ archiveMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	}, WithTimeout[archiveMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), archiveMessage{ID: "a1"})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected timeout command error, got %v", err)
	}
}
