package sitecmd

import (
	"context"

	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/contact"
	"github.com/goliatone/go-sitecms/internal/submissions"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/google/uuid"
)

// StatusSetter is the part of the submissions service the status command needs.
type StatusSetter interface {
	SetStatus(ctx context.Context, id uuid.UUID, status submissions.Status) (*submissions.Submission, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*submissions.Submission, error)
}

// ReadMarker is the part of the contact service the read command needs.
type ReadMarker interface {
	MarkRead(ctx context.Context, id uuid.UUID, read bool) (*contact.Message, error)
}

// ContentReloader refreshes the admin content snapshot.
type ContentReloader interface {
	LoadAll(ctx context.Context) ([]*content.Record, error)
}

// SetSubmissionStatusHandler executes SetSubmissionStatusCommand.
type SetSubmissionStatusHandler struct {
	inner *commands.Handler[SetSubmissionStatusCommand]
}

func NewSetSubmissionStatusHandler(svc StatusSetter, logger interfaces.Logger, opts ...commands.HandlerOption[SetSubmissionStatusCommand]) *SetSubmissionStatusHandler {
	exec := func(ctx context.Context, msg SetSubmissionStatusCommand) error {
		if msg.Toggle {
			_, err := svc.ToggleStatus(ctx, msg.SubmissionID)
			return err
		}
		_, err := svc.SetStatus(ctx, msg.SubmissionID, msg.Status)
		return err
	}
	handlerOpts := []commands.HandlerOption[SetSubmissionStatusCommand]{
		commands.WithLogger[SetSubmissionStatusCommand](logger),
		commands.WithOperation[SetSubmissionStatusCommand]("submissions.set_status"),
	}
	return &SetSubmissionStatusHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

func (h *SetSubmissionStatusHandler) Execute(ctx context.Context, msg SetSubmissionStatusCommand) error {
	return h.inner.Execute(ctx, msg)
}

// MarkMessageReadHandler executes MarkMessageReadCommand.
type MarkMessageReadHandler struct {
	inner *commands.Handler[MarkMessageReadCommand]
}

func NewMarkMessageReadHandler(svc ReadMarker, logger interfaces.Logger, opts ...commands.HandlerOption[MarkMessageReadCommand]) *MarkMessageReadHandler {
	exec := func(ctx context.Context, msg MarkMessageReadCommand) error {
		_, err := svc.MarkRead(ctx, msg.MessageID, msg.Read)
		return err
	}
	handlerOpts := []commands.HandlerOption[MarkMessageReadCommand]{
		commands.WithLogger[MarkMessageReadCommand](logger),
		commands.WithOperation[MarkMessageReadCommand]("contact.mark_read"),
	}
	return &MarkMessageReadHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

func (h *MarkMessageReadHandler) Execute(ctx context.Context, msg MarkMessageReadCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ReloadContentHandler executes ReloadContentCommand.
type ReloadContentHandler struct {
	inner *commands.Handler[ReloadContentCommand]
}

func NewReloadContentHandler(svc ContentReloader, logger interfaces.Logger, opts ...commands.HandlerOption[ReloadContentCommand]) *ReloadContentHandler {
	exec := func(ctx context.Context, _ ReloadContentCommand) error {
		_, err := svc.LoadAll(ctx)
		return err
	}
	handlerOpts := []commands.HandlerOption[ReloadContentCommand]{
		commands.WithLogger[ReloadContentCommand](logger),
		commands.WithOperation[ReloadContentCommand]("content.reload"),
	}
	return &ReloadContentHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}
}

func (h *ReloadContentHandler) Execute(ctx context.Context, msg ReloadContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
