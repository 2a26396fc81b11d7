package sitecmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitecms/internal/submissions"
	"github.com/google/uuid"
)

const (
	setSubmissionStatusType = "site.submissions.set_status"
	markMessageReadType     = "site.contact.mark_read"
	reloadContentType       = "site.content.reload"
)

// SetSubmissionStatusCommand moves a submission to Status, or flips the
// current status when Toggle is set.
type SetSubmissionStatusCommand struct {
	SubmissionID uuid.UUID          `json:"submission_id"`
	Status       submissions.Status `json:"status,omitempty"`
	Toggle       bool               `json:"toggle,omitempty"`
}

func (SetSubmissionStatusCommand) Type() string { return setSubmissionStatusType }

func (m SetSubmissionStatusCommand) Validate() error {
	errs := validation.Errors{}
	if m.SubmissionID == uuid.Nil {
		errs["submission_id"] = validation.NewError("site.submissions.set_status.id_required", "submission_id is required")
	}
	if !m.Toggle {
		if _, err := submissions.ParseStatus(string(m.Status)); err != nil {
			errs["status"] = validation.NewError("site.submissions.set_status.status_invalid", "status must be pending or completed")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MarkMessageReadCommand sets the read flag of a contact message.
type MarkMessageReadCommand struct {
	MessageID uuid.UUID `json:"message_id"`
	Read      bool      `json:"read"`
}

func (MarkMessageReadCommand) Type() string { return markMessageReadType }

func (m MarkMessageReadCommand) Validate() error {
	if m.MessageID == uuid.Nil {
		return validation.Errors{
			"message_id": validation.NewError("site.contact.mark_read.id_required", "message_id is required"),
		}
	}
	return nil
}

// ReloadContentCommand refreshes the admin content snapshot.
type ReloadContentCommand struct{}

func (ReloadContentCommand) Type() string { return reloadContentType }

func (ReloadContentCommand) Validate() error { return nil }
