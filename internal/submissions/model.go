package submissions

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status is the review state of a submission. Both transitions are allowed
// in either direction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Toggle returns the other status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// ParseStatus accepts pending or completed.
func ParseStatus(value string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(value))) {
	case StatusPending:
		return StatusPending, nil
	case StatusCompleted:
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

// FormType is the kind of document attached to a submission.
type FormType string

const (
	FormBond       FormType = "bond"
	FormStudyLeave FormType = "study_leave"
	FormAppraisal  FormType = "appraisal"
	FormInterview  FormType = "interview"
)

// FormTypes lists the accepted form types.
func FormTypes() []FormType {
	return []FormType{FormBond, FormStudyLeave, FormAppraisal, FormInterview}
}

// ParseFormType accepts one of FormTypes.
func ParseFormType(value string) (FormType, error) {
	candidate := FormType(strings.ToLower(strings.TrimSpace(value)))
	for _, ft := range FormTypes() {
		if ft == candidate {
			return ft, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormType, value)
}

// Submission is one applicant's form submission.
type Submission struct {
	bun.BaseModel `bun:"table:form_submissions,alias:fs"`

	ID         uuid.UUID `bun:",pk,type:uuid"                                         json:"id"`
	LastName   string    `bun:"last_name,notnull"                                     json:"last_name"`
	OtherNames string    `bun:"other_names,notnull"                                   json:"other_names"`
	Phone      string    `bun:"phone,notnull"                                         json:"phone"`
	Email      string    `bun:"email,notnull"                                         json:"email"`
	Status     Status    `bun:"status,notnull,default:'pending'"                      json:"status"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`

	Files     []*File `bun:"-" json:"files,omitempty"`
	FileCount int     `bun:"-" json:"file_count"`
}

// File is the metadata of one uploaded document.
type File struct {
	bun.BaseModel `bun:"table:form_submission_files,alias:fsf"`

	ID           uuid.UUID `bun:",pk,type:uuid"                                         json:"id"`
	SubmissionID uuid.UUID `bun:"submission_id,notnull,type:uuid"                       json:"submission_id"`
	FormType     FormType  `bun:"form_type,notnull"                                     json:"form_type"`
	FileURL      string    `bun:"file_url,notnull"                                      json:"file_url"`
	FileName     string    `bun:"file_name,notnull"                                     json:"file_name"`
	FileSize     int64     `bun:"file_size,notnull"                                     json:"file_size"`
	Description  string    `bun:"description"                                           json:"description,omitempty"`
	StorageKey   string    `bun:"storage_key,notnull"                                   json:"-"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}
