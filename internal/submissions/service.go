package submissions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/objectstore"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

var (
	ErrNoValidUploads     = errors.New("submissions: at least one upload needs a form type and a file")
	ErrAllUploadsFailed   = errors.New("submissions: every upload failed")
	ErrInvalidStatus      = errors.New("submissions: invalid status")
	ErrInvalidFormType    = errors.New("submissions: invalid form type")
	ErrFileTooLarge       = errors.New("submissions: file exceeds the size limit")
	ErrSubmissionNotFound = errors.New("submissions: submission not found")
	ErrFileNotFound       = errors.New("submissions: file not found")
)

const (
	submissionValidationCode = "SUBMISSION_VALIDATION_FAILED"
	defaultBucket            = "form-submissions"
	defaultMaxFileSize       = 10 << 20
	defaultSignedURLTTL      = 15 * time.Minute
)

// Applicant holds the personal details of a submission.
type Applicant struct {
	LastName   string `json:"last_name"`
	OtherNames string `json:"other_names"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

func (a Applicant) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.LastName, validation.Required, validation.Length(1, 120)),
		validation.Field(&a.OtherNames, validation.Required, validation.Length(1, 200)),
		validation.Field(&a.Phone, validation.Required, validation.Length(3, 40)),
		validation.Field(&a.Email, validation.Required, is.EmailFormat),
	)
}

// Upload is one form-type selector with its file. Entries without a form
// type or a file are skipped.
type Upload struct {
	FormType    FormType
	FileName    string
	ContentType string
	Description string
	Body        io.Reader
}

func (u Upload) ready() bool {
	return u.FormType != "" && u.Body != nil && strings.TrimSpace(u.FileName) != ""
}

// SubmitRequest is an application form post.
type SubmitRequest struct {
	Applicant Applicant
	Uploads   []Upload
}

// FileResult is the outcome of one upload, in request order.
type FileResult struct {
	Index    int      `json:"index"`
	FileName string   `json:"file_name"`
	FormType FormType `json:"form_type"`
	File     *File    `json:"file,omitempty"`
	Err      error    `json:"-"`
	Error    string   `json:"error,omitempty"`
}

// OK reports whether the file was stored.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// SubmitResult reports the submission and every per-file outcome.
type SubmitResult struct {
	Submission *Submission  `json:"submission"`
	Files      []FileResult `json:"files"`
}

// Failed returns the uploads that were not stored.
func (r SubmitResult) Failed() []FileResult {
	out := make([]FileResult, 0)
	for _, f := range r.Files {
		if !f.OK() {
			out = append(out, f)
		}
	}
	return out
}

// Service runs the submission workflow.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)
	List(ctx context.Context) ([]*Submission, error)
	Get(ctx context.Context, id uuid.UUID) (*Submission, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Submission, error)
	ToggleStatus(ctx context.Context, id uuid.UUID) (*Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DownloadURL(ctx context.Context, fileID uuid.UUID, ttl time.Duration) (string, error)
}

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithBucket overrides the storage bucket.
func WithBucket(bucket string) ServiceOption {
	return func(s *service) {
		if strings.TrimSpace(bucket) != "" {
			s.bucket = bucket
		}
	}
}

// WithMaxFileSize limits each upload in bytes.
func WithMaxFileSize(limit int64) ServiceOption {
	return func(s *service) {
		if limit > 0 {
			s.maxFileSize = limit
		}
	}
}

// WithRollbackOnTotalFailure deletes the submission when no upload was
// stored.
func WithRollbackOnTotalFailure(enabled bool) ServiceOption {
	return func(s *service) {
		s.rollback = enabled
	}
}

// WithSignedURLTTL sets the default download link lifetime.
func WithSignedURLTTL(ttl time.Duration) ServiceOption {
	return func(s *service) {
		if ttl > 0 {
			s.signedTTL = ttl
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.Ensure(logger)
	}
}

func WithActivityEmitter(emitter *activity.Emitter) ServiceOption {
	return func(s *service) {
		s.activity = emitter
	}
}

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

type service struct {
	repo        Repository
	store       objectstore.Store
	bucket      string
	maxFileSize int64
	rollback    bool
	signedTTL   time.Duration
	logger      interfaces.Logger
	activity    *activity.Emitter
	now         func() time.Time
}

// NewService constructs the submission workflow.
func NewService(repo Repository, store objectstore.Store, opts ...ServiceOption) Service {
	s := &service{
		repo:        repo,
		store:       store,
		bucket:      defaultBucket,
		maxFileSize: defaultMaxFileSize,
		signedTTL:   defaultSignedURLTTL,
		logger:      logging.NoOp(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores the submission row, then uploads each ready file in order.
// A failed upload is recorded in the result and the next file is tried.
func (s *service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	applicant := normalizeApplicant(req.Applicant)
	if err := applicant.Validate(); err != nil {
		return nil, wrapValidation(err)
	}
	ready := make([]int, 0, len(req.Uploads))
	for i, upload := range req.Uploads {
		if !upload.ready() {
			continue
		}
		if _, err := ParseFormType(string(upload.FormType)); err != nil {
			return nil, wrapValidation(validation.Errors{
				fmt.Sprintf("uploads[%d].form_type", i): validation.NewError("validation_form_type", err.Error()),
			})
		}
		ready = append(ready, i)
	}
	if len(ready) == 0 {
		return nil, wrapValidation(ErrNoValidUploads)
	}

	sub, err := s.repo.CreateSubmission(ctx, &Submission{
		ID:         uuid.New(),
		LastName:   applicant.LastName,
		OtherNames: applicant.OtherNames,
		Phone:      applicant.Phone,
		Email:      applicant.Email,
		Status:     StatusPending,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("submissions.create_failed", "error", err)
		return nil, err
	}
	logger := logging.WithFields(s.logger, map[string]any{"submission_id": sub.ID.String()})

	result := &SubmitResult{Submission: sub, Files: make([]FileResult, 0, len(ready))}
	stored := 0
	for _, idx := range ready {
		upload := req.Uploads[idx]
		fr := FileResult{Index: idx, FileName: upload.FileName, FormType: upload.FormType}
		file, err := s.storeFile(ctx, sub.ID, idx, upload)
		if err != nil {
			logger.Warn("submissions.file.upload_failed", "file", upload.FileName, "error", err)
			fr.Err = err
			fr.Error = err.Error()
		} else {
			fr.File = file
			stored++
		}
		result.Files = append(result.Files, fr)
	}
	sub.Files = make([]*File, 0, stored)
	for _, fr := range result.Files {
		if fr.File != nil {
			sub.Files = append(sub.Files, fr.File)
		}
	}
	sub.FileCount = stored

	if stored == 0 && s.rollback {
		if err := s.repo.DeleteSubmission(ctx, sub.ID); err != nil {
			logger.Error("submissions.rollback_failed", "error", err)
			return result, errors.Join(ErrAllUploadsFailed, err)
		}
		logger.Warn("submissions.rolled_back")
		return result, ErrAllUploadsFailed
	}

	logger.Info("submissions.created", "files", stored, "failed", len(ready)-stored)
	return result, nil
}

func (s *service) storeFile(ctx context.Context, submissionID uuid.UUID, idx int, upload Upload) (*File, error) {
	data, err := io.ReadAll(io.LimitReader(upload.Body, s.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", upload.FileName, err)
	}
	if int64(len(data)) > s.maxFileSize {
		return nil, ErrFileTooLarge
	}
	contentType := strings.TrimSpace(upload.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	key := s.objectKey(submissionID, idx, upload.FileName)
	if _, err := s.store.Put(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	file, err := s.repo.CreateFile(ctx, &File{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		FormType:     upload.FormType,
		FileURL:      s.store.PublicURL(s.bucket, key),
		FileName:     upload.FileName,
		FileSize:     int64(len(data)),
		Description:  strings.TrimSpace(upload.Description),
		StorageKey:   key,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if rmErr := s.store.Remove(ctx, s.bucket, key); rmErr != nil {
			s.logger.Warn("submissions.file.orphaned", "key", key, "error", rmErr)
		}
		return nil, err
	}
	return file, nil
}

// objectKey namespaces a file under its submission with a timestamped,
// sanitized name. The request index keeps same-named uploads apart.
func (s *service) objectKey(submissionID uuid.UUID, idx int, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem := strings.TrimSuffix(base, path.Ext(base))
	clean, err := slug.Normalize(stem)
	if err != nil || clean == "" {
		clean = "file"
	}
	if !validExtension(ext) {
		ext = ""
	}
	return fmt.Sprintf("%s/%d-%d-%s%s", submissionID, s.now().UnixMilli(), idx, clean, ext)
}

func validExtension(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func (s *service) List(ctx context.Context) ([]*Submission, error) {
	subs, err := s.repo.ListSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CountFiles(ctx)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		sub.FileCount = counts[sub.ID]
	}
	return subs, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Submission, error) {
	sub, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	files, err := s.repo.ListFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Files = files
	sub.FileCount = len(files)
	return sub, nil
}

// SetStatus persists status immediately and returns the updated submission.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status Status) (*Submission, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, wrapValidation(err)
	}
	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, mapNotFound(err)
	}
	s.logger.Info("submissions.status.updated", "id", id, "status", status)
	s.activity.Emit(ctx, "update_status", "form_submission", id.String(), map[string]any{"status": string(status)})
	return updated, nil
}

func (s *service) ToggleStatus(ctx context.Context, id uuid.UUID) (*Submission, error) {
	current, err := s.repo.GetSubmission(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return s.SetStatus(ctx, id, current.Status.Toggle())
}

// Delete removes stored files best effort, then the rows.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	files, err := s.repo.ListFiles(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.repo.GetSubmission(ctx, id); err != nil {
		return mapNotFound(err)
	}
	for _, file := range files {
		if err := s.store.Remove(ctx, s.bucket, file.StorageKey); err != nil && !errors.Is(err, objectstore.ErrObjectNotFound) {
			s.logger.Warn("submissions.file.remove_failed", "key", file.StorageKey, "error", err)
		}
	}
	if err := s.repo.DeleteSubmission(ctx, id); err != nil {
		return mapNotFound(err)
	}
	s.logger.Info("submissions.deleted", "id", id, "files", len(files))
	s.activity.Emit(ctx, "delete", "form_submission", id.String(), nil)
	return nil
}

// DownloadURL issues a time-limited link to a stored file. A zero ttl uses
// the configured default.
func (s *service) DownloadURL(ctx context.Context, fileID uuid.UUID, ttl time.Duration) (string, error) {
	file, err := s.repo.GetFile(ctx, fileID)
	if err != nil {
		return "", mapNotFound(err)
	}
	if ttl <= 0 {
		ttl = s.signedTTL
	}
	return s.store.SignedURL(ctx, s.bucket, file.StorageKey, ttl)
}

func normalizeApplicant(a Applicant) Applicant {
	a.LastName = strings.TrimSpace(a.LastName)
	a.OtherNames = strings.TrimSpace(a.OtherNames)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Email = strings.TrimSpace(a.Email)
	return a
}

func wrapValidation(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "submission invalid").
		WithTextCode(submissionValidationCode)
}

func mapNotFound(err error) error {
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return err
	}
	if notFound.Resource == "form_submission_file" {
		return errors.Join(ErrFileNotFound, err)
	}
	return errors.Join(ErrSubmissionNotFound, err)
}
