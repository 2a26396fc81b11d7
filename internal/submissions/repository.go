package submissions

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotFoundError reports a missing submission or file.
type NotFoundError struct {
	Resource string
	ID       uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Repository stores submissions and their files.
type Repository interface {
	CreateSubmission(ctx context.Context, sub *Submission) (*Submission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error)
	ListSubmissions(ctx context.Context) ([]*Submission, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Submission, error)
	DeleteSubmission(ctx context.Context, id uuid.UUID) error

	CreateFile(ctx context.Context, file *File) (*File, error)
	GetFile(ctx context.Context, id uuid.UUID) (*File, error)
	ListFiles(ctx context.Context, submissionID uuid.UUID) ([]*File, error)
	CountFiles(ctx context.Context) (map[uuid.UUID]int, error)
}

// BunRepository stores submissions in form_submissions and
// form_submission_files.
type BunRepository struct {
	db          *bun.DB
	submissions repository.Repository[*Submission]
	files       repository.Repository[*File]
}

func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db: db,
		submissions: repository.MustNewRepository(db, repository.ModelHandlers[*Submission]{
			NewRecord: func() *Submission { return &Submission{} },
			GetID: func(s *Submission) uuid.UUID {
				return s.ID
			},
			SetID: func(s *Submission, id uuid.UUID) {
				s.ID = id
			},
			GetIdentifier: func() string {
				return "id"
			},
			GetIdentifierValue: func(s *Submission) string {
				return s.ID.String()
			},
		}),
		files: repository.MustNewRepository(db, repository.ModelHandlers[*File]{
			NewRecord: func() *File { return &File{} },
			GetID: func(f *File) uuid.UUID {
				return f.ID
			},
			SetID: func(f *File, id uuid.UUID) {
				f.ID = id
			},
			GetIdentifier: func() string {
				return "id"
			},
			GetIdentifierValue: func(f *File) string {
				return f.ID.String()
			},
		}),
	}
}

func (r *BunRepository) CreateSubmission(ctx context.Context, sub *Submission) (*Submission, error) {
	return r.submissions.Create(ctx, sub)
}

func (r *BunRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	sub, err := r.submissions.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "form_submission", id)
	}
	return sub, nil
}

func (r *BunRepository) ListSubmissions(ctx context.Context) ([]*Submission, error) {
	subs, _, err := r.submissions.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.created_at DESC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("form_submission repository: %w", err)
	}
	return subs, nil
}

func (r *BunRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Submission, error) {
	sub, err := r.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}
	sub.Status = status
	updated, err := r.submissions.Update(ctx, sub, repository.UpdateColumns("status"))
	if err != nil {
		return nil, fmt.Errorf("form_submission repository: %w", err)
	}
	return updated, nil
}

// DeleteSubmission removes the submission and its file rows together.
func (r *BunRepository) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	if _, err := r.GetSubmission(ctx, id); err != nil {
		return err
	}
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*File)(nil)).
			Where("?TableAlias.submission_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete submission files: %w", err)
		}
		if _, err := tx.NewDelete().
			Model((*Submission)(nil)).
			Where("?TableAlias.id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("delete submission: %w", err)
		}
		return nil
	})
}

func (r *BunRepository) CreateFile(ctx context.Context, file *File) (*File, error) {
	return r.files.Create(ctx, file)
}

func (r *BunRepository) GetFile(ctx context.Context, id uuid.UUID) (*File, error) {
	file, err := r.files.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "form_submission_file", id)
	}
	return file, nil
}

func (r *BunRepository) ListFiles(ctx context.Context, submissionID uuid.UUID) ([]*File, error) {
	files, _, err := r.files.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.submission_id = ?", submissionID).
				OrderExpr("?TableAlias.created_at ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("form_submission_file repository: %w", err)
	}
	return files, nil
}

func (r *BunRepository) CountFiles(ctx context.Context) (map[uuid.UUID]int, error) {
	var rows []struct {
		SubmissionID uuid.UUID `bun:"submission_id"`
		Count        int       `bun:"count"`
	}
	err := r.db.NewSelect().
		Model((*File)(nil)).
		Column("submission_id").
		ColumnExpr("COUNT(*) AS count").
		Group("submission_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("form_submission_file repository: %w", err)
	}
	counts := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		counts[row.SubmissionID] = row.Count
	}
	return counts, nil
}

func mapRepositoryError(err error, resource string, id uuid.UUID) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return fmt.Errorf("%s repository: %w", resource, err)
}
