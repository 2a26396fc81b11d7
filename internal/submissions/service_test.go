package submissions_test

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-sitecms/internal/objectstore"
	"github.com/goliatone/go-sitecms/internal/submissions"
	"github.com/goliatone/go-sitecms/pkg/testsupport"
	"github.com/google/uuid"
)

type flakyStore struct {
	*objectstore.MemoryStore
	failNames []string
	puts      int
}

func (f *flakyStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (objectstore.Object, error) {
	f.puts++
	for _, name := range f.failNames {
		if strings.Contains(path.Base(key), "-"+name) {
			return objectstore.Object{}, errors.New("storage unavailable")
		}
	}
	return f.MemoryStore.Put(ctx, bucket, key, body, size, contentType)
}

type failingRepo struct {
	submissions.Repository
}

func (failingRepo) CreateSubmission(context.Context, *submissions.Submission) (*submissions.Submission, error) {
	return nil, errors.New("insert failed")
}

func newFixture(t *testing.T, failNames ...string) (*submissions.BunRepository, *flakyStore) {
	t.Helper()
	db := testsupport.NewBunDB(t, (*submissions.Submission)(nil), (*submissions.File)(nil))
	store := &flakyStore{MemoryStore: objectstore.NewMemoryStore("https://files.example.org"), failNames: failNames}
	return submissions.NewBunRepository(db), store
}

func applicant() submissions.Applicant {
	return submissions.Applicant{LastName: "Boateng", OtherNames: "Kwame", Phone: "0244000000", Email: "kwame@example.org"}
}

func upload(ft submissions.FormType, name, body string) submissions.Upload {
	return submissions.Upload{FormType: ft, FileName: name, Body: strings.NewReader(body)}
}

func TestSubmitStoresEveryFile(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t)
	svc := submissions.NewService(repo, store)

	res, err := svc.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads: []submissions.Upload{
			upload(submissions.FormBond, "Bond Form.pdf", "%PDF-1.4 bond"),
			{FormType: submissions.FormAppraisal},
			upload(submissions.FormInterview, "letter.txt", "hello"),
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Submission.Status != submissions.StatusPending {
		t.Fatalf("expected pending status, got %s", res.Submission.Status)
	}
	if len(res.Files) != 2 || len(res.Failed()) != 0 {
		t.Fatalf("expected 2 stored files, got %+v", res.Files)
	}
	if res.Files[0].Index != 0 || res.Files[1].Index != 2 {
		t.Fatalf("expected request order to be kept, got %d,%d", res.Files[0].Index, res.Files[1].Index)
	}

	first := res.Files[0].File
	prefix := res.Submission.ID.String() + "/"
	if !strings.HasPrefix(first.StorageKey, prefix) || !strings.HasSuffix(first.StorageKey, ".pdf") || strings.Contains(first.StorageKey, " ") {
		t.Fatalf("unexpected storage key %q", first.StorageKey)
	}
	if first.FileSize != int64(len("%PDF-1.4 bond")) || first.FileName != "Bond Form.pdf" {
		t.Fatalf("unexpected file metadata %+v", first)
	}

	objects, err := store.List(ctx, "form-submissions", prefix)
	if err != nil || len(objects) != 2 {
		t.Fatalf("expected 2 stored objects, got %d (%v)", len(objects), err)
	}
	if objects[0].ContentType == "" {
		t.Fatalf("expected detected content type")
	}

	got, err := svc.Get(ctx, res.Submission.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FileCount != 2 || len(got.Files) != 2 {
		t.Fatalf("expected 2 files on detail, got %d", len(got.Files))
	}
}

func TestSubmitKeepsSameNamedUploadsApart(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t)
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := submissions.NewService(repo, store, submissions.WithClock(func() time.Time { return fixed }))

	res, err := svc.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads: []submissions.Upload{
			upload(submissions.FormBond, "scan.pdf", "BOND-CONTENT"),
			upload(submissions.FormAppraisal, "scan.pdf", "APPRAISAL-CONTENT"),
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(res.Files) != 2 || len(res.Failed()) != 0 {
		t.Fatalf("expected 2 stored files, got %+v", res.Files)
	}
	bond, appraisal := res.Files[0].File, res.Files[1].File
	if bond.StorageKey == appraisal.StorageKey || bond.FileURL == appraisal.FileURL {
		t.Fatalf("expected distinct objects, both use %q", bond.StorageKey)
	}

	objects, err := store.List(ctx, "form-submissions", res.Submission.ID.String()+"/")
	if err != nil || len(objects) != 2 {
		t.Fatalf("expected 2 stored objects, got %d (%v)", len(objects), err)
	}
	for key, want := range map[string]string{bond.StorageKey: "BOND-CONTENT", appraisal.StorageKey: "APPRAISAL-CONTENT"} {
		body, _, err := store.Get(ctx, "form-submissions", key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		data, _ := io.ReadAll(body)
		body.Close()
		if string(data) != want {
			t.Fatalf("object %s: expected %q, got %q", key, want, data)
		}
	}
}

func TestSubmitRejectsWithoutReadyUploads(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t)
	svc := submissions.NewService(repo, store)

	_, err := svc.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads: []submissions.Upload{
			{FormType: submissions.FormBond},
			{FileName: "cv.pdf", Body: strings.NewReader("x")},
		},
	})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	subs, _ := svc.List(ctx)
	if len(subs) != 0 || store.puts != 0 {
		t.Fatalf("expected no store calls, got %d submissions and %d puts", len(subs), store.puts)
	}
}

func TestSubmitAbortsWhenSubmissionInsertFails(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t)
	svc := submissions.NewService(failingRepo{Repository: repo}, store)

	_, err := svc.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads:   []submissions.Upload{upload(submissions.FormBond, "a.pdf", "a")},
	})
	if err == nil {
		t.Fatalf("expected insert failure")
	}
	if store.puts != 0 {
		t.Fatalf("expected zero uploads, got %d", store.puts)
	}
	counts, err := repo.CountFiles(ctx)
	if err != nil || len(counts) != 0 {
		t.Fatalf("expected zero file rows, got %v (%v)", counts, err)
	}
}

func TestSubmitContinuesAfterFailedUpload(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t, "broken")
	svc := submissions.NewService(repo, store)

	res, err := svc.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads: []submissions.Upload{
			upload(submissions.FormBond, "broken.pdf", "a"),
			upload(submissions.FormStudyLeave, "leave.pdf", "b"),
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	failed := res.Failed()
	if len(failed) != 1 || failed[0].FileName != "broken.pdf" || failed[0].Error == "" {
		t.Fatalf("expected one reported failure, got %+v", failed)
	}

	got, err := svc.Get(ctx, res.Submission.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Files) != 1 || got.Files[0].FormType != submissions.FormStudyLeave {
		t.Fatalf("expected one stored file row, got %+v", got.Files)
	}
	if got.Status != submissions.StatusPending {
		t.Fatalf("expected pending status, got %s", got.Status)
	}
}

func TestSubmitRollsBackWhenEveryUploadFails(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t, "a", "b")

	kept := submissions.NewService(repo, store)
	res, err := kept.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads:   []submissions.Upload{upload(submissions.FormBond, "a.pdf", "a")},
	})
	if err != nil {
		t.Fatalf("without rollback the submission is kept: %v", err)
	}
	if _, err := kept.Get(ctx, res.Submission.ID); err != nil {
		t.Fatalf("expected submission to exist: %v", err)
	}

	rolling := submissions.NewService(repo, store, submissions.WithRollbackOnTotalFailure(true))
	res, err = rolling.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads:   []submissions.Upload{upload(submissions.FormBond, "b.pdf", "b")},
	})
	if !errors.Is(err, submissions.ErrAllUploadsFailed) {
		t.Fatalf("expected ErrAllUploadsFailed, got %v", err)
	}
	if _, err := rolling.Get(ctx, res.Submission.ID); !errors.Is(err, submissions.ErrSubmissionNotFound) {
		t.Fatalf("expected rolled back submission, got %v", err)
	}
}

func TestSubmitRejectsOversizedFiles(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t)
	svc := submissions.NewService(repo, store, submissions.WithMaxFileSize(4))

	res, err := svc.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads:   []submissions.Upload{upload(submissions.FormBond, "big.pdf", "0123456789")},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if failed := res.Failed(); len(failed) != 1 || !errors.Is(failed[0].Err, submissions.ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %+v", failed)
	}
}

func TestStatusTogglesBothWays(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t)
	svc := submissions.NewService(repo, store)

	res, err := svc.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads:   []submissions.Upload{upload(submissions.FormBond, "a.pdf", "a")},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	id := res.Submission.ID

	want := []submissions.Status{submissions.StatusCompleted, submissions.StatusPending, submissions.StatusCompleted}
	for i, status := range want {
		updated, err := svc.ToggleStatus(ctx, id)
		if err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
		if updated.Status != status {
			t.Fatalf("toggle %d: expected %s, got %s", i, status, updated.Status)
		}
		detail, err := svc.Get(ctx, id)
		if err != nil || detail.Status != status {
			t.Fatalf("toggle %d: detail shows %v (%v)", i, detail, err)
		}
	}

	if _, err := svc.SetStatus(ctx, id, submissions.Status("archived")); err == nil {
		t.Fatalf("expected invalid status error")
	}
	if _, err := svc.ToggleStatus(ctx, uuid.New()); !errors.Is(err, submissions.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestDeleteAndDownload(t *testing.T) {
	ctx := context.Background()
	repo, store := newFixture(t)
	svc := submissions.NewService(repo, store)

	res, err := svc.Submit(ctx, submissions.SubmitRequest{
		Applicant: applicant(),
		Uploads:   []submissions.Upload{upload(submissions.FormBond, "a.pdf", "a")},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	fileID := res.Files[0].File.ID

	link, err := svc.DownloadURL(ctx, fileID, time.Minute)
	if err != nil {
		t.Fatalf("download url: %v", err)
	}
	if !strings.Contains(link, "expires=") {
		t.Fatalf("expected signed link, got %q", link)
	}

	if err := svc.Delete(ctx, res.Submission.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	objects, _ := store.List(ctx, "form-submissions", "")
	if len(objects) != 0 {
		t.Fatalf("expected stored files to be removed, got %d", len(objects))
	}
	if _, err := svc.DownloadURL(ctx, fileID, 0); !errors.Is(err, submissions.ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, res.Submission.ID); !errors.Is(err, submissions.ErrSubmissionNotFound) {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}
