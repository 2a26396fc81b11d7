package media

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
	"github.com/goliatone/go-sitecms/internal/activity"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/internal/objectstore"
	"github.com/goliatone/go-sitecms/internal/query"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
	"github.com/goliatone/go-slug"
)

var (
	ErrFileNotFound = errors.New("media: file not found")
	ErrNameRequired = errors.New("media: file name is required")
	ErrFileTooLarge = errors.New("media: file exceeds the size limit")
	ErrEmptyUpload  = errors.New("media: file is empty")
)

const (
	// PageSize is the fixed library page size.
	PageSize = 20

	defaultBucket      = "cms-media"
	defaultMaxFileSize = 25 << 20
)

// Category groups files by MIME type.
type Category string

const (
	CategoryAll      Category = "all"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryDocument Category = "document"
	CategoryOther    Category = "other"
)

// CategoryFor classifies a MIME type.
func CategoryFor(mimeType string) Category {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return CategoryImage
	case strings.HasPrefix(mt, "video/"):
		return CategoryVideo
	case strings.HasPrefix(mt, "audio/"):
		return CategoryAudio
	}
	for _, marker := range []string{"pdf", "document", "word", "text"} {
		if strings.Contains(mt, marker) {
			return CategoryDocument
		}
	}
	return CategoryOther
}

// File is a stored media object.
type File struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	MimeType  string    `json:"mime_type"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	Category  Category  `json:"category"`
}

// Sort fields.
const (
	SortName = "name"
	SortDate = "date"
	SortSize = "size"
)

// Filter is the library view state.
type Filter struct {
	Category Category
	Search   string
	Sort     query.SortState
	Page     int
}

// Library manages the media bucket.
type Library interface {
	List(ctx context.Context, filter Filter) (query.Result[File], error)
	Upload(ctx context.Context, name string, body io.Reader) (File, error)
	Delete(ctx context.Context, name string) error
	PublicURL(name string) string
}

// Option configures the library.
type Option func(*library)

func WithBucket(bucket string) Option {
	return func(l *library) {
		if strings.TrimSpace(bucket) != "" {
			l.bucket = bucket
		}
	}
}

func WithMaxFileSize(limit int64) Option {
	return func(l *library) {
		if limit > 0 {
			l.maxFileSize = limit
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(l *library) {
		l.logger = logging.Ensure(logger)
	}
}

func WithActivityEmitter(emitter *activity.Emitter) Option {
	return func(l *library) {
		l.activity = emitter
	}
}

func WithClock(clock func() time.Time) Option {
	return func(l *library) {
		if clock != nil {
			l.now = clock
		}
	}
}

type library struct {
	store       objectstore.Store
	bucket      string
	maxFileSize int64
	logger      interfaces.Logger
	activity    *activity.Emitter
	now         func() time.Time
}

// NewLibrary constructs the media library over store.
func NewLibrary(store objectstore.Store, opts ...Option) Library {
	l := &library{
		store:       store,
		bucket:      defaultBucket,
		maxFileSize: defaultMaxFileSize,
		logger:      logging.NoOp(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// List loads the whole bucket listing and applies filter in memory.
func (l *library) List(ctx context.Context, filter Filter) (query.Result[File], error) {
	objects, err := l.store.List(ctx, l.bucket, "")
	if err != nil {
		l.logger.Error("media.list_failed", "error", err)
		return query.Result[File]{}, err
	}
	files := make([]File, 0, len(objects))
	for _, obj := range objects {
		files = append(files, l.toFile(obj))
	}
	return filter.query().Apply(files), nil
}

func (f Filter) query() query.Query[File] {
	q := query.Query[File]{Page: f.Page, PageSize: PageSize}
	if f.Category != "" && f.Category != CategoryAll {
		category := f.Category
		q.Predicates = append(q.Predicates, func(file File) bool {
			return file.Category == category
		})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q.Predicates = append(q.Predicates, func(file File) bool {
			return query.ContainsFold(file.Name, search)
		})
	}
	switch f.Sort.Field {
	case SortName:
		q.Less = query.By(f.Sort.Direction, func(a, b File) int {
			return query.CompareFold(a.Name, b.Name)
		})
	case SortDate:
		q.Less = query.By(f.Sort.Direction, func(a, b File) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortSize:
		q.Less = query.By(f.Sort.Direction, func(a, b File) int {
			switch {
			case a.Size < b.Size:
				return -1
			case a.Size > b.Size:
				return 1
			}
			return 0
		})
	}
	return q
}

// Upload stores body under a timestamped, sanitized name derived from name.
func (l *library) Upload(ctx context.Context, name string, body io.Reader) (File, error) {
	if strings.TrimSpace(name) == "" {
		return File{}, ErrNameRequired
	}
	data, err := io.ReadAll(io.LimitReader(body, l.maxFileSize+1))
	if err != nil {
		return File{}, fmt.Errorf("media: read upload: %w", err)
	}
	if len(data) == 0 {
		return File{}, ErrEmptyUpload
	}
	if int64(len(data)) > l.maxFileSize {
		return File{}, ErrFileTooLarge
	}
	mimeType := mimetype.Detect(data).String()
	key := l.objectName(name)

	obj, err := l.store.Put(ctx, l.bucket, key, bytes.NewReader(data), int64(len(data)), mimeType)
	if err != nil {
		l.logger.Error("media.upload_failed", "name", key, "error", err)
		return File{}, err
	}
	l.logger.Info("media.uploaded", "name", key, "size", obj.Size)
	l.activity.Emit(ctx, "upload", "media_file", key, map[string]any{"mime_type": mimeType, "size": obj.Size})
	return l.toFile(obj), nil
}

func (l *library) Delete(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if err := l.store.Remove(ctx, l.bucket, name); err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return err
	}
	l.logger.Info("media.deleted", "name", name)
	l.activity.Emit(ctx, "delete", "media_file", name, nil)
	return nil
}

func (l *library) PublicURL(name string) string {
	return l.store.PublicURL(l.bucket, name)
}

func (l *library) toFile(obj objectstore.Object) File {
	return File{
		Name:      obj.Key,
		URL:       l.store.PublicURL(l.bucket, obj.Key),
		MimeType:  obj.ContentType,
		Size:      obj.Size,
		CreatedAt: obj.ModifiedAt,
		Category:  CategoryFor(obj.ContentType),
	}
}

func (l *library) objectName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	stem, err := slug.Normalize(strings.TrimSuffix(base, path.Ext(base)))
	if err != nil || stem == "" {
		stem = "file"
	}
	if strings.ContainsAny(ext, " /?#%") {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", l.now().UnixMilli(), stem, ext)
}
