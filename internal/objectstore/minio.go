package objectstore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig configures an S3 compatible endpoint.
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Region        string
	PublicBaseURL string
}

// MinioStore stores objects on an S3 compatible service.
type MinioStore struct {
	client *minio.Client
	region string
	urls   *URLBuilder
}

// NewMinioStore connects a client. No request is made until first use.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: minio client: %w", err)
	}
	base := strings.TrimSpace(cfg.PublicBaseURL)
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return &MinioStore{client: client, region: cfg.Region, urls: NewURLBuilder(base)}, nil
}

// EnsureBuckets creates any bucket that does not exist yet.
func (s *MinioStore) EnsureBuckets(ctx context.Context, buckets ...string) error {
	for _, bucket := range buckets {
		exists, err := s.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("objectstore: check bucket %s: %w", bucket, err)
		}
		if exists {
			continue
		}
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
			return fmt.Errorf("objectstore: create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

func (s *MinioStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (Object, error) {
	if err := checkRef(bucket, key); err != nil {
		return Object{}, err
	}
	info, err := s.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("objectstore: put %s/%s: %w", bucket, key, err)
	}
	return Object{
		Bucket:      bucket,
		Key:         key,
		Size:        info.Size,
		ContentType: contentType,
		ModifiedAt:  info.LastModified,
	}, nil
}

func (s *MinioStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, Object, error) {
	if err := checkRef(bucket, key); err != nil {
		return nil, Object{}, err
	}
	stat, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, Object{}, mapMinioError(err, bucket, key)
	}
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, Object{}, mapMinioError(err, bucket, key)
	}
	return obj, toObject(bucket, stat), nil
}

// Remove deletes key. S3 reports success for absent keys, so the object is
// checked first to return ErrObjectNotFound like MemoryStore does.
func (s *MinioStore) Remove(ctx context.Context, bucket, key string) error {
	if err := checkRef(bucket, key); err != nil {
		return err
	}
	if _, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{}); err != nil {
		return mapMinioError(err, bucket, key)
	}
	if err := s.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapMinioError(err, bucket, key)
	}
	return nil
}

func (s *MinioStore) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	out := make([]Object, 0)
	for info := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		WithMetadata: true,
	}) {
		if info.Err != nil {
			return nil, fmt.Errorf("objectstore: list %s: %w", bucket, info.Err)
		}
		out = append(out, toObject(bucket, info))
	}
	return out, nil
}

func (s *MinioStore) SignedURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if err := checkRef(bucket, key); err != nil {
		return "", err
	}
	signed, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", mapMinioError(err, bucket, key)
	}
	return signed.String(), nil
}

func (s *MinioStore) PublicURL(bucket, key string) string {
	built, err := s.urls.Object(bucket, key)
	if err != nil {
		return ""
	}
	return built
}

func toObject(bucket string, info minio.ObjectInfo) Object {
	contentType := info.ContentType
	if contentType == "" {
		contentType = info.UserMetadata["content-type"]
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(path.Ext(info.Key))
	}
	return Object{
		Bucket:      bucket,
		Key:         info.Key,
		Size:        info.Size,
		ContentType: contentType,
		ModifiedAt:  info.LastModified,
	}
}

func mapMinioError(err error, bucket, key string) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s/%s", ErrObjectNotFound, bucket, key)
	}
	return fmt.Errorf("objectstore: %s/%s: %w", bucket, key, err)
}
