package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	info Object
	data []byte
}

// MemoryStore keeps objects in process memory. Signed URLs carry an expiry
// query parameter but are not verifiable.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]map[string]memoryObject
	urls    *URLBuilder
	now     func() time.Time
}

// NewMemoryStore creates an empty store whose public URLs are rooted at
// baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "http://localhost/storage"
	}
	return &MemoryStore{
		objects: make(map[string]map[string]memoryObject),
		urls:    NewURLBuilder(baseURL),
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (Object, error) {
	if err := checkRef(bucket, key); err != nil {
		return Object{}, err
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return Object{}, fmt.Errorf("objectstore: read body: %w", err)
	}
	info := Object{
		Bucket:      bucket,
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
		ModifiedAt:  m.now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects[bucket] == nil {
		m.objects[bucket] = make(map[string]memoryObject)
	}
	m.objects[bucket][key] = memoryObject{info: info, data: data}
	return info, nil
}

func (m *MemoryStore) Get(_ context.Context, bucket, key string) (io.ReadCloser, Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[bucket][key]
	if !ok {
		return nil, Object{}, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.info, nil
}

func (m *MemoryStore) Remove(_ context.Context, bucket, key string) error {
	if err := checkRef(bucket, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[bucket][key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects[bucket], key)
	return nil
}

func (m *MemoryStore) List(_ context.Context, bucket, prefix string) ([]Object, error) {
	if bucket == "" {
		return nil, ErrBucketRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Object, 0, len(m.objects[bucket]))
	for key, obj := range m.objects[bucket] {
		if strings.HasPrefix(key, prefix) {
			out = append(out, obj.info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *MemoryStore) SignedURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[bucket][key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	base, err := m.urls.Object(bucket, key)
	if err != nil {
		return "", err
	}
	query := url.Values{}
	query.Set("expires", m.now().Add(ttl).UTC().Format(time.RFC3339))
	return base + "?" + query.Encode(), nil
}

func (m *MemoryStore) PublicURL(bucket, key string) string {
	built, err := m.urls.Object(bucket, key)
	if err != nil {
		return ""
	}
	return built
}
