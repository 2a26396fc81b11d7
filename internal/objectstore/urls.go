package objectstore

import (
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	urlGroup  = "storage"
	urlBucket = "bucket"
)

// URLBuilder builds public object URLs under a base URL.
type URLBuilder struct {
	manager *urlkit.RouteManager
}

// NewURLBuilder registers the storage route group rooted at baseURL.
func NewURLBuilder(baseURL string) *URLBuilder {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    urlGroup,
				BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
				Paths: map[string]string{
					urlBucket: "/:bucket",
				},
			},
		},
	})
	return &URLBuilder{manager: manager}
}

// Object returns the public URL of bucket/key. Each key segment is path
// escaped.
func (b *URLBuilder) Object(bucket, key string) (built string, err error) {
	if b == nil || b.manager == nil {
		return "", fmt.Errorf("objectstore: url builder not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("objectstore: build url: %v", rec)
		}
	}()
	root, err := b.manager.Group(urlGroup).Builder(urlBucket).
		WithParam("bucket", bucket).
		Build()
	if err != nil {
		return "", err
	}
	segments := strings.Split(strings.Trim(key, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.TrimRight(root, "/") + "/" + strings.Join(segments, "/"), nil
}
