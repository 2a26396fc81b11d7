package content

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Record is one section of one page. Content carries no fixed schema; each
// consumer decodes the shape it expects.
type Record struct {
	bun.BaseModel `bun:"table:page_content,alias:pc"`

	ID         uuid.UUID      `bun:",pk,type:uuid"                         json:"id"`
	PageSlug   string         `bun:"page_slug,notnull"                     json:"page_slug"`
	SectionKey string         `bun:"section_key,notnull"                   json:"section_key"`
	Content    map[string]any `bun:"content,type:jsonb,notnull,json_use_number" json:"content"`
	SortOrder  int            `bun:"sort_order,notnull,default:0"          json:"sort_order"`
	IsActive   bool           `bun:"is_active,notnull,default:true"        json:"is_active"`
	Version    int            `bun:"version,notnull,default:1"             json:"version"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time      `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// NotFoundError reports a missing record.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

func cloneRecord(src *Record) *Record {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Content = cloneContent(src.Content)
	return &copied
}

func cloneRecords(src []*Record) []*Record {
	out := make([]*Record, 0, len(src))
	for _, rec := range src {
		out = append(out, cloneRecord(rec))
	}
	return out
}

// cloneContent deep copies a JSON document. Numbers come back as
// json.Number so integers beyond float64 precision keep their exact text.
func cloneContent(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	raw, err := json.Marshal(src)
	if err != nil {
		out := make(map[string]any, len(src))
		for k, v := range src {
			out[k] = v
		}
		return out
	}
	var out map[string]any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}
