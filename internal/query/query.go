package query

import (
	"errors"
	"sort"
	"strings"
)

var ErrPageOutOfRange = errors.New("query: page out of range")

// Predicate keeps an item when it returns true.
type Predicate[T any] func(T) bool

// Less orders two items.
type Less[T any] func(a, b T) bool

// Query is a filter, sort and page window over an in-memory list.
type Query[T any] struct {
	Predicates []Predicate[T]
	Less       Less[T]
	Page       int
	PageSize   int
}

// Result is one page of a query.
type Result[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// Filter applies every predicate and sorts stably. Items that compare equal
// keep their input order.
func (q Query[T]) Filter(items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if q.matches(item) {
			out = append(out, item)
		}
	}
	if q.Less != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return q.Less(out[i], out[j])
		})
	}
	return out
}

func (q Query[T]) matches(item T) bool {
	for _, keep := range q.Predicates {
		if keep != nil && !keep(item) {
			return false
		}
	}
	return true
}

// Apply filters, sorts and returns the requested page. Pages outside
// [1, TotalPages] are clamped.
func (q Query[T]) Apply(items []T) Result[T] {
	filtered := q.Filter(items)
	size := q.pageSize(len(filtered))
	totalPages := TotalPages(len(filtered), size)

	page := q.Page
	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	return window(filtered, page, size, totalPages)
}

// Window is Apply without clamping. A page outside [1, TotalPages] returns
// ErrPageOutOfRange; page 1 of an empty result is valid.
func (q Query[T]) Window(items []T) (Result[T], error) {
	filtered := q.Filter(items)
	size := q.pageSize(len(filtered))
	totalPages := TotalPages(len(filtered), size)

	if q.Page < 1 || (q.Page > totalPages && !(totalPages == 0 && q.Page == 1)) {
		return Result[T]{Items: []T{}, Total: len(filtered), Page: q.Page, PageSize: size, TotalPages: totalPages}, ErrPageOutOfRange
	}
	return window(filtered, q.Page, size, totalPages), nil
}

func (q Query[T]) pageSize(total int) int {
	if q.PageSize > 0 {
		return q.PageSize
	}
	if total == 0 {
		return 1
	}
	return total
}

func window[T any](items []T, page, size, totalPages int) Result[T] {
	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])
	return Result[T]{
		Items:      pageItems,
		Total:      len(items),
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}
}

// TotalPages is ceil(total/size).
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// ContainsFold reports whether needle occurs in haystack ignoring case. An
// empty needle matches everything.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// CompareFold orders strings case-insensitively.
func CompareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
