package institutions

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-sitecms/internal/content"
	"github.com/goliatone/go-sitecms/internal/query"
)

// PageSlug is the content page holding the directory sections.
const PageSlug = "institutions"

// PageSize is the fixed directory page size.
const PageSize = 10

// Sort fields accepted by the directory.
const (
	SortName     = "name"
	SortLocation = "location"
	SortRegion   = "region"
	SortUnion    = "union"
	SortType     = "type"
)

// Catalog is the directory content grouped by category.
type Catalog struct {
	byCategory map[Category][]Institution
}

type sectionBody struct {
	Institutions []json.RawMessage `json:"institutions"`
}

// Assemble reads each category section from page. Sections that are missing
// or whose institutions value is not a list contribute nothing. Entries are
// decoded one at a time so a malformed entry only drops itself.
func Assemble(page content.Page) Catalog {
	catalog := Catalog{byCategory: make(map[Category][]Institution)}
	for _, category := range Categories() {
		raw, ok := page.Raw(string(category))
		if !ok {
			continue
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			continue
		}
		var body sectionBody
		if err := json.Unmarshal(encoded, &body); err != nil {
			continue
		}
		list := make([]Institution, 0, len(body.Institutions))
		for _, entry := range body.Institutions {
			if trimmed := bytes.TrimSpace(entry); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
				continue
			}
			var inst Institution
			if err := json.Unmarshal(entry, &inst); err != nil {
				continue
			}
			inst.Category = category
			list = append(list, inst)
		}
		catalog.byCategory[category] = list
	}
	return catalog
}

// NewCatalog builds a catalog directly from per-category lists.
func NewCatalog(lists map[Category][]Institution) Catalog {
	catalog := Catalog{byCategory: make(map[Category][]Institution, len(lists))}
	for category, list := range lists {
		items := slices.Clone(list)
		for i := range items {
			items[i].Category = category
		}
		catalog.byCategory[category] = items
	}
	return catalog
}

// Source returns the list for category. CategoryAll concatenates every
// category in display order.
func (c Catalog) Source(category Category) []Institution {
	if category != CategoryAll {
		return slices.Clone(c.byCategory[category])
	}
	out := make([]Institution, 0)
	for _, cat := range Categories() {
		out = append(out, c.byCategory[cat]...)
	}
	return out
}

// Counts returns the number of entries per category, including CategoryAll.
func (c Catalog) Counts() map[Category]int {
	counts := map[Category]int{CategoryAll: 0}
	for _, cat := range Categories() {
		counts[cat] = len(c.byCategory[cat])
		counts[CategoryAll] += len(c.byCategory[cat])
	}
	return counts
}

// Unions returns the distinct union values across all categories, sorted.
func (c Catalog) Unions() []string {
	seen := map[string]struct{}{}
	for _, item := range c.Source(CategoryAll) {
		if item.Union == "" {
			continue
		}
		seen[item.Union] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for union := range seen {
		out = append(out, union)
	}
	sort.Strings(out)
	return out
}

// Filter is the directory view state.
type Filter struct {
	Category Category
	Union    string
	Search   string
	Sort     query.SortState
	Page     int
}

// WithCategory changes the category and returns to page 1.
func (f Filter) WithCategory(category Category) Filter {
	f.Category = category
	f.Page = 1
	return f
}

// WithUnion changes the union facet and returns to page 1.
func (f Filter) WithUnion(union string) Filter {
	f.Union = union
	f.Page = 1
	return f
}

// WithSearch changes the search text and returns to page 1.
func (f Filter) WithSearch(search string) Filter {
	f.Search = search
	f.Page = 1
	return f
}

// ToggleSort applies a click on a sort column.
func (f Filter) ToggleSort(field string) Filter {
	f.Sort = f.Sort.Toggle(field)
	return f
}

// Query runs the directory pipeline over the catalog.
func (c Catalog) Query(f Filter) query.Result[Institution] {
	category := f.Category
	if category == "" {
		category = CategoryAll
	}
	return f.query().Apply(c.Source(category))
}

func (f Filter) query() query.Query[Institution] {
	q := query.Query[Institution]{Page: f.Page, PageSize: PageSize}

	if union := strings.TrimSpace(f.Union); union != "" && union != "all" {
		q.Predicates = append(q.Predicates, func(item Institution) bool {
			return item.Union == union
		})
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		q.Predicates = append(q.Predicates, func(item Institution) bool {
			return query.ContainsFold(item.Name, search) ||
				query.ContainsFold(item.Location, search) ||
				query.ContainsFold(item.Region, search)
		})
	}
	if key := sortKey(f.Sort.Field); key != nil {
		q.Less = query.By(f.Sort.Direction, func(a, b Institution) int {
			return query.CompareFold(key(a), key(b))
		})
	}
	return q
}

func sortKey(field string) func(Institution) string {
	switch field {
	case SortName:
		return func(i Institution) string { return i.Name }
	case SortLocation:
		return func(i Institution) string { return i.Location }
	case SortRegion:
		return func(i Institution) string { return i.Region }
	case SortUnion:
		return func(i Institution) string { return i.Union }
	case SortType:
		return func(i Institution) string { return i.Type }
	}
	return nil
}
