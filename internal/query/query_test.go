package query_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-sitecms/internal/query"
)

func names(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestApplyPaginates(t *testing.T) {
	q := query.Query[int]{Page: 3, PageSize: 10}
	res := q.Apply(names(23))
	if res.TotalPages != 3 || res.Total != 23 {
		t.Fatalf("expected 3 pages of 23, got %+v", res)
	}
	if !reflect.DeepEqual(res.Items, []int{21, 22, 23}) {
		t.Fatalf("unexpected last page %v", res.Items)
	}
}

func TestApplyClampsOutOfRangePages(t *testing.T) {
	items := names(23)
	low := query.Query[int]{Page: 0, PageSize: 10}.Apply(items)
	if low.Page != 1 || len(low.Items) != 10 || low.Items[0] != 1 {
		t.Fatalf("expected page 0 to clamp to 1, got %+v", low)
	}
	high := query.Query[int]{Page: 4, PageSize: 10}.Apply(items)
	if high.Page != 3 || len(high.Items) != 3 {
		t.Fatalf("expected page 4 to clamp to 3, got %+v", high)
	}
}

func TestWindowRejectsOutOfRangePages(t *testing.T) {
	items := names(23)
	for _, page := range []int{0, 4} {
		if _, err := (query.Query[int]{Page: page, PageSize: 10}).Window(items); !errors.Is(err, query.ErrPageOutOfRange) {
			t.Fatalf("page %d: expected ErrPageOutOfRange, got %v", page, err)
		}
	}
	res, err := query.Query[int]{Page: 1, PageSize: 10}.Window(nil)
	if err != nil || res.TotalPages != 0 || len(res.Items) != 0 {
		t.Fatalf("expected empty first page, got %+v %v", res, err)
	}
}

func TestFilterIntersectsPredicates(t *testing.T) {
	even := func(n int) bool { return n%2 == 0 }
	small := func(n int) bool { return n < 7 }
	got := query.Query[int]{Predicates: []query.Predicate[int]{even, small}}.Filter(names(10))
	if !reflect.DeepEqual(got, []int{2, 4, 6}) {
		t.Fatalf("unexpected filter result %v", got)
	}
}

func TestSortIsCaseInsensitiveAndStable(t *testing.T) {
	items := []string{"Zeta", "alpha", "Mike", "Alpha"}
	asc := query.Query[string]{Less: query.By(query.Asc, query.CompareFold)}.Filter(items)
	if !reflect.DeepEqual(asc, []string{"alpha", "Alpha", "Mike", "Zeta"}) {
		t.Fatalf("unexpected ascending order %v", asc)
	}
	desc := query.Query[string]{Less: query.By(query.Desc, query.CompareFold)}.Filter(items)
	if !reflect.DeepEqual(desc, []string{"Zeta", "Mike", "alpha", "Alpha"}) {
		t.Fatalf("unexpected descending order %v", desc)
	}
}

func TestSortStateToggle(t *testing.T) {
	state := query.SortState{}.Toggle("name")
	if state != (query.SortState{Field: "name", Direction: query.Asc}) {
		t.Fatalf("expected name asc, got %+v", state)
	}
	state = state.Toggle("name")
	if state.Direction != query.Desc {
		t.Fatalf("expected desc after second toggle, got %+v", state)
	}
	state = state.Toggle("location")
	if state != (query.SortState{Field: "location", Direction: query.Asc}) {
		t.Fatalf("expected new field to reset to asc, got %+v", state)
	}
}

func TestContainsFold(t *testing.T) {
	if !query.ContainsFold("Alpha Clinic", "ALPHA") || query.ContainsFold("Alpha", "zzz") || !query.ContainsFold("x", "") {
		t.Fatalf("unexpected ContainsFold result")
	}
}
