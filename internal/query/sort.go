package query

import "strings"

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection defaults to Asc.
func ParseDirection(value string) Direction {
	if strings.EqualFold(strings.TrimSpace(value), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortState is the sort a listing currently shows.
type SortState struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// Toggle returns the state after a click on field: the same field flips
// direction, a new field sorts ascending.
func (s SortState) Toggle(field string) SortState {
	if s.Field == field {
		if s.Direction == Desc {
			return SortState{Field: field, Direction: Asc}
		}
		return SortState{Field: field, Direction: Desc}
	}
	return SortState{Field: field, Direction: Asc}
}

// By builds a Less from a key comparison, reversed for Desc. Equal keys
// report false in both directions so stable sorting keeps input order.
func By[T any](direction Direction, compare func(a, b T) int) Less[T] {
	return func(a, b T) bool {
		c := compare(a, b)
		if direction == Desc {
			return c > 0
		}
		return c < 0
	}
}
