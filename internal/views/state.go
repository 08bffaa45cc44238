// Package views derives every projection the presentation layer renders:
// filtered/sorted/paginated transaction lists and the chart-ready
// aggregates. Everything here is pure; inputs are never mutated and nothing
// is cached, so a recompute after any state change is always consistent.
package views

import (
	"time"

	"github.com/jask/pocketledger/internal/model"
)

// DateFilterKind selects the date-range filter variant.
type DateFilterKind string

const (
	DateNone   DateFilterKind = "none"
	DateOn     DateFilterKind = "on"
	DateBefore DateFilterKind = "before"
	DateAfter  DateFilterKind = "after"
	DateRange  DateFilterKind = "range"
)

// DateFilter is a day-granularity date constraint. Start is the single
// reference day for on/before/after; range uses Start..End inclusive.
type DateFilter struct {
	Kind  DateFilterKind
	Start time.Time
	End   time.Time
}

// SortConfig holds the active sort column and direction. An empty column
// means unsorted (insertion order, which is newest-first).
type SortConfig struct {
	Column    string
	Ascending bool
}

// State is the ephemeral filter/sort/page state owned by the dataset
// service on behalf of its caller. It is reset on logout and never
// persisted.
type State struct {
	Month    string // "All" or a "Jan 2006" label
	Search   string
	Type     model.TxType // "" = all
	Category string       // "" = all
	Date     DateFilter
	Sort     SortConfig
	Page     int
	PageSize int
}

// NewState returns the default view state.
func NewState() State {
	return State{
		Month:    "All",
		Date:     DateFilter{Kind: DateNone},
		Sort:     SortConfig{Ascending: true},
		Page:     1,
		PageSize: model.DefaultPageSize,
	}
}

// ToggleSort applies the column-header click semantics: a repeated request
// on the active column flips direction, a new column resets to ascending.
func (s *State) ToggleSort(column string) {
	if s.Sort.Column == column {
		s.Sort.Ascending = !s.Sort.Ascending
		return
	}
	s.Sort = SortConfig{Column: column, Ascending: true}
}
