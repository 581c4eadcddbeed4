package schedule

import (
	"time"
)

// EntryType classifies a schedule entry. The type decides both which
// applicability discriminator is consulted (day filter versus specific
// date) and the entry's precedence during conflict resolution.
type EntryType string

const (
	TypeDefault   EntryType = "default"
	TypeRecurring EntryType = "recurring"
	TypeOnce      EntryType = "once"
	TypeTillNext  EntryType = "till_next"
)

// rank gives the total precedence order used by conflict resolution.
// Higher rank wins; ties go to the later-processed entry.
func (t EntryType) rank() int {
	switch t {
	case TypeTillNext:
		return 3
	case TypeOnce:
		return 2
	case TypeRecurring:
		return 1
	default:
		return 0
	}
}

// Valid reports whether t is one of the four known entry types.
func (t EntryType) Valid() bool {
	switch t {
	case TypeDefault, TypeRecurring, TypeOnce, TypeTillNext:
		return true
	}
	return false
}

// DayFilter restricts a default or recurring entry to part of the week.
type DayFilter string

const (
	DayFilterNone     DayFilter = ""
	DayFilterWorkweek DayFilter = "workweek"
	DayFilterWeekend  DayFilter = "weekend"
)

// Valid reports whether f is a known day filter.
func (f DayFilter) Valid() bool {
	switch f {
	case DayFilterNone, DayFilterWorkweek, DayFilterWeekend:
		return true
	}
	return false
}

// Entry is one schedule record as supplied by the caller. Entries are
// treated as immutable inputs: the engine clones them into internal
// resolution state and never writes back.
//
// Default and recurring entries use ValidFrom/ValidUntil plus DayFilter;
// once and till-next entries use Date. An entry with neither a day filter
// nor a date is a catch-all and applies throughout its validity window.
type Entry struct {
	ID         string
	Type       EntryType
	Title      string
	DeviceRef  string
	ValidFrom  time.Time
	ValidUntil time.Time
	DayFilter  DayFilter
	Date       string // ISO date (YYYY-MM-DD) for once and till-next entries
	Start      TimeOfDay
	End        TimeOfDay
	Value      float64
	CreatedAt  time.Time
}

// TimeSplit is one remaining piece of an entry that was split around a
// higher-precedence override in the middle of its window.
type TimeSplit struct {
	Start TimeOfDay
	End   TimeOfDay
}

// Input carries the four entry groups the engine consumes, in the order
// they are processed during expansion.
type Input struct {
	Defaults  []Entry
	Recurring []Entry
	Once      []Entry
	TillNext  []Entry
}

// groups returns the entry lists in processing order.
func (in Input) groups() [][]Entry {
	return [][]Entry{in.Defaults, in.Recurring, in.Once, in.TillNext}
}

// ValidateEntry checks the structural invariants of a single entry. The
// engine runs it over every input before expansion; callers accepting
// entries from the outside can run it up front for early feedback.
func ValidateEntry(e Entry) error {
	if e.ID == "" {
		return &MalformedEntryError{ID: e.ID, Reason: "missing id"}
	}
	if !e.Type.Valid() {
		return &MalformedEntryError{ID: e.ID, Reason: "unknown entry type " + string(e.Type)}
	}
	if !e.DayFilter.Valid() {
		return &MalformedEntryError{ID: e.ID, Reason: "unknown day filter " + string(e.DayFilter)}
	}
	if !e.Start.Before(e.End) {
		return &MalformedEntryError{ID: e.ID, Reason: "start time must be before end time"}
	}
	switch e.Type {
	case TypeDefault, TypeRecurring:
		if e.ValidFrom.IsZero() || e.ValidUntil.IsZero() {
			return &MalformedEntryError{ID: e.ID, Reason: "missing validity window"}
		}
		if e.ValidFrom.After(e.ValidUntil) {
			return &MalformedEntryError{ID: e.ID, Reason: "validity window starts after it ends"}
		}
	case TypeOnce, TypeTillNext:
		if e.Date != "" {
			if _, err := time.Parse(isoDate, e.Date); err != nil {
				return &MalformedEntryError{ID: e.ID, Reason: "unparseable date " + e.Date}
			}
		}
	}
	return nil
}
