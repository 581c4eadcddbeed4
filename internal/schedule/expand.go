package schedule

import (
	"time"

	"github.com/teambition/rrule-go"
)

const isoDate = "2006-01-02"

// dateOnly normalizes a timestamp to midnight of its calendar date in loc.
func dateOnly(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// buildRules precomputes a recurrence rule per filtered default/recurring
// entry. The rule encodes both the validity window and the day filter, so
// a single occurrence check answers applicability for a given day.
func (e *Engine) buildRules(input Input) (map[string]*rrule.RRule, error) {
	rules := make(map[string]*rrule.RRule)
	for _, group := range [][]Entry{input.Defaults, input.Recurring} {
		for _, entry := range group {
			if entry.DayFilter == DayFilterNone {
				continue
			}
			weekdays := []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}
			if entry.DayFilter == DayFilterWeekend {
				weekdays = []rrule.Weekday{rrule.SA, rrule.SU}
			}
			rule, err := rrule.NewRRule(rrule.ROption{
				Freq:      rrule.DAILY,
				Dtstart:   dateOnly(entry.ValidFrom, e.loc),
				Until:     dateOnly(entry.ValidUntil, e.loc),
				Byweekday: weekdays,
			})
			if err != nil {
				return nil, &MalformedEntryError{ID: entry.ID, Reason: "cannot build recurrence: " + err.Error()}
			}
			rules[entry.ID] = rule
		}
	}
	return rules, nil
}

// applies answers the per-day applicability test. Once and till-next
// entries without a date are catch-alls and apply to any day the engine
// asks about; filtered entries delegate to their recurrence rule.
func (e *Engine) applies(entry Entry, day time.Time, rule *rrule.RRule) bool {
	switch entry.Type {
	case TypeOnce, TypeTillNext:
		return entry.Date == "" || entry.Date == day.Format(isoDate)
	default:
		if rule != nil {
			return len(rule.Between(day, day, true)) > 0
		}
		from := dateOnly(entry.ValidFrom, e.loc)
		until := dateOnly(entry.ValidUntil, e.loc)
		return !day.Before(from) && !day.After(until)
	}
}

// expand walks the date range day by day and builds each day's resolved
// candidate list. Groups are processed in fixed order (defaults,
// recurring, once, till-next) and entries in input order within a group.
// An entry joins at most one day per pass; the visited set carries that
// state instead of a flag on the entry itself, keeping inputs immutable.
func (e *Engine) expand(input Input, from, to time.Time) (map[string][]*candidate, error) {
	rules, err := e.buildRules(input)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	days := make(map[string][]*candidate)

	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(isoDate)
		for _, group := range input.groups() {
			for _, entry := range group {
				if visited[entry.ID] || !e.applies(entry, day, rules[entry.ID]) {
					continue
				}
				visited[entry.ID] = true
				days[key] = insert(days[key], newCandidate(entry))
			}
		}
	}
	return days, nil
}
