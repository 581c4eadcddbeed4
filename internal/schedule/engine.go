package schedule

import (
	"fmt"
	"time"

	"climate-router/internal/common/logging"
)

// Engine computes day timelines from schedule entries. It holds no state
// across calls: CompileRange is a pure function of its inputs plus the
// configured time zone, which fixes day-boundary semantics for the whole
// computation.
type Engine struct {
	loc    *time.Location
	logger logging.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the engine logger.
func WithEngineLogger(logger logging.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine pinned to the given time zone.
func NewEngine(loc *time.Location, opts ...EngineOption) *Engine {
	e := &Engine{
		loc:    loc,
		logger: logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CompileRange computes the timeline for every day in [from, to), both
// given as ISO dates. Validation happens up front and the call is
// all-or-nothing: no partial timeline is ever returned alongside an error.
func (e *Engine) CompileRange(input Input, from, to string) (Timeline, error) {
	fromDay, err := time.ParseInLocation(isoDate, from, e.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bad from date %q: %v", ErrInvalidDateRange, from, err)
	}
	toDay, err := time.ParseInLocation(isoDate, to, e.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: bad to date %q: %v", ErrInvalidDateRange, to, err)
	}
	if fromDay.After(toDay) {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidDateRange, from, to)
	}

	for _, group := range input.groups() {
		for _, entry := range group {
			if err := ValidateEntry(entry); err != nil {
				return nil, err
			}
		}
	}

	days, err := e.expand(input, fromDay, toDay)
	if err != nil {
		return nil, err
	}

	timeline := make(Timeline, len(days))
	for date, list := range days {
		timeline[date] = compileDay(list)
	}

	e.logger.Debug("Compiled schedule timeline",
		logging.String("from", from),
		logging.String("to", to),
		logging.Int("days", len(timeline)),
	)
	return timeline, nil
}

// ActiveSlot returns the slot covering the given instant on its day's
// timeline, or nil when the timeline has no slot for that moment.
func (e *Engine) ActiveSlot(timeline Timeline, at time.Time) *Slot {
	local := at.In(e.loc)
	slots := timeline[local.Format(isoDate)]
	now := fmt.Sprintf("%02d:%02d", local.Hour(), local.Minute())
	for i := range slots {
		if slots[i].TimeStart <= now && now < slots[i].TimeEnd {
			return &slots[i]
		}
	}
	return nil
}
