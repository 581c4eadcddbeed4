package schedule

import (
	"sort"
	"time"
)

// Slot is one resolved timeline segment for a single day. TimeStart and
// TimeEnd are zero-padded "HH:MM" strings, so lexical order equals
// chronological order.
type Slot struct {
	ID           string    `json:"id"`
	Title        string    `json:"title,omitempty"`
	DeviceRef    string    `json:"device_ref"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	Value        float64   `json:"value"`
	IsOverridden bool      `json:"is_overridden"`
	TimeStart    string    `json:"time_start"`
	TimeEnd      string    `json:"time_end"`
	CreatedAt    time.Time `json:"created_at"`
}

// Timeline maps ISO dates (YYYY-MM-DD) to that day's ordered slots.
type Timeline map[string][]Slot

// Dates returns the timeline's dates in ascending order.
func (t Timeline) Dates() []string {
	dates := make([]string, 0, len(t))
	for date := range t {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func newSlot(c *candidate, start, end TimeOfDay) Slot {
	return Slot{
		ID:           c.entry.ID,
		Title:        c.entry.Title,
		DeviceRef:    c.entry.DeviceRef,
		WindowStart:  c.entry.ValidFrom,
		WindowEnd:    c.entry.ValidUntil,
		Value:        c.entry.Value,
		IsOverridden: c.overridden,
		TimeStart:    start.String(),
		TimeEnd:      end.String(),
		CreatedAt:    c.entry.CreatedAt,
	}
}

// compileDay flattens one day's resolved candidates into sorted slots.
// Split entries contribute one slot per remaining part. After sorting,
// every slot except the last is stretched to meet its successor so the
// timeline stays contiguous across truncation points.
func compileDay(list []*candidate) []Slot {
	var slots []Slot
	for _, c := range list {
		if !c.visible {
			continue
		}
		if c.partial {
			for _, part := range c.parts {
				slots = append(slots, newSlot(c, part.Start, part.End))
			}
			continue
		}
		slots = append(slots, newSlot(c, c.start, c.end))
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].TimeStart < slots[j].TimeStart
	})

	for i := 0; i < len(slots)-1; i++ {
		slots[i].TimeEnd = slots[i+1].TimeStart
	}
	return slots
}
