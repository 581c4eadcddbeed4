package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	return loc
}

func yearEntry(id string, typ EntryType, start, end string) Entry {
	return Entry{
		ID:         id,
		Type:       typ,
		DeviceRef:  "thermostat-living",
		ValidFrom:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		Start:      MustTimeOfDay(start),
		End:        MustTimeOfDay(end),
		Value:      19.5,
		CreatedAt:  time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC),
	}
}

func dateEntry(id string, typ EntryType, date, start, end string) Entry {
	e := yearEntry(id, typ, start, end)
	e.Date = date
	return e
}

func slotTimes(slots []Slot) [][2]string {
	out := make([][2]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, [2]string{s.TimeStart, s.TimeEnd})
	}
	return out
}

func TestCompileRangeMiddleOverrideSplits(t *testing.T) {
	engine := NewEngine(testLocation(t))

	timeline, err := engine.CompileRange(Input{
		Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
		Once:     []Entry{dateEntry("guests", TypeOnce, "2026-03-10", "09:00", "10:00")},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	slots := timeline["2026-03-10"]
	require.Len(t, slots, 3)
	assert.Equal(t, [][2]string{
		{"08:00", "09:00"},
		{"09:00", "10:00"},
		{"10:00", "18:00"},
	}, slotTimes(slots))

	assert.Equal(t, "base", slots[0].ID)
	assert.True(t, slots[0].IsOverridden)
	assert.Equal(t, "guests", slots[1].ID)
	assert.False(t, slots[1].IsOverridden)
	assert.Equal(t, "base", slots[2].ID)
	assert.True(t, slots[2].IsOverridden)
}

func TestCompileRangeRecurringBeatsDefault(t *testing.T) {
	engine := NewEngine(testLocation(t))

	timeline, err := engine.CompileRange(Input{
		Defaults:  []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
		Recurring: []Entry{yearEntry("morning-boost", TypeRecurring, "09:00", "12:00")},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	slots := timeline["2026-03-10"]
	require.Len(t, slots, 3)
	assert.Equal(t, "morning-boost", slots[1].ID)
	assert.Equal(t, "09:00", slots[1].TimeStart)
	assert.Equal(t, "12:00", slots[1].TimeEnd)
	assert.False(t, slots[1].IsOverridden, "higher precedence keeps its full window")
}

func TestCompileRangeEdgeOverlaps(t *testing.T) {
	engine := NewEngine(testLocation(t))

	t.Run("left edge advances start", func(t *testing.T) {
		timeline, err := engine.CompileRange(Input{
			Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
			Once:     []Entry{dateEntry("early", TypeOnce, "2026-03-10", "07:00", "09:00")},
		}, "2026-03-10", "2026-03-11")
		require.NoError(t, err)

		assert.Equal(t, [][2]string{
			{"07:00", "09:00"},
			{"09:00", "18:00"},
		}, slotTimes(timeline["2026-03-10"]))
	})

	t.Run("right edge retreats end", func(t *testing.T) {
		timeline, err := engine.CompileRange(Input{
			Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
			Once:     []Entry{dateEntry("late", TypeOnce, "2026-03-10", "17:00", "19:00")},
		}, "2026-03-10", "2026-03-11")
		require.NoError(t, err)

		assert.Equal(t, [][2]string{
			{"08:00", "17:00"},
			{"17:00", "19:00"},
		}, slotTimes(timeline["2026-03-10"]))
	})
}

func TestCompileRangeEqualWindowsReplace(t *testing.T) {
	engine := NewEngine(testLocation(t))

	timeline, err := engine.CompileRange(Input{
		Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
		Once:     []Entry{dateEntry("takeover", TypeOnce, "2026-03-10", "08:00", "18:00")},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	slots := timeline["2026-03-10"]
	require.Len(t, slots, 1)
	assert.Equal(t, "takeover", slots[0].ID)
}

func TestCompileRangeTieLaterWins(t *testing.T) {
	engine := NewEngine(testLocation(t))

	timeline, err := engine.CompileRange(Input{
		Once: []Entry{
			dateEntry("first", TypeOnce, "2026-03-10", "09:00", "12:00"),
			dateEntry("second", TypeOnce, "2026-03-10", "10:00", "13:00"),
		},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	slots := timeline["2026-03-10"]
	require.Len(t, slots, 2)
	assert.Equal(t, "first", slots[0].ID)
	assert.Equal(t, [2]string{"09:00", "10:00"}, [2]string{slots[0].TimeStart, slots[0].TimeEnd})
	assert.True(t, slots[0].IsOverridden)
	assert.Equal(t, "second", slots[1].ID)
	assert.Equal(t, "13:00", slots[1].TimeEnd)
}

func TestCompileRangeTillNextBeatsOnce(t *testing.T) {
	engine := NewEngine(testLocation(t))

	timeline, err := engine.CompileRange(Input{
		Once:     []Entry{dateEntry("party", TypeOnce, "2026-03-10", "09:00", "17:00")},
		TillNext: []Entry{dateEntry("away", TypeTillNext, "2026-03-10", "12:00", "14:00")},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	assert.Equal(t, [][2]string{
		{"09:00", "12:00"},
		{"12:00", "14:00"},
		{"14:00", "17:00"},
	}, slotTimes(timeline["2026-03-10"]))
}

func TestCompileRangeOverrideAcrossSplitParts(t *testing.T) {
	engine := NewEngine(testLocation(t))

	// the once entry splits the default, then the till-next entry spans
	// the split point and must keep its full window while both remaining
	// default pieces are trimmed against it
	timeline, err := engine.CompileRange(Input{
		Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
		Once:     []Entry{dateEntry("guests", TypeOnce, "2026-03-10", "12:00", "13:00")},
		TillNext: []Entry{dateEntry("away", TypeTillNext, "2026-03-10", "10:00", "14:00")},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	slots := timeline["2026-03-10"]
	require.Len(t, slots, 3)
	assert.Equal(t, [][2]string{
		{"08:00", "10:00"},
		{"10:00", "14:00"},
		{"14:00", "18:00"},
	}, slotTimes(slots))
	assert.Equal(t, "away", slots[1].ID, "higher precedence keeps its full window")
	assert.Equal(t, "base", slots[0].ID)
	assert.Equal(t, "base", slots[2].ID)
}

func TestCompileRangeOverrideSwallowsOneSplitPart(t *testing.T) {
	engine := NewEngine(testLocation(t))

	// the till-next entry covers the second default piece exactly; that
	// piece disappears instead of surviving as an empty slot
	timeline, err := engine.CompileRange(Input{
		Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
		Once:     []Entry{dateEntry("guests", TypeOnce, "2026-03-10", "12:00", "13:00")},
		TillNext: []Entry{dateEntry("away", TypeTillNext, "2026-03-10", "13:00", "18:00")},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	slots := timeline["2026-03-10"]
	require.Len(t, slots, 3)
	assert.Equal(t, [][2]string{
		{"08:00", "12:00"},
		{"12:00", "13:00"},
		{"13:00", "18:00"},
	}, slotTimes(slots))
	assert.Equal(t, "base", slots[0].ID)
	assert.Equal(t, "guests", slots[1].ID)
	assert.Equal(t, "away", slots[2].ID)

	for _, slot := range slots {
		assert.Less(t, slot.TimeStart, slot.TimeEnd, "no zero-width slots")
	}
}

func TestCompileRangeSplitEntryHiddenWhenNothingRemains(t *testing.T) {
	engine := NewEngine(testLocation(t))

	timeline, err := engine.CompileRange(Input{
		Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
		Once:     []Entry{dateEntry("guests", TypeOnce, "2026-03-10", "12:00", "13:00")},
		TillNext: []Entry{dateEntry("away", TypeTillNext, "2026-03-10", "08:00", "18:00")},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	slots := timeline["2026-03-10"]
	require.Len(t, slots, 1)
	assert.Equal(t, "away", slots[0].ID)
}

func TestCompileRangeWeekendFilter(t *testing.T) {
	engine := NewEngine(testLocation(t))

	weekend := yearEntry("weekend-comfort", TypeRecurring, "10:00", "22:00")
	weekend.DayFilter = DayFilterWeekend

	// Monday 2026-03-09 through Sunday 2026-03-15
	timeline, err := engine.CompileRange(Input{
		Recurring: []Entry{weekend},
	}, "2026-03-09", "2026-03-16")
	require.NoError(t, err)

	assert.Empty(t, timeline["2026-03-11"], "Wednesday is outside the weekend filter")

	saturday := timeline["2026-03-14"]
	require.Len(t, saturday, 1)
	assert.Equal(t, "weekend-comfort", saturday[0].ID)
}

func TestCompileRangeWorkweekFilter(t *testing.T) {
	engine := NewEngine(testLocation(t))

	workweek := yearEntry("office-hours", TypeRecurring, "07:00", "17:00")
	workweek.DayFilter = DayFilterWorkweek

	// Saturday and Sunday only
	timeline, err := engine.CompileRange(Input{
		Recurring: []Entry{workweek},
	}, "2026-03-14", "2026-03-16")
	require.NoError(t, err)
	assert.Empty(t, timeline)
}

func TestCompileRangeEntryConsumedOnce(t *testing.T) {
	engine := NewEngine(testLocation(t))

	timeline, err := engine.CompileRange(Input{
		Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
	}, "2026-03-10", "2026-03-13")
	require.NoError(t, err)

	// an entry joins the first applicable day only within one pass
	require.Len(t, timeline["2026-03-10"], 1)
	assert.Empty(t, timeline["2026-03-11"])
	assert.Empty(t, timeline["2026-03-12"])
}

func TestCompileRangeGapFree(t *testing.T) {
	engine := NewEngine(testLocation(t))

	timeline, err := engine.CompileRange(Input{
		Defaults: []Entry{yearEntry("base", TypeDefault, "06:00", "23:00")},
		Recurring: []Entry{
			yearEntry("midday", TypeRecurring, "11:00", "13:00"),
		},
		Once: []Entry{
			dateEntry("evening", TypeOnce, "2026-03-10", "18:00", "20:30"),
		},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	for _, date := range timeline.Dates() {
		slots := timeline[date]
		for i := 0; i < len(slots)-1; i++ {
			assert.Equal(t, slots[i+1].TimeStart, slots[i].TimeEnd,
				"gap between slot %d and %d on %s", i, i+1, date)
		}
	}
}

func TestCompileRangeCatchAllOnce(t *testing.T) {
	engine := NewEngine(testLocation(t))

	catchAll := yearEntry("override-now", TypeOnce, "14:00", "16:00")
	// no date set: applies to any requested day

	timeline, err := engine.CompileRange(Input{
		Once: []Entry{catchAll},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)
	require.Len(t, timeline["2026-03-10"], 1)
}

func TestCompileRangeInvalidInput(t *testing.T) {
	engine := NewEngine(testLocation(t))

	t.Run("from after to", func(t *testing.T) {
		_, err := engine.CompileRange(Input{}, "2026-03-11", "2026-03-10")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("unparseable date", func(t *testing.T) {
		_, err := engine.CompileRange(Input{}, "10-03-2026", "2026-03-11")
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("inverted times", func(t *testing.T) {
		bad := yearEntry("bad", TypeDefault, "18:00", "08:00")
		_, err := engine.CompileRange(Input{Defaults: []Entry{bad}}, "2026-03-10", "2026-03-11")
		var malformed *MalformedEntryError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "bad", malformed.ID)
	})

	t.Run("unknown type", func(t *testing.T) {
		bad := yearEntry("odd", "sometimes", "08:00", "09:00")
		_, err := engine.CompileRange(Input{Defaults: []Entry{bad}}, "2026-03-10", "2026-03-11")
		var malformed *MalformedEntryError
		assert.ErrorAs(t, err, &malformed)
	})

	t.Run("bad specific date", func(t *testing.T) {
		bad := dateEntry("when", TypeOnce, "next tuesday", "08:00", "09:00")
		_, err := engine.CompileRange(Input{Once: []Entry{bad}}, "2026-03-10", "2026-03-11")
		var malformed *MalformedEntryError
		assert.ErrorAs(t, err, &malformed)
	})
}

func TestCompileRangeDoesNotMutateInput(t *testing.T) {
	engine := NewEngine(testLocation(t))

	base := yearEntry("base", TypeDefault, "08:00", "18:00")
	input := Input{
		Defaults: []Entry{base},
		Once:     []Entry{dateEntry("mid", TypeOnce, "2026-03-10", "10:00", "11:00")},
	}

	_, err := engine.CompileRange(input, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	assert.Equal(t, base, input.Defaults[0], "inputs stay untouched by resolution")
}

func TestActiveSlot(t *testing.T) {
	loc := testLocation(t)
	engine := NewEngine(loc)

	timeline, err := engine.CompileRange(Input{
		Defaults: []Entry{yearEntry("base", TypeDefault, "08:00", "18:00")},
	}, "2026-03-10", "2026-03-11")
	require.NoError(t, err)

	active := engine.ActiveSlot(timeline, time.Date(2026, 3, 10, 9, 30, 0, 0, loc))
	require.NotNil(t, active)
	assert.Equal(t, "base", active.ID)

	assert.Nil(t, engine.ActiveSlot(timeline, time.Date(2026, 3, 10, 5, 0, 0, 0, loc)))
	assert.Nil(t, engine.ActiveSlot(timeline, time.Date(2026, 3, 12, 9, 30, 0, 0, loc)))
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "08:30", want: 510},
		{in: "23:59", want: 1439},
		{in: "24:00", want: EndOfDay},
		{in: "24:01", wantErr: true},
		{in: "8:30", wantErr: true},
		{in: "08:60", wantErr: true},
		{in: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}
