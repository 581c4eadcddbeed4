package schedule

// candidate is the mutable per-day resolution state of one entry. The
// input Entry is carried by value and never written; all truncation and
// splitting happens on the candidate.
type candidate struct {
	entry Entry

	start      TimeOfDay
	end        TimeOfDay
	visible    bool
	overridden bool
	partial    bool
	parts      []TimeSplit

	// pre-truncation bounds, set on the first override and never again
	origSet   bool
	origStart TimeOfDay
	origEnd   TimeOfDay
}

func newCandidate(e Entry) *candidate {
	return &candidate{
		entry:   e,
		start:   e.Start,
		end:     e.End,
		visible: true,
	}
}

// insert resolves the incoming candidate against every visible entry
// already in the day list, then appends it. After insertion no two visible
// windows in the list overlap.
func insert(list []*candidate, incoming *candidate) []*candidate {
	for _, existing := range list {
		if !existing.visible || !incoming.visible {
			continue
		}
		resolvePair(existing, incoming)
	}
	return append(list, incoming)
}

// resolvePair resolves one overlapping pair. The incoming candidate was
// processed later, so it wins ties; otherwise the higher-ranked type is
// the boss and the other side is hidden, split or trimmed. Outcomes are
// checked in a fixed order and the first applicable one is taken.
func resolvePair(existing, incoming *candidate) {
	boss, loser := incoming, existing
	if existing.entry.Type.rank() > incoming.entry.Type.rank() {
		boss, loser = existing, incoming
	}

	// An already-split entry is resolved part by part, so a boss landing
	// on just one remaining piece trims exactly that piece. An entry with
	// no pieces left goes invisible.
	if loser.partial {
		kept := loser.parts[:0:0]
		for _, part := range loser.parts {
			if !part.End.After(boss.start) || !part.Start.Before(boss.end) {
				kept = append(kept, part)
				continue
			}
			switch {
			case !boss.start.After(part.Start) && !boss.end.Before(part.End):
				// part swallowed whole
			case boss.start.After(part.Start) && boss.end.Before(part.End):
				kept = append(kept,
					TimeSplit{Start: part.Start, End: boss.start},
					TimeSplit{Start: boss.end, End: part.End})
			case !boss.start.After(part.Start):
				kept = append(kept, TimeSplit{Start: boss.end, End: part.End})
			default:
				kept = append(kept, TimeSplit{Start: part.Start, End: boss.start})
			}
		}
		loser.parts = kept
		if len(kept) == 0 {
			loser.visible = false
		}
		return
	}

	if !loser.end.After(boss.start) || !loser.start.Before(boss.end) {
		return
	}

	switch {
	case !boss.start.After(loser.start) && !boss.end.Before(loser.end):
		// full containment, equal windows included
		loser.visible = false

	case boss.start.After(loser.start) && boss.end.Before(loser.end):
		// boss sits strictly inside: split the loser around it
		loser.markOverridden()
		loser.partial = true
		loser.parts = []TimeSplit{
			{Start: loser.start, End: boss.start},
			{Start: boss.end, End: loser.end},
		}

	case !boss.start.After(loser.start):
		// boss covers the left edge
		loser.markOverridden()
		loser.start = boss.end

	default:
		// boss covers the right edge
		loser.markOverridden()
		loser.end = boss.start
	}
}

func (c *candidate) markOverridden() {
	c.overridden = true
	if !c.origSet {
		c.origSet = true
		c.origStart = c.start
		c.origEnd = c.end
	}
}
