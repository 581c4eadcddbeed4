// Package schedule resolves overlapping heating schedule entries into
// gap-free per-day timelines.
//
// Entries come in four types with a fixed precedence order: till-next
// beats once beats recurring beats default. The engine expands entries
// over a date range, resolves each day's conflicts by hiding, splitting
// or trimming the lower-precedence side, and flattens the result into
// sorted slots whose boundaries meet exactly.
//
// The whole pipeline is synchronous and pure: entries are supplied by the
// caller, never persisted, and never mutated.
//
//	engine := schedule.NewEngine(loc)
//	timeline, err := engine.CompileRange(input, "2026-01-05", "2026-01-12")
package schedule
