package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Transition is the set of writes a toggle needs. Exactly one of Started and
// Stopped is set. Stale holds extra active sessions that were closed to
// restore the single-active-session rule.
type Transition struct {
	Started *Session
	Stopped *Session
	Stale   []*Session
}

// Toggle starts a session when none is active and stops the active one
// otherwise. When several are active, all but the most recently started are
// closed as stale and the survivor is stopped. Inputs are never mutated.
func Toggle(sessions []*Session, now time.Time) Transition {
	var active []*Session
	for _, s := range sessions {
		if s.Active {
			active = append(active, s)
		}
	}

	var t Transition
	if len(active) == 0 {
		t.Started = &Session{Start: now, Active: true}
		return t
	}

	if len(active) > 1 {
		sort.SliceStable(active, func(i, j int) bool {
			return active[i].Start.After(active[j].Start)
		})
		for _, s := range active[1:] {
			t.Stale = append(t.Stale, closeAt(s, now))
		}
	}

	t.Stopped = closeAt(active[0], now)
	return t
}

func closeAt(s *Session, at time.Time) *Session {
	closed := *s
	if at.Before(closed.Start) {
		at = closed.Start
	}
	closed.End = &at
	closed.Active = false
	return &closed
}

// WorkedHours sums the durations of completed sessions whose start lies in
// [from, to] and rounds the total to two decimal places.
func WorkedHours(sessions []*Session, from, to time.Time) decimal.Decimal {
	if to.Before(from) {
		return decimal.Zero
	}

	var total time.Duration
	for _, s := range sessions {
		if s.End == nil || s.End.Before(s.Start) {
			continue
		}
		if s.Start.Before(from) || s.Start.After(to) {
			continue
		}
		total += s.End.Sub(s.Start)
	}

	return Hours(total)
}

// Hours converts d to fractional hours rounded to two decimal places.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d)).
		Div(decimal.NewFromInt(int64(time.Hour))).
		Round(2)
}

// OrderedView returns the sessions newest first, with the active session
// moved to the front regardless of its start time.
func OrderedView(sessions []*Session) []*Session {
	view := make([]*Session, len(sessions))
	copy(view, sessions)

	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Start.After(view[j].Start)
	})

	for i, s := range view {
		if !s.Active {
			continue
		}
		copy(view[1:i+1], view[:i])
		view[0] = s
		break
	}

	return view
}
