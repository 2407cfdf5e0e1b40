// Package availability owns working-hour windows and the slot resolution
// that intersects them with the remote calendar's free times.
package availability

import (
	"time"

	"github.com/avivshm/glowbook/internal/fault"
)

// Window is a tenant's configured bookable hours for one date, with an
// optional break. Times are "HH:MM" in the tenant's booking timezone;
// the zero-padded format makes lexicographic comparison safe.
type Window struct {
	ID         string `json:"id"`
	Date       string `json:"date"` // "2006-01-02"
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	BreakStart string `json:"break_start,omitempty"`
	BreakEnd   string `json:"break_end,omitempty"`
}

// HasBreak reports whether a break interval is configured.
func (w *Window) HasBreak() bool {
	return w.BreakStart != "" && w.BreakEnd != ""
}

// Validate checks the window invariants: well-formed date and times,
// start before end, and a break that lies fully inside the window with
// both bounds present or both absent.
func (w *Window) Validate() error {
	if _, err := time.Parse("2006-01-02", w.Date); err != nil {
		return fault.Validation("availability: invalid date %q", w.Date)
	}
	for _, tv := range []string{w.StartTime, w.EndTime} {
		if !validClock(tv) {
			return fault.Validation("availability: invalid time %q", tv)
		}
	}
	if w.StartTime >= w.EndTime {
		return fault.Validation("availability: start %s must be before end %s", w.StartTime, w.EndTime)
	}

	if (w.BreakStart == "") != (w.BreakEnd == "") {
		return fault.Validation("availability: break needs both start and end")
	}
	if !w.HasBreak() {
		return nil
	}
	for _, tv := range []string{w.BreakStart, w.BreakEnd} {
		if !validClock(tv) {
			return fault.Validation("availability: invalid break time %q", tv)
		}
	}
	if w.BreakStart >= w.BreakEnd {
		return fault.Validation("availability: break start %s must be before break end %s", w.BreakStart, w.BreakEnd)
	}
	if w.BreakStart < w.StartTime || w.BreakEnd > w.EndTime {
		return fault.Validation("availability: break must lie inside the window")
	}
	return nil
}

func validClock(v string) bool {
	if len(v) != 5 {
		return false
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}
