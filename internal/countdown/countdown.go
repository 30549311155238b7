// Package countdown renders schedule state for display: the next-event
// banner, clock formatting and per-event passed/active classification.
package countdown

import (
	"fmt"
	"strings"
	"time"

	"github.com/thurmanmarka/prayerglide"
)

const (
	noneLabel     = "NEXT: ---"
	noneCountdown = "--:--:--"
	noneClock     = "--:--"
)

// Remaining is the time from now until next, never negative.
func Remaining(now time.Time, next prayerglide.NextEvent) time.Duration {
	d := next.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// FormatDuration renders d as HH:MM:SS, truncated to the second. Hours are
// not wrapped at 24. Negative durations render as 00:00:00.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// Banner returns the label and countdown for the next event, e.g.
// "NEXT: MAGHRIB" and "03:12:00". When there is no next event it returns
// "NEXT: ---" and "--:--:--".
func Banner(now time.Time, next prayerglide.NextEvent, ok bool) (label, remaining string) {
	if !ok {
		return noneLabel, noneCountdown
	}
	return "NEXT: " + strings.ToUpper(next.Event.Label()), FormatDuration(Remaining(now, next))
}

// ClockFormat selects 24-hour or 12-hour rendering.
type ClockFormat int

const (
	Clock24 ClockFormat = iota
	Clock12
)

// FormatClock renders t as "15:04" or "03:04 PM". The zero time renders
// as "--:--".
func FormatClock(t time.Time, f ClockFormat) string {
	if t.IsZero() {
		return noneClock
	}
	if f == Clock12 {
		return t.Format("03:04 PM")
	}
	return t.Format("15:04")
}

// FormatDate renders a date line like "SUN  16 OCT 2026".
func FormatDate(t time.Time) string {
	return strings.ToUpper(t.Format("Mon  02 Jan 2006"))
}

// Status classifies one of today's events for display.
type Status int

const (
	Pending Status = iota
	Active
	Passed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Passed:
		return "passed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Statuses classifies each of today's events. The next event is Active,
// events at or before now are Passed and the rest are Pending. When the
// next event is not one of today's times every event is Passed.
func Statuses(now time.Time, today prayerglide.Times, next prayerglide.NextEvent, ok bool) [prayerglide.NumEvents]Status {
	var out [prayerglide.NumEvents]Status

	nextIsToday := ok && today.At(next.Event).Equal(next.Time)
	if ok && !nextIsToday {
		for i := range out {
			out[i] = Passed
		}
		return out
	}

	for i, e := range prayerglide.Events {
		t := today.At(e)
		switch {
		case nextIsToday && e == next.Event:
			out[i] = Active
		case !t.IsZero() && !t.After(now):
			out[i] = Passed
		}
	}
	return out
}

// DayKey identifies the calendar day of now in loc's zone. A change of
// key is the signal to recompute the schedule.
func DayKey(now time.Time, loc prayerglide.Location) string {
	return now.In(loc.Zone()).Format("2006-01-02")
}
