package prayerglide

import (
	"time"
)

// ResolveNext returns the first event strictly after now, scanning today
// in canonical order and then tomorrow. An event exactly at now has
// already passed. Zero times are skipped. The boolean is false when
// neither day has an event after now.
func ResolveNext(now time.Time, today, tomorrow Times) (NextEvent, bool) {
	for _, day := range [2]Times{today, tomorrow} {
		for _, e := range Events {
			t := day.At(e)
			if t.IsZero() {
				continue
			}
			if t.After(now) {
				return NextEvent{Event: e, Time: t}, true
			}
		}
	}
	return NextEvent{}, false
}

// Schedule is today's and tomorrow's times around an instant, with the
// next event resolved from them.
type Schedule struct {
	Now      time.Time `json:"now" yaml:"now"`
	Today    Times     `json:"today" yaml:"today"`
	Tomorrow Times     `json:"tomorrow" yaml:"tomorrow"`
	Next     NextEvent `json:"next" yaml:"next"`
	HasNext  bool      `json:"has_next" yaml:"has_next"`
}

// Upcoming computes the schedule around now: "today" is the calendar day
// of now in loc's fixed zone. The two days are independent Compute calls.
func Upcoming(now time.Time, loc Location, m Method, asr AsrConvention) (Schedule, error) {
	local := now.In(loc.Zone())
	year, month, day := local.Date()

	today, err := Compute(local, loc, m, asr)
	if err != nil {
		return Schedule{}, err
	}
	tomorrow, err := Compute(time.Date(year, month, day+1, 0, 0, 0, 0, local.Location()), loc, m, asr)
	if err != nil {
		return Schedule{}, err
	}

	next, ok := ResolveNext(now, today, tomorrow)
	return Schedule{
		Now:      local,
		Today:    today,
		Tomorrow: tomorrow,
		Next:     next,
		HasNext:  ok,
	}, nil
}

// Month computes every day of the given month, in date order.
func Month(year int, month time.Month, loc Location, m Method, asr AsrConvention) ([]Times, error) {
	if err := validateInputs(loc, m, asr); err != nil {
		return nil, err
	}
	zone := loc.Zone()
	n := time.Date(year, month+1, 0, 0, 0, 0, 0, zone).Day()

	days := make([]Times, 0, n)
	for d := 1; d <= n; d++ {
		t, err := Compute(time.Date(year, month, d, 0, 0, 0, 0, zone), loc, m, asr)
		if err != nil {
			return nil, err
		}
		days = append(days, t)
	}
	return days, nil
}
