// Package prayerglide computes the six daily prayer times (dawn, sunrise,
// midday, afternoon, sunset and night) for a date and location from a
// low-precision model of the Sun, and picks the next upcoming event.
//
// The engine is a pure function of its inputs: a calendar date, a
// Location (with its UTC offset in hours), a calculation Method and an
// afternoon AsrConvention. It keeps no state between calls and is safe for
// concurrent use.
//
// Typical use:
//
//	loc := prayerglide.Location{Lat: 25.2048, Lon: 55.2708, TZOffset: 4}
//	m, _ := prayerglide.MethodByID("mwl")
//	times, err := prayerglide.Compute(date, loc, m, prayerglide.AsrStandard)
//
// Times are solved iteratively: each event is re-evaluated twice with the
// Sun taken at the previous estimate of that event, then once more for the
// answer, which is rounded to the whole minute.
package prayerglide

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/thurmanmarka/prayerglide/internal/timeutil"
)

var (
	// ErrUnknownMethod is returned when a method identifier is not in the
	// registry.
	ErrUnknownMethod = errors.New("unknown calculation method")

	// ErrNonFinite is returned when a numeric input is NaN or infinite.
	ErrNonFinite = errors.New("non-finite numeric input")

	// ErrOutOfRange is returned when a coordinate or offset lies outside
	// its valid range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnknownConvention is returned for an unrecognized afternoon
	// convention.
	ErrUnknownConvention = errors.New("unknown afternoon convention")

	// ErrUnknownEvent is returned for an unrecognized event name.
	ErrUnknownEvent = errors.New("unknown event")
)

// Event identifies one of the six daily events.
type Event int

const (
	Dawn Event = iota
	Sunrise
	Midday
	Afternoon
	Sunset
	Night
)

// NumEvents is the number of daily events.
const NumEvents = 6

// Events lists the events in canonical (chronological) order.
var Events = [NumEvents]Event{Dawn, Sunrise, Midday, Afternoon, Sunset, Night}

var eventNames = [NumEvents]string{"dawn", "sunrise", "midday", "afternoon", "sunset", "night"}

var eventLabels = [NumEvents]string{"Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Isha"}

// Valid reports whether e is one of the six events.
func (e Event) Valid() bool {
	return e >= Dawn && e <= Night
}

func (e Event) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return eventNames[e]
}

// Label returns the traditional name of the event (Fajr, Dhuhr, ...).
func (e Event) Label() string {
	if !e.Valid() {
		return e.String()
	}
	return eventLabels[e]
}

// ParseEvent accepts either the canonical name ("dawn") or the
// traditional label ("fajr"), case-insensitively.
func ParseEvent(s string) (Event, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, e := range Events {
		if s == eventNames[e] || s == strings.ToLower(eventLabels[e]) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownEvent)
}

// MarshalText implements encoding.TextMarshaler.
func (e Event) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%d: %w", int(e), ErrUnknownEvent)
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Event) UnmarshalText(b []byte) error {
	ev, err := ParseEvent(string(b))
	if err != nil {
		return err
	}
	*e = ev
	return nil
}

// AsrConvention selects the shadow factor used for the afternoon event.
type AsrConvention int

const (
	// AsrStandard: shadow equals the object's height (plus its noon shadow).
	AsrStandard AsrConvention = iota
	// AsrHanafi: shadow equals twice the object's height (plus its noon shadow).
	AsrHanafi
)

// Factor returns the shadow factor: 1 for AsrStandard, 2 for AsrHanafi.
// Unknown conventions return 0.
func (a AsrConvention) Factor() float64 {
	switch a {
	case AsrStandard:
		return 1
	case AsrHanafi:
		return 2
	default:
		return 0
	}
}

func (a AsrConvention) String() string {
	switch a {
	case AsrStandard:
		return "standard"
	case AsrHanafi:
		return "hanafi"
	default:
		return fmt.Sprintf("AsrConvention(%d)", int(a))
	}
}

// ParseAsrConvention parses "standard" or "hanafi" (case-insensitive).
func ParseAsrConvention(s string) (AsrConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "shafii", "":
		return AsrStandard, nil
	case "hanafi":
		return AsrHanafi, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrUnknownConvention)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a AsrConvention) MarshalText() ([]byte, error) {
	if a.Factor() == 0 {
		return nil, fmt.Errorf("%d: %w", int(a), ErrUnknownConvention)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AsrConvention) UnmarshalText(b []byte) error {
	c, err := ParseAsrConvention(string(b))
	if err != nil {
		return err
	}
	*a = c
	return nil
}

// Location represents an observer's position and clock.
type Location struct {
	Lat      float64 `json:"latitude" yaml:"latitude"`   // degrees, north positive
	Lon      float64 `json:"longitude" yaml:"longitude"` // degrees, east positive (west negative)
	TZOffset float64 `json:"tz_offset" yaml:"tz_offset"` // hours east of UTC, may be fractional
}

// Zone returns the fixed time zone for the location's offset.
func (l Location) Zone() *time.Location {
	return timeutil.FixedZone(l.TZOffset)
}

// Times holds the six event times of one calendar day, in the location's
// fixed zone.
type Times struct {
	Date      time.Time `json:"date" yaml:"date"` // midnight starting the day
	Dawn      time.Time `json:"dawn" yaml:"dawn"`
	Sunrise   time.Time `json:"sunrise" yaml:"sunrise"`
	Midday    time.Time `json:"midday" yaml:"midday"`
	Afternoon time.Time `json:"afternoon" yaml:"afternoon"`
	Sunset    time.Time `json:"sunset" yaml:"sunset"`
	Night     time.Time `json:"night" yaml:"night"`
}

// At returns the time of event e, or the zero time for an invalid event.
func (t Times) At(e Event) time.Time {
	switch e {
	case Dawn:
		return t.Dawn
	case Sunrise:
		return t.Sunrise
	case Midday:
		return t.Midday
	case Afternoon:
		return t.Afternoon
	case Sunset:
		return t.Sunset
	case Night:
		return t.Night
	default:
		return time.Time{}
	}
}

// All returns the six times in canonical order.
func (t Times) All() [NumEvents]time.Time {
	return [NumEvents]time.Time{t.Dawn, t.Sunrise, t.Midday, t.Afternoon, t.Sunset, t.Night}
}

func (t *Times) set(e Event, v time.Time) {
	switch e {
	case Dawn:
		t.Dawn = v
	case Sunrise:
		t.Sunrise = v
	case Midday:
		t.Midday = v
	case Afternoon:
		t.Afternoon = v
	case Sunset:
		t.Sunset = v
	case Night:
		t.Night = v
	}
}

// NextEvent is the next upcoming event and its time.
type NextEvent struct {
	Event Event     `json:"event" yaml:"event"`
	Time  time.Time `json:"time" yaml:"time"`
}
