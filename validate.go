package prayerglide

import (
	"fmt"
	"math"

	"cloudeng.io/errors"
)

const (
	maxTZOffset = 14.0
	maxAngle    = 90.0
)

func checkFinite(errs *errors.M, name string, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		errs.Append(fmt.Errorf("%s %v: %w", name, v, ErrNonFinite))
		return false
	}
	return true
}

func checkRange(errs *errors.M, name string, v, lo, hi float64) {
	if !checkFinite(errs, name, v) {
		return
	}
	if v < lo || v > hi {
		errs.Append(fmt.Errorf("%s %v not in [%v, %v]: %w", name, v, lo, hi, ErrOutOfRange))
	}
}

// Validate rejects non-finite or out-of-range coordinates and offsets.
// Every problem is reported, not just the first.
func (l Location) Validate() error {
	var errs errors.M
	checkRange(&errs, "latitude", l.Lat, -90, 90)
	checkRange(&errs, "longitude", l.Lon, -180, 180)
	checkRange(&errs, "timezone offset", l.TZOffset, -maxTZOffset, maxTZOffset)
	return errs.Err()
}

// Validate checks that the method's angles, night delay and offsets are
// usable. The identifier is not checked here; see NewRegistry.
func (m Method) Validate() error {
	var errs errors.M
	checkRange(&errs, "dawn angle", m.DawnAngle, 0, maxAngle)
	checkRange(&errs, "night minutes", m.NightMinutes, 0, 24*60)
	if !m.HasNightOverride() {
		checkRange(&errs, "night angle", m.NightAngle, 0, maxAngle)
	} else {
		checkFinite(&errs, "night angle", m.NightAngle)
	}
	for e, v := range m.Offsets {
		if !e.Valid() {
			errs.Append(fmt.Errorf("offset for %v: %w", e, ErrUnknownEvent))
			continue
		}
		checkFinite(&errs, e.String()+" offset", v)
	}
	return errs.Err()
}

func validateInputs(loc Location, m Method, asr AsrConvention) error {
	var errs errors.M
	errs.Append(loc.Validate(), m.Validate())
	if asr.Factor() == 0 {
		errs.Append(fmt.Errorf("%v: %w", asr, ErrUnknownConvention))
	}
	return errs.Err()
}
