package prayerglide

import (
	"time"

	"github.com/thurmanmarka/prayerglide/internal/solver"
	"github.com/thurmanmarka/prayerglide/internal/timeutil"
)

// Compute returns the six event times for the calendar day of date (taken
// in date's own location; the clock part is ignored) at loc, using method
// m and afternoon convention asr.
//
// The returned times are in loc's fixed zone and rounded to the minute.
// Non-finite or out-of-range input, an invalid method or an unknown
// convention is rejected before any trigonometry runs. At latitudes where
// the Sun never reaches a required altitude the solver clamps and the
// affected events collapse onto noon or midnight instead of failing.
func Compute(date time.Time, loc Location, m Method, asr AsrConvention) (Times, error) {
	if err := validateInputs(loc, m, asr); err != nil {
		return Times{}, err
	}

	year, month, day := date.Date()

	obs := solver.Observer{
		JD:  timeutil.JulianDate(year, month, day),
		Lat: loc.Lat,
		Lon: loc.Lon,
		TZ:  loc.TZOffset,
	}

	h := obs.Solve(solver.Params{
		DawnAngle:    m.DawnAngle,
		NightAngle:   m.NightAngle,
		NightMinutes: m.NightMinutes,
		ShadowFactor: asr.Factor(),
	})

	hours := [NumEvents]float64{h.Dawn, h.Sunrise, h.Midday, h.Afternoon, h.Sunset, h.Night}

	// Offsets apply only to the finished solve.
	for e, minutes := range m.Offsets {
		hours[e] += minutes / 60
	}

	zone := loc.Zone()
	times := Times{Date: time.Date(year, month, day, 0, 0, 0, 0, zone)}
	for _, e := range Events {
		times.set(e, timeutil.ClockTime(year, month, day, hours[e], zone))
	}
	return times, nil
}
