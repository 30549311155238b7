// Package solver turns solar altitudes into clock hours for one calendar
// day. All results are local hours (not yet wrapped into [0, 24)), which
// keeps the refinement passes continuous around midnight.
package solver

import (
	"math"

	"github.com/thurmanmarka/prayerglide/internal/sun"
	"github.com/thurmanmarka/prayerglide/internal/timeutil"
)

// EventType describes on which side of local noon an altitude crossing is
// wanted.
type EventType int

const (
	// CrossingUp means altitude is increasing through the target value
	// (morning, before noon).
	CrossingUp EventType = iota
	// CrossingDown means altitude is decreasing through the target value
	// (evening, after noon).
	CrossingDown
)

// Passes is the number of refinement passes run before the final one.
const Passes = 2

// Observer pins the day and place being solved.
type Observer struct {
	JD  float64 // Julian Day at 0h UT of the calendar date
	Lat float64 // degrees, north positive
	Lon float64 // degrees, east positive
	TZ  float64 // hours east of UTC
}

// Params carries the method-dependent inputs of a solve.
type Params struct {
	DawnAngle    float64 // depression below the horizon, degrees
	NightAngle   float64 // depression below the horizon, degrees
	NightMinutes float64 // if > 0, night = sunset + NightMinutes
	ShadowFactor float64 // 1 or 2
}

// Hours holds the six event times as local hours (or, between passes, as
// day fractions).
type Hours struct {
	Dawn      float64
	Sunrise   float64
	Midday    float64
	Afternoon float64
	Sunset    float64
	Night     float64
}

// Seed is the rough day-fraction estimate each solve starts from.
var Seed = Hours{
	Dawn:      5.0 / 24,
	Sunrise:   6.0 / 24,
	Midday:    12.0 / 24,
	Afternoon: 13.0 / 24,
	Sunset:    18.0 / 24,
	Night:     18.0 / 24,
}

// Solve runs the iterative refinement: every pass re-evaluates the Sun at
// the previous estimate of each event, so declination and equation of
// time are taken near the event rather than only at noon. The final pass
// returns hours.
func (o Observer) Solve(p Params) Hours {
	est := Seed
	for i := 0; i < Passes; i++ {
		h := o.Pass(p, est)
		est = Hours{
			Dawn:      h.Dawn / 24,
			Sunrise:   h.Sunrise / 24,
			Midday:    h.Midday / 24,
			Afternoon: h.Afternoon / 24,
			Sunset:    h.Sunset / 24,
			Night:     h.Night / 24,
		}
	}
	return o.Pass(p, est)
}

// Pass evaluates every event once from day-fraction estimates est.
func (o Observer) Pass(p Params, est Hours) Hours {
	var h Hours
	h.Dawn = o.TimeForAltitude(-p.DawnAngle, est.Dawn, CrossingUp)
	h.Sunrise = o.TimeForAltitude(sun.ApparentHorizonAltitude, est.Sunrise, CrossingUp)
	h.Midday = o.Noon(est.Midday)
	h.Afternoon = o.Afternoon(p.ShadowFactor, est.Afternoon)
	h.Sunset = o.TimeForAltitude(sun.ApparentHorizonAltitude, est.Sunset, CrossingDown)

	if p.NightMinutes > 0 {
		h.Night = h.Sunset + p.NightMinutes/60
	} else {
		h.Night = o.TimeForAltitude(-p.NightAngle, est.Night, CrossingDown)
	}
	return h
}

// Noon returns local apparent noon in hours [0, 24), with the Sun taken
// at day fraction t.
func (o Observer) Noon(t float64) float64 {
	st := sun.At(o.JD + t)
	return timeutil.FixHour(12 + o.TZ - o.Lon/15 - st.EquationOfTime)
}

// TimeForAltitude returns the hour at which the Sun's center crosses alt
// degrees on the requested side of noon, with the Sun taken at day
// fraction t.
func (o Observer) TimeForAltitude(alt, t float64, ev EventType) float64 {
	st := sun.At(o.JD + t)
	ha := HourAngle(alt, st.Declination, o.Lat)
	noon := o.Noon(t)
	if ev == CrossingUp {
		return noon - ha
	}
	return noon + ha
}

// Afternoon returns the hour at which a vertical object's shadow equals
// its noon shadow plus factor times its height.
func (o Observer) Afternoon(factor, t float64) float64 {
	st := sun.At(o.JD + t)
	noon := o.Noon(t)
	alt := ShadowAltitude(factor, st.Declination, o.Lat)
	return noon + HourAngle(alt, st.Declination, o.Lat)
}

// ShadowAltitude is acot(factor + tan|lat - decl|) in degrees. atan2 keeps
// it defined when the denominator is zero.
func ShadowAltitude(factor, decl, lat float64) float64 {
	return timeutil.ArcTan2D(1, factor+timeutil.TanD(math.Abs(lat-decl)))
}

// HourAngle returns, in hours, how far from noon the Sun's center sits at
// altitude alt degrees. When the Sun never reaches alt on that day the
// cosine is clamped: 0 hours when the Sun never climbs to alt, 12 hours when
// it never sinks to it. The result is never NaN for finite inputs.
func HourAngle(alt, decl, lat float64) float64 {
	cosHA := (timeutil.SinD(alt) - timeutil.SinD(lat)*timeutil.SinD(decl)) /
		(timeutil.CosD(lat) * timeutil.CosD(decl))
	return timeutil.ArcCosD(timeutil.Clamp(cosHA, -1, 1)) / 15
}
