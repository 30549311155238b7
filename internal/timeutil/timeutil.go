package timeutil

import (
	"fmt"
	"math"
	"time"
)

// -----------------------------
// Julian Day
// -----------------------------

// JulianDate returns the Julian Day Number at 0h UT of the given Gregorian
// calendar date. January and February are treated as months 13 and 14 of
// the previous year, so the result always ends in .5.
func JulianDate(year int, month time.Month, day int) float64 {
	y := float64(year)
	m := float64(month)

	if m <= 2 {
		y -= 1
		m += 12
	}

	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		float64(day) + B - 1524.5
}

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

func TanD(deg float64) float64 {
	return math.Tan(Deg2Rad(deg))
}

// ArcSinD returns asin(x) in degrees.
func ArcSinD(x float64) float64 {
	return Rad2Deg(math.Asin(x))
}

// ArcCosD returns acos(x) in degrees. x is not clamped here; callers that
// can fall outside [-1, 1] must use Clamp first.
func ArcCosD(x float64) float64 {
	return Rad2Deg(math.Acos(x))
}

// ArcTan2D returns atan2(y, x) in degrees.
func ArcTan2D(y, x float64) float64 {
	return Rad2Deg(math.Atan2(y, x))
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x > hi {
		return hi
	}
	if x < lo {
		return lo
	}
	return x
}

// FixAngle wraps a to [0, 360).
func FixAngle(a float64) float64 {
	a = a - 360*math.Floor(a/360)
	if a < 0 {
		a += 360
	}
	return a
}

// FixHour wraps h to [0, 24).
func FixHour(h float64) float64 {
	h = h - 24*math.Floor(h/24)
	if h < 0 {
		h += 24
	}
	return h
}

// -----------------------------
// Clock conversion
// -----------------------------

// HoursToClock wraps h into [0, 24) and rounds it to the nearest whole
// minute. A value that rounds up to 24:00 becomes 00:00 of the same day.
func HoursToClock(h float64) (hour, minute int) {
	h = FixHour(h)
	total := int(math.Round(h * 60))
	return (total / 60) % 24, total % 60
}

// ClockTime places the rounded clock time for h on the given calendar date
// in loc.
func ClockTime(year int, month time.Month, day int, h float64, loc *time.Location) time.Time {
	hh, mm := HoursToClock(h)
	return time.Date(year, month, day, hh, mm, 0, 0, loc)
}

// FixedZone returns a location for a UTC offset given in (possibly
// fractional) hours, named like "UTC+05:30".
func FixedZone(offsetHours float64) *time.Location {
	secs := int(math.Round(offsetHours * 3600))
	sign := '+'
	abs := secs
	if secs < 0 {
		sign = '-'
		abs = -secs
	}
	name := fmt.Sprintf("UTC%c%02d:%02d", sign, abs/3600, (abs%3600)/60)
	return time.FixedZone(name, secs)
}
