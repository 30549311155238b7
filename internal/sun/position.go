package sun

import (
	"github.com/thurmanmarka/prayerglide/internal/timeutil"
)

// J2000 is the Julian Day of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000 = 2451545.0

// ApparentHorizonAltitude is the altitude (in degrees) of the Sun's center
// when the apparent upper limb touches the horizon under "standard"
// conditions: the solar semi-diameter plus atmospheric refraction.
const ApparentHorizonAltitude = -0.833

// State is the Sun's apparent position at one instant, as needed by the
// hour-angle solver.
type State struct {
	Longitude      float64 // apparent ecliptic longitude, degrees [0, 360)
	RA             float64 // right ascension, hours [0, 24)
	Declination    float64 // degrees
	EquationOfTime float64 // apparent minus mean solar time, hours [-12, 12]
}

// At returns the Sun's state for a (fractional) Julian Day.
//
// This is the same low-precision model used for rise/set work, good to
// about a minute of time over a few centuries around J2000:
//
//	g   = mean anomaly of the Sun
//	q   = mean longitude of the Sun
//	L   = ecliptic longitude with equation of center
//	eps = obliquity of the ecliptic
func At(jd float64) State {
	d := jd - J2000

	g := timeutil.FixAngle(357.529 + 0.98560028*d)
	q := timeutil.FixAngle(280.459 + 0.98564736*d)
	L := timeutil.FixAngle(q + 1.915*timeutil.SinD(g) + 0.020*timeutil.SinD(2*g))

	eps := 23.439 - 0.00000036*d

	ra := timeutil.ArcTan2D(timeutil.CosD(eps)*timeutil.SinD(L), timeutil.CosD(L)) / 15
	ra = timeutil.FixHour(ra)
	dec := timeutil.ArcSinD(timeutil.SinD(eps) * timeutil.SinD(L))

	eqt := q/15 - ra
	// q/15 and RA straddle the 0h/24h seam twice a year.
	if eqt > 12 {
		eqt -= 24
	}
	if eqt < -12 {
		eqt += 24
	}

	return State{
		Longitude:      L,
		RA:             ra,
		Declination:    dec,
		EquationOfTime: eqt,
	}
}
