package solver

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thurmanmarka/prayerglide/internal/timeutil"
)

func dubai() Observer {
	return Observer{
		JD:  timeutil.JulianDate(2024, time.June, 21),
		Lat: 25.2048,
		Lon: 55.2708,
		TZ:  4,
	}
}

func TestHourAngle_EquatorEquinox(t *testing.T) {
	// Geometric horizon at the equator with the Sun on the equator is
	// exactly six hours from noon.
	assert.InDelta(t, 6.0, HourAngle(0, 0, 0), 1e-12)

	// The -0.833° apparent horizon adds a little over three minutes.
	got := HourAngle(-0.833, 0, 0) * 60
	assert.InDelta(t, 363.33, got, 0.01)
}

func TestHourAngle_Clamps(t *testing.T) {
	tests := []struct {
		name string
		alt  float64
		decl float64
		lat  float64
		want float64
	}{
		// Polar night: the Sun never climbs to the horizon.
		{"never rises", -0.833, -23.44, 80, 0},
		// Midnight sun: the Sun never sinks to -18°.
		{"never sinks", -18, 23.44, 70, 12},
		{"pole", -0.833, 10, 90, 12},
		{"south pole", -0.833, 10, -90, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HourAngle(tt.alt, tt.decl, tt.lat)
			require.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestShadowAltitude(t *testing.T) {
	// Sun overhead at noon: shadow factor 1 gives 45°.
	assert.InDelta(t, 45.0, ShadowAltitude(1, 20, 20), 1e-12)
	// Factor 2 gives acot(2).
	assert.InDelta(t, timeutil.Rad2Deg(math.Atan(0.5)), ShadowAltitude(2, 20, 20), 1e-12)
	// Larger noon zenith distance lowers the afternoon altitude.
	assert.Less(t, ShadowAltitude(1, -23.44, 51.5), ShadowAltitude(1, 23.44, 51.5))
}

func TestSolve_Dubai(t *testing.T) {
	// Pinned output of the refinement for MWL angles at Dubai on the June
	// solstice.
	want := Hours{
		Dawn:      4.000320841,
		Sunrise:   5.493146586,
		Midday:    12.347453124,
		Afternoon: 15.721463978,
		Sunset:    19.201660071,
		Night:     20.601468990,
	}

	got := dubai().Solve(Params{DawnAngle: 18, NightAngle: 17, ShadowFactor: 1})

	assert.InDelta(t, want.Dawn, got.Dawn, 1e-6)
	assert.InDelta(t, want.Sunrise, got.Sunrise, 1e-6)
	assert.InDelta(t, want.Midday, got.Midday, 1e-6)
	assert.InDelta(t, want.Afternoon, got.Afternoon, 1e-6)
	assert.InDelta(t, want.Sunset, got.Sunset, 1e-6)
	assert.InDelta(t, want.Night, got.Night, 1e-6)
}

func TestSolve_ShadowFactorOnlyMovesAfternoon(t *testing.T) {
	p := Params{DawnAngle: 18, NightAngle: 17, ShadowFactor: 1}
	std := dubai().Solve(p)

	p.ShadowFactor = 2
	alt := dubai().Solve(p)

	assert.InDelta(t, 17.071228195, alt.Afternoon, 1e-6)
	assert.Greater(t, alt.Afternoon, std.Afternoon)

	assert.Equal(t, std.Dawn, alt.Dawn)
	assert.Equal(t, std.Sunrise, alt.Sunrise)
	assert.Equal(t, std.Midday, alt.Midday)
	assert.Equal(t, std.Sunset, alt.Sunset)
	assert.Equal(t, std.Night, alt.Night)
}

func TestSolve_NightMinutesOverride(t *testing.T) {
	p := Params{DawnAngle: 18.5, NightAngle: 17, NightMinutes: 90, ShadowFactor: 1}
	got := dubai().Solve(p)

	assert.InDelta(t, 1.5, got.Night-got.Sunset, 1e-12)

	// The angle is ignored entirely while the override is active.
	p.NightAngle = 0
	again := dubai().Solve(p)
	assert.Equal(t, got, again)
}

func TestSolve_PolarIsFinite(t *testing.T) {
	for _, month := range []time.Month{time.March, time.June, time.September, time.December} {
		for _, lat := range []float64{-89.9, -75, 75, 89.9} {
			o := Observer{JD: timeutil.JulianDate(2024, month, 21), Lat: lat, Lon: 15, TZ: 1}
			h := o.Solve(Params{DawnAngle: 18, NightAngle: 17, ShadowFactor: 1})

			for _, v := range []float64{h.Dawn, h.Sunrise, h.Midday, h.Afternoon, h.Sunset, h.Night} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("lat %.1f %s: non-finite result %+v", lat, month, h)
				}
			}
		}
	}
}

func TestPass_SeedIsRough(t *testing.T) {
	// A single pass from the seed already lands within a few minutes of
	// the refined answer at moderate latitude.
	o := dubai()
	p := Params{DawnAngle: 18, NightAngle: 17, ShadowFactor: 1}

	first := o.Pass(p, Seed)
	final := o.Solve(p)

	assert.InDelta(t, final.Sunrise, first.Sunrise, 3.0/60)
	assert.InDelta(t, final.Sunset, first.Sunset, 3.0/60)
	assert.InDelta(t, final.Midday, first.Midday, 1.0/60)
}
