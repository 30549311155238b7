package prayerglide

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dubaiLoc = Location{Lat: 25.2048, Lon: 55.2708, TZOffset: 4}

func mustMethod(t *testing.T, id string) Method {
	t.Helper()
	m, err := MethodByID(id)
	require.NoError(t, err)
	return m
}

func clock(tt time.Time) string {
	return tt.Format("15:04")
}

func TestCompute_DubaiSolstice(t *testing.T) {
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	times, err := Compute(date, dubaiLoc, mustMethod(t, "mwl"), AsrStandard)
	require.NoError(t, err)

	zone := dubaiLoc.Zone()
	at := func(h, m int) time.Time { return time.Date(2024, time.June, 21, h, m, 0, 0, zone) }

	assert.True(t, times.Sunrise.Before(at(6, 0)), "sunrise %s", clock(times.Sunrise))
	assert.True(t, times.Sunset.After(at(19, 0)), "sunset %s", clock(times.Sunset))

	assert.Equal(t, "04:00", clock(times.Dawn))
	assert.Equal(t, "05:30", clock(times.Sunrise))
	assert.Equal(t, "12:21", clock(times.Midday))
	assert.Equal(t, "15:43", clock(times.Afternoon))
	assert.Equal(t, "19:12", clock(times.Sunset))
	assert.Equal(t, "20:36", clock(times.Night))

	_, offset := times.Midday.Zone()
	assert.Equal(t, 4*3600, offset)
	assert.Equal(t, time.Date(2024, time.June, 21, 0, 0, 0, 0, zone), times.Date)
}

func TestCompute_NightOverrideExact(t *testing.T) {
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	times, err := Compute(date, dubaiLoc, mustMethod(t, "makkah"), AsrStandard)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, times.Night.Sub(times.Sunset))
	assert.Equal(t, "19:12", clock(times.Sunset))
	assert.Equal(t, "20:42", clock(times.Night))
}

func TestCompute_NightOverrideAcrossLatitudes(t *testing.T) {
	m := mustMethod(t, "makkah")
	dates := []time.Time{
		time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.September, 23, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC),
	}

	for _, lat := range []float64{-40, -20, 0, 21.4225, 35, 50, 60} {
		for _, date := range dates {
			loc := Location{Lat: lat, Lon: 39.8262, TZOffset: 3}
			times, err := Compute(date, loc, m, AsrStandard)
			require.NoError(t, err)
			assert.Equal(t, 90*time.Minute, times.Night.Sub(times.Sunset),
				"lat %.4f %s", lat, date.Format("2006-01-02"))
		}
	}
}

func TestCompute_StrictOrdering(t *testing.T) {
	places := []struct {
		lon, tz float64
	}{
		{0, 0},
		{55.2708, 4},
		{-74.006, -5},
		{151.2, 10},
	}

	for lat := -45.0; lat <= 45; lat += 15 {
		for _, p := range places {
			for month := time.January; month <= time.December; month++ {
				for _, d := range []int{1, 21} {
					date := time.Date(2024, month, d, 0, 0, 0, 0, time.UTC)
					loc := Location{Lat: lat, Lon: p.lon, TZOffset: p.tz}

					for _, m := range Methods() {
						for _, asr := range []AsrConvention{AsrStandard, AsrHanafi} {
							times, err := Compute(date, loc, m, asr)
							require.NoError(t, err)

							all := times.All()
							for i := 1; i < NumEvents; i++ {
								if !all[i].After(all[i-1]) {
									t.Fatalf("lat %.0f lon %.2f %s %s %s: %s (%s) not after %s (%s)",
										lat, p.lon, date.Format("2006-01-02"), m.ID, asr,
										Events[i], clock(all[i]), Events[i-1], clock(all[i-1]))
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestCompute_MiddayIndependentOfMethod(t *testing.T) {
	date := time.Date(2024, time.October, 2, 0, 0, 0, 0, time.UTC)

	var want time.Time
	for i, m := range Methods() {
		if m.Offset(Midday) != 0 {
			continue
		}
		for _, asr := range []AsrConvention{AsrStandard, AsrHanafi} {
			times, err := Compute(date, dubaiLoc, m, asr)
			require.NoError(t, err)
			if want.IsZero() {
				want = times.Midday
				continue
			}
			assert.True(t, want.Equal(times.Midday), "method %d (%s): midday %s, want %s", i, m.ID, clock(times.Midday), clock(want))
		}
	}
}

func TestCompute_OffsetsCommute(t *testing.T) {
	dubai := mustMethod(t, "dubai")
	bare := dubai
	bare.Offsets = nil

	dates := []time.Time{
		time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC),
	}

	for _, date := range dates {
		with, err := Compute(date, dubaiLoc, dubai, AsrStandard)
		require.NoError(t, err)
		without, err := Compute(date, dubaiLoc, bare, AsrStandard)
		require.NoError(t, err)

		for _, e := range Events {
			want := time.Duration(dubai.Offset(e)) * time.Minute
			assert.Equal(t, want, with.At(e).Sub(without.At(e)), "%s on %s", e, date.Format("2006-01-02"))
		}
	}
}

func TestCompute_OffsetsDoNotFeedTheSolve(t *testing.T) {
	// A large sunset pad moves sunset only; with an angle-based night the
	// night time must be unchanged.
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	m := mustMethod(t, "mwl")

	base, err := Compute(date, dubaiLoc, m, AsrStandard)
	require.NoError(t, err)

	m.Offsets = map[Event]float64{Sunset: 7}
	padded, err := Compute(date, dubaiLoc, m, AsrStandard)
	require.NoError(t, err)

	assert.Equal(t, 7*time.Minute, padded.Sunset.Sub(base.Sunset))
	assert.Equal(t, base.Night, padded.Night)
	assert.Equal(t, base.Dawn, padded.Dawn)
}

func TestCompute_HanafiLater(t *testing.T) {
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	m := mustMethod(t, "mwl")

	std, err := Compute(date, dubaiLoc, m, AsrStandard)
	require.NoError(t, err)
	han, err := Compute(date, dubaiLoc, m, AsrHanafi)
	require.NoError(t, err)

	assert.Equal(t, "17:04", clock(han.Afternoon))
	assert.True(t, han.Afternoon.After(std.Afternoon))
	assert.Equal(t, std.Sunset, han.Sunset)
}

func TestCompute_Deterministic(t *testing.T) {
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	m := mustMethod(t, "dubai")

	a, err := Compute(date, dubaiLoc, m, AsrStandard)
	require.NoError(t, err)
	b, err := Compute(date, dubaiLoc, m, AsrStandard)
	require.NoError(t, err)

	assert.Equal(t, renderTimes(a), renderTimes(b))
	assert.Equal(t, a, b)
}

func TestCompute_UsesCalendarDayOfDate(t *testing.T) {
	m := mustMethod(t, "mwl")

	// The clock part and the date's own zone only select the calendar day.
	midnight := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)
	lateLocal := time.Date(2024, time.June, 21, 23, 59, 0, 0, time.FixedZone("X", -10*3600))

	a, err := Compute(midnight, dubaiLoc, m, AsrStandard)
	require.NoError(t, err)
	b, err := Compute(lateLocal, dubaiLoc, m, AsrStandard)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCompute_FractionalOffset(t *testing.T) {
	// Mumbai, UTC+05:30.
	loc := Location{Lat: 19.076, Lon: 72.8777, TZOffset: 5.5}
	times, err := Compute(time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC), loc, mustMethod(t, "karachi"), AsrStandard)
	require.NoError(t, err)

	name, offset := times.Midday.Zone()
	assert.Equal(t, "UTC+05:30", name)
	assert.Equal(t, 5*3600+1800, offset)
	assert.True(t, times.Midday.Hour() == 12 || times.Midday.Hour() == 13, "midday %s", clock(times.Midday))
}

func TestCompute_ExtremeLatitudesClamp(t *testing.T) {
	m := mustMethod(t, "mwl")
	for _, lat := range []float64{-90, -89.99, -70, 70, 89.99, 90} {
		for _, month := range []time.Month{time.March, time.June, time.December} {
			loc := Location{Lat: lat, Lon: 10, TZOffset: 1}
			times, err := Compute(time.Date(2024, month, 21, 0, 0, 0, 0, time.UTC), loc, m, AsrHanafi)
			require.NoError(t, err, "lat %v", lat)

			for _, e := range Events {
				tt := times.At(e)
				require.False(t, tt.IsZero(), "lat %v %s %s", lat, month, e)
				y, mo, d := tt.Date()
				assert.Equal(t, 2024, y)
				assert.Equal(t, month, mo)
				assert.Equal(t, 21, d)
			}
		}
	}
}

func TestCompute_RejectsNonFinite(t *testing.T) {
	m := mustMethod(t, "mwl")
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		loc  Location
	}{
		{"NaN latitude", Location{Lat: math.NaN(), Lon: 55, TZOffset: 4}},
		{"Inf longitude", Location{Lat: 25, Lon: math.Inf(1), TZOffset: 4}},
		{"NaN offset", Location{Lat: 25, Lon: 55, TZOffset: math.NaN()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			times, err := Compute(date, tt.loc, m, AsrStandard)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNonFinite), "err = %v", err)
			assert.Equal(t, Times{}, times)
		})
	}
}

func TestCompute_ReportsEveryProblem(t *testing.T) {
	loc := Location{Lat: 91, Lon: math.NaN(), TZOffset: 20}
	_, err := Compute(time.Now(), loc, mustMethod(t, "mwl"), AsrConvention(7))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.ErrorIs(t, err, ErrUnknownConvention)
	assert.Contains(t, err.Error(), "latitude")
	assert.Contains(t, err.Error(), "longitude")
	assert.Contains(t, err.Error(), "timezone offset")
}

func TestCompute_RejectsBadMethod(t *testing.T) {
	date := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)

	bad := Method{ID: "bad", DawnAngle: math.Inf(-1), NightAngle: 17}
	_, err := Compute(date, dubaiLoc, bad, AsrStandard)
	assert.ErrorIs(t, err, ErrNonFinite)

	badOffset := Method{ID: "bad", DawnAngle: 18, NightAngle: 17, Offsets: map[Event]float64{Event(9): 1}}
	_, err = Compute(date, dubaiLoc, badOffset, AsrStandard)
	assert.ErrorIs(t, err, ErrUnknownEvent)

	nanOffset := Method{ID: "bad", DawnAngle: 18, NightAngle: 17, Offsets: map[Event]float64{Dawn: math.NaN()}}
	_, err = Compute(date, dubaiLoc, nanOffset, AsrStandard)
	assert.ErrorIs(t, err, ErrNonFinite)
}
