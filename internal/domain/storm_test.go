package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStormMetrics_EndToEnd(t *testing.T) {
	r := buildRecord(t, threeHourStorm("AL012005"))
	st, ok := r.Storm("AL012005")
	require.True(t, ok)

	m := st.Metrics()

	assert.Equal(t, 14500.0, m.ACE)
	assert.Equal(t, 14900.0, m.HDP)
	assert.Equal(t, 10000.0, m.MHDP)
	assert.Equal(t, 100, m.MaxWind)
	require.NotNil(t, m.MinMSLP)
	assert.Equal(t, 950, *m.MinMSLP)
	assert.Equal(t, "Major Hurricane", m.StatusHighest)
	assert.True(t, m.TSReach)
	assert.True(t, m.HUReach)
	assert.True(t, m.MHUReach)
	assert.False(t, m.Cat45Reach)
	assert.Equal(t, 0.5, m.Duration)
	assert.Equal(t, 0.5, m.DurationTS)
	assert.Equal(t, 0.25, m.DurationHU)
	assert.Zero(t, m.DurationMHU, "the last point opens no segment")
}

func TestStormMetrics_SingleObservation(t *testing.T) {
	r := buildRecord(t, seasonWithACE("2001", 50))
	st, _ := r.Storm("AL012001")

	m := st.Metrics()

	assert.Zero(t, m.TrackDistance)
	assert.Zero(t, m.TrackDistanceTC)
	assert.Zero(t, m.Duration)
	assert.Zero(t, m.DurationTC)
	assert.Zero(t, m.DurationTS)
	assert.Zero(t, m.DurationHU)
	assert.Zero(t, m.DurationMHU)
	assert.Equal(t, 2500.0, m.ACE)
	assert.Nil(t, m.MinMSLP, "unknown pressure is not a minimum")
}

func TestStormMetrics_Idempotent(t *testing.T) {
	r := sampleRecord(t)
	for _, st := range r.Storms() {
		first := st.Metrics()
		second := st.Metrics()
		assert.Empty(t, cmp.Diff(first, second), st.ID())
	}
	for _, s := range r.Seasons() {
		assert.Equal(t, s.Metrics(), s.Metrics())
	}
}

func TestStormMetrics_DistanceAdditivity(t *testing.T) {
	r := sampleRecord(t)
	for _, st := range r.Storms() {
		if st.Len() < 2 {
			continue
		}
		var nonTC float64
		obs := st.Observations()
		for i := 0; i+1 < len(obs); i++ {
			if !obs[i].IsTropical() {
				nonTC += Haversine(obs[i].Location(), obs[i+1].Location())
			}
		}
		m := st.Metrics()
		assert.InDelta(t, m.TrackDistance, m.TrackDistanceTC+nonTC, 1e-9, st.ID())
		assert.LessOrEqual(t, m.TrackDistanceMHU, m.TrackDistanceHU)
		assert.LessOrEqual(t, m.TrackDistanceHU, m.TrackDistanceTS)
		assert.LessOrEqual(t, m.TrackDistanceTS, m.TrackDistanceTC)
	}
}

func TestStormMetrics_EarlierPointOwnsSegment(t *testing.T) {
	r := buildRecord(t, stormFixture{id: "AL052010", name: "EARL", points: []trackPoint{
		{at: "2010-09-01 00:00", status: StatusTropicalStorm, lat: 30, lon: -70, wind: 50},
		{at: "2010-09-01 06:00", status: StatusExtratropical, lat: 31, lon: -70, wind: 50},
		{at: "2010-09-01 12:00", status: StatusTropicalStorm, lat: 32, lon: -70, wind: 50},
	}})
	st, _ := r.Storm("AL052010")

	m := st.Metrics()
	leg := Haversine(Point{30, -70}, Point{31, -70})

	assert.InDelta(t, leg, m.TrackDistanceTS, 1e-9, "TS to EX counts as TS")
	assert.InDelta(t, 2*leg, m.TrackDistance, 0.01)
	assert.Equal(t, 0.25, m.DurationTS)
	assert.Equal(t, 0.5, m.Duration)
}

func TestStormMetrics_Landfalls(t *testing.T) {
	r := sampleRecord(t)

	bertha, _ := r.Storm("AL021990")
	m := bertha.Metrics()
	assert.Equal(t, 1, m.Landfalls)
	assert.True(t, m.LandfallTC)
	assert.True(t, m.LandfallHU)
	assert.False(t, m.LandfallMHU)
	assert.False(t, m.LandfallTD)
	assert.Equal(t, 11925.0, m.ACE, "09:30 is not synoptic")
	assert.Equal(t, 8900.0, m.ACENoLandfall, "landfall and later observations excluded")
	assert.Equal(t, "Hurricane", m.StatusHighest)

	ana, _ := r.Storm("AL011991")
	m = ana.Metrics()
	assert.Equal(t, 1, m.Landfalls)
	assert.True(t, m.LandfallTD)
	assert.False(t, m.TSReach)
	assert.Equal(t, "Tropical Depression", m.StatusHighest)

	bob, _ := r.Storm("AL021991")
	m = bob.Metrics()
	assert.True(t, m.Cat45Reach)
	assert.False(t, m.Cat5Reach)
	assert.Equal(t, 23225.0, m.MHDP)
	assert.Equal(t, 31325.0, m.HDP)
	assert.InDelta(t, 1.0, m.HDPPercentACE(), 1e-12)

	lf := bob.Landfalls()
	require.Len(t, lf, 1)
	assert.Equal(t, 41.0, lf[0].Lat)
}

func TestStorm_MetricsWithinFullYear(t *testing.T) {
	r := sampleRecord(t)
	for _, st := range r.Storms() {
		windowed, ok := st.MetricsWithin(FullYear)
		require.True(t, ok)
		assert.Empty(t, cmp.Diff(st.Metrics(), windowed), st.ID())
	}
}

func TestStorm_MetricsWithinWindow(t *testing.T) {
	r := sampleRecord(t)
	bob, _ := r.Storm("AL021991")

	w := Window{Start: MonthDay{time.August, 1}, Thru: MonthDay{time.August, 18}}
	m, ok := bob.MetricsWithin(w)
	require.True(t, ok)
	assert.Equal(t, 23225.0, m.ACE, "only the 16th counts")
	assert.Zero(t, m.Landfalls)
	assert.Greater(t, m.TrackDistance, 0.0, "segment from the 16th 18Z counts by its earlier point")

	_, ok = bob.MetricsWithin(Window{Start: MonthDay{time.January, 1}, Thru: MonthDay{time.January, 31}})
	assert.False(t, ok)
}

func TestStorm_Accessors(t *testing.T) {
	r := sampleRecord(t)
	st, ok := r.Storm("al021990")
	require.True(t, ok, "lookup ignores case")

	assert.Equal(t, "BERTHA", st.Name())
	assert.True(t, st.Named())
	assert.Equal(t, 2, st.Number())
	assert.Equal(t, 1990, st.Year())
	assert.Equal(t, "AL", st.BasinCode())
	assert.Equal(t, 1990, st.Season().Year())
	assert.Same(t, r, st.Season().Record())

	start, ok := st.Start()
	require.True(t, ok)
	assert.Equal(t, at(t, "1990-08-20 00:00"), start)
	end, ok := st.End()
	require.True(t, ok)
	assert.Equal(t, at(t, "1990-08-20 12:00"), end)

	arthur, _ := r.Storm("AL011990")
	start, _ = arthur.Start()
	end, _ = arthur.End()
	assert.Equal(t, at(t, "1990-06-01 06:00"), start, "LO is not tropical")
	assert.Equal(t, at(t, "1990-06-02 00:00"), end, "ends at the first non-tropical point")

	obs := st.Observations()
	obs[0].Wind = 999
	assert.Equal(t, 50, st.Observation(0).Wind, "observations are copied out")
}

func TestStorm_Motion(t *testing.T) {
	r := buildRecord(t, threeHourStorm("AL012005"))
	st, _ := r.Storm("AL012005")

	_, ok := st.Motion(0)
	assert.False(t, ok)

	mv, ok := st.Motion(1)
	require.True(t, ok)
	assert.Equal(t, "NW", mv.Cardinal)
	assert.InDelta(t, Haversine(Point{20, -60}, Point{21, -61})/6, mv.Speed, 1e-9)
}

func TestStorm_PercentSeasonACE(t *testing.T) {
	r := sampleRecord(t)
	bertha, _ := r.Storm("AL021990")
	assert.InDelta(t, 11925.0/16975.0, bertha.PercentSeasonACE(), 1e-12)
}

func TestStormMetrics_StatusHighestBelowDepression(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     string
	}{
		{"subtropical depression beats extratropical", []Status{StatusExtratropical, StatusSubtropicalDepression}, "Subtropical Depression"},
		{"extratropical beats low", []Status{StatusLow, StatusExtratropical}, "Extratropical Cyclone"},
		{"extratropical beats disturbance and wave", []Status{StatusWave, StatusDisturbance, StatusExtratropical}, "Extratropical Cyclone"},
		{"low only", []Status{StatusLow}, "Disturbance, Low, or Tropical Wave"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := stormFixture{id: "AL011990", name: "ZETA"}
			for i, st := range tt.statuses {
				fx.points = append(fx.points, trackPoint{
					at:     fmt.Sprintf("1990-10-01 %02d:00", 6*i),
					status: st,
					lat:    30 + float64(i),
					lon:    -50,
					wind:   25 + 15*i,
				})
			}
			st, _ := buildRecord(t, fx).Storm("AL011990")

			assert.Equal(t, tt.want, st.Metrics().StatusHighest)
		})
	}
}
