package domain

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// --- fixtures ---

type trackPoint struct {
	at     string // "2006-01-02 15:04"
	status Status
	lat    float64
	lon    float64
	wind   int
	press  int // 0 = unknown
	marker Marker
}

type stormFixture struct {
	id     string
	name   string
	points []trackPoint
}

func at(t *testing.T, v string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", v)
	require.NoError(t, err)
	return ts
}

func intPtr(v int) *int { return &v }

func buildRecord(t *testing.T, storms ...stormFixture) *Record {
	t.Helper()
	b := NewBuilder()
	for _, s := range storms {
		require.NoError(t, b.StartStorm(s.id, s.name))
		for _, p := range s.points {
			o := Observation{
				Time:   at(t, p.at),
				Marker: p.marker,
				Status: p.status,
				Lat:    p.lat,
				Lon:    p.lon,
				Wind:   p.wind,
			}
			if p.press != 0 {
				o.Pressure = intPtr(p.press)
			}
			require.NoError(t, b.AddObservation(o))
		}
	}
	r, err := b.Build()
	require.NoError(t, err)
	return r
}

// threeHourStorm is the worked example: TS 40 kt, HU 70 kt, HU 100 kt at
// 00Z, 06Z and 12Z.
func threeHourStorm(id string) stormFixture {
	year := id[4:]
	return stormFixture{
		id:   id,
		name: "ALPHA",
		points: []trackPoint{
			{at: year + "-09-01 00:00", status: StatusTropicalStorm, lat: 20, lon: -60, wind: 40, press: 1000},
			{at: year + "-09-01 06:00", status: StatusHurricane, lat: 21, lon: -61, wind: 70, press: 985},
			{at: year + "-09-01 12:00", status: StatusHurricane, lat: 22, lon: -62, wind: 100, press: 950},
		},
	}
}

// seasonWithACE builds a single-observation storm whose ACE is wind².
func seasonWithACE(year string, wind int) stormFixture {
	return stormFixture{
		id:   "AL01" + year,
		name: "S" + year,
		points: []trackPoint{
			{at: year + "-08-15 12:00", status: StatusTropicalStorm, lat: 25, lon: -70, wind: wind},
		},
	}
}

// sampleRecord has three seasons with a mix of intensities, landfalls and
// an off-synoptic observation.
func sampleRecord(t *testing.T) *Record {
	t.Helper()
	return buildRecord(t,
		stormFixture{id: "AL011990", name: "ARTHUR", points: []trackPoint{
			{at: "1990-06-01 00:00", status: StatusLow, lat: 15, lon: -50, wind: 25},
			{at: "1990-06-01 06:00", status: StatusTropicalDepression, lat: 15.5, lon: -51, wind: 30, press: 1008},
			{at: "1990-06-01 12:00", status: StatusTropicalStorm, lat: 16, lon: -52, wind: 45, press: 1002},
			{at: "1990-06-01 18:00", status: StatusTropicalStorm, lat: 17, lon: -53, wind: 55, press: 998},
			{at: "1990-06-02 00:00", status: StatusExtratropical, lat: 19, lon: -54, wind: 45, press: 1000},
		}},
		stormFixture{id: "AL021990", name: "BERTHA", points: []trackPoint{
			{at: "1990-08-20 00:00", status: StatusTropicalStorm, lat: 20, lon: -70, wind: 50},
			{at: "1990-08-20 06:00", status: StatusHurricane, lat: 22, lon: -72, wind: 80, press: 970},
			{at: "1990-08-20 09:30", status: StatusHurricane, lat: 23, lon: -73, wind: 85, press: 965, marker: MarkerLandfall},
			{at: "1990-08-20 12:00", status: StatusTropicalStorm, lat: 24, lon: -74, wind: 55, press: 990},
		}},
		stormFixture{id: "AL011991", name: "ANA", points: []trackPoint{
			{at: "1991-07-01 00:00", status: StatusTropicalDepression, lat: 25, lon: -80, wind: 30},
			{at: "1991-07-01 06:00", status: StatusTropicalDepression, lat: 26, lon: -81, wind: 30, marker: MarkerLandfall},
		}},
		stormFixture{id: "AL021991", name: "BOB", points: []trackPoint{
			{at: "1991-08-16 12:00", status: StatusHurricane, lat: 30, lon: -75, wind: 100, press: 950},
			{at: "1991-08-16 18:00", status: StatusHurricane, lat: 33, lon: -74, wind: 115, press: 940},
			{at: "1991-08-19 00:00", status: StatusHurricane, lat: 41, lon: -71, wind: 90, press: 960, marker: MarkerLandfall},
			{at: "1991-08-19 06:00", status: StatusExtratropical, lat: 44, lon: -69, wind: 60},
		}},
		stormFixture{id: "AL011993", name: "ARLENE", points: []trackPoint{
			{at: "1993-06-18 12:00", status: StatusSubtropicalStorm, lat: 19, lon: -93, wind: 35, press: 1005},
			{at: "1993-06-18 18:00", status: StatusTropicalStorm, lat: 20, lon: -94, wind: 35, press: 1004},
		}},
	)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
