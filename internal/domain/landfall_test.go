package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	result GeocodingResult
	err    error
	calls  int
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

// --- tests ---

func bobLandfalls(t *testing.T) []LandfallSummary {
	t.Helper()
	bob, ok := sampleRecord(t).Storm("AL021991")
	require.True(t, ok)
	return SummarizeLandfalls(bob)
}

func TestSummarizeLandfalls(t *testing.T) {
	lf := bobLandfalls(t)

	require.Len(t, lf, 1)
	assert.Equal(t, Point{Lat: 41, Lon: -71}, lf[0].Point)
	assert.Equal(t, StatusHurricane, lf[0].Status)
	assert.Equal(t, "Hurricane", lf[0].Label)
	assert.Equal(t, 2, lf[0].Category)
	require.NotNil(t, lf[0].Pressure)
	assert.Equal(t, 960, *lf[0].Pressure)
	assert.Empty(t, lf[0].GeoSource)
}

func TestEnrichLandfalls_NilGeocoder(t *testing.T) {
	lf := bobLandfalls(t)

	result := EnrichLandfalls(context.Background(), "AL021991", lf, nil, discardLogger())

	assert.Equal(t, lf, result)
}

func TestEnrichLandfalls_Reverse(t *testing.T) {
	geo := &mockGeocoder{result: GeocodingResult{
		FormattedAddress: "Newport, Rhode Island, United States",
		PlaceName:        "Newport",
		Confidence:       0.9,
	}}

	result := EnrichLandfalls(context.Background(), "AL021991", bobLandfalls(t), geo, discardLogger())

	require.Len(t, result, 1)
	assert.Equal(t, "Newport", result[0].PlaceName)
	assert.Equal(t, "Newport, Rhode Island, United States", result[0].FormattedAddress)
	assert.Equal(t, 0.9, result[0].GeoConfidence)
	assert.Equal(t, GeoSourceReverse, result[0].GeoSource)
	assert.Equal(t, 1, geo.calls)
}

func TestEnrichLandfalls_NoResult(t *testing.T) {
	geo := &mockGeocoder{}

	result := EnrichLandfalls(context.Background(), "AL021991", bobLandfalls(t), geo, discardLogger())

	assert.Equal(t, GeoSourceNone, result[0].GeoSource)
	assert.Empty(t, result[0].PlaceName)
}

func TestEnrichLandfalls_Failure(t *testing.T) {
	geo := &mockGeocoder{err: errors.New("api error")}
	lf := bobLandfalls(t)

	result := EnrichLandfalls(context.Background(), "AL021991", lf, geo, discardLogger())

	assert.Equal(t, GeoSourceFailed, result[0].GeoSource)
	assert.Equal(t, lf[0].Point, result[0].Point, "landfall kept without a place")
	assert.Empty(t, lf[0].GeoSource, "input left untouched")
}
