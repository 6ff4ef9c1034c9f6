package geocache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-climo/internal/adapter/geocache"
	"github.com/couchcryptid/storm-data-climo/internal/domain"
)

type countingGeocoder struct {
	calls  int
	result domain.GeocodingResult
	err    error
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.calls++
	return m.result, m.err
}

func openStore(t *testing.T, path string, inner domain.Geocoder) *geocache.Store {
	t.Helper()
	store, err := geocache.Open(path, inner, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

var miami = domain.GeocodingResult{
	Lat:              25.8,
	Lon:              -80.2,
	FormattedAddress: "Miami, Florida, United States",
	PlaceName:        "Miami",
	Confidence:       0.8,
}

func TestStore_HitSkipsInner(t *testing.T) {
	ctx := context.Background()
	inner := &countingGeocoder{result: miami}
	store := openStore(t, filepath.Join(t.TempDir(), "geo.db"), inner)

	r1, err := store.ReverseGeocode(ctx, 25.81, -80.19)
	require.NoError(t, err)
	r2, err := store.ReverseGeocode(ctx, 25.79, -80.21)
	require.NoError(t, err)

	assert.Equal(t, miami, r1)
	assert.Equal(t, r1, r2)
	assert.Equal(t, 1, inner.calls)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "geo.db")

	first, err := geocache.Open(path, &countingGeocoder{result: miami}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	_, err = first.ReverseGeocode(ctx, 25.8, -80.2)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	inner := &countingGeocoder{}
	second := openStore(t, path, inner)
	got, err := second.ReverseGeocode(ctx, 25.8, -80.2)
	require.NoError(t, err)

	assert.Equal(t, "Miami", got.PlaceName)
	assert.Zero(t, inner.calls)
}

func TestStore_EmptyResultNotStored(t *testing.T) {
	ctx := context.Background()
	inner := &countingGeocoder{}
	store := openStore(t, filepath.Join(t.TempDir(), "geo.db"), inner)

	for range 2 {
		got, err := store.ReverseGeocode(ctx, 30.0, -45.0)
		require.NoError(t, err)
		assert.Empty(t, got.FormattedAddress)
	}
	assert.Equal(t, 2, inner.calls)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_InnerErrorPropagates(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("mapbox: status 503")}
	store := openStore(t, filepath.Join(t.TempDir(), "geo.db"), inner)

	_, err := store.ReverseGeocode(context.Background(), 25.8, -80.2)
	require.Error(t, err)

	n, err := store.Len(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
