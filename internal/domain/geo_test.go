package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversine(t *testing.T) {
	a := Point{Lat: 25.8, Lon: -80.2}
	b := Point{Lat: 29.9, Lon: -90.1}

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, Haversine(a, b), Haversine(b, a))
	})

	t.Run("zero for identical points", func(t *testing.T) {
		assert.Zero(t, Haversine(a, a))
	})

	t.Run("one degree of latitude is about 60 nmi", func(t *testing.T) {
		d := Haversine(Point{Lat: 10, Lon: -50}, Point{Lat: 11, Lon: -50})
		assert.InDelta(t, 60.0, d, 0.1)
	})
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name string
		from Point
		to   Point
		want float64
	}{
		{"north", Point{0, 0}, Point{1, 0}, 0},
		{"east", Point{0, 0}, Point{0, 1}, 90},
		{"south", Point{1, 0}, Point{0, 0}, 180},
		{"west", Point{0, 1}, Point{0, 0}, 270},
		{"across antimeridian westward", Point{10, -179}, Point{10, 179}, 270},
		{"across antimeridian eastward", Point{10, 179}, Point{10, -179}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Heading(tt.from, tt.to), 1e-9)
		})
	}
}

func TestCardinalDirection(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{11.25, "N"},
		{11.3, "NNE"},
		{45, "NE"},
		{90, "E"},
		{200, "SSW"},
		{348.8, "N"},
		{348.7, "NNW"},
		{360, "N"},
		{-90, "W"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CardinalDirection(tt.deg), "deg %v", tt.deg)
	}
}

func TestParseCoordinate(t *testing.T) {
	p, err := ParseCoordinate("28.0N", " 94.8W")
	require.NoError(t, err)
	assert.Equal(t, Point{Lat: 28.0, Lon: -94.8}, p)

	p, err = ParseCoordinate("12.5S", "171.0E")
	require.NoError(t, err)
	assert.Equal(t, Point{Lat: -12.5, Lon: 171.0}, p)

	_, err = ParseCoordinate("28.0X", "94.8W")
	assert.Error(t, err)
	_, err = ParseCoordinate("N", "94.8W")
	assert.Error(t, err)
	_, err = ParseCoordinate("95.0N", "94.8W")
	assert.Error(t, err)

	assert.Equal(t, "28.0N", FormatLatitude(28))
	assert.Equal(t, "94.8W", FormatLongitude(-94.8))
	assert.Equal(t, "12.5S", FormatLatitude(-12.5))
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox{North: 31, South: 18, West: -98, East: -80}

	assert.True(t, box.Contains(Point{Lat: 25, Lon: -90}))
	assert.True(t, box.Contains(Point{Lat: 31, Lon: -80}), "edges are inclusive")
	assert.False(t, box.Contains(Point{Lat: 32, Lon: -90}))
	assert.False(t, box.Contains(Point{Lat: 25, Lon: -79}))

	assert.NoError(t, box.validate())

	var verr *ValidationError
	err := BoundingBox{North: 10, South: 20, West: -98, East: -80}.validate()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "box", verr.Field)
	err = BoundingBox{North: 31, South: 18, West: -70, East: -80}.validate()
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "box", verr.Field)
}
