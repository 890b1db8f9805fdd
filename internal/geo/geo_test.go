package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceCoincidentPoints(t *testing.T) {
	p := Coordinates{Lat: 55.611087, Lng: 37.20829}
	assert.Equal(t, 0.0, Distance(p, p))
}

func TestDistanceKnownPair(t *testing.T) {
	a := Coordinates{Lat: 55.611087, Lng: 37.20829}
	b := Coordinates{Lat: 55.595884, Lng: 37.209755}

	d := Distance(a, b)
	assert.InDelta(t, 1693.0, d, 50)
}

func TestDistanceSymmetric(t *testing.T) {
	a := Coordinates{Lat: 55.632761, Lng: 37.333324}
	b := Coordinates{Lat: 55.611087, Lng: 37.20829}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}
