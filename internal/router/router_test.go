package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitcat/core/internal/catalogue"
	"github.com/transitcat/core/internal/geo"
)

func buildLineCatalogue(t *testing.T) *catalogue.Catalogue {
	t.Helper()

	c := catalogue.New()
	c.AddStop("A", geo.Coordinates{Lat: 0, Lng: 0})
	c.AddStop("B", geo.Coordinates{Lat: 0, Lng: 0.01})
	c.AddStop("C", geo.Coordinates{Lat: 0, Lng: 0.02})
	c.AddStop("Island", geo.Coordinates{Lat: 9, Lng: 9})

	c.AddDistance("A", "B", 1000)
	c.AddDistance("B", "C", 1000)
	c.AddDistance("C", "A", 2000)

	_, ok := c.AddBus("1", []string{"A", "B", "C", "A"}, true)
	require.True(t, ok)

	return c
}

func TestRouteSameStopIsImmediate(t *testing.T) {
	c := buildLineCatalogue(t)
	r := New(c, 60, 5)

	itinerary, ok := r.Route("A", "A")
	require.True(t, ok)
	assert.Equal(t, 0.0, itinerary.TotalTime)
	assert.Empty(t, itinerary.Steps)
}

func TestRouteUnknownStopIsAbsent(t *testing.T) {
	c := buildLineCatalogue(t)
	r := New(c, 60, 5)

	_, ok := r.Route("A", "Nowhere")
	assert.False(t, ok)

	_, ok = r.Route("Nowhere", "A")
	assert.False(t, ok)
}

func TestRouteUnreachableStopIsAbsent(t *testing.T) {
	c := buildLineCatalogue(t)
	r := New(c, 60, 5)

	_, ok := r.Route("A", "Island")
	assert.False(t, ok)
}

func TestRouteBeginsWithWaitAtOrigin(t *testing.T) {
	c := buildLineCatalogue(t)
	r := New(c, 60, 5)

	itinerary, ok := r.Route("A", "C")
	require.True(t, ok)
	require.NotEmpty(t, itinerary.Steps)

	first := itinerary.Steps[0]
	assert.Equal(t, StepWait, first.Kind)
	assert.Equal(t, "A", first.StopName)
	assert.Equal(t, 5.0, first.Minutes)
}

func TestRouteTotalTimeEqualsSumOfSteps(t *testing.T) {
	c := buildLineCatalogue(t)
	r := New(c, 60, 5)

	itinerary, ok := r.Route("A", "C")
	require.True(t, ok)

	sum := 0.0
	for _, step := range itinerary.Steps {
		sum += step.Minutes
	}
	assert.InDelta(t, itinerary.TotalTime, sum, 1e-9)
}

func TestRoutePrefersDirectRideOverExtraWaits(t *testing.T) {
	c := buildLineCatalogue(t)
	r := New(c, 60, 5)

	itinerary, ok := r.Route("A", "C")
	require.True(t, ok)

	var busSteps []Step
	for _, step := range itinerary.Steps {
		if step.Kind == StepBus {
			busSteps = append(busSteps, step)
		}
	}

	// A single bus spans A->B->C directly; a correct shortest path never
	// needs to re-board, since re-boarding would add another wait edge.
	require.Len(t, busSteps, 1)
	assert.Equal(t, "1", busSteps[0].BusName)
	assert.Equal(t, 2, busSteps[0].SpanCount)
}

func TestRouteCachesPerSource(t *testing.T) {
	c := buildLineCatalogue(t)
	r := New(c, 60, 5)

	first, ok := r.Route("A", "C")
	require.True(t, ok)

	second, ok := r.Route("A", "B")
	require.True(t, ok)

	assert.Len(t, r.cache, 1, "both queries share the same source vertex")
	assert.Greater(t, first.TotalTime, second.TotalTime)
}

func TestVertexAndEdgeCounts(t *testing.T) {
	c := buildLineCatalogue(t)
	r := New(c, 60, 5)

	assert.Equal(t, 8, r.VertexCount()) // 2 vertices per stop, 4 stops

	stat, ok := c.GetBusStat("1")
	require.True(t, ok)
	// wait edges: one per stop; ride edges: one per (l, r) pair with l<r
	// over a route of stat.TotalStops entries.
	wantRide := 0
	for l := 0; l < stat.TotalStops; l++ {
		wantRide += stat.TotalStops - 1 - l
	}
	assert.Equal(t, 4+wantRide, r.EdgeCount())
}
