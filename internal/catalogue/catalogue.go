// Package catalogue is the interning storage layer for stops, buses, the
// pairwise road-distance table, and the stop-to-buses reverse index. All
// insertions happen during a single ingestion phase; nothing here mutates
// after the first query is answered.
package catalogue

import (
	"fmt"
	"sort"

	"github.com/transitcat/core/internal/geo"
)

// Stop is a named point on the network. Once added it is never mutated, and
// its address is stable for the catalogue's lifetime — Bus.Route and the
// name-to-stop index hold pointers straight into the Catalogue's stop arena.
type Stop struct {
	Name   string
	Coords geo.Coordinates
}

// Bus is a named route over an ordered, already-expanded sequence of stops.
// For a linear route the caller mirrors the declared stops before calling
// AddBus; the Catalogue stores whatever it is given verbatim.
type Bus struct {
	Name        string
	Route       []*Stop
	IsRoundtrip bool
}

// BusStat is the aggregate statistic payload for a single bus.
type BusStat struct {
	UniqueStopsCount int
	TotalStops       int
	RoadLengthMeters int
	Curvature        float64
}

type distKey struct {
	from, to string
}

// Catalogue owns every Stop and Bus for the lifetime of the process. Stops
// and buses are appended to arenas (plain slices of pointers) so that
// secondary indices can hold *Stop/*Bus references that never move.
type Catalogue struct {
	stops []*Stop
	buses []*Bus

	stopByName map[string]*Stop
	busByName  map[string]*Bus

	// stopToBuses holds, per stop name, the ascending-lexicographic list of
	// bus names that traverse it. Maintained by sorted insertion rather than
	// re-sorted on every read.
	stopToBuses map[string][]string

	distances map[distKey]int
}

// New returns an empty Catalogue ready for ingestion.
func New() *Catalogue {
	return &Catalogue{
		stopByName:  make(map[string]*Stop),
		busByName:   make(map[string]*Bus),
		stopToBuses: make(map[string][]string),
		distances:   make(map[distKey]int),
	}
}

// AddStop inserts a new stop. Re-adding an existing name is a no-op; the
// second return value reports whether a new Stop was created.
func (c *Catalogue) AddStop(name string, coords geo.Coordinates) (*Stop, bool) {
	if existing, ok := c.stopByName[name]; ok {
		return existing, false
	}

	stop := &Stop{Name: name, Coords: coords}
	c.stops = append(c.stops, stop)
	c.stopByName[name] = stop
	c.stopToBuses[name] = nil

	return stop, true
}

// AddBus inserts a new bus over the already-expanded route of stop names.
// It is rejected — and no Bus is created — if any referenced stop is
// missing from the catalogue, or if the bus name already exists.
func (c *Catalogue) AddBus(name string, expandedRoute []string, isRoundtrip bool) (*Bus, bool) {
	if _, exists := c.busByName[name]; exists {
		return nil, false
	}

	route := make([]*Stop, 0, len(expandedRoute))
	for _, stopName := range expandedRoute {
		stop, ok := c.stopByName[stopName]
		if !ok {
			return nil, false
		}
		route = append(route, stop)
	}

	bus := &Bus{Name: name, Route: route, IsRoundtrip: isRoundtrip}
	c.buses = append(c.buses, bus)
	c.busByName[name] = bus

	for _, stop := range route {
		c.indexBusForStop(stop.Name, name)
	}

	return bus, true
}

func (c *Catalogue) indexBusForStop(stopName, busName string) {
	buses := c.stopToBuses[stopName]

	i := sort.SearchStrings(buses, busName)
	if i < len(buses) && buses[i] == busName {
		return // already indexed, nothing to do
	}

	buses = append(buses, "")
	copy(buses[i+1:], buses[i:])
	buses[i] = busName
	c.stopToBuses[stopName] = buses
}

// AddDistance records the directed road distance from -> to, overwriting
// any previous value for that exact pair. Unknown stops are ignored; the
// canonical ingestion order is stops, then distances, then buses.
func (c *Catalogue) AddDistance(from, to string, meters int) {
	if _, ok := c.stopByName[from]; !ok {
		return
	}
	if _, ok := c.stopByName[to]; !ok {
		return
	}
	c.distances[distKey{from, to}] = meters
}

// GetDistance returns the explicit (from, to) distance if one was declared,
// falling back to the (to, from) entry. Neither direction being present is
// a programmer error per spec: every adjacent stop pair on a well-formed bus
// route has a declared distance, so this panics rather than returning an
// error a caller could swallow.
func (c *Catalogue) GetDistance(from, to string) int {
	if d, ok := c.distances[distKey{from, to}]; ok {
		return d
	}
	if d, ok := c.distances[distKey{to, from}]; ok {
		return d
	}
	panic(fmt.Sprintf("catalogue: no distance declared between %q and %q", from, to))
}

// FindStop looks up a stop by name.
func (c *Catalogue) FindStop(name string) (*Stop, bool) {
	stop, ok := c.stopByName[name]
	return stop, ok
}

// FindBus looks up a bus by name.
func (c *Catalogue) FindBus(name string) (*Bus, bool) {
	bus, ok := c.busByName[name]
	return bus, ok
}

// Stops returns every stop in insertion order. Callers that need name order
// should sort the result; the catalogue itself does not retain a sorted view
// since only the stop-to-buses index and the renderer require one.
func (c *Catalogue) Stops() []*Stop {
	return c.stops
}

// Buses returns every bus in insertion order.
func (c *Catalogue) Buses() []*Bus {
	return c.buses
}

// GetBusesByStop returns the ascending-lexicographic list of bus names
// serving stop name, and whether that stop is known to the catalogue.
func (c *Catalogue) GetBusesByStop(name string) ([]string, bool) {
	buses, ok := c.stopToBuses[name]
	if !ok {
		return nil, false
	}
	if buses == nil {
		return []string{}, true
	}
	return buses, true
}

// GetBusStat computes the aggregate statistic for a bus: how many distinct
// stops it visits, the length of its expanded route, the total road
// distance along that route, and the curvature (road length over geodesic
// length across the same consecutive stop pairs).
func (c *Catalogue) GetBusStat(name string) (BusStat, bool) {
	bus, ok := c.busByName[name]
	if !ok {
		return BusStat{}, false
	}

	unique := make(map[string]struct{}, len(bus.Route))
	for _, stop := range bus.Route {
		unique[stop.Name] = struct{}{}
	}

	roadLength := 0
	geodesicLength := 0.0
	for i := 0; i+1 < len(bus.Route); i++ {
		from, to := bus.Route[i], bus.Route[i+1]
		roadLength += c.GetDistance(from.Name, to.Name)
		geodesicLength += geo.Distance(from.Coords, to.Coords)
	}

	curvature := 0.0
	if geodesicLength > 0 {
		curvature = float64(roadLength) / geodesicLength
	}

	return BusStat{
		UniqueStopsCount: len(unique),
		TotalStops:       len(bus.Route),
		RoadLengthMeters: roadLength,
		Curvature:        curvature,
	}, true
}

// ExpandLinearRoute mirrors a linear route's declared stops into the
// doubled-back form the catalogue stores: [s0..sn] becomes
// [s0..sn, sn-1..s0].
func ExpandLinearRoute(stops []string) []string {
	if len(stops) == 0 {
		return nil
	}

	expanded := make([]string, 0, 2*len(stops)-1)
	expanded = append(expanded, stops...)
	for i := len(stops) - 2; i >= 0; i-- {
		expanded = append(expanded, stops[i])
	}
	return expanded
}
