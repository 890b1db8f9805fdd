// Package router builds a time-weighted directed graph over a catalogue and
// answers shortest-path queries with Dijkstra, decoding the result into a
// typed sequence of wait/ride steps.
package router

import (
	"container/heap"
	"fmt"
	"math"
	"sync"

	"github.com/transitcat/core/internal/catalogue"
)

// EdgeKind distinguishes the two edge shapes the graph can hold. Keeping it
// as a field on Edge (rather than a separate wait-edge id set, as the
// original C++ router does) is how Go expresses the same invariant: decoding
// an itinerary never has to cross-reference a second structure to tell a
// wait from a ride.
type EdgeKind int

const (
	// WaitEdge models the fixed boarding delay between arriving at a stop
	// and being able to depart from it.
	WaitEdge EdgeKind = iota
	// RideEdge models a single bus segment between a departure and a
	// downstream arrival.
	RideEdge
)

// Edge is one directed connection in the routing graph.
type Edge struct {
	To      int
	Weight  float64 // minutes
	Kind    EdgeKind
	BusName string // only set for RideEdge
	Span    int    // stops traversed; only set for RideEdge
}

// StepKind distinguishes the two segment types of an Itinerary.
type StepKind int

const (
	StepWait StepKind = iota
	StepBus
)

// Step is one segment of a decoded Itinerary.
type Step struct {
	Kind      StepKind
	StopName  string  // waiting stop; only set for StepWait
	Minutes   float64
	BusName   string // only set for StepBus
	SpanCount int    // only set for StepBus
}

// Itinerary is the decoded result of a successful route query.
type Itinerary struct {
	TotalTime float64
	Steps     []Step
}

// Router owns the graph built over a Catalogue's stops and buses. It is
// built once, after ingestion completes, and is safe to query repeatedly
// and concurrently: per-source Dijkstra results are memoised lazily behind
// a mutex the first time each source vertex is queried.
type Router struct {
	cat *catalogue.Catalogue

	velocityKmh float64
	waitMinutes float64

	stopIndex map[string]int // stop name -> k
	stopNames []string       // k -> stop name, catalogue order

	adjacency [][]Edge // vertex id -> outgoing edges

	mu    sync.Mutex
	cache map[int]*shortestPaths
}

// New builds the routing graph over cat. bus_velocity_kmh and
// bus_wait_time_minutes parameterise, respectively, ride edge weights and
// the fixed wait edge weight.
func New(cat *catalogue.Catalogue, velocityKmh, waitMinutes float64) *Router {
	stops := cat.Stops()

	r := &Router{
		cat:         cat,
		velocityKmh: velocityKmh,
		waitMinutes: waitMinutes,
		stopIndex:   make(map[string]int, len(stops)),
		stopNames:   make([]string, len(stops)),
		adjacency:   make([][]Edge, 2*len(stops)),
		cache:       make(map[int]*shortestPaths),
	}

	for k, stop := range stops {
		r.stopIndex[stop.Name] = k
		r.stopNames[k] = stop.Name
		r.addEdge(r.departureVertex(k)-1, r.departureVertex(k), Edge{
			To:     r.departureVertex(k),
			Weight: waitMinutes,
			Kind:   WaitEdge,
		})
	}

	for _, bus := range cat.Buses() {
		r.addRideEdges(bus)
	}

	return r
}

func (r *Router) arrivalVertex(stopIdx int) int   { return 2 * stopIdx }
func (r *Router) departureVertex(stopIdx int) int { return 2*stopIdx + 1 }

func (r *Router) addEdge(from, to int, edge Edge) {
	edge.To = to
	r.adjacency[from] = append(r.adjacency[from], edge)
}

// addRideEdges walks the bus's expanded route as nested (l, r) index pairs.
// Travel time from l to r is accumulated by extending the previous leg, so
// the inner loop is O(route length) per l rather than recomputing from
// scratch for every (l, r) pair.
func (r *Router) addRideEdges(bus *catalogue.Bus) {
	route := bus.Route

	for l := 0; l < len(route); l++ {
		accumulated := 0.0
		fromVertex := r.departureVertex(r.stopIndex[route[l].Name])

		for rr := l + 1; rr < len(route); rr++ {
			prevStop := route[rr-1]
			curStop := route[rr]

			legMeters := float64(r.cat.GetDistance(prevStop.Name, curStop.Name))
			legMinutes := legMeters / 1000 * 60 / r.velocityKmh
			accumulated += legMinutes

			toVertex := r.arrivalVertex(r.stopIndex[curStop.Name])
			r.addEdge(fromVertex, toVertex, Edge{
				Weight:  accumulated,
				Kind:    RideEdge,
				BusName: bus.Name,
				Span:    rr - l,
			})
		}
	}
}

// Route finds the fastest itinerary from fromStopName to toStopName. The
// source is the arrival vertex of the origin (so the first wait is
// charged); the target is the arrival vertex of the destination (so a
// trailing wait at the destination is not charged). Unknown stop names or
// an unreachable target both report false.
func (r *Router) Route(fromStopName, toStopName string) (*Itinerary, bool) {
	fromIdx, ok := r.stopIndex[fromStopName]
	if !ok {
		return nil, false
	}
	toIdx, ok := r.stopIndex[toStopName]
	if !ok {
		return nil, false
	}

	source := r.arrivalVertex(fromIdx)
	target := r.arrivalVertex(toIdx)

	if source == target {
		return &Itinerary{TotalTime: 0, Steps: []Step{}}, true
	}

	paths := r.shortestPathsFrom(source)
	if math.IsInf(paths.dist[target], 1) {
		return nil, false
	}

	return r.decode(source, target, paths), true
}

// shortestPaths is the cached Dijkstra result for a single source vertex:
// the best distance to every vertex, and the edge used to reach it.
type shortestPaths struct {
	dist    []float64
	viaEdge []*Edge
	prev    []int
}

func (r *Router) shortestPathsFrom(source int) *shortestPaths {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[source]; ok {
		return cached
	}

	paths := r.dijkstra(source)
	r.cache[source] = paths
	return paths
}

func (r *Router) dijkstra(source int) *shortestPaths {
	n := len(r.adjacency)

	dist := make([]float64, n)
	viaEdge := make([]*Edge, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = -1
	}
	dist[source] = 0

	pq := &priorityQueue{{vertex: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queueItem)
		if cur.dist > dist[cur.vertex] {
			continue // stale entry superseded by a better path already found
		}

		for i := range r.adjacency[cur.vertex] {
			edge := &r.adjacency[cur.vertex][i]
			next := dist[cur.vertex] + edge.Weight
			if next < dist[edge.To] {
				dist[edge.To] = next
				viaEdge[edge.To] = edge
				prev[edge.To] = cur.vertex
				heap.Push(pq, queueItem{vertex: edge.To, dist: next})
			}
		}
	}

	return &shortestPaths{dist: dist, viaEdge: viaEdge, prev: prev}
}

// decode walks the predecessor chain from target back to source and emits
// it as a forward-ordered sequence of typed Steps.
func (r *Router) decode(source, target int, paths *shortestPaths) *Itinerary {
	var edges []*Edge
	for v := target; v != source; v = paths.prev[v] {
		edges = append(edges, paths.viaEdge[v])
	}

	steps := make([]Step, 0, len(edges))
	for i := len(edges) - 1; i >= 0; i-- {
		edge := edges[i]
		switch edge.Kind {
		case WaitEdge:
			steps = append(steps, Step{
				Kind:     StepWait,
				StopName: r.stopNameOfArrival(source, target, edge),
				Minutes:  edge.Weight,
			})
		case RideEdge:
			steps = append(steps, Step{
				Kind:      StepBus,
				BusName:   edge.BusName,
				SpanCount: edge.Span,
				Minutes:   edge.Weight,
			})
		}
	}

	return &Itinerary{TotalTime: paths.dist[target], Steps: steps}
}

// stopNameOfArrival recovers the stop name a wait edge departs from. A wait
// edge always runs arrival(k) -> departure(k) for some stop index k, so the
// departure vertex id (edge.To) is always odd; k = (edge.To - 1) / 2.
func (r *Router) stopNameOfArrival(_, _ int, edge *Edge) string {
	k := (edge.To - 1) / 2
	return r.stopNames[k]
}

// EdgeCount reports the total number of edges built, for diagnostics.
func (r *Router) EdgeCount() int {
	total := 0
	for _, edges := range r.adjacency {
		total += len(edges)
	}
	return total
}

// VertexCount reports 2*stops, for diagnostics.
func (r *Router) VertexCount() int {
	return len(r.adjacency)
}

func (r *Router) String() string {
	return fmt.Sprintf("router{vertices=%d edges=%d}", r.VertexCount(), r.EdgeCount())
}

type queueItem struct {
	vertex int
	dist   float64
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(queueItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
