// Package document is the peripheral JSON request/response shape and the
// dispatcher that wires it to the catalogue, router, and renderer cores.
// None of the algorithmic content lives here — only translation between
// wire shapes and the core APIs.
package document

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/transitcat/core/internal/catalogue"
	"github.com/transitcat/core/internal/geo"
	"github.com/transitcat/core/internal/mapsvg"
	"github.com/transitcat/core/internal/router"
)

// BaseRequest is one ingestion entry: either a Stop or a Bus declaration.
// Both shapes are folded into a single struct since the wire format
// discriminates on Type rather than using separate JSON object shapes.
type BaseRequest struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	Latitude      float64        `json:"latitude,omitempty"`
	Longitude     float64        `json:"longitude,omitempty"`
	RoadDistances map[string]int `json:"road_distances,omitempty"`
	IsRoundtrip   bool           `json:"is_roundtrip,omitempty"`
	Stops         []string       `json:"stops,omitempty"`
}

// ColorValue decodes either a plain color name, an [r,g,b] triple, or an
// [r,g,b,a] quadruple into a mapsvg.Color.
type ColorValue struct {
	Color mapsvg.Color
}

func (c *ColorValue) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		c.Color = mapsvg.Named(name)
		return nil
	}

	var channels []float64
	if err := json.Unmarshal(data, &channels); err != nil {
		return fmt.Errorf("document: color value %s is neither a string nor a number array", data)
	}

	switch len(channels) {
	case 3:
		c.Color = mapsvg.RGB(int(channels[0]), int(channels[1]), int(channels[2]))
	case 4:
		c.Color = mapsvg.RGBA(int(channels[0]), int(channels[1]), int(channels[2]), channels[3])
	default:
		return fmt.Errorf("document: color array must have 3 or 4 elements, got %d", len(channels))
	}
	return nil
}

func (c ColorValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Color.String())
}

// RenderSettingsDoc mirrors render_settings. Any field left zero takes
// whatever zero-value behavior the renderer assigns it (e.g. an empty
// palette renders every route with no stroke color).
type RenderSettingsDoc struct {
	Width             float64      `json:"width"`
	Height            float64      `json:"height"`
	Padding           float64      `json:"padding"`
	LineWidth         float64      `json:"line_width"`
	StopRadius        float64      `json:"stop_radius"`
	BusLabelFontSize  int          `json:"bus_label_font_size"`
	BusLabelOffset    [2]float64   `json:"bus_label_offset"`
	StopLabelFontSize int          `json:"stop_label_font_size"`
	StopLabelOffset   [2]float64   `json:"stop_label_offset"`
	UnderlayerColor   ColorValue   `json:"underlayer_color"`
	UnderlayerWidth   float64      `json:"underlayer_width"`
	ColorPalette      []ColorValue `json:"color_palette"`
}

// ToSettings adapts the wire shape to the renderer's native Settings.
func (rs RenderSettingsDoc) ToSettings() mapsvg.Settings {
	palette := make([]mapsvg.Color, len(rs.ColorPalette))
	for i, c := range rs.ColorPalette {
		palette[i] = c.Color
	}

	return mapsvg.Settings{
		Width:             rs.Width,
		Height:            rs.Height,
		Padding:           rs.Padding,
		LineWidth:         rs.LineWidth,
		StopRadius:        rs.StopRadius,
		BusLabelFontSize:  rs.BusLabelFontSize,
		BusLabelOffset:    mapsvg.Point{X: rs.BusLabelOffset[0], Y: rs.BusLabelOffset[1]},
		StopLabelFontSize: rs.StopLabelFontSize,
		StopLabelOffset:   mapsvg.Point{X: rs.StopLabelOffset[0], Y: rs.StopLabelOffset[1]},
		UnderlayerColor:   rs.UnderlayerColor.Color,
		UnderlayerWidth:   rs.UnderlayerWidth,
		ColorPalette:      palette,
	}
}

// RoutingSettingsDoc mirrors routing_settings.
type RoutingSettingsDoc struct {
	BusVelocity float64 `json:"bus_velocity"`
	BusWaitTime int     `json:"bus_wait_time"`
}

// StatRequest is one query entry. Name is used by Bus/Stop requests; From
// and To are used by Route requests.
type StatRequest struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// InputDocument is the full request document.
type InputDocument struct {
	BaseRequests    []BaseRequest      `json:"base_requests"`
	RenderSettings  RenderSettingsDoc  `json:"render_settings"`
	RoutingSettings RoutingSettingsDoc `json:"routing_settings"`
	StatRequests    []StatRequest      `json:"stat_requests"`
}

// Response is one answer in the output array. Fields are built per request
// type directly as a map rather than through a single struct with a long
// run of omitempty tags, so that a Stop response's "buses" key can be an
// empty array without being dropped by omitempty on a zero-length slice.
type Response = map[string]any

func notFound(id int) Response {
	return Response{"request_id": id, "error_message": "not found"}
}

// Dispatcher answers stat requests by reading from a fully built Catalogue,
// Router, and Renderer. It holds no state of its own beyond those three
// references.
type Dispatcher struct {
	cat      *catalogue.Catalogue
	rt       *router.Router
	renderer *mapsvg.Renderer
}

// NewDispatcher wires the three core components together.
func NewDispatcher(cat *catalogue.Catalogue, rt *router.Router, renderer *mapsvg.Renderer) *Dispatcher {
	return &Dispatcher{cat: cat, rt: rt, renderer: renderer}
}

// Answer routes a single stat request to the core component that answers
// it. An unrecognized request type is treated as not-found rather than a
// parser-level failure, since parsing is the document layer's own concern.
func (d *Dispatcher) Answer(req StatRequest) Response {
	switch req.Type {
	case "Bus":
		return d.answerBus(req)
	case "Stop":
		return d.answerStop(req)
	case "Map":
		return d.answerMap(req)
	case "Route":
		return d.answerRoute(req)
	default:
		return notFound(req.ID)
	}
}

func (d *Dispatcher) answerBus(req StatRequest) Response {
	stat, ok := d.cat.GetBusStat(req.Name)
	if !ok {
		return notFound(req.ID)
	}
	return Response{
		"request_id":        req.ID,
		"curvature":         stat.Curvature,
		"route_length":      stat.RoadLengthMeters,
		"stop_count":        stat.TotalStops,
		"unique_stop_count": stat.UniqueStopsCount,
	}
}

func (d *Dispatcher) answerStop(req StatRequest) Response {
	buses, ok := d.cat.GetBusesByStop(req.Name)
	if !ok {
		return notFound(req.ID)
	}
	return Response{"request_id": req.ID, "buses": buses}
}

func (d *Dispatcher) answerMap(req StatRequest) Response {
	return Response{"request_id": req.ID, "map": d.renderer.Render()}
}

func (d *Dispatcher) answerRoute(req StatRequest) Response {
	itinerary, ok := d.rt.Route(req.From, req.To)
	if !ok {
		return notFound(req.ID)
	}

	items := make([]Response, 0, len(itinerary.Steps))
	for _, step := range itinerary.Steps {
		switch step.Kind {
		case router.StepWait:
			items = append(items, Response{"stop_name": step.StopName, "time": step.Minutes})
		case router.StepBus:
			items = append(items, Response{"bus": step.BusName, "span_count": step.SpanCount, "time": step.Minutes})
		}
	}

	return Response{"request_id": req.ID, "total_time": itinerary.TotalTime, "items": items}
}

// Run ingests in's base_requests into a fresh Catalogue in the canonical
// stops-then-distances-then-buses order, builds the Router and Renderer
// over it, and answers every stat request in order.
func Run(in InputDocument) []Response {
	cat := ingest(in.BaseRequests)

	rt := router.New(cat, in.RoutingSettings.BusVelocity, float64(in.RoutingSettings.BusWaitTime))

	renderer := mapsvg.New(in.RenderSettings.ToSettings())
	for _, bus := range cat.Buses() {
		renderer.AddBus(bus)
	}
	for _, stop := range cat.Stops() {
		renderer.AddStop(stop)
	}

	dispatcher := NewDispatcher(cat, rt, renderer)

	responses := make([]Response, 0, len(in.StatRequests))
	for _, req := range in.StatRequests {
		responses = append(responses, dispatcher.Answer(req))
	}
	return responses
}

func ingest(requests []BaseRequest) *catalogue.Catalogue {
	cat := catalogue.New()

	for _, br := range requests {
		if br.Type == "Stop" {
			cat.AddStop(br.Name, geo.Coordinates{Lat: br.Latitude, Lng: br.Longitude})
		}
	}
	for _, br := range requests {
		if br.Type != "Stop" {
			continue
		}
		for neighbor, meters := range br.RoadDistances {
			cat.AddDistance(br.Name, neighbor, meters)
		}
	}
	for _, br := range requests {
		if br.Type != "Bus" {
			continue
		}
		expanded := br.Stops
		if !br.IsRoundtrip {
			expanded = catalogue.ExpandLinearRoute(br.Stops)
		}
		cat.AddBus(br.Name, expanded, br.IsRoundtrip)
	}

	return cat
}
