package mapsvg

import (
	"sort"

	"github.com/transitcat/core/internal/catalogue"
	"github.com/transitcat/core/internal/geo"
)

// Settings configures every sizing, font, and color knob the renderer
// reads. It has no defaults of its own — the caller (the peripheral
// document/config layer) is responsible for populating it.
type Settings struct {
	Width, Height, Padding float64
	LineWidth              float64
	StopRadius             float64
	BusLabelFontSize       int
	BusLabelOffset         Point
	StopLabelFontSize      int
	StopLabelOffset        Point
	UnderlayerColor        Color
	UnderlayerWidth        float64
	ColorPalette           []Color
}

// Renderer accumulates bus and stop registrations and emits a deterministic
// SVG document on demand. Registration is idempotent on name, matching the
// catalogue's own idempotent-insert semantics.
type Renderer struct {
	settings Settings

	busByName  map[string]*catalogue.Bus
	stopByName map[string]*catalogue.Stop
}

// New returns a Renderer configured by settings.
func New(settings Settings) *Renderer {
	return &Renderer{
		settings:   settings,
		busByName:  make(map[string]*catalogue.Bus),
		stopByName: make(map[string]*catalogue.Stop),
	}
}

// AddBus registers a bus for rendering. Re-adding an existing name is a
// no-op.
func (r *Renderer) AddBus(bus *catalogue.Bus) {
	if _, exists := r.busByName[bus.Name]; exists {
		return
	}
	r.busByName[bus.Name] = bus
}

// AddStop registers a stop for rendering. Re-adding an existing name is a
// no-op.
func (r *Renderer) AddStop(stop *catalogue.Stop) {
	if _, exists := r.stopByName[stop.Name]; exists {
		return
	}
	r.stopByName[stop.Name] = stop
}

func (r *Renderer) sortedBuses() []*catalogue.Bus {
	names := make([]string, 0, len(r.busByName))
	for name := range r.busByName {
		names = append(names, name)
	}
	sort.Strings(names)

	buses := make([]*catalogue.Bus, len(names))
	for i, name := range names {
		buses[i] = r.busByName[name]
	}
	return buses
}

func (r *Renderer) sortedStops() []*catalogue.Stop {
	names := make([]string, 0, len(r.stopByName))
	for name := range r.stopByName {
		names = append(names, name)
	}
	sort.Strings(names)

	stops := make([]*catalogue.Stop, len(names))
	for i, name := range names {
		stops[i] = r.stopByName[name]
	}
	return stops
}

// allCoordinates collects every coordinate touched by any registered bus's
// expanded route, in the order the projector needs to compute its extents.
func (r *Renderer) allCoordinates(buses []*catalogue.Bus) []geo.Coordinates {
	var points []geo.Coordinates
	for _, bus := range buses {
		for _, stop := range bus.Route {
			points = append(points, stop.Coords)
		}
	}
	return points
}

func (r *Renderer) paletteColor(i int) Color {
	if len(r.settings.ColorPalette) == 0 {
		return NoColor
	}
	return r.settings.ColorPalette[i%len(r.settings.ColorPalette)]
}

// Render produces the full SVG document text. Layer order is routes, bus
// labels, stop markers, stop labels — the order is part of the output
// contract since SVG element order is stacking order.
func (r *Renderer) Render() string {
	buses := r.sortedBuses()
	stops := r.sortedStops()

	projector := NewProjector(r.allCoordinates(buses), r.settings.Width, r.settings.Height, r.settings.Padding)

	doc := &Document{}

	r.renderRoutes(doc, buses, projector)
	r.renderBusLabels(doc, buses, projector)
	r.renderStopMarkers(doc, stops, projector)
	r.renderStopLabels(doc, stops, projector)

	return doc.Render()
}

func (r *Renderer) renderRoutes(doc *Document, buses []*catalogue.Bus, projector *Projector) {
	for i, bus := range buses {
		line := NewPolyline().
			SetFill(NoColor).
			SetStroke(r.paletteColor(i)).
			SetStrokeWidth(r.settings.LineWidth).
			SetStrokeLineCap("round").
			SetStrokeLineJoin("round")

		for _, stop := range bus.Route {
			line.AddPoint(projector.Project(stop.Coords))
		}
		doc.Add(line)
	}
}

func (r *Renderer) renderBusLabels(doc *Document, buses []*catalogue.Bus, projector *Projector) {
	for i, bus := range buses {
		if len(bus.Route) == 0 {
			continue
		}

		color := r.paletteColor(i)
		first := bus.Route[0]
		r.addBusLabelPair(doc, bus.Name, projector.Project(first.Coords), color)

		if !bus.IsRoundtrip {
			midpoint := bus.Route[len(bus.Route)/2]
			if midpoint.Name != first.Name {
				r.addBusLabelPair(doc, bus.Name, projector.Project(midpoint.Coords), color)
			}
		}
	}
}

func (r *Renderer) addBusLabelPair(doc *Document, name string, at Point, color Color) {
	underlayer := r.newLabelBase(at, r.settings.BusLabelOffset, r.settings.BusLabelFontSize, name).
		SetFill(r.settings.UnderlayerColor).
		SetStroke(r.settings.UnderlayerColor).
		SetStrokeWidth(r.settings.UnderlayerWidth).
		SetStrokeLineCap("round").
		SetStrokeLineJoin("round").
		SetFontWeight("bold")
	doc.Add(underlayer)

	foreground := r.newLabelBase(at, r.settings.BusLabelOffset, r.settings.BusLabelFontSize, name).
		SetFill(color).
		SetFontWeight("bold")
	doc.Add(foreground)
}

func (r *Renderer) renderStopMarkers(doc *Document, stops []*catalogue.Stop, projector *Projector) {
	for _, stop := range stops {
		circle := NewCircle().
			SetCenter(projector.Project(stop.Coords)).
			SetRadius(r.settings.StopRadius).
			SetFill(Named("white"))
		doc.Add(circle)
	}
}

func (r *Renderer) renderStopLabels(doc *Document, stops []*catalogue.Stop, projector *Projector) {
	for _, stop := range stops {
		at := projector.Project(stop.Coords)

		underlayer := r.newLabelBase(at, r.settings.StopLabelOffset, r.settings.StopLabelFontSize, stop.Name).
			SetFill(r.settings.UnderlayerColor).
			SetStroke(r.settings.UnderlayerColor).
			SetStrokeWidth(r.settings.UnderlayerWidth).
			SetStrokeLineCap("round").
			SetStrokeLineJoin("round")
		doc.Add(underlayer)

		foreground := r.newLabelBase(at, r.settings.StopLabelOffset, r.settings.StopLabelFontSize, stop.Name).
			SetFill(Named("black"))
		doc.Add(foreground)
	}
}

func (r *Renderer) newLabelBase(at, offset Point, fontSize int, data string) *Text {
	return NewText().
		SetPosition(at).
		SetOffset(offset).
		SetFontFamily("Verdana").
		SetFontSize(fontSize).
		SetData(data)
}
