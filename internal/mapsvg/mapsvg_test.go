package mapsvg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitcat/core/internal/catalogue"
	"github.com/transitcat/core/internal/geo"
)

func defaultSettings() Settings {
	return Settings{
		Width:             600,
		Height:            400,
		Padding:           30,
		LineWidth:         14,
		StopRadius:        5,
		BusLabelFontSize:  20,
		BusLabelOffset:    Point{X: 7, Y: 15},
		StopLabelFontSize: 18,
		StopLabelOffset:   Point{X: 7, Y: -3},
		UnderlayerColor:   RGBA(255, 255, 255, 0.85),
		UnderlayerWidth:   3,
		ColorPalette:      []Color{Named("green"), RGB(255, 160, 0), Named("red")},
	}
}

func TestEmptyNetworkRendersFramingOnly(t *testing.T) {
	r := New(defaultSettings())

	svg := r.Render()
	assert.Equal(t, xmlPreamble+"</svg>", svg)
}

func TestRenderIsDeterministic(t *testing.T) {
	c := catalogue.New()
	c.AddStop("A", geo.Coordinates{Lat: 55.611087, Lng: 37.20829})
	c.AddStop("B", geo.Coordinates{Lat: 55.595884, Lng: 37.209755})
	c.AddStop("C", geo.Coordinates{Lat: 55.632761, Lng: 37.333324})
	bus, ok := c.AddBus("297", []string{"A", "B", "C", "A"}, true)
	require.True(t, ok)

	build := func() string {
		r := New(defaultSettings())
		for _, stop := range c.Stops() {
			r.AddStop(stop)
		}
		r.AddBus(bus)
		return r.Render()
	}

	first := build()
	second := build()
	assert.Equal(t, first, second)
}

func TestRenderLayerOrderRoutesThenLabelsThenStopsThenStopLabels(t *testing.T) {
	c := catalogue.New()
	c.AddStop("A", geo.Coordinates{Lat: 0, Lng: 0})
	c.AddStop("B", geo.Coordinates{Lat: 1, Lng: 1})
	bus, ok := c.AddBus("1", []string{"A", "B", "A"}, true)
	require.True(t, ok)

	r := New(defaultSettings())
	r.AddStop(c.Stops()[0])
	r.AddStop(c.Stops()[1])
	r.AddBus(bus)

	svg := r.Render()

	polylineIdx := strings.Index(svg, "<polyline")
	textIdx := strings.Index(svg, "<text")
	circleIdx := strings.Index(svg, "<circle")

	require.NotEqual(t, -1, polylineIdx)
	require.NotEqual(t, -1, textIdx)
	require.NotEqual(t, -1, circleIdx)
	assert.True(t, polylineIdx < textIdx, "routes must be emitted before labels")
	assert.True(t, textIdx < circleIdx, "bus labels must be emitted before stop markers")
	assert.True(t, circleIdx < strings.LastIndex(svg, "<text"), "stop labels must be emitted after stop markers")
}

func TestNonRoundtripLinearBusLabelsBothTerminals(t *testing.T) {
	c := catalogue.New()
	c.AddStop("X", geo.Coordinates{Lat: 0, Lng: 0})
	c.AddStop("Y", geo.Coordinates{Lat: 1, Lng: 1})
	c.AddStop("Z", geo.Coordinates{Lat: 2, Lng: 2})
	expanded := catalogue.ExpandLinearRoute([]string{"X", "Y", "Z"})
	bus, ok := c.AddBus("750", expanded, false)
	require.True(t, ok)

	r := New(defaultSettings())
	for _, stop := range c.Stops() {
		r.AddStop(stop)
	}
	r.AddBus(bus)

	svg := r.Render()
	assert.Equal(t, 4, strings.Count(svg, ">750<"), "two terminals, each labeled as an underlayer+foreground text pair")
}

func TestRoundtripBusLabelsOnlyOnce(t *testing.T) {
	c := catalogue.New()
	c.AddStop("A", geo.Coordinates{Lat: 0, Lng: 0})
	c.AddStop("B", geo.Coordinates{Lat: 1, Lng: 1})
	c.AddStop("C", geo.Coordinates{Lat: 2, Lng: 2})
	bus, ok := c.AddBus("297", []string{"A", "B", "C", "A"}, true)
	require.True(t, ok)

	r := New(defaultSettings())
	for _, stop := range c.Stops() {
		r.AddStop(stop)
	}
	r.AddBus(bus)

	svg := r.Render()
	assert.Equal(t, 2, strings.Count(svg, ">297<"), "one terminal, labeled as an underlayer+foreground text pair")
}

func TestTextEscaping(t *testing.T) {
	text := NewText().SetData(`A & "B" <C> 'D'`)
	var b strings.Builder
	text.Render(&b)
	assert.Contains(t, b.String(), "A &amp; &quot;B&quot; &lt;C&gt; &apos;D&apos;")
}

func TestColorSerialization(t *testing.T) {
	assert.Equal(t, "none", NoColor.String())
	assert.Equal(t, "red", Named("red").String())
	assert.Equal(t, "rgb(255,160,0)", RGB(255, 160, 0).String())
	assert.Equal(t, "rgba(255,255,255,0.85)", RGBA(255, 255, 255, 0.85).String())
}

func TestProjectorDegenerateInputYieldsZeroZoom(t *testing.T) {
	p := NewProjector(nil, 600, 400, 30)
	pt := p.Project(geo.Coordinates{Lat: 1, Lng: 1})
	assert.Equal(t, Point{X: 30, Y: 30}, pt)
}
