package mapsvg

import "github.com/transitcat/core/internal/geo"

// Point is a projected screen-space coordinate.
type Point struct {
	X, Y float64
}

// Projector maps geographic coordinates onto a padded viewport, preserving
// aspect ratio by taking the tighter of the two axis zooms.
type Projector struct {
	minLon, maxLat float64
	zoom           float64
	padding        float64
}

// NewProjector computes a projector from the full set of coordinates that
// will be drawn. An empty set or a degenerate (single-point) set yields a
// zero zoom, which projects every point onto the padding corner — the
// framing-only boundary case.
func NewProjector(points []geo.Coordinates, width, height, padding float64) *Projector {
	if len(points) == 0 {
		return &Projector{padding: padding}
	}

	minLon, maxLon := points[0].Lng, points[0].Lng
	minLat, maxLat := points[0].Lat, points[0].Lat
	for _, p := range points[1:] {
		minLon = min(minLon, p.Lng)
		maxLon = max(maxLon, p.Lng)
		minLat = min(minLat, p.Lat)
		maxLat = max(maxLat, p.Lat)
	}

	var zoomX, zoomY float64
	var haveZoomX, haveZoomY bool

	if lonSpan := maxLon - minLon; lonSpan != 0 {
		zoomX = (width - 2*padding) / lonSpan
		haveZoomX = true
	}
	if latSpan := maxLat - minLat; latSpan != 0 {
		zoomY = (height - 2*padding) / latSpan
		haveZoomY = true
	}

	zoom := 0.0
	switch {
	case haveZoomX && haveZoomY:
		zoom = min(zoomX, zoomY)
	case haveZoomX:
		zoom = zoomX
	case haveZoomY:
		zoom = zoomY
	}

	return &Projector{minLon: minLon, maxLat: maxLat, zoom: zoom, padding: padding}
}

// Project maps a geographic coordinate to screen space.
func (p *Projector) Project(c geo.Coordinates) Point {
	return Point{
		X: (c.Lng-p.minLon)*p.zoom + p.padding,
		Y: (p.maxLat-c.Lat)*p.zoom + p.padding,
	}
}
