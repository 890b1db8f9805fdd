// Package mapsvg projects catalogue geography onto a viewport and emits a
// deterministic SVG document, hand-rolled against the exact element and
// attribute shapes the output format requires rather than through a
// general-purpose SVG library.
package mapsvg

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a sum type over the four ways a color can be expressed: unset
// (rendered "none"), a named CSS-ish string, an RGB triple, or an RGBA
// quadruple. The zero value is unset.
type Color struct {
	kind    colorKind
	name    string
	r, g, b int
	a       float64
}

type colorKind int

const (
	colorNone colorKind = iota
	colorNamed
	colorRGB
	colorRGBA
)

// NoColor is the explicit "none" color.
var NoColor = Color{kind: colorNone}

// Named builds a color rendered verbatim as its string value.
func Named(name string) Color {
	return Color{kind: colorNamed, name: name}
}

// RGB builds an integer-channel color rendered as "rgb(r,g,b)".
func RGB(r, g, b int) Color {
	return Color{kind: colorRGB, r: r, g: g, b: b}
}

// RGBA builds an integer-channel, floating-opacity color rendered as
// "rgba(r,g,b,a)".
func RGBA(r, g, b int, a float64) Color {
	return Color{kind: colorRGBA, r: r, g: g, b: b, a: a}
}

// String renders the color the way it appears as an SVG attribute value.
func (c Color) String() string {
	switch c.kind {
	case colorNamed:
		return c.name
	case colorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.r, c.g, c.b)
	case colorRGBA:
		return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.r, c.g, c.b, formatFloat(c.a))
	default:
		return "none"
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// escapeText applies the five required text-body substitutions in a single
// pass over the runes, so the ampersand escape never double-escapes the
// others.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// pathProps is embedded by every drawable element to give it the shared
// fill/stroke/width/caps/joins attribute set with chainable setters.
type pathProps struct {
	fill        Color
	stroke      Color
	strokeWidth float64
	hasWidth    bool
	strokeCap   string
	strokeJoin  string
}

func (p *pathProps) setFill(c Color) { p.fill = c }
func (p *pathProps) setStroke(c Color) { p.stroke = c }
func (p *pathProps) setStrokeWidth(w float64) {
	p.strokeWidth = w
	p.hasWidth = true
}
func (p *pathProps) setStrokeLineCap(v string)  { p.strokeCap = v }
func (p *pathProps) setStrokeLineJoin(v string) { p.strokeJoin = v }

func (p *pathProps) writeAttrs(b *strings.Builder) {
	fmt.Fprintf(b, ` fill="%s"`, p.fill.String())
	fmt.Fprintf(b, ` stroke="%s"`, p.stroke.String())
	if p.hasWidth {
		fmt.Fprintf(b, ` stroke-width="%s"`, formatFloat(p.strokeWidth))
	}
	if p.strokeCap != "" {
		fmt.Fprintf(b, ` stroke-linecap="%s"`, p.strokeCap)
	}
	if p.strokeJoin != "" {
		fmt.Fprintf(b, ` stroke-linejoin="%s"`, p.strokeJoin)
	}
}

// Object is anything that can render itself as one SVG element.
type Object interface {
	Render(b *strings.Builder)
}

// Circle is a <circle> element.
type Circle struct {
	pathProps
	Center Point
	Radius float64
}

func NewCircle() *Circle { return &Circle{} }

func (c *Circle) SetCenter(p Point) *Circle        { c.Center = p; return c }
func (c *Circle) SetRadius(r float64) *Circle      { c.Radius = r; return c }
func (c *Circle) SetFill(col Color) *Circle        { c.setFill(col); return c }
func (c *Circle) SetStroke(col Color) *Circle      { c.setStroke(col); return c }
func (c *Circle) SetStrokeWidth(w float64) *Circle { c.setStrokeWidth(w); return c }
func (c *Circle) SetStrokeLineCap(v string) *Circle  { c.setStrokeLineCap(v); return c }
func (c *Circle) SetStrokeLineJoin(v string) *Circle { c.setStrokeLineJoin(v); return c }

func (c *Circle) Render(b *strings.Builder) {
	b.WriteString("<circle")
	fmt.Fprintf(b, ` cx="%s" cy="%s" r="%s"`, formatFloat(c.Center.X), formatFloat(c.Center.Y), formatFloat(c.Radius))
	c.writeAttrs(b)
	b.WriteString("/>")
}

// Polyline is a <polyline> element.
type Polyline struct {
	pathProps
	Points []Point
}

func NewPolyline() *Polyline { return &Polyline{} }

func (p *Polyline) AddPoint(pt Point) *Polyline {
	p.Points = append(p.Points, pt)
	return p
}
func (p *Polyline) SetFill(col Color) *Polyline        { p.setFill(col); return p }
func (p *Polyline) SetStroke(col Color) *Polyline      { p.setStroke(col); return p }
func (p *Polyline) SetStrokeWidth(w float64) *Polyline { p.setStrokeWidth(w); return p }
func (p *Polyline) SetStrokeLineCap(v string) *Polyline  { p.setStrokeLineCap(v); return p }
func (p *Polyline) SetStrokeLineJoin(v string) *Polyline { p.setStrokeLineJoin(v); return p }

func (p *Polyline) Render(b *strings.Builder) {
	b.WriteString(`<polyline points="`)
	for i, pt := range p.Points {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(b, "%s,%s", formatFloat(pt.X), formatFloat(pt.Y))
	}
	b.WriteString(`"`)
	p.writeAttrs(b)
	b.WriteString("/>")
}

// Text is a <text> element.
type Text struct {
	pathProps
	Position   Point
	Offset     Point
	FontSize   int
	FontFamily string
	FontWeight string
	Data       string
}

func NewText() *Text { return &Text{} }

func (t *Text) SetPosition(p Point) *Text      { t.Position = p; return t }
func (t *Text) SetOffset(p Point) *Text        { t.Offset = p; return t }
func (t *Text) SetFontSize(size int) *Text     { t.FontSize = size; return t }
func (t *Text) SetFontFamily(name string) *Text { t.FontFamily = name; return t }
func (t *Text) SetFontWeight(w string) *Text   { t.FontWeight = w; return t }
func (t *Text) SetData(s string) *Text         { t.Data = s; return t }
func (t *Text) SetFill(col Color) *Text        { t.setFill(col); return t }
func (t *Text) SetStroke(col Color) *Text      { t.setStroke(col); return t }
func (t *Text) SetStrokeWidth(w float64) *Text { t.setStrokeWidth(w); return t }
func (t *Text) SetStrokeLineCap(v string) *Text  { t.setStrokeLineCap(v); return t }
func (t *Text) SetStrokeLineJoin(v string) *Text { t.setStrokeLineJoin(v); return t }

func (t *Text) Render(b *strings.Builder) {
	b.WriteString("<text")
	fmt.Fprintf(b, ` x="%s" y="%s"`, formatFloat(t.Position.X), formatFloat(t.Position.Y))
	fmt.Fprintf(b, ` dx="%s" dy="%s"`, formatFloat(t.Offset.X), formatFloat(t.Offset.Y))
	if t.FontSize != 0 {
		fmt.Fprintf(b, ` font-size="%d"`, t.FontSize)
	}
	if t.FontFamily != "" {
		fmt.Fprintf(b, ` font-family="%s"`, t.FontFamily)
	}
	if t.FontWeight != "" {
		fmt.Fprintf(b, ` font-weight="%s"`, t.FontWeight)
	}
	t.writeAttrs(b)
	b.WriteString(">")
	b.WriteString(escapeText(t.Data))
	b.WriteString("</text>")
}

// Document is the ordered object stream of a complete SVG render.
type Document struct {
	objects []Object
}

func (d *Document) Add(o Object) {
	d.objects = append(d.objects, o)
}

const xmlPreamble = "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\">\n"

// Render produces the complete UTF-8 SVG document text.
func (d *Document) Render() string {
	var b strings.Builder
	b.WriteString(xmlPreamble)
	for _, o := range d.objects {
		o.Render(&b)
	}
	b.WriteString("</svg>")
	return b.String()
}
