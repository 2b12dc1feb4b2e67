package mapview

import (
	"fmt"
	"html"
	"math"
	"strings"

	"insarmap/internal/symbology"
)

// Marker styling.
const (
	CircleRadius  = 5
	PolygonRadius = 7
	FillOpacity   = 0.9
	PopupMaxWidth = 250
)

// Marker is one plotted target.
type Marker struct {
	Lat    float64         `json:"lat"`
	Lon    float64         `json:"lon"`
	Color  string          `json:"color"`
	Shape  symbology.Shape `json:"shape"`
	Radius int             `json:"radius"`
	Size   int             `json:"size,omitempty"`
	SVG    string          `json:"svg,omitempty"`
	Popup  string          `json:"popup"`
}

// NewMarker styles a marker at lat/lon. Circles are drawn as Leaflet circle
// markers; every other shape as an SVG polygon icon.
func NewMarker(lat, lon float64, color string, shape symbology.Shape, popup string) Marker {
	m := Marker{Lat: lat, Lon: lon, Color: color, Shape: shape, Popup: popup}
	if shape == symbology.Circle {
		m.Radius = CircleRadius
		return m
	}
	m.Radius = PolygonRadius
	m.Size = 2*PolygonRadius + 2
	m.SVG = polygonSVG(shape, color, PolygonRadius)
	return m
}

// PopupHTML renders "<b>col:</b> value" lines for the given columns.
// Names and values are HTML-escaped.
func PopupHTML(columns, values []string) string {
	lines := make([]string, 0, len(columns))
	for i, c := range columns {
		lines = append(lines, fmt.Sprintf("<b>%s:</b> %s", html.EscapeString(c), html.EscapeString(values[i])))
	}
	return strings.Join(lines, "<br>")
}

// polygonVertices returns the outline of shape centred at (cx, cy), first
// vertex pointing up.
func polygonVertices(shape symbology.Shape, cx, cy, r float64) [][2]float64 {
	var radii []float64
	var offset float64
	switch shape {
	case symbology.Star:
		radii = make([]float64, 10)
		for i := range radii {
			radii[i] = r
			if i%2 == 1 {
				radii[i] = r * 0.45
			}
		}
	case symbology.Square:
		radii = []float64{r, r, r, r}
		offset = math.Pi / 4
	default:
		sides := shape.Sides()
		if sides < 3 {
			sides = 4
		}
		radii = make([]float64, sides)
		for i := range radii {
			radii[i] = r
		}
	}

	pts := make([][2]float64, len(radii))
	step := 2 * math.Pi / float64(len(radii))
	for i, rr := range radii {
		a := -math.Pi/2 + offset + float64(i)*step
		pts[i] = [2]float64{cx + rr*math.Cos(a), cy + rr*math.Sin(a)}
	}
	return pts
}

func polygonSVG(shape symbology.Shape, color string, radius int) string {
	size := 2*radius + 2
	c := float64(size) / 2
	pts := polygonVertices(shape, c, c, float64(radius))

	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = fmt.Sprintf("%.2f,%.2f", p[0], p[1])
	}
	color = html.EscapeString(color)
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<polygon points="%s" fill="%s" fill-opacity="%.1f" stroke="%s" stroke-width="1"/></svg>`,
		size, size, size, size, strings.Join(coords, " "), color, FillOpacity, color)
}
