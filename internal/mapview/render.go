package mapview

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io"

	"insarmap/internal/symbology"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("map.html.tmpl").ParseFS(templateFS, "templates/map.html.tmpl"))

// LegendEntry is one legend line.
type LegendEntry struct {
	Label string
	Color string
	Shape symbology.Shape
}

// Legend lists every owner colour and class shape on the map.
type Legend struct {
	Owners  []LegendEntry
	Classes []LegendEntry
}

// Center is a map centre in degrees.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Map is a rendered-ready interactive map.
type Map struct {
	Title   string
	Center  Center
	Zoom    int
	Tiles   TileLayer
	Markers []Marker
	Legend  Legend
}

// view is the part of the map handed to the page script.
type view struct {
	Center        Center    `json:"center"`
	Zoom          int       `json:"zoom"`
	Tiles         TileLayer `json:"tiles"`
	Markers       []Marker  `json:"markers"`
	FillOpacity   float64   `json:"fillOpacity"`
	PopupMaxWidth int       `json:"popupMaxWidth"`
}

// marshalTemplateJS encodes value as JSON and marks it safe for a script block.
// json.Marshal escapes <, > and & so the payload cannot close the script.
func marshalTemplateJS(value interface{}) (template.JS, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return template.JS(""), err
	}
	return template.JS(payload), nil
}

// WriteHTML renders m as a standalone HTML page.
func (m *Map) WriteHTML(w io.Writer) error {
	markers := m.Markers
	if markers == nil {
		markers = []Marker{}
	}
	viewJS, err := marshalTemplateJS(view{
		Center:        m.Center,
		Zoom:          m.Zoom,
		Tiles:         m.Tiles,
		Markers:       markers,
		FillOpacity:   FillOpacity,
		PopupMaxWidth: PopupMaxWidth,
	})
	if err != nil {
		return err
	}

	return pageTemplate.Execute(w, struct {
		Title  string
		Legend Legend
		View   template.JS
	}{
		Title:  m.Title,
		Legend: m.Legend,
		View:   viewJS,
	})
}

// HTML renders m into memory.
func (m *Map) HTML() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.WriteHTML(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
