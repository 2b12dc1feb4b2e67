// Package mapview turns the filtered target table into an interactive
// Leaflet map with colour/shape coded markers, a title and a legend.
package mapview

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"insarmap/internal/dataprocessing"
	apperrors "insarmap/internal/errors"
	"insarmap/internal/exporter"
	"insarmap/internal/symbology"
)

// Defaults for Options.
const (
	DefaultTitle       = "InSAR Target Locations"
	DefaultZoom        = 6
	DefaultGeoJSONPath = "insar_points.geojson"
)

// DefaultPopupColumns are shown in marker popups unless configured otherwise.
var DefaultPopupColumns = []string{"siteId", "owner", "instrClass", "countryCode"}

// Options configures Plot.
type Options struct {
	LatColumn    string
	LonColumn    string
	OwnerColumn  string
	ClassColumn  string
	PopupColumns []string

	Title      string
	Zoom       int
	Background string

	// HTMLPath is written only when set. GeoJSONPath falls back to
	// DefaultGeoJSONPath.
	HTMLPath    string
	GeoJSONPath string

	Writer *exporter.Writer
	Logger *slog.Logger
	Tracer trace.Tracer
}

// DefaultOptions returns the options of a plain render with the default
// columns, title, zoom and tile background.
func DefaultOptions() Options {
	return Options{
		PopupColumns: DefaultPopupColumns,
		Title:        DefaultTitle,
		Zoom:         DefaultZoom,
		Background:   DefaultBackground,
		GeoJSONPath:  DefaultGeoJSONPath,
	}
}

// withDefaults fills unset names. Zoom is taken as given since 0 is a valid level.
func (o Options) withDefaults() Options {
	if o.LatColumn == "" {
		o.LatColumn = "latitude"
	}
	if o.LonColumn == "" {
		o.LonColumn = "longitude"
	}
	if o.OwnerColumn == "" {
		o.OwnerColumn = "owner"
	}
	if o.ClassColumn == "" {
		o.ClassColumn = "instrClass"
	}
	if o.PopupColumns == nil {
		o.PopupColumns = DefaultPopupColumns
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.GeoJSONPath == "" {
		o.GeoJSONPath = DefaultGeoJSONPath
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Writer == nil {
		o.Writer = exporter.NewWriter("")
	}
	o.Writer = o.Writer.WithLogger(o.Logger)
	if o.Tracer == nil {
		o.Tracer = tracenoop.NewTracerProvider().Tracer("")
	}
	return o
}

// Plot builds the map for t and exports it: the GeoJSON file first, then
// the HTML page if HTMLPath is set.
//
// An empty table is EMPTY_RESULT, absent coordinate columns MISSING_COLUMN
// and an unparsable coordinate PARSING. In these cases nothing is written
// and no map is returned.
func Plot(ctx context.Context, t *dataprocessing.Table, opts Options) (*Map, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	ctx, span := opts.Tracer.Start(ctx, "render",
		trace.WithAttributes(attribute.Int("rows", t.Len())))
	defer span.End()

	m, fc, err := build(t, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "Cannot plot targets", slog.String("error", err.Error()))
		return nil, err
	}

	logger.InfoContext(ctx, "Creating interactive map",
		slog.Int("points", len(m.Markers)),
		slog.String("tiles", m.Tiles.Name))

	if err := opts.Writer.WriteFeatureCollection(opts.GeoJSONPath, fc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if opts.HTMLPath != "" {
		var buf bytes.Buffer
		if err := m.WriteHTML(&buf); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, apperrors.NewWriteError(opts.HTMLPath, err)
		}
		path := opts.Writer.ResolvePath(opts.HTMLPath)
		if err := opts.Writer.WriteFile(path, buf.Bytes()); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		logger.InfoContext(ctx, "HTML map saved", slog.String("file_path", path))
	}

	logger.InfoContext(ctx, "Interactive map ready")
	return m, nil
}

// build checks the preconditions and assembles the map and its features
// without touching the filesystem.
func build(t *dataprocessing.Table, opts Options) (*Map, *geojson.FeatureCollection, error) {
	if t.Len() == 0 {
		return nil, nil, apperrors.NewEmptyResultError("no data to plot (table is empty)")
	}
	for _, c := range []string{opts.LatColumn, opts.LonColumn} {
		if !t.HasColumn(c) {
			return nil, nil, apperrors.NewMissingColumnError(c)
		}
	}

	tiles, err := ResolveTiles(opts.Background)
	if err != nil {
		return nil, nil, err
	}

	fc, err := exporter.FeatureCollection(t, opts.LatColumn, opts.LonColumn)
	if err != nil {
		return nil, nil, err
	}

	symbols, err := symbology.Assign(t, opts.OwnerColumn, opts.ClassColumn)
	if err != nil {
		return nil, nil, err
	}

	popupCols := make([]string, 0, len(opts.PopupColumns))
	for _, c := range opts.PopupColumns {
		if t.HasColumn(c) {
			popupCols = append(popupCols, c)
		}
	}

	m := &Map{
		Title:   opts.Title,
		Zoom:    opts.Zoom,
		Tiles:   tiles,
		Markers: make([]Marker, 0, t.Len()),
		Legend:  legendFor(symbols),
	}

	var sumLat, sumLon float64
	for i, f := range fc.Features {
		p, _ := f.Geometry.(orb.Point)
		lat, lon := p.Lat(), p.Lon()
		sumLat += lat
		sumLon += lon

		owner, _ := t.Value(i, opts.OwnerColumn)
		class, _ := t.Value(i, opts.ClassColumn)

		values := make([]string, len(popupCols))
		for j, c := range popupCols {
			values[j], _ = t.Value(i, c)
		}

		m.Markers = append(m.Markers, NewMarker(lat, lon,
			symbols.ColorFor(owner), symbols.ShapeFor(class), PopupHTML(popupCols, values)))
	}
	n := float64(len(fc.Features))
	m.Center = Center{Lat: sumLat / n, Lon: sumLon / n}

	return m, fc, nil
}

func legendFor(s *symbology.Symbols) Legend {
	var l Legend
	for _, o := range s.Owners() {
		l.Owners = append(l.Owners, LegendEntry{Label: o, Color: s.ColorFor(o)})
	}
	for _, c := range s.Classes() {
		l.Classes = append(l.Classes, LegendEntry{Label: c, Shape: s.ShapeFor(c)})
	}
	return l
}
