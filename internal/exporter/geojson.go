package exporter

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"insarmap/internal/dataprocessing"
	apperrors "insarmap/internal/errors"
)

// CRS84 names geographic longitude/latitude on WGS 84 (EPSG:4326 axis order lon, lat).
const CRS84 = "urn:ogc:def:crs:OGC:1.3:CRS84"

// Coordinates parses the latitude and longitude of every row.
// A missing column is a MISSING_COLUMN error, an unparsable cell a PARSING error.
func Coordinates(t *dataprocessing.Table, latCol, lonCol string) ([]orb.Point, error) {
	lats, err := t.Values(latCol)
	if err != nil {
		return nil, err
	}
	lons, err := t.Values(lonCol)
	if err != nil {
		return nil, err
	}

	points := make([]orb.Point, len(lats))
	for i := range lats {
		lat, err := parseCoordinate(lats[i])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d: invalid %s %q", i, latCol, lats[i]), err)
		}
		lon, err := parseCoordinate(lons[i])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("row %d: invalid %s %q", i, lonCol, lons[i]), err)
		}
		points[i] = orb.Point{lon, lat}
	}
	return points, nil
}

func parseCoordinate(cell string) (float64, error) {
	v, err := dataprocessing.ParseFloat(cell)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

// FeatureCollection converts t into point features, one per row, with every
// column carried as a typed property.
func FeatureCollection(t *dataprocessing.Table, latCol, lonCol string) (*geojson.FeatureCollection, error) {
	points, err := Coordinates(t, latCol, lonCol)
	if err != nil {
		return nil, err
	}

	fc := geojson.NewFeatureCollection()
	for i, p := range points {
		f := geojson.NewFeature(p)
		for k, v := range t.Record(i) {
			f.Properties[k] = v
		}
		fc.Append(f)
	}
	fc.ExtraMembers = geojson.Properties{
		"crs": map[string]interface{}{
			"type":       "name",
			"properties": map[string]string{"name": CRS84},
		},
	}
	return fc, nil
}

// WriteGeoJSON writes t as a GeoJSON FeatureCollection.
func (w *Writer) WriteGeoJSON(filePath string, t *dataprocessing.Table, latCol, lonCol string) error {
	fc, err := FeatureCollection(t, latCol, lonCol)
	if err != nil {
		return err
	}
	return w.WriteFeatureCollection(filePath, fc)
}

// WriteFeatureCollection serialises fc to filePath.
func (w *Writer) WriteFeatureCollection(filePath string, fc *geojson.FeatureCollection) error {
	fullPath := w.ResolvePath(filePath)

	data, err := fc.MarshalJSON()
	if err != nil {
		return apperrors.NewWriteError(fullPath, fmt.Errorf("encode geojson: %w", err))
	}
	if err := w.WriteFile(fullPath, data); err != nil {
		return err
	}

	w.logger.Info("GeoJSON saved",
		slog.String("file_path", fullPath),
		slog.Int("features", len(fc.Features)))
	return nil
}
