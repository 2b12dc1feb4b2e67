// Package exporter writes the filtered target table to disk.
//
// Writer covers both output formats:
//
// CSV: the table as header plus rows, no index column, with an optional UTF-8
// BOM for Excel.
//
// GeoJSON: a FeatureCollection with one Point per row at [longitude, latitude]
// (EPSG:4326) carrying every column as a typed property.
//
// Example usage:
//
//	w := exporter.NewWriter("out")
//
//	// Dump the filtered rows
//	err := w.WriteTableCSV("insar_filtered.csv", table, false)
//
//	// Export points
//	err = w.WriteGeoJSON("insar_points.geojson", table, "latitude", "longitude")
//
// Relative paths are resolved against the writer's base directory. All write
// failures are returned as WRITE errors.
package exporter
