package mapview

import (
	"fmt"
	"sort"
	"strings"

	apperrors "insarmap/internal/errors"
)

// DefaultBackground is the tile background used when none is configured.
const DefaultBackground = "CartoDB Positron"

// TileLayer describes a slippy-map tile source.
type TileLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
	Subdomains  string `json:"subdomains,omitempty"`
}

const (
	osmAttribution   = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`
	cartoAttribution = osmAttribution + ` &copy; <a href="https://carto.com/attributions">CARTO</a>`
)

var tileProviders = map[string]TileLayer{
	"openstreetmap": {
		Name:        "OpenStreetMap",
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: osmAttribution,
		MaxZoom:     19,
	},
	"cartodbpositron": {
		Name:        "CartoDB Positron",
		URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
		Attribution: cartoAttribution,
		MaxZoom:     20,
		Subdomains:  "abcd",
	},
	"cartodbdarkmatter": {
		Name:        "CartoDB dark_matter",
		URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
		Attribution: cartoAttribution,
		MaxZoom:     20,
		Subdomains:  "abcd",
	},
	"esriworldimagery": {
		Name:        "Esri WorldImagery",
		URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
		Attribution: "Tiles &copy; Esri &mdash; Source: Esri, i-cubed, USDA, USGS, AEX, GeoEye, Getmapping, Aerogrid, IGN, IGP, UPR-EGP, and the GIS User Community",
		MaxZoom:     18,
	},
	"opentopomap": {
		Name:        "OpenTopoMap",
		URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
		Attribution: `Map data: ` + osmAttribution + `, SRTM | Map style: &copy; <a href="https://opentopomap.org">OpenTopoMap</a> (CC-BY-SA)`,
		MaxZoom:     17,
		Subdomains:  "abc",
	},
}

// ResolveTiles maps a background name to a tile layer. Names match ignoring
// case, spaces, dots, dashes and underscores, so "Cartodb Positron" and
// "cartodb_positron" are the same provider. A URL template containing
// {z}, {x} and {y} is used as is.
func ResolveTiles(background string) (TileLayer, error) {
	background = strings.TrimSpace(background)
	if background == "" {
		background = DefaultBackground
	}

	if isURLTemplate(background) {
		return TileLayer{Name: "custom", URL: background, MaxZoom: 19}, nil
	}

	if layer, ok := tileProviders[providerKey(background)]; ok {
		return layer, nil
	}
	return TileLayer{}, apperrors.NewValidationError(
		fmt.Sprintf("unknown tile background %q (known: %s)", background, strings.Join(TileProviders(), ", ")), nil)
}

// TileProviders lists the names of the built-in tile providers.
func TileProviders() []string {
	names := make([]string, 0, len(tileProviders))
	for _, p := range tileProviders {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

func providerKey(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '.':
			return -1
		}
		return r
	}, strings.ToLower(name))
}

func isURLTemplate(s string) bool {
	return strings.Contains(s, "{z}") && strings.Contains(s, "{x}") && strings.Contains(s, "{y}")
}
