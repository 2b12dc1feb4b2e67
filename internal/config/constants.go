package config

// Application constants
const (
	// Application Info
	AppName    = "insarmap"
	AppVersion = "1.0.0"

	// Configuration sources
	EnvPrefix         = "INSAR"
	DefaultConfigFile = "insarmap.yaml"

	// Target database layout
	DefaultSheet     = "insarTargets"
	DefaultHeaderRow = 2

	// Map presentation
	DefaultMapTitle   = "InSAR Target Locations"
	DefaultZoom       = 6
	DefaultBackground = "CartoDB Positron"

	// Output files
	DefaultHTMLFile    = "insar_map.html"
	DefaultGeoJSONFile = "insar_points.geojson"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Version is overridden at build time with -ldflags "-X insarmap/internal/config.Version=..."
var Version = AppVersion
