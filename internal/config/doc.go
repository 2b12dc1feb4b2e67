// Package config provides configuration management for insarmap.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//	1. Default values (Default)
//	2. YAML file (--config, or insarmap.yaml in the working directory)
//	3. Environment variables
//	4. Command-line flags (applied by the CLI)
//
// # Environment Variables
//
// All environment variables follow the pattern INSAR_<SECTION>_<KEY>:
//
//	INSAR_INPUT_FILE=InSAR_designated_Target_Database.xlsx
//	INSAR_FILTERS_COUNTRIES=NLD,BEL,DEU
//	INSAR_MAP_ZOOM=7
//	INSAR_LOGGING_LEVEL=debug
//	INSAR_TELEMETRY_TRACE_FILE=trace.jsonl
//	INSAR_OUTPUT_GEOJSON=points.geojson
//	INSAR_OUTPUT_CSVBOM=true
//
// Unprefixed names such as FILE or LEVEL are never read.
//
// # Validation
//
// Validate checks the merged configuration with struct tags:
//
//	- the input file and sheet are set
//	- the header row is at least 1
//	- the zoom level is within 0..22
//	- the log level and output are known values
//
// # Usage
//
//	cfg, err := config.Load(configPath)
//	if err != nil {
//	    return err
//	}
//	// apply flags...
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
