package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "insarmap/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Filters   FiltersConfig   `yaml:"filters"`
	Map       MapConfig       `yaml:"map"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// InputConfig locates the target database
type InputConfig struct {
	File      string `yaml:"file" validate:"required"`
	Sheet     string `yaml:"sheet" validate:"required"`
	HeaderRow int    `yaml:"header_row" validate:"gte=1" split_words:"true"`
}

// FiltersConfig selects the row filters. Empty lists disable the matching filter.
type FiltersConfig struct {
	Countries    []string `yaml:"countries"`
	Owners       []string `yaml:"owners"`
	Sites        []string `yaml:"sites"`
	LookDirs     []string `yaml:"look_dirs" split_words:"true"`
	SatSystems   []string `yaml:"sat_systems" split_words:"true"`
	InstrClasses []string `yaml:"instr_classes" split_words:"true"`
	Strict       bool     `yaml:"strict"`
	Active       bool     `yaml:"active"`
	Valid        bool     `yaml:"valid"`
	Where        string   `yaml:"where"`
}

// MapConfig contains presentation settings
type MapConfig struct {
	Title        string   `yaml:"title"`
	Zoom         int      `yaml:"zoom" validate:"gte=0,lte=22"`
	Background   string   `yaml:"background" validate:"required"`
	PopupColumns []string `yaml:"popup_columns" split_words:"true"`
}

// OutputConfig contains output file paths. Relative paths resolve against Dir.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	HTML    string `yaml:"html"`
	GeoJSON string `yaml:"geojson" validate:"required"`
	CSV     string `yaml:"csv"`
	CSVBOM  bool   `yaml:"csv_bom"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" validate:"oneof=json"`
	Output   string `yaml:"output" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" validate:"required_unless=Output console" split_words:"true"`
}

// TelemetryConfig enables trace and metrics files. Both are off when empty.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" split_words:"true"`
	TraceFile   string `yaml:"trace_file" split_words:"true"`
	MetricsFile string `yaml:"metrics_file" split_words:"true"`
}

// Enabled reports whether any telemetry output is configured.
func (t TelemetryConfig) Enabled() bool {
	return t.TraceFile != "" || t.MetricsFile != ""
}

// Load builds the configuration from defaults, then the YAML file, then
// INSAR_* environment variables. An explicit path must exist; with an empty
// path DefaultConfigFile is read if present. The result is not validated
// because CLI flags are applied on top; call Validate afterwards.
func Load(path string) (*Config, error) {
	cfg := Default()

	configFile, err := getConfigFilePath(path)
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg; keys absent from the file keep their value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the config file to read, or "" for none
func getConfigFilePath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", apperrors.NewConfigError("config file not found", err).WithContext("path", explicit)
		}
		return explicit, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}
	return "", nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Use YAML key names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("config validation failed", err)
	}

	msgs := make([]string, 0, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
		fields = append(fields, fe.Namespace())
	}
	return apperrors.NewValidationError("invalid configuration: "+strings.Join(msgs, "; "), nil).
		WithContext("fields", fields)
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_unless":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", field, fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Sheet:     DefaultSheet,
			HeaderRow: DefaultHeaderRow,
		},
		Filters: FiltersConfig{
			Countries:    []string{"NLD", "BEL"},
			InstrClasses: []string{"CR", "IGRS", "TR"},
			Strict:       false,
			Active:       true,
			Valid:        true,
		},
		Map: MapConfig{
			Title:        DefaultMapTitle,
			Zoom:         DefaultZoom,
			Background:   DefaultBackground,
			PopupColumns: []string{"siteId", "owner", "instrClass", "countryCode"},
		},
		Output: OutputConfig{
			HTML:    DefaultHTMLFile,
			GeoJSON: DefaultGeoJSONFile,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: "logs/insarmap.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName: AppName,
		},
	}
}
