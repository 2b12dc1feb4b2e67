// Package main provides the insarmap CLI: it loads the InSAR target
// database, filters it and writes an interactive map plus GeoJSON/CSV exports.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"insarmap/internal/config"
	"insarmap/internal/dataprocessing"
	apperrors "insarmap/internal/errors"
	"insarmap/internal/exporter"
	"insarmap/internal/filters"
	"insarmap/internal/infrastructure"
	"insarmap/internal/mapview"
	"insarmap/internal/validation"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitLoadError       = 2
	ExitRuntimeError    = 3
)

var (
	// Build information (set via ldflags during build)
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// exitError carries the exit code of the stage that failed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func failed(code int, err error) error {
	return &exitError{code: code, err: err}
}

// cliOptions holds the raw flag values. Only flags the user set are applied
// on top of the loaded configuration.
type cliOptions struct {
	configFile string
	logLevel   string
	verbose    bool
	quiet      bool

	file      string
	sheet     string
	headerRow int

	countries    []string
	owners       []string
	sites        []string
	lookDirs     []string
	satSystems   []string
	instrClasses []string
	strict       bool
	active       bool
	valid        bool
	where        string

	background string
	title      string
	zoom       int
	popupCols  []string

	outDir      string
	saveHTML    string
	saveGeoJSON string
	saveCSV     string
	csvBOM      bool

	traceFile   string
	metricsFile string
}

// execute runs the CLI with args and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "✗ %v\n", err)
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	// Flag and argument errors from cobra
	return ExitValidationError
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}
	defaults := config.Default()

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "insarmap - Filter the InSAR target database and map it",
		Long: `insarmap reads the designated InSAR target database (Excel), applies the
requested filters and writes an interactive Leaflet map together with a
GeoJSON export and an optional CSV of the remaining targets.

Settings come from defaults, then insarmap.yaml (or --config), then INSAR_*
environment variables, then flags.

Exit codes:
  0 - Success, including an empty result with nothing to map
  1 - Configuration or validation errors
  2 - Load or filter errors
  3 - Write or runtime errors

Examples:
  # Active, valid corner reflectors in the Netherlands and Belgium
  insarmap --file InSAR_designated_Target_Database.xlsx

  # German targets of one owner, strict class match, no HTML page
  insarmap --file db.xlsx --countries DEU --owners DLR --instr-class CR --strict --save-html ""

  # Free-form row predicate
  insarmap --file db.xlsx --where 'latitude > 52 && refFrame == "ITRF2014"'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return failed(ExitValidationError, err)
			}
			return run(cmd.Context(), cfg, stdout, stderr, opts.quiet)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.configFile, "config", "", "YAML configuration file (default ./"+config.DefaultConfigFile+" if present)")
	flags.StringVar(&opts.logLevel, "log-level", defaults.Logging.Level, "Log level: debug, info, warn, error")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Log errors only and suppress the summary")

	flags.StringVar(&opts.file, "file", "", "Path to the InSAR target database (.xlsx)")
	flags.StringVar(&opts.sheet, "sheet", defaults.Input.Sheet, "Worksheet holding the targets")
	flags.IntVar(&opts.headerRow, "header-row", defaults.Input.HeaderRow, "1-based sheet row holding the column keys")

	flags.StringSliceVar(&opts.countries, "countries", defaults.Filters.Countries, "Country codes to keep (empty disables)")
	flags.StringSliceVar(&opts.owners, "owners", nil, "Owners to keep")
	flags.StringSliceVar(&opts.sites, "sites", nil, "Site identifiers to keep")
	flags.StringSliceVar(&opts.lookDirs, "look-dirs", nil, "Look direction codes to keep, e.g. A,D")
	flags.StringSliceVar(&opts.satSystems, "sat-systems", nil, "Satellite system codes to keep besides All")
	flags.StringSliceVar(&opts.instrClasses, "instr-class", defaults.Filters.InstrClasses, "Instrument classes to keep (empty disables)")
	flags.BoolVar(&opts.strict, "strict", defaults.Filters.Strict, "Require an exact instrument class match")
	flags.BoolVar(&opts.active, "active", defaults.Filters.Active, "Keep only targets with an open-ended survey")
	flags.BoolVar(&opts.valid, "valid", defaults.Filters.Valid, "Keep only targets flagged valid")
	flags.StringVar(&opts.where, "where", "", "Boolean row expression over column names")

	flags.StringVar(&opts.background, "background", defaults.Map.Background, "Tile provider name or {z}/{x}/{y} URL template")
	flags.StringVar(&opts.title, "map-title", defaults.Map.Title, "Map title")
	flags.IntVar(&opts.zoom, "zoom", defaults.Map.Zoom, "Initial zoom level (0-22)")
	flags.StringSliceVar(&opts.popupCols, "popup-cols", defaults.Map.PopupColumns, "Columns shown in marker popups")

	flags.StringVar(&opts.outDir, "out-dir", "", "Directory relative output paths resolve against")
	flags.StringVar(&opts.saveHTML, "save-html", defaults.Output.HTML, "HTML map output path (empty disables)")
	flags.StringVar(&opts.saveGeoJSON, "save-geojson", defaults.Output.GeoJSON, "GeoJSON output path")
	flags.StringVar(&opts.saveCSV, "save-csv", "", "CSV output path of the filtered targets")
	flags.BoolVar(&opts.csvBOM, "csv-bom", false, "Prefix the CSV with a UTF-8 byte order mark")

	flags.StringVar(&opts.traceFile, "trace-file", "", "Write OpenTelemetry spans as JSON to this file")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write filter metrics as a Prometheus textfile")

	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.AddCommand(newVersionCmd(stdout))
	return root
}

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print version, commit hash, and build date information.",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "Version: %s\n", config.Version)
			fmt.Fprintf(stdout, "Commit: %s\n", commit)
			fmt.Fprintf(stdout, "Build Date: %s\n", buildDate)
		},
	}
}

// resolveConfig loads the configuration and applies the flags the user set.
func resolveConfig(cmd *cobra.Command, opts *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setList := func(name string, dst *[]string, v []string) {
		if changed(name) {
			*dst = cleanList(v)
		}
	}
	setBool := func(name string, dst *bool, v bool) {
		if changed(name) {
			*dst = v
		}
	}
	setInt := func(name string, dst *int, v int) {
		if changed(name) {
			*dst = v
		}
	}

	setString("file", &cfg.Input.File, opts.file)
	setString("sheet", &cfg.Input.Sheet, opts.sheet)
	setInt("header-row", &cfg.Input.HeaderRow, opts.headerRow)

	setList("countries", &cfg.Filters.Countries, opts.countries)
	setList("owners", &cfg.Filters.Owners, opts.owners)
	setList("sites", &cfg.Filters.Sites, opts.sites)
	setList("look-dirs", &cfg.Filters.LookDirs, opts.lookDirs)
	setList("sat-systems", &cfg.Filters.SatSystems, opts.satSystems)
	setList("instr-class", &cfg.Filters.InstrClasses, opts.instrClasses)
	setBool("strict", &cfg.Filters.Strict, opts.strict)
	setBool("active", &cfg.Filters.Active, opts.active)
	setBool("valid", &cfg.Filters.Valid, opts.valid)
	setString("where", &cfg.Filters.Where, opts.where)

	setString("background", &cfg.Map.Background, opts.background)
	setString("map-title", &cfg.Map.Title, opts.title)
	setInt("zoom", &cfg.Map.Zoom, opts.zoom)
	setList("popup-cols", &cfg.Map.PopupColumns, opts.popupCols)

	setString("out-dir", &cfg.Output.Dir, opts.outDir)
	setString("save-html", &cfg.Output.HTML, opts.saveHTML)
	setString("save-geojson", &cfg.Output.GeoJSON, opts.saveGeoJSON)
	setString("save-csv", &cfg.Output.CSV, opts.saveCSV)
	setBool("csv-bom", &cfg.Output.CSVBOM, opts.csvBOM)

	setString("trace-file", &cfg.Telemetry.TraceFile, opts.traceFile)
	setString("metrics-file", &cfg.Telemetry.MetricsFile, opts.metricsFile)

	setString("log-level", &cfg.Logging.Level, opts.logLevel)
	switch {
	case opts.verbose:
		cfg.Logging.Level = "debug"
	case opts.quiet:
		cfg.Logging.Level = "error"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := mapview.ResolveTiles(cfg.Map.Background); err != nil {
		return nil, err
	}
	return cfg, nil
}

// cleanList trims entries and drops empty ones, so --countries "" disables the filter.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// buildPipeline assembles the requested filters in their fixed order.
func buildPipeline(cfg config.FiltersConfig, opts ...filters.Option) (*filters.Pipeline, error) {
	p := filters.NewPipeline(opts...)

	if len(cfg.Countries) > 0 {
		p.Add(filters.CountryFilter{Countries: cfg.Countries})
	}
	if cfg.Valid {
		p.Add(filters.ValidFilter{})
	}
	if cfg.Active {
		p.Add(filters.ActiveFilter{})
	}
	if len(cfg.InstrClasses) > 0 {
		p.Add(filters.InstrumentClassFilter{Types: cfg.InstrClasses, Strict: cfg.Strict})
	}
	if len(cfg.Owners) > 0 {
		p.Add(filters.OwnerFilter{Owners: cfg.Owners})
	}
	if len(cfg.Sites) > 0 {
		p.Add(filters.SiteFilter{Sites: cfg.Sites})
	}
	if len(cfg.LookDirs) > 0 {
		p.Add(filters.LookDirectionFilter{Directions: cfg.LookDirs})
	}
	if len(cfg.SatSystems) > 0 {
		p.Add(filters.SatSystemFilter{Systems: cfg.SatSystems})
	}
	if cfg.Where != "" {
		expr, err := filters.NewExpressionFilter(cfg.Where)
		if err != nil {
			return nil, err
		}
		p.Add(expr)
	}
	return p, nil
}

// run executes load, filter, export and render for a validated configuration.
func run(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer, quiet bool) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = infrastructure.EnsureRunID(ctx)

	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return failed(ExitRuntimeError, apperrors.NewConfigError("failed to initialize logger", err))
	}
	defer infrastructure.CloseLogFile()

	logger.InfoContext(ctx, "Starting insarmap",
		slog.String("version", config.Version),
		slog.String("file", cfg.Input.File),
		slog.String("sheet", cfg.Input.Sheet))

	otel, err := infrastructure.InitializeOTel(ctx, infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return failed(ExitRuntimeError, err)
	}
	defer func() {
		if shutdownErr := otel.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("Telemetry shutdown failed", slog.String("error", shutdownErr.Error()))
			if err == nil {
				err = failed(ExitRuntimeError, shutdownErr)
			}
		}
	}()

	ctx, span := otel.Tracer.Start(ctx, "run")
	defer span.End()

	pipeline, err := buildPipeline(cfg.Filters,
		filters.WithLogger(logger),
		filters.WithTracer(otel.Tracer),
		filters.WithMeter(otel.Meter))
	if err != nil {
		return failed(ExitValidationError, err)
	}

	writer := exporter.NewWriter(cfg.Output.Dir).WithLogger(logger)
	if err := validateFiles(cfg, writer, logger); err != nil {
		return err
	}

	table, err := load(ctx, cfg.Input, otel, logger)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return failed(ExitLoadError, err)
	}
	loaded := table.Len()

	table, _, err = pipeline.Run(ctx, table)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return failed(ExitLoadError, err)
	}
	span.SetAttributes(
		attribute.Int("rows.loaded", loaded),
		attribute.Int("rows.kept", table.Len()))

	if cfg.Output.CSV != "" {
		if err := writer.WriteTableCSV(cfg.Output.CSV, table, cfg.Output.CSVBOM); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return failed(ExitRuntimeError, err)
		}
	}

	m, err := mapview.Plot(ctx, table, mapview.Options{
		PopupColumns: cfg.Map.PopupColumns,
		Title:        cfg.Map.Title,
		Zoom:         cfg.Map.Zoom,
		Background:   cfg.Map.Background,
		HTMLPath:     cfg.Output.HTML,
		GeoJSONPath:  cfg.Output.GeoJSON,
		Writer:       writer,
		Logger:       logger,
		Tracer:       otel.Tracer,
	})
	switch {
	case err == nil:
	case isGraceful(err):
		logger.WarnContext(ctx, "No map produced",
			slog.String("reason", string(apperrors.TypeOf(err))),
			slog.String("error", err.Error()))
		if !quiet {
			fmt.Fprintf(stdout, "No map produced: %v\n", err)
		}
		return nil
	case apperrors.IsType(err, apperrors.ErrTypeValidation):
		return failed(ExitValidationError, err)
	default:
		span.SetStatus(codes.Error, err.Error())
		return failed(ExitRuntimeError, err)
	}

	logger.InfoContext(ctx, "Run complete",
		slog.Int("loaded", loaded),
		slog.Int("kept", table.Len()))

	if !quiet {
		fmt.Fprintf(stdout, "✓ Mapped %d of %d targets\n", len(m.Markers), loaded)
		fmt.Fprintf(stdout, "  GeoJSON: %s\n", writer.ResolvePath(cfg.Output.GeoJSON))
		if cfg.Output.HTML != "" {
			fmt.Fprintf(stdout, "  HTML: %s\n", writer.ResolvePath(cfg.Output.HTML))
		}
		if cfg.Output.CSV != "" {
			fmt.Fprintf(stdout, "  CSV: %s\n", writer.ResolvePath(cfg.Output.CSV))
		}
	}
	return nil
}

// validateFiles checks the input workbook and every configured output path
// before any work is done.
func validateFiles(cfg *config.Config, writer *exporter.Writer, logger *slog.Logger) error {
	v := validation.NewFileValidator(logger)

	if err := v.ValidateExcelFile(cfg.Input.File); err != nil {
		return failed(ExitLoadError, err)
	}
	for _, path := range []string{cfg.Output.GeoJSON, cfg.Output.HTML, cfg.Output.CSV} {
		if path == "" {
			continue
		}
		if err := v.ValidateOutputPath(writer.ResolvePath(path)); err != nil {
			return failed(ExitRuntimeError, err)
		}
	}
	return nil
}

func load(ctx context.Context, in config.InputConfig, otel *infrastructure.OTelProviders, logger *slog.Logger) (*dataprocessing.Table, error) {
	_, span := otel.Tracer.Start(ctx, "load")
	defer span.End()
	span.SetAttributes(
		attribute.String("input.file", in.File),
		attribute.String("input.sheet", in.Sheet))

	table, err := dataprocessing.LoadTargets(in.File, dataprocessing.TargetColumns, dataprocessing.LoadOptions{
		Sheet:     in.Sheet,
		HeaderRow: in.HeaderRow,
		Logger:    infrastructure.WithComponent(logger, "loader"),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", table.Len()))
	return table, nil
}

// isGraceful reports render errors that end the run without failing it.
func isGraceful(err error) bool {
	return apperrors.IsType(err, apperrors.ErrTypeEmptyResult) ||
		apperrors.IsType(err, apperrors.ErrTypeMissingColumn) ||
		apperrors.IsType(err, apperrors.ErrTypeParsing)
}
