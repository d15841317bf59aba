package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"astdump/internal/diag"
	"astdump/internal/diagfmt"
	"astdump/internal/driver"
	"astdump/internal/source"
)

const defaultMaxDiagnostics = driver.DefaultMaxDiagnostics

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on":
		return colorOn, nil
	case "off":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid color value %q (expected auto|on|off)", value)
	}
}

// settings is the merged view of flags and astdump.toml used by every command.
type settings struct {
	format     driver.OutputFormat
	text       diagfmt.TextMode
	color      colorMode
	quiet      bool
	timings    bool
	diagFormat string
	pathMode   diagfmt.PathMode
	context    int
	withNotes  bool
	decode     driver.DecodeOptions
	jobs       int
	ui         uiMode
	cache      bool
	cacheDir   string
	cacheClear bool
}

func defaultSettings() settings {
	return settings{
		format:     driver.FormatTree,
		text:       diagfmt.TextVerbatim,
		color:      colorAuto,
		diagFormat: "pretty",
		ui:         uiModeAuto,
		decode:     driver.DecodeOptions{MaxDiagnostics: defaultMaxDiagnostics},
	}
}

// pick returns the flag value when it was set explicitly, otherwise the
// config value when present, otherwise the flag default. Flags the command
// does not define fall back to the config value or the zero value.
func pick[T any](cmd *cobra.Command, name string, cfg *T, get func(string) (T, error)) (T, error) {
	var zero T
	if cmd.Flags().Lookup(name) == nil {
		if cfg != nil {
			return *cfg, nil
		}
		return zero, nil
	}
	v, err := get(name)
	if err != nil {
		return zero, fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	if !cmd.Flags().Changed(name) && cfg != nil {
		return *cfg, nil
	}
	return v, nil
}

// resolveSettings loads astdump.toml (explicit --config or discovered from
// the working directory) and overlays the command line on top of it. Config
// diagnostics are printed to errOut; a broken config aborts the command.
func resolveSettings(cmd *cobra.Command, errOut io.Writer) (settings, error) {
	s := defaultSettings()
	flags := cmd.Flags()

	cfg, err := loadSettingsConfig(cmd, errOut)
	if err != nil {
		return s, err
	}

	colorValue, err := pick(cmd, "color", cfg.Output.Color, flags.GetString)
	if err != nil {
		return s, err
	}
	if s.color, err = readColorMode(colorValue); err != nil {
		return s, err
	}
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiags, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiags <= 0 {
		maxDiags = defaultMaxDiagnostics
	}

	formatValue, err := pick(cmd, "format", cfg.Output.Format, flags.GetString)
	if err != nil {
		return s, err
	}
	if s.format, err = driver.ParseOutputFormat(formatValue); err != nil {
		return s, err
	}
	textValue, err := pick(cmd, "text", cfg.Output.Text, flags.GetString)
	if err != nil {
		return s, err
	}
	mode, ok := diagfmt.ParseTextMode(textValue)
	if !ok {
		return s, fmt.Errorf("invalid --text value %q (expected verbatim|escape|raw|latin1)", textValue)
	}
	s.text = mode

	if s.diagFormat, err = pick(cmd, "diag-format", nil, flags.GetString); err != nil {
		return s, err
	}
	switch s.diagFormat {
	case "":
		s.diagFormat = "pretty"
	case "pretty", "json":
	default:
		return s, fmt.Errorf("invalid --diag-format value %q (expected pretty|json)", s.diagFormat)
	}
	pathValue, err := pick(cmd, "path-mode", nil, flags.GetString)
	if err != nil {
		return s, err
	}
	if s.pathMode, ok = diagfmt.ParsePathMode(pathValue); !ok {
		return s, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pathValue)
	}
	if s.context, err = pick(cmd, "context", nil, flags.GetInt); err != nil {
		return s, err
	}
	if s.withNotes, err = pick(cmd, "with-notes", nil, flags.GetBool); err != nil {
		return s, err
	}

	maxDepth, err := pick(cmd, "max-depth", cfg.Decode.MaxDepth, flags.GetInt)
	if err != nil {
		return s, err
	}
	if maxDepth < 0 {
		return s, fmt.Errorf("--max-depth must not be negative")
	}
	maxInput, err := pick(cmd, "max-input-bytes", cfg.Decode.MaxInputBytes, flags.GetInt64)
	if err != nil {
		return s, err
	}
	strict, err := pick(cmd, "strict", cfg.Decode.StrictTrailing, flags.GetBool)
	if err != nil {
		return s, err
	}
	s.decode = driver.DecodeOptions{
		MaxDepth:       maxDepth,
		MaxInputBytes:  maxInput,
		StrictTrailing: strict,
		MaxDiagnostics: maxDiags,
		EnableTimings:  s.timings,
	}

	if s.jobs, err = pick(cmd, "jobs", cfg.Check.Jobs, flags.GetInt); err != nil {
		return s, err
	}
	if s.jobs < 0 {
		return s, fmt.Errorf("--jobs must not be negative")
	}
	uiValue, err := pick(cmd, "ui", cfg.Check.UI, flags.GetString)
	if err != nil {
		return s, err
	}
	if s.ui, err = readUIMode(uiValue); err != nil {
		return s, err
	}

	if s.cache, err = pick(cmd, "cache", cfg.Cache.Enabled, flags.GetBool); err != nil {
		return s, err
	}
	if s.cacheDir, err = pick(cmd, "cache-dir", cfg.Cache.Dir, flags.GetString); err != nil {
		return s, err
	}
	if s.cacheClear, err = pick(cmd, "clear-cache", nil, flags.GetBool); err != nil {
		return s, err
	}
	return s, nil
}

// loadSettingsConfig finds and parses the config file. Unknown keys are
// reported as warnings; a parse or validation failure is reported as an
// error diagnostic and returned as errExit.
func loadSettingsConfig(cmd *cobra.Command, errOut io.Writer) (fileConfig, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return fileConfig{}, fmt.Errorf("failed to get working directory: %w", wdErr)
		}
		found, ok, findErr := findConfig(wd)
		if findErr != nil {
			return fileConfig{}, findErr
		}
		if !ok {
			return fileConfig{}, nil
		}
		path = found
	} else if _, statErr := os.Stat(path); statErr != nil {
		return fileConfig{}, fmt.Errorf("config file: %w", statErr)
	}

	fs := source.NewFileSet()
	var span source.Span
	if id, loadErr := fs.Load(path, 0); loadErr == nil {
		span = source.At(id, 0)
	}
	bag := diag.NewBag(defaultMaxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}
	cfg, unknown, err := loadConfig(path)
	if err != nil {
		diag.ReportError(reporter, diag.CliConfigInvalid, span, fmt.Sprintf("%s: %v", path, err)).Emit()
	}
	for _, key := range unknown {
		diag.ReportWarning(reporter, diag.CliConfigUnknown, span, fmt.Sprintf("%s: unknown key %q ignored", path, key)).Emit()
	}
	if bag.Len() > 0 {
		colorFlag, _ := cmd.Flags().GetString("color")
		mode, _ := readColorMode(colorFlag)
		printErr := diagfmt.Pretty(errOut, bag, fs, diagfmt.PrettyOpts{Color: useColor(mode, errOut)})
		if printErr != nil {
			return fileConfig{}, printErr
		}
	}
	if bag.HasErrors() {
		return fileConfig{}, errExit
	}
	return cfg, nil
}
