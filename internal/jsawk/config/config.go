package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/jacoelho/jsawk/internal/jsawk/exit"
	"github.com/jacoelho/jsawk/internal/jsawk/output"
)

// Version is reported by --version. Release builds override it with -ldflags.
var Version = "dev"

var (
	ErrNoArguments       = errors.New("no arguments provided")
	ErrTooManyArguments  = errors.New("at most one expression argument is allowed")
	ErrInvalidRateLimit  = errors.New("rate limit must not be negative")
	ErrInvalidConfigFile = errors.New("invalid config file")
)

// Config represents the complete configuration for the jsawk tool.
type Config struct {
	// Expression is the delimiter-separated predicate/projector text.
	// Empty means admit every record unchanged.
	Expression string

	// Output
	Format output.OutputFormat
	Escape output.Escape

	// Input handling
	SkipInvalid bool

	RateLimit float64 // Records per second (0 = unlimited)
	Debug     bool

	ConfigFile string
}

// fileConfig mirrors Config in the YAML config file. Pointers distinguish
// absent keys from zero values.
type fileConfig struct {
	Expression  *string  `yaml:"expression"`
	Escape      *string  `yaml:"escape"`
	Format      *string  `yaml:"format"`
	SkipInvalid *bool    `yaml:"skip_invalid"`
	RateLimit   *float64 `yaml:"rate_limit"`
	Debug       *bool    `yaml:"debug"`
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.RateLimit < 0 {
		return fmt.Errorf("%w, got: %v", ErrInvalidRateLimit, c.RateLimit)
	}
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help/version is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s\n", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		escape       = fs.String("escape", output.EscapeJSON.String(), "String escaping: json or none")
		format       = fs.String("format", output.FormatCompact.String(), "Output format: compact or yaml")
		skipInvalid  = fs.Bool("skip-invalid", false, "Report and skip lines that fail to parse instead of aborting")
		rateLimit    = fs.Float64("rate-limit", 0, "Maximum records written per second (0 for unlimited)")
		debug        = fs.Bool("debug", false, "Write a run trace to standard error")
		configFile   = fs.String("config", "", "Path to YAML config file")
		version      = fs.Bool("version", false, "Show version information")
		versionShort = fs.Bool("v", false, "Show version information")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage() + "\n")
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s\n", err, Usage())
	}

	if *version || *versionShort {
		return nil, exit.Success(fmt.Sprintf("jsawk %s\n", Version))
	}

	positional := fs.Args()
	if len(positional) > 1 {
		return nil, exit.Errorf("Error: %v, got %d\n\n%s\n", ErrTooManyArguments, len(positional), Usage())
	}

	cfg := &Config{ConfigFile: *configFile}

	// File values first, then flags given on the command line.
	if *configFile != "" {
		if err := cfg.loadFile(*configFile); err != nil {
			return nil, exit.Errorf("Error: %v\n", err)
		}
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	if explicit["escape"] {
		parsed, err := output.ParseEscape(*escape)
		if err != nil {
			return nil, exit.Errorf("Error: %v\n\n%s\n", err, Usage())
		}
		cfg.Escape = parsed
	}
	if explicit["format"] {
		parsed, err := output.ParseFormat(*format)
		if err != nil {
			return nil, exit.Errorf("Error: %v\n\n%s\n", err, Usage())
		}
		cfg.Format = parsed
	}
	if explicit["skip-invalid"] {
		cfg.SkipInvalid = *skipInvalid
	}
	if explicit["rate-limit"] {
		cfg.RateLimit = *rateLimit
	}
	if explicit["debug"] {
		cfg.Debug = *debug
	}

	if len(positional) == 1 {
		cfg.Expression = positional[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s\n", err, Usage())
	}

	return cfg, nil
}

// loadFile applies the keys present in a YAML config file.
func (c *Config) loadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var fc fileConfig
	if err := yaml.UnmarshalWithOptions(data, &fc, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidConfigFile, filename, err)
	}

	if fc.Expression != nil {
		c.Expression = *fc.Expression
	}
	if fc.Escape != nil {
		escape, err := output.ParseEscape(*fc.Escape)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidConfigFile, filename, err)
		}
		c.Escape = escape
	}
	if fc.Format != nil {
		format, err := output.ParseFormat(*fc.Format)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidConfigFile, filename, err)
		}
		c.Format = format
	}
	if fc.SkipInvalid != nil {
		c.SkipInvalid = *fc.SkipInvalid
	}
	if fc.RateLimit != nil {
		c.RateLimit = *fc.RateLimit
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}

	return nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jsawk - filter and transform object-literal records, one per line

Usage: jsawk [options] [--] [expression]

The expression is <d><predicate>[<d><projector>] where <d> is any delimiter
character. Both halves are expressions over $, the current record. Without an
expression every record is printed unchanged.

Options:
  --escape MODE           String escaping: json (default) or none
  --format FORMAT         Output format: compact (default) or yaml
  --skip-invalid          Report and skip lines that fail to parse
  --rate-limit N          Maximum records written per second (0 for unlimited)
  --debug                 Write a run trace to standard error
  --config FILE           Path to YAML config file
  -h, --help              Show this help message
  -v, --version           Show version information

Examples:
  jsawk < records.txt                        # Print every record compactly
  jsawk '/$.x == 1/$.x' < records.txt        # Keep x == 1, print x
  jsawk '|$.age >= 18|{name: $.name}'        # Project a new record
  jsawk '/matches($.email, "@example\\.com$")'
  jsawk -- '-$.n > 1-$.n'                    # Use '-' as the delimiter`
}
