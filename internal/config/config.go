// Package config resolves server settings from defaults, an optional JSON file, the
// environment and command-line flags, in that order of increasing precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
	"github.com/ironsheep/bmp-tools-mcp/internal/logging"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvLogLevel = "BMP_MCP_LOG_LEVEL"
	EnvWorkers  = "BMP_MCP_WORKERS"
)

// Config represents the configuration file structure
type Config struct {
	LogLevel    string `json:"log_level"`
	Workers     int    `json:"workers"`      // goroutines used by the filter engine
	CacheImages bool   `json:"cache_images"` // keep decoded input files in memory
	DefaultFill string `json:"default_fill"` // "#RRGGBB" used by rotate when no fill is given
}

// Options holds the flags that control the process rather than the server.
type Options struct {
	ConfigPath string
	Version    bool
	Help       bool
	Usage      string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:    logging.LevelInfo,
		Workers:     runtime.NumCPU(),
		CacheImages: true,
		DefaultFill: "#000000",
	}
}

// LoadFile overlays the JSON file at path onto c. Fields absent from the file keep
// their current values.
func (c *Config) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays values from the environment, read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, v, err)
		}
		c.Workers = n
	}
	return nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Workers <= 0 {
		return errors.New("workers must be a positive integer")
	}
	if _, err := bitmap.ParseHexColor(c.DefaultFill); err != nil {
		return fmt.Errorf("invalid default_fill: %w", err)
	}
	return nil
}

// Fill returns DefaultFill as a color. Call Validate first.
func (c *Config) Fill() bitmap.BGRColor {
	clr, _ := bitmap.ParseHexColor(c.DefaultFill)
	return clr
}

// Parse resolves the configuration for a process started with args (without the
// program name). Flags override the environment, which overrides the config file,
// which overrides the defaults.
func Parse(name string, args []string, getenv func(string) string) (*Config, *Options, error) {
	opts := &Options{}
	var (
		logLevel string
		workers  int
		noCache  bool
	)

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a JSON configuration file.")
	fs.StringVarP(&logLevel, "log-level", "l", "", "Log level (debug, info, warn, error).")
	fs.IntVarP(&workers, "workers", "w", 0, "Goroutines used by the filter engine (default: number of CPUs).")
	fs.BoolVar(&noCache, "no-cache", false, "Decode input files on every call instead of caching them.")
	fs.BoolVarP(&opts.Version, "version", "v", false, "Print version information.")
	fs.BoolVarP(&opts.Help, "help", "h", false, "Print this help message.")
	opts.Usage = fs.FlagUsages()

	if err := fs.Parse(args); err != nil {
		return nil, opts, err
	}

	cfg := Default()
	if opts.ConfigPath != "" {
		if err := cfg.LoadFile(opts.ConfigPath); err != nil {
			return nil, opts, err
		}
	}
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, opts, err
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if fs.Changed("workers") {
		cfg.Workers = workers
	}
	if noCache {
		cfg.CacheImages = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, opts, fmt.Errorf("configuration error: %w", err)
	}
	level, _ := logging.ParseLevel(cfg.LogLevel)
	cfg.LogLevel = level
	return cfg, opts, nil
}
