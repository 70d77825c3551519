// Package config defines the YAML configuration of the kektorgraph service.
//
// Values missing from the file keep the defaults of Default(). The file is
// expanded with environment variables before parsing and decoded in strict
// mode, so unknown keys are rejected instead of silently ignored.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sanonone/kektorgraph/pkg/graph"
)

// Config is the top-level structure of the configuration file.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Graph   GraphConfig   `yaml:"graph"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	MCP     MCPConfig     `yaml:"mcp"`
}

// ServerConfig controls the HTTP transport.
type ServerConfig struct {
	HTTPAddr       string        `yaml:"http_addr" validate:"required"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" validate:"gt=0"`
	ReadTimeout    time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout   time.Duration `yaml:"write_timeout" validate:"gte=0"`
	// CORSAllowedOrigins lists origins allowed by the CORS middleware. "*" allows any.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	// RateLimitRPS enables a global token bucket when > 0.
	RateLimitRPS   float64 `yaml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int     `yaml:"rate_limit_burst" validate:"gte=0"`
}

// GraphConfig maps to graph.Options plus start-up seeding.
type GraphConfig struct {
	PathCutoff       int  `yaml:"path_cutoff" validate:"gte=1,lte=10"`
	MaxPathsReturned int  `yaml:"max_paths_returned" validate:"gte=1"`
	MaxPathsExplored int  `yaml:"max_paths_explored" validate:"gte=0"`
	SeedSampleData   bool `yaml:"seed_sample_data"`
}

// Options converts the section into engine options.
func (g GraphConfig) Options() graph.Options {
	return graph.Options{
		PathCutoff:       g.PathCutoff,
		MaxPathsReturned: g.MaxPathsReturned,
		MaxPathsExplored: g.MaxPathsExplored,
	}
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"omitempty,startswith=/"`
}

type MCPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"omitempty,startswith=/"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	opts := graph.DefaultOptions()
	return &Config{
		Server: ServerConfig{
			HTTPAddr:           ":9091",
			MaxUploadBytes:     5 * 1024 * 1024,
			ReadTimeout:        15 * time.Second,
			WriteTimeout:       30 * time.Second,
			CORSAllowedOrigins: []string{"*"},
		},
		Graph: GraphConfig{
			PathCutoff:       opts.PathCutoff,
			MaxPathsReturned: opts.MaxPathsReturned,
			MaxPathsExplored: opts.MaxPathsExplored,
			SeedSampleData:   true,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		MCP:     MCPConfig{Enabled: true, Path: "/mcp"},
	}
}

var validate = validator.New()

// Load reads the YAML file at path on top of Default() and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))

	decoder := yaml.NewDecoder(strings.NewReader(expanded))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// SlogLevel maps Logging.Level to a slog level.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger for this configuration.
func (l LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
