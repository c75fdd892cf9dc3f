package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/common/model"

	"github.com/vango-dev/vstore/internal/errors"
	"github.com/vango-dev/vstore/pkg/store"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vstore.json"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultMetricsNamespace is the default Prometheus namespace.
	DefaultMetricsNamespace = "vstore"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "vstore"
)

// Config represents the complete vstore.json configuration.
type Config struct {
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"logLevel,omitempty"`

	// StrictIDs rejects a second definition for an id already constructed
	// in a registry.
	StrictIDs bool `json:"strictIds,omitempty"`

	// ResultOverride lets After callbacks replace action results.
	ResultOverride bool `json:"resultOverride,omitempty"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty"`

	// Logging contains action logging configuration.
	Logging LoggingConfig `json:"logging,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`

	// Subsystem is the metrics subsystem.
	Subsystem string `json:"subsystem,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs the tracing plugin.
	Enabled bool `json:"enabled,omitempty"`

	// TracerName is the name of the tracer.
	TracerName string `json:"tracerName,omitempty"`
}

// LoggingConfig contains action logging settings.
type LoggingConfig struct {
	// Actions installs the logging plugin.
	Actions bool `json:"actions,omitempty"`

	// Mutations also logs every state mutation.
	Mutations bool `json:"mutations,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Metrics: MetricsConfig{
			Namespace: DefaultMetricsNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for vstore.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrDefault is like Load but returns the defaults when the directory
// has no vstore.json.
func LoadOrDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("S010").
				WithDetail("No vstore.json found in " + filepath.Dir(path)).
				WithSuggestion("Create vstore.json or run without --config to use the defaults")
		}
		return nil, errors.New("S010").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("S010").
			WithDetail("Failed to parse vstore.json: " + err.Error()).
			WithSuggestion("Check that vstore.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("S010").Wrap(err)
	}

	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("S010").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultMetricsNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, ok := levels[c.LogLevel]; !ok {
		return errors.New("S010").
			WithDetailf("Unknown logLevel %q", c.LogLevel).
			WithSuggestion("Use one of debug, info, warn or error")
	}

	name := c.Metrics.Namespace + "_actions_total"
	if c.Metrics.Subsystem != "" {
		name = c.Metrics.Namespace + "_" + c.Metrics.Subsystem + "_actions_total"
	}
	if !model.IsValidMetricName(model.LabelValue(name)) {
		return errors.New("S010").
			WithDetailf("metrics.namespace %q does not form a valid metric name", c.Metrics.Namespace).
			WithSuggestion("Use letters, digits and underscores, starting with a letter")
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	return levels[c.LogLevel]
}

// Logger returns a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}

// StoreOptions returns the registry options the configuration implies.
func (c *Config) StoreOptions(logger *slog.Logger) []store.Option {
	return []store.Option{
		store.WithLogger(logger),
		store.WithStrictIDs(c.StrictIDs),
		store.WithResultOverride(c.ResultOverride),
	}
}
