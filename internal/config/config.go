package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/reconcile/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reconcile.json"

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultFormat is the default patch output format.
	DefaultFormat = FormatText

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "reconcile"
)

// Patch output formats.
const (
	FormatText   = "text"
	FormatBinary = "binary"
)

// Config represents reconcile.json.
type Config struct {
	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// Output contains patch output configuration.
	Output OutputConfig `json:"output,omitempty"`

	// Metrics contains cycle metrics configuration.
	Metrics MetricsConfig `json:"metrics,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty"`
}

// OutputConfig contains patch output configuration.
type OutputConfig struct {
	// Format is text or binary.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains cycle metrics configuration.
type MetricsConfig struct {
	// Enabled records Prometheus metrics for every cycle.
	Enabled bool `json:"enabled,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// New returns a configuration with every default applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads reconcile.json from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		c := New()
		c.configPath = path
		return c, nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigInvalid).
				WithDetail("No configuration file at " + path).
				WithSuggestion("Check the --config path or remove the flag to use defaults")
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to path as indented JSON.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
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
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Output.Format == "" {
		c.Output.Format = DefaultFormat
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks that every value is within its allowed set.
func (c *Config) Validate() error {
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New(errors.CodeConfigValidation).
			WithDetail("log.level must be debug, info, warn or error, got " + quote(c.Log.Level))
	}
	switch c.Output.Format {
	case FormatText, FormatBinary:
	default:
		return errors.New(errors.CodeConfigValidation).
			WithDetail("output.format must be text or binary, got " + quote(c.Output.Format))
	}
	if !validNamespace(c.Metrics.Namespace) {
		return errors.New(errors.CodeConfigValidation).
			WithDetail("metrics.namespace must match [a-zA-Z_][a-zA-Z0-9_]*, got " + quote(c.Metrics.Namespace))
	}
	return nil
}

// LogLevel returns the configured level as a slog.Level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func validNamespace(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func quote(s string) string {
	return `"` + s + `"`
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindRoot walks up from startDir to the nearest directory holding
// reconcile.json. It returns "" when there is none.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads the nearest reconcile.json above the working
// directory, or the defaults when there is none.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindRoot(wd)
	if err != nil {
		return nil, err
	}
	if root == "" {
		return New(), nil
	}
	return Load(root)
}
