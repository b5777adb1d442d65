// Package config loads the wbnm command configuration from YAML.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid configuration")

// Environment variables overriding the file.
const (
	EnvLogLevel = "WBNM_LOG_LEVEL"
	EnvDatabase = "WBNM_DB"
	EnvWorkers  = "WBNM_WORKERS"
)

// Config holds the wbnm configuration.
type Config struct {
	Logging  Logging  `yaml:"logging"`
	Batch    Batch    `yaml:"batch"`
	Database Database `yaml:"database"`
	Progress Progress `yaml:"progress"`
}

// Logging configures the zap logger.
type Logging struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Batch configures concurrent meta file imports.
type Batch struct {
	// Workers is the number of files parsed at once. 0 selects the number of CPUs.
	Workers    int `yaml:"workers"`
	BufferSize int `yaml:"buffer_size"`
}

// Database configures the SQLite results store.
type Database struct {
	Path string `yaml:"path"`
}

// Progress configures hydrograph progress logging.
type Progress struct {
	// Every logs one progress line per this many hydrographs. 0 disables it.
	Every int `yaml:"every"`
}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// ValidFormats lists the accepted log formats.
var ValidFormats = []string{"json", "console"}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Batch: Batch{
			Workers:    0,
			BufferSize: 4,
		},
		Database: Database{
			Path: "wbnm_results.db",
		},
		Progress: Progress{
			Every: 500,
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields the defaults.
// Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrapf(err, "unable to read config %s", path)
		default:
			err = yaml.Unmarshal(data, cfg)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to parse config %s", path)
			}
		}
	}

	err := cfg.applyEnvOverrides()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}

	if path := os.Getenv(EnvDatabase); path != "" {
		c.Database.Path = path
	}

	if workers := os.Getenv(EnvWorkers); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return errors.Wrapf(ErrInvalid, "%s=%q is not an integer", EnvWorkers, workers)
		}
		c.Batch.Workers = n
	}

	return nil
}

// LoadEnvFile sets the variables of a dotenv file that are not already in the environment.
// It reports whether the file existed.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		return false, nil
	}

	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(ErrInvalid, "env file %s: %v", path, err)
	}

	return true, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return errors.Wrap(err, "unable to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "unable to marshal config")
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return errors.Wrap(err, "unable to write config")
	}

	return nil
}

// Validate reports the first invalid setting, wrapped around ErrInvalid.
func (c *Config) Validate() error {
	if !contains(ValidLevels, c.Logging.Level) {
		return errors.Wrapf(ErrInvalid, "log level %q (valid: %v)", c.Logging.Level, ValidLevels)
	}

	if !contains(ValidFormats, c.Logging.Format) {
		return errors.Wrapf(ErrInvalid, "log format %q (valid: %v)", c.Logging.Format, ValidFormats)
	}

	if c.Batch.Workers < 0 {
		return errors.Wrapf(ErrInvalid, "batch workers %d must not be negative", c.Batch.Workers)
	}

	if c.Batch.BufferSize < 0 {
		return errors.Wrapf(ErrInvalid, "batch buffer size %d must not be negative", c.Batch.BufferSize)
	}

	if c.Database.Path == "" {
		return errors.Wrap(ErrInvalid, "database path is empty")
	}

	if c.Progress.Every < 0 {
		return errors.Wrapf(ErrInvalid, "progress interval %d must not be negative", c.Progress.Every)
	}

	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}

	return false
}
