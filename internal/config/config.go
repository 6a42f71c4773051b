// Package config loads the operator tool's settings from the environment,
// an optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	DataDir    string `env:"CRYPTOTX_DATA_DIR"    yaml:"data_dir"`
	KeyPath    string `env:"CRYPTOTX_KEY_PATH"    yaml:"key_path"`
	JournalRel string `env:"CRYPTOTX_JOURNAL"     yaml:"journal"`
	LogLevel   string `env:"CRYPTOTX_LOG_LEVEL"   yaml:"log_level"`
	LogFormat  string `env:"CRYPTOTX_LOG_FORMAT"  yaml:"log_format"`
	ConfigFile string `env:"CRYPTOTX_CONFIG_FILE" yaml:"-"`
}

func Defaults() Config {
	return Config{
		DataDir:    "data",
		JournalRel: "journal.cbor",
		LogLevel:   "info",
		LogFormat:  "json",
	}
}

// Load applies, in order: defaults, the YAML file named by
// CRYPTOTX_CONFIG_FILE, then environment variables (a .env file in the
// working directory is read first if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CRYPTOTX_CONFIG_FILE"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

func loadYAML(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data dir is empty", ErrInvalidConfig)
	}
	if c.JournalRel == "" {
		return fmt.Errorf("%w: journal file is empty", ErrInvalidConfig)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

func (c Config) JournalPath() string {
	if filepath.IsAbs(c.JournalRel) {
		return c.JournalRel
	}
	return filepath.Join(c.DataDir, c.JournalRel)
}

// SigningKeyPath defaults to node_key.json inside the data dir.
func (c Config) SigningKeyPath() string {
	if c.KeyPath != "" {
		return c.KeyPath
	}
	return filepath.Join(c.DataDir, "node_key.json")
}
