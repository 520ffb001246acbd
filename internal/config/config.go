// Package config loads the yusen.yaml runtime configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// #region types
// Config is the top-level runtime configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig selects the session slot backend.
type StorageConfig struct {
	Backend   string `yaml:"backend" validate:"oneof=sqlite badger memory"`
	SQLite    string `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	BadgerDir string `yaml:"badger_dir" validate:"required_if=Backend badger"`
}

// ServerConfig holds listen addresses for the HTTP and gRPC surfaces.
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" validate:"required,hostname_port"`
	GRPCAddr string `yaml:"grpc_addr" validate:"omitempty,hostname_port"`
}

// ExportConfig sets where export documents are written.
type ExportConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// #endregion types

// #region defaults
// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend:   "sqlite",
			SQLite:    "yusen_demos.db",
			BadgerDir: "yusen_badger",
		},
		Server: ServerConfig{
			HTTPAddr: "127.0.0.1:8080",
			GRPCAddr: "127.0.0.1:50061",
		},
		Export: ExportConfig{Dir: "exports"},
		Log:    LogConfig{Level: "info", Format: "console"},
	}
}

// #endregion defaults

// #region load
var validate = validator.New()

// Load reads path over DefaultConfig, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Storage.SQLite = envOr("YUSEN_DB", c.Storage.SQLite)
	c.Storage.Backend = envOr("YUSEN_STORAGE", c.Storage.Backend)
	c.Server.HTTPAddr = envOr("YUSEN_HTTP_ADDR", c.Server.HTTPAddr)
	c.Server.GRPCAddr = envOr("YUSEN_GRPC_ADDR", c.Server.GRPCAddr)
	c.Export.Dir = envOr("YUSEN_EXPORT_DIR", c.Export.Dir)
}

// Validate checks struct tag constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Write saves cfg as YAML to path.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load
