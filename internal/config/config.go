// Package config loads the tracer host configuration from a YAML (or JSON)
// file, applies environment overrides and validates the result.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "tracer.yaml"

// Config is the host configuration.
type Config struct {
	LogLevel   string        `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error"`
	Store      string        `yaml:"store" json:"store" validate:"oneof=memory file redis"`
	StorePath  string        `yaml:"store_path" json:"store_path"`
	Redis      Redis         `yaml:"redis" json:"redis"`
	HTTP       HTTP          `yaml:"http" json:"http"`
	Metrics    bool          `yaml:"metrics" json:"metrics"`
	PauseDelay time.Duration `yaml:"pause_delay" json:"pause_delay" validate:"min=0"`
	Seed       *float64      `yaml:"seed" json:"seed" validate:"omitempty,gte=0,lt=1"`
	Encryption Encryption    `yaml:"encryption" json:"encryption"`
}

// Encryption configures at-rest encryption of session state. Keys are base64
// encoded AES-256 keys; an empty Key disables encryption.
type Encryption struct {
	Key          string   `yaml:"key" json:"key" validate:"omitempty,base64"`
	FallbackKeys []string `yaml:"fallback_keys" json:"fallback_keys" validate:"dive,base64"`
}

// Redis configures the redis store and locker.
type Redis struct {
	Addr     string        `yaml:"addr" json:"addr" validate:"required_if=Enabled true"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db" validate:"min=0"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl" validate:"min=0"`
	Enabled  bool          `yaml:"-" json:"-"`
}

// HTTP configures the HTTP host.
type HTTP struct {
	Addr string `yaml:"addr" json:"addr" validate:"required"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:   "info",
		Store:      "file",
		StorePath:  filepath.Join(".tracer", "sessions"),
		Redis:      Redis{Addr: "localhost:6379", Prefix: "tracer:session:"},
		HTTP:       HTTP{Addr: ":8080"},
		PauseDelay: time.Second,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads path over the defaults. A missing file yields the defaults.
// Environment variables (TRACER_LOG_LEVEL, TRACER_STORE, TRACER_STORE_PATH,
// TRACER_REDIS_ADDR, TRACER_HTTP_ADDR, TRACER_ENCRYPTION_KEY, TRACER_SEED)
// override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := decode(path, data, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if filepath.Ext(path) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"TRACER_LOG_LEVEL":      &cfg.LogLevel,
		"TRACER_STORE":          &cfg.Store,
		"TRACER_STORE_PATH":     &cfg.StorePath,
		"TRACER_REDIS_ADDR":     &cfg.Redis.Addr,
		"TRACER_HTTP_ADDR":      &cfg.HTTP.Addr,
		"TRACER_ENCRYPTION_KEY": &cfg.Encryption.Key,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("TRACER_SEED"); ok {
		seed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TRACER_SEED: %w", err)
		}
		cfg.Seed = &seed
	}
	return nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	c.Redis.Enabled = c.Store == "redis"
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
