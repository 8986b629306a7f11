// Package config loads waypoint.yaml and merges command-line overrides.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/waypoint/internal/logging"
	"github.com/aretw0/waypoint/internal/runtime"
	"github.com/aretw0/waypoint/pkg/domain"
)

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = "waypoint.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Config is the runtime configuration shared by every command.
type Config struct {
	LogLevel string      `yaml:"log_level" mapstructure:"log_level"`
	Budget   BudgetConf  `yaml:"budget" mapstructure:"budget"`
	MaxSteps int         `yaml:"max_steps" mapstructure:"max_steps"`
	Store    StoreConfig `yaml:"store" mapstructure:"store"`
	HTTP     HTTPConfig  `yaml:"http" mapstructure:"http"`
}

// BudgetConf bounds every search. Zero selects the planner default and a
// negative value disables the bound.
type BudgetConf struct {
	MaxDepth int `yaml:"max_depth" mapstructure:"max_depth"`
	MaxNodes int `yaml:"max_nodes" mapstructure:"max_nodes"`
}

// StoreConfig selects where session journals live.
type StoreConfig struct {
	Backend       string        `yaml:"backend" mapstructure:"backend"`
	Path          string        `yaml:"path" mapstructure:"path"`
	RedisAddr     string        `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB       int           `yaml:"redis_db" mapstructure:"redis_db"`
	TTL           time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Prefix        string        `yaml:"prefix" mapstructure:"prefix"`

	// EncryptionKey is a base64 AES-256 key. When set, journals are sealed
	// before they reach the backend. FallbackKeys decrypt journals sealed
	// with earlier keys.
	EncryptionKey string   `yaml:"encryption_key" mapstructure:"encryption_key"`
	FallbackKeys  []string `yaml:"fallback_keys" mapstructure:"fallback_keys"`
}

// Keys decodes the encryption keys. It returns a nil active key when
// encryption is disabled.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		if len(s.FallbackKeys) > 0 {
			return nil, nil, errors.New("fallback_keys require encryption_key")
		}
		return nil, nil, nil
	}
	if active, err = decodeKey(s.EncryptionKey); err != nil {
		return nil, nil, fmt.Errorf("encryption_key: %w", err)
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("not base64: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("got %d bytes, want 32", len(key))
	}
	return key, nil
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Store: StoreConfig{
			Backend:   BackendMemory,
			Path:      ".waypoint/journals",
			RedisAddr: "localhost:6379",
		},
		HTTP: HTTPConfig{Addr: ":8080"},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyOverrides merges values keyed by dotted paths such as "store.backend"
// or "budget.max_depth". Strings are converted to the field type.
func (c *Config) ApplyOverrides(overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}

	nested := make(map[string]any)
	for key, value := range overrides {
		parts := strings.Split(key, ".")
		node := nested
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(nested); err != nil {
		return fmt.Errorf("invalid override: %w", err)
	}
	return c.Validate()
}

// Validate rejects unknown backends, unknown log levels and malformed keys.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend '%s'", c.Store.Backend)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, _, err := c.Store.Keys(); err != nil {
		return err
	}
	if c.Store.TTL < 0 {
		return errors.New("store ttl must not be negative")
	}
	return nil
}

// Level returns the parsed log level.
func (c *Config) Level() slog.Level {
	level, _ := logging.ParseLevel(c.LogLevel)
	return level
}

// PlannerOptions converts the search settings into planner options.
func (c *Config) PlannerOptions() []runtime.Option {
	opts := []runtime.Option{
		runtime.WithBudget(domain.Budget{
			MaxDepth: c.Budget.MaxDepth,
			MaxNodes: c.Budget.MaxNodes,
		}),
	}
	if c.MaxSteps > 0 {
		opts = append(opts, runtime.WithMaxSteps(c.MaxSteps))
	}
	return opts
}
