package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the vynix configuration.
type Config struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model,omitempty"`
	Listen   string        `yaml:"listen"`
	UsageDB  string        `yaml:"usageDb"`
	Cache    CacheConfig   `yaml:"cache"`
	Privacy  PrivacyConfig `yaml:"privacy"`
}

// CacheConfig controls the AI response cache. Durations are expressed in
// milliseconds.
type CacheConfig struct {
	MaxItems    int   `yaml:"maxItems"`
	TTLMillis   int64 `yaml:"ttl"`
	Disabled    bool  `yaml:"disabled"`
	SweepMillis int64 `yaml:"sweepInterval,omitempty"`
}

// TTL returns the entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMillis) * time.Millisecond
}

// SweepInterval returns the janitor interval as a duration; zero disables it.
func (c CacheConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepMillis) * time.Millisecond
}

// PrivacyConfig controls prompt redaction before requests leave the process.
type PrivacyConfig struct {
	RedactSecrets bool `yaml:"redactSecrets"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider: "lmstudio",
		Listen:   ":8080",
		Cache: CacheConfig{
			MaxItems:  500,
			TTLMillis: 86400000, // 24h
		},
		Privacy: PrivacyConfig{
			RedactSecrets: true,
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for vynix.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vynix"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "vynix"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "vynix"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "vynix"), nil
	default:
		return filepath.Join(home, ".config", "vynix"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultUsageDBPath returns the default location of the usage database.
func DefaultUsageDBPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "usage.db"), nil
}

// LoadFile loads config from the config file. Environment variable references
// in the file are expanded. Returns zero Config and nil error if the file
// doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	if cfg.UsageDB == "" {
		if path, err := DefaultUsageDBPath(); err == nil {
			cfg.UsageDB = path
		}
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Provider != "" {
		dst.Provider = src.Provider
	}
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Listen != "" {
		dst.Listen = src.Listen
	}
	if src.UsageDB != "" {
		dst.UsageDB = src.UsageDB
	}
	if src.Cache.MaxItems > 0 {
		dst.Cache.MaxItems = src.Cache.MaxItems
	}
	if src.Cache.TTLMillis > 0 {
		dst.Cache.TTLMillis = src.Cache.TTLMillis
	}
	if src.Cache.SweepMillis > 0 {
		dst.Cache.SweepMillis = src.Cache.SweepMillis
	}
	// YAML zero value for bool cannot be told apart from unset; a file can
	// only switch these on.
	dst.Cache.Disabled = src.Cache.Disabled || dst.Cache.Disabled
	dst.Privacy.RedactSecrets = src.Privacy.RedactSecrets || dst.Privacy.RedactSecrets
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("VYNIX_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("VYNIX_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("VYNIX_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("VYNIX_CACHE_MAX_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.MaxItems = n
		}
	}
	if v := os.Getenv("VYNIX_CACHE_TTL"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Cache.TTLMillis = n
		}
	}
	if v := os.Getenv("VYNIX_CACHE_DISABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Disabled = b
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["provider"]; ok && v != "" {
		cfg.Provider = v
	}
	if v, ok := overrides["model"]; ok && v != "" {
		cfg.Model = v
	}
	if v, ok := overrides["listen"]; ok && v != "" {
		cfg.Listen = v
	}
	if v, ok := overrides["cacheMaxItems"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.MaxItems = n
		}
	}
	if v, ok := overrides["cacheTTL"]; ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Cache.TTLMillis = n
		}
	}
	if v, ok := overrides["noCache"]; ok && v == "true" {
		cfg.Cache.Disabled = true
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "listen":
		cfg.Listen = value
	case "usageDb":
		cfg.UsageDB = value
	case "cache.maxItems":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("cache.maxItems must be a positive integer")
		}
		cfg.Cache.MaxItems = n
	case "cache.ttl":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			return fmt.Errorf("cache.ttl must be a positive integer (milliseconds)")
		}
		cfg.Cache.TTLMillis = n
	case "cache.disabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.disabled must be a boolean: %w", err)
		}
		cfg.Cache.Disabled = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
