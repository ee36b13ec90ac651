// Package config loads and merges vynix configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (VYNIX_PROVIDER, VYNIX_MODEL, VYNIX_CACHE_TTL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/vynix/config.yaml or OS equivalent)
//  4. Built-in defaults
//
// The config file is YAML; environment variable references inside it are
// expanded before parsing. Cache durations (ttl, sweepInterval) are
// configured in milliseconds.
package config
