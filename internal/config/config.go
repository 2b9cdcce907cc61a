// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// mangaba.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.mangaba/config.toml
//   - ~/.mangaba/config.json
//   - Built-in defaults
//
// Environment overrides use the MANGABA_ prefix and win over file values.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mangaba/internal/directory"
	"github.com/jeranaias/mangaba/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete mangaba configuration.
type Config struct {
	// General settings
	Version      string `toml:"version" json:"version"`
	DefaultModel string `toml:"default_model" json:"default_model"`

	// Backend (remote REST API) configuration
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Local Ollama configuration
	Ollama OllamaConfig `toml:"ollama" json:"ollama"`

	// Storage configuration
	Storage StorageConfig `toml:"storage" json:"storage"`

	// Directory sync configuration
	Sync SyncConfig `toml:"sync" json:"sync"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// BackendConfig contains remote backend configuration.
type BackendConfig struct {
	// BaseURL is the REST API base URL (empty disables backend features)
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// RequestsPerSec caps outgoing request rate (politeness limiter)
	RequestsPerSec float64 `toml:"requests_per_sec" json:"requests_per_sec"`
}

// OllamaConfig contains local model server configuration.
type OllamaConfig struct {
	// URL is the Ollama server URL
	URL string `toml:"url" json:"url"`
	// Model is the fallback model when neither chat nor agent names one
	Model string `toml:"model" json:"model"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// DataDir overrides the default data directory (~/.mangaba)
	DataDir string `toml:"data_dir" json:"data_dir"`
	// MaxLogEntries bounds the persisted log ring
	MaxLogEntries int `toml:"max_log_entries" json:"max_log_entries"`
	// AutoSaveSecs is the store autosave interval in seconds
	AutoSaveSecs int `toml:"auto_save_secs" json:"auto_save_secs"`
}

// SyncConfig contains backend directory sync configuration.
type SyncConfig struct {
	// AgentBuckets maps remote agent categories to local hub ids.
	// Agent sync replaces agent lists only for hubs named here.
	AgentBuckets map[string]string `toml:"agent_buckets" json:"agent_buckets"`
	// DefaultBucket receives agents with unrecognized categories.
	DefaultBucket string `toml:"default_bucket" json:"default_bucket"`
}

// UIConfig contains presentation configuration.
type UIConfig struct {
	// WordWrap is the markdown rendering width
	WordWrap int `toml:"word_wrap" json:"word_wrap"`
	// ShowTimestamps toggles per-message timestamps in the TUI
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version:      "1",
		DefaultModel: "llama3.2",
		Backend: BackendConfig{
			BaseURL:        "",
			TimeoutSecs:    15,
			RequestsPerSec: 5,
		},
		Ollama: OllamaConfig{
			URL:   "http://127.0.0.1:11434",
			Model: "llama3.2",
		},
		Storage: StorageConfig{
			MaxLogEntries: 1000,
			AutoSaveSecs:  30,
		},
		Sync: SyncConfig{
			AgentBuckets:  directory.DefaultBuckets(),
			DefaultBucket: directory.HubGeneral,
		},
		UI: UIConfig{
			WordWrap:       100,
			ShowTimestamps: false,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the mangaba configuration directory (~/.mangaba),
// creating it if needed.
func ConfigDir() (string, error) {
	if dir := os.Getenv("MANGABA_DATA_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".mangaba")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// PathTOML returns the TOML config file path.
func PathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// PathJSON returns the JSON config file path.
func PathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from disk, applies environment overrides,
// and validates it. Missing files are not an error; defaults apply.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if path, err := PathTOML(); err == nil {
		if data, err := os.ReadFile(path); err == nil {
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			cfg.applyEnv()
			cfg.Validate()
			return cfg, nil
		}
	}

	if path, err := PathJSON(); err == nil {
		if data, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.Validate()
	return cfg, nil
}

// LoadFile reads configuration from an explicit TOML file. Used by the
// config watcher and by tests.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.Validate()
	return cfg, nil
}

// applyEnv applies MANGABA_* environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("MANGABA_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("MANGABA_OLLAMA_URL"); v != "" {
		c.Ollama.URL = v
	}
	if v := os.Getenv("MANGABA_MODEL"); v != "" {
		c.DefaultModel = v
		c.Ollama.Model = v
	}
	if v := os.Getenv("MANGABA_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate normalizes out-of-range values. Invalid URLs are reported, not
// repaired.
func (c *Config) Validate() []error {
	var errs []error

	if c.Backend.TimeoutSecs <= 0 {
		c.Backend.TimeoutSecs = 15
	}
	if c.Backend.TimeoutSecs > 120 {
		c.Backend.TimeoutSecs = 120
	}
	if c.Backend.RequestsPerSec <= 0 {
		c.Backend.RequestsPerSec = 5
	}
	if c.Storage.MaxLogEntries <= 0 {
		c.Storage.MaxLogEntries = 1000
	}
	if c.Storage.AutoSaveSecs <= 0 {
		c.Storage.AutoSaveSecs = 30
	}
	if c.UI.WordWrap < 40 {
		c.UI.WordWrap = 40
	}
	if c.DefaultModel == "" {
		c.DefaultModel = "llama3.2"
	}
	if c.Ollama.URL == "" {
		c.Ollama.URL = "http://127.0.0.1:11434"
	}
	if c.Sync.AgentBuckets == nil {
		c.Sync.AgentBuckets = directory.DefaultBuckets()
	}
	if c.Sync.DefaultBucket == "" {
		c.Sync.DefaultBucket = directory.HubGeneral
	}

	for name, raw := range map[string]string{
		"backend.base_url": c.Backend.BaseURL,
		"ollama.url":       c.Ollama.URL,
	} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Errorf("%s: invalid URL %q", name, raw))
		}
	}

	return errs
}

// BackendTimeout returns the backend timeout as a duration.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// AutoSaveInterval returns the store autosave interval as a duration.
func (c *Config) AutoSaveInterval() time.Duration {
	return time.Duration(c.Storage.AutoSaveSecs) * time.Second
}

// DataDir resolves the effective data directory, creating it if needed.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		if err := os.MkdirAll(c.Storage.DataDir, 0755); err != nil {
			return "", err
		}
		return c.Storage.DataDir, nil
	}
	return ConfigDir()
}

// =============================================================================
// SAVING
// =============================================================================

// ErrNoConfigDir is returned when the config directory cannot be resolved.
var ErrNoConfigDir = errors.New("config directory unavailable")

// Save writes the configuration as TOML, atomically.
func (c *Config) Save() error {
	path, err := PathTOML()
	if err != nil {
		return ErrNoConfigDir
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration as TOML to the given path.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0644)
}
