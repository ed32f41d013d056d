// Package config provides configuration management for Straightedge.
//
// Config file locations (priority order):
//  1. $STRAIGHTEDGE_CONFIG
//  2. ./straightedge.yaml
//  3. ~/.config/straightedge/config.yaml
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/chazu/straightedge/pkg/verify"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the search.
const EnvConfigPath = "STRAIGHTEDGE_CONFIG"

// DefaultEvalTimeout bounds a single construction script evaluation.
const DefaultEvalTimeout = 5 * time.Second

// Config is the on-disk configuration.
type Config struct {
	Version int          `yaml:"version"`
	Verify  VerifyConfig `yaml:"verify"`
	Engine  EngineConfig `yaml:"engine"`
}

// VerifyConfig tunes the default Euclidean verification policy.
type VerifyConfig struct {
	// Tolerance is the coincidence threshold ε.
	Tolerance float64 `yaml:"tolerance"`
	// MinLength is the shortest acceptable line; 0 means Tolerance.
	MinLength float64 `yaml:"min_length,omitempty"`
	// Rules lists the enabled rules by name. Empty means all rules.
	Rules []string `yaml:"rules,omitempty"`
}

// EngineConfig tunes the construction script engine.
type EngineConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Verify:  VerifyConfig{Tolerance: verify.DefaultTolerance},
		Engine:  EngineConfig{Timeout: DefaultEvalTimeout},
	}
}

// Load finds and loads the config file, or returns defaults if none found.
// The second result is the path that was loaded, empty for defaults.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return DefaultConfig(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, path, nil
}

// FindConfigPath returns the first existing config file in the search
// order, or "" if there is none.
func FindConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}

	candidates := []string{"straightedge.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "straightedge", "config.yaml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Save writes config to the specified path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Verify.Tolerance == 0 {
		c.Verify.Tolerance = verify.DefaultTolerance
	}
	if c.Engine.Timeout == 0 {
		c.Engine.Timeout = DefaultEvalTimeout
	}
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	var errs []error
	// Written so that NaN fails both checks.
	if tol := c.Verify.Tolerance; !(tol > 0 && tol < 0.5) {
		errs = append(errs, fmt.Errorf("verify.tolerance must be in (0, 0.5), got %g", tol))
	}
	if ml := c.Verify.MinLength; !(ml >= 0) || math.IsInf(ml, 1) {
		errs = append(errs, fmt.Errorf("verify.min_length must be a finite non-negative number, got %g", ml))
	}
	if _, err := verify.ParseRules(c.Verify.Rules); err != nil {
		errs = append(errs, fmt.Errorf("verify.rules: %w", err))
	}
	if c.Engine.Timeout < 0 {
		errs = append(errs, fmt.Errorf("engine.timeout must not be negative, got %s", c.Engine.Timeout))
	}
	return errors.Join(errs...)
}

// Policy builds the verification policy described by the config.
func (c *Config) Policy() (verify.Euclidean, error) {
	p := verify.Euclidean{
		Tolerance: c.Verify.Tolerance,
		MinLength: c.Verify.MinLength,
	}
	if len(c.Verify.Rules) == 0 {
		return p, nil
	}
	enabled, err := verify.ParseRules(c.Verify.Rules)
	if err != nil {
		return verify.Euclidean{}, fmt.Errorf("verify.rules: %w", err)
	}
	p.Disabled = verify.AllRules &^ enabled
	return p, nil
}
