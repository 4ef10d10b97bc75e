// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"deathrun-power/core/survival"
	"deathrun-power/core/types"
	"deathrun-power/internal/errors"
	"deathrun-power/internal/logging"
	"deathrun-power/internal/suggest"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Difficulty contains the challenge settings
	Difficulty DifficultyConfig `json:"difficulty" yaml:"difficulty"`

	// Survival contains survival patch tuning
	Survival SurvivalConfig `json:"survival" yaml:"survival"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Storage contains run storage configuration
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// DifficultyConfig contains the challenge settings
type DifficultyConfig struct {
	// PowerCosts is the power-cost tier (normal, hard, deathrun)
	PowerCosts string `json:"power_costs" yaml:"power_costs"`

	// FoodChallenge is the diet challenge (omnivore, pescatarian, vegetarian, vegan)
	FoodChallenge string `json:"food_challenge" yaml:"food_challenge"`
}

// SurvivalConfig tunes the survival patches
type SurvivalConfig struct {
	// NoticeIntervalSeconds is the minimum game time between repeated notices
	NoticeIntervalSeconds float64 `json:"notice_interval_seconds" yaml:"notice_interval_seconds"`

	// ResetGraceSeconds is how long after the start a respawn still refills food and water
	ResetGraceSeconds float64 `json:"reset_grace_seconds" yaml:"reset_grace_seconds"`

	// ResetFactor scales food and water on a late respawn
	ResetFactor float64 `json:"reset_factor" yaml:"reset_factor"`

	// ResetMin and ResetMax clamp food and water on a late respawn
	ResetMin float64 `json:"reset_min" yaml:"reset_min"`
	ResetMax float64 `json:"reset_max" yaml:"reset_max"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (cli, json, markdown)
	DefaultFormat string `json:"default_format" yaml:"default_format"`

	// ShowLedger prints every adjustment, not just the summary
	ShowLedger bool `json:"show_ledger" yaml:"show_ledger"`
}

// StorageConfig selects where simulation runs are kept
type StorageConfig struct {
	// Backend is file or memory
	Backend string `json:"backend" yaml:"backend"`

	// Path is the file backend directory
	Path string `json:"path" yaml:"path"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Difficulty: DifficultyConfig{
			PowerCosts:    string(types.TierDeathrun),
			FoodChallenge: string(types.FoodOmnivore),
		},
		Survival: SurvivalConfig{
			NoticeIntervalSeconds: 60,
			ResetGraceSeconds:     300, // 5 minutes
			ResetFactor:           0.9,
			ResetMin:              12,
			ResetMax:              90.5,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowLedger:    false,
		},
		Storage: StorageConfig{
			Backend: "memory",
			Path:    ".deathrun/runs",
		},
		Logging: logging.DefaultConfig(),
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Load loads configuration from a JSON or YAML file. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.TypeConfig, "failed to read config", err).WithContext("path", path)
	}

	config := Default()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Parsing("failed to parse config "+path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves configuration to a file, as YAML when the extension asks for it
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the difficulty names
func (c *Config) Validate() error {
	if _, err := ParseTier(c.Difficulty.PowerCosts); err != nil {
		return err
	}
	if _, err := ParseFoodChallenge(c.Difficulty.FoodChallenge); err != nil {
		return err
	}
	if c.Survival.ResetMin > c.Survival.ResetMax {
		return errors.Config("survival.reset_min must not exceed survival.reset_max")
	}
	switch c.Storage.Backend {
	case "", "memory", "file":
	default:
		return errors.Config("unknown storage backend " + quote(c.Storage.Backend) +
			suggest.Hint(c.Storage.Backend, []string{"file", "memory"}))
	}
	return nil
}

// Tier returns the configured tier, falling back to normal when invalid
func (c *Config) Tier() types.Tier {
	t, err := ParseTier(c.Difficulty.PowerCosts)
	if err != nil {
		return types.TierNormal
	}
	return t
}

// Challenge returns the configured food challenge, falling back to omnivore
func (c *Config) Challenge() types.FoodChallenge {
	fc, err := ParseFoodChallenge(c.Difficulty.FoodChallenge)
	if err != nil {
		return types.FoodOmnivore
	}
	return fc
}

// SurvivalSettings returns the survival patch tuning
func (c *Config) SurvivalSettings() survival.Settings {
	return survival.Settings{
		Challenge:      c.Challenge(),
		NoticeInterval: c.Survival.NoticeIntervalSeconds,
		ResetGrace:     c.Survival.ResetGraceSeconds,
		ResetFactor:    c.Survival.ResetFactor,
		ResetMin:       c.Survival.ResetMin,
		ResetMax:       c.Survival.ResetMax,
	}
}

// ParseTier resolves a tier name case-insensitively
func ParseTier(name string) (types.Tier, error) {
	t := types.Tier(strings.ToLower(strings.TrimSpace(name)))
	if t.IsValid() {
		return t, nil
	}
	known := make([]string, len(types.Tiers))
	for i, k := range types.Tiers {
		known[i] = string(k)
	}
	return "", errors.Config("unknown power cost tier "+quote(name)+suggest.Hint(name, known)).
		WithContext("value", name)
}

// ParseFoodChallenge resolves a food challenge name case-insensitively.
// An empty name means omnivore.
func ParseFoodChallenge(name string) (types.FoodChallenge, error) {
	if strings.TrimSpace(name) == "" {
		return types.FoodOmnivore, nil
	}
	fc := types.FoodChallenge(strings.ToLower(strings.TrimSpace(name)))
	if fc.IsValid() {
		return fc, nil
	}
	known := make([]string, len(types.FoodChallenges))
	for i, k := range types.FoodChallenges {
		known[i] = string(k)
	}
	return "", errors.Config("unknown food challenge "+quote(name)+suggest.Hint(name, known)).
		WithContext("value", name)
}

func quote(s string) string {
	return `"` + s + `"`
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
