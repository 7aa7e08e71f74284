// Package config loads meter-sim settings from meter-sim.cfg.json and METERSIM_* variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "meter-sim.cfg.json"

// EnvPrefix prefixes environment overrides, e.g. METERSIM_TICKS or METERSIM_METERS_HEALTH.
const EnvPrefix = "METERSIM"

// MetersConfig holds the maximum of each meter kind a combatant spawns with.
type MetersConfig struct {
	Health  int64   `json:"health" mapstructure:"health"`
	Mana    int64   `json:"mana" mapstructure:"mana"`
	Stamina float64 `json:"stamina" mapstructure:"stamina"`
}

// EffectsConfig holds the signed per-tick amount of each effect.
type EffectsConfig struct {
	Burning      int64   `json:"burning" mapstructure:"burning"`
	Regeneration int64   `json:"regeneration" mapstructure:"regeneration"`
	Meditation   int64   `json:"meditation" mapstructure:"meditation"`
	Fatigue      float64 `json:"fatigue" mapstructure:"fatigue"`
}

// HistoryConfig points at the SQLite database finished runs are recorded in.
// An empty Path disables recording.
type HistoryConfig struct {
	Path  string `json:"path" mapstructure:"path"`
	Limit int    `json:"limit" mapstructure:"limit"`
}

// Config is the full simulation configuration.
type Config struct {
	LogLevel     string        `json:"logLevel" mapstructure:"logLevel"`
	Ticks        int           `json:"ticks" mapstructure:"ticks"`
	TickInterval time.Duration `json:"tickInterval" mapstructure:"tickInterval"`
	Entities     int           `json:"entities" mapstructure:"entities"`
	BurnEvery    int           `json:"burnEvery" mapstructure:"burnEvery"`
	Meters       MetersConfig  `json:"meters" mapstructure:"meters"`
	Effects      EffectsConfig `json:"effects" mapstructure:"effects"`
	History      HistoryConfig `json:"history" mapstructure:"history"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("ticks", 100)
	v.SetDefault("tickInterval", "0s")
	v.SetDefault("entities", 100)
	v.SetDefault("burnEvery", 3)

	v.SetDefault("meters.health", 100)
	v.SetDefault("meters.mana", 50)
	v.SetDefault("meters.stamina", 10.0)

	v.SetDefault("effects.burning", -5)
	v.SetDefault("effects.regeneration", 2)
	v.SetDefault("effects.meditation", 1)
	v.SetDefault("effects.fatigue", -0.25)

	v.SetDefault("history.path", "")
	v.SetDefault("history.limit", 5)
}

// Default returns the configuration used when no file or overrides are present.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load reads configDir/meter-sim.cfg.json on top of the defaults and applies
// METERSIM_* environment overrides. A missing file is not an error.
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.AddConfigPath(configDir)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("ticks must not be negative, got %d", c.Ticks))
	}
	if c.TickInterval < 0 {
		errs = append(errs, fmt.Errorf("tickInterval must not be negative, got %s", c.TickInterval))
	}
	if c.Entities < 0 {
		errs = append(errs, fmt.Errorf("entities must not be negative, got %d", c.Entities))
	}
	if c.BurnEvery <= 0 {
		errs = append(errs, fmt.Errorf("burnEvery must be positive, got %d", c.BurnEvery))
	}
	if c.Meters.Health <= 0 || c.Meters.Mana <= 0 || c.Meters.Stamina <= 0 {
		errs = append(errs, fmt.Errorf("meter maximums must be positive, got %+v", c.Meters))
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
