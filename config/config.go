// Package config loads and saves drizzle configuration files.
//
// Files are YAML with the snake_case keys of [drizzle.Config]. Durations
// are written as Go duration strings ("5s", "800ms"). Any key can be
// overridden from the environment with a DRIZZLE_ prefix, nested keys
// joined by underscores:
//
//	DRIZZLE_EFFECT=snow DRIZZLE_IDLE_DELAY=30s DRIZZLE_TINT_B=0.9
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phanxgames/drizzle"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "DRIZZLE"

// Load reads the config file at path on top of the preset for effect.
// An effect key in the file or environment selects the preset instead.
// If path is empty only the preset and the environment are used. The
// result is validated.
func Load(path string, effect drizzle.Effect) (drizzle.Config, error) {
	v := newViper()
	v.SetDefault("effect", string(effect))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return drizzle.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	eff, err := drizzle.ParseEffect(v.GetString("effect"))
	if err != nil {
		return drizzle.Config{}, fmt.Errorf("loading config: %w", err)
	}
	setDefaults(v, drizzle.DefaultConfig(eff))

	var cfg drizzle.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return drizzle.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return drizzle.Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so environment overrides reach
// Unmarshal even when the file omits them.
func setDefaults(v *viper.Viper, cfg drizzle.Config) {
	v.SetDefault("effect", string(cfg.Effect))
	v.SetDefault("idle_delay", cfg.IdleDelay)
	v.SetDefault("fade_duration", cfg.FadeDuration)
	v.SetDefault("max_step", cfg.MaxStep)
	v.SetDefault("max_particles", cfg.MaxParticles)
	v.SetDefault("initial_particles", cfg.InitialParticles)
	v.SetDefault("spawn_rate", cfg.SpawnRate)
	v.SetDefault("max_decays", cfg.MaxDecays)
	v.SetDefault("fade_rate", cfg.FadeRate)
	v.SetDefault("ground_offset", cfg.GroundOffset)
	v.SetDefault("edge_buffer", cfg.EdgeBuffer)
	v.SetDefault("tint.r", cfg.Tint.R)
	v.SetDefault("tint.g", cfg.Tint.G)
	v.SetDefault("tint.b", cfg.Tint.B)
	v.SetDefault("tint.a", cfg.Tint.A)
}

// Write encodes cfg as YAML to w.
func Write(w io.Writer, cfg drizzle.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return enc.Close()
}

// Save writes cfg as YAML to path.
func Save(path string, cfg drizzle.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
