// Package config loads echors' runtime configuration from a mandatory
// TOML file, environment overrides, and command-line flags, in the
// layering the teacher's config.go established with viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every tunable echors reads at startup.
type Config struct {
	Bind           string `mapstructure:"bind"`
	MaxConnections uint16 `mapstructure:"max_connections"`
	LogConfigPath  string `mapstructure:"log_config_path"`
}

// DefaultConfig returns the values used when the TOML file and
// environment are both silent on a field.
func DefaultConfig() *Config {
	return &Config{
		Bind:           "127.0.0.1:6380",
		MaxConnections: 1024,
		LogConfigPath:  "",
	}
}

// Load reads ./echors.toml, layering environment variables prefixed
// ECHORS_ and any bound flags over it, then validates the result.
//
// Unlike the teacher's LoadConfig, a missing config file is fatal here:
// echors.toml is the one place bind/max_connections/log_config_path are
// meant to live, and silently running on defaults hid misconfiguration
// in the original during development (see DESIGN.md for this deviation).
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	cfg := DefaultConfig()

	v.SetConfigName("echors")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ECHORS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("bind", cfg.Bind)
	v.SetDefault("max_connections", cfg.MaxConnections)
	v.SetDefault("log_config_path", cfg.LogConfigPath)

	if flags != nil {
		if err := bindFlag(v, flags, "bind", "bind"); err != nil {
			return nil, err
		}
		if err := bindFlag(v, flags, "max_connections", "max-connections"); err != nil {
			return nil, err
		}
		if err := bindFlag(v, flags, "log_config_path", "log-config"); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: echors.toml is required: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshaling: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindFlag wires one cobra/pflag flag to a differently-named viper key,
// since the flag names use CLI dash-case while the config keys follow
// the TOML file's snake_case.
func bindFlag(v *viper.Viper, flags *pflag.FlagSet, key, flagName string) error {
	flag := flags.Lookup(flagName)
	if flag == nil {
		return nil
	}
	return v.BindPFlag(key, flag)
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Bind == "" {
		return fmt.Errorf("config: bind must not be empty")
	}
	if c.MaxConnections == 0 {
		return fmt.Errorf("config: max_connections must be at least 1")
	}
	return nil
}
