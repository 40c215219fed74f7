package cmd

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// EnvConfig holds BOOSTER_SIM_* overrides. They apply only to flags the user
// did not set explicitly.
type EnvConfig struct {
	LogLevel     string `env:"BOOSTER_SIM_LOG_LEVEL"`
	DefaultsPath string `env:"BOOSTER_SIM_DEFAULTS"`
	Workers      int    `env:"BOOSTER_SIM_WORKERS"`
	Addr         string `env:"BOOSTER_SIM_ADDR"`
}

// loadEnv parses the environment into an EnvConfig.
func loadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// applyEnv copies non-empty environment values into the flags of cmd that
// were left at their defaults.
func applyEnv(cmd *cobra.Command, cfg EnvConfig) error {
	overrides := map[string]string{
		"log":      cfg.LogLevel,
		"defaults": cfg.DefaultsPath,
		"addr":     cfg.Addr,
	}
	if cfg.Workers != 0 {
		overrides["workers"] = fmt.Sprint(cfg.Workers)
	}
	for name, value := range overrides {
		if value == "" {
			continue
		}
		flag := cmd.Flags().Lookup(name)
		if flag == nil || flag.Changed {
			continue
		}
		if err := flag.Value.Set(value); err != nil {
			return fmt.Errorf("apply env to --%s: %w", name, err)
		}
	}
	return nil
}
