package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Settings are the process-level knobs shared by the CLI and the calc service
type Settings struct {
	LogLevel      string  `yaml:"log_level"`
	Workers       int     `yaml:"workers"`
	DefaultRegion string  `yaml:"default_region"`
	DiscountRate  float64 `yaml:"discount_rate"` // annual %, used when a scenario omits one
}

// DefaultSettings returns the built-in values
func DefaultSettings() Settings {
	return Settings{
		LogLevel:      "warn",
		Workers:       4,
		DefaultRegion: "default",
		DiscountRate:  12,
	}
}

// Load layers, in order: defaults, the YAML file at path (skipped when empty or
// missing), then SCENARIO_* environment variables. A .env file in the working
// directory is loaded first if present.
func Load(path string) (Settings, error) {
	_ = godotenv.Load()

	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return s, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	if err := applyEnv(&s); err != nil {
		return s, err
	}

	if s.Workers < 1 {
		s.Workers = 1
	}
	return s, nil
}

func applyEnv(s *Settings) error {
	if v := os.Getenv("SCENARIO_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("SCENARIO_REGION"); v != "" {
		s.DefaultRegion = v
	}
	if v := os.Getenv("SCENARIO_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCENARIO_WORKERS: %w", err)
		}
		s.Workers = n
	}
	if v := os.Getenv("SCENARIO_DISCOUNT_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SCENARIO_DISCOUNT_RATE: %w", err)
		}
		s.DiscountRate = f
	}
	return nil
}
