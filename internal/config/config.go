package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config carries every deployment-level knob. It is built once in main
// and threaded through construction; nothing reads it globally.
type Config struct {
	Addr          string  `yaml:"addr"`
	BaseURL       string  `yaml:"baseUrl"`
	LineupID      string  `yaml:"lineupId"`
	Timezone      string  `yaml:"timezone"`
	Days          int     `yaml:"days"`
	TitleFallback string  `yaml:"titleFallback"`
	Profile       Profile `yaml:"profile"`
	Log           Log     `yaml:"log"`
}

// Log configures the optional rotating file sink. Empty File logs to stdout.
type Log struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

func Default() Config {
	days, _ := strconv.Atoi(envOr("GUIDEFEED_DAYS", "7"))
	return Config{
		Addr:          envOr("GUIDEFEED_ADDR", "127.0.0.1:8080"),
		BaseURL:       envOr("GUIDEFEED_BASE_URL", "https://www.tvtv.us/api/v1"),
		LineupID:      envOr("GUIDEFEED_LINEUP_ID", ""),
		Timezone:      envOr("GUIDEFEED_TIMEZONE", "America/New_York"),
		Days:          days,
		TitleFallback: envOr("GUIDEFEED_TITLE_FALLBACK", "No Title"),
		Profile:       ProfileByName(envOr("GUIDEFEED_PROFILE", ProfileStandard)),
		Log: Log{
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Load overlays a YAML file on top of the env-derived defaults. The
// profile key accepts either a preset name or a mapping; see Profile.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.LineupID == "" {
		return fmt.Errorf("lineupId is required")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("baseUrl is required")
	}
	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	return c.Profile.validate()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
