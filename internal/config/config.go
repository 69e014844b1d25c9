// /internal/config/config.go
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process-level settings. Runtime feature toggles live in the
// settings store, not here.
type Config struct {
	DiscordToken      string `env:"DISCORD_TOKEN,required"`
	SettingsPath      string `env:"SETTINGS_PATH" envDefault:"data/settings.json"`
	LogDBPath         string `env:"LOG_DB_PATH" envDefault:"data/botlog.db"`
	DashboardAddr     string `env:"DASHBOARD_ADDR" envDefault:":8080"`
	DashboardPassword string `env:"DASHBOARD_PASSWORD"`
	Timezone          string `env:"TIMEZONE" envDefault:"Africa/Nairobi"`
}

func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[WARN] Unknown timezone %q, falling back to UTC", c.Timezone)
		return time.UTC
	}
	return loc
}
