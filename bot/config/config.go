// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	BotToken                   string
	PostgresDSN                string
	Port                       int
	LogLevel                   string
	ExternalURL                string
	CleanCommandsAfterShutdown bool
}

// Load reads configuration from environment variables. BOT_TOKEN is
// the only required value; without POSTGRES_DSN the bot runs with the
// store disconnected and persistence calls fail cleanly.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 10000)
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &Config{
		BotToken:                   v.GetString("BOT_TOKEN"),
		PostgresDSN:                v.GetString("POSTGRES_DSN"),
		Port:                       v.GetInt("PORT"),
		LogLevel:                   v.GetString("LOG_LEVEL"),
		ExternalURL:                v.GetString("EXTERNAL_URL"),
		CleanCommandsAfterShutdown: v.GetBool("CLEAN_COMMANDS_AFTER_SHUTDOWN"),
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}

	return cfg, nil
}

// SelfURL is the address the keep-alive ping hits: the externally
// reachable URL when deployed, the local health endpoint otherwise.
func (c *Config) SelfURL() string {
	if c.ExternalURL != "" {
		return c.ExternalURL
	}
	return fmt.Sprintf("http://localhost:%d", c.Port)
}
