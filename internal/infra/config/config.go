package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	DiscordToken   string
	GuildID        string
	ChannelID      string
	NotifierRoleID string

	LogLevel    string
	Environment string

	RefreshInterval  time.Duration
	StateDBPath      string
	HistoryScanLimit int
}

// Load reads configuration from environment variables and a .env file (if
// present). All four platform identifiers are required; a missing or
// malformed one aborts startup with a descriptive error, no partial start.
func Load() (*AppConfig, error) {
	// godotenv.Load never overrides variables already set in the environment,
	// and a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DiscordToken = os.Getenv("DISCORD_BOT_TOKEN")
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is not set")
	}

	var err error
	if cfg.GuildID, err = requireSnowflake("GUILD_ID"); err != nil {
		return nil, err
	}
	if cfg.ChannelID, err = requireSnowflake("CHANNEL_ID"); err != nil {
		return nil, err
	}
	if cfg.NotifierRoleID, err = requireSnowflake("NOTIFIER_ROLE_ID"); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.RefreshInterval = getEnvDuration("REFRESH_INTERVAL", 10*time.Second)
	cfg.StateDBPath = getEnv("STATE_DB_PATH", "data/schedule.db")
	cfg.HistoryScanLimit = getEnvInt("HISTORY_SCAN_LIMIT", 50)

	return cfg, nil
}

// requireSnowflake reads a mandatory Discord ID. IDs travel as strings but
// must be purely numeric.
func requireSnowflake(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	if _, err := strconv.ParseUint(v, 10, 64); err != nil {
		return "", fmt.Errorf("invalid %s: %q is not a numeric ID", key, v)
	}
	return v, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
