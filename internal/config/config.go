package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds process-level configuration. Per-guild settings (remote
// credentials, channels, zones, cursor) live in the database and are loaded
// by the storage layer.
type Config struct {
	DiscordToken string

	// Database
	DatabasePath string

	// Polling defaults (per-guild interval can override)
	PollIntervalSeconds int

	// Remote I/O
	RemoteTimeoutSeconds int
	MaxRemoteTransfers   int

	// Discord sending
	MessageDelayMS int
	SendRetries    int

	// Seen-line cache
	SeenCacheCapacity int
	SeenCachePath     string
}

// Load reads the .env file (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := &Config{
		DiscordToken: getEnv("DISCORD_TOKEN", ""),

		DatabasePath: getEnv("DATABASE_PATH", "data/cupid.db"),

		PollIntervalSeconds: getEnvInt("POLL_INTERVAL", 30),

		RemoteTimeoutSeconds: getEnvInt("REMOTE_TIMEOUT", 60),
		MaxRemoteTransfers:   getEnvInt("MAX_REMOTE_TRANSFERS", 3),

		MessageDelayMS: getEnvInt("MESSAGE_DELAY_MS", 250),
		SendRetries:    getEnvInt("SEND_RETRIES", 3),

		SeenCacheCapacity: getEnvInt("SEEN_CACHE_CAPACITY", 50000),
		SeenCachePath:     getEnv("SEEN_CACHE_PATH", "data/seen_lines.json"),
	}

	if cfg.DiscordToken == "" {
		log.Fatal("Missing required environment variable: DISCORD_TOKEN")
	}

	log.Printf("Configuration loaded:")
	log.Printf("   Database: %s", cfg.DatabasePath)
	log.Printf("   Poll interval: %d seconds", cfg.PollIntervalSeconds)
	log.Printf("   Remote timeout: %d seconds", cfg.RemoteTimeoutSeconds)
	log.Printf("   Max concurrent remote transfers: %d", cfg.MaxRemoteTransfers)
	log.Printf("   Message delay: %d ms", cfg.MessageDelayMS)
	log.Printf("   Seen cache capacity: %d entries", cfg.SeenCacheCapacity)

	return cfg
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true"
	}
	return defaultValue
}
