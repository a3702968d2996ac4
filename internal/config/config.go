/*
Package config builds a read-only Settings value once at startup and
passes it explicitly to every component that needs it, rather than
reading from a global afterward. joho/godotenv loads a local .env file
before falling back to os.Getenv.
*/
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Settings is the immutable, fully-resolved configuration for one process.
// Built once in Load and passed explicitly to every component that needs
// it, never read from a global afterward.
type Settings struct {
	DatabaseURL string
	Host        string
	Port        int
	Debug       bool
	Environment string
	LogLevel    string
}

// Load reads a local .env file (if present) and then the process
// environment, applying local dev-server defaults for HOST, PORT, DEBUG,
// ENVIRONMENT and LOG_LEVEL. DATABASE_URL has no default: Load returns an
// error when it is unset.
func Load() (Settings, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getenv("PORT", "8080"))
	if err != nil {
		return Settings{}, fmt.Errorf("config: invalid PORT: %w", err)
	}

	s := Settings{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Host:        getenv("HOST", "0.0.0.0"),
		Port:        port,
		Debug:       getenv("DEBUG", "false") == "true",
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}
	if s.DatabaseURL == "" {
		return Settings{}, fmt.Errorf("config: DATABASE_URL is required")
	}
	return s, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Addr is the host:port pair the HTTP server binds to.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
