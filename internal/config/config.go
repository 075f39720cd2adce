// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the complete client configuration
type Config struct {
	// APIBaseURL is the Ideahub backend the client talks to
	APIBaseURL string
	// RequestTimeout bounds every HTTP round-trip
	RequestTimeout time.Duration
	// SessionFile is where the durable session (token, identity, roles) lives
	SessionFile string
	Debug       bool
}

// DefaultConfig provides default client settings
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:     "http://localhost:3200",
		RequestTimeout: 5 * time.Second,
		SessionFile:    defaultSessionFile(),
		Debug:          false,
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load a .env file from the usual locations
	envLocations := []string{
		".env",       // Current directory
		"../../.env", // Project root when running from cmd/ideahub
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		// Silent failure if no .env exists, which is fine
		_ = godotenv.Load()
	}

	cfg := DefaultConfig()

	if baseURL := os.Getenv("IDEAHUB_API_URL"); baseURL != "" {
		cfg.APIBaseURL = baseURL
	}

	if timeoutStr := os.Getenv("IDEAHUB_TIMEOUT_SECONDS"); timeoutStr != "" {
		if seconds, err := strconv.Atoi(timeoutStr); err == nil && seconds > 0 {
			cfg.RequestTimeout = time.Duration(seconds) * time.Second
		}
	}

	if sessionFile := os.Getenv("IDEAHUB_SESSION_FILE"); sessionFile != "" {
		cfg.SessionFile = sessionFile
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, nil
}

// defaultSessionFile resolves the per-user session path, falling back to the
// working directory when no config dir is available.
func defaultSessionFile() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "ideahub", "session.json")
	}
	return ".ideahub-session.json"
}
