package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string

	// NumberPrefix is prepended to every generated invoice number.
	NumberPrefix string

	// StaticDir holds the assets embedded into rendered PDFs.
	StaticDir string
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "gulflimo.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.NumberPrefix = getEnv("INVOICE_PREFIX", "GL")
	cfg.StaticDir = getEnv("STATIC_DIR", "static")
	return cfg
}

// LogoPath is the fixed location of the PDF header logo.
func (c Config) LogoPath() string {
	return filepath.Join(c.StaticDir, "images", "logo.png")
}

// BackgroundPath is the fixed location of the PDF page background.
func (c Config) BackgroundPath() string {
	return filepath.Join(c.StaticDir, "images", "background.jpg")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
