package client

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	storefront "github.com/Apurer/storefront-state/internal/clients/http/storefront"
)

// Config carries environment-driven settings for the smoke client.
type Config struct {
	BaseURL     string
	HTTPTimeout time.Duration
	// SearchTerm, when set, also runs a product search.
	SearchTerm string
}

// LoadConfig reads an optional .env file, then environment variables.
// Variables already set win over the file.
func LoadConfig() (Config, error) {
	if err := loadEnvFile(envDefault("STOREFRONT_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}
	cfg := Config{
		BaseURL:     envDefault("STOREFRONT_API_BASE_URL", storefront.DefaultBaseURL),
		HTTPTimeout: 10 * time.Second,
		SearchTerm:  strings.TrimSpace(os.Getenv("STOREFRONT_SEARCH")),
	}
	if raw := strings.TrimSpace(os.Getenv("STOREFRONT_HTTP_TIMEOUT")); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil || timeout <= 0 {
			return Config{}, fmt.Errorf("STOREFRONT_HTTP_TIMEOUT must be a positive duration, got %q", raw)
		}
		cfg.HTTPTimeout = timeout
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("STOREFRONT_API_BASE_URL must be an absolute URL, got %q", cfg.BaseURL)
	}
	return cfg, nil
}

func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
