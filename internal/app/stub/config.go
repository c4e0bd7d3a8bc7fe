package stub

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries environment-driven settings for the stub backend process.
type Config struct {
	Port        string
	PostgresDSN string
	// SeedFile is a YAML catalog; empty means the embedded fixture.
	SeedFile string
	// ReseedCatalog overwrites stored products with the seed on boot.
	ReseedCatalog bool
}

// LoadConfig reads an optional .env file, then environment variables, and
// validates basic constraints. Variables already set win over the file.
func LoadConfig() (Config, error) {
	if err := loadEnvFile(envDefault("STOREFRONT_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:          envDefault("PORT", "8080"),
		PostgresDSN:   strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SeedFile:      strings.TrimSpace(os.Getenv("STOREFRONT_SEED_FILE")),
		ReseedCatalog: isTruthy(os.Getenv("STOREFRONT_RESEED")),
	}
	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a valid TCP port, got %q", cfg.Port)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
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

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
