package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	logginghelpers "github.com/Pjt727/bookcs/data/logging-helpers"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	// base url of the booking api, e.g. https://bookcs.example
	APIURL string
	// where the static pages (history, booking forms, dashboard) live
	SiteURL        string
	Port           int
	AllowedOrigins []string
	Location       *time.Location
	LogLevel       slog.Level
	APIRateLimit   float64
	APIBurst       int
	APIRetries     int
	// 0 waits for the api for as long as the browser does
	APITimeout time.Duration
	ManageLogs bool
	// operator login for /manage, the hash is bcrypt
	ManageUsername     string
	ManagePasswordHash string
}

// Load reads .env when there is one and then the environment. Only the api
// url is required.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not read .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		APIURL:  strings.TrimSpace(os.Getenv("BOOKCS_API_URL")),
		SiteURL: strings.TrimSpace(os.Getenv("BOOKCS_SITE_URL")),

		ManageUsername:     getEnv("BOOKCS_MANAGE_USERNAME", "admin"),
		ManagePasswordHash: strings.TrimSpace(os.Getenv("BOOKCS_MANAGE_PASSWORD_HASH")),
	}

	var err error
	if cfg.Port, err = getEnvInt("BOOKCS_PORT", 3000); err != nil {
		return nil, err
	}
	if cfg.APIRateLimit, err = getEnvFloat("BOOKCS_API_RATE", 10); err != nil {
		return nil, err
	}
	if cfg.APIBurst, err = getEnvInt("BOOKCS_API_BURST", 5); err != nil {
		return nil, err
	}
	if cfg.APIRetries, err = getEnvInt("BOOKCS_API_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.APITimeout, err = getEnvDuration("BOOKCS_API_TIMEOUT", 0); err != nil {
		return nil, err
	}
	if cfg.ManageLogs, err = getEnvBool("BOOKCS_MANAGE_LOGS", false); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = logginghelpers.ParseLevel(os.Getenv("BOOKCS_LOG_LEVEL")); err != nil {
		return nil, err
	}

	timezone := getEnv("BOOKCS_TIMEZONE", "Local")
	if cfg.Location, err = time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid BOOKCS_TIMEZONE %q: %w", timezone, err)
	}

	for _, origin := range strings.Split(os.Getenv("BOOKCS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	return cfg, nil
}

// Validate is separate from loading so `serve --mock` can fill in the api url
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("BOOKCS_API_URL is required but not set")
	}
	if c.APIRetries < 0 {
		return fmt.Errorf("BOOKCS_API_RETRIES cannot be negative")
	}
	if c.ManageLogs {
		if c.ManagePasswordHash == "" {
			return fmt.Errorf("BOOKCS_MANAGE_PASSWORD_HASH is required when BOOKCS_MANAGE_LOGS is set, see `bookcs app hash-password`")
		}
		if _, err := bcrypt.Cost([]byte(c.ManagePasswordHash)); err != nil {
			return fmt.Errorf("BOOKCS_MANAGE_PASSWORD_HASH is not a bcrypt hash: %w", err)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return parsed, nil
}
