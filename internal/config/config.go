// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const secretKeyBytes = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL     string
	ListenAddr     string
	DBPath         string
	SecretKey      []byte
	RequestTimeout time.Duration
	RenewTimeout   time.Duration
	// RateLimit is the outbound requests-per-second ceiling; zero disables it.
	RateLimit float64
	RateBurst int
	HTTPCache bool
}

// Load reads configuration from environment variables and returns a validated Config.
// LEDGERDESK_API_BASE_URL and LEDGERDESK_SECRET_KEY (64 hex characters) are required.
// Optional variables with defaults: LEDGERDESK_LISTEN_ADDR (127.0.0.1:8080),
// LEDGERDESK_DB_PATH (ledgerdesk.db), LEDGERDESK_REQUEST_TIMEOUT (30s),
// LEDGERDESK_RENEW_TIMEOUT (10s), LEDGERDESK_RATE_LIMIT (0, unlimited),
// LEDGERDESK_RATE_BURST (1), LEDGERDESK_HTTP_CACHE (false).
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     "127.0.0.1:8080",
		DBPath:         "ledgerdesk.db",
		RequestTimeout: 30 * time.Second,
		RenewTimeout:   10 * time.Second,
		RateBurst:      1,
	}

	baseURL := os.Getenv("LEDGERDESK_API_BASE_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("LEDGERDESK_API_BASE_URL is required")
	}
	if u, err := url.Parse(baseURL); err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("LEDGERDESK_API_BASE_URL must be an absolute URL, got %q", baseURL)
	}
	cfg.APIBaseURL = baseURL

	key, err := secretKey(os.Getenv("LEDGERDESK_SECRET_KEY"))
	if err != nil {
		return nil, err
	}
	cfg.SecretKey = key

	if v, ok := os.LookupEnv("LEDGERDESK_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("LEDGERDESK_DB_PATH"); ok {
		cfg.DBPath = v
	}

	if cfg.RequestTimeout, err = duration("LEDGERDESK_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}
	if cfg.RenewTimeout, err = duration("LEDGERDESK_RENEW_TIMEOUT", cfg.RenewTimeout); err != nil {
		return nil, err
	}

	if v, ok := os.LookupEnv("LEDGERDESK_RATE_LIMIT"); ok {
		limit, err := strconv.ParseFloat(v, 64)
		if err != nil || limit < 0 {
			return nil, fmt.Errorf("LEDGERDESK_RATE_LIMIT has invalid value %q", v)
		}
		cfg.RateLimit = limit
	}
	if v, ok := os.LookupEnv("LEDGERDESK_RATE_BURST"); ok {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return nil, fmt.Errorf("LEDGERDESK_RATE_BURST has invalid value %q", v)
		}
		cfg.RateBurst = burst
	}

	if v, ok := os.LookupEnv("LEDGERDESK_HTTP_CACHE"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("LEDGERDESK_HTTP_CACHE has invalid boolean %q: %w", v, err)
		}
		cfg.HTTPCache = enabled
	}

	return cfg, nil
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, parsed)
	}
	return parsed, nil
}

func secretKey(v string) ([]byte, error) {
	if v == "" {
		return nil, fmt.Errorf("LEDGERDESK_SECRET_KEY is required")
	}
	key, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("LEDGERDESK_SECRET_KEY is not valid hex: %w", err)
	}
	if len(key) != secretKeyBytes {
		return nil, fmt.Errorf("LEDGERDESK_SECRET_KEY must be %d bytes (%d hex characters), got %d bytes",
			secretKeyBytes, secretKeyBytes*2, len(key))
	}
	return key, nil
}
