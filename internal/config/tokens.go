package config

import (
	"log"
	"os"
	"time"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenConfig holds JWT secrets and lifetimes. It is read from the
// environment exactly once at construction and injected where needed;
// nothing reads token env vars at call time.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func NewTokenConfig() *TokenConfig {
	accessSecret := os.Getenv("ACCESS_TOKEN_SECRET")
	refreshSecret := os.Getenv("REFRESH_TOKEN_SECRET")
	if accessSecret == "" || refreshSecret == "" {
		log.Fatal("Token secrets not set")
	}

	return &TokenConfig{
		AccessSecret:  []byte(accessSecret),
		RefreshSecret: []byte(refreshSecret),
		AccessTTL:     parseTTL("ACCESS_TOKEN_EXPIRY", defaultAccessTTL),
		RefreshTTL:    parseTTL("REFRESH_TOKEN_EXPIRY", defaultRefreshTTL),
	}
}

func parseTTL(envKey string, fallback time.Duration) time.Duration {
	raw := os.Getenv(envKey)
	if raw == "" {
		return fallback
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		log.Printf("Invalid %s %q, using default %s", envKey, raw, fallback)
		return fallback
	}
	return ttl
}
