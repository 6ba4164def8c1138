// Package config loads process-wide defaults from the environment: a
// best-effort godotenv.Load() followed by typed os.Getenv reads with sane
// fallbacks.
package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the environment-derived defaults callers can layer their
// explicit construction options on top of.
type Config struct {
	BaseDir         string
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
	EncryptionKey   string
}

var loadEnvOnce sync.Once

// Load reads KVS_* environment variables into a Config. It calls
// godotenv.Load() once per process on first invocation, safe for concurrent
// callers (store construction can race here); a missing .env file is not an
// error.
func Load() Config {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("[CONFIG] no .env file found, relying on process environment")
		}
	})

	cfg := Config{
		BaseDir:         os.Getenv("KVS_BASE_DIR"),
		CleanupInterval: time.Minute,
		EncryptionKey:   os.Getenv("KVS_ENCRYPTION_KEY"),
	}

	if v := os.Getenv("KVS_DEFAULT_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DefaultTTL = d
		} else {
			log.Printf("[CONFIG] invalid KVS_DEFAULT_TTL %q, ignoring: %v", v, err)
		}
	}

	if v := os.Getenv("KVS_CLEANUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CleanupInterval = d
		} else {
			log.Printf("[CONFIG] invalid KVS_CLEANUP_INTERVAL %q, ignoring: %v", v, err)
		}
	}

	return cfg
}
