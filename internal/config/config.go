package config

import (
	"os"
	"strconv"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// Dedup / reconciliation tuning
	MinPhoneDigits int // digits a phone needs to count as identifying signal
	BatchWarnSize  int // bulk-upsert size that triggers a diagnostics warning
	ErrorCap       int // max per-record errors carried in a batch result

	// Brand
	MaxLogoBytes int
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		MinPhoneDigits: getEnvInt("DEDUPE_MIN_PHONE_DIGITS", 5),
		BatchWarnSize:  getEnvInt("BULK_BATCH_WARN_SIZE", 1500),
		ErrorCap:       getEnvInt("BULK_ERROR_CAP", 25),

		MaxLogoBytes: getEnvInt("BRAND_MAX_LOGO_BYTES", 512*1024),
	}
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
