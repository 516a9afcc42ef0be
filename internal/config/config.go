// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the motoclub configuration from the environment
// and the optional site settings file.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Translator backends accepted by MC_TRANSLATOR.
const (
	TranslatorLibre  = "libretranslate"
	TranslatorOpenAI = "openai"
	TranslatorNone   = "none"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"MC_DB_PATH" envDefault:"./data/motoclub.db"`
	SecretKey  string `env:"MC_SECRET_KEY,required"`
	ServerHost string `env:"MC_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"MC_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"MC_ENV" envDefault:"development"`
	LogLevel   string `env:"MC_LOG_LEVEL" envDefault:"info"`
	UploadsDir string `env:"MC_UPLOADS_DIR" envDefault:"./uploads"`
	SiteURL    string `env:"MC_SITE_URL" envDefault:"https://mccastellazzob.com"`
	SiteFile   string `env:"MC_SITE_FILE"` // Optional YAML file with organization settings

	// Machine translation
	Translator          string        `env:"MC_TRANSLATOR" envDefault:"libretranslate"`
	SourceLanguage      string        `env:"MC_SOURCE_LANGUAGE" envDefault:"it"`
	LibreTranslateURL   string        `env:"MC_LIBRETRANSLATE_URL" envDefault:"https://libretranslate.com"`
	LibreTranslateKey   string        `env:"MC_LIBRETRANSLATE_API_KEY"`
	OpenAIAPIKey        string        `env:"MC_OPENAI_API_KEY"`
	OpenAIModel         string        `env:"MC_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	TranslateTimeout    time.Duration `env:"MC_TRANSLATE_TIMEOUT" envDefault:"30s"`
	SyncCron            string        `env:"MC_SYNC_CRON"` // Empty disables scheduled sync
	TranslationCacheTTL time.Duration `env:"MC_TRANSLATION_CACHE_TTL" envDefault:"720h"`

	// Geocoding
	NominatimURL       string `env:"MC_NOMINATIM_URL" envDefault:"https://nominatim.openstreetmap.org"`
	NominatimUserAgent string `env:"MC_NOMINATIM_USER_AGENT" envDefault:"MCCastellazzo/1.0"`

	// Contact form mail delivery
	SMTPAddr     string `env:"MC_SMTP_ADDR"` // host:port, empty disables delivery
	SMTPUser     string `env:"MC_SMTP_USER"`
	SMTPPassword string `env:"MC_SMTP_PASSWORD"`
	ContactFrom  string `env:"MC_CONTACT_FROM" envDefault:"noreply@mccastellazzob.com"`
	ContactTo    string `env:"MC_CONTACT_TO" envDefault:"info@mccastellazzob.com"`

	// Cache configuration
	RedisURL    string `env:"MC_REDIS_URL"`
	CachePrefix string `env:"MC_CACHE_PREFIX" envDefault:"motoclub:"`

	// GeoIP configuration
	GeoIPDBPath string `env:"MC_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if a GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MailEnabled returns true if an SMTP relay is configured.
func (c Config) MailEnabled() bool {
	return c.SMTPAddr != ""
}

// MinSecretKeyLength is the minimum required length for the secret key.
const MinSecretKeyLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SecretKey) < MinSecretKeyLength {
		return nil, fmt.Errorf("MC_SECRET_KEY must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSecretKeyLength, len(cfg.SecretKey))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SecretKey == weak {
			return nil, fmt.Errorf("MC_SECRET_KEY is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	switch cfg.Translator {
	case TranslatorLibre, TranslatorNone:
	case TranslatorOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("MC_OPENAI_API_KEY is required when MC_TRANSLATOR=%s", TranslatorOpenAI)
		}
	default:
		return nil, fmt.Errorf("unknown MC_TRANSLATOR %q (want %s, %s or %s)",
			cfg.Translator, TranslatorLibre, TranslatorOpenAI, TranslatorNone)
	}

	cfg.SiteURL = strings.TrimRight(cfg.SiteURL, "/")

	if !hasMinimumEntropy(cfg.SecretKey) {
		slog.Warn("MC_SECRET_KEY has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
