package config

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port           string
	BackendURL     string
	SessionKey     []byte
	CSRFKey        []byte
	CookieSecure   bool
	RequestTimeout time.Duration
	FlashTTL       time.Duration
	TemplatesDir   string
	StaticDir      string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:         fallback(os.Getenv("PORT"), "8080"),
		BackendURL:   strings.TrimSpace(os.Getenv("BACKEND_URL")),
		CookieSecure: fallback(os.Getenv("COOKIE_SECURE"), "false") == "true",
		TemplatesDir: fallback(os.Getenv("TEMPLATES_DIR"), "templates"),
		StaticDir:    fallback(os.Getenv("STATIC_DIR"), "static"),
	}

	seconds := fallback(os.Getenv("REQUEST_TIMEOUT_SECONDS"), "10")
	if n, err := strconv.Atoi(seconds); err == nil && n > 0 {
		cfg.RequestTimeout = time.Duration(n) * time.Second
	} else {
		cfg.RequestTimeout = 10 * time.Second
	}

	seconds = fallback(os.Getenv("FLASH_TTL_SECONDS"), "5")
	if n, err := strconv.Atoi(seconds); err == nil && n > 0 {
		cfg.FlashTTL = time.Duration(n) * time.Second
	} else {
		cfg.FlashTTL = 5 * time.Second
	}

	cfg.SessionKey = keyFromEnv("SESSION_KEY")
	cfg.CSRFKey = keyFromEnv("CSRF_KEY")

	if cfg.BackendURL == "" {
		return Config{}, errors.New("BACKEND_URL is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// keyFromEnv decodes a base64 signing key, generating a throwaway one when
// the variable is unset or unusable. Generated keys invalidate cookies on
// restart; production must set real keys.
func keyFromEnv(name string) []byte {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		slog.Warn("signing key not set, generating a random development key", "var", name)
		return randomKey()
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(decoded) < 32 {
		slog.Warn("signing key invalid or shorter than 32 bytes, generating a random development key", "var", name)
		return randomKey()
	}
	return decoded
}

func randomKey() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("read random key material: %v", err))
	}
	return b
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}
