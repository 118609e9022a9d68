package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
)

type Config struct {
	Port           string
	BackendBaseURL string
	SessionSecret  string
	SessionTTL     time.Duration
	BackendTimeout time.Duration
	CORSOrigins    string
	AppEnv         string
}

func Load() Config {
	// coba load .env, kalau gak ada ya di-skip
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "3000"),
		BackendBaseURL: strings.TrimRight(strings.TrimSpace(getEnv("BACKEND_BASEURL", "")), "/"),
		SessionSecret:  strings.TrimSpace(getEnv("SESSION_SECRET", "")),
		SessionTTL:     envDuration("SESSION_TTL", "720h"),
		BackendTimeout: envDuration("BACKEND_TIMEOUT", "15s"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		AppEnv:         getEnv("APP_ENV", "production"),
	}
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	if c.BackendBaseURL == "" {
		return oops.Code("CONFIG_INVALID").With("key", "BACKEND_BASEURL").Errorf("BACKEND_BASEURL tidak boleh kosong")
	}
	if c.SessionSecret == "" {
		return oops.Code("CONFIG_INVALID").With("key", "SESSION_SECRET").Errorf("SESSION_SECRET tidak boleh kosong")
	}
	if c.SessionTTL <= 0 {
		return oops.Code("CONFIG_INVALID").With("key", "SESSION_TTL").Errorf("SESSION_TTL harus positif")
	}
	// session cookie dikirim dengan credentials, jadi origin wajib eksplisit
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if strings.TrimSpace(o) == "*" {
			return oops.Code("CONFIG_INVALID").With("key", "CORS_ORIGINS").Errorf("CORS_ORIGINS tidak boleh wildcard")
		}
	}
	return nil
}

func (c Config) IsDev() bool { return strings.EqualFold(c.AppEnv, "development") }

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func envDuration(key, def string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, def))
	if err != nil {
		d, _ = time.ParseDuration(def)
	}
	return d
}
