// Package config loads application configuration from environment
// variables. Required variables are enforced with must(); optional
// ones fall back to defaults.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime configuration for the API server.
type Config struct {
	Env  string // application environment ("dev", "test", "prod")
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional, empty allowed
	DBHost string
	DBPort string
	DBName string

	// External identity provider settings. The JWT secret verifies
	// session tokens; the API key and URL serve profile lookups for
	// first-seen users.
	AuthIssuer    string
	AuthJWTSecret string
	AuthAPIKey    string
	AuthAPIURL    string

	CORSOrigins []string

	DefaultPageSize int
	MaxPageSize     int

	Debug bool
}

// Load reads configuration from the environment. Missing required
// variables abort startup with a fatal log message.
func Load() Config {
	return Config{
		Env:  envStr("APP_ENV", "dev"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		AuthIssuer:    envStr("AUTH_ISSUER", ""),
		AuthJWTSecret: must("AUTH_JWT_SECRET"),
		AuthAPIKey:    must("AUTH_API_KEY"),
		AuthAPIURL:    envStr("AUTH_API_URL", "https://api.clerk.com/v1"),

		CORSOrigins: splitCSV(envStr("CORS_ORIGINS", "*")),

		DefaultPageSize: envInt("PAGE_SIZE_DEFAULT", 50),
		MaxPageSize:     envInt("PAGE_SIZE_MAX", 100),

		Debug: envBool("APP_DEBUG", false),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
