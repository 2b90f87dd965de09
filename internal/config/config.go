package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The gateway owns no durable state, so there is no
// database configuration here; everything durable lives behind the upstream
// API named by UpstreamBaseURL.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	UpstreamBaseURL string        // base URL of the remote reservation API
	UpstreamTimeout time.Duration // per-request bound on upstream round-trips
	JWTSecret       string        // secret shared with the upstream for verifying bearer tokens
	SessionTTL      time.Duration // lifetime of an idle booking session
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values cause
// the program to exit with a fatal log message. Durations fall back to sane
// defaults when unset or unparsable.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),           // environment (dev/test/prod)
		Port:            must("APP_PORT"),          // port to bind the HTTP server
		UpstreamBaseURL: must("UPSTREAM_BASE_URL"), // e.g. http://localhost:8080
		UpstreamTimeout: dur("UPSTREAM_TIMEOUT", 10*time.Second),
		JWTSecret:       must("JWT_SECRET"), // must match the upstream's signing secret
		SessionTTL:      dur("SESSION_TTL", 30*time.Minute),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// dur parses a duration env var, returning def when unset or invalid.
func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return d
}

// Helper functions shared by the cache and rate-limit config loaders.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
