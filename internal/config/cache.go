package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the browse response cache middleware.
// When Enabled is false or no Redis client is configured, caching is
// disabled. Only the listed HTTP methods are cached; entries live for TTL
// and are keyed by route plus query string under Prefix. MaxBodyBytes caps
// the size of responses worth caching.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults favor short-lived caching of catalogue GETs: the movie, cinema
// and showtime collections change rarely relative to how often the funnel
// reads them.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(getenv("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(strings.ToUpper(p))
		if p != "" {
			m[p] = true
		}
	}
	return m
}
