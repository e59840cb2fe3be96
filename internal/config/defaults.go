package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	defaultAPIURL         = "http://localhost:3000"
	defaultPort           = 8080
	defaultRequestTimeout = 10 * time.Second
	defaultRefreshDelay   = 1500 * time.Millisecond
	defaultGeoDatasetURL  = "https://raw.githubusercontent.com/marcovega/colombia-json/master/colombia.min.json"
	defaultGeoCacheTTL    = 24 * time.Hour
	defaultPprofAddr      = "127.0.0.1:6060"
	defaultLogFormat      = "text"
	defaultLogLevel       = "info"
)

var defaultReassignBlockedStatuses = []string{"en tránsito"}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       10,
	Burst:      20,
	WriteRate:  2,
	WriteBurst: 5,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

// DefaultPort returns the default dashboard port.
func DefaultPort() int {
	return defaultPort
}

// DefaultSessionPath returns the bbolt file under the user's home directory,
// or a file in the working directory when there is no home.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "session.db"
	}
	return filepath.Join(home, ".logistics-console", "session.db")
}

// DefaultRateLimit returns the default rate limiter settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultReassignBlockedStatuses returns the statuses that block reassignment by default.
func DefaultReassignBlockedStatuses() []string {
	return append([]string(nil), defaultReassignBlockedStatuses...)
}
