package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
)

// Config stores console and dashboard settings.
type Config struct {
	APIURL                  string
	Port                    int
	SessionPath             string
	RequestTimeout          time.Duration
	RefreshDelay            time.Duration
	ReassignBlockedStatuses []string

	Geo       Geo
	RateLimit RateLimit
	Pprof     Pprof
	Log       Log
}

// Geo stores the location dataset settings.
type Geo struct {
	DatasetURL string
	// RedisAddr enables the shared cache when set.
	RedisAddr string
	CacheTTL  time.Duration
}

// RateLimit stores the dashboard per-client rate limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	WriteRate  float64 // mutating requests, counted apart from reads
	WriteBurst int
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores the profiling server settings.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Log stores logger settings.
type Log struct {
	Format string
	Level  string
}

var (
	logFormats = []string{"json", "text", "zap"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// Load reads configuration in order: .env (if present) → environment → flags.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from defaults, .env and the environment.
func FromEnv() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		APIURL:                  envString("API_URL", defaultAPIURL),
		SessionPath:             envString("SESSION_PATH", DefaultSessionPath()),
		ReassignBlockedStatuses: envList("REASSIGN_BLOCKED_STATUSES", DefaultReassignBlockedStatuses()),
		Geo: Geo{
			DatasetURL: envString("GEO_DATASET_URL", defaultGeoDatasetURL),
			RedisAddr:  envString("REDIS_ADDR", ""),
		},
		Pprof: Pprof{
			Addr: envString("PPROF_ADDR", defaultPprofAddr),
			User: os.Getenv("PPROF_USER"),
			Pass: os.Getenv("PPROF_PASS"),
		},
		Log: Log{
			Format: strings.ToLower(envString("LOG_FORMAT", defaultLogFormat)),
			Level:  strings.ToLower(envString("LOG_LEVEL", defaultLogLevel)),
		},
	}

	var err error
	if cfg.Port, err = envInt("PORT", defaultPort); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return nil, err
	}
	if cfg.RefreshDelay, err = envDuration("REFRESH_DELAY", defaultRefreshDelay); err != nil {
		return nil, err
	}
	if cfg.Geo.CacheTTL, err = envDuration("GEO_CACHE_TTL", defaultGeoCacheTTL); err != nil {
		return nil, err
	}
	if cfg.Pprof.Enabled, err = envBool("PPROF_ENABLED", false); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = rateLimitFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func rateLimitFromEnv() (RateLimit, error) {
	rl := DefaultRateLimit()
	var err error
	if rl.Enabled, err = envBool("RATE_LIMIT_ENABLED", rl.Enabled); err != nil {
		return rl, err
	}
	if rl.Rate, err = envFloat("RATE_LIMIT_RATE", rl.Rate); err != nil {
		return rl, err
	}
	if rl.Burst, err = envInt("RATE_LIMIT_BURST", rl.Burst); err != nil {
		return rl, err
	}
	if rl.WriteRate, err = envFloat("RATE_LIMIT_WRITE_RATE", rl.WriteRate); err != nil {
		return rl, err
	}
	if rl.WriteBurst, err = envInt("RATE_LIMIT_WRITE_BURST", rl.WriteBurst); err != nil {
		return rl, err
	}
	if rl.TTL, err = envDuration("RATE_LIMIT_TTL", rl.TTL); err != nil {
		return rl, err
	}
	if rl.MaxBuckets, err = envInt("RATE_LIMIT_MAX_BUCKETS", rl.MaxBuckets); err != nil {
		return rl, err
	}
	return rl, nil
}

// BindFlags registers flags on fs that override the current values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.APIURL, "api-url", c.APIURL, "backend base URL")
	fs.IntVarP(&c.Port, "port", "p", c.Port, "dashboard port to listen on")
	fs.StringVar(&c.SessionPath, "session-path", c.SessionPath, "session database file")
	fs.DurationVar(&c.RequestTimeout, "request-timeout", c.RequestTimeout, "timeout of a single backend request")
	fs.DurationVar(&c.RefreshDelay, "refresh-delay", c.RefreshDelay, "delay before refetching after a change")
	fs.StringSliceVar(&c.ReassignBlockedStatuses, "reassign-blocked-statuses", c.ReassignBlockedStatuses, "order statuses that cannot be reassigned")
	fs.StringVar(&c.Geo.DatasetURL, "geo-dataset-url", c.Geo.DatasetURL, "departments and cities dataset URL")
	fs.StringVar(&c.Geo.RedisAddr, "redis-addr", c.Geo.RedisAddr, "redis address for the location cache (empty disables)")
	fs.DurationVar(&c.Geo.CacheTTL, "geo-cache-ttl", c.Geo.CacheTTL, "location cache TTL")
	fs.BoolVar(&c.RateLimit.Enabled, "rate-limit", c.RateLimit.Enabled, "rate limit dashboard clients")
	fs.BoolVar(&c.Pprof.Enabled, "pprof", c.Pprof.Enabled, "serve pprof")
	fs.StringVar(&c.Pprof.Addr, "pprof-addr", c.Pprof.Addr, "pprof listen address")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format: json, text or zap")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: debug, info, warn or error")
}

// Validate checks the final values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url: %q", c.APIURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.SessionPath == "" {
		return errors.New("empty session path")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request timeout: %s", c.RequestTimeout)
	}
	if c.RefreshDelay < 0 {
		return fmt.Errorf("invalid refresh delay: %s", c.RefreshDelay)
	}
	if c.Geo.CacheTTL <= 0 {
		return fmt.Errorf("invalid geo cache ttl: %s", c.Geo.CacheTTL)
	}
	if !lo.Contains(logFormats, c.Log.Format) {
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if !lo.Contains(logLevels, c.Log.Level) {
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	return nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	parts := lo.Map(strings.Split(v, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Compact(parts)
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
