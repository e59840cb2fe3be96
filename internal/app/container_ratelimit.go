package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"logistics-console/internal/config"
	"logistics-console/internal/http/middleware/ratelimit"
	"logistics-console/internal/logx"
)

// limiters splits the dashboard budget between reads and backend mutations.
type limiters struct {
	dig.Out

	Reads  ratelimit.Limiter `name:"rate_limit_reads"`
	Writes ratelimit.Limiter `name:"rate_limit_writes"`
}

func newRateLimiters(cfg *config.Config, clock ratelimit.Clock) limiters {
	rl := cfg.RateLimit
	if !rl.Enabled {
		return limiters{Reads: ratelimit.Unlimited{}, Writes: ratelimit.Unlimited{}}
	}
	return limiters{
		Reads: ratelimit.NewBuckets(clock, ratelimit.Config{
			Rate: rl.Rate, Burst: rl.Burst, TTL: rl.TTL, MaxBuckets: rl.MaxBuckets,
		}),
		Writes: ratelimit.NewBuckets(clock, ratelimit.Config{
			Rate: rl.WriteRate, Burst: rl.WriteBurst, TTL: rl.TTL, MaxBuckets: rl.MaxBuckets,
		}),
	}
}

func newRateLimitClock() ratelimit.Clock { return nil }

type rateLimitIn struct {
	dig.In
	Logger  logx.Logger
	Counter prometheus.Counter `name:"rate_limit_exceeded_total"`
	Reads   ratelimit.Limiter  `name:"rate_limit_reads"`
	Writes  ratelimit.Limiter  `name:"rate_limit_writes"`
}

// probes stay reachable for monitoring even when a client is throttled
func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	return ratelimit.New(in.Logger, in.Counter, in.Reads,
		ratelimit.Writes(in.Writes),
		ratelimit.Exempt("/ping", "/healthcheck", "/metrics"),
	)
}
