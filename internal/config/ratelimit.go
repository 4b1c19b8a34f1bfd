package config

import "time"

// RateLimitConfig selects the limiter backend and the per-bucket limits.
// Store is "memory" (process local, the default) or "redis" (shared across
// instances).  Each preset can be overridden as RATE_LIMIT_<NAME>_MAX and
// RATE_LIMIT_<NAME>_WINDOW.
type RateLimitConfig struct {
	Enabled     bool
	Store       string
	KeyStrategy string
	Prefix      string
	Debug       bool
	Auth        Limit
	General     Limit
	Upload      Limit
	Webhook     Limit
}

// Limit is a fixed window of Max hits per Window.
type Limit struct {
	Max    int
	Window time.Duration
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:     envBool("RATE_LIMIT_ENABLED", true),
		Store:       envStr("RATE_LIMIT_STORE", "memory"),
		KeyStrategy: envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:      envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:       envBool("RATE_LIMIT_DEBUG", false),
		Auth:        envLimit("AUTH", 5, 15*time.Minute),
		General:     envLimit("GENERAL", 100, time.Minute),
		Upload:      envLimit("UPLOAD", 10, time.Minute),
		Webhook:     envLimit("WEBHOOK", 200, time.Minute),
	}
}

func envLimit(name string, max int, window time.Duration) Limit {
	l := Limit{
		Max:    envInt("RATE_LIMIT_"+name+"_MAX", max),
		Window: envDur("RATE_LIMIT_"+name+"_WINDOW", window),
	}
	if l.Max < 1 {
		l.Max = 1
	}
	if l.Window <= 0 {
		l.Window = window
	}
	return l
}
