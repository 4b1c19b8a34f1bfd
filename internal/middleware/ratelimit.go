package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventskona-auth/internal/apierror"
	"github.com/iliyamo/eventskona-auth/internal/config"
	"github.com/iliyamo/eventskona-auth/internal/ratelimit"
)

// RateLimit counts requests per key in fixed windows.  name separates the
// counters of different presets sharing one store.  Every response carries
// X-RateLimit-Limit and X-RateLimit-Remaining; exceeding the limit returns
// 429 with Retry-After.
func RateLimit(l *ratelimit.Limiter, cfg config.RateLimitConfig, name string, opts ratelimit.Options) echo.MiddlewareFunc {
	if !cfg.Enabled || l == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, name, c)
			res := l.Check(c.Request().Context(), key, opts)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}

			if !res.Allowed {
				h.Set("Retry-After", strconv.Itoa(res.RetryAfter))
				return apierror.New(http.StatusTooManyRequests, apierror.CodeRateLimited,
					"Too many requests, please try again later")
			}
			return next(c)
		}
	}
}

func buildRateKey(cfg config.RateLimitConfig, name string, c echo.Context) string {
	parts := []string{name}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	uid := userIDOr(c, "anon")
	route := c.Request().Method + " " + c.Path()

	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "route":
		parts = append(parts, "route", route)
	case "ip_user":
		parts = append(parts, "ip", ip, "user", uid)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
