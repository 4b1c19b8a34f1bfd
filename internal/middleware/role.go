package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventskona-auth/internal/apierror"
)

// RequireRole enforces that the authenticated user has one of roles.  It
// must run after JWTAuth; a missing role is treated as not allowed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserID(c) == "" {
				return apierror.Unauthorized("")
			}
			if !allowed[Role(c)] {
				return apierror.Forbidden("")
			}
			return next(c)
		}
	}
}
