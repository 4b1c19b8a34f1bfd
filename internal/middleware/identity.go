package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventskona-auth/internal/utils"
)

// Context keys populated by JWTAuth.
const (
	ContextClaims = "claims"
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Claims returns the verified token claims, or nil when the request is
// anonymous.
func Claims(c echo.Context) *utils.Claims {
	cl, _ := c.Get(ContextClaims).(*utils.Claims)
	return cl
}

// UserID returns the authenticated subject, or "" for anonymous requests.
func UserID(c echo.Context) string {
	s, _ := c.Get(ContextUserID).(string)
	return s
}

// Role returns the role claim, or "" for anonymous requests.
func Role(c echo.Context) string {
	s, _ := c.Get(ContextRole).(string)
	return s
}

// userIDOr is used by key builders that need a stable placeholder.
func userIDOr(c echo.Context, fallback string) string {
	if id := UserID(c); id != "" {
		return id
	}
	return fallback
}
