package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventskona-auth/internal/apierror"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

// TokenVerifier validates a raw bearer token.  TokenIssuer.VerifyAccess and
// the admin issuer's Verify both satisfy it.
type TokenVerifier func(raw string) (*utils.Claims, error)

// JWTAuth rejects requests without a valid bearer token with 401 before the
// handler runs.  On success the claims, subject and role are stored in the
// context under "claims", "user_id" and "role".
func JWTAuth(verify TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return apierror.Unauthorized("Authentication required")
			}
			claims, err := verify(raw)
			if errors.Is(err, utils.ErrMissingSecret) {
				return apierror.Config(err)
			}
			if err != nil {
				// expired, malformed and bad signature all look the same to the client
				return apierror.Unauthorized("Invalid or expired token").Wrap(err)
			}
			setIdentity(c, claims)
			return next(c)
		}
	}
}

// OptionalJWTAuth attaches the identity when a valid bearer token is present
// and otherwise lets the request through untouched.
func OptionalJWTAuth(verify TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw, ok := bearerToken(c); ok {
				if claims, err := verify(raw); err == nil {
					setIdentity(c, claims)
				}
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(auth[7:])
	return raw, raw != ""
}

func setIdentity(c echo.Context, claims *utils.Claims) {
	c.Set(ContextClaims, claims)
	c.Set(ContextUserID, claims.Subject)
	c.Set(ContextRole, claims.Role)
}
