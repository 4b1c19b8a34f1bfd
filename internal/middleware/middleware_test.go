package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/eventskona-auth/internal/apierror"
	"github.com/iliyamo/eventskona-auth/internal/config"
	"github.com/iliyamo/eventskona-auth/internal/ratelimit"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop(), false)
	return e
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apierror.Envelope {
	t.Helper()
	var env apierror.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func whoami(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"id": UserID(c), "role": Role(c)})
}

func TestJWTAuth(t *testing.T) {
	issuer := utils.NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	pair, err := issuer.IssuePair(utils.TokenPayload{Sub: "u-1", Email: "a@example.com", Role: "USER"})
	require.NoError(t, err)

	e := newTestEcho()
	e.GET("/me", whoami, JWTAuth(issuer.VerifyAccess))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"refresh token as access", "Bearer " + pair.Refresh.Token, http.StatusUnauthorized},
		{"valid access token", "Bearer " + pair.Access.Token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusUnauthorized {
				env := decodeEnvelope(t, rec)
				assert.False(t, env.Success)
				assert.Equal(t, apierror.CodeUnauthorized, env.Error.Code)
			} else {
				assert.Contains(t, rec.Body.String(), `"id":"u-1"`)
			}
		})
	}
}

func TestJWTAuthMissingSecretIsConfigError(t *testing.T) {
	issuer := utils.NewTokenIssuer("", "", time.Minute, time.Hour)
	e := newTestEcho()
	e.GET("/me", whoami, JWTAuth(issuer.VerifyAccess))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer a.b.c")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apierror.CodeConfig, decodeEnvelope(t, rec).Error.Code)
}

func TestOptionalJWTAuthNeverRejects(t *testing.T) {
	issuer := utils.NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	e := newTestEcho()
	e.GET("/maybe", whoami, OptionalJWTAuth(issuer.VerifyAccess))

	req := httptest.NewRequest(http.MethodGet, "/maybe", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer broken")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":""`)
}

func TestRequireRole(t *testing.T) {
	issuer := utils.NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	user, err := issuer.GenerateAccessToken(utils.TokenPayload{Sub: "u-1", Role: "USER"})
	require.NoError(t, err)
	org, err := issuer.GenerateAccessToken(utils.TokenPayload{Sub: "u-2", Role: "ORGANIZER"})
	require.NoError(t, err)

	e := newTestEcho()
	e.GET("/events/new", whoami, JWTAuth(issuer.VerifyAccess), RequireRole("ORGANIZER", "ADMIN"))

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/events/new", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := do(user.Token)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, apierror.CodeForbidden, decodeEnvelope(t, rec).Error.Code)
	assert.Equal(t, http.StatusOK, do(org.Token).Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	store := ratelimit.NewMemoryStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })
	l := ratelimit.New(store, nil)
	cfg := config.RateLimitConfig{Enabled: true, KeyStrategy: "ip_route"}

	e := newTestEcho()
	e.POST("/login", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		RateLimit(l, cfg, "auth", ratelimit.Options{Window: 15 * time.Minute, Max: 5}))
	e.POST("/register", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		RateLimit(l, cfg, "auth", ratelimit.Options{Window: 15 * time.Minute, Max: 5}))

	hit := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 5; i++ {
		rec := hit("/login", "10.0.0.1")
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	}
	rec := hit("/login", "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "900", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, apierror.CodeRateLimited, decodeEnvelope(t, rec).Error.Code)

	// other IPs and other routes keep their own windows
	assert.Equal(t, http.StatusNoContent, hit("/login", "10.0.0.2").Code)
	assert.Equal(t, http.StatusNoContent, hit("/register", "10.0.0.1").Code)
}

func TestRateLimitDisabled(t *testing.T) {
	e := newTestEcho()
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
		RateLimit(nil, config.RateLimitConfig{Enabled: false}, "general", ratelimit.General))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestErrorHandlerEnvelope(t *testing.T) {
	e := newTestEcho()
	e.GET("/validation", func(c echo.Context) error {
		return apierror.Validation("Validation failed", map[string]string{"email": "must be a valid email"})
	})
	e.GET("/boom", func(c echo.Context) error { return errors.New("db is on fire") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/validation", nil))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, apierror.CodeValidation, env.Error.Code)
	assert.Equal(t, "must be a valid email", env.Error.Fields["email"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.Equal(t, apierror.CodeInternal, env.Error.Code)
	assert.NotContains(t, rec.Body.String(), "fire")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierror.CodeNotFound, decodeEnvelope(t, rec).Error.Code)
}

func TestErrorHandlerDebugDetail(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(zap.NewNop(), true)
	e.GET("/boom", func(c echo.Context) error { return errors.New("db is on fire") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, "db is on fire", decodeEnvelope(t, rec).Error.Detail)
}

func TestCachePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
}

func TestCacheKeyUsesRouteParams(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "ek:cache"}

	key := func(slug string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/organizers/"+slug+"?utm=x", nil), httptest.NewRecorder())
		c.SetPath("/api/organizers/:slug")
		c.SetParamNames("slug")
		c.SetParamValues(slug)
		return cacheKeyFrom(cfg, c)
	}
	assert.Equal(t, key("lagos-live"), key("lagos-live"))
	assert.NotEqual(t, key("lagos-live"), key("abuja-nights"))
	assert.True(t, strings.HasPrefix(key("lagos-live"), "ek:cache:"))
}
