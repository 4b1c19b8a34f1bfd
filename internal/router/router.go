package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/eventskona-auth/internal/admin"
	"github.com/iliyamo/eventskona-auth/internal/config"
	"github.com/iliyamo/eventskona-auth/internal/handler"
	"github.com/iliyamo/eventskona-auth/internal/middleware"
	"github.com/iliyamo/eventskona-auth/internal/ratelimit"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

// Deps is everything the route table needs.  Redis and Limiter may be nil;
// caching and rate limiting are then skipped.
type Deps struct {
	Cfg         config.Config
	RateLimit   config.RateLimitConfig
	Cache       config.CacheConfig
	Logger      *zap.Logger
	Limiter     *ratelimit.Limiter
	Redis       *redis.Client
	Tokens      *utils.TokenIssuer
	AdminTokens *admin.Issuer

	Auth       *handler.AuthHandler
	Admin      *handler.AdminHandler
	Organizers *handler.OrganizerHandler
	Health     *handler.HealthHandler
}

// New builds the echo instance with the error handler, validator, the
// outer middleware chain and every route.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(d.Logger, d.Cfg.Debug)

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("1M"))

	RegisterRoutes(e, d.Health)

	api := e.Group("/api", middleware.RateLimit(d.Limiter, d.RateLimit, "general", ratelimit.FromConfig(d.RateLimit.General)))
	RegisterAuth(api, d)
	RegisterPublic(api, d)
	RegisterAdmin(api, d)
	return e
}

// RegisterRoutes registers routes outside /api.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	if h == nil {
		h = &handler.HealthHandler{}
	}
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers /api/auth.  Every credential-accepting POST gets the
// strict auth limit on top of the general one.
func RegisterAuth(api *echo.Group, d Deps) {
	a := d.Auth
	strict := middleware.RateLimit(d.Limiter, d.RateLimit, "auth", ratelimit.FromConfig(d.RateLimit.Auth))
	bearer := middleware.JWTAuth(d.Tokens.VerifyAccess)

	g := api.Group("/auth")
	g.POST("/register", a.Register, strict)
	g.POST("/login", a.Login, strict)
	g.POST("/google", a.Google, strict)
	g.POST("/refresh", a.Refresh, strict)
	g.POST("/forgot-password", a.ForgotPassword, strict)
	g.POST("/reset-password", a.ResetPassword, strict)
	g.POST("/resend-verification", a.ResendVerification, strict)
	g.GET("/verify-email/:token", a.VerifyEmail)

	g.POST("/logout", a.Logout, bearer)
	g.GET("/me", a.Me, bearer)
	g.POST("/change-password", a.ChangePassword, bearer, strict)
	g.PATCH("/onboarding", a.Onboarding, bearer)
	g.DELETE("/account", a.DeleteAccount, bearer)
}

// RegisterPublic registers unauthenticated browse endpoints.
func RegisterPublic(api *echo.Group, d Deps) {
	api.GET("/organizers/:slug", d.Organizers.Get, middleware.NewRedisCache(d.Cache, d.Redis, d.Logger))
}

// RegisterAdmin registers the dashboard routes.  Admin tokens are checked
// against ADMIN_JWT_SECRET, never the user secret.
func RegisterAdmin(api *echo.Group, d Deps) {
	h := d.Admin
	strict := middleware.RateLimit(d.Limiter, d.RateLimit, "admin-auth", ratelimit.FromConfig(d.RateLimit.Auth))
	adminAuth := middleware.JWTAuth(d.AdminTokens.Verify)
	anyAdmin := middleware.RequireRole(admin.RoleSuperAdmin, admin.RoleModerator)

	api.POST("/admin/auth/login", h.Login, strict)
	api.GET("/admin/auth/me", h.Me, adminAuth, anyAdmin)

	users := api.Group("/admin/users", adminAuth)
	users.POST("/:id/suspend", h.Suspend, anyAdmin)
	users.POST("/:id/reactivate", h.Reactivate, anyAdmin)
	users.DELETE("/:id", h.Delete, middleware.RequireRole(admin.RoleSuperAdmin))
}
