package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/eventskona-auth/internal/admin"
	"github.com/iliyamo/eventskona-auth/internal/apierror"
	"github.com/iliyamo/eventskona-auth/internal/middleware"
	"github.com/iliyamo/eventskona-auth/internal/model"
	"github.com/iliyamo/eventskona-auth/internal/queue"
	"github.com/iliyamo/eventskona-auth/internal/repository"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

// AdminHandler serves the dashboard login and user moderation.
type AdminHandler struct {
	background

	Creds  *admin.CredentialStore
	Tokens *admin.Issuer
	Users  UserStore
	Events queue.Publisher
	Logger *zap.Logger
}

func NewAdminHandler(creds *admin.CredentialStore, tokens *admin.Issuer, users UserStore, events queue.Publisher, logger *zap.Logger) *AdminHandler {
	if events == nil {
		events = queue.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{Creds: creds, Tokens: tokens, Users: users, Events: events, Logger: logger}
}

type adminView struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Login authenticates against the admin table and returns an admin token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	a, ok := h.Creds.Authenticate(req.Email, req.Password)
	if !ok {
		h.Logger.Warn("admin login failed", zap.String("email", req.Email), zap.String("ip", c.RealIP()))
		return errInvalidCredentials
	}
	tok, err := h.Tokens.Issue(a)
	if err != nil {
		if errors.Is(err, utils.ErrMissingSecret) {
			return apierror.Config(err)
		}
		return apierror.Internal(err)
	}
	return respond(c, http.StatusOK, "Login successful", echo.Map{
		"admin":       adminView{Email: a.Email, Name: a.Name, Role: a.Role},
		"accessToken": tok.Token,
		"expiresAt":   tok.Exp,
	})
}

// Me returns the admin behind the token.
func (h *AdminHandler) Me(c echo.Context) error {
	a, ok := h.Creds.Lookup(middleware.UserID(c))
	if !ok {
		// removed from ADMIN_USERS since the token was issued
		return apierror.Unauthorized("Admin not found")
	}
	return respond(c, http.StatusOK, "", echo.Map{"admin": adminView{Email: a.Email, Name: a.Name, Role: a.Role}})
}

// Suspend blocks login and refresh for a user and ends their session.
func (h *AdminHandler) Suspend(c echo.Context) error {
	return h.moderate(c, func(ctx context.Context, id string) error {
		return h.Users.SetStatus(ctx, id, model.StatusSuspended)
	}, queue.EventAccountSuspended, "User suspended")
}

// Reactivate returns a suspended user to ACTIVE.
func (h *AdminHandler) Reactivate(c echo.Context) error {
	return h.moderate(c, func(ctx context.Context, id string) error {
		return h.Users.SetStatus(ctx, id, model.StatusActive)
	}, queue.EventAccountReactivated, "User reactivated")
}

// Delete soft deletes a user.
func (h *AdminHandler) Delete(c echo.Context) error {
	return h.moderate(c, h.Users.SoftDelete, queue.EventAccountDeleted, "User deleted")
}

func (h *AdminHandler) moderate(c echo.Context, apply func(context.Context, string) error, event, message string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	id := c.Param("id")
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.NotFound("User not found")
		}
		return apierror.Internal(err)
	}
	if u.Status == model.StatusDeleted {
		return apierror.NotFound("User not found")
	}
	if err := apply(ctx, u.ID); err != nil {
		return apierror.Internal(err)
	}

	actor := middleware.UserID(c)
	h.Logger.Info("user moderated", zap.String("action", event), zap.String("user_id", u.ID), zap.String("admin", actor))
	h.publishAsync(ctx, h.Events, h.Logger, queue.AuthEvent{Type: event, UserID: u.ID, Actor: actor, OccurredAt: time.Now().UTC()})

	updated, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return apierror.Internal(err)
	}
	return respond(c, http.StatusOK, message, echo.Map{"user": toUserView(updated)})
}
