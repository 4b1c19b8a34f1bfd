package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/eventskona-auth/internal/apierror"
	"github.com/iliyamo/eventskona-auth/internal/config"
	"github.com/iliyamo/eventskona-auth/internal/middleware"
	"github.com/iliyamo/eventskona-auth/internal/model"
	"github.com/iliyamo/eventskona-auth/internal/queue"
	"github.com/iliyamo/eventskona-auth/internal/repository"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

const (
	requestTimeout  = 5 * time.Second
	resetTokenTTL   = time.Hour
	verifyTokenTTL  = 24 * time.Hour
	genericResetMsg = "If an account with that email exists, a password reset link has been sent"
	genericVerifMsg = "If your account needs verification, a new link has been sent"
)

var (
	errInvalidCredentials = apierror.New(http.StatusUnauthorized, apierror.CodeInvalidCredentials, "Invalid email or password")
	errOAuthAccount       = apierror.New(http.StatusUnauthorized, apierror.CodeOAuthAccount, "This account uses Google sign-in")
	errSuspended          = apierror.New(http.StatusForbidden, apierror.CodeAccountSuspended, "Your account has been suspended")
	errInactive           = apierror.New(http.StatusForbidden, apierror.CodeAccountInactive, "Account is not active")
	errInvalidRefresh     = apierror.New(http.StatusUnauthorized, apierror.CodeInvalidRefresh, "Invalid or expired refresh token")
	errInvalidGoogle      = apierror.New(http.StatusUnauthorized, apierror.CodeInvalidGoogleToken, "Invalid Google token")
	errInvalidToken       = apierror.New(http.StatusBadRequest, apierror.CodeInvalidToken, "Invalid or expired token")
	errEmailExists        = apierror.New(http.StatusConflict, apierror.CodeEmailExists, "An account with this email already exists")
	errSlugExists         = apierror.New(http.StatusConflict, apierror.CodeSlugExists, "An organizer with this name already exists")
)

// AuthHandler bundles dependencies for /api/auth endpoints.
type AuthHandler struct {
	background

	Cfg      config.Config
	Users    UserStore
	Tokens   *utils.TokenIssuer
	Verifier GoogleVerifier
	Events   queue.Publisher
	Logger   *zap.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthHandler(cfg config.Config, users UserStore, tokens *utils.TokenIssuer, g GoogleVerifier, events queue.Publisher, logger *zap.Logger) *AuthHandler {
	if events == nil {
		events = queue.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens, Verifier: g, Events: events, Logger: logger, now: time.Now}
}

// ----- DTOs -----

type registerReq struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type googleReq struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type emailReq struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordReq struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userView struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	Phone               *string    `json:"phone,omitempty"`
	Role                model.Role `json:"role"`
	Status              string     `json:"status"`
	EmailVerified       bool       `json:"emailVerified"`
	AuthProvider        *string    `json:"authProvider,omitempty"`
	AvatarURL           *string    `json:"avatarUrl,omitempty"`
	OrganizerName       *string    `json:"organizerName,omitempty"`
	OrganizerSlug       *string    `json:"organizerSlug,omitempty"`
	OrganizerBio        *string    `json:"organizerBio,omitempty"`
	OnboardingCompleted bool       `json:"onboardingCompleted"`
	HasPassword         bool       `json:"hasPassword"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func toUserView(u *model.User) userView {
	return userView{
		ID:                  u.ID,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		Phone:               u.Phone,
		Role:                u.Role,
		Status:              string(u.Status),
		EmailVerified:       u.EmailVerified,
		AuthProvider:        u.AuthProvider,
		AvatarURL:           u.AvatarURL,
		OrganizerName:       u.OrganizerName,
		OrganizerSlug:       u.OrganizerSlug,
		OrganizerBio:        u.OrganizerBio,
		OnboardingCompleted: u.OnboardingCompleted,
		HasPassword:         u.HasPassword(),
		LastLoginAt:         u.LastLoginAt,
		CreatedAt:           u.CreatedAt,
	}
}

type sessionResp struct {
	User                  userView  `json:"user"`
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

// ----- helpers -----

// issueSession signs a new pair for u and stores the refresh hash, which
// invalidates whatever refresh token u held before.  Only ACTIVE accounts
// get a session.
func (h *AuthHandler) issueSession(ctx context.Context, u *model.User) (sessionResp, error) {
	if err := statusError(u); err != nil {
		return sessionResp{}, err
	}
	pair, err := h.Tokens.IssuePair(utils.TokenPayload{Sub: u.ID, Email: u.Email, Role: string(u.Role)})
	if err != nil {
		if errors.Is(err, utils.ErrMissingSecret) {
			return sessionResp{}, apierror.Config(err)
		}
		return sessionResp{}, apierror.Internal(err)
	}
	hash := utils.HashToken(pair.Refresh.Token)
	if err := h.Users.SetRefreshHash(ctx, u.ID, &hash); err != nil {
		return sessionResp{}, apierror.Internal(err)
	}
	u.RefreshTokenHash = &hash
	return sessionResp{
		User:                  toUserView(u),
		AccessToken:           pair.Access.Token,
		RefreshToken:          pair.Refresh.Token,
		AccessTokenExpiresAt:  pair.Access.Exp,
		RefreshTokenExpiresAt: pair.Refresh.Exp,
	}, nil
}

// currentUser loads the account behind the bearer token.  A token for a
// vanished or deleted account is treated as unauthenticated; a suspended
// account is refused even while its access token is still valid.
func (h *AuthHandler) currentUser(ctx context.Context, c echo.Context) (*model.User, error) {
	u, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.Unauthorized("Account not found")
		}
		return nil, apierror.Internal(err)
	}
	if u.Status == model.StatusDeleted {
		return nil, apierror.Unauthorized("Account not found")
	}
	if err := statusError(u); err != nil {
		return nil, err
	}
	return u, nil
}

func statusError(u *model.User) error {
	switch u.Status {
	case model.StatusActive:
		return nil
	case model.StatusSuspended:
		return errSuspended
	}
	return errInactive
}

// burnPasswordCheck runs one bcrypt compare at the configured cost so that
// login failures without a usable hash take as long as a wrong password.
func (h *AuthHandler) burnPasswordCheck(plain string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = utils.HashPassword("eventskona-no-such-account", h.Cfg.BcryptCost)
	})
	utils.VerifyPassword(h.dummyHash, plain)
}

// publish sends ev after the response; the request outcome never waits on
// or depends on the broker.
func (h *AuthHandler) publish(ctx context.Context, ev queue.AuthEvent) {
	ev.OccurredAt = h.now().UTC()
	h.publishAsync(ctx, h.Events, h.Logger, ev)
}

func weakPassword(check utils.PasswordCheck) error {
	return &apierror.Error{
		Status:  http.StatusBadRequest,
		Code:    apierror.CodeWeakPassword,
		Message: check.Message,
		Fields:  map[string]string{"password": check.Message},
	}
}

func hashesEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// ----- handlers -----

// Register creates an ACTIVE user account and returns a session.  Email
// verification is not enforced at signup, so the account starts verified.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if check := utils.ValidatePasswordStrength(req.Password); !check.Valid {
		return weakPassword(check)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return errEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return apierror.Internal(err)
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return apierror.Internal(err)
	}
	u := &model.User{
		Email:         repository.NormalizeEmail(req.Email),
		PasswordHash:  &hash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          model.RoleUser,
		Status:        model.StatusActive,
		EmailVerified: true,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return errEmailExists
		}
		return apierror.Internal(err)
	}

	sess, err := h.issueSession(ctx, u)
	if err != nil {
		return err
	}
	h.publish(ctx, queue.AuthEvent{Type: queue.EventUserRegistered, UserID: u.ID, Email: u.Email})
	return respond(c, http.StatusCreated, "Registration successful", sess)
}

// Login verifies email and password.  Unknown email, wrong password and
// deleted accounts share one response; suspension is only revealed to a
// caller who knows the password.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.burnPasswordCheck(req.Password)
			return errInvalidCredentials
		}
		return apierror.Internal(err)
	}
	if u.Status == model.StatusDeleted {
		h.burnPasswordCheck(req.Password)
		return errInvalidCredentials
	}
	if !u.HasPassword() {
		h.burnPasswordCheck(req.Password)
		return errOAuthAccount
	}
	if !utils.VerifyPassword(*u.PasswordHash, req.Password) {
		return errInvalidCredentials
	}
	if u.Status == model.StatusSuspended {
		return errSuspended
	}

	now := h.now().UTC()
	if err := h.Users.RecordLogin(ctx, u.ID, now); err != nil {
		return apierror.Internal(err)
	}
	u.LastLoginAt = &now

	sess, err := h.issueSession(ctx, u)
	if err != nil {
		return err
	}
	h.publish(ctx, queue.AuthEvent{Type: queue.EventUserLoggedIn, UserID: u.ID, Email: u.Email})
	return respond(c, http.StatusOK, "Login successful", sess)
}

// Google exchanges a Google access token for a local session, creating the
// account on first use.  An existing password account is linked only when
// Google vouches for the email.
func (h *AuthHandler) Google(c echo.Context) error {
	var req googleReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	profile, err := h.Verifier.Verify(ctx, req.AccessToken)
	if err != nil {
		h.Logger.Info("google token rejected", zap.Error(err))
		return errInvalidGoogle.Wrap(err)
	}
	if !profile.EmailVerified {
		return errInvalidGoogle
	}

	var avatar *string
	if profile.Picture != "" {
		avatar = &profile.Picture
	}

	u, err := h.Users.GetByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		provider := model.AuthProviderGoogle
		sub := profile.Subject
		u = &model.User{
			Email:             repository.NormalizeEmail(profile.Email),
			FirstName:         profile.GivenName,
			LastName:          profile.FamilyName,
			Role:              model.RoleUser,
			Status:            model.StatusActive,
			EmailVerified:     true,
			AuthProvider:      &provider,
			ProviderAccountID: &sub,
			AvatarURL:         avatar,
		}
		if u.FirstName == "" {
			u.FirstName = profile.Name
		}
		if err := h.Users.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrEmailExists) {
				return apierror.New(http.StatusConflict, apierror.CodeEmailExists, "Account was created concurrently, please retry")
			}
			return apierror.Internal(err)
		}
		h.publish(ctx, queue.AuthEvent{Type: queue.EventUserRegistered, UserID: u.ID, Email: u.Email})
	case err != nil:
		return apierror.Internal(err)
	default:
		if u.Status == model.StatusDeleted {
			return errInvalidCredentials
		}
		if u.Status == model.StatusSuspended {
			return errSuspended
		}
		if u.ProviderAccountID != nil && *u.ProviderAccountID != profile.Subject {
			return errInvalidGoogle
		}
		if u.AuthProvider == nil {
			if err := h.Users.LinkGoogle(ctx, u.ID, profile.Subject, avatar); err != nil {
				return apierror.Internal(err)
			}
			provider := model.AuthProviderGoogle
			sub := profile.Subject
			u.AuthProvider, u.ProviderAccountID, u.EmailVerified = &provider, &sub, true
			if u.AvatarURL == nil {
				u.AvatarURL = avatar
			}
		}
	}

	now := h.now().UTC()
	if err := h.Users.RecordLogin(ctx, u.ID, now); err != nil {
		return apierror.Internal(err)
	}
	u.LastLoginAt = &now

	sess, err := h.issueSession(ctx, u)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Login successful", sess)
}

// Refresh rotates the session.  The presented token must be the one whose
// hash is stored; once rotated it can never be replayed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}

	claims, err := h.Tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		if errors.Is(err, utils.ErrMissingSecret) {
			return apierror.Config(err)
		}
		return errInvalidRefresh.Wrap(err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errInvalidRefresh
		}
		return apierror.Internal(err)
	}
	if u.RefreshTokenHash == nil || !hashesEqual(*u.RefreshTokenHash, utils.HashToken(req.RefreshToken)) {
		return errInvalidRefresh
	}
	if !u.IsActive() {
		return errInactive
	}

	sess, err := h.issueSession(ctx, u)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Token refreshed", sess)
}

// Logout drops the stored refresh token.  Access tokens already issued stay
// valid until they expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Users.SetRefreshHash(ctx, middleware.UserID(c), nil); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apierror.Internal(err)
	}
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "", echo.Map{"user": toUserView(u)})
}

// ChangePassword replaces the password after checking the current one and
// hands back a new session; every other session is ended.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}
	if !u.HasPassword() {
		return apierror.New(http.StatusBadRequest, apierror.CodeOAuthAccount, "This account uses Google sign-in and has no password")
	}
	if !utils.VerifyPassword(*u.PasswordHash, req.CurrentPassword) {
		return apierror.New(http.StatusUnauthorized, apierror.CodeInvalidCredentials, "Current password is incorrect")
	}
	if check := utils.ValidatePasswordStrength(req.NewPassword); !check.Valid {
		return weakPassword(check)
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return apierror.Internal(err)
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return apierror.Internal(err)
	}
	u.PasswordHash = &hash

	sess, err := h.issueSession(ctx, u)
	if err != nil {
		return err
	}
	h.publish(ctx, queue.AuthEvent{Type: queue.EventPasswordChanged, UserID: u.ID, Email: u.Email})
	return respond(c, http.StatusOK, "Password changed successfully", sess)
}

// ForgotPassword always answers with the same message.  Only ACTIVE accounts
// with a password receive a reset link.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && u.IsActive() && u.HasPassword():
		// both branches answer after the lookup alone
		h.run(ctx, func(ctx context.Context) {
			if err := h.sendResetLink(ctx, u); err != nil {
				h.Logger.Error("password reset token", zap.String("user_id", u.ID), zap.Error(err))
			}
		})
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		h.Logger.Error("forgot password lookup", zap.Error(err))
	}
	return respond(c, http.StatusOK, genericResetMsg, nil)
}

func (h *AuthHandler) sendResetLink(ctx context.Context, u *model.User) error {
	raw, err := utils.RandomToken()
	if err != nil {
		return err
	}
	if err := h.Users.SetResetToken(ctx, u.ID, utils.HashToken(raw), h.now().Add(resetTokenTTL)); err != nil {
		return err
	}
	h.publish(ctx, queue.AuthEvent{
		Type:   queue.EventPasswordResetRequested,
		UserID: u.ID,
		Email:  u.Email,
		Link:   h.Cfg.BaseURL + "/reset-password?token=" + raw,
	})
	return nil
}

// ResetPassword consumes a reset token, stores the new password and ends
// every existing session.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if check := utils.ValidatePasswordStrength(req.Password); !check.Valid {
		return weakPassword(check)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetByResetHash(ctx, utils.HashToken(req.Token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errInvalidToken
		}
		return apierror.Internal(err)
	}
	if u.PasswordResetExpires == nil || !h.now().Before(*u.PasswordResetExpires) || !u.IsActive() {
		return errInvalidToken
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return apierror.Internal(err)
	}
	if err := h.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return apierror.Internal(err)
	}
	h.publish(ctx, queue.AuthEvent{Type: queue.EventPasswordReset, UserID: u.ID, Email: u.Email})
	return respond(c, http.StatusOK, "Password has been reset, please log in", nil)
}

// ResendVerification issues a new verification link to an unverified ACTIVE
// account.  The response never reveals whether one was sent.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req emailReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && u.IsActive() && !u.EmailVerified:
		h.run(ctx, func(ctx context.Context) {
			if err := h.sendVerificationLink(ctx, u); err != nil {
				h.Logger.Error("verification token", zap.String("user_id", u.ID), zap.Error(err))
			}
		})
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		h.Logger.Error("resend verification lookup", zap.Error(err))
	}
	return respond(c, http.StatusOK, genericVerifMsg, nil)
}

func (h *AuthHandler) sendVerificationLink(ctx context.Context, u *model.User) error {
	raw, err := utils.RandomToken()
	if err != nil {
		return err
	}
	if err := h.Users.SetVerificationToken(ctx, u.ID, utils.HashToken(raw), h.now().Add(verifyTokenTTL)); err != nil {
		return err
	}
	h.publish(ctx, queue.AuthEvent{
		Type:   queue.EventVerificationRequested,
		UserID: u.ID,
		Email:  u.Email,
		Link:   h.Cfg.BaseURL + "/api/auth/verify-email/" + raw,
	})
	return nil
}

// VerifyEmail is opened from an email link, so it always redirects to the
// login page with the outcome in the query string.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	loginURL := h.Cfg.BaseURL + "/login"
	redirect := func(query string) error {
		return c.Redirect(http.StatusFound, loginURL+"?"+query)
	}

	token := c.Param("token")
	if token == "" {
		return redirect("error=invalid_token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetByVerificationHash(ctx, utils.HashToken(token))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			h.Logger.Error("verify email lookup", zap.Error(err))
		}
		return redirect("error=invalid_token")
	}
	if u.VerificationExpires == nil || !h.now().Before(*u.VerificationExpires) {
		return redirect("error=expired_token")
	}
	if err := h.Users.MarkVerified(ctx, u.ID); err != nil {
		h.Logger.Error("mark email verified", zap.String("user_id", u.ID), zap.Error(err))
		return redirect("error=invalid_token")
	}
	h.publish(ctx, queue.AuthEvent{Type: queue.EventEmailVerified, UserID: u.ID, Email: u.Email})
	return redirect("verified=true")
}

// DeleteAccount anonymizes the caller's account and ends its sessions.
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}
	if err := h.Users.SoftDelete(ctx, u.ID); err != nil {
		return apierror.Internal(err)
	}
	h.publish(ctx, queue.AuthEvent{Type: queue.EventAccountDeleted, UserID: u.ID, Actor: "self"})
	return respond(c, http.StatusOK, "Account deleted", nil)
}
