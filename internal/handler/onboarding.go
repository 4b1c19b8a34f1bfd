package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventskona-auth/internal/apierror"
	"github.com/iliyamo/eventskona-auth/internal/model"
	"github.com/iliyamo/eventskona-auth/internal/queue"
	"github.com/iliyamo/eventskona-auth/internal/repository"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

type onboardingReq struct {
	FirstName       *string `json:"firstName" validate:"omitempty,max=100"`
	LastName        *string `json:"lastName" validate:"omitempty,max=100"`
	Phone           *string `json:"phone" validate:"omitempty,max=32"`
	OrganizerName   *string `json:"organizerName" validate:"omitempty,max=255"`
	OrganizerBio    *string `json:"organizerBio" validate:"omitempty,max=2000"`
	BecomeOrganizer bool    `json:"becomeOrganizer"`
}

type onboardingResp struct {
	User                  userView   `json:"user"`
	AccessToken           string     `json:"accessToken,omitempty"`
	RefreshToken          string     `json:"refreshToken,omitempty"`
	AccessTokenExpiresAt  *time.Time `json:"accessTokenExpiresAt,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"refreshTokenExpiresAt,omitempty"`
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	return &s
}

// Onboarding merges a partial profile update.  The first upgrade to
// ORGANIZER derives the public slug from the organizer name; when the role
// changes a new session is returned so the token's role matches the account.
func (h *AuthHandler) Onboarding(c echo.Context) error {
	var req onboardingReq
	if err := bind(c, &req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.currentUser(ctx, c)
	if err != nil {
		return err
	}

	done := true
	upd := model.ProfileUpdate{
		FirstName:           trimmed(req.FirstName),
		LastName:            trimmed(req.LastName),
		Phone:               trimmed(req.Phone),
		OrganizerName:       trimmed(req.OrganizerName),
		OrganizerBio:        trimmed(req.OrganizerBio),
		OnboardingCompleted: &done,
	}

	upgrading := req.BecomeOrganizer && u.Role == model.RoleUser
	if upgrading {
		name := ""
		if upd.OrganizerName != nil {
			name = *upd.OrganizerName
		} else if u.OrganizerName != nil {
			name = *u.OrganizerName
		}
		slug := utils.Slugify(name)
		if slug == "" {
			return apierror.Validation("Validation failed", map[string]string{
				"organizerName": "is required to become an organizer",
			})
		}
		taken, err := h.Users.SlugTaken(ctx, slug, u.ID)
		if err != nil {
			return apierror.Internal(err)
		}
		if taken {
			return errSlugExists
		}
		role := model.RoleOrganizer
		upd.Role = &role
		upd.OrganizerSlug = &slug
		if upd.OrganizerName == nil {
			upd.OrganizerName = &name
		}
	}

	if err := h.Users.UpdateProfile(ctx, u.ID, upd); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return errSlugExists
		}
		return apierror.Internal(err)
	}

	updated, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return apierror.Internal(err)
	}

	resp := onboardingResp{User: toUserView(updated)}
	if updated.Role != u.Role {
		sess, err := h.issueSession(ctx, updated)
		if err != nil {
			return err
		}
		resp.User = sess.User
		resp.AccessToken, resp.RefreshToken = sess.AccessToken, sess.RefreshToken
		resp.AccessTokenExpiresAt, resp.RefreshTokenExpiresAt = &sess.AccessTokenExpiresAt, &sess.RefreshTokenExpiresAt
	}
	if upgrading {
		h.publish(ctx, queue.AuthEvent{Type: queue.EventOrganizerOnboarded, UserID: u.ID, Email: u.Email})
	}
	return respond(c, http.StatusOK, "Profile updated", resp)
}
