package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventskona-auth/internal/apierror"
	"github.com/iliyamo/eventskona-auth/internal/model"
	"github.com/iliyamo/eventskona-auth/internal/repository"
)

// OrganizerHandler serves public organizer profiles.
type OrganizerHandler struct {
	Users UserStore
}

func NewOrganizerHandler(users UserStore) *OrganizerHandler {
	return &OrganizerHandler{Users: users}
}

// Get returns the public profile for :slug.  Suspended and deleted
// organizers are reported as not found.
func (h *OrganizerHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Users.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.NotFound("Organizer not found")
		}
		return apierror.Internal(err)
	}
	if u.Role != model.RoleOrganizer || !u.IsActive() || u.OrganizerSlug == nil {
		return apierror.NotFound("Organizer not found")
	}

	p := model.OrganizerProfile{Slug: *u.OrganizerSlug, Since: u.CreatedAt}
	if u.OrganizerName != nil {
		p.Name = *u.OrganizerName
	}
	if u.OrganizerBio != nil {
		p.Bio = *u.OrganizerBio
	}
	if u.AvatarURL != nil {
		p.AvatarURL = *u.AvatarURL
	}
	return respond(c, http.StatusOK, "", echo.Map{"organizer": p})
}
