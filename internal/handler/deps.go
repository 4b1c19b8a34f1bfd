package handler

import (
	"context"
	"time"

	"github.com/iliyamo/eventskona-auth/internal/model"
	"github.com/iliyamo/eventskona-auth/internal/oauth/google"
)

// UserStore is the persistence the auth handlers need.  *repository.UserRepo
// implements it against MySQL.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetBySlug(ctx context.Context, slug string) (*model.User, error)
	GetByResetHash(ctx context.Context, hash string) (*model.User, error)
	GetByVerificationHash(ctx context.Context, hash string) (*model.User, error)
	SetRefreshHash(ctx context.Context, id string, hash *string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string) error
	SetResetToken(ctx context.Context, id, hash string, expires time.Time) error
	SetVerificationToken(ctx context.Context, id, hash string, expires time.Time) error
	MarkVerified(ctx context.Context, id string) error
	LinkGoogle(ctx context.Context, id, providerAccountID string, avatarURL *string) error
	UpdateProfile(ctx context.Context, id string, p model.ProfileUpdate) error
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	SetStatus(ctx context.Context, id string, status model.Status) error
	SoftDelete(ctx context.Context, id string) error
}

// GoogleVerifier resolves a Google access token into a profile.
type GoogleVerifier interface {
	Verify(ctx context.Context, accessToken string) (*google.Profile, error)
}
