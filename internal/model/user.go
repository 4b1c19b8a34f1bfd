package model

import "time"

// Role is the authorization level embedded in every access token.
type Role string

const (
	RoleUser      Role = "USER"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// Status is the lifecycle state of an account.  Only ACTIVE accounts may
// log in or refresh; DELETED rows are kept but anonymized.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusDeleted   Status = "DELETED"
)

// AuthProviderGoogle is the only external identity provider linked today.
const AuthProviderGoogle = "google"

// User represents a row in the `users` table.
//
// Fields worth calling out:
//
//	PasswordHash:      bcrypt hash; nil for OAuth-only accounts.
//	AuthProvider:      "google" once an external identity is linked.
//	RefreshTokenHash:  SHA-256 of the single current refresh token; nil after logout/reset.
//	PasswordResetHash: SHA-256 of the outstanding reset token, paired with PasswordResetExpires.
//	VerificationHash:  SHA-256 of the outstanding email verification token.
//	OrganizerSlug:     unique URL slug, set on first organizer upgrade.
type User struct {
	ID                   string
	Email                string
	PasswordHash         *string
	FirstName            string
	LastName             string
	Phone                *string
	Role                 Role
	Status               Status
	EmailVerified        bool
	AuthProvider         *string
	ProviderAccountID    *string
	AvatarURL            *string
	RefreshTokenHash     *string
	PasswordResetHash    *string
	PasswordResetExpires *time.Time
	VerificationHash     *string
	VerificationExpires  *time.Time
	OrganizerName        *string
	OrganizerSlug        *string
	OrganizerBio         *string
	OnboardingCompleted  bool
	LastLoginAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasPassword reports whether the account can use the password login path.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// IsActive reports whether the account may hold a session.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// ProfileUpdate carries a partial onboarding/profile change.  Nil fields are
// left untouched.
type ProfileUpdate struct {
	FirstName           *string
	LastName            *string
	Phone               *string
	Role                *Role
	OrganizerName       *string
	OrganizerSlug       *string
	OrganizerBio        *string
	OnboardingCompleted *bool
}

// OrganizerProfile is the public projection of an organizer account.
type OrganizerProfile struct {
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Since     time.Time `json:"since"`
}
