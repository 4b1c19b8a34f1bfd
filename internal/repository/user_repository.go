package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/eventskona-auth/internal/model"
)

const userColumns = `id,email,password_hash,first_name,last_name,phone,role,status,email_verified,
	auth_provider,provider_account_id,avatar_url,refresh_token_hash,password_reset_hash,password_reset_expires,
	verification_hash,verification_expires,organizer_name,organizer_slug,organizer_bio,onboarding_completed,
	last_login_at,created_at,updated_at`

// UserRepo persists accounts in the `users` table.  Every write touches a
// single row.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NormalizeEmail lowercases and trims an address before lookups and inserts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u, assigning an ID when empty.  CreatedAt and UpdatedAt
// are filled from the clock.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = NormalizeEmail(u.Email)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id,email,password_hash,first_name,last_name,phone,role,status,email_verified,
			auth_provider,provider_account_id,avatar_url,organizer_name,organizer_slug,organizer_bio,
			onboarding_completed,created_at,updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, string(u.Role), string(u.Status),
		u.EmailVerified, u.AuthProvider, u.ProviderAccountID, u.AvatarURL, u.OrganizerName, u.OrganizerSlug,
		u.OrganizerBio, u.OnboardingCompleted, now, now)
	if err != nil {
		return duplicateKey(err)
	}
	return nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "id=?", id)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "email=?", NormalizeEmail(email))
}

// GetBySlug fetches an organizer by public slug.
func (r *UserRepo) GetBySlug(ctx context.Context, slug string) (*model.User, error) {
	return r.getOne(ctx, "organizer_slug=?", slug)
}

// GetByResetHash fetches the account owning an outstanding reset token.
// Expiry is checked by the caller.
func (r *UserRepo) GetByResetHash(ctx context.Context, hash string) (*model.User, error) {
	return r.getOne(ctx, "password_reset_hash=?", hash)
}

// GetByVerificationHash fetches the account owning a verification token.
func (r *UserRepo) GetByVerificationHash(ctx context.Context, hash string) (*model.User, error) {
	return r.getOne(ctx, "verification_hash=?", hash)
}

// SetRefreshHash stores the hash of the current refresh token, replacing
// any previous one.  A nil hash ends every session of the user.
func (r *UserRepo) SetRefreshHash(ctx context.Context, id string, hash *string) error {
	return r.exec(ctx, "UPDATE users SET refresh_token_hash=? WHERE id=?", hash, id)
}

// RecordLogin stamps last_login_at.
func (r *UserRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx, "UPDATE users SET last_login_at=? WHERE id=?", at.UTC(), id)
}

// UpdatePassword stores a new bcrypt hash and drops any outstanding reset
// token together with the stored refresh token.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash=?, password_reset_hash=NULL, password_reset_expires=NULL,
			refresh_token_hash=NULL WHERE id=?`, hash, id)
}

// SetResetToken stores the hash of a password reset token.
func (r *UserRepo) SetResetToken(ctx context.Context, id, hash string, expires time.Time) error {
	return r.exec(ctx, "UPDATE users SET password_reset_hash=?, password_reset_expires=? WHERE id=?",
		hash, expires.UTC(), id)
}

// SetVerificationToken stores the hash of an email verification token.
func (r *UserRepo) SetVerificationToken(ctx context.Context, id, hash string, expires time.Time) error {
	return r.exec(ctx, "UPDATE users SET verification_hash=?, verification_expires=? WHERE id=?",
		hash, expires.UTC(), id)
}

// MarkVerified flags the email as verified and consumes the token.
func (r *UserRepo) MarkVerified(ctx context.Context, id string) error {
	return r.exec(ctx,
		"UPDATE users SET email_verified=1, verification_hash=NULL, verification_expires=NULL WHERE id=?", id)
}

// LinkGoogle attaches a Google identity to an existing account.  The avatar
// is only filled when the account has none.
func (r *UserRepo) LinkGoogle(ctx context.Context, id, providerAccountID string, avatarURL *string) error {
	return r.exec(ctx,
		`UPDATE users SET auth_provider=?, provider_account_id=?, email_verified=1,
			avatar_url=COALESCE(avatar_url, ?) WHERE id=?`,
		model.AuthProviderGoogle, providerAccountID, avatarURL, id)
}

// UpdateProfile applies the non-nil fields of p.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p model.ProfileUpdate) error {
	var (
		sets []string
		args []interface{}
	)
	add := func(col string, v interface{}) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if p.FirstName != nil {
		add("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		add("last_name", *p.LastName)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.Role != nil {
		add("role", string(*p.Role))
	}
	if p.OrganizerName != nil {
		add("organizer_name", *p.OrganizerName)
	}
	if p.OrganizerSlug != nil {
		add("organizer_slug", *p.OrganizerSlug)
	}
	if p.OrganizerBio != nil {
		add("organizer_bio", *p.OrganizerBio)
	}
	if p.OnboardingCompleted != nil {
		add("onboarding_completed", *p.OnboardingCompleted)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return duplicateKey(err)
	}
	return nil
}

// SlugTaken reports whether an account other than excludeID owns slug.
func (r *UserRepo) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE organizer_slug=? AND id<>?", slug, excludeID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetStatus changes the account status.  Leaving ACTIVE also ends the
// current session.
func (r *UserRepo) SetStatus(ctx context.Context, id string, status model.Status) error {
	if status == model.StatusActive {
		return r.exec(ctx, "UPDATE users SET status=? WHERE id=?", string(status), id)
	}
	return r.exec(ctx, "UPDATE users SET status=?, refresh_token_hash=NULL WHERE id=?", string(status), id)
}

// SoftDelete anonymizes personal data, marks the row DELETED and clears
// every token.  The row itself is kept for referential integrity.
func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	return r.exec(ctx,
		`UPDATE users SET status='DELETED', email=?, password_hash=NULL, first_name='Deleted', last_name='User',
			phone=NULL, avatar_url=NULL, auth_provider=NULL, provider_account_id=NULL, refresh_token_hash=NULL,
			password_reset_hash=NULL, password_reset_expires=NULL, verification_hash=NULL,
			verification_expires=NULL, organizer_name=NULL, organizer_slug=NULL, organizer_bio=NULL
		 WHERE id=?`, DeletedEmail(id), id)
}

// DeletedEmail is the placeholder address written over a deleted account so
// the original email can register again.
func DeletedEmail(id string) string {
	return fmt.Sprintf("deleted-%s@deleted.eventskona.invalid", id)
}

func (r *UserRepo) exec(ctx context.Context, query string, args ...interface{}) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	// database.Open enables clientFoundRows, so 0 means no matching row
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	var (
		u      model.User
		role   string
		status string
	)
	err := r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Phone, &role, &status, &u.EmailVerified,
		&u.AuthProvider, &u.ProviderAccountID, &u.AvatarURL, &u.RefreshTokenHash, &u.PasswordResetHash,
		&u.PasswordResetExpires, &u.VerificationHash, &u.VerificationExpires, &u.OrganizerName,
		&u.OrganizerSlug, &u.OrganizerBio, &u.OnboardingCompleted, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Role = model.Role(role)
	u.Status = model.Status(status)
	return &u, nil
}
