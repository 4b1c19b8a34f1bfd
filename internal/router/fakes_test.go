package router

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/eventskona-auth/internal/model"
	"github.com/iliyamo/eventskona-auth/internal/oauth/google"
	"github.com/iliyamo/eventskona-auth/internal/queue"
	"github.com/iliyamo/eventskona-auth/internal/repository"
)

// memUsers mirrors repository.UserRepo semantics in memory.
type memUsers struct {
	mu   sync.Mutex
	seq  int
	rows map[string]*model.User
}

func newMemUsers() *memUsers { return &memUsers{rows: map[string]*model.User{}} }

func clone(u *model.User) *model.User {
	cp := *u
	return &cp
}

func (m *memUsers) find(match func(*model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.rows {
		if match(u) {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) update(id string, apply func(*model.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	apply(u)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, r := range m.rows {
		if r.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	m.seq++
	u.ID = fmt.Sprintf("user-%d", m.seq)
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	m.rows[u.ID] = clone(u)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.ID == id })
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	email = repository.NormalizeEmail(email)
	return m.find(func(u *model.User) bool { return u.Email == email })
}

func (m *memUsers) GetBySlug(_ context.Context, slug string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.OrganizerSlug != nil && *u.OrganizerSlug == slug })
}

func (m *memUsers) GetByResetHash(_ context.Context, hash string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.PasswordResetHash != nil && *u.PasswordResetHash == hash })
}

func (m *memUsers) GetByVerificationHash(_ context.Context, hash string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.VerificationHash != nil && *u.VerificationHash == hash })
}

func (m *memUsers) SetRefreshHash(_ context.Context, id string, hash *string) error {
	return m.update(id, func(u *model.User) { u.RefreshTokenHash = hash })
}

func (m *memUsers) RecordLogin(_ context.Context, id string, at time.Time) error {
	return m.update(id, func(u *model.User) { u.LastLoginAt = &at })
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	return m.update(id, func(u *model.User) {
		u.PasswordHash = &hash
		u.PasswordResetHash, u.PasswordResetExpires, u.RefreshTokenHash = nil, nil, nil
	})
}

func (m *memUsers) SetResetToken(_ context.Context, id, hash string, expires time.Time) error {
	return m.update(id, func(u *model.User) { u.PasswordResetHash, u.PasswordResetExpires = &hash, &expires })
}

func (m *memUsers) SetVerificationToken(_ context.Context, id, hash string, expires time.Time) error {
	return m.update(id, func(u *model.User) { u.VerificationHash, u.VerificationExpires = &hash, &expires })
}

func (m *memUsers) MarkVerified(_ context.Context, id string) error {
	return m.update(id, func(u *model.User) {
		u.EmailVerified = true
		u.VerificationHash, u.VerificationExpires = nil, nil
	})
}

func (m *memUsers) LinkGoogle(_ context.Context, id, providerAccountID string, avatarURL *string) error {
	return m.update(id, func(u *model.User) {
		provider := model.AuthProviderGoogle
		u.AuthProvider, u.ProviderAccountID, u.EmailVerified = &provider, &providerAccountID, true
		if u.AvatarURL == nil {
			u.AvatarURL = avatarURL
		}
	})
}

func (m *memUsers) UpdateProfile(ctx context.Context, id string, p model.ProfileUpdate) error {
	if p.OrganizerSlug != nil {
		if taken, _ := m.SlugTaken(ctx, *p.OrganizerSlug, id); taken {
			return repository.ErrSlugExists
		}
	}
	return m.update(id, func(u *model.User) {
		if p.FirstName != nil {
			u.FirstName = *p.FirstName
		}
		if p.LastName != nil {
			u.LastName = *p.LastName
		}
		if p.Phone != nil {
			u.Phone = p.Phone
		}
		if p.Role != nil {
			u.Role = *p.Role
		}
		if p.OrganizerName != nil {
			u.OrganizerName = p.OrganizerName
		}
		if p.OrganizerSlug != nil {
			u.OrganizerSlug = p.OrganizerSlug
		}
		if p.OrganizerBio != nil {
			u.OrganizerBio = p.OrganizerBio
		}
		if p.OnboardingCompleted != nil {
			u.OnboardingCompleted = *p.OnboardingCompleted
		}
	})
}

func (m *memUsers) SlugTaken(_ context.Context, slug, excludeID string) (bool, error) {
	_, err := m.find(func(u *model.User) bool {
		return u.ID != excludeID && u.OrganizerSlug != nil && *u.OrganizerSlug == slug
	})
	return err == nil, nil
}

func (m *memUsers) SetStatus(_ context.Context, id string, status model.Status) error {
	return m.update(id, func(u *model.User) {
		u.Status = status
		if status != model.StatusActive {
			u.RefreshTokenHash = nil
		}
	})
}

func (m *memUsers) SoftDelete(_ context.Context, id string) error {
	return m.update(id, func(u *model.User) {
		u.Status = model.StatusDeleted
		u.Email = repository.DeletedEmail(id)
		u.PasswordHash, u.RefreshTokenHash, u.OrganizerSlug = nil, nil, nil
	})
}

// fakeGoogle maps access tokens to profiles.
type fakeGoogle map[string]*google.Profile

func (f fakeGoogle) Verify(_ context.Context, token string) (*google.Profile, error) {
	if p, ok := f[token]; ok {
		return p, nil
	}
	return nil, google.ErrInvalidToken
}

// recorder keeps published events so tests can follow emailed links.
type recorder struct {
	mu     sync.Mutex
	events []queue.AuthEvent
}

func (r *recorder) Publish(_ context.Context, ev queue.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) last(typ string) (queue.AuthEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == typ {
			return r.events[i], true
		}
	}
	return queue.AuthEvent{}, false
}

// linkToken returns the trailing token of an emailed link.
func linkToken(link string) string {
	if i := strings.LastIndex(link, "token="); i >= 0 {
		return link[i+len("token="):]
	}
	return link[strings.LastIndex(link, "/")+1:]
}
