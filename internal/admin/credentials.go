// Package admin holds the dashboard's credential table and token issuer.
// Admins are not rows in the users table and their tokens are signed with
// a secret of their own, so an admin token never passes user auth and the
// reverse.
package admin

import (
	"fmt"
	"strings"

	"github.com/iliyamo/eventskona-auth/internal/model"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

// Admin roles.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleModerator  = "MODERATOR"
)

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt round.
const dummyHash = "$2a$12$C6UzMDM.H6dfI/f/IKcEeO5sFQ6rdZ3nWq0tY0qY0rZ0x0rF0sJ9e"

// CredentialStore is an immutable, in-memory admin table.
type CredentialStore struct {
	byEmail map[string]model.AdminUser
}

// NewCredentialStore indexes admins by lowercase email.
func NewCredentialStore(admins ...model.AdminUser) *CredentialStore {
	s := &CredentialStore{byEmail: make(map[string]model.AdminUser, len(admins))}
	for _, a := range admins {
		a.Email = strings.ToLower(strings.TrimSpace(a.Email))
		if a.Role == "" {
			a.Role = RoleSuperAdmin
		}
		if a.Name == "" {
			a.Name = a.Email
			if at := strings.IndexByte(a.Email, '@'); at > 0 {
				a.Name = a.Email[:at]
			}
		}
		s.byEmail[a.Email] = a
	}
	return s
}

// ParseCredentials reads the ADMIN_USERS format: comma separated
// "email:bcrypt-hash[:role]" entries.
func ParseCredentials(raw string) (*CredentialStore, error) {
	var admins []model.AdminUser
	for i, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("ADMIN_USERS entry %d: want email:hash[:role]", i+1)
		}
		a := model.AdminUser{Email: parts[0], PasswordHash: parts[1]}
		if len(parts) == 3 {
			role := strings.ToUpper(strings.TrimSpace(parts[2]))
			if role != RoleSuperAdmin && role != RoleModerator {
				return nil, fmt.Errorf("ADMIN_USERS entry %d: unknown role %q", i+1, parts[2])
			}
			a.Role = role
		}
		admins = append(admins, a)
	}
	return NewCredentialStore(admins...), nil
}

// Len reports the number of configured admins.
func (s *CredentialStore) Len() int { return len(s.byEmail) }

// Lookup returns the admin with email.
func (s *CredentialStore) Lookup(email string) (model.AdminUser, bool) {
	a, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	return a, ok
}

// Authenticate checks email and password.  Unknown email and wrong password
// are indistinguishable to the caller.
func (s *CredentialStore) Authenticate(email, password string) (model.AdminUser, bool) {
	a, ok := s.Lookup(email)
	if !ok {
		utils.VerifyPassword(dummyHash, password)
		return model.AdminUser{}, false
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return model.AdminUser{}, false
	}
	return a, true
}
