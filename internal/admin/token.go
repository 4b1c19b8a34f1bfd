package admin

import (
	"time"

	"github.com/iliyamo/eventskona-auth/internal/model"
	"github.com/iliyamo/eventskona-auth/internal/utils"
)

// DefaultTTL is the lifetime of a dashboard session.
const DefaultTTL = 8 * time.Hour

// Issuer signs admin tokens with ADMIN_JWT_SECRET.
type Issuer struct {
	Secret string
	TTL    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{Secret: secret, TTL: ttl, now: time.Now}
}

// Issue signs a token whose subject is the admin's email.
func (i *Issuer) Issue(a model.AdminUser) (utils.SignedToken, error) {
	return utils.SignToken(i.Secret, utils.TokenPayload{Sub: a.Email, Email: a.Email, Role: a.Role},
		utils.TokenTypeAdmin, i.TTL, i.now())
}

// Verify checks signature, expiry and the admin token kind.
func (i *Issuer) Verify(raw string) (*utils.Claims, error) {
	return utils.ParseToken(i.Secret, raw, utils.TokenTypeAdmin)
}
