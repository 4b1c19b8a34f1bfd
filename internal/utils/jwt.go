package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
	"github.com/google/uuid"
)

// Token kinds stored in the "typ" claim.  An access token never verifies as a
// refresh token even if both secrets were accidentally configured equal.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeAdmin   = "admin"
)

// Default lifetimes.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Verification failures.  Callers answer all of them with the same 401; the
// distinction exists for logs.
var (
	ErrMissingSecret  = errors.New("token signing secret is not configured")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature mismatch")
	ErrTokenInvalid   = errors.New("token invalid")
)

// TokenPayload is the identity embedded into both tokens of a pair.
type TokenPayload struct {
	Sub   string
	Email string
	Role  string
}

// Claims is the decoded form of an EventsKona token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// Payload returns the identity part of the claims.
func (c *Claims) Payload() TokenPayload {
	return TokenPayload{Sub: c.Subject, Email: c.Email, Role: c.Role}
}

// SignedToken is a serialized JWT along with its expiry.
type SignedToken struct {
	Token string
	Exp   time.Time
}

// TokenPair is what login, register, refresh and onboarding hand back.
type TokenPair struct {
	Access  SignedToken
	Refresh SignedToken
}

// TokenIssuer signs and verifies access and refresh tokens with separate
// secrets.
type TokenIssuer struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenIssuer builds an issuer, falling back to the default lifetimes when
// a TTL is not positive.
func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenIssuer{
		AccessSecret:  accessSecret,
		RefreshSecret: refreshSecret,
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssuePair signs a fresh access/refresh pair for the payload.
func (i *TokenIssuer) IssuePair(p TokenPayload) (TokenPair, error) {
	access, err := i.GenerateAccessToken(p)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := i.GenerateRefreshToken(p)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// GenerateAccessToken signs a short-lived access token.
func (i *TokenIssuer) GenerateAccessToken(p TokenPayload) (SignedToken, error) {
	return SignToken(i.AccessSecret, p, TokenTypeAccess, i.AccessTTL, i.clock())
}

// GenerateRefreshToken signs a long-lived refresh token.
func (i *TokenIssuer) GenerateRefreshToken(p TokenPayload) (SignedToken, error) {
	return SignToken(i.RefreshSecret, p, TokenTypeRefresh, i.RefreshTTL, i.clock())
}

// VerifyAccess checks signature, expiry and kind of an access token.
func (i *TokenIssuer) VerifyAccess(raw string) (*Claims, error) {
	return ParseToken(i.AccessSecret, raw, TokenTypeAccess)
}

// VerifyRefresh checks signature, expiry and kind of a refresh token.
func (i *TokenIssuer) VerifyRefresh(raw string) (*Claims, error) {
	return ParseToken(i.RefreshSecret, raw, TokenTypeRefresh)
}

func (i *TokenIssuer) clock() time.Time {
	if i.now == nil {
		return time.Now()
	}
	return i.now()
}

// SignToken builds and signs an HS256 JWT.  Every token gets a random jti so
// two tokens minted for the same user in the same second still differ.
func SignToken(secret string, p TokenPayload, typ string, ttl time.Duration, now time.Time) (SignedToken, error) {
	if secret == "" {
		return SignedToken{}, ErrMissingSecret
	}
	now = now.UTC()
	exp := now.Add(ttl)
	claims := Claims{
		Email: p.Email,
		Role:  p.Role,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.Sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies raw against secret and the expected kind, mapping
// library errors onto the package's error kinds.
func ParseToken(secret, raw, typ string) (*Claims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if raw == "" {
		return nil, ErrTokenMalformed
	}
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !tok.Valid || claims.Type != typ || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
