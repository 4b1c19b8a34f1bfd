package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		valid bool
	}{
		{"too short", "short", false},
		{"no upper", "abcdef1!", false},
		{"no lower", "ABCDEF1!", false},
		{"no digit", "Abcdefg!", false},
		{"no special", "Abcdefg1", false},
		{"strong", "Abcdef1!", true},
		{"72 bytes", "Aa1!" + strings.Repeat("x", 68), true},
		{"73 bytes", "Aa1!" + strings.Repeat("x", 69), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidatePasswordStrength(tc.in)
			assert.Equal(t, tc.valid, res.Valid)
			if tc.valid {
				assert.Empty(t, res.Message)
			} else {
				assert.NotEmpty(t, res.Message)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Abcdef1!", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1!", hash)

	assert.True(t, VerifyPassword(hash, "Abcdef1!"))
	assert.False(t, VerifyPassword(hash, "Abcdef1?"))
	assert.False(t, VerifyPassword("", "Abcdef1!"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "Abcdef1!"))

	// every password that passes the strength check can be hashed
	longest := "Aa1!" + strings.Repeat("x", MaxPasswordBytes-4)
	require.True(t, ValidatePasswordStrength(longest).Valid)
	_, err = HashPassword(longest, bcrypt.MinCost)
	require.NoError(t, err)
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	iss := NewTokenIssuer("access-secret", "refresh-secret", 0, 0)
	p := TokenPayload{Sub: "u-1", Email: "a@example.com", Role: "USER"}

	pair, err := iss.IssuePair(p)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultAccessTTL), pair.Access.Exp, 5*time.Second)
	assert.WithinDuration(t, time.Now().Add(DefaultRefreshTTL), pair.Refresh.Exp, 5*time.Second)

	claims, err := iss.VerifyAccess(pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, p, claims.Payload())

	claims, err = iss.VerifyRefresh(pair.Refresh.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestTokenIssuerKeySeparation(t *testing.T) {
	iss := NewTokenIssuer("access-secret", "refresh-secret", 0, 0)
	pair, err := iss.IssuePair(TokenPayload{Sub: "u-1", Role: "USER"})
	require.NoError(t, err)

	_, err = iss.VerifyAccess(pair.Refresh.Token)
	assert.ErrorIs(t, err, ErrTokenSignature)
	_, err = iss.VerifyRefresh(pair.Access.Token)
	assert.ErrorIs(t, err, ErrTokenSignature)

	same := NewTokenIssuer("shared", "shared", 0, 0)
	pair, err = same.IssuePair(TokenPayload{Sub: "u-1", Role: "USER"})
	require.NoError(t, err)
	_, err = same.VerifyAccess(pair.Refresh.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenIssuerErrorKinds(t *testing.T) {
	iss := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, err := iss.IssuePair(TokenPayload{Sub: "u-1"})
	require.NoError(t, err)

	_, err = iss.VerifyAccess(pair.Access.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = iss.VerifyAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)
	_, err = iss.VerifyAccess("")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = NewTokenIssuer("", "x", 0, 0).IssuePair(TokenPayload{Sub: "u-1"})
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestTokensAreUniquePerIssue(t *testing.T) {
	iss := NewTokenIssuer("a", "r", 0, 0)
	p := TokenPayload{Sub: "u-1", Role: "USER"}
	first, err := iss.GenerateRefreshToken(p)
	require.NoError(t, err)
	second, err := iss.GenerateRefreshToken(p)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)
}

func TestRandomTokenAndHash(t *testing.T) {
	a, err := RandomToken()
	require.NoError(t, err)
	b, err := RandomToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Equal(t, HashToken(a), HashToken(a))
	assert.NotEqual(t, HashToken(a), HashToken(b))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "my-cool-event-2025", Slugify("My Cool Event!! 2025"))
	assert.Equal(t, "acme-events", Slugify("  --Acme   Events--  "))
	assert.Equal(t, "", Slugify("!!!"))
}
