package utils

import (
	"crypto/rand"   // secure random number generation
	"crypto/sha256" // SHA-256 hashing for stored tokens
	"encoding/hex"
	"regexp"
	"strings"
)

// randomTokenBytes yields 64 hex characters, far beyond guessable within the
// 1h reset / 24h verification windows.
const randomTokenBytes = 32

// RandomToken returns an opaque single-use token for password reset and email
// verification links.
func RandomToken() (string, error) {
	return randomHex(randomTokenBytes)
}

// HashToken returns the SHA-256 hex digest of raw.  Only digests are stored so
// a leaked row cannot be replayed.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug: lowercase, every run of non-alphanumerics
// collapsed to one dash, no leading or trailing dash.
func Slugify(name string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
