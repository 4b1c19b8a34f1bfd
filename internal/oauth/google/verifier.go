// Package google resolves a Google OAuth access token into the profile of
// the account that granted it.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// DefaultUserInfoURL is Google's OpenID Connect userinfo endpoint.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// ErrInvalidToken is returned when Google rejects the access token.
var ErrInvalidToken = errors.New("google rejected access token")

// Profile is the subset of userinfo claims the auth flow consumes.
type Profile struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Verifier calls the userinfo endpoint with the caller's access token.
type Verifier struct {
	UserInfoURL string
	// Base is the transport client; http.DefaultClient when nil.
	Base *http.Client
}

func NewVerifier(userInfoURL string) *Verifier {
	if userInfoURL == "" {
		userInfoURL = DefaultUserInfoURL
	}
	return &Verifier{UserInfoURL: userInfoURL}
}

// Verify returns the profile behind accessToken.  Non-2xx answers from Google
// map to ErrInvalidToken; transport failures are returned wrapped.
func (v *Verifier) Verify(ctx context.Context, accessToken string) (*Profile, error) {
	if accessToken == "" {
		return nil, ErrInvalidToken
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if v.Base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, v.Base)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrInvalidToken
	}
	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("google userinfo decode: %w", err)
	}
	if p.Subject == "" || p.Email == "" {
		return nil, ErrInvalidToken
	}
	return &p, nil
}
