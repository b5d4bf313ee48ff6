package credential

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// Credential is the Google grant held for one client-supplied user id.
type Credential struct {
	UserId       string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Store holds at most one credential per user id, last write wins.
// Implementations perform no expiry based eviction.
type Store interface {
	Put(ctx context.Context, userId string, credential Credential) error
	// Get reports found=false when the user has no credential.
	Get(ctx context.Context, userId string) (credential Credential, found bool, err error)
	// Delete is a no-op for unknown users.
	Delete(ctx context.Context, userId string) error
	Has(ctx context.Context, userId string) (bool, error)
}

func FromToken(userId string, token *oauth2.Token) Credential {
	return Credential{
		UserId:       userId,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		Expiry:       token.Expiry,
	}
}

func (c Credential) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       c.Expiry,
	}
}

// Rotated reports whether token differs from the stored grant, in which case
// the caller must write it back. A refresh response without a refresh token
// keeps the previous one.
func (c Credential) Rotated(token *oauth2.Token) (Credential, bool) {
	if token == nil || token.AccessToken == "" {
		return c, false
	}
	updated := c
	updated.AccessToken = token.AccessToken
	updated.Expiry = token.Expiry
	if token.RefreshToken != "" {
		updated.RefreshToken = token.RefreshToken
	}
	changed := updated.AccessToken != c.AccessToken ||
		updated.RefreshToken != c.RefreshToken ||
		!updated.Expiry.Equal(c.Expiry)
	return updated, changed
}
