package pocketbase

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token is an admin credential returned by an auth endpoint.
type Token struct {
	Value string
	// ExpiresAt is zero when the token carries no readable expiry.
	ExpiresAt time.Time
}

// ParseToken wraps a raw token. Backend tokens are JWTs; the expiry is read
// from the unverified claims because the signing key is server-side. Opaque
// tokens are accepted with an unknown expiry.
func ParseToken(raw string) Token {
	t := Token{Value: raw}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return t
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t.ExpiresAt = exp.Time
	}
	return t
}

// Expired reports whether the token is past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}
