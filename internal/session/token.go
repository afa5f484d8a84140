package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether tok is a JWT whose exp claim is before now.
// The signature is not checked: the server remains the authority, this only
// avoids restoring a session the server will certainly reject. Tokens that
// are not JWTs are treated as opaque and never expire client-side.
func tokenExpired(tok string, now time.Time) bool {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
