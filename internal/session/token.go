package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether a stored backend token is already past its
// exp claim. The backend issues JWTs; parsing them unverified here lets
// bootstrap skip a profile round-trip that is certain to 401. Tokens that do
// not parse as JWTs, or carry no exp, are not judged locally — the backend
// stays the authority.
func tokenExpired(token string, now time.Time) bool {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
