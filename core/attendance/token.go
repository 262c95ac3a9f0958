package attendance

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"time"
)

const tokenBytes = 32

var (
	nowFunc  = time.Now // mockable
	randRead = rand.Read
)

// generateToken returns a fresh unguessable session token: 32 bytes from
// the platform's secure random source, base64url encoded. Tokens must
// never be derived from the clock.
func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := randRead(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// tokensEqual compares a presented token against the stored session token.
func tokensEqual(presented, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(stored)) == 1
}
