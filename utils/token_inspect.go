package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// CheckCredentialExpiry inspects a secret that may be a JWT (some DDI
// gateways issue signed bearer tokens instead of opaque API keys) and
// reports an error if the token is parseable and already expired. Opaque
// secrets pass through unchanged: a value that does not parse as a JWT is
// not an error here, it is simply not inspectable.
//
// Signatures are intentionally not verified; this is a local pre-flight
// check to fail fast before spending a network call on a credential the
// upstream is guaranteed to reject.
func CheckCredentialExpiry(secret string) error {
	raw := strings.TrimPrefix(secret, "Bearer ")
	if strings.Count(raw, ".") != 2 {
		return nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}

	// required=false: a token without an exp claim passes.
	if !claims.VerifyExpiresAt(time.Now().Unix(), false) {
		return fmt.Errorf("credential token is expired")
	}
	return nil
}
