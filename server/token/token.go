// Package token issues and validates the bearer tokens that gate the
// formulon evaluation server's endpoints. There is a single operator
// principal (no user accounts); a token simply attests that its holder
// proved knowledge of the configured API key at some point in the last hour.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Subject is the fixed JWT subject used for the single operator principal.
const Subject = "operator"

const issuer = "formulon-server"

// Generate returns a signed JWT attesting that the operator API key was
// presented and verified. secret is the server's signing secret; apiKeyHash
// is mixed into the signing key so that rotating the configured API key
// invalidates every previously issued token.
func Generate(secret []byte, apiKeyHash []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": issuer,
		"sub": Subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	return tok.SignedString(signingKey(secret, apiKeyHash))
}

// Validate checks that tok is a well-formed, unexpired token signed with
// the key derived from secret and apiKeyHash. It returns an error if not.
func Validate(tok string, secret []byte, apiKeyHash []byte) error {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return signingKey(secret, apiKeyHash), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithSubject(Subject), jwt.WithLeeway(time.Minute))
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return fmt.Errorf("token is not valid")
	}
	return nil
}

func signingKey(secret []byte, apiKeyHash []byte) []byte {
	key := make([]byte, 0, len(secret)+len(apiKeyHash))
	key = append(key, secret...)
	key = append(key, apiKeyHash...)
	return key
}
