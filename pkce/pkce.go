// Package pkce generates the Proof Key for Code Exchange values (RFC 7636)
// and the state token used to correlate an authorization round trip.
package pkce

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/oauth2"
)

const (
	// ChallengeMethodS256 is the only challenge method this helper sends.
	ChallengeMethodS256 = "S256"

	// 64 bytes encode to 86 base64url characters, inside the 43-128 range.
	verifierBytes = 64
	stateBytes    = 16
)

// Pair is a verifier and the challenge derived from it.
type Pair struct {
	Verifier  string
	Challenge string
	Method    string
}

// New returns a fresh verifier with its S256 challenge.
func New() Pair {
	verifier := GenerateVerifier()
	return Pair{
		Verifier:  verifier,
		Challenge: GenerateChallenge(verifier),
		Method:    ChallengeMethodS256,
	}
}

// GenerateVerifier returns a random URL-safe, unpadded code verifier.
func GenerateVerifier() string {
	return randomString(verifierBytes)
}

// GenerateChallenge returns base64url_nopad(sha256(verifier)).
func GenerateChallenge(verifier string) string {
	return oauth2.S256ChallengeFromVerifier(verifier)
}

// GenerateState returns a random URL-safe state token.
func GenerateState() string {
	return randomString(stateBytes)
}

func randomString(length int) string {
	b := make([]byte, length)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
