// Package jwt signs and verifies the session cookie that correlates /login
// with /callback. The cookie only carries the opaque session id; the flow
// values stay in the session store.
package jwt

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const (
	sessionTokenType = "pkce-session"
	keyInfo          = "pkce-helper session cookie v1"
	keyLength        = 32
)

var ErrInvalidSessionToken = errors.New("invalid session token")

type sessionClaims struct {
	Type string `json:"typ"`
	jwtlib.RegisteredClaims
}

// SessionSigner issues HS256 session tokens with a key derived from the app secret
type SessionSigner struct {
	key []byte
	ttl time.Duration
}

// NewSessionSigner derives the signing key from secret with HKDF-SHA256.
// An empty secret yields a random key, so issued cookies die with the process.
func NewSessionSigner(secret string, ttl time.Duration) (*SessionSigner, error) {
	ikm := []byte(secret)
	if secret == "" {
		ikm = make([]byte, keyLength)
		if _, err := rand.Read(ikm); err != nil {
			return nil, fmt.Errorf("[NewSessionSigner] generate key: %w", err)
		}
	}

	key := make([]byte, keyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, []byte(keyInfo)), key); err != nil {
		return nil, fmt.Errorf("[NewSessionSigner] derive key: %w", err)
	}

	return &SessionSigner{key: key, ttl: ttl}, nil
}

// NewSessionID returns a fresh opaque session id
func NewSessionID() string {
	return uuid.New().String()
}

// TTL is the lifetime of issued tokens
func (s *SessionSigner) TTL() time.Duration {
	return s.ttl
}

// Sign returns a token binding sessionID until the signer TTL elapses
func (s *SessionSigner) Sign(sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("sessionID is required")
	}

	now := NowTimeFunc()
	claims := sessionClaims{
		Type: sessionTokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   sessionID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("[SessionSigner Sign] %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and type and returns the session id
func (s *SessionSigner) Verify(tokenString string) (string, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwtlib.Token) (interface{}, error) {
		return s.key, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSessionToken, err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidSessionToken
	}
	if claims.Type != sessionTokenType || claims.Subject == "" {
		return "", fmt.Errorf("%w: unexpected claims", ErrInvalidSessionToken)
	}
	return claims.Subject, nil
}
