package sessions

import (
	"context"
	"time"
)

// FlowSession stores the PKCE flow state between /login and /callback.
// It is written once when the flow starts and deleted once the callback
// succeeds.
type FlowSession struct {
	State        string    `json:"state"`         // CSRF guard round-tripped through the provider
	Verifier     string    `json:"verifier"`      // PKCE code verifier
	ClientID     string    `json:"client_id"`     // Effective client id for this flow
	ClientSecret string    `json:"client_secret"` // Optional, echoed back to the caller
	Scopes       string    `json:"scopes"`        // Space separated scopes requested
	CreatedAt    time.Time `json:"created_at"`
}

// Store is keyed by the opaque session id carried in the session cookie.
// Get must return ErrSessionNotFound once a session was deleted or expired.
type Store interface {
	// Upsert creates or replaces the flow session for sessionID
	Upsert(ctx context.Context, sessionID string, session *FlowSession) error

	// Get retrieves the flow session for sessionID
	Get(ctx context.Context, sessionID string) (*FlowSession, error)

	// Delete removes the flow session, deleting a missing session is not an error
	Delete(ctx context.Context, sessionID string) error
}

func (s *FlowSession) clone() *FlowSession {
	c := *s
	return &c
}
