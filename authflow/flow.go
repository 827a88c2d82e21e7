// Package authflow runs the browser half of an OAuth 2.0 authorization code
// flow with PKCE: it redirects to the provider and validates the callback,
// handing the code and verifier back to the caller without exchanging them.
package authflow

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/jrsteele09/go-pkce-helper/internal/errors"
	"github.com/jrsteele09/go-pkce-helper/pkce"
	"github.com/jrsteele09/go-pkce-helper/sessions"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Settings are the configured defaults for a flow.
type Settings interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetScopeString() string
}

// Overrides are optional per-request values that replace the configured defaults.
type Overrides struct {
	ClientID     string
	ClientSecret string
	Scopes       string
}

// CallbackParams are the query parameters the provider sends to the redirect URI.
type CallbackParams struct {
	State            string
	Code             string
	Error            string
	ErrorDescription string
}

// Result is handed back to the caller so it can perform the token exchange itself.
type Result struct {
	AuthorizationCode string `json:"authorization_code"`
	CodeVerifier      string `json:"code_verifier"`
	RedirectURI       string `json:"redirect_uri"`
	ClientID          string `json:"client_id"`
	ClientSecret      string `json:"client_secret"`
	Scopes            string `json:"scopes"`
}

type Flow struct {
	settings Settings
	endpoint oauth2.Endpoint
	store    sessions.Store
	now      func() time.Time
}

func New(settings Settings, endpoint oauth2.Endpoint, store sessions.Store) *Flow {
	return &Flow{
		settings: settings,
		endpoint: endpoint,
		store:    store,
		now:      time.Now,
	}
}

// Endpoint returns the provider endpoint the flow redirects to.
func (f *Flow) Endpoint() oauth2.Endpoint {
	return f.endpoint
}

// Start generates state and a PKCE pair, stores them under sessionID and
// returns the provider authorization URL the browser should be sent to.
func (f *Flow) Start(ctx context.Context, sessionID string, o Overrides) (string, error) {
	clientID := firstNonEmpty(o.ClientID, f.settings.GetClientID())
	clientSecret := firstNonEmpty(o.ClientSecret, f.settings.GetClientSecret())
	scopes := firstNonEmpty(o.Scopes, f.settings.GetScopeString())

	if clientID == "" {
		return "", fmt.Errorf("%w: SPOTIFY_CLIENT_ID is not configured", ErrConfiguration)
	}

	state := pkce.GenerateState()
	pair := pkce.New()

	err := f.store.Upsert(ctx, sessionID, &sessions.FlowSession{
		State:        state,
		Verifier:     pair.Verifier,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
		CreatedAt:    f.now().UTC(),
	})
	if err != nil {
		return "", apperrors.Wrapf(ErrSessionStore, "[Flow Start] %v", err)
	}

	oauthConfig := oauth2.Config{
		ClientID:    clientID,
		Endpoint:    f.endpoint,
		RedirectURL: f.settings.GetRedirectURI(),
		Scopes:      strings.Fields(scopes),
	}
	authURL := oauthConfig.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge_method", pair.Method),
		oauth2.SetAuthURLParam("code_challenge", pair.Challenge),
	)

	log.Info().Str("client_id", clientID).Str("scopes", scopes).Msg("authorization flow started")
	return authURL, nil
}

// Complete validates the callback against the session. A state mismatch
// leaves the session untouched; a successful callback deletes it so the same
// callback cannot be replayed.
func (f *Flow) Complete(ctx context.Context, sessionID string, p CallbackParams) (*Result, error) {
	stored, err := f.store.Get(ctx, sessionID)
	if err != nil && !apperrors.Is(err, sessions.ErrSessionNotFound) {
		return nil, apperrors.Wrapf(ErrSessionStore, "[Flow Complete] %v", err)
	}

	if p.State == "" || stored == nil || !equal(p.State, stored.State) {
		log.Warn().Bool("session_found", stored != nil).Msg("callback state mismatch")
		return nil, ErrStateMismatch
	}

	if p.Code == "" {
		if p.Error != "" {
			reason := p.Error
			if p.ErrorDescription != "" {
				reason += " - " + p.ErrorDescription
			}
			log.Warn().Str("provider_error", p.Error).Msg("provider returned an error instead of a code")
			return nil, fmt.Errorf("%w: provider returned %s", ErrMissingCode, reason)
		}
		return nil, ErrMissingCode
	}

	if err := f.store.Delete(ctx, sessionID); err != nil {
		return nil, apperrors.Wrapf(ErrSessionStore, "[Flow Complete] %v", err)
	}

	log.Info().Str("client_id", stored.ClientID).Msg("authorization flow completed")
	return &Result{
		AuthorizationCode: p.Code,
		CodeVerifier:      stored.Verifier,
		RedirectURI:       f.settings.GetRedirectURI(),
		ClientID:          stored.ClientID,
		ClientSecret:      stored.ClientSecret,
		Scopes:            stored.Scopes,
	}, nil
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
