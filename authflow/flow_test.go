package authflow_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/jrsteele09/go-pkce-helper/authflow"
	"github.com/jrsteele09/go-pkce-helper/pkce"
	"github.com/jrsteele09/go-pkce-helper/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	testSessionID    = "session-1"
	testClientID     = "test-client-1"
	testClientSecret = "test-secret-1"
	testRedirectURI  = "https://localhost:8888/callback"
	testScopes       = "user-read-email playlist-read-private"
	testAuthURL      = "https://accounts.example.com/authorize"
)

type testSettings struct {
	clientID     string
	clientSecret string
	scopes       string
}

func (s testSettings) GetClientID() string     { return s.clientID }
func (s testSettings) GetClientSecret() string { return s.clientSecret }
func (s testSettings) GetRedirectURI() string  { return testRedirectURI }
func (s testSettings) GetScopeString() string  { return s.scopes }

// failingStore fails every operation
type failingStore struct{}

func (failingStore) Upsert(context.Context, string, *sessions.FlowSession) error {
	return errors.New("store down")
}
func (failingStore) Get(context.Context, string) (*sessions.FlowSession, error) {
	return nil, errors.New("store down")
}
func (failingStore) Delete(context.Context, string) error { return errors.New("store down") }

type testFixture struct {
	store *sessions.InMemoryStore
	flow  *authflow.Flow
}

func setupTestFixture(t *testing.T, settings testSettings) *testFixture {
	t.Helper()

	store := sessions.NewInMemoryStore(10 * time.Minute)
	return &testFixture{
		store: store,
		flow:  authflow.New(settings, oauth2.Endpoint{AuthURL: testAuthURL}, store),
	}
}

func configured() testSettings {
	return testSettings{clientID: testClientID, clientSecret: testClientSecret, scopes: testScopes}
}

// start runs Start and returns the parsed query of the authorization URL
func (f *testFixture) start(t *testing.T, o authflow.Overrides) url.Values {
	t.Helper()

	authURL, err := f.flow.Start(context.Background(), testSessionID, o)
	require.NoError(t, err)

	u, err := url.Parse(authURL)
	require.NoError(t, err)
	require.Equal(t, "accounts.example.com", u.Host)
	require.Equal(t, "/authorize", u.Path)
	return u.Query()
}

func (f *testFixture) stored(t *testing.T) *sessions.FlowSession {
	t.Helper()

	s, err := f.store.Get(context.Background(), testSessionID)
	require.NoError(t, err)
	return s
}

func TestFlow_Start(t *testing.T) {
	t.Run("redirect carries every authorization parameter", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		q := f.start(t, authflow.Overrides{})
		s := f.stored(t)

		require.Equal(t, "code", q.Get("response_type"))
		require.Equal(t, testClientID, q.Get("client_id"))
		require.Equal(t, testScopes, q.Get("scope"))
		require.Equal(t, testRedirectURI, q.Get("redirect_uri"))
		require.Equal(t, s.State, q.Get("state"))
		require.Equal(t, "S256", q.Get("code_challenge_method"))
		require.Equal(t, pkce.GenerateChallenge(s.Verifier), q.Get("code_challenge"))
	})

	t.Run("session stores flow values", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		f.start(t, authflow.Overrides{})
		s := f.stored(t)

		require.NotEmpty(t, s.State)
		require.GreaterOrEqual(t, len(s.Verifier), 43)
		require.Equal(t, testClientID, s.ClientID)
		require.Equal(t, testClientSecret, s.ClientSecret)
		require.Equal(t, testScopes, s.Scopes)
	})

	t.Run("scopes are query encoded", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		authURL, err := f.flow.Start(context.Background(), testSessionID, authflow.Overrides{Scopes: "a b&c=d"})
		require.NoError(t, err)
		require.NotContains(t, authURL, "a b&c=d")

		u, err := url.Parse(authURL)
		require.NoError(t, err)
		require.Equal(t, "a b&c=d", u.Query().Get("scope"))
	})

	t.Run("overrides replace configured values", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		q := f.start(t, authflow.Overrides{
			ClientID:     "  override-client ",
			ClientSecret: "override-secret",
			Scopes:       "streaming",
		})
		s := f.stored(t)

		require.Equal(t, "override-client", q.Get("client_id"))
		require.Equal(t, "streaming", q.Get("scope"))
		require.Equal(t, "override-client", s.ClientID)
		require.Equal(t, "override-secret", s.ClientSecret)
	})

	t.Run("blank overrides fall back to configuration", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		q := f.start(t, authflow.Overrides{ClientID: "   "})
		require.Equal(t, testClientID, q.Get("client_id"))
	})

	t.Run("client id from request only", func(t *testing.T) {
		f := setupTestFixture(t, testSettings{scopes: testScopes})
		q := f.start(t, authflow.Overrides{ClientID: "form-client"})
		require.Equal(t, "form-client", q.Get("client_id"))
	})

	t.Run("no client id anywhere", func(t *testing.T) {
		f := setupTestFixture(t, testSettings{scopes: testScopes})
		_, err := f.flow.Start(context.Background(), testSessionID, authflow.Overrides{})
		require.ErrorIs(t, err, authflow.ErrConfiguration)
		require.Contains(t, err.Error(), "SPOTIFY_CLIENT_ID")
		require.Equal(t, 0, f.store.Len())
	})

	t.Run("every flow gets a fresh pair", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		first := f.start(t, authflow.Overrides{})
		second := f.start(t, authflow.Overrides{})
		require.NotEqual(t, first.Get("state"), second.Get("state"))
		require.NotEqual(t, first.Get("code_challenge"), second.Get("code_challenge"))
	})

	t.Run("store failure", func(t *testing.T) {
		flow := authflow.New(configured(), oauth2.Endpoint{AuthURL: testAuthURL}, failingStore{})
		_, err := flow.Start(context.Background(), testSessionID, authflow.Overrides{})
		require.ErrorIs(t, err, authflow.ErrSessionStore)
	})
}

func TestFlow_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns code and verifier", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		q := f.start(t, authflow.Overrides{})
		verifier := f.stored(t).Verifier

		result, err := f.flow.Complete(ctx, testSessionID, authflow.CallbackParams{State: q.Get("state"), Code: "ABC123"})
		require.NoError(t, err)
		require.Equal(t, "ABC123", result.AuthorizationCode)
		require.Equal(t, verifier, result.CodeVerifier)
		require.Equal(t, q.Get("code_challenge"), pkce.GenerateChallenge(result.CodeVerifier))
		require.Equal(t, testRedirectURI, result.RedirectURI)
		require.Equal(t, testClientID, result.ClientID)
		require.Equal(t, testClientSecret, result.ClientSecret)
		require.Equal(t, testScopes, result.Scopes)
	})

	t.Run("replay fails after success", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		q := f.start(t, authflow.Overrides{})
		params := authflow.CallbackParams{State: q.Get("state"), Code: "ABC123"}

		_, err := f.flow.Complete(ctx, testSessionID, params)
		require.NoError(t, err)

		_, err = f.flow.Complete(ctx, testSessionID, params)
		require.ErrorIs(t, err, authflow.ErrStateMismatch)
		require.Equal(t, 0, f.store.Len())
	})

	t.Run("mismatched state leaves session untouched", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		q := f.start(t, authflow.Overrides{})
		before := f.stored(t)

		_, err := f.flow.Complete(ctx, testSessionID, authflow.CallbackParams{State: "wrong", Code: "ABC"})
		require.ErrorIs(t, err, authflow.ErrStateMismatch)
		require.Equal(t, before, f.stored(t))

		// The untouched session still completes with the right state
		result, err := f.flow.Complete(ctx, testSessionID, authflow.CallbackParams{State: q.Get("state"), Code: "ABC"})
		require.NoError(t, err)
		require.Equal(t, before.Verifier, result.CodeVerifier)
	})

	t.Run("missing state", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		f.start(t, authflow.Overrides{})

		_, err := f.flow.Complete(ctx, testSessionID, authflow.CallbackParams{Code: "ABC"})
		require.ErrorIs(t, err, authflow.ErrStateMismatch)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := setupTestFixture(t, configured())

		_, err := f.flow.Complete(ctx, "never-started", authflow.CallbackParams{State: "x", Code: "ABC"})
		require.ErrorIs(t, err, authflow.ErrStateMismatch)
	})

	t.Run("state is checked before code", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		f.start(t, authflow.Overrides{})

		_, err := f.flow.Complete(ctx, testSessionID, authflow.CallbackParams{State: "wrong"})
		require.ErrorIs(t, err, authflow.ErrStateMismatch)
	})

	t.Run("missing code keeps session", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		q := f.start(t, authflow.Overrides{})

		_, err := f.flow.Complete(ctx, testSessionID, authflow.CallbackParams{State: q.Get("state")})
		require.ErrorIs(t, err, authflow.ErrMissingCode)
		require.Equal(t, 1, f.store.Len())
	})

	t.Run("provider error is reported", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		q := f.start(t, authflow.Overrides{})

		_, err := f.flow.Complete(ctx, testSessionID, authflow.CallbackParams{
			State:            q.Get("state"),
			Error:            "access_denied",
			ErrorDescription: "user denied consent",
		})
		require.ErrorIs(t, err, authflow.ErrMissingCode)
		require.Contains(t, err.Error(), "access_denied - user denied consent")
	})

	t.Run("sessions do not interfere", func(t *testing.T) {
		f := setupTestFixture(t, configured())
		urlA, err := f.flow.Start(ctx, "a", authflow.Overrides{})
		require.NoError(t, err)
		urlB, err := f.flow.Start(ctx, "b", authflow.Overrides{})
		require.NoError(t, err)

		stateA := mustQuery(t, urlA).Get("state")
		stateB := mustQuery(t, urlB).Get("state")

		_, err = f.flow.Complete(ctx, "a", authflow.CallbackParams{State: stateB, Code: "X"})
		require.ErrorIs(t, err, authflow.ErrStateMismatch)

		_, err = f.flow.Complete(ctx, "a", authflow.CallbackParams{State: stateA, Code: "X"})
		require.NoError(t, err)
		_, err = f.flow.Complete(ctx, "b", authflow.CallbackParams{State: stateB, Code: "Y"})
		require.NoError(t, err)
	})

	t.Run("store failure", func(t *testing.T) {
		flow := authflow.New(configured(), oauth2.Endpoint{AuthURL: testAuthURL}, failingStore{})
		_, err := flow.Complete(ctx, testSessionID, authflow.CallbackParams{State: "x", Code: "y"})
		require.ErrorIs(t, err, authflow.ErrSessionStore)
	})
}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u.Query()
}
