package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/go-pkce-helper/provider"
	"github.com/stretchr/testify/require"
)

type settings struct {
	issuer   string
	authURL  string
	tokenURL string
}

func (s settings) GetOIDCIssuer() string { return s.issuer }
func (s settings) GetAuthURL() string    { return s.authURL }
func (s settings) GetTokenURL() string   { return s.tokenURL }

func newDiscoveryServer(t *testing.T) *httptest.Server {
	t.Helper()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 srv.URL,
			"authorization_endpoint": srv.URL + "/authorize",
			"token_endpoint":         srv.URL + "/token",
			"jwks_uri":               srv.URL + "/jwks",
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestResolve_DefaultsToSpotify(t *testing.T) {
	ep, err := provider.Resolve(context.Background(), settings{})
	require.NoError(t, err)
	require.Equal(t, provider.SourceSpotify, ep.Source)
	require.Equal(t, "https://accounts.spotify.com/authorize", ep.AuthURL)
	require.Equal(t, "https://accounts.spotify.com/api/token", ep.TokenURL)
}

func TestResolve_Explicit(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		ep, err := provider.Resolve(context.Background(), settings{
			authURL:  "https://idp.example.com/oauth/authorize",
			tokenURL: "https://idp.example.com/oauth/token",
		})
		require.NoError(t, err)
		require.Equal(t, provider.SourceExplicit, ep.Source)
		require.Equal(t, "https://idp.example.com/oauth/authorize", ep.AuthURL)
		require.Equal(t, "https://idp.example.com/oauth/token", ep.TokenURL)
	})

	t.Run("relative url rejected", func(t *testing.T) {
		_, err := provider.Resolve(context.Background(), settings{authURL: "/authorize"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid authorization url")
	})
}

func TestResolve_Discovery(t *testing.T) {
	srv := newDiscoveryServer(t)

	t.Run("issuer wins over explicit url", func(t *testing.T) {
		ep, err := provider.Resolve(context.Background(), settings{
			issuer:  srv.URL,
			authURL: "https://ignored.example.com/authorize",
		})
		require.NoError(t, err)
		require.Equal(t, provider.SourceDiscovery, ep.Source)
		require.Equal(t, srv.URL+"/authorize", ep.AuthURL)
		require.Equal(t, srv.URL+"/token", ep.TokenURL)
	})

	t.Run("issuer mismatch", func(t *testing.T) {
		_, err := provider.Resolve(context.Background(), settings{issuer: srv.URL + "/other"})
		require.Error(t, err)
	})
}
