// Package provider resolves the authorization endpoint the helper redirects to.
package provider

import (
	"context"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/spotify"
)

// Source says where an endpoint came from
type Source string

const (
	SourceSpotify   Source = "spotify"
	SourceExplicit  Source = "explicit"
	SourceDiscovery Source = "oidc-discovery"
)

// Settings is the subset of configuration the resolver reads
type Settings interface {
	GetOIDCIssuer() string
	GetAuthURL() string
	GetTokenURL() string
}

// Endpoint is the resolved provider endpoint.
type Endpoint struct {
	oauth2.Endpoint
	Source Source
}

// Resolve picks the endpoint in priority order: OIDC discovery from the
// issuer, an explicit authorization URL, then Spotify's accounts service.
func Resolve(ctx context.Context, s Settings) (Endpoint, error) {
	if issuer := s.GetOIDCIssuer(); issuer != "" {
		p, err := oidc.NewProvider(ctx, issuer)
		if err != nil {
			return Endpoint{}, fmt.Errorf("[provider Resolve] discovery for %s: %w", issuer, err)
		}
		return Endpoint{Endpoint: p.Endpoint(), Source: SourceDiscovery}, nil
	}

	if authURL := s.GetAuthURL(); authURL != "" {
		u, err := url.Parse(authURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Endpoint{}, fmt.Errorf("[provider Resolve] invalid authorization url %q", authURL)
		}
		return Endpoint{
			Endpoint: oauth2.Endpoint{AuthURL: authURL, TokenURL: s.GetTokenURL()},
			Source:   SourceExplicit,
		}, nil
	}

	return Endpoint{Endpoint: spotify.Endpoint, Source: SourceSpotify}, nil
}
