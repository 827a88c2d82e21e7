package config

import "strings"

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetScopes() []string
	GetScopeString() string
	GetOIDCIssuer() string
	GetAuthURL() string
	GetTokenURL() string
}

type OAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
	oidcIssuer   string
	authURL      string
	tokenURL     string
}

var _ OAuthConfig = OAuth{}

var defaultScopes = []string{
	"user-read-email",
	"user-read-private",
	"streaming",
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-private",
	"playlist-modify-public",
	"user-library-read",
	"user-library-modify",
	"user-follow-read",
	"user-follow-modify",
	"user-top-read",
	"user-read-recently-played",
	"app-remote-control",
}

// DefaultScopes returns the space separated Spotify scopes requested when
// SPOTIFY_SCOPES is unset.
func DefaultScopes() string {
	return strings.Join(defaultScopes, " ")
}

func (o OAuth) GetClientID() string {
	return o.clientID
}

func (o OAuth) GetClientSecret() string {
	return o.clientSecret
}

func (o OAuth) GetRedirectURI() string {
	return o.redirectURI
}

func (o OAuth) GetScopes() []string {
	return append([]string(nil), o.scopes...)
}

func (o OAuth) GetScopeString() string {
	return strings.Join(o.scopes, " ")
}

// GetOIDCIssuer returns the issuer used for endpoint discovery, if any.
func (o OAuth) GetOIDCIssuer() string {
	return o.oidcIssuer
}

func (o OAuth) GetAuthURL() string {
	return o.authURL
}

func (o OAuth) GetTokenURL() string {
	return o.tokenURL
}
