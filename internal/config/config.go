package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type Config interface {
	EnvConfig
	OAuthConfig
	SecurityConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetPortNumber() int
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Security
	Session
}

var _ Config = mainConfig{}

// New validates the settings and derives the listening port and TLS mode from
// the redirect URI. The returned Config is immutable.
func New(s Settings) (Config, error) {
	redirect, err := url.Parse(strings.TrimSpace(s.RedirectURI))
	if err != nil {
		return nil, fmt.Errorf("[config New] invalid redirect uri %q: %w", s.RedirectURI, err)
	}
	if redirect.Scheme != "http" && redirect.Scheme != "https" {
		return nil, fmt.Errorf("[config New] redirect uri %q must use http or https", s.RedirectURI)
	}
	if redirect.Host == "" {
		return nil, fmt.Errorf("[config New] redirect uri %q has no host", s.RedirectURI)
	}

	port, err := resolvePort(s.Port, redirect)
	if err != nil {
		return nil, err
	}

	if s.SessionMaxAge <= 0 {
		return nil, fmt.Errorf("[config New] session max age must be positive, got %s", s.SessionMaxAge)
	}

	storeKind := StoreKind(strings.ToLower(strings.TrimSpace(s.SessionStore)))
	switch storeKind {
	case "":
		storeKind = StoreMemory
	case StoreMemory:
	case StoreRedis:
		if s.RedisURL == "" {
			return nil, fmt.Errorf("[config New] %s is required when %s=%s", redisURLVar, sessionStoreVar, StoreRedis)
		}
	default:
		return nil, fmt.Errorf("[config New] unknown session store %q", s.SessionStore)
	}

	return mainConfig{
		EnvVars: EnvVars{
			appName: s.AppName,
			env:     s.Env,
			port:    port,
		},
		OAuth: OAuth{
			clientID:     strings.TrimSpace(s.ClientID),
			clientSecret: strings.TrimSpace(s.ClientSecret),
			redirectURI:  redirect.String(),
			scopes:       strings.Fields(s.Scopes),
			oidcIssuer:   strings.TrimSpace(s.OIDCIssuer),
			authURL:      strings.TrimSpace(s.AuthURL),
			tokenURL:     strings.TrimSpace(s.TokenURL),
		},
		Security: Security{
			secretKey: s.SecretKey,
			useTLS:    redirect.Scheme == "https",
		},
		Session: Session{
			store:    storeKind,
			redisURL: s.RedisURL,
			maxAge:   s.SessionMaxAge,
		},
	}, nil
}

// Load reads the settings from the environment and builds the Config.
func Load() (Config, error) {
	s, err := LoadSettings()
	if err != nil {
		return nil, err
	}
	return New(s)
}

func resolvePort(explicit string, redirect *url.URL) (int, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(explicit), ":")
	if raw == "" {
		raw = redirect.Port()
	}
	if raw == "" {
		if redirect.Scheme == "https" {
			return 443, nil
		}
		return 80, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("[config New] invalid port %q", raw)
	}
	return port, nil
}
