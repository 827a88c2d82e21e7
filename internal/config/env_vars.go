package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	sessionStoreVar = "SESSION_STORE"
	redisURLVar     = "REDIS_URL"

	DefaultRedirectURI = "https://localhost:8888/callback"
)

// Settings is the raw environment input. Build a Config from it with New.
type Settings struct {
	ClientID      string        `envconfig:"SPOTIFY_CLIENT_ID"`
	ClientSecret  string        `envconfig:"SPOTIFY_CLIENT_SECRET"`
	RedirectURI   string        `envconfig:"SPOTIFY_REDIRECT_URI" default:"https://localhost:8888/callback"`
	Scopes        string        `envconfig:"SPOTIFY_SCOPES"`
	Port          string        `envconfig:"PORT"`
	SecretKey     string        `envconfig:"APP_SECRET_KEY"`
	AppName       string        `envconfig:"APP_NAME" default:"Spotify PKCE Helper"`
	Env           string        `envconfig:"ENV" default:"DEV"`
	SessionStore  string        `envconfig:"SESSION_STORE" default:"memory"`
	RedisURL      string        `envconfig:"REDIS_URL"`
	SessionMaxAge time.Duration `envconfig:"SESSION_MAX_AGE" default:"10m"`
	OIDCIssuer    string        `envconfig:"OIDC_ISSUER"`
	AuthURL       string        `envconfig:"AUTH_URL"`
	TokenURL      string        `envconfig:"TOKEN_URL"`
}

// DefaultSettings returns the settings used when no environment is present.
func DefaultSettings() Settings {
	return Settings{
		RedirectURI:   DefaultRedirectURI,
		Scopes:        DefaultScopes(),
		AppName:       "Spotify PKCE Helper",
		Env:           "DEV",
		SessionStore:  string(StoreMemory),
		SessionMaxAge: 10 * time.Minute,
	}
}

// LoadSettings reads Settings from the process environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return Settings{}, fmt.Errorf("[config LoadSettings] %w", err)
	}
	// An explicitly empty SPOTIFY_SCOPES is honoured, only an unset one falls back.
	if _, ok := os.LookupEnv("SPOTIFY_SCOPES"); !ok {
		s.Scopes = DefaultScopes()
	}
	return s, nil
}

type EnvVars struct {
	appName string
	env     string
	port    int
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	return fmt.Sprintf(":%d", e.port)
}

func (e EnvVars) GetPortNumber() int {
	return e.port
}

func (e EnvVars) GetAppName() string {
	return e.appName
}

func (e EnvVars) GetEnv() string {
	if e.env == "" {
		return "DEV"
	}
	return e.env
}
