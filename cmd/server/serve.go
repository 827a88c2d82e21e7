package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-pkce-helper/authflow"
	"github.com/jrsteele09/go-pkce-helper/internal/config"
	"github.com/jrsteele09/go-pkce-helper/internal/tlscert"
	"github.com/jrsteele09/go-pkce-helper/provider"
	"github.com/jrsteele09/go-pkce-helper/server"
	"github.com/jrsteele09/go-pkce-helper/sessions"
	"github.com/jrsteele09/go-pkce-helper/token/jwt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	shutdownTimeout = 5 * time.Second
	sweepInterval   = time.Minute
)

func serve(ctx context.Context, portFlag string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if portFlag != "" {
		settings.Port = portFlag
	}
	c, err := config.New(settings)
	if err != nil {
		return err
	}
	configureLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	if c.GetSecretKey() == "" {
		log.Warn().Msg("APP_SECRET_KEY not set, using a per-process key; sessions will not survive a restart")
	}

	store, closeStore, err := newSessionStore(ctx, c)
	if err != nil {
		return err
	}
	defer closeStore()

	endpoint, err := provider.Resolve(ctx, c)
	if err != nil {
		return err
	}
	log.Info().Str("source", string(endpoint.Source)).Str("auth_url", endpoint.AuthURL).Msg("Provider endpoint resolved")

	signer, err := jwt.NewSessionSigner(c.GetSecretKey(), c.GetMaxSessionAge())
	if err != nil {
		return err
	}

	handler, err := server.New(c, authflow.New(c, endpoint.Endpoint, store), signer)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if c.GetUseTLS() {
		tlsConfig, err := tlscert.ServerConfig(redirectHost(c.GetRedirectURI()))
		if err != nil {
			return fmt.Errorf("tls: %w", err)
		}
		httpServer.TLSConfig = tlsConfig
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listenAndServe(httpServer, c.GetUseTLS())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server, useTLS bool) error {
	log.Info().Str("addr", server.Addr).Bool("tls", useTLS).Msg("Server listening")

	var err error
	if useTLS {
		// Certificates come from server.TLSConfig
		err = server.ListenAndServeTLS("", "")
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	log.Info().Msg("Server stopped")
	return nil
}

// newSessionStore builds the configured store. The in-memory store gets a
// sweeper that drops abandoned flows until ctx is done.
func newSessionStore(ctx context.Context, c config.Config) (sessions.Store, func(), error) {
	switch c.GetSessionStore() {
	case config.StoreRedis:
		store, err := sessions.NewRedisStore(ctx, c.GetRedisURL(), c.GetMaxSessionAge())
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		store := sessions.NewInMemoryStore(c.GetMaxSessionAge())
		go sweepExpired(ctx, store)
		return store, func() {}, nil
	}
}

func sweepExpired(ctx context.Context, store *sessions.InMemoryStore) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.DeleteExpired(); n > 0 {
				log.Debug().Int("removed", n).Msg("Expired flow sessions removed")
			}
		}
	}
}

func configureLogging(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func redirectHost(redirectURI string) string {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return host
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
