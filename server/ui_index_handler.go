package server

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

// IndexPageData is rendered by templates/index.html
type IndexPageData struct {
	AppName          string
	ClientIDSet      bool
	ClientID         string
	ClientSecretSet  bool
	RedirectURI      string
	Scopes           string
	Port             int
	UseTLS           bool
	AuthURL          string
	LoginPath        string
	MissingClientEnv string
}

// IndexHandler renders the status page with the form that starts the flow
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := IndexPageData{
			AppName:         s.config.GetAppName(),
			ClientIDSet:     s.config.GetClientID() != "",
			ClientID:        s.config.GetClientID(),
			ClientSecretSet: s.config.GetClientSecret() != "",
			RedirectURI:     s.config.GetRedirectURI(),
			Scopes:          s.config.GetScopeString(),
			Port:            s.config.GetPortNumber(),
			UseTLS:          s.config.GetUseTLS(),
			AuthURL:         s.flow.Endpoint().AuthURL,
			LoginPath:       RouteLogin,
		}
		if !data.ClientIDSet {
			data.MissingClientEnv = "SPOTIFY_CLIENT_ID"
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := s.indexTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render index template")
			http.Error(w, "Failed to render index page", http.StatusInternalServerError)
		}
	}
}
