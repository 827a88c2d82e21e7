package server

import (
	"net/http"

	"github.com/jrsteele09/go-pkce-helper/authflow"
	apperrors "github.com/jrsteele09/go-pkce-helper/internal/errors"
	"github.com/rs/zerolog/log"
)

// LoginHandler starts the flow (GET|POST /login). The optional client_id,
// client_secret and scopes fields override the configured defaults.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid form data")
			return
		}

		overrides := authflow.Overrides{
			ClientID:     r.FormValue("client_id"),
			ClientSecret: r.FormValue("client_secret"),
			Scopes:       r.FormValue("scopes"),
		}

		sessionID, err := s.startSession(w, r)
		if err != nil {
			log.Err(err).Msg("Failed to issue session cookie")
			writeJSONError(w, http.StatusInternalServerError, "failed to start session")
			return
		}

		authURL, err := s.flow.Start(r.Context(), sessionID, overrides)
		if err != nil {
			s.writeFlowError(w, err)
			return
		}

		s.metrics.started.Inc()
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// CallbackHandler validates the provider redirect (GET /callback, or POST for
// form_post) and returns the authorization code with its verifier.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.FormValue works for both query params and POST form data
		params := authflow.CallbackParams{
			State:            r.FormValue("state"),
			Code:             r.FormValue("code"),
			Error:            r.FormValue("error"),
			ErrorDescription: r.FormValue("error_description"),
		}

		result, err := s.flow.Complete(r.Context(), s.sessionID(r), params)
		if err != nil {
			s.writeFlowError(w, err)
			return
		}

		s.metrics.completed.Inc()
		writeJSON(w, http.StatusOK, result)
	}
}

// writeFlowError maps flow errors to a status and a JSON error body
func (s *Server) writeFlowError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.Is(err, authflow.ErrConfiguration):
		s.metrics.failed.WithLabelValues(failureConfiguration).Inc()
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, authflow.ErrStateMismatch):
		s.metrics.failed.WithLabelValues(failureStateMismatch).Inc()
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, authflow.ErrMissingCode):
		s.metrics.failed.WithLabelValues(failureMissingCode).Inc()
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case apperrors.Is(err, authflow.ErrSessionStore):
		log.Err(err).Msg("Session store failure")
		s.metrics.failed.WithLabelValues(failureSessionStore).Inc()
		writeJSONError(w, http.StatusInternalServerError, "session store unavailable")
	default:
		log.Err(err).Msg("Unexpected flow error")
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// HealthHandler reports liveness
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
