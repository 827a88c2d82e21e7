package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-pkce-helper/token/jwt"
	"github.com/rs/zerolog/log"
)

const (
	// sessionCookieName is the cookie correlating /login with /callback
	sessionCookieName = "pkce_session"

	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"
)

// sessionID returns the session id from a valid session cookie, or "" when
// the cookie is missing, tampered with or expired.
func (s *Server) sessionID(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	id, err := s.sessions.Verify(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("ignoring session cookie")
		return ""
	}
	return id
}

// startSession reuses the caller's session when its cookie is valid and
// issues a new one otherwise. The cookie is refreshed either way.
func (s *Server) startSession(w http.ResponseWriter, r *http.Request) (string, error) {
	id := s.sessionID(r)
	if id == "" {
		id = jwt.NewSessionID()
	}

	token, err := s.sessions.Sign(id)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   getScheme(r) == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.sessions.TTL().Seconds()),
	})
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("Failed to write JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
