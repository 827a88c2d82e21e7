package sessions

import apperrors "github.com/jrsteele09/go-pkce-helper/internal/errors"

// ErrSessionNotFound is returned by Get for unknown, deleted or expired sessions.
var ErrSessionNotFound = apperrors.ErrSessionNotFound
