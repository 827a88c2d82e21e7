package authflow

import apperrors "github.com/jrsteele09/go-pkce-helper/internal/errors"

var (
	// ErrConfiguration means no client id was supplied or configured.
	ErrConfiguration = apperrors.ErrConfiguration
	// ErrStateMismatch means the callback state was missing or did not match the session.
	ErrStateMismatch = apperrors.ErrStateMismatch
	// ErrMissingCode means the provider redirected back without a code.
	ErrMissingCode = apperrors.ErrMissingCode
	// ErrSessionStore means the session store could not be read or written.
	ErrSessionStore = apperrors.ErrSessionStore
)
