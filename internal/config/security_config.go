package config

type SecurityConfig interface {
	GetSecretKey() string
	GetUseTLS() bool
}

type Security struct {
	secretKey string
	useTLS    bool
}

var _ SecurityConfig = Security{}

// GetSecretKey returns APP_SECRET_KEY. Empty means a per-process key is generated.
func (s Security) GetSecretKey() string {
	return s.secretKey
}

// GetUseTLS reports whether the redirect URI uses https, in which case the
// listener serves TLS with an ad-hoc certificate.
func (s Security) GetUseTLS() bool {
	return s.useTLS
}
