package config

import "time"

type StoreKind string

const (
	StoreMemory StoreKind = "memory"
	StoreRedis  StoreKind = "redis"
)

type SessionConfig interface {
	GetSessionStore() StoreKind
	GetRedisURL() string
	GetMaxSessionAge() time.Duration
}

type Session struct {
	store    StoreKind
	redisURL string
	maxAge   time.Duration
}

var _ SessionConfig = Session{}

func (s Session) GetSessionStore() StoreKind {
	return s.store
}

func (s Session) GetRedisURL() string {
	return s.redisURL
}

// GetMaxSessionAge bounds how long a pending authorization can wait for its callback.
func (s Session) GetMaxSessionAge() time.Duration {
	return s.maxAge
}
