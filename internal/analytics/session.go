package analytics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultSessionTTL = time.Hour

	sessionAgentPrefixLen = 50
	unknownAgent          = "unknown"
	sessionTokenPrefix    = "session_"
	sessionTokenLength    = 16
)

// SessionCache maps a session key to a token for ttl. Claim returns the live token for key;
// mint is called only when there is none.
type SessionCache interface {
	Claim(ctx context.Context, key string, mint func() (string, error), ttl time.Duration) (string, error)
}

// SessionIdentifier approximates visitor sessions: one token per user agent per hour of day,
// kept for at most ttl.
type SessionIdentifier struct {
	cache    SessionCache
	ttl      time.Duration
	now      func() time.Time
	newToken func() (string, error)
}

func NewSessionIdentifier(cache SessionCache, ttl time.Duration, now func() time.Time) (*SessionIdentifier, error) {
	if cache == nil {
		return nil, errors.New("session cache required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if now == nil {
		now = time.Now
	}
	return &SessionIdentifier{
		cache:    cache,
		ttl:      ttl,
		now:      now,
		newToken: newSessionToken,
	}, nil
}

func (s *SessionIdentifier) SessionFor(ctx context.Context, userAgent string) (string, error) {
	mint := func() (string, error) {
		token, err := s.newToken()
		if err != nil {
			return "", fmt.Errorf("mint session token: %w", err)
		}
		return token, nil
	}
	return s.cache.Claim(ctx, sessionKey(userAgent, s.now()), mint, s.ttl)
}

// sessionKey uses the server's local hour.
func sessionKey(userAgent string, now time.Time) string {
	agent := strings.TrimSpace(userAgent)
	if agent == "" {
		agent = unknownAgent
	}
	if runes := []rune(agent); len(runes) > sessionAgentPrefixLen {
		agent = string(runes[:sessionAgentPrefixLen])
	}
	return agent + "_" + strconv.Itoa(now.Local().Hour())
}

func newSessionToken() (string, error) {
	id, err := gonanoid.New(sessionTokenLength)
	if err != nil {
		return "", err
	}
	return sessionTokenPrefix + id, nil
}
