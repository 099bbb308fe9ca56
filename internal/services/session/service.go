// Package session wraps the third-party auth provider and is the single
// source of truth for "is a provider configured, is a user signed in".
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

type cacheEntry struct {
	user    *models.User
	expires time.Time
}

// Service implements SessionService. When the provider is unconfigured the
// service settles immediately with a descriptive error and never touches
// the network.
type Service struct {
	provider interfaces.SessionProvider
	logger   arbor.ILogger
	cacheTTL time.Duration

	mu       sync.RWMutex
	user     *models.User
	token    string
	ready    bool
	errMsg   string
	handlers []interfaces.SessionChangeHandler
	cache    map[string]cacheEntry
}

// NewService creates the session service
func NewService(cfg *common.AuthConfig, provider interfaces.SessionProvider, logger arbor.ILogger) *Service {
	s := &Service{
		provider: provider,
		logger:   logger,
		cacheTTL: common.ParseDurationOr(cfg.SessionCache, 30*time.Second),
		cache:    make(map[string]cacheEntry),
		ready:    true,
	}

	if !provider.IsConfigured() {
		s.errMsg = "auth provider not configured"
		logger.Warn().Msg("Auth provider not configured, running in open single-user mode")
	}

	return s
}

// IsConfigured reports whether an auth provider is configured
func (s *Service) IsConfigured() bool {
	return s.provider.IsConfigured()
}

// Current returns the settled session state
func (s *Service) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Session{
		User:  s.user,
		Ready: s.ready,
		Error: s.errMsg,
	}
}

// Authenticate validates a bearer token, caching the result briefly to
// avoid a provider round-trip on every request. A successful validation
// replaces the current session user.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	s.mu.RLock()
	if entry, ok := s.cache[accessToken]; ok && time.Now().Before(entry.expires) {
		user := entry.user
		s.mu.RUnlock()
		return user, nil
	}
	s.mu.RUnlock()

	user, err := s.provider.FetchUser(ctx, accessToken)
	if err != nil {
		s.mu.Lock()
		s.errMsg = err.Error()
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	changed := s.user == nil || s.user.ID != user.ID
	s.user = user
	s.token = accessToken
	s.errMsg = ""
	s.cache[accessToken] = cacheEntry{user: user, expires: time.Now().Add(s.cacheTTL)}
	handlers := append([]interfaces.SessionChangeHandler(nil), s.handlers...)
	s.mu.Unlock()

	if changed {
		for _, handler := range handlers {
			handler(user)
		}
	}

	return user, nil
}

// SignOut clears the local user immediately, then revokes the token with
// the provider. Clearing first avoids a stale-signed-in window while the
// provider round-trip resolves.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.user = nil
	s.token = ""
	delete(s.cache, token)
	handlers := append([]interfaces.SessionChangeHandler(nil), s.handlers...)
	s.mu.Unlock()

	for _, handler := range handlers {
		handler(nil)
	}

	if token == "" || !s.provider.IsConfigured() {
		return nil
	}

	if err := s.provider.SignOut(ctx, token); err != nil {
		// The local session is already cleared; a failed revocation is
		// logged but does not resurrect the user.
		s.logger.Warn().Err(err).Msg("Provider sign-out failed")
		return err
	}

	return nil
}

// OnChange registers a handler for session user changes
func (s *Service) OnChange(handler interfaces.SessionChangeHandler) {
	if handler == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}
