package interfaces

import (
	"context"

	"github.com/marketlens/marketlens/internal/models"
)

// SessionProvider abstracts the third-party auth provider (GoTrue-style).
// An unconfigured provider must never be asked to make network calls.
type SessionProvider interface {
	// IsConfigured reports whether provider credentials are present
	IsConfigured() bool
	// FetchUser validates an access token and returns the user it belongs to
	FetchUser(ctx context.Context, accessToken string) (*models.User, error)
	// SignOut revokes the given access token with the provider
	SignOut(ctx context.Context, accessToken string) error
}

// SessionChangeHandler is notified whenever the session user changes
type SessionChangeHandler func(user *models.User)

// SessionService is the single source of truth for auth state
type SessionService interface {
	// Current returns the settled session state
	Current() models.Session
	// IsConfigured reports whether an auth provider is configured
	IsConfigured() bool
	// Authenticate validates a bearer token, caching the result briefly
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	// SignOut revokes the active token and clears the local user immediately
	SignOut(ctx context.Context) error
	// OnChange registers a handler for session user changes
	OnChange(handler SessionChangeHandler)
}
