package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
	"github.com/marketlens/marketlens/internal/models"
)

// Provider is an HTTP client for a GoTrue-style auth provider. Tokens are
// issued by the provider's own login surface; this application only
// validates and revokes them.
type Provider struct {
	url     string
	anonKey string
	client  *http.Client
	logger  arbor.ILogger
}

// NewProvider creates an auth provider client from configuration. Missing
// credentials produce an unconfigured provider that never makes network
// calls.
func NewProvider(cfg *common.AuthConfig, logger arbor.ILogger) interfaces.SessionProvider {
	return &Provider{
		url:     strings.TrimSuffix(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		client: &http.Client{
			Timeout: common.ParseDurationOr(cfg.RequestTimeout, 10*time.Second),
		},
		logger: logger,
	}
}

// IsConfigured reports whether provider credentials are present
func (p *Provider) IsConfigured() bool {
	return p.url != "" && p.anonKey != ""
}

// FetchUser validates an access token against the provider's user endpoint
func (p *Provider) FetchUser(ctx context.Context, accessToken string) (*models.User, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("auth provider not configured")
	}
	if accessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("invalid or expired session token")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("auth provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth provider response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("auth provider returned no user")
	}

	return &user, nil
}

// SignOut revokes the given access token with the provider
func (p *Provider) SignOut(ctx context.Context, accessToken string) error {
	if !p.IsConfigured() {
		return fmt.Errorf("auth provider not configured")
	}
	if accessToken == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", p.anonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("auth provider returned %d on sign-out", resp.StatusCode)
	}

	return nil
}
