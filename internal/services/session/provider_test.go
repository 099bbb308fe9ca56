package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/models"
)

func TestProvider_IsConfigured(t *testing.T) {
	logger := common.GetLogger()

	unconfigured := NewProvider(&common.AuthConfig{}, logger)
	assert.False(t, unconfigured.IsConfigured())

	partial := NewProvider(&common.AuthConfig{URL: "https://auth.example.com"}, logger)
	assert.False(t, partial.IsConfigured())

	configured := NewProvider(&common.AuthConfig{URL: "https://auth.example.com", AnonKey: "anon"}, logger)
	assert.True(t, configured.IsConfigured())
}

func TestProvider_FetchUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "anon-key", r.Header.Get("apikey"))
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(models.User{ID: "u-1", Email: "analyst@example.com", Role: "authenticated"})
	}))
	defer srv.Close()

	provider := NewProvider(&common.AuthConfig{URL: srv.URL, AnonKey: "anon-key"}, common.GetLogger())

	user, err := provider.FetchUser(context.Background(), "token-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "analyst@example.com", user.Email)
}

func TestProvider_FetchUser_InvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	provider := NewProvider(&common.AuthConfig{URL: srv.URL, AnonKey: "anon-key"}, common.GetLogger())

	_, err := provider.FetchUser(context.Background(), "expired")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestProvider_FetchUser_EmptyUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	provider := NewProvider(&common.AuthConfig{URL: srv.URL, AnonKey: "anon-key"}, common.GetLogger())

	_, err := provider.FetchUser(context.Background(), "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no user")
}

func TestProvider_SignOut(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	provider := NewProvider(&common.AuthConfig{URL: srv.URL, AnonKey: "anon-key"}, common.GetLogger())

	require.NoError(t, provider.SignOut(context.Background(), "token-1"))
	assert.Equal(t, "/auth/v1/logout", path)
}

func TestProvider_Unconfigured_NeverCallsNetwork(t *testing.T) {
	provider := NewProvider(&common.AuthConfig{}, common.GetLogger())

	_, err := provider.FetchUser(context.Background(), "token")
	require.Error(t, err)

	err = provider.SignOut(context.Background(), "token")
	require.Error(t, err)
}
