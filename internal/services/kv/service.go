// Package kv provides the settings store for third-party API keys. Keys
// saved here override the environment/file configuration when sync trigger
// payloads are assembled, so users can rotate keys from the settings page
// without a restart.
package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/common"
	"github.com/marketlens/marketlens/internal/interfaces"
)

// knownServices are the API key slots exposed on the settings page
var knownServices = []string{
	"news_api",
	"mediastack",
	"gnews",
	"alpha_vantage",
	"financial_modeling_prep",
	"serpapi",
	"tavily",
}

// Service provides business logic for stored API keys
type Service struct {
	storage interfaces.KeyValueStorage
	config  *common.APIKeysConfig
	logger  arbor.ILogger
}

// NewService creates a new key/value service
func NewService(storage interfaces.KeyValueStorage, config *common.APIKeysConfig, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		config:  config,
		logger:  logger,
	}
}

// KnownServices returns the API key slots exposed on the settings page
func (s *Service) KnownServices() []string {
	return append([]string(nil), knownServices...)
}

// Set stores or updates an API key for a service
func (s *Service) Set(ctx context.Context, service, value string) error {
	service = normalizeService(service)
	if service == "" {
		return fmt.Errorf("service is required")
	}

	if err := s.storage.Set(ctx, service, value, "api key"); err != nil {
		s.logger.Error().Err(err).Str("service", service).Msg("Failed to store API key")
		return err
	}

	s.logger.Info().Str("service", service).Msg("API key updated")
	return nil
}

// Delete removes a stored API key, falling back to the configured one
func (s *Service) Delete(ctx context.Context, service string) error {
	service = normalizeService(service)
	if service == "" {
		return fmt.Errorf("service is required")
	}
	return s.storage.Delete(ctx, service)
}

// ResolveKeys assembles the API key bag for sync trigger payloads: the
// immutable startup configuration overlaid with any stored keys.
func (s *Service) ResolveKeys(ctx context.Context) map[string]string {
	keys := s.config.Map()

	stored, err := s.storage.GetAll(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load stored API keys, using configured keys only")
		return keys
	}

	for service, value := range stored {
		if value != "" {
			keys[service] = value
		}
	}
	return keys
}

// MaskedKeys returns every key slot with its value masked for display.
// Full values never leave the server once stored.
func (s *Service) MaskedKeys(ctx context.Context) map[string]string {
	resolved := s.ResolveKeys(ctx)

	masked := make(map[string]string, len(knownServices))
	for _, service := range knownServices {
		masked[service] = maskKey(resolved[service])
	}
	return masked
}

// maskKey obscures all but the last four characters of a key
func maskKey(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}

func normalizeService(service string) string {
	return strings.ToLower(strings.TrimSpace(service))
}
