package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/marketlens/marketlens/internal/interfaces"
)

// KVStorage implements the KeyValueStorage interface for Badger
type KVStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewKVStorage creates a new KVStorage instance
func NewKVStorage(db *BadgerDB, logger arbor.ILogger) interfaces.KeyValueStorage {
	return &KVStorage{
		db:     db,
		logger: logger,
	}
}

func (s *KVStorage) Get(ctx context.Context, key string) (string, error) {
	pair, err := s.GetPair(ctx, key)
	if err != nil {
		return "", err
	}
	return pair.Value, nil
}

func (s *KVStorage) GetPair(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	var pair interfaces.KeyValuePair
	if err := s.db.Store().Get(key, &pair); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("key not found: %s", key)
		}
		return nil, fmt.Errorf("failed to get key: %w", err)
	}
	return &pair, nil
}

func (s *KVStorage) Set(ctx context.Context, key, value, description string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	pair := interfaces.KeyValuePair{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   time.Now().Unix(),
	}
	if err := s.db.Store().Upsert(key, &pair); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}
	return nil
}

func (s *KVStorage) Delete(ctx context.Context, key string) error {
	if err := s.db.Store().Delete(key, &interfaces.KeyValuePair{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func (s *KVStorage) List(ctx context.Context) ([]*interfaces.KeyValuePair, error) {
	var pairs []interfaces.KeyValuePair
	if err := s.db.Store().Find(&pairs, nil); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	result := make([]*interfaces.KeyValuePair, len(pairs))
	for i := range pairs {
		result[i] = &pairs[i]
	}
	return result, nil
}

func (s *KVStorage) GetAll(ctx context.Context) (map[string]string, error) {
	pairs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	all := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		all[pair.Key] = pair.Value
	}
	return all, nil
}
