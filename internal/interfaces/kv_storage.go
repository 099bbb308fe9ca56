package interfaces

import "context"

// KeyValuePair represents a stored key/value entry with metadata
type KeyValuePair struct {
	Key         string `json:"key" badgerhold:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	UpdatedAt   int64  `json:"updated_at"`
}

// KeyValueStorage provides persistent key/value storage
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	GetPair(ctx context.Context, key string) (*KeyValuePair, error)
	Set(ctx context.Context, key, value, description string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]*KeyValuePair, error)
	GetAll(ctx context.Context) (map[string]string, error)
}
