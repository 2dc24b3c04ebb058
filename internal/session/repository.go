package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Keys under which per-session state is stored. They match the local
// storage keys the browser used before the state moved server side.
const (
	KeyCart         = "cart"
	KeyShippingInfo = "shippingInfo"
	KeyCheckout     = "checkout"
	KeyUserToken    = "userToken"
	KeyAdminToken   = "adminToken"
	KeySignup       = "signup"
)

// AllKeys lists every key a session may hold; logout deletes all of them.
var AllKeys = []string{KeyCart, KeyShippingInfo, KeyCheckout, KeyUserToken, KeyAdminToken, KeySignup}

var (
	ErrNotFound = errors.New("session key not found")
)

// Repository persists opaque values per session and key.
// Last write wins; there is no merge between concurrent writers.
type Repository interface {
	Get(ctx context.Context, sessionID, key string) ([]byte, error)
	Put(ctx context.Context, sessionID, key string, value []byte) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
}

// GetJSON loads key and decodes it into v.
func GetJSON(ctx context.Context, repo Repository, sessionID, key string, v any) error {
	raw, err := repo.Get(ctx, sessionID, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// PutJSON encodes v and stores it under key.
func PutJSON(ctx context.Context, repo Repository, sessionID, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return repo.Put(ctx, sessionID, key, raw)
}

// InMemoryRepository is used for tests and single-instance local runs.
type InMemoryRepository struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string]map[string][]byte)}
}

func (r *InMemoryRepository) Get(_ context.Context, sessionID, key string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if values, ok := r.data[sessionID]; ok {
		if v, ok := values[key]; ok {
			out := make([]byte, len(v))
			copy(out, v)
			return out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) Put(_ context.Context, sessionID, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	values, ok := r.data[sessionID]
	if !ok {
		values = make(map[string][]byte)
		r.data[sessionID] = values
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	values[key] = stored
	return nil
}

func (r *InMemoryRepository) Delete(_ context.Context, sessionID string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	values, ok := r.data[sessionID]
	if !ok {
		return nil
	}
	for _, k := range keys {
		delete(values, k)
	}
	if len(values) == 0 {
		delete(r.data, sessionID)
	}
	return nil
}
