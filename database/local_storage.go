package database

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrKeyNotFound is returned by LocalStorage.Get when nothing was stored
// under the key.
var ErrKeyNotFound = errors.New("key not found")

// LocalStorage is a string-keyed blob store holding the storefront's JSON
// snapshots ("cart", "wishlist", "products"). Writes are last-writer-wins.
type LocalStorage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStorage keeps everything in process memory.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(value)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// scoped prefixes every key, giving each visitor a private namespace.
type scoped struct {
	prefix string
	inner  LocalStorage
}

// Scoped returns a view of s where every key is prefixed with "<scope>:".
func Scoped(s LocalStorage, scope string) LocalStorage {
	return &scoped{prefix: scope + ":", inner: s}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}
