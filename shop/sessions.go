package shop

import (
	"context"
	"sync"
	"weak"

	"github.com/princinho/urbanthreads/database"
)

const defaultMaxSessions = 10000

// Sessions hands out one Store per visitor id. Stores are cached in memory;
// when the cache is full one entry is demoted to a weak reference. A demoted
// store that is still held elsewhere (a running checkout) is handed out again,
// so a visitor never has two live stores. Once collected it is reloaded from
// storage.
type Sessions struct {
	catalog *Catalog
	storage database.LocalStorage
	max     int

	mu       sync.Mutex
	stores   map[string]*Store
	detached map[string]weak.Pointer[Store]
}

func NewSessions(catalog *Catalog, storage database.LocalStorage, maxSessions int) *Sessions {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	return &Sessions{
		catalog:  catalog,
		storage:  storage,
		max:      maxSessions,
		stores:   make(map[string]*Store),
		detached: make(map[string]weak.Pointer[Store]),
	}
}

func (s *Sessions) Catalog() *Catalog { return s.catalog }

// Store returns the visitor's store, opening it from storage on first use.
func (s *Sessions) Store(ctx context.Context, visitorID string) (*Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.stores[visitorID]; ok {
		return st, nil
	}
	if wp, ok := s.detached[visitorID]; ok {
		delete(s.detached, visitorID)
		if st := wp.Value(); st != nil {
			s.keepLocked(visitorID, st)
			return st, nil
		}
	}
	st, err := Open(ctx, s.catalog, database.Scoped(s.storage, "visitor:"+visitorID))
	if err != nil {
		return nil, err
	}
	s.keepLocked(visitorID, st)
	return st, nil
}

func (s *Sessions) keepLocked(visitorID string, st *Store) {
	if len(s.stores) >= s.max {
		for id, old := range s.stores {
			delete(s.stores, id)
			s.detached[id] = weak.Make(old)
			break
		}
	}
	if len(s.detached) > s.max {
		for id, wp := range s.detached {
			if wp.Value() == nil {
				delete(s.detached, id)
			}
		}
	}
	s.stores[visitorID] = st
}
