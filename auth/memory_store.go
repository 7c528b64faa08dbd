package auth

import (
	"context"
	"sync"

	"github.com/princinho/urbanthreads/models"
)

// MemoryUserStore is a UserStore for tests and the memory storage driver.
type MemoryUserStore struct {
	mu     sync.RWMutex
	byID   map[string]models.User
	resets []models.PasswordReset
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byID: make(map[string]models.User)}
}

func (m *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MemoryUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryUserStore) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	m.byID[user.ID] = *user
	return nil
}

func (m *MemoryUserStore) SavePasswordReset(_ context.Context, reset models.PasswordReset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, reset)
	return nil
}

// Resets returns the recorded reset requests.
func (m *MemoryUserStore) Resets() []models.PasswordReset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.PasswordReset(nil), m.resets...)
}

// SetActive toggles an account, for tests.
func (m *MemoryUserStore) SetActive(id string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		u.IsActive = active
		m.byID[id] = u
	}
}
