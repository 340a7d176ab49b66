package mock

import (
	"context"
	"sync"

	"github.com/jon4hz/modhub/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu       sync.RWMutex
	settings map[string]string

	// Error simulation
	GetSettingError    error
	SetSettingError    error
	DeleteSettingError error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		settings: make(map[string]string),
	}
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = make(map[string]string)
	m.GetSettingError = nil
	m.SetSettingError = nil
	m.DeleteSettingError = nil
}

func (m *MockDB) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.settings[key]
	if !ok {
		return "", database.ErrNotFound
	}
	return value, nil
}

func (m *MockDB) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[key] = value
	return nil
}

func (m *MockDB) DeleteSetting(ctx context.Context, key string) error {
	if m.DeleteSettingError != nil {
		return m.DeleteSettingError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.settings, key)
	return nil
}

func (m *MockDB) Close() error { return nil }
