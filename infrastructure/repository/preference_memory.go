package repository

import (
	"context"
	"sync"
)

// memoryPreferenceRepository mantém as preferências apenas durante a vida do processo
type memoryPreferenceRepository struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemoryPreferenceRepository() PreferenceRepository {
	return &memoryPreferenceRepository{
		values: make(map[string]map[string]string),
	}
}

func (r *memoryPreferenceRepository) GetPreference(_ context.Context, owner, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.values[owner][key]
	return value, ok, nil
}

func (r *memoryPreferenceRepository) SavePreference(_ context.Context, owner, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.values[owner] == nil {
		r.values[owner] = make(map[string]string)
	}
	r.values[owner][key] = value

	return nil
}
