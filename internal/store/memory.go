package store

import (
	"context"
	"sync"

	"citytour/internal/model"
)

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
	mu     sync.RWMutex
	cities map[string]model.City // name -> city
	order  []string              // insertion order
}

func NewMemory() *Memory {
	return &Memory{cities: map[string]model.City{}}
}

func (m *Memory) AddCity(ctx context.Context, c model.City) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cities[c.Name]; ok {
		return ErrExists
	}
	m.cities[c.Name] = c
	m.order = append(m.order, c.Name)
	return nil
}

func (m *Memory) RemoveCity(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cities[name]; !ok {
		return ErrNotFound
	}
	delete(m.cities, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) ListCities(ctx context.Context) ([]model.City, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.City, 0, len(m.order))
	for _, n := range m.order {
		out = append(out, m.cities[n])
	}
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }

func (m *Memory) Kind() string { return "memory" }
