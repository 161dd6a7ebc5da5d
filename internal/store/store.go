// Package store persists the city set in memory or in Postgres.
package store

import (
	"context"
	"errors"

	"citytour/internal/model"
)

// Store is the city persistence interface used by the API server.
type Store interface {
	// AddCity inserts a new city. Returns ErrExists if the name is taken.
	AddCity(ctx context.Context, c model.City) error
	// RemoveCity deletes a city by name. Returns ErrNotFound if absent.
	RemoveCity(ctx context.Context, name string) error
	// ListCities returns a snapshot of all cities in insertion order.
	ListCities(ctx context.Context) ([]model.City, error)
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	// Kind names the backend ("memory", "postgres").
	Kind() string
}

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)
