package domain

import (
	"context"

	"github.com/google/uuid"
)

// SimulationRepository defines the interface for simulation history persistence
type SimulationRepository interface {
	// Save stores a simulation
	Save(ctx context.Context, sim *Simulation) error

	// GetByID retrieves a simulation by its ID
	// Returns an error wrapping ErrNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Simulation, error)

	// ListRecent retrieves up to limit simulations, newest first
	ListRecent(ctx context.Context, limit int) ([]*Simulation, error)
}

// PostRepository defines the interface for the blog post index
type PostRepository interface {
	// List retrieves all indexed posts, newest first
	List(ctx context.Context) ([]Post, error)

	// Publish puts post at the front of the index, removes any older post with the
	// same link, and trims the index to limit posts
	Publish(ctx context.Context, post Post, limit int) error
}

// ResultCache stores encoded simulation results by params key
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
