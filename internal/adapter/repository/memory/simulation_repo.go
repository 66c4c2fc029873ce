package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/stockwise-backend/internal/domain"
)

// DefaultHistoryLimit is how many simulations are kept when no limit is given
const DefaultHistoryLimit = 1000

// simulationRepository is an in-memory implementation of domain.SimulationRepository
type simulationRepository struct {
	mu    sync.RWMutex
	limit int
	byID  map[uuid.UUID]*domain.Simulation
	order []uuid.UUID // insertion order, oldest first
}

// NewSimulationRepository creates an empty in-memory simulation repository that
// keeps the latest limit simulations. A limit <= 0 uses DefaultHistoryLimit.
func NewSimulationRepository(limit int) domain.SimulationRepository {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &simulationRepository{
		limit: limit,
		byID:  make(map[uuid.UUID]*domain.Simulation),
	}
}

// Save stores a copy of the simulation, dropping the oldest ones beyond the limit
func (r *simulationRepository) Save(ctx context.Context, sim *domain.Simulation) error {
	if sim == nil {
		return fmt.Errorf("simulation cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[sim.ID]; !exists {
		r.order = append(r.order, sim.ID)
	}
	stored := *sim
	r.byID[sim.ID] = &stored

	if excess := len(r.order) - r.limit; excess > 0 {
		for _, id := range r.order[:excess] {
			delete(r.byID, id)
		}
		r.order = append([]uuid.UUID(nil), r.order[excess:]...)
	}
	return nil
}

// GetByID retrieves a simulation by its ID
func (r *simulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Simulation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sim, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("simulation %s: %w", id, domain.ErrNotFound)
	}
	out := *sim
	return &out, nil
}

// ListRecent retrieves up to limit simulations, newest first
func (r *simulationRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Simulation, error) {
	if limit <= 0 {
		return []*domain.Simulation{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	sims := make([]*domain.Simulation, 0, min(limit, len(r.order)))
	for i := len(r.order) - 1; i >= 0 && len(sims) < limit; i-- {
		out := *r.byID[r.order[i]]
		sims = append(sims, &out)
	}
	return sims, nil
}
