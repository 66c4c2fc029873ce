package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/stockwise-backend/internal/domain"
)

// simulationRepository implements domain.SimulationRepository
type simulationRepository struct {
	db *DB
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *DB) domain.SimulationRepository {
	return &simulationRepository{db: db}
}

// Save stores a simulation, replacing any previous record with the same ID
func (r *simulationRepository) Save(ctx context.Context, sim *domain.Simulation) error {
	if sim == nil {
		return fmt.Errorf("simulation cannot be nil")
	}

	result, err := json.Marshal(sim.Result)
	if err != nil {
		return fmt.Errorf("failed to encode simulation result: %w", err)
	}

	query := `
		INSERT INTO simulations (id, created_at, initial_principal, monthly_deposit, annual_yield_rate, annual_growth_rate, years, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			initial_principal = EXCLUDED.initial_principal,
			monthly_deposit = EXCLUDED.monthly_deposit,
			annual_yield_rate = EXCLUDED.annual_yield_rate,
			annual_growth_rate = EXCLUDED.annual_growth_rate,
			years = EXCLUDED.years,
			result = EXCLUDED.result
	`

	_, err = r.db.ExecContext(ctx, query,
		sim.ID,
		sim.CreatedAt,
		sim.Params.InitialPrincipal,
		sim.Params.MonthlyDeposit,
		sim.Params.AnnualYieldRate,
		sim.Params.AnnualGrowthRate,
		sim.Params.Years,
		result,
	)
	if err != nil {
		return fmt.Errorf("failed to save simulation: %w", err)
	}

	return nil
}

// GetByID retrieves a simulation by its ID
func (r *simulationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Simulation, error) {
	query := `
		SELECT id, created_at, initial_principal, monthly_deposit, annual_yield_rate, annual_growth_rate, years, result
		FROM simulations
		WHERE id = $1
	`

	sim, err := scanSimulation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("simulation %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get simulation by ID: %w", err)
	}

	return sim, nil
}

// ListRecent retrieves up to limit simulations, newest first
func (r *simulationRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Simulation, error) {
	if limit <= 0 {
		return []*domain.Simulation{}, nil
	}

	query := `
		SELECT id, created_at, initial_principal, monthly_deposit, annual_yield_rate, annual_growth_rate, years, result
		FROM simulations
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulations: %w", err)
	}
	defer rows.Close()

	sims := []*domain.Simulation{}
	for rows.Next() {
		sim, err := scanSimulation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}
		sims = append(sims, sim)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simulations: %w", err)
	}

	return sims, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSimulation(row rowScanner) (*domain.Simulation, error) {
	var sim domain.Simulation
	var result []byte

	err := row.Scan(
		&sim.ID,
		&sim.CreatedAt,
		&sim.Params.InitialPrincipal,
		&sim.Params.MonthlyDeposit,
		&sim.Params.AnnualYieldRate,
		&sim.Params.AnnualGrowthRate,
		&sim.Params.Years,
		&result,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(result, &sim.Result); err != nil {
		return nil, fmt.Errorf("failed to decode simulation result: %w", err)
	}
	sim.CreatedAt = sim.CreatedAt.UTC()

	return &sim, nil
}
