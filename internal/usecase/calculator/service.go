package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockwise-backend/internal/domain"
	"github.com/simaogato/stockwise-backend/internal/usecase/chart"
	"github.com/simaogato/stockwise-backend/internal/usecase/growth"
	"github.com/simaogato/stockwise-backend/internal/usecase/summary"
)

const cacheKeyPrefix = "simulation:"

// Calculation is a simulation rendered for display
type Calculation struct {
	ID        uuid.UUID               `json:"id"`
	CreatedAt time.Time               `json:"createdAt"`
	Params    domain.SimulationParams `json:"params"`
	Result    domain.SimulationResult `json:"result"`
	Summary   summary.Summary         `json:"summary"`
	Chart     chart.Config            `json:"chart"`
	Cached    bool                    `json:"cached"`
}

// CalculatorService runs simulations for form submissions and keeps their history
type CalculatorService struct {
	SimulationRepo domain.SimulationRepository
	Cache          domain.ResultCache
	Logger         logrus.FieldLogger
	MaxYears       int

	now func() time.Time
}

// NewCalculatorService creates a new CalculatorService instance
func NewCalculatorService(
	simulationRepo domain.SimulationRepository,
	cache domain.ResultCache,
	logger logrus.FieldLogger,
	maxYears int,
) *CalculatorService {
	if maxYears <= 0 {
		maxYears = domain.DefaultMaxYears
	}
	return &CalculatorService{
		SimulationRepo: simulationRepo,
		Cache:          cache,
		Logger:         logger,
		MaxYears:       maxYears,
		now:            time.Now,
	}
}

// DefaultForm returns the form values the calculator starts with
func DefaultForm() domain.FormInput {
	return domain.FormInput{
		InitialPrincipal: "10000",
		MonthlyDeposit:   "500",
		DividendYield:    "3.5",
		StockGrowth:      "7",
		Duration:         "20",
	}
}

// Calculate normalizes the form, simulates, and renders the result.
// Cache and persistence failures are logged; they never fail the calculation.
func (s *CalculatorService) Calculate(ctx context.Context, form domain.FormInput, locale domain.Locale) (*Calculation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := form.Params(s.MaxYears)
	log := s.Logger.WithField("params", params.Key())

	result, cached := s.lookup(ctx, params)
	if !cached {
		result = growth.Simulate(params)
		s.store(ctx, params, result)
	}

	sim := &domain.Simulation{
		ID:        uuid.New(),
		CreatedAt: s.now().UTC(),
		Params:    params,
		Result:    result,
	}

	// Saving the history is not critical
	if err := s.SimulationRepo.Save(ctx, sim); err != nil {
		log.WithError(err).Warn("failed to save simulation")
	}

	log.WithFields(logrus.Fields{
		"simulation_id": sim.ID,
		"cached":        cached,
	}).Debug("simulation calculated")

	calc := render(sim, locale)
	calc.Cached = cached
	return calc, nil
}

// Get returns a stored simulation rendered for display
func (s *CalculatorService) Get(ctx context.Context, id uuid.UUID, locale domain.Locale) (*Calculation, error) {
	sim, err := s.SimulationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return render(sim, locale), nil
}

// Recent returns up to limit stored simulations, newest first
func (s *CalculatorService) Recent(ctx context.Context, limit int) ([]*domain.Simulation, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("invalid limit %d: must be positive", limit)
	}
	sims, err := s.SimulationRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	return sims, nil
}

func (s *CalculatorService) lookup(ctx context.Context, params domain.SimulationParams) (domain.SimulationResult, bool) {
	if s.Cache == nil {
		return domain.SimulationResult{}, false
	}

	raw, ok := s.Cache.Get(ctx, cacheKeyPrefix+params.Key())
	if !ok {
		return domain.SimulationResult{}, false
	}

	var result domain.SimulationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		s.Logger.WithError(err).Warn("discarding undecodable cached simulation")
		return domain.SimulationResult{}, false
	}
	return result, true
}

func (s *CalculatorService) store(ctx context.Context, params domain.SimulationParams, result domain.SimulationResult) {
	if s.Cache == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		s.Logger.WithError(err).Warn("failed to encode simulation for cache")
		return
	}
	if err := s.Cache.Set(ctx, cacheKeyPrefix+params.Key(), string(raw)); err != nil {
		s.Logger.WithError(err).Warn("failed to cache simulation")
	}
}

func render(sim *domain.Simulation, locale domain.Locale) *Calculation {
	return &Calculation{
		ID:        sim.ID,
		CreatedAt: sim.CreatedAt,
		Params:    sim.Params,
		Result:    sim.Result,
		Summary:   summary.Build(sim.Result),
		Chart:     chart.Build(sim.Result, locale),
	}
}
