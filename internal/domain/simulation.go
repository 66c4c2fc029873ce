package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DividendTaxRate is the withholding applied to every dividend before it is reinvested
const DividendTaxRate = 0.15

// SimulationParams holds the normalized inputs of a growth simulation
type SimulationParams struct {
	InitialPrincipal float64 `json:"initialPrincipal"`
	MonthlyDeposit   float64 `json:"monthlyDeposit"`
	AnnualYieldRate  float64 `json:"annualYieldRate"`  // Fraction, e.g. 0.035 for 3.5%
	AnnualGrowthRate float64 `json:"annualGrowthRate"` // Fraction, may be negative
	Years            int     `json:"years"`
}

// Key returns a canonical representation of the params, suitable as a cache key
func (p SimulationParams) Key() string {
	return fmt.Sprintf("%g|%g|%g|%g|%d",
		p.InitialPrincipal,
		p.MonthlyDeposit,
		p.AnnualYieldRate,
		p.AnnualGrowthRate,
		p.Years,
	)
}

// SimulationState is the running portfolio state, updated once per simulated month
// Invariant: CurrentTotal == TotalPrincipal + CapitalGains + TotalDividends
type SimulationState struct {
	CurrentTotal   float64
	TotalPrincipal float64
	CapitalGains   float64
	TotalDividends float64
}

// MonthSnapshot is the state as of the end of a simulated month (1-based)
type MonthSnapshot struct {
	Month int
	State SimulationState
}

// SimulationResult holds the year-indexed series and the final totals of a simulation
// All series are aligned with Labels; series values are rounded to whole currency units.
type SimulationResult struct {
	Labels          []int   `json:"labels"`
	PrincipalSeries []int64 `json:"principalSeries"`
	GrowthSeries    []int64 `json:"growthSeries"`
	DividendSeries  []int64 `json:"dividendSeries"`
	FinalTotal      float64 `json:"finalTotal"`
	FinalDividends  float64 `json:"finalDividends"`
	FinalPrincipal  float64 `json:"finalPrincipal"`
}

// Simulation is a stored calculation
type Simulation struct {
	ID        uuid.UUID        `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Params    SimulationParams `json:"params"`
	Result    SimulationResult `json:"result"`
}
