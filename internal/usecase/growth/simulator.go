package growth

import (
	"math"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwise-backend/internal/domain"
)

const monthsPerYear = 12

// Simulate runs the month-by-month compound growth simulation for params.
// It never fails: Years <= 0 yields empty series and a final state equal to the initial principal.
func Simulate(params domain.SimulationParams) domain.SimulationResult {
	return Run(params, nil)
}

// Run is Simulate with an observer that receives the state at the end of every month.
// observe may be nil.
//
// Each month, in order:
//  1. The deposit is added to the total and to the principal
//  2. Price growth is applied with the monthly equivalent of the annual rate
//  3. The after-tax dividend is computed on the grown total and reinvested
//  4. At every 12th month the rounded accumulators are appended to the series
func Run(params domain.SimulationParams, observe func(domain.MonthSnapshot)) domain.SimulationResult {
	params = sanitize(params)

	years := params.Years
	if years < 0 {
		years = 0
	}

	state := domain.SimulationState{
		CurrentTotal:   params.InitialPrincipal,
		TotalPrincipal: params.InitialPrincipal,
	}

	result := domain.SimulationResult{
		Labels:          make([]int, 0, years),
		PrincipalSeries: make([]int64, 0, years),
		GrowthSeries:    make([]int64, 0, years),
		DividendSeries:  make([]int64, 0, years),
	}

	monthlyFactor := MonthlyGrowthFactor(params.AnnualGrowthRate)

	for m := 1; m <= years*monthsPerYear; m++ {
		// Deposit at the start of the month
		state.CurrentTotal += params.MonthlyDeposit
		state.TotalPrincipal += params.MonthlyDeposit

		// Price appreciation on everything held, including this month's deposit
		monthlyGrowth := state.CurrentTotal * monthlyFactor
		state.CapitalGains += monthlyGrowth
		state.CurrentTotal += monthlyGrowth

		// Dividend on the grown total, net of withholding, reinvested immediately
		monthlyDividend := state.CurrentTotal * (params.AnnualYieldRate / monthsPerYear) * (1 - domain.DividendTaxRate)
		state.TotalDividends += monthlyDividend
		state.CurrentTotal += monthlyDividend

		if m%monthsPerYear == 0 {
			result.Labels = append(result.Labels, m/monthsPerYear)
			result.PrincipalSeries = append(result.PrincipalSeries, RoundUnit(state.TotalPrincipal))
			result.GrowthSeries = append(result.GrowthSeries, RoundUnit(state.CapitalGains))
			result.DividendSeries = append(result.DividendSeries, RoundUnit(state.TotalDividends))
		}

		if observe != nil {
			observe(domain.MonthSnapshot{Month: m, State: state})
		}
	}

	result.FinalTotal = state.CurrentTotal
	result.FinalDividends = state.TotalDividends
	result.FinalPrincipal = state.TotalPrincipal

	return result
}

// MonthlyGrowthFactor converts an annual rate into the equivalent monthly compounding rate,
// (1 + annual)^(1/12) - 1. Rates at or below -100% return -1.
func MonthlyGrowthFactor(annualRate float64) float64 {
	if annualRate <= -1 {
		return -1
	}
	return math.Pow(1+annualRate, 1.0/monthsPerYear) - 1
}

// RoundUnit rounds v to the nearest whole currency unit, half away from zero.
// Non-finite values round to 0 and values outside the int64 range saturate.
func RoundUnit(v float64) int64 {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return decimal.NewFromFloat(v).Round(0).IntPart()
}

// sanitize replaces non-finite inputs with 0 so that the loop stays well defined
func sanitize(p domain.SimulationParams) domain.SimulationParams {
	p.InitialPrincipal = finiteOrZero(p.InitialPrincipal)
	p.MonthlyDeposit = finiteOrZero(p.MonthlyDeposit)
	p.AnnualYieldRate = finiteOrZero(p.AnnualYieldRate)
	p.AnnualGrowthRate = finiteOrZero(p.AnnualGrowthRate)
	return p
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
