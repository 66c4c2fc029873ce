package growth

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

// sampleParams covers growth, decline, wipe-out and deposit-only portfolios
var sampleParams = []domain.SimulationParams{
	{InitialPrincipal: 10000, MonthlyDeposit: 500, AnnualYieldRate: 0.035, AnnualGrowthRate: 0.07, Years: 20},
	{InitialPrincipal: 50000, MonthlyDeposit: 0, AnnualYieldRate: 0.08, AnnualGrowthRate: -0.25, Years: 10},
	{InitialPrincipal: 1000, MonthlyDeposit: 100, AnnualYieldRate: 0.05, AnnualGrowthRate: -1, Years: 3},
	{InitialPrincipal: 0, MonthlyDeposit: 250, AnnualYieldRate: 1, AnnualGrowthRate: 0.3, Years: 20},
	{InitialPrincipal: 1234.56, MonthlyDeposit: 78.9, AnnualYieldRate: 0, AnnualGrowthRate: 0, Years: 1},
}

func TestSimulate_ZeroHorizon(t *testing.T) {
	for _, years := range []int{0, -5} {
		result := Simulate(domain.SimulationParams{
			InitialPrincipal: 1000,
			MonthlyDeposit:   0,
			AnnualYieldRate:  0.05,
			AnnualGrowthRate: 0.1,
			Years:            years,
		})

		assert.NotNil(t, result.Labels)
		assert.Empty(t, result.Labels)
		assert.Empty(t, result.PrincipalSeries)
		assert.Empty(t, result.GrowthSeries)
		assert.Empty(t, result.DividendSeries)

		assert.Equal(t, 1000.0, result.FinalTotal)
		assert.Equal(t, 0.0, result.FinalDividends)
		assert.Equal(t, 1000.0, result.FinalPrincipal)
	}
}

func TestSimulate_ScenarioA_NoGrowthNoDeposits(t *testing.T) {
	result := Simulate(domain.SimulationParams{
		InitialPrincipal: 1000,
		Years:            5,
	})

	assert.Equal(t, []int{1, 2, 3, 4, 5}, result.Labels)
	assert.Equal(t, []int64{1000, 1000, 1000, 1000, 1000}, result.PrincipalSeries)
	assert.Equal(t, []int64{0, 0, 0, 0, 0}, result.GrowthSeries)
	assert.Equal(t, []int64{0, 0, 0, 0, 0}, result.DividendSeries)

	assert.Equal(t, 1000.0, result.FinalTotal)
	assert.Equal(t, 0.0, result.FinalDividends)
	assert.Equal(t, 1000.0, result.FinalPrincipal)
}

func TestSimulate_ScenarioB_DepositsOnly(t *testing.T) {
	result := Simulate(domain.SimulationParams{
		MonthlyDeposit: 100,
		Years:          1,
	})

	assert.Equal(t, 1200.0, result.FinalPrincipal)
	assert.Equal(t, 1200.0, result.FinalTotal)
	assert.Equal(t, 0.0, result.FinalDividends)
	assert.Equal(t, []int64{1200}, result.PrincipalSeries)
}

func TestSimulate_ScenarioC_GrowthCompoundsToAnnualRate(t *testing.T) {
	var gains float64
	result := Run(domain.SimulationParams{
		InitialPrincipal: 1000,
		AnnualGrowthRate: 0.12,
		Years:            1,
	}, func(s domain.MonthSnapshot) {
		gains = s.State.CapitalGains
	})

	expected := 1000 * (math.Pow(1.12, 1) - 1)
	assert.InDelta(t, expected, gains, 1e-6)
	assert.InDelta(t, 1120.0, result.FinalTotal, 1e-6)
	assert.Equal(t, []int64{120}, result.GrowthSeries)
}

func TestSimulate_MultiYearGrowthMatchesClosedForm(t *testing.T) {
	var gains float64
	Run(domain.SimulationParams{
		InitialPrincipal: 2500,
		AnnualGrowthRate: 0.08,
		Years:            15,
	}, func(s domain.MonthSnapshot) {
		gains = s.State.CapitalGains
	})

	expected := 2500 * (math.Pow(1.08, 15) - 1)
	assert.InEpsilon(t, expected, gains, 1e-9)
}

func TestSimulate_DepositPostedBeforeGrowth(t *testing.T) {
	var first domain.MonthSnapshot
	Run(domain.SimulationParams{
		MonthlyDeposit:   100,
		AnnualGrowthRate: 0.12,
		Years:            1,
	}, func(s domain.MonthSnapshot) {
		if s.Month == 1 {
			first = s
		}
	})

	factor := MonthlyGrowthFactor(0.12)
	assert.InDelta(t, 100*factor, first.State.CapitalGains, 1e-12)
	assert.InDelta(t, 100*(1+factor), first.State.CurrentTotal, 1e-12)
}

func TestSimulate_DividendComputedOnGrownTotal(t *testing.T) {
	var first domain.MonthSnapshot
	Run(domain.SimulationParams{
		InitialPrincipal: 1000,
		AnnualYieldRate:  0.12,
		AnnualGrowthRate: 0.12,
		Years:            1,
	}, func(s domain.MonthSnapshot) {
		if s.Month == 1 {
			first = s
		}
	})

	grown := 1000 * (1 + MonthlyGrowthFactor(0.12))
	expectedDividend := grown * 0.01 * 0.85
	assert.InDelta(t, expectedDividend, first.State.TotalDividends, 1e-9)
	assert.InDelta(t, grown+expectedDividend, first.State.CurrentTotal, 1e-9)
}

func TestSimulate_DividendOnlyIsNetOfWithholding(t *testing.T) {
	result := Simulate(domain.SimulationParams{
		InitialPrincipal: 12000,
		AnnualYieldRate:  0.12,
		Years:            1,
	})

	// 1% gross per month, 0.85% net, compounded monthly
	expectedTotal := 12000 * math.Pow(1.0085, 12)
	assert.InEpsilon(t, expectedTotal, result.FinalTotal, 1e-9)
	assert.InEpsilon(t, expectedTotal-12000, result.FinalDividends, 1e-9)
	assert.Equal(t, 12000.0, result.FinalPrincipal)
}

func TestSimulate_AdditiveDecomposition(t *testing.T) {
	for _, params := range sampleParams {
		months := 0
		Run(params, func(s domain.MonthSnapshot) {
			months++
			st := s.State
			sum := st.TotalPrincipal + st.CapitalGains + st.TotalDividends
			tolerance := 1e-6 * math.Max(1, math.Abs(st.CurrentTotal))
			require.InDelta(t, st.CurrentTotal, sum, tolerance, "month %d of %+v", s.Month, params)
		})
		assert.Equal(t, params.Years*12, months)
	}
}

func TestSimulate_Monotonicity(t *testing.T) {
	for _, params := range sampleParams {
		if params.MonthlyDeposit < 0 || params.AnnualYieldRate < 0 || params.AnnualGrowthRate < 0 {
			continue
		}

		prev := domain.SimulationState{
			CurrentTotal:   params.InitialPrincipal,
			TotalPrincipal: params.InitialPrincipal,
		}
		Run(params, func(s domain.MonthSnapshot) {
			st := s.State
			require.GreaterOrEqual(t, st.TotalPrincipal, prev.TotalPrincipal)
			require.GreaterOrEqual(t, st.CapitalGains, prev.CapitalGains)
			require.GreaterOrEqual(t, st.TotalDividends, prev.TotalDividends)
			require.GreaterOrEqual(t, st.CurrentTotal, prev.CurrentTotal)
			prev = st
		})
	}
}

func TestSimulate_SeriesAlignment(t *testing.T) {
	for _, params := range sampleParams {
		result := Simulate(params)

		assert.Len(t, result.Labels, params.Years)
		assert.Len(t, result.PrincipalSeries, params.Years)
		assert.Len(t, result.GrowthSeries, params.Years)
		assert.Len(t, result.DividendSeries, params.Years)

		for i, label := range result.Labels {
			assert.Equal(t, i+1, label)
		}
	}
}

func TestSimulate_RoundingConsistency(t *testing.T) {
	for _, params := range sampleParams {
		var yearEnds []domain.SimulationState
		result := Run(params, func(s domain.MonthSnapshot) {
			if s.Month%12 == 0 {
				yearEnds = append(yearEnds, s.State)
			}
		})

		require.Len(t, yearEnds, len(result.Labels))
		for i, st := range yearEnds {
			assert.Equal(t, RoundUnit(st.TotalPrincipal), result.PrincipalSeries[i])
			assert.Equal(t, RoundUnit(st.CapitalGains), result.GrowthSeries[i])
			assert.Equal(t, RoundUnit(st.TotalDividends), result.DividendSeries[i])
		}
	}
}

func TestSimulate_FinalValuesAreUnrounded(t *testing.T) {
	result := Simulate(domain.SimulationParams{
		InitialPrincipal: 1234.56,
		MonthlyDeposit:   78.9,
		Years:            1,
	})

	assert.InDelta(t, 1234.56+12*78.9, result.FinalPrincipal, 1e-9)
	assert.Equal(t, []int64{2181}, result.PrincipalSeries)
}

func TestSimulate_TotalLossWipesPortfolio(t *testing.T) {
	result := Simulate(domain.SimulationParams{
		InitialPrincipal: 1000,
		AnnualGrowthRate: -1,
		Years:            1,
	})

	assert.InDelta(t, 0, result.FinalTotal, 1e-9)
	assert.Equal(t, int64(-1000), result.GrowthSeries[0])
	assert.Equal(t, 1000.0, result.FinalPrincipal)
}

func TestSimulate_NonFiniteParamsAreTreatedAsZero(t *testing.T) {
	result := Simulate(domain.SimulationParams{
		InitialPrincipal: math.NaN(),
		MonthlyDeposit:   math.Inf(1),
		AnnualYieldRate:  math.NaN(),
		AnnualGrowthRate: math.Inf(-1),
		Years:            2,
	})

	assert.Equal(t, 0.0, result.FinalTotal)
	assert.Equal(t, []int64{0, 0}, result.PrincipalSeries)
}

func TestMonthlyGrowthFactor(t *testing.T) {
	assert.Equal(t, 0.0, MonthlyGrowthFactor(0))
	assert.Equal(t, -1.0, MonthlyGrowthFactor(-1))
	assert.Equal(t, -1.0, MonthlyGrowthFactor(-3))
	assert.InDelta(t, 1.12, math.Pow(1+MonthlyGrowthFactor(0.12), 12), 1e-12)
	assert.Less(t, MonthlyGrowthFactor(0.12), 0.01, "compounded monthly rate is below the flat rate/12")
}

func TestRoundUnit(t *testing.T) {
	assert.Equal(t, int64(3), RoundUnit(2.5))
	assert.Equal(t, int64(-3), RoundUnit(-2.5))
	assert.Equal(t, int64(2), RoundUnit(2.49))
	assert.Equal(t, int64(1000), RoundUnit(999.5))
	assert.Equal(t, int64(0), RoundUnit(math.NaN()))
	assert.Equal(t, int64(0), RoundUnit(math.Inf(1)))
	assert.Equal(t, int64(math.MaxInt64), RoundUnit(1e30))
	assert.Equal(t, int64(math.MinInt64), RoundUnit(-1e30))
}
