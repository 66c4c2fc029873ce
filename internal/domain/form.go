package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FormValue is a raw form field. It accepts JSON strings and JSON numbers alike,
// since clients send whatever their input widgets produce.
type FormValue string

// UnmarshalJSON implements json.Unmarshaler
func (v *FormValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	// Numbers, booleans and anything else are kept verbatim and coerced later
	*v = FormValue(data)
	return nil
}

// FormInput is the calculator form as submitted by a client.
// DividendYield and StockGrowth are percentages; Duration is in years.
type FormInput struct {
	InitialPrincipal FormValue `json:"initialPrincipal"`
	MonthlyDeposit   FormValue `json:"monthlyDeposit"`
	DividendYield    FormValue `json:"dividendYield"`
	StockGrowth      FormValue `json:"stockGrowth"`
	Duration         FormValue `json:"duration"`
}

const (
	// DefaultMaxYears caps the simulation horizon when no explicit limit is configured
	DefaultMaxYears = 100

	// MaxAmount caps the principal and the monthly deposit
	MaxAmount = 1_000_000_000_000.0

	// MaxAnnualGrowthRate caps the annual price growth (1000%)
	MaxAnnualGrowthRate = 10.0
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// Params normalizes the form into simulation parameters.
//
// Rules:
//   - Unparsable, missing or non-finite numbers become 0
//   - Numbers are read from the longest numeric prefix ("12abc" is 12)
//   - Percentages are converted to fractions
//   - Duration keeps its integer prefix (truncation toward zero), is floored at 0 and capped at
//     maxYears (DefaultMaxYears when maxYears <= 0)
//   - Principal and deposit are clamped to [0,MaxAmount], yield to [0,1], growth to [-1,MaxAnnualGrowthRate]
func (f FormInput) Params(maxYears int) SimulationParams {
	principal := clamp(parseLooseFloat(string(f.InitialPrincipal)), 0, MaxAmount)
	deposit := clamp(parseLooseFloat(string(f.MonthlyDeposit)), 0, MaxAmount)
	yield := clamp(parseLooseFloat(string(f.DividendYield))/100, 0, 1)
	growth := clamp(parseLooseFloat(string(f.StockGrowth))/100, -1, MaxAnnualGrowthRate)

	return SimulationParams{
		InitialPrincipal: principal,
		MonthlyDeposit:   deposit,
		AnnualYieldRate:  yield,
		AnnualGrowthRate: growth,
		Years:            parseLooseYears(string(f.Duration), maxYears),
	}
}

func parseLooseFloat(raw string) float64 {
	match := floatPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func parseLooseYears(raw string, maxYears int) int {
	match := intPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0
	}
	// Parsed as float so that absurdly long digit strings saturate instead of failing
	v, err := strconv.ParseFloat(match, 64)
	if err != nil && !math.IsInf(v, 0) {
		return 0
	}
	if v <= 0 {
		return 0
	}
	if maxYears <= 0 {
		maxYears = DefaultMaxYears
	}
	if v > float64(maxYears) {
		return maxYears
	}
	return int(v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
