// Package grade scores the quality of a stock's dividend from its yield,
// payout ratio and five-year average yield.
//
// The score is the sum of four parts:
//   - yield, up to 40 points
//   - payout ratio, up to 30 points, with wider bands for real estate
//   - stability, up to 30 points, by deviation from the five-year average yield
//   - a 5 point bonus for moderate yields that already score 50 or more
package grade

import (
	"fmt"
	"math"
	"strings"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

// Grade is a dividend quality tier, S being the best
type Grade string

const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

// Metrics are the inputs of a grade. Percentages are plain numbers, so a 3.5%
// yield is 3.5 and a 60% payout ratio is 60.
type Metrics struct {
	DividendYield    float64 `json:"dividendYield"`
	PayoutRatio      float64 `json:"payoutRatio"`
	FiveYearAvgYield float64 `json:"fiveYearAvgYield"`
	Sector           string  `json:"sector"`
}

// Breakdown holds the points awarded by each part of the score
type Breakdown struct {
	Yield     int `json:"yield"`
	Payout    int `json:"payout"`
	Stability int `json:"stability"`
	Bonus     int `json:"bonus"`
}

// Result is a graded set of metrics
type Result struct {
	Metrics   Metrics   `json:"metrics"`
	REIT      bool      `json:"reit"`
	Score     int       `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
	Grade     Grade     `json:"grade"`
	Label     string    `json:"label"`
}

// Evaluate grades m and labels the grade for locale
func Evaluate(m Metrics, locale domain.Locale) (Result, error) {
	for name, v := range map[string]float64{
		"dividendYield":    m.DividendYield,
		"payoutRatio":      m.PayoutRatio,
		"fiveYearAvgYield": m.FiveYearAvgYield,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidMetrics, name)
		}
	}
	if m.DividendYield < 0 || m.FiveYearAvgYield < 0 {
		return Result{}, fmt.Errorf("%w: yields cannot be negative", domain.ErrInvalidMetrics)
	}
	m.Sector = strings.TrimSpace(m.Sector)

	reit := IsREIT(m.Sector)
	b := Breakdown{
		Yield:     yieldPoints(m.DividendYield),
		Payout:    payoutPoints(m.PayoutRatio, reit),
		Stability: stabilityPoints(m.DividendYield, m.FiveYearAvgYield),
	}
	if m.DividendYield >= 2 && m.DividendYield <= 5 && b.Yield+b.Payout+b.Stability >= 50 {
		b.Bonus = 5
	}

	score := b.Yield + b.Payout + b.Stability + b.Bonus
	g := gradeFor(score)
	return Result{
		Metrics:   m,
		REIT:      reit,
		Score:     score,
		Breakdown: b,
		Grade:     g,
		Label:     Label(g, locale),
	}, nil
}

// IsREIT reports whether sector is real estate, where paying out most of
// taxable income is required
func IsREIT(sector string) bool {
	return sector == "Real Estate" || strings.Contains(strings.ToUpper(sector), "REIT")
}

// Label renders g for display, e.g. "Grade S" or "S등급"
func Label(g Grade, locale domain.Locale) string {
	if locale == domain.LocaleKorean {
		return string(g) + "등급"
	}
	return "Grade " + string(g)
}

func yieldPoints(yield float64) int {
	switch {
	case yield >= 5:
		return 40
	case yield >= 4:
		return 35
	case yield >= 3:
		return 25
	case yield >= 2:
		return 15
	case yield >= 1:
		return 5
	default:
		return 0
	}
}

// payoutPoints scores sustainability. A non-positive ratio scores the second band.
func payoutPoints(ratio float64, reit bool) int {
	safe, fair, risky := 50.0, 70.0, 90.0
	if reit {
		safe, fair, risky = 95, 105, 120
	}

	switch {
	case ratio > 0 && ratio <= safe:
		return 30
	case ratio <= fair:
		return 20
	case ratio <= risky:
		return 10
	default:
		return 0
	}
}

// stabilityPoints compares the current yield with its five-year average.
// Without a history there are no points.
func stabilityPoints(yield, average float64) int {
	if average <= 0 {
		return 0
	}

	deviation := math.Abs(yield-average) / average
	switch {
	case deviation <= 0.1:
		return 30
	case deviation <= 0.2:
		return 20
	case deviation <= 3:
		return 10
	default:
		return 0
	}
}

func gradeFor(score int) Grade {
	switch {
	case score >= 80:
		return GradeS
	case score >= 65:
		return GradeA
	case score >= 50:
		return GradeB
	default:
		return GradeC
	}
}
