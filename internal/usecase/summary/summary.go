package summary

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockwise-backend/internal/domain"
)

// NotAvailable is displayed in place of a value that cannot be computed
const NotAvailable = "N/A"

var hundred = decimal.NewFromInt(100)

// Summary is the textual result of a calculation, plus the numbers behind it
type Summary struct {
	FinalAsset     string `json:"finalAsset"`
	TotalDividends string `json:"totalDividends"`
	ROI            string `json:"roi"`

	FinalAssetValue     decimal.Decimal  `json:"finalAssetValue"`
	TotalDividendsValue decimal.Decimal  `json:"totalDividendsValue"`
	PrincipalValue      decimal.Decimal  `json:"principalValue"`
	ROIPercent          *decimal.Decimal `json:"roiPercent"` // nil when the principal is zero
}

// Build renders the summary of a simulation result.
// Amounts are rounded to whole currency units and ROI to one decimal place.
func Build(result domain.SimulationResult) Summary {
	total := toDecimal(result.FinalTotal)
	dividends := toDecimal(result.FinalDividends)
	principal := toDecimal(result.FinalPrincipal)

	s := Summary{
		FinalAsset:          FormatCurrency(total),
		TotalDividends:      FormatCurrency(dividends),
		ROI:                 NotAvailable,
		FinalAssetValue:     total.Round(2),
		TotalDividendsValue: dividends.Round(2),
		PrincipalValue:      principal.Round(2),
	}

	if roi, ok := ROI(result.FinalTotal, result.FinalPrincipal); ok {
		s.ROIPercent = &roi
		s.ROI = roi.StringFixed(1) + "%"
	}

	return s
}

// ROI returns (total - principal) / principal * 100, rounded to one decimal place.
// ok is false when the ratio is undefined (zero principal or non-finite inputs).
func ROI(total, principal float64) (roi decimal.Decimal, ok bool) {
	if principal == 0 || !isFinite(total) || !isFinite(principal) {
		return decimal.Zero, false
	}
	t := decimal.NewFromFloat(total)
	p := decimal.NewFromFloat(principal)
	return t.Sub(p).Div(p).Mul(hundred).Round(1), true
}

// FormatCurrency renders an amount as whole dollars with thousands separators, e.g. "$1,234,567"
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + "$" + groupThousands(rounded.String())
}

// FormatUnits is FormatCurrency for an already rounded series value
func FormatUnits(units int64) string {
	return FormatCurrency(decimal.NewFromInt(units))
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func toDecimal(v float64) decimal.Decimal {
	if !isFinite(v) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
