package summary

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockwise-backend/internal/domain"
)

func TestBuild(t *testing.T) {
	result := domain.SimulationResult{
		FinalTotal:     1234567.5,
		FinalDividends: 45678.49,
		FinalPrincipal: 1000000,
	}

	s := Build(result)

	assert.Equal(t, "$1,234,568", s.FinalAsset)
	assert.Equal(t, "$45,678", s.TotalDividends)
	assert.Equal(t, "23.5%", s.ROI)
	require.NotNil(t, s.ROIPercent)
	assert.True(t, s.ROIPercent.Equal(decimal.RequireFromString("23.5")))
	assert.True(t, s.FinalAssetValue.Equal(decimal.RequireFromString("1234567.5")))
	assert.True(t, s.PrincipalValue.Equal(decimal.NewFromInt(1000000)))
}

func TestBuild_ZeroPrincipalReportsNotAvailable(t *testing.T) {
	s := Build(domain.SimulationResult{
		FinalTotal:     0,
		FinalDividends: 0,
		FinalPrincipal: 0,
	})

	assert.Equal(t, NotAvailable, s.ROI)
	assert.Nil(t, s.ROIPercent)
	assert.Equal(t, "$0", s.FinalAsset)

	body, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"roiPercent":null`)
	assert.Contains(t, string(body), `"roi":"N/A"`)
}

func TestROI(t *testing.T) {
	tests := []struct {
		name      string
		total     float64
		principal float64
		want      string
		wantOK    bool
	}{
		{name: "Gain", total: 1500, principal: 1000, want: "50", wantOK: true},
		{name: "Loss", total: 900, principal: 1000, want: "-10", wantOK: true},
		{name: "Flat", total: 1000, principal: 1000, want: "0", wantOK: true},
		{name: "Rounded to one decimal", total: 1123.456, principal: 1000, want: "12.3", wantOK: true},
		{name: "Zero principal", total: 500, principal: 0, wantOK: false},
		{name: "Non-finite total", total: math.Inf(1), principal: 1000, wantOK: false},
		{name: "NaN principal", total: 1000, principal: math.NaN(), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roi, ok := ROI(tt.total, tt.principal)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, roi.Equal(decimal.RequireFromString(tt.want)), "got %s", roi)
			}
		})
	}
}

func TestBuild_NegativeROIFormatting(t *testing.T) {
	s := Build(domain.SimulationResult{FinalTotal: 900, FinalPrincipal: 1000})
	assert.Equal(t, "-10.0%", s.ROI)
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "$0"},
		{"999", "$999"},
		{"999.5", "$1,000"},
		{"1000", "$1,000"},
		{"12345.49", "$12,345"},
		{"123456789", "$123,456,789"},
		{"-1234.4", "-$1,234"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "$1,200", FormatUnits(1200))
	assert.Equal(t, "-$5", FormatUnits(-5))
}
