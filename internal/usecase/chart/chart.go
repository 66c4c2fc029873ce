package chart

import (
	"fmt"

	"github.com/simaogato/stockwise-backend/internal/domain"
	"github.com/simaogato/stockwise-backend/internal/usecase/summary"
)

// Series keys, in stacking order from the bottom up
const (
	SeriesPrincipal = "principal"
	SeriesGrowth    = "growth"
	SeriesDividends = "dividends"
)

// Fixed category colors
const (
	ColorIndigo = "#6366f1"
	ColorBlue   = "#3b82f6"
	ColorTeal   = "#2dd4bf"
)

// Config describes a stacked bar chart. A front end renders it as-is;
// a new result always produces a whole new Config.
type Config struct {
	Type     string    `json:"type"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	Options  Options   `json:"options"`
}

// Dataset is one stacked series. Tooltips holds the rendered tooltip line for each point.
type Dataset struct {
	Key             string   `json:"key"`
	Label           string   `json:"label"`
	Data            []int64  `json:"data"`
	Tooltips        []string `json:"tooltips"`
	BackgroundColor string   `json:"backgroundColor"`
	BorderRadius    int      `json:"borderRadius"`
}

// Options holds the rendering options the front end must honor
type Options struct {
	Stacked     bool    `json:"stacked"`
	Legend      Legend  `json:"legend"`
	Tooltip     Tooltip `json:"tooltip"`
	ValuePrefix string  `json:"valuePrefix"` // Prefix for axis ticks, values use thousands separators
}

// Legend places the dataset legend relative to the chart
type Legend struct {
	Position string `json:"position"`
}

// Tooltip controls which datasets a hover tooltip covers. Index mode with
// Intersect false shows every segment of the hovered year.
type Tooltip struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type labels struct {
	principal string
	growth    string
	dividends string
	year      string // fmt pattern taking the year number
}

var localized = map[domain.Locale]labels{
	domain.LocaleEnglish: {
		principal: "Principal",
		growth:    "Price Growth",
		dividends: "Dividends",
		year:      "Year %d",
	},
	domain.LocaleKorean: {
		principal: "원금",
		growth:    "주가 수익",
		dividends: "배당 수익",
		year:      "%d년",
	},
}

// Build returns the stacked bar chart for a simulation result
func Build(result domain.SimulationResult, locale domain.Locale) Config {
	text, ok := localized[locale]
	if !ok {
		text = localized[domain.LocaleEnglish]
	}

	yearLabels := make([]string, len(result.Labels))
	for i, year := range result.Labels {
		yearLabels[i] = fmt.Sprintf(text.year, year)
	}

	return Config{
		Type:   "bar",
		Labels: yearLabels,
		Datasets: []Dataset{
			newDataset(SeriesPrincipal, text.principal, result.PrincipalSeries, ColorIndigo),
			newDataset(SeriesGrowth, text.growth, result.GrowthSeries, ColorBlue),
			newDataset(SeriesDividends, text.dividends, result.DividendSeries, ColorTeal),
		},
		Options: Options{
			Stacked:     true,
			Legend:      Legend{Position: "bottom"},
			Tooltip:     Tooltip{Mode: "index", Intersect: false},
			ValuePrefix: "$",
		},
	}
}

func newDataset(key, label string, series []int64, color string) Dataset {
	data := make([]int64, len(series))
	copy(data, series)

	tooltips := make([]string, len(series))
	for i, v := range series {
		tooltips[i] = label + ": " + summary.FormatUnits(v)
	}

	return Dataset{
		Key:             key,
		Label:           label,
		Data:            data,
		Tooltips:        tooltips,
		BackgroundColor: color,
		BorderRadius:    4,
	}
}
