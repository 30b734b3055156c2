// Package presenter turns season records and summaries into display values:
// summary tiles, chart series and a plain-text dashboard.
package presenter

import (
	"fmt"
	"math"
	"strconv"

	"CryptoSeason/internal/domain/models"
)

const (
	TitleAvgReturn     = "Average Return"
	TitlePositiveYears = "Positive Years"
	TitleNegativeYears = "Negative Years"

	SeriesReturn     = "return"
	SeriesVolatility = "volatility"
	SeriesDrawdown   = "drawdown"

	NameReturn     = "Period Return %"
	NameVolatility = "Volatility %"
	NameDrawdown   = "Max Drawdown %"
)

// Tiles returns the three summary tiles, or nil when there is no summary.
func Tiles(s *models.Summary) []models.Tile {
	if s == nil {
		return nil
	}
	return []models.Tile{
		{Title: TitleAvgReturn, Value: FormatPercent(s.AvgReturn)},
		{Title: TitlePositiveYears, Value: strconv.Itoa(s.PositiveYears)},
		{Title: TitleNegativeYears, Value: strconv.Itoa(s.NegativeYears)},
	}
}

// FormatPercent renders v with one decimal and a percent sign. Exact halves
// round away from zero, so 1.25 is "1.3%" and -2.25 is "-2.3%".
func FormatPercent(v float64) string {
	if v == 0 {
		return "0.0%"
	}
	// only multiples of 0.25 can sit exactly on a tie, and %.1f would round
	// those to even
	if q := v * 4; q == math.Trunc(q) && math.Mod(q, 2) != 0 {
		v = math.Round(v*10) / 10
	}
	return fmt.Sprintf("%.1f%%", v)
}

// ReturnBars is the bar series of per-season returns.
func ReturnBars(records []models.YearRecord) models.Series {
	return series(records, SeriesReturn, NameReturn, func(r models.YearRecord) float64 { return r.Return })
}

// RiskLines are the volatility and drawdown line series.
func RiskLines(records []models.YearRecord) []models.Series {
	return []models.Series{
		series(records, SeriesVolatility, NameVolatility, func(r models.YearRecord) float64 { return r.Volatility }),
		series(records, SeriesDrawdown, NameDrawdown, func(r models.YearRecord) float64 { return r.Drawdown }),
	}
}

func series(records []models.YearRecord, key, name string, pick func(models.YearRecord) float64) models.Series {
	pts := make([]models.Point, len(records))
	for i, r := range records {
		pts[i] = models.Point{Label: SeasonLabel(r), Value: pick(r)}
	}
	return models.Series{Key: key, Name: name, Points: pts}
}

// SeasonLabel is the x-axis label of r.
func SeasonLabel(r models.YearRecord) string {
	if r.Label != "" {
		return r.Label
	}
	return strconv.Itoa(r.Year)
}
