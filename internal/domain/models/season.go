package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"CryptoSeason/pkg/util"
)

// YearRecord holds one December-March season's statistics in percent.
type YearRecord struct {
	Year       int      `json:"year"`
	Label      string   `json:"label"`
	Return     float64  `json:"return"`
	Volatility float64  `json:"volatility"`
	Drawdown   float64  `json:"drawdown"`
	StartPrice *float64 `json:"startPrice,omitempty"`
	EndPrice   *float64 `json:"endPrice,omitempty"`
}

// UnmarshalJSON accepts "year" either as a number (2020) or as a season
// label string ("2020-21"); Label keeps the text form.
func (r *YearRecord) UnmarshalJSON(b []byte) error {
	type plain YearRecord
	var raw struct {
		plain
		Year json.RawMessage `json:"year"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = YearRecord(raw.plain)

	y := bytes.TrimSpace(raw.Year)
	switch {
	case len(y) == 0 || bytes.Equal(y, []byte("null")):
	case y[0] == '"':
		var label string
		if err := json.Unmarshal(y, &label); err != nil {
			return fmt.Errorf("year: %w", err)
		}
		year, err := util.ParseSeasonLabel(label)
		if err != nil {
			return fmt.Errorf("year: %w", err)
		}
		r.Year = year
		if r.Label == "" {
			r.Label = label
		}
	default:
		year, err := strconv.Atoi(string(y))
		if err != nil {
			return fmt.Errorf("year: %q is not an integer", y)
		}
		r.Year = year
		if r.Label == "" {
			r.Label = strconv.Itoa(year)
		}
	}
	return nil
}

// AnalysisResponse is the body of GET /api/crypto-analysis/{symbol}.
type AnalysisResponse struct {
	Data []YearRecord `json:"data"`
}

// Summary aggregates a sequence of YearRecord. Percent values are not rounded.
type Summary struct {
	AvgReturn     float64 `json:"avgReturn"`
	PositiveYears int     `json:"positiveYears"`
	NegativeYears int     `json:"negativeYears"`
	BestReturn    float64 `json:"bestReturn"`
	WorstReturn   float64 `json:"worstReturn"`
}

// Snapshot is one successful fetch, as archived by snapshot sinks.
type Snapshot struct {
	Asset     Asset        `json:"asset"`
	FetchedAt time.Time    `json:"fetchedAt"`
	Records   []YearRecord `json:"records"`
	Summary   *Summary     `json:"summary,omitempty"`
}
