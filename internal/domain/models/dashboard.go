package models

import "time"

// Tile is one summary figure as displayed.
type Tile struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Point is one labelled chart value.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is a named chart line or bar set, keyed by the record field it plots.
type Series struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// DashboardView is an immutable copy of the dashboard state together with
// everything derived from it.
type DashboardView struct {
	Assets     []AssetInfo  `json:"assets"`
	Selected   Asset        `json:"selected"`
	Loading    bool         `json:"loading"`
	Error      string       `json:"error,omitempty"`
	Records    []YearRecord `json:"records"`
	Summary    *Summary     `json:"summary"`
	Tiles      []Tile       `json:"tiles"`
	Returns    Series       `json:"returns"`
	Risk       []Series     `json:"risk"`
	Generation uint64       `json:"generation"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Ready reports whether the view has data to show: not loading and no error.
func (v DashboardView) Ready() bool {
	return !v.Loading && v.Error == "" && v.Summary != nil
}
