package models

// SelectAssetRequest is the body of PUT /api/dashboard/asset.
type SelectAssetRequest struct {
	Symbol string `json:"symbol" validate:"required,alphanum,min=2,max=10"`
}

// AnalysisRequest binds GET /api/analysis/:symbol.
type AnalysisRequest struct {
	Symbol string `param:"symbol" json:"symbol" validate:"required,alphanum,min=2,max=10"`
}

// AnalysisResult is one asset's records with their summary.
type AnalysisResult struct {
	Asset   Asset        `json:"asset"`
	Records []YearRecord `json:"records"`
	Summary *Summary     `json:"summary"`
	Tiles   []Tile       `json:"tiles"`
}
