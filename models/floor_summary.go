package models

import "encoding/json"

// LineSummary is one line's totals for the summary report.
type LineSummary struct {
	Building        string `json:"building"`
	Line            string `json:"line"`
	TargetQty       Number `json:"targetQty"`
	AchievedQty     Number `json:"achievedQty"`
	Inspected       Number `json:"totalInspected"`
	Passed          Number `json:"totalPassed"`
	Defects         Number `json:"totalDefects"`
	DefectivePieces Number `json:"totalDefectivePieces"`
	AvgEffPercent   Number `json:"avgEffPercent"`
}

// BuildingSummary is one building's totals for the summary report.
type BuildingSummary struct {
	Building        string `json:"building"`
	TargetQty       Number `json:"targetQty"`
	AchievedQty     Number `json:"achievedQty"`
	Inspected       Number `json:"totalInspected"`
	Passed          Number `json:"totalPassed"`
	Defects         Number `json:"totalDefects"`
	DefectivePieces Number `json:"totalDefectivePieces"`
}

// FloorSummaryResponse is the /api/floor-summary payload. The best line and
// best building selections are computed upstream and passed through as-is.
type FloorSummaryResponse struct {
	Success               bool              `json:"success"`
	Summary               CompareTotals     `json:"summary"`
	Lines                 []LineSummary     `json:"lines"`
	Buildings             []BuildingSummary `json:"buildings"`
	BestLineSelection     json.RawMessage   `json:"bestLineSelection,omitempty"`
	BestBuildingSelection json.RawMessage   `json:"bestBuildingSelection,omitempty"`
	Message               string            `json:"message,omitempty"`
}
