package models

import "encoding/json"

// CompareTotals are the raw counts and percents for one compare bucket or
// for the whole requested range.
type CompareTotals struct {
	TargetQty         Number `json:"targetQty"`
	AchievedQty       Number `json:"achievedQty"`
	Inspected         Number `json:"totalInspected"`
	Passed            Number `json:"totalPassed"`
	Defects           Number `json:"totalDefects"`
	DefectivePieces   Number `json:"totalDefectivePieces"`
	PlanPercent       Number `json:"planPercent"`
	RFTPercent        Number `json:"rftPercent"`
	DHUPercent        Number `json:"dhuPercent"`
	DefectRatePercent Number `json:"defectRatePercent"`
}

// ComparePoint is one time bucket of a compare series.
type ComparePoint struct {
	Bucket string `json:"bucket"`
	CompareTotals
}

// FloorCompareResponse is the /api/floor-compare payload. Rows and meta are
// passed through untouched.
type FloorCompareResponse struct {
	Success bool            `json:"success"`
	Summary CompareTotals   `json:"summary"`
	Series  []ComparePoint  `json:"series"`
	Rows    json.RawMessage `json:"rows,omitempty"`
	Meta    json.RawMessage `json:"meta,omitempty"`
	Message string          `json:"message,omitempty"`
}
