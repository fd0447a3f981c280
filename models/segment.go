package models

// QualityStats is the quality block of a dashboard segment.
type QualityStats struct {
	TotalInspected       Number `json:"totalInspected"`
	TotalPassed          Number `json:"totalPassed"`
	TotalDefects         Number `json:"totalDefects"`
	TotalDefectivePieces Number `json:"totalDefectivePieces"`
	RFTPercent           Number `json:"rftPercent"`
	DHUPercent           Number `json:"dhuPercent"`
	DefectRatePercent    Number `json:"defectRatePercent"`
	CurrentHour          Number `json:"currentHour"`
	CurrentHourLabel     string `json:"currentHourLabel,omitempty"`
}

// ProductionStats is the production block of a dashboard segment.
type ProductionStats struct {
	TargetQty              Number `json:"targetQty"`
	AchievedQty            Number `json:"achievedQty"`
	VarianceQty            Number `json:"varianceQty"`
	CurrentHourEfficiency  Number `json:"currentHourEfficiency"`
	AvgEffPercent          Number `json:"avgEffPercent"`
	CurrentHour            Number `json:"currentHour"`
	ManpowerPresent        Number `json:"manpowerPresent"`
	PrevWorkingDate        string `json:"prevWorkingDate,omitempty"`
	PrevWorkingAchievedQty Number `json:"prevWorkingAchievedQty"`
}

// Segment is one (line, buyer, style) unit on the floor dashboard.
type Segment struct {
	Line       string          `json:"line"`
	Buyer      string          `json:"buyer"`
	Style      string          `json:"style"`
	ColorModel string          `json:"color_model,omitempty"`
	Quality    QualityStats    `json:"quality"`
	Production ProductionStats `json:"production"`
}

// DashboardResponse is the /api/floor-dashboard envelope. Older backends put
// the segments under "data" instead of "lines".
type DashboardResponse struct {
	Success bool      `json:"success"`
	Lines   []Segment `json:"lines,omitempty"`
	Data    []Segment `json:"data,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Segments returns whichever list the backend populated.
func (r DashboardResponse) Segments() []Segment {
	if len(r.Lines) > 0 {
		return r.Lines
	}
	return r.Data
}
