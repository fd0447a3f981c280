package models

// VarianceRecord is one hourly production entry.
type VarianceRecord struct {
	ID                 string `json:"_id,omitempty"`
	HeaderID           string `json:"headerId,omitempty"`
	Hour               Number `json:"hour"`
	HourLabel          string `json:"hourLabel,omitempty"`
	AchievedQty        Number `json:"achievedQty"`
	HourlyTarget       Number `json:"hourlyTarget"`
	VarianceQty        *Number `json:"varianceQty,omitempty"`
	CumulativeVariance Number `json:"cumulativeVariance"`
	HourlyEfficiency   Number `json:"hourlyEfficiency"`
}

// VariancePoint is one bar of the hourly variance chart.
type VariancePoint struct {
	Hour        int     `json:"hour"`
	Label       string  `json:"label"`
	VarianceQty float64 `json:"varianceQty"`
}
