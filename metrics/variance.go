package metrics

import (
	"fmt"
	"sort"

	"floorwatch/models"
)

// VarianceSeries orders hourly records by hour and yields one chart point
// per record. A reported variance, zero included, is used as is. Records
// without one fall back to achieved minus the hourly target, or zero when
// no target is known.
func VarianceSeries(records []models.VarianceRecord, hourlyTarget float64) []models.VariancePoint {
	sorted := make([]models.VarianceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Hour < sorted[j].Hour
	})

	out := make([]models.VariancePoint, 0, len(sorted))
	for _, r := range sorted {
		var variance float64
		if r.VarianceQty != nil {
			variance = r.VarianceQty.Float()
		} else {
			target := r.HourlyTarget.Float()
			if target <= 0 {
				target = hourlyTarget
			}
			if target > 0 {
				variance = r.AchievedQty.Float() - target
			}
		}
		label := r.HourLabel
		if label == "" {
			label = fmt.Sprintf("H%d", r.Hour.Int())
		}
		out = append(out, models.VariancePoint{
			Hour:        r.Hour.Int(),
			Label:       label,
			VarianceQty: variance,
		})
	}
	return out
}
