package metrics

import "floorwatch/models"

// QualityTotals sums raw inspection counts. Percentages are always derived
// from the sums, never averaged.
type QualityTotals struct {
	Inspected       float64 `json:"totalInspected"`
	Passed          float64 `json:"totalPassed"`
	Defects         float64 `json:"totalDefects"`
	DefectivePieces float64 `json:"totalDefectivePieces"`
}

func (q *QualityTotals) Add(o QualityTotals) {
	q.Inspected += o.Inspected
	q.Passed += o.Passed
	q.Defects += o.Defects
	q.DefectivePieces += o.DefectivePieces
}

func (q QualityTotals) RFT() float64        { return RFTPercent(q.Passed, q.Inspected) }
func (q QualityTotals) DHU() float64        { return DHUPercent(q.Defects, q.Inspected) }
func (q QualityTotals) DefectRate() float64 { return DefectRatePercent(q.DefectivePieces, q.Inspected) }

// QualityOf lifts a segment's quality counts.
func QualityOf(s models.QualityStats) QualityTotals {
	return QualityTotals{
		Inspected:       s.TotalInspected.Float(),
		Passed:          s.TotalPassed.Float(),
		Defects:         s.TotalDefects.Float(),
		DefectivePieces: s.TotalDefectivePieces.Float(),
	}
}

// ProductionTotals sums target and achieved quantities.
type ProductionTotals struct {
	Target   float64 `json:"targetQty"`
	Achieved float64 `json:"achievedQty"`
	Variance float64 `json:"varianceQty"`
	Manpower float64 `json:"manpowerPresent"`
}

func (p *ProductionTotals) Add(o ProductionTotals) {
	p.Target += o.Target
	p.Achieved += o.Achieved
	p.Variance += o.Variance
	p.Manpower += o.Manpower
}

func (p ProductionTotals) Plan() float64 { return PlanPercent(p.Target, p.Achieved) }

// ProductionOf lifts a segment's production counts.
func ProductionOf(s models.ProductionStats) ProductionTotals {
	return ProductionTotals{
		Target:   s.TargetQty.Float(),
		Achieved: s.AchievedQty.Float(),
		Variance: s.VarianceQty.Float(),
		Manpower: s.ManpowerPresent.Float(),
	}
}

// Summary is the global summary card set for a dashboard.
type Summary struct {
	Segments          int              `json:"segments"`
	Production        ProductionTotals `json:"production"`
	Quality           QualityTotals    `json:"quality"`
	PlanPercent       float64          `json:"planPercent"`
	RFTPercent        float64          `json:"rftPercent"`
	DHUPercent        float64          `json:"dhuPercent"`
	DefectRatePercent float64          `json:"defectRatePercent"`
}

// Summarize sums every segment's raw counts and derives the percents from
// the sums.
func Summarize(segments []models.Segment) Summary {
	var s Summary
	for _, seg := range segments {
		s.Production.Add(ProductionOf(seg.Production))
		s.Quality.Add(QualityOf(seg.Quality))
	}
	s.Segments = len(segments)
	s.PlanPercent = s.Production.Plan()
	s.RFTPercent = s.Quality.RFT()
	s.DHUPercent = s.Quality.DHU()
	s.DefectRatePercent = s.Quality.DefectRate()
	return s
}
