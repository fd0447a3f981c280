package services

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"floorwatch/api/floor"
	"floorwatch/metrics"
	"floorwatch/models"
	"floorwatch/segment"
	"floorwatch/util"
)

// SummaryService serves the floor summary and compare reports with their
// aggregate percents recomputed from raw counts.
type SummaryService struct {
	api    floor.FloorAPI
	logger *zap.Logger
}

// NewSummaryService constructs a SummaryService.
func NewSummaryService(floorAPI floor.FloorAPI, logger *zap.Logger) *SummaryService {
	return &SummaryService{api: floorAPI, logger: logger.Named("SummaryService")}
}

// Summary fetches the floor summary. The top-level totals are re-summed from
// the line rows and lines are ordered by building then line number. Best
// line and building selections pass through untouched.
func (s *SummaryService) Summary(ctx context.Context, q models.SummaryQuery) (*models.FloorSummaryResponse, error) {
	resp, err := s.api.GetFloorSummary(ctx, q)
	if err != nil {
		return nil, err
	}

	if len(resp.Lines) > 0 {
		var production metrics.ProductionTotals
		var quality metrics.QualityTotals
		for _, l := range resp.Lines {
			production.Add(metrics.ProductionTotals{Target: l.TargetQty.Float(), Achieved: l.AchievedQty.Float()})
			quality.Add(metrics.QualityTotals{
				Inspected:       l.Inspected.Float(),
				Passed:          l.Passed.Float(),
				Defects:         l.Defects.Float(),
				DefectivePieces: l.DefectivePieces.Float(),
			})
		}
		resp.Summary = withCounts(resp.Summary, production, quality)
	} else {
		resp.Summary = RecomputeTotals(resp.Summary)
	}

	sort.SliceStable(resp.Lines, func(i, j int) bool {
		a, b := resp.Lines[i], resp.Lines[j]
		if a.Building != b.Building {
			return segment.LessLine(a.Building, b.Building)
		}
		return segment.LessLine(a.Line, b.Line)
	})
	sort.SliceStable(resp.Buildings, func(i, j int) bool {
		return segment.LessLine(resp.Buildings[i].Building, resp.Buildings[j].Building)
	})

	s.logger.Debug("summary loaded", zap.Int("lines", len(resp.Lines)), zap.Int("buildings", len(resp.Buildings)))
	return resp, nil
}

// Compare fetches the floor compare series and recomputes each bucket's
// percents where it carries the counts to do so.
func (s *SummaryService) Compare(ctx context.Context, q models.CompareQuery) (*models.FloorCompareResponse, error) {
	resp, err := s.api.GetFloorCompare(ctx, q)
	if err != nil {
		return nil, err
	}
	resp.Summary = RecomputeTotals(resp.Summary)
	for i := range resp.Series {
		resp.Series[i].CompareTotals = RecomputeTotals(resp.Series[i].CompareTotals)
	}
	s.logger.Debug("compare loaded", zap.Int("buckets", len(resp.Series)))
	return resp, nil
}

// RecomputeTotals derives the percents of t from its raw counts. A percent
// whose denominator is missing keeps the server's value.
func RecomputeTotals(t models.CompareTotals) models.CompareTotals {
	return withCounts(t,
		metrics.ProductionTotals{Target: t.TargetQty.Float(), Achieved: t.AchievedQty.Float()},
		metrics.QualityTotals{
			Inspected:       t.Inspected.Float(),
			Passed:          t.Passed.Float(),
			Defects:         t.Defects.Float(),
			DefectivePieces: t.DefectivePieces.Float(),
		},
	)
}

func withCounts(t models.CompareTotals, p metrics.ProductionTotals, q metrics.QualityTotals) models.CompareTotals {
	t.TargetQty = models.Number(p.Target)
	t.AchievedQty = models.Number(p.Achieved)
	t.Inspected = models.Number(q.Inspected)
	t.Passed = models.Number(q.Passed)
	t.Defects = models.Number(q.Defects)
	t.DefectivePieces = models.Number(q.DefectivePieces)
	if p.Target > 0 {
		t.PlanPercent = models.Number(p.Plan())
	}
	if q.Inspected > 0 {
		t.RFTPercent = models.Number(q.RFT())
		t.DHUPercent = models.Number(q.DHU())
		t.DefectRatePercent = models.Number(q.DefectRate())
	}
	return t
}

// SummaryBars turns summary lines into chart bars labelled by building and
// line.
func SummaryBars(resp *models.FloorSummaryResponse) []util.SummaryBar {
	bars := make([]util.SummaryBar, 0, len(resp.Lines))
	for _, l := range resp.Lines {
		label := l.Line
		if l.Building != "" {
			label = l.Building + " " + l.Line
		}
		bars = append(bars, util.SummaryBar{
			Label:       label,
			PlanPercent: metrics.PlanPercent(l.TargetQty.Float(), l.AchievedQty.Float()),
			RFTPercent:  metrics.RFTPercent(l.Passed.Float(), l.Inspected.Float()),
		})
	}
	return bars
}
