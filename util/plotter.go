package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"floorwatch/models"
)

const (
	positiveColor = "#16a34a"
	negativeColor = "#dc2626"
)

func chartInit(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     "900px",
		Height:    "420px",
	})
}

// RenderVarianceChart writes an HTML bar chart of hourly variance. Bars
// below target are red, at or above target green.
func RenderVarianceChart(w io.Writer, title string, points []models.VariancePoint) error {
	labels := make([]string, 0, len(points))
	data := make([]opts.BarData, 0, len(points))
	for _, p := range points {
		color := positiveColor
		if p.VarianceQty < 0 {
			color = negativeColor
		}
		labels = append(labels, p.Label)
		data = append(data, opts.BarData{
			Value:     p.VarianceQty,
			ItemStyle: &opts.ItemStyle{Color: color},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		chartInit(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("Variance", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
	)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render variance chart: %w", err)
	}
	return nil
}

// RenderCompareChart writes an HTML line chart of plan %, RFT % and DHU %
// per compare bucket.
func RenderCompareChart(w io.Writer, title string, series []models.ComparePoint) error {
	buckets := make([]string, 0, len(series))
	plan := make([]opts.LineData, 0, len(series))
	rft := make([]opts.LineData, 0, len(series))
	dhu := make([]opts.LineData, 0, len(series))
	for _, p := range series {
		buckets = append(buckets, p.Bucket)
		plan = append(plan, opts.LineData{Value: p.PlanPercent.Float()})
		rft = append(rft, opts.LineData{Value: p.RFTPercent.Float()})
		dhu = append(dhu, opts.LineData{Value: p.DHUPercent.Float()})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		chartInit(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(buckets).
		AddSeries("Plan %", plan).
		AddSeries("RFT %", rft).
		AddSeries("DHU %", dhu)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render compare chart: %w", err)
	}
	return nil
}

// SummaryBar is one bar group of the summary chart.
type SummaryBar struct {
	Label       string
	PlanPercent float64
	RFTPercent  float64
}

// RenderSummaryChart writes an HTML grouped bar chart of plan % and RFT %
// per line or building.
func RenderSummaryChart(w io.Writer, title string, bars []SummaryBar) error {
	labels := make([]string, 0, len(bars))
	plan := make([]opts.BarData, 0, len(bars))
	rft := make([]opts.BarData, 0, len(bars))
	for _, b := range bars {
		labels = append(labels, b.Label)
		plan = append(plan, opts.BarData{Value: b.PlanPercent})
		rft = append(rft, opts.BarData{Value: b.RFTPercent})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		chartInit(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Max: 100}),
	)
	bar.SetXAxis(labels).
		AddSeries("Plan %", plan).
		AddSeries("RFT %", rft)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render summary chart: %w", err)
	}
	return nil
}
