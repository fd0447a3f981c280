package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"floorwatch/models"
	services "floorwatch/service"
	"floorwatch/util"
)

// ReportHandler serves the summary and compare reports and the echarts
// pages built from them.
type ReportHandler struct {
	summaryService   *services.SummaryService
	dashboardService *services.DashboardService
	logger           *zap.Logger
}

func NewReportHandler(summaryService *services.SummaryService, dashboardService *services.DashboardService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		summaryService:   summaryService,
		dashboardService: dashboardService,
		logger:           logger.Named("ReportHandler"),
	}
}

func summaryQuery(vals url.Values) models.SummaryQuery {
	return models.SummaryQuery{
		Factory:  vals.Get(FACTORY_QUERY_ARG),
		Date:     vals.Get(DATE_QUERY_ARG),
		Building: vals.Get(BUILDING_QUERY_ARG),
	}
}

func compareQuery(vals url.Values) models.CompareQuery {
	return models.CompareQuery{
		Factory:  vals.Get(FACTORY_QUERY_ARG),
		From:     vals.Get(FROM_QUERY_ARG),
		To:       vals.Get(TO_QUERY_ARG),
		GroupBy:  vals.Get(GROUP_BY_QUERY_ARG),
		Line:     vals.Get(LINE_QUERY_ARG),
		Building: vals.Get(BUILDING_QUERY_ARG),
	}
}

// GetSummary handles GET /v1/summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	resp, err := h.summaryService.Summary(r.Context(), summaryQuery(r.URL.Query()))
	if err != nil {
		writeUpstreamError(w, h.logger, err, "Failed to load floor summary")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// GetCompare handles GET /v1/compare
func (h *ReportHandler) GetCompare(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	if vals.Get(FROM_QUERY_ARG) == "" || vals.Get(TO_QUERY_ARG) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid argument from/to")
		return
	}
	resp, err := h.summaryService.Compare(r.Context(), compareQuery(vals))
	if err != nil {
		writeUpstreamError(w, h.logger, err, "Failed to load floor compare")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// writeHTML renders into a buffer first so a failed render still gets a
// clean error response.
func (h *ReportHandler) writeHTML(w http.ResponseWriter, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.logger.Error("error rendering chart", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("error writing chart", zap.Error(err))
	}
}

// VarianceChart handles GET /v1/charts/variance. Without a key it charts
// the segment the view is displaying.
func (h *ReportHandler) VarianceChart(w http.ResponseWriter, r *http.Request) {
	vals := r.URL.Query()
	view, err := viewFromQuery(vals)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid argument "+VIEW_QUERY_ARG)
		return
	}
	filter := filterFromQuery(vals)
	key := vals.Get(KEY_QUERY_ARG)
	if key == "" {
		key = h.dashboardService.Poller(view, filter).Displayed()
	}
	if key == "" {
		writeError(w, h.logger, http.StatusNotFound, "No segment selected")
		return
	}

	points, err := h.dashboardService.Variance(filter, key)
	if err != nil {
		writeError(w, h.logger, http.StatusNotFound, err.Error())
		return
	}
	h.writeHTML(w, func(buf *bytes.Buffer) error {
		return util.RenderVarianceChart(buf, fmt.Sprintf("Hourly variance %s", key), points)
	})
}

// CompareChart handles GET /v1/charts/compare
func (h *ReportHandler) CompareChart(w http.ResponseWriter, r *http.Request) {
	q := compareQuery(r.URL.Query())
	resp, err := h.summaryService.Compare(r.Context(), q)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "Failed to load floor compare")
		return
	}
	h.writeHTML(w, func(buf *bytes.Buffer) error {
		return util.RenderCompareChart(buf, fmt.Sprintf("%s %s to %s", q.Factory, q.From, q.To), resp.Series)
	})
}

// SummaryChart handles GET /v1/charts/summary
func (h *ReportHandler) SummaryChart(w http.ResponseWriter, r *http.Request) {
	q := summaryQuery(r.URL.Query())
	resp, err := h.summaryService.Summary(r.Context(), q)
	if err != nil {
		writeUpstreamError(w, h.logger, err, "Failed to load floor summary")
		return
	}
	h.writeHTML(w, func(buf *bytes.Buffer) error {
		return util.RenderSummaryChart(buf, fmt.Sprintf("%s %s", q.Factory, q.Date), services.SummaryBars(resp))
	})
}
