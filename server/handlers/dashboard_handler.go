package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"floorwatch/config"
	"floorwatch/models"
	services "floorwatch/service"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
	referenceData    config.ReferenceData
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *services.DashboardService, referenceData config.ReferenceData, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		referenceData:    referenceData,
		logger:           logger.Named("DashboardHandler"),
	}
}

func (h *DashboardHandler) parseArgs(w http.ResponseWriter, r *http.Request) (config.ViewConfig, models.DashboardFilter, bool) {
	vals := r.URL.Query()
	view, err := viewFromQuery(vals)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid argument "+VIEW_QUERY_ARG)
		return config.ViewConfig{}, models.DashboardFilter{}, false
	}
	filter := filterFromQuery(vals)
	if filter.Factory != "" && filter.Building != "" && !h.referenceData.HasBuilding(filter.Factory, filter.Building) {
		writeError(w, h.logger, http.StatusBadRequest, "Unknown building "+filter.Building)
		return config.ViewConfig{}, models.DashboardFilter{}, false
	}
	return view, filter, true
}

// GetDashboard handles GET /v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	view, filter, ok := h.parseArgs(w, r)
	if !ok {
		return
	}
	state, err := h.dashboardService.State(view, filter)
	if err != nil {
		h.logger.Error("error loading dashboard state", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeOK(w, h.logger, state)
}

// ChangeFilter handles POST /v1/dashboard/filter. The query names the
// current filter and the JSON body the new one.
func (h *DashboardHandler) ChangeFilter(w http.ResponseWriter, r *http.Request) {
	view, from, ok := h.parseArgs(w, r)
	if !ok {
		return
	}
	var to models.DashboardFilter
	if err := json.NewDecoder(r.Body).Decode(&to); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if to.Factory != "" && to.Building != "" && !h.referenceData.HasBuilding(to.Factory, to.Building) {
		writeError(w, h.logger, http.StatusBadRequest, "Unknown building "+to.Building)
		return
	}
	state, err := h.dashboardService.Retarget(view, from, to)
	if err != nil {
		h.logger.Error("error loading dashboard state", zap.Error(err))
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeOK(w, h.logger, state)
}

// SetVisibility handles POST /v1/dashboard/visibility
func (h *DashboardHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	view, filter, ok := h.parseArgs(w, r)
	if !ok {
		return
	}
	visible, err := parseArgBool(r.URL.Query(), VISIBLE_QUERY_ARG)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid argument "+VISIBLE_QUERY_ARG)
		return
	}
	h.dashboardService.Poller(view, filter).SetVisible(visible)
	writeOK(w, h.logger, map[string]bool{"visible": visible})
}

// Focus handles POST /v1/dashboard/focus
func (h *DashboardHandler) Focus(w http.ResponseWriter, r *http.Request) {
	view, filter, ok := h.parseArgs(w, r)
	if !ok {
		return
	}
	h.dashboardService.Poller(view, filter).Focus()
	writeOK(w, h.logger, map[string]string{"status": "refreshing"})
}

// Select handles POST /v1/dashboard/select
func (h *DashboardHandler) Select(w http.ResponseWriter, r *http.Request) {
	view, filter, ok := h.parseArgs(w, r)
	if !ok {
		return
	}
	key := r.URL.Query().Get(KEY_QUERY_ARG)
	if key == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid argument "+KEY_QUERY_ARG)
		return
	}
	poller := h.dashboardService.Poller(view, filter)
	if err := poller.Select(key); err != nil {
		writeError(w, h.logger, http.StatusNotFound, err.Error())
		return
	}
	writeOK(w, h.logger, map[string]string{"displayed": poller.Displayed()})
}

// Options handles GET /v1/options
func (h *DashboardHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeOK(w, h.logger, map[string]any{
		"views":     config.ViewNames(),
		"factories": h.referenceData.Factories,
	})
}

// Ping handles GET /ping
func (h *DashboardHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.logger.Debug("pinging server")
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "pong"})
}
