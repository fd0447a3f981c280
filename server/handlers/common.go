package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"floorwatch/api"
	"floorwatch/config"
	"floorwatch/models"
)

const (
	VIEW_QUERY_ARG     = "view"
	FACTORY_QUERY_ARG  = "factory"
	BUILDING_QUERY_ARG = "building"
	DATE_QUERY_ARG     = "date"
	LINE_QUERY_ARG     = "line"
	KEY_QUERY_ARG      = "key"
	VISIBLE_QUERY_ARG  = "visible"
	CONFIRM_QUERY_ARG  = "confirm"
	USER_ID_QUERY_ARG  = "userId"
	FROM_QUERY_ARG     = "from"
	TO_QUERY_ARG       = "to"
	GROUP_BY_QUERY_ARG = "groupBy"

	DEFAULT_VIEW = "grid"
)

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("error encoding response", zap.Error(err))
	}
}

func writeOK[T any](w http.ResponseWriter, logger *zap.Logger, data T) {
	writeJSON(w, logger, http.StatusOK, models.Envelope[T]{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, logger *zap.Logger, status int, message string) {
	writeJSON(w, logger, status, models.Envelope[any]{Success: false, Message: message})
}

// writeUpstreamError maps a floor backend failure to a response. Backend
// 4xx statuses pass through; anything else is a bad gateway.
func writeUpstreamError(w http.ResponseWriter, logger *zap.Logger, err error, fallback string) {
	status := http.StatusBadGateway
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		status = apiErr.StatusCode
	case api.IsAbort(err):
		// client went away
		return
	}
	logger.Warn("upstream request failed", zap.Int("status", status), zap.Error(err))
	writeError(w, logger, status, api.UserMessage(err, fallback))
}

func filterFromQuery(vals url.Values) models.DashboardFilter {
	return models.DashboardFilter{
		Factory:  vals.Get(FACTORY_QUERY_ARG),
		Building: vals.Get(BUILDING_QUERY_ARG),
		Date:     vals.Get(DATE_QUERY_ARG),
		Line:     vals.Get(LINE_QUERY_ARG),
	}
}

func viewFromQuery(vals url.Values) (config.ViewConfig, error) {
	name := vals.Get(VIEW_QUERY_ARG)
	if name == "" {
		name = DEFAULT_VIEW
	}
	return config.View(name)
}

func parseArgBool(vals url.Values, name string) (bool, error) {
	return strconv.ParseBool(vals.Get(name))
}
