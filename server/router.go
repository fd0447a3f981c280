package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"floorwatch/server/handlers"
)

type Router struct {
	dashboardHandler *handlers.DashboardHandler
	reportHandler    *handlers.ReportHandler
	formHandler      *handlers.FormHandler
	router           *mux.Router
	logger           *zap.Logger
}

// NewRouter creates a router with the app's routes.
func NewRouter(
	dashboardHandler *handlers.DashboardHandler,
	reportHandler *handlers.ReportHandler,
	formHandler *handlers.FormHandler,
	router *mux.Router,
	logger *zap.Logger) *Router {
	return &Router{
		dashboardHandler: dashboardHandler,
		reportHandler:    reportHandler,
		formHandler:      formHandler,
		router:           router,
		logger:           logger.Named("Router"),
	}
}

func (r *Router) RegisterRoutes() {
	r.router.Use(r.logRequests)

	r.router.HandleFunc("/ping", r.dashboardHandler.Ping).Methods("GET")
	r.router.HandleFunc("/v1/options", r.dashboardHandler.Options).Methods("GET")

	// expects ?view={grid|full|tv}&factory=&building=&date=&line=
	r.router.HandleFunc("/v1/dashboard", r.dashboardHandler.GetDashboard).Methods("GET")
	r.router.HandleFunc("/v1/dashboard/filter", r.dashboardHandler.ChangeFilter).Methods("POST")
	r.router.HandleFunc("/v1/dashboard/visibility", r.dashboardHandler.SetVisibility).Methods("POST")
	r.router.HandleFunc("/v1/dashboard/focus", r.dashboardHandler.Focus).Methods("POST")
	r.router.HandleFunc("/v1/dashboard/select", r.dashboardHandler.Select).Methods("POST")

	r.router.HandleFunc("/v1/summary", r.reportHandler.GetSummary).Methods("GET")
	r.router.HandleFunc("/v1/compare", r.reportHandler.GetCompare).Methods("GET")
	r.router.HandleFunc("/v1/charts/variance", r.reportHandler.VarianceChart).Methods("GET")
	r.router.HandleFunc("/v1/charts/compare", r.reportHandler.CompareChart).Methods("GET")
	r.router.HandleFunc("/v1/charts/summary", r.reportHandler.SummaryChart).Methods("GET")

	r.router.HandleFunc("/v1/headers", r.formHandler.ListHeaders).Methods("GET")
	r.router.HandleFunc("/v1/headers", r.formHandler.SaveHeader).Methods("POST")
	r.router.HandleFunc("/v1/headers/{id}", r.formHandler.SaveHeader).Methods("PATCH")
	r.router.HandleFunc("/v1/headers/{id}", r.formHandler.DeleteHeader).Methods("DELETE")

	// create expects ?date=&building= so the duplicate guard sees the day's rows
	r.router.HandleFunc("/v1/inspections", r.formHandler.ListInspections).Methods("GET")
	r.router.HandleFunc("/v1/inspections", r.formHandler.SaveInspection).Methods("POST")
	r.router.HandleFunc("/v1/inspections/{id}", r.formHandler.SaveInspection).Methods("PATCH")
	r.router.HandleFunc("/v1/inspections/{id}", r.formHandler.DeleteInspection).Methods("DELETE")

	r.router.HandleFunc("/v1/style-media", r.formHandler.ListStyleMedia).Methods("GET")
	r.router.HandleFunc("/v1/style-media", r.formHandler.SaveStyleMedia).Methods("POST")
	r.router.HandleFunc("/v1/style-media/{id}", r.formHandler.SaveStyleMedia).Methods("PUT")
	r.router.HandleFunc("/v1/style-media/{id}", r.formHandler.DeleteStyleMedia).Methods("DELETE")

	r.router.HandleFunc("/v1/media-links/{userId}", r.formHandler.GetMediaLinks).Methods("GET")
	r.router.HandleFunc("/v1/media-links/{userId}", r.formHandler.SaveMediaLinks).Methods("POST")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (r *Router) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		r.logger.Debug("request",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}
