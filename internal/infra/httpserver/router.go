package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/application/analysis"
	domain "github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/analysis"
	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/domain/vision"
	"github.com/RSohaily/Autonomous-industrial-safety-monitor/internal/middleware"
)

type Router struct {
	svc *appanalysis.Service
}

func NewRouter(svc *appanalysis.Service, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api", func(rt chi.Router) {
		rt.Get("/", r.wrap(r.handleRoot))
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/history", r.wrap(r.handleHistory))
		rt.Get("/history/{id}", r.wrap(r.handleGet))
		rt.Get("/stats", r.wrap(r.handleStats))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		middleware.IncrementRequests()
		middleware.IncrementInProgress()
		defer middleware.DecrementInProgress()
		err := h(w, req)
		if err == nil {
			middleware.IncrementSuccess()
			return
		}
		middleware.IncrementFailed()
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domain.ErrNotFound):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrMalformedResponse), errors.Is(err, domain.ErrUnparsableResponse):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		case errors.Is(err, vision.ErrRejected):
			http.Error(w, err.Error(), http.StatusBadGateway)
		case errors.Is(err, vision.ErrUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GET /api/
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, map[string]string{
		"message": "Warehouse Vision AI API",
		"status":  "operational",
	})
}

// POST /api/analyze
// Body: {"image_base64": "<base64>", "image_name": "photo.jpg"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ImageBase64 string `json:"image_base64"`
		ImageName   string `json:"image_name"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: request body must be JSON", domain.ErrInvalidInput)
	}
	image, err := middleware.ValidateImagePayload(body.ImageBase64)
	if err != nil {
		return err
	}

	rec, err := r.svc.Analyze(req.Context(), image, middleware.SanitizeString(body.ImageName))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// GET /api/history?limit=50
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	if limit < 0 {
		// unbounded listing is a repository-level contract, not a query option
		limit = 0
	}

	list, err := r.svc.History(req.Context(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.AnalysisRecord{}
	}
	return writeJSON(w, list)
}

// GET /api/history/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")

	rec, err := r.svc.Get(req.Context(), domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, rec)
}

// GET /api/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, r.svc.StatsSnapshot())
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}
