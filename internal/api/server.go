// Package api provides the HTTP server for EcoSnap.
// It exposes the catalog, the action log, derived stats and badges as a
// small JSON REST API plus a live activity WebSocket feed.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecosnap-app/ecosnap/internal/app/actionlog"
	"github.com/ecosnap-app/ecosnap/internal/app/badges"
	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
	"github.com/ecosnap-app/ecosnap/internal/app/stats"
	"github.com/ecosnap-app/ecosnap/internal/domain"
)

// Version is the EcoSnap release version.
const Version = "0.1.0"

// Server is the EcoSnap HTTP API server.
type Server struct {
	catalog        *catalog.Catalog
	log            *actionlog.Service
	agg            *stats.Aggregator
	streaks        *stats.StreakTracker
	engine         *badges.Engine
	defaultUser    string
	windowDays     int
	metricsEnabled bool
	hub            *Hub // Live activity feed (nil if not set)

	now func() time.Time
}

// NewServer creates a new API server. defaultUser is used when a request
// does not name a user; windowDays sizes the default stats window.
func NewServer(cat *catalog.Catalog, log *actionlog.Service, agg *stats.Aggregator, streaks *stats.StreakTracker, engine *badges.Engine, defaultUser string, windowDays int) *Server {
	return &Server{
		catalog:     cat,
		log:         log,
		agg:         agg,
		streaks:     streaks,
		engine:      engine,
		defaultUser: defaultUser,
		windowDays:  windowDays,
		now:         time.Now,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHub sets the live activity feed hub.
func (s *Server) SetHub(h *Hub) { s.hub = h }

// ActivityHub returns the live activity hub (for broadcasting events).
func (s *Server) ActivityHub() *Hub { return s.hub }

// SetClock overrides the wall clock. Tests only.
func (s *Server) SetClock(now func() time.Time) { s.now = now }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	// Health check for deploy platforms
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "EcoSnap is running",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": Version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Post("/actions", s.handleSubmitAction)
		r.Get("/actions", s.handleListActions)
		r.Get("/stats", s.handleStats)
		r.Get("/streak", s.handleStreak)
		r.Get("/badges", s.handleBadges)
		r.Get("/summary", s.handleSummary)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	// Live activity WebSocket feed
	if s.hub != nil {
		r.Get("/api/activity/live", s.hub.HandleActivityWS)
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps domain sentinel errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrActionTypeNotFound),
		errors.Is(err, domain.ErrBadgeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrEmptyUserID),
		errors.Is(err, domain.ErrEmptyDescription),
		errors.Is(err, domain.ErrFutureTimestamp),
		errors.Is(err, domain.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
