package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/opensource-finance/heron/internal/batch"
	"github.com/opensource-finance/heron/internal/domain"
)

// Runner triggers analysis runs. Satisfied by *batch.Orchestrator.
type Runner interface {
	Run(ctx context.Context) (*batch.RunResult, error)
	RunUser(ctx context.Context, userID int64) (*batch.RunResult, error)
	LastRun() *batch.RunResult
}

// Handler holds dependencies for API handlers.
type Handler struct {
	runner    Runner
	warehouse domain.Warehouse
	cache     domain.Cache
	bus       domain.EventBus
	version   string
	startedAt time.Time

	// running guards against overlapping runs triggered over HTTP.
	running atomic.Bool
}

// NewHandler creates a new API handler.
func NewHandler(runner Runner, warehouse domain.Warehouse, cache domain.Cache, bus domain.EventBus, version string) *Handler {
	return &Handler{
		runner:    runner,
		warehouse: warehouse,
		cache:     cache,
		bus:       bus,
		version:   version,
		startedAt: time.Now().UTC(),
	}
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"

	// Check warehouse health
	if h.warehouse != nil {
		if err := h.warehouse.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	// Check cache health
	if h.cache != nil {
		if err := h.cache.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	// Check bus health
	if h.bus != nil {
		if err := h.bus.Ping(r.Context()); err != nil {
			status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": h.version,
	})
}

// Ready returns whether the server is ready to accept traffic. The
// warehouse is the only hard dependency; without it no run can start.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.warehouse != nil {
		if err := h.warehouse.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"ready": "false",
				"error": err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

// StatsResponse is the response for GET /stats.
type StatsResponse struct {
	Version       string           `json:"version"`
	UptimeSeconds int64            `json:"uptimeSeconds"`
	RunInProgress bool             `json:"runInProgress"`
	LastRun       *batch.RunResult `json:"lastRun,omitempty"`
}

// Stats returns the most recent run summary.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		RunInProgress: h.running.Load(),
		LastRun:       h.runner.LastRun(),
	})
}

// RunRequest is the request body for POST /runs. An empty body uses the
// configured defaults.
type RunRequest struct {
	// Async returns immediately and runs in the background.
	Async bool `json:"async,omitempty"`
}

// TriggerRun handles POST /runs requests. Only one HTTP-triggered run may
// be in progress at a time.
func (h *Handler) TriggerRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": "invalid JSON request body",
			})
			return
		}
	}

	if !h.running.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": "a run is already in progress",
		})
		return
	}

	if req.Async {
		// Detach from the request context so the run survives the response.
		go func() {
			defer h.running.Store(false)
			if _, err := h.runner.Run(context.Background()); err != nil {
				slog.Error("background run failed", "error", err)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": "accepted",
		})
		return
	}

	defer h.running.Store(false)

	result, err := h.runner.Run(r.Context())
	if err != nil {
		slog.Error("run failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// AnalyzeRequest is the request body for POST /analyze.
type AnalyzeRequest struct {
	UserID int64 `json:"user_id"`
}

// AnalyzeUser handles POST /analyze requests: a run restricted to one
// user's alerts.
func (h *Handler) AnalyzeUser(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "invalid JSON request body",
		})
		return
	}

	if req.UserID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "user_id is required",
		})
		return
	}

	result, err := h.runner.RunUser(r.Context(), req.UserID)
	if err != nil {
		slog.Error("single-user run failed",
			"user_id", req.UserID,
			"error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
		return
	}

	if result.Flagged == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no alerts for user in the configured window",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
