package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/maltedev/place-archiver/internal/models"
)

// RunSource exposes the live summary of the current run.
type RunSource interface {
	Snapshot() models.RunSummary
}

type Handlers struct {
	runs    RunSource
	logger  *slog.Logger
	started time.Time
}

func NewHandlers(runs RunSource, logger *slog.Logger) *Handlers {
	return &Handlers{
		runs:    runs,
		logger:  logger,
		started: time.Now(),
	}
}

// RunResponse is the live view of the current run
type RunResponse struct {
	models.RunSummary
	Processed      int     `json:"processed"`
	ProgressPct    float64 `json:"progress_pct"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
	Finished       bool    `json:"finished"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// GetRun returns the summary of the run in progress, or of the last run.
func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	summary := h.runs.Snapshot()
	if summary.RunID == "" {
		h.respondError(w, http.StatusNotFound, "no run started yet")
		return
	}

	resp := RunResponse{
		RunSummary:     summary,
		Processed:      summary.Stats.Total,
		ElapsedSeconds: summary.Elapsed().Seconds(),
		Finished:       !summary.FinishedAt.IsZero(),
	}
	if summary.Planned > 0 {
		resp.ProgressPct = float64(summary.Stats.Total) / float64(summary.Planned) * 100
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Helper methods
func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
