// Package handlers contains the HTTP request handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/wonny/trendscan/internal/scan"
	"github.com/wonny/trendscan/pkg/logger"
)

// Runner executes one batch scan. Satisfied by *scan.Pipeline.
type Runner interface {
	Run(ctx context.Context) (*scan.Result, error)
}

// ScanHandler serves the latest scan result and triggers new runs.
// ⭐ SSOT: the in-memory latest result lives here only.
type ScanHandler struct {
	logger *logger.Logger
	runner Runner

	mu      sync.RWMutex
	latest  *scan.Result
	running atomic.Bool
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(runner Runner, log *logger.Logger) *ScanHandler {
	return &ScanHandler{logger: log, runner: runner}
}

// SetLatest seeds the cached result, e.g. from a scheduler run.
func (h *ScanHandler) SetLatest(result *scan.Result) {
	h.mu.Lock()
	h.latest = result
	h.mu.Unlock()
}

// GetLatest returns the most recent scan result.
// GET /api/scan/latest
func (h *ScanHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	latest := h.latest
	h.mu.RUnlock()

	if latest == nil {
		writeError(w, http.StatusNotFound, "no scan has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

// RunScan triggers a scan in the background and returns immediately.
// A scan takes minutes and hammers the upstream feeds, so concurrent
// triggers are rejected and the run outlives the request context.
// POST /api/scan/run
func (h *ScanHandler) RunScan(w http.ResponseWriter, r *http.Request) {
	if !h.running.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "a scan is already running")
		return
	}

	go func() {
		defer h.running.Store(false)

		result, err := h.runner.Run(context.Background())
		if err != nil {
			h.logger.WithError(err).Error("Scan run failed")
			return
		}
		h.SetLatest(result)
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "scan started",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
