package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"lostfound/internal/lifecycle"
)

type StatusResponse struct {
	Service string    `json:"service"`
	Status  string    `json:"status"`
	Time    time.Time `json:"time"`
}

type StatsResponse struct {
	Counts map[lifecycle.Status]int `json:"counts"`
	Total  int                      `json:"total"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.HealthCheck(ctx); err != nil {
		log.Warn("health check failed", "err", err)
		WriteError(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, MessageResponse{Message: "ok"}, http.StatusOK)
}

func (h *Handlers) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatusResponse{
		Service: "lostfound",
		Status:  "running",
		Time:    time.Now().UTC(),
	}, http.StatusOK)
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.StatsService.PostCounts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	writeJSON(w, StatsResponse{Counts: counts, Total: total}, http.StatusOK)
}

// Sweep runs the expiration sweep immediately. It shares the sweeper with the
// scheduler, so a manual run waits for a scheduled one in progress.
func (h *Handlers) Sweep(w http.ResponseWriter, r *http.Request) {
	res, err := h.Sweeper.Run(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	userID, _ := UserIDFromContext(r.Context())
	log.Info("manual sweep", "by", userID, "expired", res.Expired, "purged", res.Purged)

	writeJSON(w, res, http.StatusOK)
}
