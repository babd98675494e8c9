package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go-user-api/internal/model"
)

type pinger interface {
	Health(ctx context.Context) error
}

// HealthHandler reports liveness including database reachability.
type HealthHandler struct {
	db pinger
}

func NewHealthHandler(db pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: "Database unavailable"})
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"status": "ok"})
}
