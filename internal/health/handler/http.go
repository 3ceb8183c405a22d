// Package handler exposes liveness and dependency health probes. These
// routes are unauthenticated.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"clinic-access-core/internal/server/respond"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

// Register mounts the health routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/health", h.Check).Methods("GET")
	r.HandleFunc("/api/health/db", h.CheckDB).Methods("GET")
}

// Check GET /api/health
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CheckDB GET /api/health/db
func (h *Handler) CheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
