// Package handler exposes the audit trail over HTTP, read-only.
// Viewing the trail is part of org administration, so the route
// requires the ability to update the organization.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"clinic-access-core/internal/ability"
	"clinic-access-core/internal/audit/domain"
	"clinic-access-core/internal/audit/repository"
	"clinic-access-core/internal/platform/guard"
	"clinic-access-core/internal/server/middleware"
	"clinic-access-core/internal/server/respond"
)

type Handler struct {
	guard *guard.Guard
	repo  repository.Repository
}

func NewHandler(g *guard.Guard, repo repository.Repository) *Handler {
	return &Handler{guard: g, repo: repo}
}

// Register mounts the audit routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/orgs/{orgId}/audit", h.List).Methods("GET")
}

type entryResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(a *domain.AuditLog) entryResponse {
	return entryResponse{
		ID:        a.ID,
		OrgID:     a.OrgID,
		UserID:    a.UserID,
		Action:    a.Action,
		Resource:  a.Resource,
		IP:        a.IP,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}

// List GET /api/orgs/{orgId}/audit
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionUpdate,
		Resource:   ability.ResourceOrganization,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	limit, offset := pagination(r)
	entries, err := h.repo.ListByOrg(r.Context(), orgID, limit, offset)
	if err != nil {
		respond.WriteInternalError(w, "failed to list audit entries")
		return
	}
	out := make([]entryResponse, 0, len(entries))
	for _, a := range entries {
		out = append(out, toResponse(a))
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"entries": out, "count": len(out)})
}

func pagination(r *http.Request) (limit, offset int32) {
	limit = 50
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 32); err == nil && v > 0 && v <= 200 {
		limit = int32(v)
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 32); err == nil && v >= 0 {
		offset = int32(v)
	}
	return limit, offset
}
