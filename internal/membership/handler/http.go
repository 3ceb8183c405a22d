// Package handler exposes membership administration over HTTP. Listing
// members is open to any member of the org; granting, revoking, and
// changing roles requires the ability to update the organization, which
// only admins hold.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"clinic-access-core/internal/ability"
	"clinic-access-core/internal/membership/domain"
	"clinic-access-core/internal/membership/service"
	"clinic-access-core/internal/platform/guard"
	"clinic-access-core/internal/server/middleware"
	"clinic-access-core/internal/server/respond"
)

type Handler struct {
	guard *guard.Guard
	svc   *service.Service
}

func NewHandler(g *guard.Guard, svc *service.Service) *Handler {
	return &Handler{guard: g, svc: svc}
}

// Register mounts the membership routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/orgs/{orgId}/members", h.List).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/members", h.Add).Methods("POST")
	r.HandleFunc("/api/orgs/{orgId}/members/{userId}", h.UpdateRole).Methods("PUT")
	r.HandleFunc("/api/orgs/{orgId}/members/{userId}", h.Remove).Methods("DELETE")
}

type memberResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	OrgID     string    `json:"orgId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(m *domain.Membership) memberResponse {
	return memberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		OrgID:     m.OrgID,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

// List GET /api/orgs/{orgId}/members
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionRead,
		Resource:   ability.ResourceUser,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	members, err := h.svc.ListMembers(r.Context(), orgID)
	if err != nil {
		respond.WriteInternalError(w, "failed to list members")
		return
	}
	out := make([]memberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toResponse(m))
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"members": out, "count": len(out)})
}

// Add POST /api/orgs/{orgId}/members
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	var req struct {
		UserID string `json:"userId"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := h.authorizeAdmin(r, orgID); err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	m, err := h.svc.AddMember(r.Context(), orgID, req.UserID, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, toResponse(m))
}

// UpdateRole PUT /api/orgs/{orgId}/members/{userId}
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	if err := h.authorizeAdmin(r, orgID); err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	m, err := h.svc.UpdateRole(r.Context(), orgID, vars["userId"], req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(m))
}

// Remove DELETE /api/orgs/{orgId}/members/{userId}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	if err := h.authorizeAdmin(r, orgID); err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	if err := h.svc.RemoveMember(r.Context(), orgID, vars["userId"]); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) authorizeAdmin(r *http.Request, orgID string) error {
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionUpdate,
		Resource:   ability.ResourceOrganization,
	})
	return err
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownRole):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, service.ErrAlreadyMember), errors.Is(err, service.ErrLastAdmin):
		respond.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotAMember), errors.Is(err, service.ErrUserNotFound):
		respond.WriteNotFound(w, err.Error())
	default:
		respond.WriteInternalError(w, "membership operation failed")
	}
}
