// Package handler exposes organization lifecycle over HTTP. Creation
// only needs an authenticated user (there is no org to authorize
// against yet); everything else runs the guard. Ownership transfer is
// re-checked against the loaded org so the current-owner carve-out sees
// the real owner.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"clinic-access-core/internal/ability"
	"clinic-access-core/internal/organization/domain"
	"clinic-access-core/internal/organization/service"
	"clinic-access-core/internal/platform/guard"
	"clinic-access-core/internal/server/middleware"
	"clinic-access-core/internal/server/respond"
)

type Handler struct {
	guard      *guard.Guard
	identities guard.IdentityResolver
	svc        *service.Service
}

func NewHandler(g *guard.Guard, identities guard.IdentityResolver, svc *service.Service) *Handler {
	return &Handler{guard: g, identities: identities, svc: svc}
}

// Register mounts the organization routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/orgs", h.Create).Methods("POST")
	r.HandleFunc("/api/orgs/{orgId}", h.Get).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/transfer", h.TransferOwnership).Methods("POST")
}

type orgResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerID   string    `json:"ownerId"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(o *domain.Org) orgResponse {
	return orgResponse{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		OwnerID:   o.OwnerID,
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
	}
}

// Create POST /api/orgs
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.identities.Resolve(middleware.Bearer(r))
	if err != nil {
		respond.WriteError(w, http.StatusUnauthorized, "invalid or missing credentials")
		return
	}
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	org, err := h.svc.Create(r.Context(), req.Name, req.Slug, id.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, toResponse(org))
}

// Get GET /api/orgs/{orgId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionRead,
		Resource:   ability.ResourceOrganization,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	org, err := h.svc.Get(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(org))
}

// TransferOwnership POST /api/orgs/{orgId}/transfer
func (h *Handler) TransferOwnership(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	var req struct {
		NewOwnerID string `json:"newOwnerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionTransferOwnership,
		Resource:   ability.ResourceOrganization,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	org, err := h.svc.Get(r.Context(), orgID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !dec.Can(ability.ActionTransferOwnership, ability.ResourceOrganization, org) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	updated, err := h.svc.TransferOwnership(r.Context(), orgID, req.NewOwnerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(updated))
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidSlug):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, service.ErrSlugTaken):
		respond.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrOrgNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, service.ErrOwnerNotMember):
		respond.WriteError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respond.WriteInternalError(w, "organization operation failed")
	}
}
