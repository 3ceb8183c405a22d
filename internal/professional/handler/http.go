// Package handler exposes professional CRUD over HTTP, guarded per route.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"clinic-access-core/internal/ability"
	"clinic-access-core/internal/platform/guard"
	"clinic-access-core/internal/professional/domain"
	"clinic-access-core/internal/professional/repository"
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

// Register mounts the professional routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/orgs/{orgId}/professionals", h.List).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/professionals", h.Create).Methods("POST")
	r.HandleFunc("/api/orgs/{orgId}/professionals/{id}", h.Get).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/professionals/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/api/orgs/{orgId}/professionals/{id}", h.Delete).Methods("DELETE")
}

type professionalRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Specialty string `json:"specialty"`
}

type professionalResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Specialty string    `json:"specialty,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(p *domain.Professional) professionalResponse {
	return professionalResponse{
		ID:        p.ID,
		OrgID:     p.OrgID,
		Name:      p.Name,
		Email:     p.Email,
		Specialty: p.Specialty,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionRead,
		Resource:   ability.ResourceProfessional,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	limit, offset := pagination(r)
	pros, err := h.repo.ListByOrg(r.Context(), orgID, limit, offset)
	if err != nil {
		respond.WriteInternalError(w, "failed to list professionals")
		return
	}
	out := make([]professionalResponse, 0, len(pros))
	for _, p := range pros {
		out = append(out, toResponse(p))
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"professionals": out, "count": len(out)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	var req professionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	now := time.Now().UTC()
	p := &domain.Professional{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      req.Name,
		Email:     req.Email,
		Specialty: req.Specialty,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionCreate,
		Resource:   ability.ResourceProfessional,
		Instance:   p,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	if err := p.Validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.repo.Create(r.Context(), p); err != nil {
		respond.WriteInternalError(w, "failed to create professional")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionRead,
		Resource:   ability.ResourceProfessional,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load professional")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "professional not found")
		return
	}
	if !dec.Can(ability.ActionRead, ability.ResourceProfessional, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	var req professionalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionUpdate,
		Resource:   ability.ResourceProfessional,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load professional")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "professional not found")
		return
	}
	if !dec.Can(ability.ActionUpdate, ability.ResourceProfessional, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	p.Name = req.Name
	p.Email = req.Email
	p.Specialty = req.Specialty
	p.UpdatedAt = time.Now().UTC()
	if err := p.Validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	updated, err := h.repo.Update(r.Context(), p)
	if err != nil {
		respond.WriteInternalError(w, "failed to update professional")
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionDelete,
		Resource:   ability.ResourceProfessional,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load professional")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "professional not found")
		return
	}
	if !dec.Can(ability.ActionDelete, ability.ResourceProfessional, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := h.repo.Delete(r.Context(), orgID, p.ID); err != nil {
		respond.WriteInternalError(w, "failed to delete professional")
		return
	}
	w.WriteHeader(http.StatusNoContent)
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
