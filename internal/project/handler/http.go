// Package handler exposes project CRUD over HTTP. Projects are
// owner-scoped: the creator becomes owner, and member-level update and
// delete are re-checked against the loaded instance so ownership rules
// apply to the real record.
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
	"clinic-access-core/internal/project/domain"
	"clinic-access-core/internal/project/repository"
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

// Register mounts the project routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/orgs/{orgId}/projects", h.List).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/projects", h.Create).Methods("POST")
	r.HandleFunc("/api/orgs/{orgId}/projects/{id}", h.Get).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/projects/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/api/orgs/{orgId}/projects/{id}", h.Delete).Methods("DELETE")
}

type projectRequest struct {
	Name string `json:"name"`
}

type projectResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:        p.ID,
		OrgID:     p.OrgID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
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
		Resource:   ability.ResourceProject,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	limit, offset := pagination(r)
	projects, err := h.repo.ListByOrg(r.Context(), orgID, limit, offset)
	if err != nil {
		respond.WriteInternalError(w, "failed to list projects")
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toResponse(p))
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"projects": out, "count": len(out)})
}

// Create POST /api/orgs/{orgId}/projects. The authenticated user
// becomes the project owner.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionCreate,
		Resource:   ability.ResourceProject,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		OwnerID:   dec.Identity.UserID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !dec.Can(ability.ActionCreate, ability.ResourceProject, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := p.Validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.repo.Create(r.Context(), p); err != nil {
		respond.WriteInternalError(w, "failed to create project")
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
		Resource:   ability.ResourceProject,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load project")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "project not found")
		return
	}
	if !dec.Can(ability.ActionRead, ability.ResourceProject, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionUpdate,
		Resource:   ability.ResourceProject,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load project")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "project not found")
		return
	}
	if !dec.Can(ability.ActionUpdate, ability.ResourceProject, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	p.Name = req.Name
	p.UpdatedAt = time.Now().UTC()
	if err := p.Validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	updated, err := h.repo.Update(r.Context(), p)
	if err != nil {
		respond.WriteInternalError(w, "failed to update project")
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
		Resource:   ability.ResourceProject,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load project")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "project not found")
		return
	}
	if !dec.Can(ability.ActionDelete, ability.ResourceProject, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := h.repo.Delete(r.Context(), orgID, p.ID); err != nil {
		respond.WriteInternalError(w, "failed to delete project")
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
