// Package handler exposes patient CRUD over HTTP. Every route runs the
// authorization pipeline before touching the repository; reads on a
// concrete record re-check the loaded instance so tenant-scoped rules
// see real data instead of a provisional match.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"clinic-access-core/internal/ability"
	"clinic-access-core/internal/patient/domain"
	"clinic-access-core/internal/patient/repository"
	"clinic-access-core/internal/platform/guard"
	"clinic-access-core/internal/server/middleware"
	"clinic-access-core/internal/server/respond"
)

// Handler serves patient routes.
type Handler struct {
	guard *guard.Guard
	repo  repository.Repository
}

// NewHandler returns a patient Handler.
func NewHandler(g *guard.Guard, repo repository.Repository) *Handler {
	return &Handler{guard: g, repo: repo}
}

// Register mounts the patient routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/orgs/{orgId}/patients", h.List).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/patients", h.Create).Methods("POST")
	r.HandleFunc("/api/orgs/{orgId}/patients/{id}", h.Get).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/patients/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/api/orgs/{orgId}/patients/{id}", h.Delete).Methods("DELETE")
}

type patientRequest struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
}

type patientResponse struct {
	ID        string     `json:"id"`
	OrgID     string     `json:"orgId"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toResponse(p *domain.Patient) patientResponse {
	return patientResponse{
		ID:        p.ID,
		OrgID:     p.OrgID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		BirthDate: p.BirthDate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// List GET /api/orgs/{orgId}/patients
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionRead,
		Resource:   ability.ResourcePatient,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	limit, offset := pagination(r)
	patients, err := h.repo.ListByOrg(r.Context(), orgID, limit, offset)
	if err != nil {
		respond.WriteInternalError(w, "failed to list patients")
		return
	}
	out := make([]patientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, toResponse(p))
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"patients": out, "count": len(out)})
}

// Create POST /api/orgs/{orgId}/patients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	now := time.Now().UTC()
	p := &domain.Patient{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionCreate,
		Resource:   ability.ResourcePatient,
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
		respond.WriteInternalError(w, "failed to create patient")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, toResponse(p))
}

// Get GET /api/orgs/{orgId}/patients/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionRead,
		Resource:   ability.ResourcePatient,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load patient")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "patient not found")
		return
	}
	if !dec.Can(ability.ActionRead, ability.ResourcePatient, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(p))
}

// Update PUT /api/orgs/{orgId}/patients/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionUpdate,
		Resource:   ability.ResourcePatient,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load patient")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "patient not found")
		return
	}
	if !dec.Can(ability.ActionUpdate, ability.ResourcePatient, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	p.Name = req.Name
	p.Email = req.Email
	p.Phone = req.Phone
	p.BirthDate = req.BirthDate
	p.UpdatedAt = time.Now().UTC()
	if err := p.Validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	updated, err := h.repo.Update(r.Context(), p)
	if err != nil {
		respond.WriteInternalError(w, "failed to update patient")
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(updated))
}

// Delete DELETE /api/orgs/{orgId}/patients/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionDelete,
		Resource:   ability.ResourcePatient,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	p, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load patient")
		return
	}
	if p == nil {
		respond.WriteNotFound(w, "patient not found")
		return
	}
	if !dec.Can(ability.ActionDelete, ability.ResourcePatient, p) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := h.repo.Delete(r.Context(), orgID, p.ID); err != nil {
		respond.WriteInternalError(w, "failed to delete patient")
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
