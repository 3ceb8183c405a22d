// Package handler exposes appointment scheduling over HTTP, guarded per
// route. Status changes go through Update; cancellation is a status,
// not a delete.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"clinic-access-core/internal/ability"
	"clinic-access-core/internal/appointment/domain"
	"clinic-access-core/internal/appointment/repository"
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

// Register mounts the appointment routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/orgs/{orgId}/appointments", h.List).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/appointments", h.Create).Methods("POST")
	r.HandleFunc("/api/orgs/{orgId}/appointments/{id}", h.Get).Methods("GET")
	r.HandleFunc("/api/orgs/{orgId}/appointments/{id}", h.Update).Methods("PUT")
	r.HandleFunc("/api/orgs/{orgId}/appointments/{id}", h.Delete).Methods("DELETE")
}

type appointmentRequest struct {
	PatientID      string    `json:"patientId"`
	ProfessionalID string    `json:"professionalId"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt"`
	Status         string    `json:"status,omitempty"`
}

type appointmentResponse struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"orgId"`
	PatientID      string    `json:"patientId"`
	ProfessionalID string    `json:"professionalId"`
	StartsAt       time.Time `json:"startsAt"`
	EndsAt         time.Time `json:"endsAt"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toResponse(a *domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:             a.ID,
		OrgID:          a.OrgID,
		PatientID:      a.PatientID,
		ProfessionalID: a.ProfessionalID,
		StartsAt:       a.StartsAt,
		EndsAt:         a.EndsAt,
		Status:         string(a.Status),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionRead,
		Resource:   ability.ResourceAppointment,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	limit, offset := pagination(r)
	appts, err := h.repo.ListByOrg(r.Context(), orgID, limit, offset)
	if err != nil {
		respond.WriteInternalError(w, "failed to list appointments")
		return
	}
	out := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toResponse(a))
	}
	respond.WriteJSON(w, http.StatusOK, map[string]any{"appointments": out, "count": len(out)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	orgID := mux.Vars(r)["orgId"]
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	now := time.Now().UTC()
	a := &domain.Appointment{
		ID:             uuid.New().String(),
		OrgID:          orgID,
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		Status:         domain.Status(req.Status),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	_, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionCreate,
		Resource:   ability.ResourceAppointment,
		Instance:   a,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	if err := a.Validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := h.repo.Create(r.Context(), a); err != nil {
		respond.WriteInternalError(w, "failed to create appointment")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionRead,
		Resource:   ability.ResourceAppointment,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	a, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load appointment")
		return
	}
	if a == nil {
		respond.WriteNotFound(w, "appointment not found")
		return
	}
	if !dec.Can(ability.ActionRead, ability.ResourceAppointment, a) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	respond.WriteJSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgID := vars["orgId"]
	var req appointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "invalid JSON")
		return
	}
	dec, err := h.guard.Authorize(r.Context(), guard.Request{
		Credential: middleware.Bearer(r),
		OrgID:      orgID,
		Action:     ability.ActionUpdate,
		Resource:   ability.ResourceAppointment,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	a, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load appointment")
		return
	}
	if a == nil {
		respond.WriteNotFound(w, "appointment not found")
		return
	}
	if !dec.Can(ability.ActionUpdate, ability.ResourceAppointment, a) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	a.PatientID = req.PatientID
	a.ProfessionalID = req.ProfessionalID
	a.StartsAt = req.StartsAt
	a.EndsAt = req.EndsAt
	if req.Status != "" {
		a.Status = domain.Status(req.Status)
	}
	a.UpdatedAt = time.Now().UTC()
	if err := a.Validate(); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	updated, err := h.repo.Update(r.Context(), a)
	if err != nil {
		respond.WriteInternalError(w, "failed to update appointment")
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
		Resource:   ability.ResourceAppointment,
	})
	if err != nil {
		respond.WriteGuardError(w, err)
		return
	}
	a, err := h.repo.GetByID(r.Context(), orgID, vars["id"])
	if err != nil {
		respond.WriteInternalError(w, "failed to load appointment")
		return
	}
	if a == nil {
		respond.WriteNotFound(w, "appointment not found")
		return
	}
	if !dec.Can(ability.ActionDelete, ability.ResourceAppointment, a) {
		respond.WriteError(w, http.StatusForbidden, "forbidden")
		return
	}
	if err := h.repo.Delete(r.Context(), orgID, a.ID); err != nil {
		respond.WriteInternalError(w, "failed to delete appointment")
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
