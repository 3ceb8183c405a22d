package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"clinic-access-core/internal/identity"
	membershipdomain "clinic-access-core/internal/membership/domain"
	"clinic-access-core/internal/platform/guard"
	"clinic-access-core/internal/project/domain"
)

type stubResolver struct {
	ids map[string]*identity.Identity
}

func (s *stubResolver) Resolve(credential string) (*identity.Identity, error) {
	if id, ok := s.ids[credential]; ok {
		return id, nil
	}
	return nil, identity.ErrUnauthenticated
}

type stubMemberships struct {
	byKey map[string]*membershipdomain.Membership
}

func (s *stubMemberships) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error) {
	return s.byKey[userID+":"+orgID], nil
}

type memRepo struct {
	byID map[string]*domain.Project
}

func newMemRepo() *memRepo { return &memRepo{byID: map[string]*domain.Project{}} }

func (r *memRepo) GetByID(ctx context.Context, orgID, id string) (*domain.Project, error) {
	p, ok := r.byID[id]
	if !ok || p.OrgID != orgID {
		return nil, nil
	}
	return p, nil
}

func (r *memRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.Project, error) {
	var out []*domain.Project
	for _, p := range r.byID {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memRepo) Create(ctx context.Context, p *domain.Project) error {
	r.byID[p.ID] = p
	return nil
}

func (r *memRepo) Update(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	r.byID[p.ID] = p
	return p, nil
}

func (r *memRepo) Delete(ctx context.Context, orgID, id string) error {
	delete(r.byID, id)
	return nil
}

func newTestRouter(repo *memRepo) *mux.Router {
	resolver := &stubResolver{ids: map[string]*identity.Identity{
		"admin-token": {UserID: "admin-1"},
		"alice-token": {UserID: "alice"},
		"bob-token":   {UserID: "bob"},
	}}
	memberships := &stubMemberships{byKey: map[string]*membershipdomain.Membership{
		"admin-1:org-1": {ID: "m1", UserID: "admin-1", OrgID: "org-1", Role: membershipdomain.RoleAdmin},
		"alice:org-1":   {ID: "m2", UserID: "alice", OrgID: "org-1", Role: membershipdomain.RoleMember},
		"bob:org-1":     {ID: "m3", UserID: "bob", OrgID: "org-1", Role: membershipdomain.RoleMember},
	}}
	g := guard.New(resolver, memberships, nil, time.Second, zerolog.Nop())
	r := mux.NewRouter()
	NewHandler(g, repo).Register(r)
	return r
}

func do(t *testing.T, router *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCreate_CreatorBecomesOwner(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)

	rr := do(t, router, http.MethodPost, "/api/orgs/org-1/projects", "alice-token",
		map[string]string{"name": "Q3 intake"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var got struct {
		ID      string `json:"id"`
		OwnerID string `json:"ownerId"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.OwnerID != "alice" {
		t.Errorf("ownerId = %q, want alice", got.OwnerID)
	}
}

func TestUpdate_OwnerOnly(t *testing.T) {
	repo := newMemRepo()
	repo.byID["proj-1"] = &domain.Project{ID: "proj-1", OrgID: "org-1", OwnerID: "alice", Name: "Q3 intake"}
	router := newTestRouter(repo)

	rr := do(t, router, http.MethodPut, "/api/orgs/org-1/projects/proj-1", "bob-token",
		map[string]string{"name": "hijacked"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-owner update status = %d, want 403", rr.Code)
	}

	rr = do(t, router, http.MethodPut, "/api/orgs/org-1/projects/proj-1", "alice-token",
		map[string]string{"name": "Q3 intake v2"})
	if rr.Code != http.StatusOK {
		t.Fatalf("owner update status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if repo.byID["proj-1"].Name != "Q3 intake v2" {
		t.Errorf("name = %q after update", repo.byID["proj-1"].Name)
	}
}

func TestDelete_AdminOverridesOwnership(t *testing.T) {
	repo := newMemRepo()
	repo.byID["proj-1"] = &domain.Project{ID: "proj-1", OrgID: "org-1", OwnerID: "alice", Name: "Q3 intake"}
	router := newTestRouter(repo)

	rr := do(t, router, http.MethodDelete, "/api/orgs/org-1/projects/proj-1", "bob-token", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete status = %d, want 403", rr.Code)
	}

	rr = do(t, router, http.MethodDelete, "/api/orgs/org-1/projects/proj-1", "admin-token", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("admin delete status = %d, want 204", rr.Code)
	}
}

func TestGet_AnyMemberReads(t *testing.T) {
	repo := newMemRepo()
	repo.byID["proj-1"] = &domain.Project{ID: "proj-1", OrgID: "org-1", OwnerID: "alice", Name: "Q3 intake"}
	router := newTestRouter(repo)

	rr := do(t, router, http.MethodGet, "/api/orgs/org-1/projects/proj-1", "bob-token", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
}
