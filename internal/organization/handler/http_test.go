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
	"clinic-access-core/internal/organization/domain"
	"clinic-access-core/internal/organization/service"
	"clinic-access-core/internal/platform/guard"
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

type memOrgRepo struct {
	byID   map[string]*domain.Org
	bySlug map[string]*domain.Org
}

func newMemOrgRepo() *memOrgRepo {
	return &memOrgRepo{byID: map[string]*domain.Org{}, bySlug: map[string]*domain.Org{}}
}

func (r *memOrgRepo) GetByID(ctx context.Context, id string) (*domain.Org, error) {
	return r.byID[id], nil
}

func (r *memOrgRepo) GetBySlug(ctx context.Context, slug string) (*domain.Org, error) {
	return r.bySlug[slug], nil
}

func (r *memOrgRepo) Create(ctx context.Context, o *domain.Org) error {
	r.byID[o.ID] = o
	r.bySlug[o.Slug] = o
	return nil
}

func (r *memOrgRepo) TransferOwnership(ctx context.Context, orgID, newOwnerID string) (*domain.Org, error) {
	o, ok := r.byID[orgID]
	if !ok {
		return nil, nil
	}
	o.OwnerID = newOwnerID
	return o, nil
}

type memMembershipRepo struct {
	byKey map[string]*membershipdomain.Membership
}

func newMemMembershipRepo() *memMembershipRepo {
	return &memMembershipRepo{byKey: map[string]*membershipdomain.Membership{}}
}

func (r *memMembershipRepo) GetMembershipByID(ctx context.Context, id string) (*membershipdomain.Membership, error) {
	return nil, nil
}

func (r *memMembershipRepo) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error) {
	return r.byKey[userID+":"+orgID], nil
}

func (r *memMembershipRepo) ListMembershipsByOrg(ctx context.Context, orgID string) ([]*membershipdomain.Membership, error) {
	return nil, nil
}

func (r *memMembershipRepo) CreateMembership(ctx context.Context, m *membershipdomain.Membership) error {
	r.byKey[m.UserID+":"+m.OrgID] = m
	return nil
}

func (r *memMembershipRepo) DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error {
	delete(r.byKey, userID+":"+orgID)
	return nil
}

func (r *memMembershipRepo) UpdateRole(ctx context.Context, userID, orgID string, role membershipdomain.Role) (*membershipdomain.Membership, error) {
	return r.byKey[userID+":"+orgID], nil
}

func (r *memMembershipRepo) CountAdminsByOrg(ctx context.Context, orgID string) (int64, error) {
	return 0, nil
}

type fixture struct {
	router      *mux.Router
	orgs        *memOrgRepo
	memberships *memMembershipRepo
}

func newFixture() *fixture {
	resolver := &stubResolver{ids: map[string]*identity.Identity{
		"owner-token":  {UserID: "owner-1"},
		"admin-token":  {UserID: "admin-2"},
		"member-token": {UserID: "member-1"},
	}}
	orgs := newMemOrgRepo()
	memberships := newMemMembershipRepo()
	g := guard.New(resolver, memberships, nil, time.Second, zerolog.Nop())
	svc := service.NewService(orgs, memberships, nil)
	r := mux.NewRouter()
	NewHandler(g, resolver, svc).Register(r)
	return &fixture{router: r, orgs: orgs, memberships: memberships}
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

func createOrg(t *testing.T, f *fixture) string {
	t.Helper()
	rr := do(t, f.router, http.MethodPost, "/api/orgs", "owner-token",
		map[string]string{"name": "North Clinic", "slug": "north-clinic"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create org status = %d: %s", rr.Code, rr.Body.String())
	}
	var got struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return got.ID
}

func TestCreate_RequiresCredential(t *testing.T) {
	f := newFixture()
	rr := do(t, f.router, http.MethodPost, "/api/orgs", "",
		map[string]string{"name": "North Clinic", "slug": "north-clinic"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}

func TestTransfer_OwnerOnly(t *testing.T) {
	f := newFixture()
	orgID := createOrg(t, f)

	// a second admin, not the owner, and a regular member
	_ = f.memberships.CreateMembership(context.Background(), &membershipdomain.Membership{
		ID: "m2", UserID: "admin-2", OrgID: orgID, Role: membershipdomain.RoleAdmin,
	})
	_ = f.memberships.CreateMembership(context.Background(), &membershipdomain.Membership{
		ID: "m3", UserID: "member-1", OrgID: orgID, Role: membershipdomain.RoleMember,
	})

	rr := do(t, f.router, http.MethodPost, "/api/orgs/"+orgID+"/transfer", "admin-token",
		map[string]string{"newOwnerId": "admin-2"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("non-owner admin transfer status = %d, want 403", rr.Code)
	}

	rr = do(t, f.router, http.MethodPost, "/api/orgs/"+orgID+"/transfer", "owner-token",
		map[string]string{"newOwnerId": "admin-2"})
	if rr.Code != http.StatusOK {
		t.Fatalf("owner transfer status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if f.orgs.byID[orgID].OwnerID != "admin-2" {
		t.Errorf("owner = %q after transfer, want admin-2", f.orgs.byID[orgID].OwnerID)
	}
}

func TestTransfer_NonMemberTarget(t *testing.T) {
	f := newFixture()
	orgID := createOrg(t, f)

	rr := do(t, f.router, http.MethodPost, "/api/orgs/"+orgID+"/transfer", "owner-token",
		map[string]string{"newOwnerId": "ghost"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rr.Code, rr.Body.String())
	}
}

func TestGet_AdminReads(t *testing.T) {
	f := newFixture()
	orgID := createOrg(t, f)

	rr := do(t, f.router, http.MethodGet, "/api/orgs/"+orgID, "owner-token", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
}
