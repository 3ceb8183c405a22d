package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"clinic-access-core/internal/membership/domain"
)

type countingStore struct {
	memberships map[string]*domain.Membership
	calls       int
	err         error
}

func (s *countingStore) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.memberships[userID+":"+orgID], nil
}

func newTestCache(t *testing.T, store Store, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c, err := New(store, rdb, ttl, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, mr
}

func TestCache_ReadThrough(t *testing.T) {
	store := &countingStore{memberships: map[string]*domain.Membership{
		"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleMember},
	}}
	c, _ := newTestCache(t, store, 30*time.Second)
	ctx := context.Background()

	m, err := c.GetMembershipByUserAndOrg(ctx, "user-1", "org-1")
	if err != nil {
		t.Fatalf("GetMembershipByUserAndOrg: %v", err)
	}
	if m == nil || m.Role != domain.RoleMember {
		t.Fatalf("membership = %+v, want member role", m)
	}
	if store.calls != 1 {
		t.Fatalf("store calls = %d, want 1", store.calls)
	}

	// Second read is served from the cache.
	m, err = c.GetMembershipByUserAndOrg(ctx, "user-1", "org-1")
	if err != nil {
		t.Fatalf("GetMembershipByUserAndOrg: %v", err)
	}
	if m == nil || m.ID != "m1" {
		t.Fatalf("membership = %+v, want m1", m)
	}
	if store.calls != 1 {
		t.Errorf("store calls = %d, want 1 (cache hit)", store.calls)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	store := &countingStore{memberships: map[string]*domain.Membership{
		"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleAdmin},
	}}
	c, mr := newTestCache(t, store, 5*time.Second)
	ctx := context.Background()

	if _, err := c.GetMembershipByUserAndOrg(ctx, "user-1", "org-1"); err != nil {
		t.Fatalf("first read: %v", err)
	}

	// Role changes in the store; the stale admin entry must not outlive the TTL.
	store.memberships["user-1:org-1"].Role = domain.RoleMember
	mr.FastForward(6 * time.Second)

	m, err := c.GetMembershipByUserAndOrg(ctx, "user-1", "org-1")
	if err != nil {
		t.Fatalf("read after expiry: %v", err)
	}
	if m.Role != domain.RoleMember {
		t.Errorf("role after TTL = %s, want member", m.Role)
	}
	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2", store.calls)
	}
}

func TestCache_Invalidate(t *testing.T) {
	store := &countingStore{memberships: map[string]*domain.Membership{
		"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleAdmin},
	}}
	c, _ := newTestCache(t, store, time.Minute)
	ctx := context.Background()

	if _, err := c.GetMembershipByUserAndOrg(ctx, "user-1", "org-1"); err != nil {
		t.Fatalf("first read: %v", err)
	}
	store.memberships["user-1:org-1"].Role = domain.RoleBilling
	if err := c.Invalidate(ctx, "user-1", "org-1"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	m, err := c.GetMembershipByUserAndOrg(ctx, "user-1", "org-1")
	if err != nil {
		t.Fatalf("read after invalidate: %v", err)
	}
	if m.Role != domain.RoleBilling {
		t.Errorf("role after invalidate = %s, want billing", m.Role)
	}
}

func TestCache_AbsentMembershipNotCached(t *testing.T) {
	store := &countingStore{memberships: map[string]*domain.Membership{}}
	c, _ := newTestCache(t, store, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		m, err := c.GetMembershipByUserAndOrg(ctx, "user-1", "org-1")
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if m != nil {
			t.Fatalf("membership = %+v, want nil", m)
		}
	}
	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 (absence is not cached)", store.calls)
	}
}

func TestCache_CorruptEntryFallsThrough(t *testing.T) {
	store := &countingStore{memberships: map[string]*domain.Membership{
		"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleAdmin},
	}}
	c, mr := newTestCache(t, store, time.Minute)
	ctx := context.Background()

	for _, raw := range []string{
		`{not json`,
		`{"id":"m1","user_id":"user-1","org_id":"org-1","role":"superadmin"}`,
	} {
		if err := mr.Set("membership:org-1:user-1", raw); err != nil {
			t.Fatalf("seed redis: %v", err)
		}

		m, err := c.GetMembershipByUserAndOrg(ctx, "user-1", "org-1")
		if err != nil {
			t.Fatalf("read with corrupt entry %q: %v", raw, err)
		}
		if m == nil || m.Role != domain.RoleAdmin {
			t.Fatalf("membership = %+v, want store result with admin role", m)
		}
	}
	if store.calls != 2 {
		t.Errorf("store calls = %d, want 2 (corrupt entries never served)", store.calls)
	}
}

func TestCache_RedisDownFallsThrough(t *testing.T) {
	store := &countingStore{memberships: map[string]*domain.Membership{
		"user-1:org-1": {ID: "m1", UserID: "user-1", OrgID: "org-1", Role: domain.RoleMember},
	}}
	c, mr := newTestCache(t, store, time.Minute)
	mr.Close()

	m, err := c.GetMembershipByUserAndOrg(context.Background(), "user-1", "org-1")
	if err != nil {
		t.Fatalf("GetMembershipByUserAndOrg with redis down: %v", err)
	}
	if m == nil || m.ID != "m1" {
		t.Fatalf("membership = %+v, want store result", m)
	}
}

func TestCache_StoreErrorPropagates(t *testing.T) {
	wantErr := errors.New("db down")
	store := &countingStore{err: wantErr}
	c, _ := newTestCache(t, store, time.Minute)

	_, err := c.GetMembershipByUserAndOrg(context.Background(), "user-1", "org-1")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want store error", err)
	}
}

func TestNew_RejectsUnboundedTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if _, err := New(&countingStore{}, rdb, 0, zerolog.Nop()); err == nil {
		t.Error("New with zero TTL: want error")
	}
}
