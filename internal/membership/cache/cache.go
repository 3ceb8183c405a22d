// Package cache provides a Redis read-through cache in front of the
// membership store. Entries carry an explicit bounded TTL so a role
// change or removal is visible at the latest one TTL after it happens;
// writes that go through the membership service invalidate eagerly.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"clinic-access-core/internal/membership/domain"
)

// Store is the authoritative membership lookup the cache fronts.
type Store interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
}

// Cache is a read-through membership cache. Redis failures fall through
// to the store; they never turn into an authorization decision.
type Cache struct {
	store Store
	rdb   *redis.Client
	ttl   time.Duration
	log   zerolog.Logger
}

// New returns a Cache over store with the given client and TTL. ttl must
// be positive; there is no "cache forever" mode.
func New(store Store, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) (*Cache, error) {
	if ttl <= 0 {
		return nil, errors.New("membership cache TTL must be positive")
	}
	return &Cache{store: store, rdb: rdb, ttl: ttl, log: log}, nil
}

type entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	OrgID     string    `json:"org_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func key(userID, orgID string) string {
	return "membership:" + orgID + ":" + userID
}

// GetMembershipByUserAndOrg returns the cached membership if present,
// otherwise loads from the store and caches a hit for the TTL. Absent
// memberships are not cached, so a newly added member is visible on the
// next request.
func (c *Cache) GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error) {
	k := key(userID, orgID)
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if err == nil {
		var e entry
		if jsonErr := json.Unmarshal(raw, &e); jsonErr == nil {
			if role, ok := domain.ParseRole(e.Role); ok {
				return &domain.Membership{ID: e.ID, UserID: e.UserID, OrgID: e.OrgID, Role: role, CreatedAt: e.CreatedAt}, nil
			}
		}
		// Undecodable JSON and an unknown role string are the same thing:
		// a corrupt entry that must not become a membership.
		c.log.Warn().Str("key", k).Msg("membership cache entry corrupt, falling through")
	} else if !errors.Is(err, redis.Nil) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.log.Warn().Err(err).Msg("membership cache read failed, falling through")
	}

	m, err := c.store.GetMembershipByUserAndOrg(ctx, userID, orgID)
	if err != nil || m == nil {
		return m, err
	}
	e := entry{ID: m.ID, UserID: m.UserID, OrgID: m.OrgID, Role: string(m.Role), CreatedAt: m.CreatedAt}
	if raw, jsonErr := json.Marshal(e); jsonErr == nil {
		if setErr := c.rdb.Set(ctx, k, raw, c.ttl).Err(); setErr != nil {
			c.log.Warn().Err(setErr).Msg("membership cache write failed")
		}
	}
	return m, nil
}

// Invalidate drops the cached entry for (userID, orgID). Called on role
// update and member removal so demotions take effect immediately.
func (c *Cache) Invalidate(ctx context.Context, userID, orgID string) error {
	return c.rdb.Del(ctx, key(userID, orgID)).Err()
}
