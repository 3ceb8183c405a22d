// Package guard is the boundary every resource-mutating route calls
// before doing work: resolve identity, load membership, build the
// ability set, evaluate the requested action. Rejections short-circuit
// before any persistence-layer call.
package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"clinic-access-core/internal/ability"
	"clinic-access-core/internal/identity"
	membershipdomain "clinic-access-core/internal/membership/domain"
)

// IdentityResolver resolves a bearer credential to an identity.
// *identity.Resolver implements it.
type IdentityResolver interface {
	Resolve(credential string) (*identity.Identity, error)
}

// MembershipSource looks up the membership for (user, org). Served by
// the cached store in production; a missing membership is (nil, nil).
type MembershipSource interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*membershipdomain.Membership, error)
}

// Recorder records authorization outcomes, best-effort. The audit
// logger implements it.
type Recorder interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string)
}

// Request is the boundary input: one credential, one target org, one
// action on one resource type, optionally a concrete instance.
type Request struct {
	Credential string
	OrgID      string
	Action     ability.Action
	Resource   ability.Resource
	Instance   any
}

// Decision is handed to the wrapped handler on approval. It carries the
// resolved identity, membership, and ability set explicitly; nothing is
// attached to ambient request state.
type Decision struct {
	Identity   *identity.Identity
	Membership *membershipdomain.Membership
	Abilities  *ability.Set
}

// Can re-evaluates an action against the decision's ability set. Routes
// use it for the instance-level re-check after loading a resource.
func (d *Decision) Can(action ability.Action, resource ability.Resource, instance any) bool {
	return d.Abilities.Can(action, resource, instance)
}

// Guard authorizes requests. Stateless across requests; every decision
// is computed from data fetched fresh (or from the bounded-TTL
// membership cache) for that request.
type Guard struct {
	identities    IdentityResolver
	memberships   MembershipSource
	recorder      Recorder
	lookupTimeout time.Duration
	log           zerolog.Logger
}

// New returns a Guard. recorder may be nil (no audit). lookupTimeout
// bounds the membership lookup; zero or negative falls back to 3s.
func New(identities IdentityResolver, memberships MembershipSource, recorder Recorder, lookupTimeout time.Duration, log zerolog.Logger) *Guard {
	if lookupTimeout <= 0 {
		lookupTimeout = 3 * time.Second
	}
	return &Guard{
		identities:    identities,
		memberships:   memberships,
		recorder:      recorder,
		lookupTimeout: lookupTimeout,
		log:           log,
	}
}

// Authorize runs the full pipeline for req and returns a Decision or a
// taxonomy error (ErrUnauthenticated, ErrForbidden, ErrUpstreamUnavailable).
//
// An invalid credential fails before any membership lookup. A missing
// membership means no standing in the organization and is surfaced as
// ErrForbidden. Lookup failure or timeout is ErrUpstreamUnavailable,
// never an allow. If the parent context is cancelled the lookup is
// abandoned and no decision is returned.
func (g *Guard) Authorize(ctx context.Context, req Request) (*Decision, error) {
	id, err := g.identities.Resolve(req.Credential)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	if req.OrgID == "" {
		g.record(ctx, "", id.UserID, req, "no target organization")
		return nil, ErrForbidden
	}

	lookupCtx, cancel := context.WithTimeout(ctx, g.lookupTimeout)
	defer cancel()
	m, err := g.memberships.GetMembershipByUserAndOrg(lookupCtx, id.UserID, req.OrgID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.log.Error().Err(err).Str("org_id", req.OrgID).Msg("membership lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if m == nil {
		g.record(ctx, req.OrgID, id.UserID, req, "not a member")
		return nil, ErrNoMembership
	}

	set := ability.Build(ability.Subject{UserID: id.UserID}, m)
	if !set.Can(req.Action, req.Resource, req.Instance) {
		g.record(ctx, req.OrgID, id.UserID, req, "rule denied")
		return nil, ErrForbidden
	}

	return &Decision{Identity: id, Membership: m, Abilities: set}, nil
}

func (g *Guard) record(ctx context.Context, orgID, userID string, req Request, reason string) {
	if g.recorder == nil {
		return
	}
	g.recorder.LogEvent(ctx, orgID, userID, "deny:"+string(req.Action), string(req.Resource), reason)
}
