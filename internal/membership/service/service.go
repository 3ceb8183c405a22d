// Package service implements membership management: joining an
// organization, leaving it, and role changes. Authorization happens in
// the request guard before these methods run.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"clinic-access-core/internal/audit"
	"clinic-access-core/internal/membership/domain"
	"clinic-access-core/internal/membership/repository"
	userdomain "clinic-access-core/internal/user/domain"
)

// Sentinel errors; the handler maps them to HTTP statuses.
var (
	ErrAlreadyMember = errors.New("user is already a member of the organization")
	ErrNotAMember    = errors.New("user is not a member of the organization")
	ErrUnknownRole   = errors.New("unknown role")
	ErrLastAdmin     = errors.New("organization must keep at least one admin")
	ErrUserNotFound  = errors.New("user not found")
)

// UserGetter is the minimal user lookup the service needs.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// Invalidator drops a cached membership entry. The Redis cache
// implements it; nil disables eager invalidation (TTL still bounds
// staleness).
type Invalidator interface {
	Invalidate(ctx context.Context, userID, orgID string) error
}

// Service manages memberships.
type Service struct {
	repo  repository.Repository
	users UserGetter
	cache Invalidator
	audit audit.AuditLogger
}

// NewService returns a membership Service. cache and auditLogger may be nil.
func NewService(repo repository.Repository, users UserGetter, cache Invalidator, auditLogger audit.AuditLogger) *Service {
	return &Service{repo: repo, users: users, cache: cache, audit: auditLogger}
}

// AddMember creates a membership with the given role. The (user, org)
// pair must not already have one.
func (s *Service) AddMember(ctx context.Context, orgID, userID, role string) (*domain.Membership, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, ErrUnknownRole
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	existing, err := s.repo.GetMembershipByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}
	m := &domain.Membership{
		ID:        uuid.New().String(),
		UserID:    userID,
		OrgID:     orgID,
		Role:      r,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateMembership(ctx, m); err != nil {
		return nil, err
	}
	s.logEvent(ctx, orgID, userID, "member_added", string(r))
	return m, nil
}

// RemoveMember deletes the (user, org) membership. Refuses to remove the
// last admin so the organization stays manageable.
func (s *Service) RemoveMember(ctx context.Context, orgID, userID string) error {
	m, err := s.repo.GetMembershipByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotAMember
	}
	if m.Role == domain.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, orgID); err != nil {
			return err
		}
	}
	if err := s.repo.DeleteByUserAndOrg(ctx, userID, orgID); err != nil {
		return err
	}
	s.invalidate(ctx, userID, orgID)
	s.logEvent(ctx, orgID, userID, "member_removed", string(m.Role))
	return nil
}

// UpdateRole changes the member's role and invalidates the cached entry
// so the change takes effect on the next request. Demoting the last
// admin is refused.
func (s *Service) UpdateRole(ctx context.Context, orgID, userID, role string) (*domain.Membership, error) {
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, ErrUnknownRole
	}
	current, err := s.repo.GetMembershipByUserAndOrg(ctx, userID, orgID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotAMember
	}
	if current.Role == r {
		return current, nil
	}
	if current.Role == domain.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, orgID); err != nil {
			return nil, err
		}
	}
	updated, err := s.repo.UpdateRole(ctx, userID, orgID, r)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotAMember
	}
	s.invalidate(ctx, userID, orgID)
	s.logEvent(ctx, orgID, userID, "role_changed", string(r))
	return updated, nil
}

// ListMembers returns all memberships in the org.
func (s *Service) ListMembers(ctx context.Context, orgID string) ([]*domain.Membership, error) {
	return s.repo.ListMembershipsByOrg(ctx, orgID)
}

func (s *Service) ensureNotLastAdmin(ctx context.Context, orgID string) error {
	n, err := s.repo.CountAdminsByOrg(ctx, orgID)
	if err != nil {
		return err
	}
	if n <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID, orgID string) {
	if s.cache == nil {
		return
	}
	// Best-effort: the bounded TTL still caps staleness if this fails.
	_ = s.cache.Invalidate(ctx, userID, orgID)
}

func (s *Service) logEvent(ctx context.Context, orgID, userID, action, role string) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(ctx, orgID, userID, action, "Membership", role)
}
