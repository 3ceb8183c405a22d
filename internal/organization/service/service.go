// Package service implements organization lifecycle: creation (the
// creator becomes owner and first admin) and ownership transfer.
package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinic-access-core/internal/audit"
	membershipdomain "clinic-access-core/internal/membership/domain"
	membershiprepo "clinic-access-core/internal/membership/repository"
	"clinic-access-core/internal/organization/domain"
	"clinic-access-core/internal/organization/repository"
)

// Sentinel errors; the handler maps them to HTTP statuses.
var (
	ErrSlugTaken      = errors.New("slug already in use")
	ErrInvalidSlug    = errors.New("slug must be lowercase letters, digits, and hyphens")
	ErrOrgNotFound    = errors.New("organization not found")
	ErrOwnerNotMember = errors.New("new owner must be a member of the organization")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Service manages organizations.
type Service struct {
	orgs        repository.Repository
	memberships membershiprepo.Repository
	audit       audit.AuditLogger
}

// NewService returns an organization Service. auditLogger may be nil.
func NewService(orgs repository.Repository, memberships membershiprepo.Repository, auditLogger audit.AuditLogger) *Service {
	return &Service{orgs: orgs, memberships: memberships, audit: auditLogger}
}

// Create creates an organization owned by ownerID and makes the owner
// its first admin member. Slugs are globally unique.
func (s *Service) Create(ctx context.Context, name, slug, ownerID string) (*domain.Org, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}
	existing, err := s.orgs.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSlugTaken
	}

	now := time.Now().UTC()
	org := &domain.Org{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Slug:      slug,
		OwnerID:   ownerID,
		Status:    domain.OrgStatusActive,
		CreatedAt: now,
	}
	if err := org.Validate(); err != nil {
		return nil, err
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	m := &membershipdomain.Membership{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		OrgID:     org.ID,
		Role:      membershipdomain.RoleAdmin,
		CreatedAt: now,
	}
	if err := s.memberships.CreateMembership(ctx, m); err != nil {
		return nil, err
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, org.ID, ownerID, "org_created", "Organization", slug)
	}
	return org, nil
}

// Get returns the organization for id, or ErrOrgNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Org, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}
	return org, nil
}

// TransferOwnership hands the org to newOwnerID, who must already be a
// member. The guard has already verified the acting user is the current
// owner via the ability deny carve-out.
func (s *Service) TransferOwnership(ctx context.Context, orgID, newOwnerID string) (*domain.Org, error) {
	m, err := s.memberships.GetMembershipByUserAndOrg(ctx, newOwnerID, orgID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrOwnerNotMember
	}
	org, err := s.orgs.TransferOwnership(ctx, orgID, newOwnerID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrOrgNotFound
	}
	if s.audit != nil {
		s.audit.LogEvent(ctx, orgID, newOwnerID, "ownership_transferred", "Organization", "")
	}
	return org, nil
}
