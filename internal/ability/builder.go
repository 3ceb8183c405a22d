package ability

import (
	membershipdomain "clinic-access-core/internal/membership/domain"
)

// Build derives the ability Set for one subject acting under one
// membership. Pure and deterministic: the same subject and membership
// always produce a Set with identical Can results.
//
// A nil membership or a role outside the closed enum yields an empty
// Set, which denies everything.
func Build(sub Subject, m *membershipdomain.Membership) *Set {
	s := &Set{subject: sub}
	if m == nil {
		return s
	}
	orgScope := Condition{Kind: OrganizationEquals, OrgID: m.OrgID}

	switch m.Role {
	case membershipdomain.RoleAdmin:
		s.allow(ActionManage, ResourceAll, orgScope)
		// Only the current owner may hand the organization off.
		s.deny(ActionTransferOwnership, ResourceOrganization, Condition{Kind: NotOwner})

	case membershipdomain.RoleMember:
		s.allow(ActionRead, ResourceUser)
		s.allow(ActionRead, ResourceProject, orgScope)
		s.allow(ActionCreate, ResourceProject, orgScope)
		s.allow(ActionUpdate, ResourceProject, orgScope, Condition{Kind: OwnerEquals})
		s.allow(ActionDelete, ResourceProject, orgScope, Condition{Kind: OwnerEquals})
		for _, r := range []Resource{ResourceProfessional, ResourcePatient, ResourceAppointment} {
			s.allow(ActionRead, r, orgScope)
			s.allow(ActionCreate, r, orgScope)
			s.allow(ActionUpdate, r, orgScope)
		}

	case membershipdomain.RoleBilling:
		s.allow(ActionManage, ResourceBilling, orgScope)
	}
	return s
}

func (s *Set) allow(action Action, resource Resource, conds ...Condition) {
	s.rules = append(s.rules, Rule{Effect: Allow, Action: action, Resource: resource, Conditions: conds})
}

func (s *Set) deny(action Action, resource Resource, conds ...Condition) {
	s.rules = append(s.rules, Rule{Effect: Deny, Action: action, Resource: resource, Conditions: conds})
}
