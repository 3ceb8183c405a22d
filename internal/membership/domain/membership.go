package domain

import (
	"time"
)

// Membership links a user to an organization with a role. A (user, org)
// pair has at most one membership; the composite unique index in the
// memberships table enforces this.
type Membership struct {
	ID        string
	UserID    string
	OrgID     string
	Role      Role
	CreatedAt time.Time
}

// Role is the closed set of membership roles. The zero value is not a
// valid role; anything outside the three constants yields no abilities.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
	RoleBilling Role = "billing"
)

// ParseRole maps a stored role string to a Role. Returns ("", false) for
// anything outside the closed set so callers cannot invent roles.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleMember, RoleBilling:
		return Role(s), true
	}
	return "", false
}
