// Package ability builds and evaluates per-request authorization rules.
//
// An ability Set is derived from a user's membership role at request time
// and never persisted. Evaluation is fail-closed: no matching rule means
// deny, and an applicable deny rule always overrides an allow rule for
// the same action and resource.
package ability

// Action is a verb a subject may perform on a resource type.
type Action string

const (
	// ActionManage matches every action when it appears on an allow rule.
	ActionManage Action = "manage"

	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"

	// ActionTransferOwnership moves an organization to a new owner.
	ActionTransferOwnership Action = "transfer_ownership"
)

// Resource is a resource type name rules are keyed on.
type Resource string

const (
	// ResourceAll matches every resource type when it appears on an allow rule.
	ResourceAll Resource = "*"

	ResourceUser         Resource = "User"
	ResourceOrganization Resource = "Organization"
	ResourceProject      Resource = "Project"
	ResourcePatient      Resource = "Patient"
	ResourceProfessional Resource = "Professional"
	ResourceAppointment  Resource = "Appointment"
	ResourceBilling      Resource = "Billing"
)

// Effect is the outcome a rule contributes when it applies.
type Effect int

const (
	Allow Effect = iota
	Deny
)

// Rule grants or denies one action on one resource type, optionally
// narrowed by conditions. All conditions on a rule must hold for the
// rule to apply to a concrete instance.
type Rule struct {
	Effect     Effect
	Action     Action
	Resource   Resource
	Conditions []Condition
}

// Subject identifies the acting user during condition evaluation.
type Subject struct {
	UserID string
}

// Owned is implemented by resource instances that carry an owning user.
type Owned interface {
	ResourceOwnerID() string
}

// Tenanted is implemented by resource instances that carry an
// organization reference. Every clinic domain resource implements it.
type Tenanted interface {
	ResourceOrgID() string
}
