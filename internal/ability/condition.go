package ability

// ConditionKind names a condition in the closed set the dispatcher
// understands. Rules never carry free-form predicates or query objects.
type ConditionKind int

const (
	// OrganizationEquals requires a tenant-scoped instance to belong to
	// the organization the rule was built for. Instances without an
	// organization reference (e.g. User) are platform-scoped and pass.
	OrganizationEquals ConditionKind = iota + 1

	// OwnerEquals requires the instance's owner to be the acting user.
	// Instances without an owner fail the condition.
	OwnerEquals

	// NotOwner holds when the acting user is not the instance's owner.
	// Used on deny rules (ownership-transfer carve-out); an instance
	// without an owner counts as not owned by the actor.
	NotOwner
)

// Condition is a named predicate with parameters, evaluated against a
// concrete resource instance and the acting subject.
type Condition struct {
	Kind  ConditionKind
	OrgID string // set for OrganizationEquals
}

// holds reports whether the condition is satisfied for instance.
// instance is never nil here; the evaluator handles the no-instance
// (lazy) case before dispatching.
func (c Condition) holds(sub Subject, instance any) bool {
	switch c.Kind {
	case OrganizationEquals:
		t, ok := instance.(Tenanted)
		if !ok {
			return true
		}
		return t.ResourceOrgID() == c.OrgID
	case OwnerEquals:
		o, ok := instance.(Owned)
		if !ok {
			return false
		}
		return o.ResourceOwnerID() == sub.UserID
	case NotOwner:
		o, ok := instance.(Owned)
		if !ok {
			return true
		}
		return o.ResourceOwnerID() != sub.UserID
	}
	return false
}
