package ability

// Set is the computed collection of rules for one subject in one
// organization context. Sets are cheap to build and request-scoped;
// they hold no mutable state after construction.
type Set struct {
	subject Subject
	rules   []Rule
}

// Subject returns the acting subject the Set was built for.
func (s *Set) Subject() Subject {
	return s.subject
}

// Can reports whether action on resource is permitted, optionally for a
// concrete instance.
//
// Deny rules are evaluated before allow rules, so an applicable deny
// always overrides an allow for the same action and resource. With no
// instance, conditioned allow rules match provisionally (the caller must
// re-check with the instance before mutating it) and conditioned deny
// rules do not fire. No matching rule means false.
func (s *Set) Can(action Action, resource Resource, instance any) bool {
	for _, r := range s.rules {
		if r.Effect != Deny || !r.matches(action, resource) {
			continue
		}
		if s.conditionsHold(r, instance) {
			return false
		}
	}
	for _, r := range s.rules {
		if r.Effect != Allow || !r.matches(action, resource) {
			continue
		}
		if instance == nil || s.conditionsHold(r, instance) {
			return true
		}
	}
	return false
}

// matches reports whether the rule covers action on resource. ActionManage
// and ResourceAll are wildcards on allow rules; deny rules are written
// with exact action and resource, so exact comparison suffices for both.
func (r Rule) matches(action Action, resource Resource) bool {
	if r.Action != action && !(r.Effect == Allow && r.Action == ActionManage) {
		return false
	}
	if r.Resource != resource && !(r.Effect == Allow && r.Resource == ResourceAll) {
		return false
	}
	return true
}

// conditionsHold reports whether every condition on r is satisfied for
// instance. A deny rule with conditions never fires without an instance;
// the allow path handles the nil-instance case before calling this.
func (s *Set) conditionsHold(r Rule, instance any) bool {
	if instance == nil {
		return len(r.Conditions) == 0
	}
	for _, c := range r.Conditions {
		if !c.holds(s.subject, instance) {
			return false
		}
	}
	return true
}
