package guard

import (
	"errors"
	"fmt"
)

// Rejection taxonomy. The transport layer maps these to status codes;
// routes never see raw upstream errors, and nothing here is ever
// converted into a default allow.
var (
	// ErrUnauthenticated: absent, malformed, or expired credential.
	// Recoverable by re-authenticating; never retried automatically.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden: authenticated identity lacks permission for the
	// requested action in the target organization.
	ErrForbidden = errors.New("forbidden")

	// ErrUpstreamUnavailable: the identity provider or membership store
	// failed or timed out. A 5xx-class outcome, distinct from a
	// security decision.
	ErrUpstreamUnavailable = errors.New("authorization upstream unavailable")
)

// ErrNoMembership: the user has no membership in the target org. It is
// surfaced as ErrForbidden (not a 404) so organization existence does
// not leak, but remains distinguishable for audit metadata.
var ErrNoMembership = fmt.Errorf("no membership in organization: %w", ErrForbidden)
