// Package authz decides whether an identity may reach a role-gated route.
// It is pure: callers resolve the identity and act on the Decision.
package authz

import "github.com/iliyamo/parkspace/internal/model"

type Decision int

const (
	// Checking means the identity has not been resolved yet; show nothing.
	Checking Decision = iota
	Allow
	RedirectLogin
	RedirectHome
	// PendingReview is returned for providers whose profile is not approved.
	PendingReview
)

func (d Decision) String() string {
	switch d {
	case Checking:
		return "checking"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case PendingReview:
		return "pending_review"
	}
	return "unknown"
}

type Identity struct {
	UserID string
	Role   model.Role
}

// State is the caller's view of the current identity.
type State struct {
	Resolving bool
	Identity  *Identity
}

// Decide applies the gate. An empty allowed set admits any authenticated role.
func Decide(st State, allowed ...model.Role) Decision {
	if st.Resolving {
		return Checking
	}
	if st.Identity == nil || st.Identity.UserID == "" {
		return RedirectLogin
	}
	if len(allowed) == 0 {
		return Allow
	}
	for _, r := range allowed {
		if r == st.Identity.Role {
			return Allow
		}
	}
	return RedirectHome
}

// ProviderAccess narrows an Allow for provider pages to approved profiles.
func ProviderAccess(d Decision, status model.ProviderStatus) Decision {
	if d != Allow {
		return d
	}
	if status != model.ProviderApproved {
		return PendingReview
	}
	return Allow
}
