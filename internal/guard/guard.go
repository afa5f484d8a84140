// Package guard decides whether the current session may open a screen.
package guard

import (
	"slices"

	"github.com/naveenspark/storefront/internal/session"
	"github.com/naveenspark/storefront/pkg/domain"
)

// Well-known paths the guard redirects to.
const (
	PathHome       = "/"
	PathLogin      = "/login"
	PathOnboarding = "/seller/onboarding"
)

// Requirement is the access rule attached to a protected route.
type Requirement struct {
	// AllowedRoles limits access to these roles. Empty means any signed-in user.
	AllowedRoles []domain.Role
	// RequireApproval sends sellers that are not APPROVED to onboarding.
	RequireApproval bool
}

// Outcome is the kind of decision.
type Outcome int

const (
	// Allow renders the protected screen.
	Allow Outcome = iota
	// Loading renders a neutral placeholder; the session is not ready yet.
	Loading
	// Redirect navigates to Decision.Target instead.
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the guard's answer for one navigation.
type Decision struct {
	Outcome Outcome
	Target  string // redirect target
	From    string // originating path, set only for onboarding redirects
}

// Check evaluates req for path against the session state. The order is
// fixed: loading, anonymous, role, approval. Role is checked before approval
// so a non-seller is never sent to seller onboarding.
func Check(st session.State, path string, req Requirement) Decision {
	if st.Loading {
		return Decision{Outcome: Loading}
	}
	if st.User == nil {
		return Decision{Outcome: Redirect, Target: PathLogin}
	}
	if len(req.AllowedRoles) > 0 && !slices.Contains(req.AllowedRoles, st.User.Role) {
		return Decision{Outcome: Redirect, Target: PathHome}
	}
	if req.RequireApproval && st.User.Role == domain.RoleSeller && st.User.AccountStatus != domain.StatusApproved {
		return Decision{Outcome: Redirect, Target: PathOnboarding, From: path}
	}
	return Decision{Outcome: Allow}
}
