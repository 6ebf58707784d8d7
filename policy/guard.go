package policy

import "issuetrack-restful/models"

// State is the client-observed lifecycle of a session: the token is being
// resolved, resolved to an identity, or absent/invalid.
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// Session is the explicit session context passed to guard and view
// functions instead of an ambient global.
type Session struct {
	State    State
	Identity *Identity
}

// Decision is the outcome of a dashboard guard evaluation.
type Decision int

const (
	// DecisionWait means the session is still resolving; the caller must
	// not redirect yet or it would flash a false negative.
	DecisionWait Decision = iota
	DecisionAllow
	DecisionRedirectSignIn
)

// GuardDashboard decides whether a session may enter a dashboard that
// requires an exact role. Evaluation while the session is loading always
// waits; once settled, anything short of an exact role match redirects to
// sign-in rather than showing partial data.
func GuardDashboard(s Session, required models.Role) Decision {
	if s.State == StateLoading {
		return DecisionWait
	}
	if s.State != StateAuthenticated || s.Identity == nil {
		return DecisionRedirectSignIn
	}
	if s.Identity.Role != required {
		return DecisionRedirectSignIn
	}
	return DecisionAllow
}
