// Package session owns the portal's authentication state: the bearer token
// persisted in a signed cookie, the identity fetched from the backend, and
// the guard decision for portal routes.
package session

import "github.com/oneexim/portal/internal/models"

// Phase tracks session bootstrap. A session starts Initializing and moves to
// Ready exactly once, when the stored token is either validated or cleared.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseReady
)

// Session is the per-request authentication state. Token is non-empty iff an
// authentication attempt succeeded and was not cleared; User is non-nil only
// after a profile fetch against a valid token.
type Session struct {
	Phase Phase
	Token string
	User  *models.User
}

// Authenticated reports whether guarded content may render.
func (s Session) Authenticated() bool {
	return s.Phase == PhaseReady && s.Token != "" && s.User != nil
}

// Decision is the route guard's verdict for a portal request.
type Decision int

const (
	// DecisionLoading renders the bootstrap interstitial; no redirect yet.
	DecisionLoading Decision = iota
	// DecisionRedirect sends the visitor to the public site root.
	DecisionRedirect
	// DecisionAllow serves the guarded content.
	DecisionAllow
)

// Decide maps session state to the guard outcome. While Initializing the
// guard must not redirect; once Ready the outcome is fixed until an explicit
// logout clears the session.
func Decide(s Session) Decision {
	if s.Phase == PhaseInitializing {
		return DecisionLoading
	}
	if !s.Authenticated() {
		return DecisionRedirect
	}
	return DecisionAllow
}
