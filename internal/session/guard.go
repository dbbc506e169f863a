package session

import "net/http"

// loadingPage is the bootstrap interstitial served while the session is
// still Initializing. It refreshes itself; no redirect happens in this state.
const loadingPage = `<!doctype html>
<html lang="en"><head><meta charset="utf-8"><meta http-equiv="refresh" content="1"><title>Loading</title></head>
<body><p class="loading">Loading...</p></body></html>`

// Require guards a portal route. Unauthenticated visitors are redirected to
// the public site root; authenticated ones get the session in context.
func (m *Manager) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := m.Bootstrap(w, r)
		switch Decide(sess) {
		case DecisionLoading:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(loadingPage))
		case DecisionRedirect:
			http.Redirect(w, r, "/", http.StatusSeeOther)
		default:
			next(w, r.WithContext(WithSession(r.Context(), sess)))
		}
	}
}
