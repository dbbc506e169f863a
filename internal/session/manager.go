package session

import (
	"context"
	"encoding/gob"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/oneexim/portal/internal/models"
	"github.com/oneexim/portal/internal/models/dto"
)

const (
	cookieName = "oneexim-portal"
	tokenKey   = "token"
)

// DefaultFlashTTL matches the banner auto-dismiss delay of the portal UI.
const DefaultFlashTTL = 5 * time.Second

func init() {
	gob.Register(Flash{})
}

// Flash is a transient banner carried across one redirect. Expired flashes
// are dropped unread.
type Flash struct {
	Kind     string // "success" or "error"
	Message  string
	IssuedAt time.Time
}

// Backend is the slice of the API client the session layer needs.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, req dto.RegisterRequest) (models.User, error)
	Profile(ctx context.Context, token string) (models.User, error)
}

// Manager resolves, mutates, and persists the session cookie. The cookie is
// the portal's durable local storage; only the bearer token and pending
// flashes live in it.
type Manager struct {
	Store    *sessions.CookieStore
	Backend  Backend
	Log      *slog.Logger
	FlashTTL time.Duration
	Now      func() time.Time
}

// NewManager wires a manager with production defaults.
func NewManager(store *sessions.CookieStore, backend Backend, log *slog.Logger) *Manager {
	return &Manager{
		Store:    store,
		Backend:  backend,
		Log:      log,
		FlashTTL: DefaultFlashTTL,
		Now:      time.Now,
	}
}

// Bootstrap resolves the request's session. No stored token means an empty
// Ready session. A stored token is validated with a profile fetch; any
// failure is treated as an expired session and cleared silently, never
// surfaced — a stale token must not leave stale identity visible.
func (m *Manager) Bootstrap(w http.ResponseWriter, r *http.Request) Session {
	cookie, _ := m.Store.Get(r, cookieName)
	token, _ := cookie.Values[tokenKey].(string)
	if token == "" {
		return Session{Phase: PhaseReady}
	}

	if tokenExpired(token, m.Now()) {
		m.Log.Debug("stored token expired, clearing session")
		m.clear(w, r, cookie)
		return Session{Phase: PhaseReady}
	}

	user, err := m.Backend.Profile(r.Context(), token)
	if err != nil {
		m.Log.Debug("profile fetch failed, clearing session", "error", err)
		m.clear(w, r, cookie)
		return Session{Phase: PhaseReady}
	}
	return Session{Phase: PhaseReady, Token: token, User: &user}
}

// Login authenticates and persists the token. The session mutates only after
// both the token exchange and the follow-up profile fetch succeed; a failure
// in either leaves the stored state untouched and is returned for the form
// to display.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, email, password string) (Session, error) {
	token, err := m.Backend.Login(r.Context(), email, password)
	if err != nil {
		return Session{Phase: PhaseReady}, err
	}
	user, err := m.Backend.Profile(r.Context(), token)
	if err != nil {
		return Session{Phase: PhaseReady}, err
	}

	cookie, _ := m.Store.Get(r, cookieName)
	cookie.Values[tokenKey] = token
	if err := cookie.Save(r, w); err != nil {
		m.Log.Error("save session cookie", "error", err)
	}
	return Session{Phase: PhaseReady, Token: token, User: &user}, nil
}

// Register forwards account creation. Registration does not log in.
func (m *Manager) Register(r *http.Request, req dto.RegisterRequest) (models.User, error) {
	return m.Backend.Register(r.Context(), req)
}

// Logout clears the stored token. Idempotent, no backend call: logging out
// twice leaves the same empty session.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, _ := m.Store.Get(r, cookieName)
	if _, ok := cookie.Values[tokenKey]; !ok {
		return
	}
	m.clear(w, r, cookie)
}

// AddFlash queues a banner for the next page render.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	cookie, _ := m.Store.Get(r, cookieName)
	cookie.AddFlash(Flash{Kind: kind, Message: message, IssuedAt: m.Now()})
	if err := cookie.Save(r, w); err != nil {
		m.Log.Error("save flash", "error", err)
	}
}

// Flashes consumes pending banners, dropping any older than FlashTTL.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	cookie, _ := m.Store.Get(r, cookieName)
	raw := cookie.Flashes()
	if err := cookie.Save(r, w); err != nil {
		m.Log.Error("save session after flash read", "error", err)
	}

	now := m.Now()
	var out []Flash
	for _, f := range raw {
		flash, ok := f.(Flash)
		if !ok {
			continue
		}
		if now.Sub(flash.IssuedAt) > m.FlashTTL {
			continue
		}
		out = append(out, flash)
	}
	return out
}

func (m *Manager) clear(w http.ResponseWriter, r *http.Request, cookie *sessions.Session) {
	delete(cookie.Values, tokenKey)
	if err := cookie.Save(r, w); err != nil {
		m.Log.Error("clear session cookie", "error", err)
	}
}
