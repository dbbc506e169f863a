package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oneexim/portal/internal/models"
	"github.com/oneexim/portal/internal/models/dto"
)

// fakeBackend counts calls so tests can assert which round-trips happened.
type fakeBackend struct {
	loginCalls   int
	profileCalls int

	token      string
	loginErr   error
	user       models.User
	profileErr error
}

func (f *fakeBackend) Login(_ context.Context, _, _ string) (string, error) {
	f.loginCalls++
	return f.token, f.loginErr
}

func (f *fakeBackend) Register(_ context.Context, req dto.RegisterRequest) (models.User, error) {
	return models.User{Name: req.Name, Email: req.Email, Company: req.Company}, nil
}

func (f *fakeBackend) Profile(_ context.Context, _ string) (models.User, error) {
	f.profileCalls++
	return f.user, f.profileErr
}

func newTestManager(backend Backend) *Manager {
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewManager(store, backend, log)
}

// withCookies builds a fresh request carrying the cookies a previous
// response set.
func withCookies(rec *httptest.ResponseRecorder, target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// seedToken writes a token into a session cookie the way a past login
// would have, and returns a request presenting that cookie.
func seedToken(t *testing.T, m *Manager, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/portal", nil)
	rec := httptest.NewRecorder()
	cookie, err := m.Store.Get(req, cookieName)
	require.NoError(t, err)
	cookie.Values[tokenKey] = token
	require.NoError(t, cookie.Save(req, rec))
	return withCookies(rec, "/portal")
}

func TestLoginPersistsTokenOnlyAfterProfileSucceeds(t *testing.T) {
	backend := &fakeBackend{token: "tok-abc", user: models.User{ID: "u1", Email: "client@example.com"}}
	m := newTestManager(backend)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	sess, err := m.Login(rec, req, "client@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "tok-abc", sess.Token)
	require.NotEmpty(t, rec.Result().Cookies(), "login must set the session cookie")

	// A follow-up request with the issued cookie resolves to the same identity.
	sess = m.Bootstrap(httptest.NewRecorder(), withCookies(rec, "/portal"))
	assert.True(t, sess.Authenticated())
	assert.Equal(t, "client@example.com", sess.User.Email)
	assert.Equal(t, 1, backend.loginCalls)
	assert.Equal(t, 2, backend.profileCalls)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	backend := &fakeBackend{loginErr: errors.New("incorrect email or password")}
	m := newTestManager(backend)

	rec := httptest.NewRecorder()
	sess, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "a@b.c", "wrong")
	require.Error(t, err)
	assert.False(t, sess.Authenticated())
	assert.Empty(t, rec.Result().Cookies())
}

func TestLoginProfileFailureDoesNotPersist(t *testing.T) {
	backend := &fakeBackend{token: "tok-abc", profileErr: errors.New("backend down")}
	m := newTestManager(backend)

	rec := httptest.NewRecorder()
	_, err := m.Login(rec, httptest.NewRequest(http.MethodPost, "/login", nil), "a@b.c", "pw")
	require.Error(t, err)
	assert.Empty(t, rec.Result().Cookies())
}

func TestBootstrapWithoutTokenIsEmptyReady(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestManager(backend)

	sess := m.Bootstrap(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/portal", nil))
	assert.Equal(t, PhaseReady, sess.Phase)
	assert.False(t, sess.Authenticated())
	assert.Zero(t, backend.profileCalls)
}

func TestBootstrapRejectedTokenClearsSession(t *testing.T) {
	backend := &fakeBackend{profileErr: errors.New("could not validate credentials")}
	m := newTestManager(backend)

	rec := httptest.NewRecorder()
	sess := m.Bootstrap(rec, seedToken(t, m, "tok-stale"))
	assert.False(t, sess.Authenticated())
	assert.Equal(t, 1, backend.profileCalls)

	// The cleared cookie carries no token: the next bootstrap never hits
	// the backend, even once it is healthy again.
	backend.profileErr = nil
	sess = m.Bootstrap(httptest.NewRecorder(), withCookies(rec, "/portal"))
	assert.False(t, sess.Authenticated())
	assert.Equal(t, 1, backend.profileCalls)
}

func TestBootstrapExpiredTokenSkipsBackend(t *testing.T) {
	backend := &fakeBackend{user: models.User{ID: "u1"}}
	m := newTestManager(backend)
	m.Now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	expired := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": m.Now().Add(-time.Minute).Unix()})
	sess := m.Bootstrap(httptest.NewRecorder(), seedToken(t, m, expired))
	assert.False(t, sess.Authenticated())
	assert.Zero(t, backend.profileCalls)
}

func TestLogoutIsIdempotentAndOffline(t *testing.T) {
	backend := &fakeBackend{}
	m := newTestManager(backend)

	rec := httptest.NewRecorder()
	m.Logout(rec, seedToken(t, m, "tok-abc"))
	require.NotEmpty(t, rec.Result().Cookies(), "logout must rewrite the cookie")

	sess := m.Bootstrap(httptest.NewRecorder(), withCookies(rec, "/portal"))
	assert.False(t, sess.Authenticated())

	// Second logout on an already-empty session writes nothing.
	rec2 := httptest.NewRecorder()
	m.Logout(rec2, withCookies(rec, "/"))
	assert.Empty(t, rec2.Result().Cookies())

	assert.Zero(t, backend.loginCalls)
	assert.Zero(t, backend.profileCalls)
}

func TestFlashesConsumedOnRead(t *testing.T) {
	m := newTestManager(&fakeBackend{})

	rec := httptest.NewRecorder()
	m.AddFlash(rec, httptest.NewRequest(http.MethodPost, "/quote", nil), "success", "Quote request submitted successfully!")

	rec2 := httptest.NewRecorder()
	flashes := m.Flashes(rec2, withCookies(rec, "/quote"))
	require.Len(t, flashes, 1)
	assert.Equal(t, "success", flashes[0].Kind)
	assert.Equal(t, "Quote request submitted successfully!", flashes[0].Message)

	// Reading consumed the flash; the rewritten cookie holds none.
	flashes = m.Flashes(httptest.NewRecorder(), withCookies(rec2, "/quote"))
	assert.Empty(t, flashes)
}

func TestFlashesExpireAfterTTL(t *testing.T) {
	m := newTestManager(&fakeBackend{})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.Now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	m.AddFlash(rec, httptest.NewRequest(http.MethodPost, "/contact", nil), "success", "Message sent successfully!")

	now = now.Add(m.FlashTTL + time.Second)
	flashes := m.Flashes(httptest.NewRecorder(), withCookies(rec, "/contact"))
	assert.Empty(t, flashes)
}
