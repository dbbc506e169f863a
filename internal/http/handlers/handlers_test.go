package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/oneexim/portal/internal/api"
	"github.com/oneexim/portal/internal/middleware"
	"github.com/oneexim/portal/internal/models"
	"github.com/oneexim/portal/internal/models/dto"
	"github.com/oneexim/portal/internal/session"
)

const (
	testEmail    = "client@example.com"
	testPassword = "secret123"
	testToken    = "tok-good"
)

// fakeBackend plays the REST backend the portal consumes. State is mutable
// so tests can flip failure modes mid-scenario.
type fakeBackend struct {
	mu sync.Mutex

	failProfile bool
	failOrders  bool

	user     models.User
	stats    models.DashboardStats
	orders   []models.Order
	docs     map[string][]models.Document
	payloads map[string]models.DocumentPayload
	messages []models.Message

	quoteCalls   int
	contactCalls int
	sentMessages []dto.MessageCreate
	updates      []dto.ProfileUpdate

	mux *http.ServeMux
}

func newFakeBackend() *fakeBackend {
	f := &fakeBackend{
		user:     models.User{ID: "u1", Name: "Jordan Client", Email: testEmail, Company: "Acme Exports"},
		docs:     make(map[string][]models.Document),
		payloads: make(map[string]models.DocumentPayload),
		mux:      http.NewServeMux(),
	}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	detail := func(w http.ResponseWriter, status int, msg string) {
		writeJSON(w, status, map[string]string{"detail": msg})
	}
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				detail(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			next(w, r)
		}
	}

	f.mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != testEmail || req.Password != testPassword {
			detail(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		writeJSON(w, http.StatusOK, dto.TokenResponse{AccessToken: testToken, TokenType: "bearer"})
	})
	f.mux.HandleFunc("POST /register", func(w http.ResponseWriter, r *http.Request) {
		var req dto.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == testEmail {
			detail(w, http.StatusBadRequest, "Email already registered")
			return
		}
		writeJSON(w, http.StatusOK, models.User{ID: "u2", Name: req.Name, Email: req.Email, Company: req.Company})
	})
	f.mux.HandleFunc("GET /profile", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail, user := f.failProfile, f.user
		f.mu.Unlock()
		if fail {
			detail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}))
	f.mux.HandleFunc("PUT /profile", authed(func(w http.ResponseWriter, r *http.Request) {
		var req dto.ProfileUpdate
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.updates = append(f.updates, req)
		f.user.Name = req.Name
		user := f.user
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, user)
	}))
	f.mux.HandleFunc("GET /dashboard/stats", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.stats)
	}))
	f.mux.HandleFunc("GET /orders", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail, orders := f.failOrders, f.orders
		f.mu.Unlock()
		if fail {
			detail(w, http.StatusInternalServerError, "orders unavailable")
			return
		}
		if orders == nil {
			orders = []models.Order{}
		}
		writeJSON(w, http.StatusOK, orders)
	}))
	f.mux.HandleFunc("GET /orders/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, o := range f.orders {
			if o.ID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, o)
				return
			}
		}
		detail(w, http.StatusNotFound, "Order not found")
	}))
	f.mux.HandleFunc("GET /orders/{id}/documents", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		docs := f.docs[r.PathValue("id")]
		if docs == nil {
			docs = []models.Document{}
		}
		writeJSON(w, http.StatusOK, docs)
	}))
	f.mux.HandleFunc("GET /documents/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if p, ok := f.payloads[r.PathValue("id")]; ok {
			writeJSON(w, http.StatusOK, p)
			return
		}
		detail(w, http.StatusNotFound, "Document not found")
	}))
	f.mux.HandleFunc("GET /messages", authed(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		msgs := f.messages
		if msgs == nil {
			msgs = []models.Message{}
		}
		writeJSON(w, http.StatusOK, msgs)
	}))
	f.mux.HandleFunc("POST /messages", authed(func(w http.ResponseWriter, r *http.Request) {
		var req dto.MessageCreate
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.sentMessages = append(f.sentMessages, req)
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, models.Message{ID: "m-new", Subject: req.Subject, Content: req.Content, MessageType: models.MsgUser})
	}))
	f.mux.HandleFunc("POST /quote", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.quoteCalls++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"id": "q1"})
	})
	f.mux.HandleFunc("POST /contact", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.contactCalls++
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"id": "c1"})
	})
	return f
}

// portalEnv is the full handler stack over a fake backend, minus the outer
// CSRF wrapper so tests can post forms directly.
type portalEnv struct {
	t       *testing.T
	mux     *http.ServeMux
	manager *session.Manager
	backend *fakeBackend
}

func newEnv(t *testing.T) *portalEnv {
	return newEnvWithLogger(t, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newEnvWithLogger(t *testing.T, log *slog.Logger) *portalEnv {
	t.Helper()

	backend := newFakeBackend()
	ts := httptest.NewServer(backend.mux)
	t.Cleanup(ts.Close)

	client := api.New(ts.URL, 5*time.Second)
	store := sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))
	manager := session.NewManager(store, client, log)

	tc := NewTemplateCache()
	require.NoError(t, tc.Load("../../../templates"))

	mux := http.NewServeMux()
	rl := middleware.NewRateLimiter(0)
	t.Cleanup(rl.Stop)
	(&SiteHandler{API: client, Sessions: manager, Templates: tc, Log: log}).Register(mux, rl)
	(&AuthHandler{Sessions: manager, Templates: tc, Log: log}).Register(mux)
	(&PortalHandler{API: client, Sessions: manager, Templates: tc, Log: log}).Register(mux)

	return &portalEnv{t: t, mux: mux, manager: manager, backend: backend}
}

func (e *portalEnv) get(target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func (e *portalEnv) postForm(target string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

// login authenticates through the real login route and returns the session
// cookies a browser would carry afterwards.
func (e *portalEnv) login() []*http.Cookie {
	e.t.Helper()
	rec := e.postForm("/login", url.Values{"email": {testEmail}, "password": {testPassword}})
	require.Equal(e.t, http.StatusSeeOther, rec.Code)
	require.Equal(e.t, "/portal", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(e.t, cookies)
	return cookies
}

func orderFixture(n int, status models.OrderStatus) models.Order {
	return models.Order{
		ID:                 fmt.Sprintf("o%d", n),
		UserID:             "u1",
		OrderNumber:        fmt.Sprintf("ORD-2024-%03d", n),
		ProductCategory:    "Food & Agriculture",
		ProductDescription: "Dried mango, retail packs",
		Quantity:           "2 tons",
		DestinationCountry: "Germany",
		Status:             status,
		Currency:           "USD",
		CreatedAt:          time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC),
		UpdatedAt:          time.Date(2024, 5, 11, 9, 0, 0, 0, time.UTC),
	}
}
