package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/oneexim/portal/internal/api"
	"github.com/oneexim/portal/internal/models/dto"
	"github.com/oneexim/portal/internal/session"
)

// AuthHandler owns the login, registration, and logout routes.
type AuthHandler struct {
	Sessions  *session.Manager
	Templates *TemplateCache
	Log       *slog.Logger
}

// Register attaches the auth routes.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.RegisterAccount)
	mux.HandleFunc("POST /logout", h.Logout)
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	render(h.Templates, w, "login.html", map[string]any{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   h.Sessions.Flashes(w, r),
		"Email":     "",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	if email == "" || password == "" {
		h.renderLoginError(w, r, email, "Email and password are required.")
		return
	}

	if _, err := h.Sessions.Login(w, r, email, password); err != nil {
		h.Log.Info("login failed", "email", email, "error", err)
		h.renderLoginError(w, r, email, api.Message(err, "Login failed"))
		return
	}
	http.Redirect(w, r, "/portal", http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, email, message string) {
	render(h.Templates, w, "login.html", map[string]any{
		"CsrfField": csrf.TemplateField(r),
		"Error":     message,
		"Email":     email,
	})
}

func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	render(h.Templates, w, "register.html", map[string]any{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   h.Sessions.Flashes(w, r),
		"Values":    dto.RegisterRequest{},
	})
}

func (h *AuthHandler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	req := dto.RegisterRequest{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Company:  strings.TrimSpace(r.FormValue("company")),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
		Address:  strings.TrimSpace(r.FormValue("address")),
		Password: r.FormValue("password"),
	}
	if req.Name == "" || req.Email == "" || req.Company == "" || req.Password == "" {
		h.renderRegisterError(w, r, req, "Name, email, company, and password are required.")
		return
	}

	if _, err := h.Sessions.Register(r, req); err != nil {
		h.Log.Info("registration failed", "email", req.Email, "error", err)
		h.renderRegisterError(w, r, req, api.Message(err, "Registration failed"))
		return
	}
	// Registration does not log in; send the new account to the login form.
	h.Sessions.AddFlash(w, r, "success", "Account created successfully! Please sign in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderRegisterError(w http.ResponseWriter, r *http.Request, req dto.RegisterRequest, message string) {
	render(h.Templates, w, "register.html", map[string]any{
		"CsrfField": csrf.TemplateField(r),
		"Error":     message,
		"Values":    req,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
