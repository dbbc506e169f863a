package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"github.com/oneexim/portal/internal/api"
	"github.com/oneexim/portal/internal/middleware"
	"github.com/oneexim/portal/internal/models"
	"github.com/oneexim/portal/internal/models/dto"
	"github.com/oneexim/portal/internal/session"
)

// SiteHandler serves the public marketing pages and the quote/contact forms.
type SiteHandler struct {
	API       *api.Client
	Sessions  *session.Manager
	Templates *TemplateCache
	Log       *slog.Logger
}

// Register attaches the public routes.
func (h *SiteHandler) Register(mux *http.ServeMux, rl *middleware.RateLimiter) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /quote", h.QuoteForm)
	mux.HandleFunc("POST /quote", rl.Limit(h.SubmitQuote))
	mux.HandleFunc("GET /contact", h.ContactForm)
	mux.HandleFunc("POST /contact", rl.Limit(h.SubmitContact))
}

func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(h.Templates, w, "home.html", map[string]any{
		"Categories": models.Categories(),
		"Flashes":    h.Sessions.Flashes(w, r),
	})
}

func (h *SiteHandler) QuoteForm(w http.ResponseWriter, r *http.Request) {
	render(h.Templates, w, "quote.html", map[string]any{
		"Categories": models.CategoryTitles(),
		"CsrfField":  csrf.TemplateField(r),
		"Flashes":    h.Sessions.Flashes(w, r),
	})
}

func (h *SiteHandler) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	req := dto.QuoteRequest{
		Name:               strings.TrimSpace(r.FormValue("name")),
		Company:            strings.TrimSpace(r.FormValue("company")),
		Email:              strings.TrimSpace(r.FormValue("email")),
		Phone:              strings.TrimSpace(r.FormValue("phone")),
		ProductCategory:    strings.TrimSpace(r.FormValue("product_category")),
		ProductDescription: strings.TrimSpace(r.FormValue("product_description")),
		DestinationCountry: strings.TrimSpace(r.FormValue("destination_country")),
		Quantity:           strings.TrimSpace(r.FormValue("quantity")),
		MOQ:                strings.TrimSpace(r.FormValue("moq")),
		Urgency:            strings.TrimSpace(r.FormValue("urgency")),
		SpecialInstruction: strings.TrimSpace(r.FormValue("special_instructions")),
	}
	if req.Name == "" || req.Company == "" || req.Email == "" || req.Phone == "" ||
		req.ProductCategory == "" || req.ProductDescription == "" ||
		req.DestinationCountry == "" || req.Quantity == "" {
		h.Sessions.AddFlash(w, r, "error", "Please fill in all required fields.")
		http.Redirect(w, r, "/quote", http.StatusSeeOther)
		return
	}

	if err := h.API.SubmitQuote(r.Context(), req); err != nil {
		h.Log.Error("submit quote", "error", err)
		h.Sessions.AddFlash(w, r, "error", api.Message(err, "Failed to submit quote request. Please try again."))
		http.Redirect(w, r, "/quote", http.StatusSeeOther)
		return
	}
	h.Sessions.AddFlash(w, r, "success", "Quote request submitted successfully! We will get back to you within 24 hours.")
	http.Redirect(w, r, "/quote", http.StatusSeeOther)
}

func (h *SiteHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	render(h.Templates, w, "contact.html", map[string]any{
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   h.Sessions.Flashes(w, r),
	})
}

func (h *SiteHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	req := dto.ContactRequest{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Company: strings.TrimSpace(r.FormValue("company")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		h.Sessions.AddFlash(w, r, "error", "Please fill in all required fields.")
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	if err := h.API.SubmitContact(r.Context(), req); err != nil {
		h.Log.Error("submit contact", "error", err)
		h.Sessions.AddFlash(w, r, "error", api.Message(err, "Failed to send message. Please try again."))
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}
	h.Sessions.AddFlash(w, r, "success", "Message sent successfully! We will get back to you soon.")
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}
