package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"golang.org/x/sync/errgroup"

	"github.com/oneexim/portal/internal/api"
	"github.com/oneexim/portal/internal/models"
	"github.com/oneexim/portal/internal/models/dto"
	"github.com/oneexim/portal/internal/session"
)

// recentOrderCount bounds the dashboard's recent-orders table.
const recentOrderCount = 5

// PortalHandler serves the authenticated client portal screens.
type PortalHandler struct {
	API       *api.Client
	Sessions  *session.Manager
	Templates *TemplateCache
	Log       *slog.Logger
}

// Register attaches the portal routes behind the session guard.
func (h *PortalHandler) Register(mux *http.ServeMux) {
	guard := h.Sessions.Require
	mux.HandleFunc("GET /portal", guard(h.Dashboard))
	mux.HandleFunc("GET /portal/orders", guard(h.Orders))
	mux.HandleFunc("GET /portal/orders/{id}", guard(h.OrderDetail))
	mux.HandleFunc("GET /portal/messages", guard(h.Messages))
	mux.HandleFunc("POST /portal/messages", guard(h.SendMessage))
	mux.HandleFunc("GET /portal/documents", guard(h.Documents))
	mux.HandleFunc("GET /portal/documents/{id}/download", guard(h.DownloadDocument))
	mux.HandleFunc("GET /portal/profile", guard(h.ProfileForm))
	mux.HandleFunc("POST /portal/profile", guard(h.UpdateProfile))
	// Catch-all: unknown /portal/* paths still go through the guard, so
	// unauthenticated visitors are redirected rather than shown a 404.
	mux.HandleFunc("/portal/", guard(h.notFound))
}

func (h *PortalHandler) notFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}

// pageData carries the portal shell fields every screen needs.
func (h *PortalHandler) pageData(w http.ResponseWriter, r *http.Request, active string) map[string]any {
	user, _ := session.UserFromContext(r.Context())
	return map[string]any{
		"User":      user,
		"Active":    active,
		"Flashes":   h.Sessions.Flashes(w, r),
		"CsrfField": csrf.TemplateField(r),
	}
}

func (h *PortalHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromContext(r.Context())

	var (
		stats  models.DashboardStats
		orders []models.Order
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		stats, err = h.API.DashboardStats(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = h.API.Orders(ctx, token)
		return err
	})
	// A failed fetch degrades to zero values; the screen still renders.
	// NewListView logs the failure.
	fetchErr := g.Wait()

	if len(orders) > recentOrderCount {
		orders = orders[:recentOrderCount]
	}
	data := h.pageData(w, r, "dashboard")
	data["Stats"] = stats
	data["Recent"] = NewListView(orders, fetchErr, h.Log, "recent orders")
	render(h.Templates, w, "portal_dashboard.html", data)
}

func (h *PortalHandler) Orders(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromContext(r.Context())
	orders, err := h.API.Orders(r.Context(), token)

	data := h.pageData(w, r, "orders")
	data["Orders"] = NewListView(orders, err, h.Log, "orders")
	render(h.Templates, w, "portal_orders.html", data)
}

func (h *PortalHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromContext(r.Context())
	id := r.PathValue("id")

	var (
		order models.Order
		docs  []models.Document
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		order, err = h.API.Order(ctx, token, id)
		return err
	})
	g.Go(func() error {
		d, err := h.API.OrderDocuments(ctx, token, id)
		if err != nil {
			// Document failures leave the order page usable.
			h.Log.Error("fetch order documents", "order_id", id, "error", err)
			return nil
		}
		docs = d
		return nil
	})
	err := g.Wait()

	state := detailState(err)
	if state == ViewNotFound && !api.IsNotFound(err) {
		h.Log.Error("fetch order", "order_id", id, "error", err)
	}

	data := h.pageData(w, r, "orders")
	data["NotFound"] = state == ViewNotFound
	data["Order"] = order
	data["Documents"] = docs
	if state == ViewNotFound {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
	}
	render(h.Templates, w, "portal_order_detail.html", data)
}

func (h *PortalHandler) Messages(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromContext(r.Context())

	var (
		messages []models.Message
		orders   []models.Order
	)
	g, ctx := errgroup.WithContext(r.Context())
	var msgErr error
	g.Go(func() error {
		messages, msgErr = h.API.Messages(ctx, token)
		return nil
	})
	g.Go(func() error {
		o, err := h.API.Orders(ctx, token)
		if err != nil {
			// The composer's order selector just comes up empty.
			h.Log.Error("fetch orders for composer", "error", err)
			return nil
		}
		orders = o
		return nil
	})
	_ = g.Wait()

	data := h.pageData(w, r, "messages")
	data["Messages"] = NewListView(messages, msgErr, h.Log, "messages")
	data["Orders"] = orders
	render(h.Templates, w, "portal_messages.html", data)
}

func (h *PortalHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	req := dto.MessageCreate{
		OrderID: strings.TrimSpace(r.FormValue("order_id")),
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Content: strings.TrimSpace(r.FormValue("content")),
	}
	if req.Subject == "" || req.Content == "" {
		h.Sessions.AddFlash(w, r, "error", "Subject and message are required.")
		http.Redirect(w, r, "/portal/messages", http.StatusSeeOther)
		return
	}

	token := session.TokenFromContext(r.Context())
	if _, err := h.API.SendMessage(r.Context(), token, req); err != nil {
		h.Log.Error("send message", "error", err)
		h.Sessions.AddFlash(w, r, "error", api.Message(err, "Failed to send message. Please try again."))
		http.Redirect(w, r, "/portal/messages", http.StatusSeeOther)
		return
	}
	h.Sessions.AddFlash(w, r, "success", "Message sent successfully!")
	http.Redirect(w, r, "/portal/messages", http.StatusSeeOther)
}

// Documents aggregates every order's documents into one listing, tagging
// each row with its order number.
func (h *PortalHandler) Documents(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromContext(r.Context())

	orders, err := h.API.Orders(r.Context(), token)
	if err != nil {
		h.Log.Error("fetch orders for documents", "error", err)
		data := h.pageData(w, r, "documents")
		data["Documents"] = NewListView[models.Document](nil, err, h.Log, "documents")
		render(h.Templates, w, "portal_documents.html", data)
		return
	}

	perOrder := make([][]models.Document, len(orders))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(4)
	for i, order := range orders {
		g.Go(func() error {
			docs, err := h.API.OrderDocuments(ctx, token, order.ID)
			if err != nil {
				h.Log.Error("fetch order documents", "order_id", order.ID, "error", err)
				return nil
			}
			for j := range docs {
				docs[j].OrderNumber = order.OrderNumber
			}
			perOrder[i] = docs
			return nil
		})
	}
	_ = g.Wait()

	var all []models.Document
	for _, docs := range perOrder {
		all = append(all, docs...)
	}

	data := h.pageData(w, r, "documents")
	data["Documents"] = NewListView(all, nil, h.Log, "documents")
	render(h.Templates, w, "portal_documents.html", data)
}

// DownloadDocument streams a document's decoded payload with its exact
// filename and MIME type. Failures are logged, not surfaced: the visitor
// just lands back on the documents page.
func (h *PortalHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	token := session.TokenFromContext(r.Context())
	id := r.PathValue("id")

	payload, err := h.API.Document(r.Context(), token, id)
	if err != nil {
		h.Log.Error("fetch document", "document_id", id, "error", err)
		http.Redirect(w, r, "/portal/documents", http.StatusSeeOther)
		return
	}
	data, err := payload.Bytes()
	if err != nil {
		h.Log.Error("decode document payload", "document_id", id, "error", err)
		http.Redirect(w, r, "/portal/documents", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", payload.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		h.Log.Error("write document payload", "document_id", id, "error", err)
	}
}

func (h *PortalHandler) ProfileForm(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r, "profile")
	render(h.Templates, w, "portal_profile.html", data)
}

func (h *PortalHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	req := dto.ProfileUpdate{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Address: strings.TrimSpace(r.FormValue("address")),
	}
	if req.Name == "" {
		h.Sessions.AddFlash(w, r, "error", "Name is required.")
		http.Redirect(w, r, "/portal/profile", http.StatusSeeOther)
		return
	}

	token := session.TokenFromContext(r.Context())
	if _, err := h.API.UpdateProfile(r.Context(), token, req); err != nil {
		h.Log.Error("update profile", "error", err)
		h.Sessions.AddFlash(w, r, "error", api.Message(err, "Error updating profile. Please try again."))
		http.Redirect(w, r, "/portal/profile", http.StatusSeeOther)
		return
	}
	h.Sessions.AddFlash(w, r, "success", "Profile updated successfully!")
	http.Redirect(w, r, "/portal/profile", http.StatusSeeOther)
}
