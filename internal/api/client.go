// Package api is the typed client for the export-services backend. Every
// call takes a context and, for authenticated endpoints, an explicit bearer
// token; there is no ambient default header.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oneexim/portal/internal/models"
	"github.com/oneexim/portal/internal/models/dto"
)

// Client talks HTTP+JSON to the backend at a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client. The timeout bounds every request end to end.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Ping hits the backend root liveness probe.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.call(ctx, http.MethodGet, "/", "", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out dto.TokenResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.call(ctx, http.MethodPost, "/login", "", req, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Register creates a new account. It does not log the account in.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (models.User, error) {
	var out models.User
	err := c.call(ctx, http.MethodPost, "/register", "", req, &out)
	return out, err
}

// Profile fetches the identity behind a token.
func (c *Client) Profile(ctx context.Context, token string) (models.User, error) {
	var out models.User
	err := c.call(ctx, http.MethodGet, "/profile", token, nil, &out)
	return out, err
}

// UpdateProfile writes the editable profile fields and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, token string, req dto.ProfileUpdate) (models.User, error) {
	var out models.User
	err := c.call(ctx, http.MethodPut, "/profile", token, req, &out)
	return out, err
}

// DashboardStats fetches the portal landing-page summary.
func (c *Client) DashboardStats(ctx context.Context, token string) (models.DashboardStats, error) {
	var out models.DashboardStats
	err := c.call(ctx, http.MethodGet, "/dashboard/stats", token, nil, &out)
	return out, err
}

// Orders lists the caller's orders.
func (c *Client) Orders(ctx context.Context, token string) ([]models.Order, error) {
	var out []models.Order
	err := c.call(ctx, http.MethodGet, "/orders", token, nil, &out)
	return out, err
}

// Order fetches one order by ID. A missing order surfaces as a 404 Error;
// callers distinguish it with IsNotFound.
func (c *Client) Order(ctx context.Context, token, id string) (models.Order, error) {
	var out models.Order
	err := c.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), token, nil, &out)
	return out, err
}

// OrderDocuments lists the documents attached to an order.
func (c *Client) OrderDocuments(ctx context.Context, token, orderID string) ([]models.Document, error) {
	var out []models.Document
	err := c.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/documents", token, nil, &out)
	return out, err
}

// Document fetches a document's payload for download.
func (c *Client) Document(ctx context.Context, token, id string) (models.DocumentPayload, error) {
	var out models.DocumentPayload
	err := c.call(ctx, http.MethodGet, "/documents/"+url.PathEscape(id), token, nil, &out)
	return out, err
}

// Messages lists the caller's messages, newest first per the backend.
func (c *Client) Messages(ctx context.Context, token string) ([]models.Message, error) {
	var out []models.Message
	err := c.call(ctx, http.MethodGet, "/messages", token, nil, &out)
	return out, err
}

// SendMessage creates a client-authored message.
func (c *Client) SendMessage(ctx context.Context, token string, req dto.MessageCreate) (models.Message, error) {
	var out models.Message
	err := c.call(ctx, http.MethodPost, "/messages", token, req, &out)
	return out, err
}

// SubmitQuote posts a quote request. The ack body is discarded.
func (c *Client) SubmitQuote(ctx context.Context, req dto.QuoteRequest) error {
	return c.call(ctx, http.MethodPost, "/quote", "", req, nil)
}

// SubmitContact posts a contact request. The ack body is discarded.
func (c *Client) SubmitContact(ctx context.Context, req dto.ContactRequest) error {
	return c.call(ctx, http.MethodPost, "/contact", "", req, nil)
}

// call builds, sends, and decodes one request. Non-2xx responses become
// *Error with the backend's detail field when present.
func (c *Client) call(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// readDetail extracts the backend's {"detail": ...} error field. The body is
// best-effort; a malformed or missing detail yields "".
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 8<<10))
	if err != nil {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	return body.Detail
}
