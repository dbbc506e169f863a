// Package dto holds the request payloads the portal sends to the backend.
// Shapes mirror the backend contract; field names must not drift.
package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

type MessageCreate struct {
	OrderID string `json:"order_id,omitempty"`
	Subject string `json:"subject"`
	Content string `json:"content"`
}

// QuoteRequest is write-only: submitted and forgotten client-side.
type QuoteRequest struct {
	Name               string `json:"name"`
	Company            string `json:"company"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	ProductCategory    string `json:"product_category"`
	ProductDescription string `json:"product_description"`
	DestinationCountry string `json:"destination_country"`
	Quantity           string `json:"quantity"`
	MOQ                string `json:"moq,omitempty"`
	Urgency            string `json:"urgency,omitempty"`
	SpecialInstruction string `json:"special_instructions,omitempty"`
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Message string `json:"message"`
}
