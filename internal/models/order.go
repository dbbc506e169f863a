package models

import (
	"fmt"
	"time"
)

// OrderStatus is the server-owned lifecycle state of an export order.
// The portal never transitions it; it only renders the value as received.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// Badge returns the CSS badge class for a status. Unknown values get the
// neutral badge rather than an error.
func (s OrderStatus) Badge() string {
	switch s {
	case StatusPending:
		return "badge-pending"
	case StatusProcessing:
		return "badge-processing"
	case StatusShipped:
		return "badge-shipped"
	case StatusDelivered:
		return "badge-delivered"
	case StatusCancelled:
		return "badge-cancelled"
	default:
		return "badge-neutral"
	}
}

// Active reports whether the order still counts toward active work.
func (s OrderStatus) Active() bool {
	return s == StatusPending || s == StatusProcessing || s == StatusShipped
}

// Order is read-only from the portal's perspective; all fields are owned by
// the backend.
type Order struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"user_id"`
	OrderNumber        string      `json:"order_number"`
	ProductCategory    string      `json:"product_category"`
	ProductDescription string      `json:"product_description"`
	Quantity           string      `json:"quantity"`
	DestinationCountry string      `json:"destination_country"`
	Status             OrderStatus `json:"status"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	EstimatedDelivery  *time.Time  `json:"estimated_delivery,omitempty"`
	TrackingNumber     string      `json:"tracking_number,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	TotalAmount        *float64    `json:"total_amount,omitempty"`
	Currency           string      `json:"currency"`
}

// TotalDisplay renders the order total, or "TBD" while the backend has not
// priced the order yet.
func (o Order) TotalDisplay() string {
	if o.TotalAmount == nil {
		return "TBD"
	}
	return fmt.Sprintf("$%.2f", *o.TotalAmount)
}

// DeliveryDisplay renders the estimated delivery date when set.
func (o Order) DeliveryDisplay() string {
	if o.EstimatedDelivery == nil {
		return ""
	}
	return o.EstimatedDelivery.Format("Jan 2, 2006")
}

// DashboardStats is the summary payload behind the portal landing page.
type DashboardStats struct {
	TotalOrders     int `json:"total_orders"`
	ActiveOrders    int `json:"active_orders"`
	CompletedOrders int `json:"completed_orders"`
	UnreadMessages  int `json:"unread_messages"`
}
