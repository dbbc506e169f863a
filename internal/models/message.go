package models

import "time"

// MessageType marks who authored a portal message.
type MessageType string

const (
	MsgSystem MessageType = "system"
	MsgUser   MessageType = "user"
	MsgAdmin  MessageType = "admin"
)

// Badge returns the CSS badge class used when listing messages.
func (t MessageType) Badge() string {
	switch t {
	case MsgSystem:
		return "badge-system"
	case MsgAdmin:
		return "badge-admin"
	default:
		return "badge-neutral"
	}
}

// Message is append-only from the portal: clients create user-typed messages,
// everything else (read status included) is server-controlled.
type Message struct {
	ID          string      `json:"id"`
	OrderID     string      `json:"order_id,omitempty"`
	MessageType MessageType `json:"message_type"`
	Subject     string      `json:"subject"`
	Content     string      `json:"content"`
	CreatedAt   time.Time   `json:"created_at"`
	IsRead      bool        `json:"is_read"`
	RepliedTo   string      `json:"replied_to,omitempty"`
}
