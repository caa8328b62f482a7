// internal/model/message.go
package model

import "time"

const (
	MessageTypePromotional   = "promotional"
	MessageTypeReminder      = "reminder"
	MessageTypeTransactional = "transactional"
)

const (
	MessageStatusQueued    = "queued"
	MessageStatusSent      = "sent"
	MessageStatusDelivered = "delivered"
	MessageStatusRead      = "read"
	MessageStatusFailed    = "failed"
)

type Message struct {
	ID                int        `db:"id" json:"id"`
	CustomerID        int        `db:"customer_id" json:"customer_id"`
	CampaignID        *int       `db:"campaign_id" json:"campaign_id,omitempty"`
	MessageType       string     `db:"message_type" json:"message_type"`
	WhatsAppMessageID *string    `db:"whatsapp_message_id" json:"whatsapp_message_id,omitempty"`
	Status            string     `db:"status" json:"status"`
	LastError         string     `db:"last_error" json:"last_error,omitempty"`
	SentAt            *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	DeliveredAt       *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	ReadAt            *time.Time `db:"read_at" json:"read_at,omitempty"`
	FailedAt          *time.Time `db:"failed_at" json:"failed_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

var statusRank = map[string]int{
	MessageStatusQueued:    0,
	MessageStatusSent:      1,
	MessageStatusDelivered: 2,
	MessageStatusRead:      3,
}

// StatusAdvances reports whether a provider status update moves a message
// forward in its lifecycle. Repeat or out-of-order receipts do not advance.
func StatusAdvances(current, next string) bool {
	if next == MessageStatusFailed {
		return current != MessageStatusFailed && current != MessageStatusRead
	}
	nr, ok := statusRank[next]
	if !ok {
		return false
	}
	cr, ok := statusRank[current]
	if !ok {
		return false
	}
	return nr > cr
}
