// internal/model/interaction.go
package model

import "time"

const (
	InteractionViewCollection = "view_collection"
	InteractionRemindLater    = "remind_later"
	InteractionReminderSet    = "reminder_set"
	InteractionCheckout       = "checkout"
)

// Interaction is an append-only record of a customer response to an
// outbound message. Rows are never updated after insert.
type Interaction struct {
	ID              int       `db:"id" json:"id"`
	CustomerID      int       `db:"customer_id" json:"customer_id"`
	MessageID       *int      `db:"message_id" json:"message_id,omitempty"`
	InteractionType string    `db:"interaction_type" json:"interaction_type"`
	ButtonID        string    `db:"button_id" json:"button_id"`
	AdditionalData  *string   `db:"additional_data" json:"additional_data,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
