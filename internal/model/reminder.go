// internal/model/reminder.go
package model

import "time"

const (
	ReminderStatusScheduled = "scheduled"
	ReminderStatusSent      = "sent"
	ReminderStatusCancelled = "cancelled"
)

type Reminder struct {
	ID           int        `db:"id" json:"id"`
	CustomerID   int        `db:"customer_id" json:"customer_id"`
	MessageID    *int       `db:"message_id" json:"message_id,omitempty"`
	ReminderDate time.Time  `db:"reminder_date" json:"reminder_date"`
	ReminderDays int        `db:"reminder_days" json:"reminder_days"`
	Status       string     `db:"status" json:"status"`
	SentAt       *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// DueReminder is a reminder joined with the customer fields needed to send it.
type DueReminder struct {
	Reminder
	CustomerName     string `db:"name" json:"customer_name"`
	WhatsAppNumber   string `db:"whatsapp_number" json:"whatsapp_number"`
	InterestCategory string `db:"interest_category" json:"interest_category"`
}
