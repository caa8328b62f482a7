// internal/model/customer.go
package model

import "time"

const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

type Customer struct {
	ID               int        `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	WhatsAppNumber   string     `db:"whatsapp_number" json:"whatsapp_number"`
	InterestCategory string     `db:"interest_category" json:"interest_category"`
	Status           string     `db:"status" json:"status"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
