package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/threadline/wa-marketing-backend/internal/model"
)

type MessageRepositoryInterface interface {
	Create(m *model.Message) error
	GetByProviderID(waMessageID string) (*model.Message, error)
	LatestForCustomer(customerID int) (*model.Message, error)
	UpdateStatus(id int, status string) error
	CampaignStats(campaignID int) (map[string]int, error)
}

type MessageRepository struct {
	DB *sql.DB
}

const messageColumns = `id, customer_id, campaign_id, message_type, whatsapp_message_id, status,
           last_error, sent_at, delivered_at, read_at, failed_at, created_at`

func scanMessage(row *sql.Row) (*model.Message, error) {
	var m model.Message
	err := row.Scan(
		&m.ID, &m.CustomerID, &m.CampaignID, &m.MessageType, &m.WhatsAppMessageID, &m.Status,
		&m.LastError, &m.SentAt, &m.DeliveredAt, &m.ReadAt, &m.FailedAt, &m.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Create appends one send attempt to the ledger. Sent and failed attempts
// both get a row so counts stay reconcilable against campaign totals.
func (r *MessageRepository) Create(m *model.Message) error {
	now := time.Now()
	if m.Status == model.MessageStatusSent && m.SentAt == nil {
		m.SentAt = &now
	}
	if m.Status == model.MessageStatusFailed && m.FailedAt == nil {
		m.FailedAt = &now
	}
	query := `
        INSERT INTO messages (customer_id, campaign_id, message_type, whatsapp_message_id, status, last_error, sent_at, failed_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query,
		m.CustomerID, m.CampaignID, m.MessageType, m.WhatsAppMessageID,
		m.Status, m.LastError, m.SentAt, m.FailedAt,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepository) GetByProviderID(waMessageID string) (*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE whatsapp_message_id = $1`
	return scanMessage(r.DB.QueryRow(query, waMessageID))
}

// LatestForCustomer returns the most recent outbound message for a customer,
// used to correlate button replies back to the send that triggered them.
func (r *MessageRepository) LatestForCustomer(customerID int) (*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE customer_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1`
	return scanMessage(r.DB.QueryRow(query, customerID))
}

var statusTimestampColumn = map[string]string{
	model.MessageStatusSent:      "sent_at",
	model.MessageStatusDelivered: "delivered_at",
	model.MessageStatusRead:      "read_at",
	model.MessageStatusFailed:    "failed_at",
}

func (r *MessageRepository) UpdateStatus(id int, status string) error {
	col, ok := statusTimestampColumn[status]
	if !ok {
		return fmt.Errorf("unknown message status %q", status)
	}
	query := fmt.Sprintf(`UPDATE messages SET status=$1, %s=NOW() WHERE id=$2`, col)
	_, err := r.DB.Exec(query, status, id)
	return err
}

func (r *MessageRepository) CampaignStats(campaignID int) (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM messages WHERE campaign_id=$1 GROUP BY status`
	rows, err := r.DB.Query(query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"sent": 0, "delivered": 0, "read": 0, "failed": 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
