package repository

import (
	"database/sql"
	"time"

	"github.com/threadline/wa-marketing-backend/internal/model"
)

type ReminderRepositoryInterface interface {
	Create(rem *model.Reminder) error
	Due(asOf time.Time) ([]model.DueReminder, error)
	MarkSent(id int) (bool, error)
	Cancel(id int) (bool, error)
	ListByCustomer(customerID int) ([]model.Reminder, error)
}

type ReminderRepository struct {
	DB *sql.DB
}

func (r *ReminderRepository) Create(rem *model.Reminder) error {
	if rem.Status == "" {
		rem.Status = model.ReminderStatusScheduled
	}
	query := `
        INSERT INTO reminders (customer_id, message_id, reminder_date, reminder_days, status, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query,
		rem.CustomerID, rem.MessageID, rem.ReminderDate, rem.ReminderDays, rem.Status,
	).Scan(&rem.ID, &rem.CreatedAt)
}

// Due selects scheduled reminders whose date has arrived, joined with the
// customer fields needed to send, oldest due first. Sent and cancelled
// reminders are never re-selected.
func (r *ReminderRepository) Due(asOf time.Time) ([]model.DueReminder, error) {
	query := `
        SELECT r.id, r.customer_id, r.message_id, r.reminder_date, r.reminder_days, r.status, r.sent_at, r.created_at,
               c.name, c.whatsapp_number, c.interest_category
        FROM reminders r
        JOIN customers c ON r.customer_id = c.id
        WHERE r.reminder_date <= $1 AND r.status = 'scheduled'
        ORDER BY r.reminder_date ASC
    `
	rows, err := r.DB.Query(query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []model.DueReminder{}
	for rows.Next() {
		var d model.DueReminder
		if err := rows.Scan(
			&d.ID, &d.CustomerID, &d.MessageID, &d.ReminderDate, &d.ReminderDays, &d.Status, &d.SentAt, &d.CreatedAt,
			&d.CustomerName, &d.WhatsAppNumber, &d.InterestCategory,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, d)
	}
	return reminders, rows.Err()
}

// MarkSent flips scheduled -> sent. The status predicate makes the flip a
// one-shot: a reminder already sent or cancelled reports false.
func (r *ReminderRepository) MarkSent(id int) (bool, error) {
	res, err := r.DB.Exec(
		`UPDATE reminders SET status='sent', sent_at=NOW() WHERE id=$1 AND status='scheduled'`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Cancel works from any status except sent.
func (r *ReminderRepository) Cancel(id int) (bool, error) {
	res, err := r.DB.Exec(
		`UPDATE reminders SET status='cancelled' WHERE id=$1 AND status <> 'sent'`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ReminderRepository) ListByCustomer(customerID int) ([]model.Reminder, error) {
	query := `
        SELECT id, customer_id, message_id, reminder_date, reminder_days, status, sent_at, created_at
        FROM reminders
        WHERE customer_id = $1
        ORDER BY reminder_date DESC
    `
	rows, err := r.DB.Query(query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []model.Reminder{}
	for rows.Next() {
		var rem model.Reminder
		if err := rows.Scan(
			&rem.ID, &rem.CustomerID, &rem.MessageID, &rem.ReminderDate, &rem.ReminderDays,
			&rem.Status, &rem.SentAt, &rem.CreatedAt,
		); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

var _ ReminderRepositoryInterface = (*ReminderRepository)(nil)
