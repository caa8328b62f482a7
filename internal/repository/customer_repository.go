package repository

import (
	"database/sql"

	"github.com/threadline/wa-marketing-backend/internal/model"
)

// CustomerRepositoryInterface defines the read access the core needs plus
// the create used by the seeder/import path.
type CustomerRepositoryInterface interface {
	GetByID(id int) (*model.Customer, error)
	GetByWhatsAppNumber(number string) (*model.Customer, error)
	ListActive(category string) ([]model.Customer, error)
	CountActive(category string) (int, error)
	Create(c *model.Customer) error
}

type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `id, name, whatsapp_number, interest_category, status, created_at, updated_at`

func scanCustomer(row *sql.Row) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.WhatsAppNumber, &c.InterestCategory, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.DB.QueryRow(query, id))
}

func (r *CustomerRepository) GetByWhatsAppNumber(number string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE whatsapp_number = $1`
	return scanCustomer(r.DB.QueryRow(query, number))
}

// ListActive fetches active customers, optionally filtered to one interest
// category. An empty category means all active customers.
func (r *CustomerRepository) ListActive(category string) ([]model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE status = 'active'`
	args := []interface{}{}
	if category != "" {
		query += ` AND interest_category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY id`

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.WhatsAppNumber, &c.InterestCategory, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *CustomerRepository) CountActive(category string) (int, error) {
	query := `SELECT COUNT(*) FROM customers WHERE status = 'active'`
	args := []interface{}{}
	if category != "" {
		query += ` AND interest_category = $1`
		args = append(args, category)
	}

	var count int
	if err := r.DB.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CustomerRepository) Create(c *model.Customer) error {
	if c.Status == "" {
		c.Status = model.CustomerStatusActive
	}
	query := `
        INSERT INTO customers (name, whatsapp_number, interest_category, status, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, c.Name, c.WhatsAppNumber, c.InterestCategory, c.Status).
		Scan(&c.ID, &c.CreatedAt)
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
