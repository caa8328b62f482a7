package repository

import (
	"database/sql"
	"time"

	"github.com/threadline/wa-marketing-backend/internal/model"
)

type InteractionRepositoryInterface interface {
	Create(i *model.Interaction) error
	CountByTypeBetween(from, to time.Time) (map[string]int, error)
}

type InteractionRepository struct {
	DB *sql.DB
}

func (r *InteractionRepository) Create(i *model.Interaction) error {
	query := `
        INSERT INTO user_interactions (customer_id, message_id, interaction_type, button_id, additional_data, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query,
		i.CustomerID, i.MessageID, i.InteractionType, i.ButtonID, i.AdditionalData,
	).Scan(&i.ID, &i.CreatedAt)
}

func (r *InteractionRepository) CountByTypeBetween(from, to time.Time) (map[string]int, error) {
	query := `
        SELECT interaction_type, COUNT(*)
        FROM user_interactions
        WHERE created_at BETWEEN $1 AND $2
        GROUP BY interaction_type
    `
	rows, err := r.DB.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[t] = n
	}
	return counts, rows.Err()
}

var _ InteractionRepositoryInterface = (*InteractionRepository)(nil)
