package repository

import (
	"database/sql"
	"fmt"

	appErrors "github.com/threadline/wa-marketing-backend/internal/errors"
	"github.com/threadline/wa-marketing-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	Create(c *model.Campaign) error
	GetByID(id int) (*model.Campaign, error)
	ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error)
	MarkRunning(id int) (bool, error)
	Complete(id, sentCount int) error
	Cancel(id int) (bool, error)
	UpdateStatus(id int, status string) error
}

type CampaignRepository struct {
	DB *sql.DB
}

const campaignColumns = `id, name, target_category, base_template, status, total_recipients,
           messages_sent, scheduled_at, started_at, completed_at, created_at, updated_at`

func scanCampaign(row *sql.Row) (*model.Campaign, error) {
	var c model.Campaign
	err := row.Scan(
		&c.ID, &c.Name, &c.TargetCategory, &c.BaseTemplate, &c.Status, &c.TotalRecipients,
		&c.MessagesSent, &c.ScheduledAt, &c.StartedAt, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.Status == "" {
		c.Status = model.CampaignStatusDraft
	}
	query := `
        INSERT INTO campaigns (name, target_category, base_template, status, total_recipients, scheduled_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id, created_at
    `
	return r.DB.QueryRow(query, c.Name, c.TargetCategory, c.BaseTemplate, c.Status, c.TotalRecipients, c.ScheduledAt).
		Scan(&c.ID, &c.CreatedAt)
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	c, err := scanCampaign(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	campaigns := []*model.Campaign{}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if status != "" {
		query += fmt.Sprintf(" AND status=$%d", argPos)
		args = append(args, status)
		argPos++
	}

	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	for rows.Next() {
		c := &model.Campaign{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.TargetCategory, &c.BaseTemplate, &c.Status, &c.TotalRecipients,
			&c.MessagesSent, &c.ScheduledAt, &c.StartedAt, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM campaigns WHERE 1=1`
	argsCount := []interface{}{}
	if status != "" {
		countQuery += " AND status=$1"
		argsCount = append(argsCount, status)
	}

	var total int
	if err := r.DB.QueryRow(countQuery, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return campaigns, total, nil
}

// MarkRunning is the compare-and-swap start guard: the transition only
// happens from draft or scheduled, so two concurrent starts cannot both win.
func (r *CampaignRepository) MarkRunning(id int) (bool, error) {
	query := `
        UPDATE campaigns
        SET status='running', started_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND status IN ('draft', 'scheduled')
    `
	res, err := r.DB.Exec(query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CampaignRepository) Complete(id, sentCount int) error {
	query := `
        UPDATE campaigns
        SET status='completed', completed_at=NOW(), messages_sent=$1, updated_at=NOW()
        WHERE id=$2
    `
	_, err := r.DB.Exec(query, sentCount, id)
	return err
}

// Cancel refuses terminal states: a completed or already cancelled campaign
// stays as it is.
func (r *CampaignRepository) Cancel(id int) (bool, error) {
	query := `
        UPDATE campaigns
        SET status='cancelled', updated_at=NOW()
        WHERE id=$1 AND status NOT IN ('completed', 'cancelled')
    `
	res, err := r.DB.Exec(query, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *CampaignRepository) UpdateStatus(id int, status string) error {
	query := `UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2`
	_, err := r.DB.Exec(query, status, id)
	return err
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
