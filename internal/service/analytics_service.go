// internal/service/analytics_service.go
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/threadline/wa-marketing-backend/pkg/logx"
)

// AnalyticsService aggregates read-only stats for the reporting surface and
// maintains the daily summary table. It queries the store directly; nothing
// here mutates core rows.
type AnalyticsService struct {
	DB *sql.DB
}

type DashboardStats struct {
	TotalCustomers    int     `json:"total_customers"`
	TotalMessages     int     `json:"total_messages"`
	MessagesDelivered int     `json:"messages_delivered"`
	PendingReminders  int     `json:"pending_reminders"`
	MessagesToday     int     `json:"messages_today"`
	DeliveryRate      float64 `json:"delivery_rate"`
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	row := s.DB.QueryRowContext(ctx, `
        SELECT
          (SELECT COUNT(*) FROM customers WHERE status='active'),
          (SELECT COUNT(*) FROM messages),
          (SELECT COUNT(*) FROM messages WHERE status IN ('delivered','read')),
          (SELECT COUNT(*) FROM reminders WHERE status='scheduled'),
          (SELECT COUNT(*) FROM messages WHERE created_at::date = CURRENT_DATE)
    `)
	if err := row.Scan(
		&stats.TotalCustomers, &stats.TotalMessages, &stats.MessagesDelivered,
		&stats.PendingReminders, &stats.MessagesToday,
	); err != nil {
		return nil, err
	}

	if stats.TotalMessages > 0 {
		stats.DeliveryRate = float64(stats.MessagesDelivered) / float64(stats.TotalMessages) * 100
	}
	return &stats, nil
}

type Engagement struct {
	InteractionsByType map[string]int      `json:"interactions_by_type"`
	CategoryEngagement []CategoryEngagement `json:"category_engagement"`
}

type CategoryEngagement struct {
	InterestCategory  string `json:"interest_category"`
	EngagedCustomers  int    `json:"engaged_customers"`
	TotalInteractions int    `json:"total_interactions"`
}

func (s *AnalyticsService) Engagement(ctx context.Context, from, to time.Time) (*Engagement, error) {
	byType := map[string]int{}
	rows, err := s.DB.QueryContext(ctx, `
        SELECT interaction_type, COUNT(*)
        FROM user_interactions
        WHERE created_at BETWEEN $1 AND $2
        GROUP BY interaction_type
    `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		byType[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	catRows, err := s.DB.QueryContext(ctx, `
        SELECT c.interest_category,
               COUNT(DISTINCT ui.customer_id),
               COUNT(ui.id)
        FROM user_interactions ui
        JOIN customers c ON ui.customer_id = c.id
        WHERE ui.created_at BETWEEN $1 AND $2
        GROUP BY c.interest_category
    `, from, to)
	if err != nil {
		return nil, err
	}
	defer catRows.Close()

	categories := []CategoryEngagement{}
	for catRows.Next() {
		var ce CategoryEngagement
		if err := catRows.Scan(&ce.InterestCategory, &ce.EngagedCustomers, &ce.TotalInteractions); err != nil {
			return nil, err
		}
		categories = append(categories, ce)
	}
	if err := catRows.Err(); err != nil {
		return nil, err
	}

	return &Engagement{InteractionsByType: byType, CategoryEngagement: categories}, nil
}

// UpdateDailySummary upserts the aggregate row for one calendar day. The
// scheduler calls it for yesterday just after midnight.
func (s *AnalyticsService) UpdateDailySummary(ctx context.Context, date time.Time) error {
	day := date.Format("2006-01-02")

	var sent, delivered, read, failed int
	err := s.DB.QueryRowContext(ctx, `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status='delivered'),
               COUNT(*) FILTER (WHERE status='read'),
               COUNT(*) FILTER (WHERE status='failed')
        FROM messages
        WHERE created_at::date = $1
    `, day).Scan(&sent, &delivered, &read, &failed)
	if err != nil {
		return err
	}

	var interactions, reminders, checkouts int
	err = s.DB.QueryRowContext(ctx, `
        SELECT
          (SELECT COUNT(*) FROM user_interactions WHERE created_at::date = $1),
          (SELECT COUNT(*) FROM reminders WHERE created_at::date = $1),
          (SELECT COUNT(*) FROM user_interactions WHERE interaction_type='checkout' AND created_at::date = $1)
    `, day).Scan(&interactions, &reminders, &checkouts)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
        INSERT INTO analytics_summary
          (date, total_messages_sent, total_messages_delivered, total_messages_read,
           total_messages_failed, total_interactions, total_reminders_set, total_checkouts)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (date) DO UPDATE SET
          total_messages_sent = EXCLUDED.total_messages_sent,
          total_messages_delivered = EXCLUDED.total_messages_delivered,
          total_messages_read = EXCLUDED.total_messages_read,
          total_messages_failed = EXCLUDED.total_messages_failed,
          total_interactions = EXCLUDED.total_interactions,
          total_reminders_set = EXCLUDED.total_reminders_set,
          total_checkouts = EXCLUDED.total_checkouts
    `, day, sent, delivered, read, failed, interactions, reminders, checkouts)
	if err != nil {
		return err
	}

	logx.L().Infow("analytics summary updated", "date", day)
	return nil
}
