// internal/service/reminder_service.go
package service

import (
	"context"
	"time"

	appErrors "github.com/threadline/wa-marketing-backend/internal/errors"
	"github.com/threadline/wa-marketing-backend/internal/model"
	"github.com/threadline/wa-marketing-backend/internal/repository"
	"github.com/threadline/wa-marketing-backend/internal/whatsapp"
	"github.com/threadline/wa-marketing-backend/pkg/logx"
	"github.com/threadline/wa-marketing-backend/pkg/metrics"
)

// ReminderService owns the reminder lifecycle. It has no timer of its own;
// cmd/scheduler (or a test) calls ProcessDue with the current time.
type ReminderService struct {
	ReminderRepo repository.ReminderRepositoryInterface
	CategoryRepo repository.CategoryRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
	Sender       Sender
	WebsiteURL   string

	Pace time.Duration
	Now  func() time.Time
}

func (s *ReminderService) pace() time.Duration {
	if s.Pace > 0 {
		return s.Pace
	}
	return defaultPace
}

func (s *ReminderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateReminder schedules a send for the civil date N days from today.
// Time of day does not shift the target date.
func (s *ReminderService) CreateReminder(ctx context.Context, customerID int, messageID *int, days int) (*model.Reminder, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	rem := &model.Reminder{
		CustomerID:   customerID,
		MessageID:    messageID,
		ReminderDate: today.AddDate(0, 0, days),
		ReminderDays: days,
		Status:       model.ReminderStatusScheduled,
	}
	if err := s.ReminderRepo.Create(rem); err != nil {
		return nil, err
	}
	logx.L().Infow("reminder created",
		"reminder_id", rem.ID, "customer_id", customerID, "date", rem.ReminderDate.Format("2006-01-02"))
	return rem, nil
}

func (s *ReminderService) DueReminders(ctx context.Context, asOf time.Time) ([]model.DueReminder, error) {
	return s.ReminderRepo.Due(asOf)
}

type ProcessResult struct {
	Processed int `json:"processed"`
	Sent      int `json:"sent"`
	Failed    int `json:"failed"`
}

// ProcessDue sends every due reminder sequentially with the standard pacing.
// A failed send leaves the reminder scheduled so the next tick retries it;
// the failed attempt still gets a ledger row.
func (s *ReminderService) ProcessDue(ctx context.Context, asOf time.Time) (*ProcessResult, error) {
	due, err := s.ReminderRepo.Due(asOf)
	if err != nil {
		return nil, err
	}

	result := &ProcessResult{Processed: len(due)}
	for i, rem := range due {
		if i > 0 {
			time.Sleep(s.pace())
		}
		metrics.RemindersProcessedTotal.Inc()

		productURL := s.productURL(rem.InterestCategory)
		content := whatsapp.ProductMessage(rem.CustomerName, rem.InterestCategory, productURL)

		waID, err := s.Sender.Send(ctx, rem.WhatsAppNumber, content)
		if err != nil {
			result.Failed++
			metrics.MessagesFailedTotal.WithLabelValues(model.MessageTypeReminder).Inc()
			logx.L().Warnw("reminder send failed, will retry next pass",
				"reminder_id", rem.ID, "customer_id", rem.CustomerID, "err", err)
			if recErr := s.MessageRepo.Create(&model.Message{
				CustomerID:  rem.CustomerID,
				MessageType: model.MessageTypeReminder,
				Status:      model.MessageStatusFailed,
				LastError:   err.Error(),
			}); recErr != nil {
				logx.L().Errorw("failed to record failed reminder send", "reminder_id", rem.ID, "err", recErr)
			}
			continue
		}

		if err := s.MessageRepo.Create(&model.Message{
			CustomerID:        rem.CustomerID,
			MessageType:       model.MessageTypeReminder,
			WhatsAppMessageID: &waID,
			Status:            model.MessageStatusSent,
		}); err != nil {
			logx.L().Errorw("failed to record reminder message", "reminder_id", rem.ID, "err", err)
		}

		ok, err := s.ReminderRepo.MarkSent(rem.ID)
		if err != nil {
			logx.L().Errorw("failed to mark reminder sent", "reminder_id", rem.ID, "err", err)
			continue
		}
		if !ok {
			// Someone else flipped it first; the send already happened,
			// nothing more to do.
			logx.L().Warnw("reminder no longer scheduled after send", "reminder_id", rem.ID)
			continue
		}
		result.Sent++
		metrics.MessagesSentTotal.WithLabelValues(model.MessageTypeReminder).Inc()
	}

	logx.L().Infow("reminder pass complete",
		"processed", result.Processed, "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

func (s *ReminderService) CancelReminder(ctx context.Context, id int) error {
	ok, err := s.ReminderRepo.Cancel(id)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.NewReminderState(id)
	}
	return nil
}

func (s *ReminderService) CustomerReminders(ctx context.Context, customerID int) ([]model.Reminder, error) {
	return s.ReminderRepo.ListByCustomer(customerID)
}

func (s *ReminderService) productURL(category string) string {
	pc, err := s.CategoryRepo.GetByName(category)
	if err != nil {
		logx.L().Warnw("category lookup failed", "category", category, "err", err)
		return s.WebsiteURL
	}
	if pc == nil {
		return s.WebsiteURL
	}
	return s.WebsiteURL + pc.ProductURL
}
