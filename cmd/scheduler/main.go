// cmd/scheduler runs the recurring jobs: an hourly pass over due reminders
// and a daily analytics rollup for the previous day.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/threadline/wa-marketing-backend/internal/config"
	"github.com/threadline/wa-marketing-backend/internal/db"
	"github.com/threadline/wa-marketing-backend/internal/repository"
	"github.com/threadline/wa-marketing-backend/internal/service"
	"github.com/threadline/wa-marketing-backend/internal/whatsapp"
	"github.com/threadline/wa-marketing-backend/pkg/logx"
)

func main() {
	cfg := config.MustLoad()
	logx.Init()
	defer logx.Sync()

	database, err := db.Connect(cfg)
	if err != nil {
		logx.L().Fatalw("failed to connect to database", "err", err)
	}
	defer database.Close()

	waClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneID, cfg.WhatsAppAccessToken)

	reminderService := &service.ReminderService{
		ReminderRepo: &repository.ReminderRepository{DB: database},
		CategoryRepo: &repository.CategoryRepository{DB: database},
		MessageRepo:  &repository.MessageRepository{DB: database},
		Sender:       waClient,
		WebsiteURL:   cfg.WebsiteURL,
	}
	analyticsService := &service.AnalyticsService{DB: database}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logx.L().Infow("scheduler shutting down")
		cancel()
	}()

	runReminderPass(ctx, reminderService)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	lastSummary := time.Now().Format("2006-01-02")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runReminderPass(ctx, reminderService)

			today := time.Now().Format("2006-01-02")
			if today != lastSummary {
				yesterday := time.Now().AddDate(0, 0, -1)
				if err := analyticsService.UpdateDailySummary(ctx, yesterday); err != nil {
					logx.L().Errorw("daily summary failed", "err", err)
				} else {
					lastSummary = today
				}
			}
		}
	}
}

func runReminderPass(ctx context.Context, s *service.ReminderService) {
	result, err := s.ProcessDue(ctx, time.Now())
	if err != nil {
		logx.L().Errorw("reminder pass failed", "err", err)
		return
	}
	if result.Processed > 0 {
		logx.L().Infow("reminder pass done",
			"processed", result.Processed, "sent", result.Sent, "failed", result.Failed)
	}
}
