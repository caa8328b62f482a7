// cmd/worker drains the webhook event queue when the server runs with a
// RabbitMQ broker. It shares the processing code with the in-process path.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/threadline/wa-marketing-backend/internal/cache"
	"github.com/threadline/wa-marketing-backend/internal/config"
	"github.com/threadline/wa-marketing-backend/internal/db"
	"github.com/threadline/wa-marketing-backend/internal/queue"
	"github.com/threadline/wa-marketing-backend/internal/repository"
	"github.com/threadline/wa-marketing-backend/internal/service"
	"github.com/threadline/wa-marketing-backend/internal/whatsapp"
	"github.com/threadline/wa-marketing-backend/pkg/logx"
)

func main() {
	cfg := config.MustLoad()
	logx.Init()
	defer logx.Sync()

	if cfg.RMQURL == "" {
		logx.L().Fatalw("RMQ_URL is required for the worker")
	}

	database, err := db.Connect(cfg)
	if err != nil {
		logx.L().Fatalw("failed to connect to database", "err", err)
	}
	defer database.Close()

	waClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneID, cfg.WhatsAppAccessToken)

	var dedup service.Deduper
	if cfg.RedisAddr != "" {
		d := cache.NewDeduper(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 24*time.Hour)
		defer d.Close()
		dedup = d
	}

	reminderService := &service.ReminderService{
		ReminderRepo: &repository.ReminderRepository{DB: database},
		CategoryRepo: &repository.CategoryRepository{DB: database},
		MessageRepo:  &repository.MessageRepository{DB: database},
		Sender:       waClient,
		WebsiteURL:   cfg.WebsiteURL,
	}
	webhookService := &service.WebhookService{
		CustomerRepo:    &repository.CustomerRepository{DB: database},
		CategoryRepo:    &repository.CategoryRepository{DB: database},
		MessageRepo:     &repository.MessageRepository{DB: database},
		InteractionRepo: &repository.InteractionRepository{DB: database},
		Reminders:       reminderService,
		Sender:          waClient,
		Dedup:           dedup,
		WebsiteURL:      cfg.WebsiteURL,
		CheckoutURL:     cfg.CheckoutURL,
	}

	amqpQueue, err := queue.DialAMQP(cfg.RMQURL)
	if err != nil {
		logx.L().Fatalw("failed to connect to RabbitMQ", "err", err)
	}
	defer amqpQueue.Close()

	if err := queue.StartWebhookSubscriber(amqpQueue, cfg.WebhookQueue, webhookService); err != nil {
		logx.L().Fatalw("failed to start webhook subscriber", "err", err)
	}

	logx.L().Infow("worker running, waiting for webhook events", "queue", cfg.WebhookQueue)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logx.L().Infow("worker shutting down")
}
