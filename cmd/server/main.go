package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/threadline/wa-marketing-backend/internal/cache"
	"github.com/threadline/wa-marketing-backend/internal/config"
	"github.com/threadline/wa-marketing-backend/internal/controller"
	"github.com/threadline/wa-marketing-backend/internal/db"
	"github.com/threadline/wa-marketing-backend/internal/queue"
	"github.com/threadline/wa-marketing-backend/internal/repository"
	"github.com/threadline/wa-marketing-backend/internal/service"
	"github.com/threadline/wa-marketing-backend/internal/whatsapp"
	"github.com/threadline/wa-marketing-backend/pkg/logx"
	"github.com/threadline/wa-marketing-backend/pkg/metrics"
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

	customerRepo := &repository.CustomerRepository{DB: database}
	categoryRepo := &repository.CategoryRepository{DB: database}
	campaignRepo := &repository.CampaignRepository{DB: database}
	messageRepo := &repository.MessageRepository{DB: database}
	reminderRepo := &repository.ReminderRepository{DB: database}
	interactionRepo := &repository.InteractionRepository{DB: database}

	waClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppPhoneID, cfg.WhatsAppAccessToken)

	var dedup service.Deduper
	if cfg.RedisAddr != "" {
		d := cache.NewDeduper(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, 24*time.Hour)
		defer d.Close()
		dedup = d
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		CustomerRepo: customerRepo,
		CategoryRepo: categoryRepo,
		MessageRepo:  messageRepo,
		Sender:       waClient,
		WebsiteURL:   cfg.WebsiteURL,
	}
	reminderService := &service.ReminderService{
		ReminderRepo: reminderRepo,
		CategoryRepo: categoryRepo,
		MessageRepo:  messageRepo,
		Sender:       waClient,
		WebsiteURL:   cfg.WebsiteURL,
	}
	webhookService := &service.WebhookService{
		CustomerRepo:    customerRepo,
		CategoryRepo:    categoryRepo,
		MessageRepo:     messageRepo,
		InteractionRepo: interactionRepo,
		Reminders:       reminderService,
		Sender:          waClient,
		Dedup:           dedup,
		WebsiteURL:      cfg.WebsiteURL,
		CheckoutURL:     cfg.CheckoutURL,
	}
	analyticsService := &service.AnalyticsService{DB: database}

	// With a broker configured the events are drained by cmd/worker;
	// otherwise process them in this process.
	var q queue.Queue
	if cfg.RMQURL != "" {
		amqpQueue, err := queue.DialAMQP(cfg.RMQURL)
		if err != nil {
			logx.L().Fatalw("failed to connect to RabbitMQ", "err", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
	} else {
		memQueue := queue.NewInMemoryQueue()
		if err := queue.StartWebhookSubscriber(memQueue, cfg.WebhookQueue, webhookService); err != nil {
			logx.L().Fatalw("failed to start webhook subscriber", "err", err)
		}
		q = memQueue
	}

	campaignController := &controller.CampaignController{CampaignService: campaignService}
	webhookController := &controller.WebhookController{
		VerifyToken: cfg.WhatsAppVerifyToken,
		Queue:       q,
		Topic:       cfg.WebhookQueue,
	}
	analyticsController := &controller.AnalyticsController{AnalyticsService: analyticsService}
	reminderController := &controller.ReminderController{ReminderService: reminderService}

	r := chi.NewRouter()
	r.Use(controller.Observability)

	r.Get("/webhook", webhookController.Verify)
	r.Post("/webhook", webhookController.Receive)

	r.Post("/campaigns", campaignController.CreateCampaign)
	r.Get("/campaigns", campaignController.ListCampaigns)
	r.Get("/campaigns/{id}", campaignController.GetCampaign)
	r.Post("/campaigns/{id}/start", campaignController.StartCampaign)
	r.Post("/campaigns/{id}/cancel", campaignController.CancelCampaign)

	r.Get("/customers/{id}/reminders", reminderController.CustomerReminders)
	r.Post("/reminders/{id}/cancel", reminderController.CancelReminder)

	r.Get("/analytics/dashboard", analyticsController.Dashboard)
	r.Get("/analytics/engagement", analyticsController.Engagement)

	r.Handle("/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	logx.L().Infow("server running", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logx.L().Fatalw("server stopped", "err", err)
	}
}
