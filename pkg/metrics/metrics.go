package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "api_http_requests_total", Help: "HTTP requests"},
		[]string{"method", "path", "status"},
	)
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MessagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wa_messages_sent_total", Help: "Outbound messages sent"},
		[]string{"kind"},
	)
	MessagesFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wa_messages_failed_total", Help: "Outbound sends that failed"},
		[]string{"kind"},
	)
	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "wa_webhook_events_total", Help: "Webhook events processed"},
		[]string{"type"},
	)
	RemindersProcessedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "wa_reminders_processed_total", Help: "Due reminders picked up"},
	)
	CampaignDispatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wa_campaign_dispatch_duration_seconds",
			Help:    "Wall time of a full campaign dispatch loop",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(
		APIRequestsTotal, APIRequestDuration,
		MessagesSentTotal, MessagesFailedTotal, WebhookEventsTotal,
		RemindersProcessedTotal, CampaignDispatchDuration,
	)
}

func Handler() http.Handler { return promhttp.Handler() }
