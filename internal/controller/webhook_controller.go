package controller

import (
	"io"
	"net/http"

	"github.com/threadline/wa-marketing-backend/internal/queue"
	"github.com/threadline/wa-marketing-backend/pkg/logx"
)

type WebhookController struct {
	VerifyToken string
	Queue       queue.Queue
	Topic       string
}

// Verify answers the provider's subscription handshake: echo the challenge
// when the token matches, 403 otherwise.
func (c *WebhookController) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == c.VerifyToken {
		logx.L().Infow("webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(challenge))
		return
	}
	logx.L().Warnw("webhook verification failed", "mode", mode)
	w.WriteHeader(http.StatusForbidden)
}

// Receive acknowledges the delivery immediately and hands the raw envelope
// to the queue. The provider retries slow acks, so no processing happens on
// this path.
func (c *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logx.L().Errorw("failed to read webhook body", "err", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	w.WriteHeader(http.StatusOK)

	if err := c.Queue.Publish(c.Topic, body); err != nil {
		logx.L().Errorw("failed to enqueue webhook event", "err", err)
	}
}
