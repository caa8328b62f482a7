package queue

import (
	"context"
	"encoding/json"

	"github.com/threadline/wa-marketing-backend/internal/model"
	"github.com/threadline/wa-marketing-backend/internal/service"
	"github.com/threadline/wa-marketing-backend/pkg/logx"
)

// StartWebhookSubscriber attaches the inbound processor to the webhook
// topic. Malformed payloads are dropped, not retried; there is nothing a
// retry could fix.
func StartWebhookSubscriber(q Queue, topic string, svc *service.WebhookService) error {
	return q.Subscribe(topic, func(body []byte) error {
		var env model.WebhookEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			logx.L().Errorw("invalid webhook payload dropped", "err", err)
			return nil
		}
		svc.Process(context.Background(), &env)
		return nil
	})
}
