package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/threadline/wa-marketing-backend/pkg/logx"
)

// Handler processes one queued payload. A non-nil error triggers a retry.
type Handler func(body []byte) error

// Queue decouples webhook ingestion from webhook processing: the HTTP
// handler acks the provider and publishes; a subscriber does the work.
type Queue interface {
	Publish(topic string, body []byte) error
	Subscribe(topic string, handler Handler) error
}

// InMemoryQueue is the single-process implementation used when no broker is
// configured. Delivery is asynchronous with bounded retries.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]Handler
}

func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]Handler),
	}
}

const maxRetries = 3

func (q *InMemoryQueue) Publish(topic string, body []byte) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		go q.processJob(topic, handler, body)
	}
	return nil
}

func (q *InMemoryQueue) processJob(topic string, handler Handler, body []byte) {
	for attempt := 1; ; attempt++ {
		err := handler(body)
		if err == nil {
			return
		}
		logx.L().Warnw("queue job failed", "topic", topic, "attempt", attempt, "err", err)
		if attempt > maxRetries {
			logx.L().Errorw("queue job permanently failed", "topic", topic, "attempts", attempt)
			return
		}
		time.Sleep(time.Duration(attempt*500) * time.Millisecond)
	}
}

func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
