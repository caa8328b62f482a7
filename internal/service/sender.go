package service

import (
	"context"

	"github.com/threadline/wa-marketing-backend/internal/whatsapp"
)

// Sender is the single outbound-send primitive the three subsystems share.
// *whatsapp.Client satisfies it; tests substitute fakes.
type Sender interface {
	Send(ctx context.Context, to string, content whatsapp.Content) (string, error)
	MarkAsRead(ctx context.Context, messageID string) error
}

// Deduper suppresses webhook redeliveries. A nil Deduper disables dedup.
type Deduper interface {
	Seen(ctx context.Context, id string) (bool, error)
}
