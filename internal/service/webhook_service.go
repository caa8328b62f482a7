// internal/service/webhook_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/threadline/wa-marketing-backend/internal/model"
	"github.com/threadline/wa-marketing-backend/internal/repository"
	"github.com/threadline/wa-marketing-backend/internal/whatsapp"
	"github.com/threadline/wa-marketing-backend/pkg/logx"
	"github.com/threadline/wa-marketing-backend/pkg/metrics"
)

// buttonAction is the closed set of button replies the processor acts on.
// Anything else maps to actionUnknown and is ignored, so new buttons can be
// rolled out before this service learns about them.
type buttonAction int

const (
	actionUnknown buttonAction = iota
	actionViewCollection
	actionRemindLater
	actionRemindDays
	actionCheckout
)

// parseButtonID classifies a button reply id. For remind_<N> ids the parsed
// day count is returned alongside.
func parseButtonID(id string) (buttonAction, int) {
	switch id {
	case whatsapp.ButtonViewCollection:
		return actionViewCollection, 0
	case whatsapp.ButtonRemindLater:
		return actionRemindLater, 0
	case whatsapp.ButtonCheckout:
		return actionCheckout, 0
	}
	if rest, ok := strings.CutPrefix(id, whatsapp.RemindButtonPrefix); ok {
		days, err := strconv.Atoi(rest)
		if err == nil && days > 0 {
			return actionRemindDays, days
		}
	}
	return actionUnknown, 0
}

type WebhookService struct {
	CustomerRepo    repository.CustomerRepositoryInterface
	CategoryRepo    repository.CategoryRepositoryInterface
	MessageRepo     repository.MessageRepositoryInterface
	InteractionRepo repository.InteractionRepositoryInterface
	Reminders       *ReminderService
	Sender          Sender
	Dedup           Deduper

	WebsiteURL  string
	CheckoutURL string
}

// Process walks one webhook envelope. Every event is handled inside its own
// error boundary; nothing here propagates back to the HTTP acknowledgment,
// which was already sent.
func (s *WebhookService) Process(ctx context.Context, env *model.WebhookEnvelope) {
	if env.Object != model.WebhookObject {
		return
	}
	for _, entry := range env.Entry {
		for _, change := range entry.Changes {
			if change.Field != "messages" {
				continue
			}
			s.processValue(ctx, &change.Value)
		}
	}
}

func (s *WebhookService) processValue(ctx context.Context, value *model.WebhookValue) {
	for _, msg := range value.Messages {
		s.processMessage(ctx, &msg)
	}
	for _, status := range value.Statuses {
		s.processStatus(status)
	}
}

func (s *WebhookService) processMessage(ctx context.Context, msg *model.InboundMessage) {
	if s.Dedup != nil {
		seen, err := s.Dedup.Seen(ctx, msg.ID)
		if err != nil {
			logx.L().Warnw("dedup check failed, processing anyway", "wamid", msg.ID, "err", err)
		} else if seen {
			logx.L().Debugw("duplicate webhook delivery skipped", "wamid", msg.ID)
			return
		}
	}
	metrics.WebhookEventsTotal.WithLabelValues(msg.Type).Inc()

	if err := s.Sender.MarkAsRead(ctx, msg.ID); err != nil {
		logx.L().Warnw("mark-as-read failed", "wamid", msg.ID, "err", err)
	}

	customer, err := s.CustomerRepo.GetByWhatsAppNumber(msg.From)
	if err != nil {
		logx.L().Errorw("customer lookup failed", "from", msg.From, "err", err)
		return
	}
	if customer == nil {
		// No implicit signup: unknown senders are logged and skipped.
		logx.L().Warnw("message from unknown number", "from", msg.From)
		return
	}

	switch msg.Type {
	case "interactive":
		s.handleInteractive(ctx, customer, msg)
	case "text":
		s.handleText(customer, msg)
	default:
		logx.L().Debugw("unhandled message type", "type", msg.Type, "from", msg.From)
	}
}

func (s *WebhookService) handleInteractive(ctx context.Context, customer *model.Customer, msg *model.InboundMessage) {
	if msg.Interactive == nil || msg.Interactive.ButtonReply == nil {
		return
	}
	buttonID := msg.Interactive.ButtonReply.ID
	logx.L().Infow("button reply", "customer_id", customer.ID, "button_id", buttonID)

	// Correlate against the most recent message we sent this customer.
	var messageID *int
	if last, err := s.MessageRepo.LatestForCustomer(customer.ID); err != nil {
		logx.L().Warnw("latest-message lookup failed", "customer_id", customer.ID, "err", err)
	} else if last != nil {
		messageID = &last.ID
	}

	action, days := parseButtonID(buttonID)
	switch action {
	case actionViewCollection:
		s.recordInteraction(customer.ID, messageID, model.InteractionViewCollection, buttonID, nil)
		s.sendCollectionLink(ctx, customer)

	case actionRemindLater:
		s.recordInteraction(customer.ID, messageID, model.InteractionRemindLater, buttonID, nil)
		s.send(ctx, customer, whatsapp.ReminderOptions(customer.Name))

	case actionRemindDays:
		s.handleRemindDays(ctx, customer, messageID, buttonID, days)

	case actionCheckout:
		s.recordInteraction(customer.ID, messageID, model.InteractionCheckout, buttonID, nil)
		s.sendCheckoutLink(ctx, customer)

	case actionUnknown:
		logx.L().Debugw("unrecognized button id ignored", "button_id", buttonID)
	}
}

func (s *WebhookService) handleRemindDays(ctx context.Context, customer *model.Customer, messageID *int, buttonID string, days int) {
	rem, err := s.Reminders.CreateReminder(ctx, customer.ID, messageID, days)
	if err != nil {
		logx.L().Errorw("failed to create reminder", "customer_id", customer.ID, "err", err)
		return
	}

	s.send(ctx, customer, whatsapp.ReminderConfirmation(customer.Name, days, rem.ReminderDate))

	payload, _ := json.Marshal(map[string]interface{}{
		"days":         days,
		"reminderDate": rem.ReminderDate.Format("2006-01-02"),
	})
	data := string(payload)
	s.recordInteraction(customer.ID, messageID, model.InteractionReminderSet, buttonID, &data)
}

// handleText is a hook point: keywords are detected but no reply is sent yet.
func (s *WebhookService) handleText(customer *model.Customer, msg *model.InboundMessage) {
	if msg.Text == nil {
		return
	}
	text := strings.ToLower(msg.Text.Body)
	if strings.Contains(text, "help") || strings.Contains(text, "support") {
		logx.L().Infow("support keyword detected", "customer_id", customer.ID)
	}
}

// processStatus applies one delivery receipt to the ledger. Receipts for
// messages we never persisted (other integrations share the number) are
// logged and dropped.
func (s *WebhookService) processStatus(status model.StatusEvent) {
	metrics.WebhookEventsTotal.WithLabelValues("status").Inc()

	msg, err := s.MessageRepo.GetByProviderID(status.ID)
	if err != nil {
		logx.L().Errorw("status lookup failed", "wamid", status.ID, "err", err)
		return
	}
	if msg == nil {
		logx.L().Debugw("status for unknown message id ignored", "wamid", status.ID, "status", status.Status)
		return
	}
	if !model.StatusAdvances(msg.Status, status.Status) {
		return
	}
	if err := s.MessageRepo.UpdateStatus(msg.ID, status.Status); err != nil {
		logx.L().Errorw("status update failed", "message_id", msg.ID, "err", err)
		return
	}
	logx.L().Infow("message status updated", "message_id", msg.ID, "status", status.Status)
}

func (s *WebhookService) sendCollectionLink(ctx context.Context, customer *model.Customer) {
	productURL := s.productURL(customer.InterestCategory)
	s.send(ctx, customer, whatsapp.CollectionLink(customer.InterestCategory, productURL))
}

func (s *WebhookService) sendCheckoutLink(ctx context.Context, customer *model.Customer) {
	checkoutURL := fmt.Sprintf("%s?customer=%d&category=%s",
		s.CheckoutURL, customer.ID, url.QueryEscape(customer.InterestCategory))
	s.send(ctx, customer, whatsapp.CheckoutLink(checkoutURL))
}

// send delivers one transactional follow-up and records it to the ledger,
// failed attempts included.
func (s *WebhookService) send(ctx context.Context, customer *model.Customer, content whatsapp.Content) {
	waID, err := s.Sender.Send(ctx, customer.WhatsAppNumber, content)

	msg := &model.Message{
		CustomerID:  customer.ID,
		MessageType: model.MessageTypeTransactional,
	}
	if err != nil {
		msg.Status = model.MessageStatusFailed
		msg.LastError = err.Error()
		metrics.MessagesFailedTotal.WithLabelValues(model.MessageTypeTransactional).Inc()
		logx.L().Warnw("follow-up send failed", "customer_id", customer.ID, "err", err)
	} else {
		msg.Status = model.MessageStatusSent
		msg.WhatsAppMessageID = &waID
		metrics.MessagesSentTotal.WithLabelValues(model.MessageTypeTransactional).Inc()
	}
	if recErr := s.MessageRepo.Create(msg); recErr != nil {
		logx.L().Errorw("failed to record follow-up message", "customer_id", customer.ID, "err", recErr)
	}
}

func (s *WebhookService) recordInteraction(customerID int, messageID *int, interactionType, buttonID string, data *string) {
	err := s.InteractionRepo.Create(&model.Interaction{
		CustomerID:      customerID,
		MessageID:       messageID,
		InteractionType: interactionType,
		ButtonID:        buttonID,
		AdditionalData:  data,
	})
	if err != nil {
		logx.L().Errorw("failed to record interaction",
			"customer_id", customerID, "type", interactionType, "err", err)
	}
}

func (s *WebhookService) productURL(category string) string {
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
