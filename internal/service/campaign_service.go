// internal/service/campaign_service.go
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

// defaultPace is the mandatory spacing between consecutive sends. The
// provider rate-limits per number; one message per second stays under it.
const defaultPace = time.Second

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	CategoryRepo repository.CategoryRepositoryInterface
	MessageRepo  repository.MessageRepositoryInterface
	Sender       Sender
	WebsiteURL   string

	// Pace overrides the inter-send delay; zero means defaultPace.
	Pace time.Duration
}

func (s *CampaignService) pace() time.Duration {
	if s.Pace > 0 {
		return s.Pace
	}
	return defaultPace
}

type StartResult struct {
	CampaignID int `json:"campaign_id"`
	Recipients int `json:"total_recipients"`
}

type CampaignDetails struct {
	*model.Campaign
	Stats map[string]int `json:"stats"`
}

func (s *CampaignService) CreateCampaign(name, targetCategory, baseTemplate string, scheduledAt *string) (*model.Campaign, error) {
	c := &model.Campaign{
		Name:         name,
		BaseTemplate: baseTemplate,
		Status:       model.CampaignStatusDraft,
	}
	if targetCategory != "" {
		c.TargetCategory = &targetCategory
	}
	if scheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *scheduledAt)
		if err != nil {
			return nil, err
		}
		c.ScheduledAt = &t
		c.Status = model.CampaignStatusScheduled
	}

	// Recipient count snapshot taken at creation time.
	count, err := s.CustomerRepo.CountActive(targetCategory)
	if err != nil {
		return nil, err
	}
	c.TotalRecipients = count

	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// StartCampaign transitions the campaign to running and launches the
// dispatch loop in the background. The conditional update inside
// MarkRunning serialises concurrent starts: exactly one wins.
func (s *CampaignService) StartCampaign(ctx context.Context, id int) (*StartResult, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	ok, err := s.CampaignRepo.MarkRunning(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErrors.NewCampaignState(id, campaign.Status)
	}

	// Recipient set is resolved once, at start time. Customers added
	// later are not picked up by an in-flight dispatch.
	target := ""
	if campaign.TargetCategory != nil {
		target = *campaign.TargetCategory
	}
	customers, err := s.CustomerRepo.ListActive(target)
	if err != nil {
		_ = s.CampaignRepo.UpdateStatus(id, model.CampaignStatusCancelled)
		return nil, err
	}

	go s.dispatch(context.Background(), campaign, customers)

	return &StartResult{CampaignID: id, Recipients: len(customers)}, nil
}

// dispatch is the sequential paced send loop. Per-recipient failures are
// recorded and skipped; the campaign status is re-read before every send so
// a cancel takes effect mid-flight.
func (s *CampaignService) dispatch(ctx context.Context, campaign *model.Campaign, customers []model.Customer) {
	start := time.Now()
	sent := 0

	for i, customer := range customers {
		if i > 0 {
			time.Sleep(s.pace())
		}

		current, err := s.CampaignRepo.GetByID(campaign.ID)
		if err != nil {
			logx.L().Errorw("campaign vanished mid-dispatch, cancelling",
				"campaign_id", campaign.ID, "err", err)
			_ = s.CampaignRepo.UpdateStatus(campaign.ID, model.CampaignStatusCancelled)
			return
		}
		if current.Status != model.CampaignStatusRunning {
			logx.L().Infow("campaign no longer running, aborting dispatch",
				"campaign_id", campaign.ID, "status", current.Status, "sent", sent)
			return
		}

		content := s.buildContent(campaign, &customer)
		waID, err := s.Sender.Send(ctx, customer.WhatsAppNumber, content)

		msg := &model.Message{
			CustomerID:  customer.ID,
			CampaignID:  &campaign.ID,
			MessageType: model.MessageTypePromotional,
		}
		if err != nil {
			msg.Status = model.MessageStatusFailed
			msg.LastError = err.Error()
			metrics.MessagesFailedTotal.WithLabelValues(model.MessageTypePromotional).Inc()
			logx.L().Warnw("campaign send failed",
				"campaign_id", campaign.ID, "customer_id", customer.ID, "err", err)
		} else {
			msg.Status = model.MessageStatusSent
			msg.WhatsAppMessageID = &waID
			sent++
			metrics.MessagesSentTotal.WithLabelValues(model.MessageTypePromotional).Inc()
		}
		if err := s.MessageRepo.Create(msg); err != nil {
			logx.L().Errorw("failed to record message",
				"campaign_id", campaign.ID, "customer_id", customer.ID, "err", err)
		}
	}

	if err := s.CampaignRepo.Complete(campaign.ID, sent); err != nil {
		logx.L().Errorw("failed to complete campaign", "campaign_id", campaign.ID, "err", err)
		return
	}
	metrics.CampaignDispatchDuration.Observe(time.Since(start).Seconds())
	logx.L().Infow("campaign completed",
		"campaign_id", campaign.ID, "sent", sent, "recipients", len(customers))
}

func (s *CampaignService) buildContent(campaign *model.Campaign, customer *model.Customer) whatsapp.Content {
	productURL := s.productURL(customer.InterestCategory)

	if campaign.BaseTemplate == "" {
		return whatsapp.ProductMessage(customer.Name, customer.InterestCategory, productURL)
	}
	body := RenderTemplate(campaign.BaseTemplate, map[string]string{
		"name":        customer.Name,
		"category":    customer.InterestCategory,
		"product_url": productURL,
	})
	return whatsapp.CampaignMessage(body, customer.InterestCategory)
}

// productURL resolves a category to its landing page; missing or inactive
// categories fall back to the site root.
func (s *CampaignService) productURL(category string) string {
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

// CancelCampaign flips the status; the dispatch loop notices on its next
// status check and aborts before the following send. Terminal campaigns
// (completed or already cancelled) are rejected.
func (s *CampaignService) CancelCampaign(id int) error {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return err
	}
	ok, err := s.CampaignRepo.Cancel(id)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.NewCampaignState(id, campaign.Status)
	}
	return nil
}

func (s *CampaignService) ListCampaigns(page, pageSize int, status string) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(offset, pageSize, status)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
	return campaigns, pagination, nil
}

func (s *CampaignService) GetCampaignDetails(id int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	stats, err := s.MessageRepo.CampaignStats(id)
	if err != nil {
		return nil, err
	}
	return &CampaignDetails{Campaign: campaign, Stats: stats}, nil
}
