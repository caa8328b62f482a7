package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	appErrors "github.com/threadline/wa-marketing-backend/internal/errors"
	"github.com/threadline/wa-marketing-backend/internal/model"
	"github.com/threadline/wa-marketing-backend/internal/whatsapp"
)

// Hand-rolled mocks shared by the service tests.

type sentRecord struct {
	To      string
	Content whatsapp.Content
}

type mockSender struct {
	mu      sync.Mutex
	sent    []sentRecord
	read    []string
	failFor map[string]error
	nextID  int

	// onSend, when set, runs before each successful send. Tests use it to
	// mutate state mid-dispatch.
	onSend func(to string)
}

func (m *mockSender) Send(_ context.Context, to string, content whatsapp.Content) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[to]; ok {
		return "", err
	}
	if m.onSend != nil {
		m.onSend(to)
	}
	m.sent = append(m.sent, sentRecord{To: to, Content: content})
	m.nextID++
	return fmt.Sprintf("wamid.mock-%d", m.nextID), nil
}

func (m *mockSender) MarkAsRead(_ context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.read = append(m.read, messageID)
	return nil
}

func (m *mockSender) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type mockCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[int]*model.Campaign
	nextID    int
}

func newMockCampaignRepo(campaigns ...*model.Campaign) *mockCampaignRepo {
	r := &mockCampaignRepo{campaigns: map[int]*model.Campaign{}}
	for _, c := range campaigns {
		r.campaigns[c.ID] = c
		if c.ID > r.nextID {
			r.nextID = c.ID
		}
	}
	return r
}

func (r *mockCampaignRepo) Create(c *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now()
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *mockCampaignRepo) GetByID(id int) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (r *mockCampaignRepo) ListCampaigns(offset, limit int, status string) ([]*model.Campaign, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []*model.Campaign{}
	for id := r.nextID; id >= 1; id-- {
		c, ok := r.campaigns[id]
		if !ok {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}
	total := len(all)
	if offset >= len(all) {
		return []*model.Campaign{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *mockCampaignRepo) MarkRunning(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return false, nil
	}
	if c.Status != model.CampaignStatusDraft && c.Status != model.CampaignStatusScheduled {
		return false, nil
	}
	c.Status = model.CampaignStatusRunning
	now := time.Now()
	c.StartedAt = &now
	return true, nil
}

func (r *mockCampaignRepo) Complete(id, sentCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return fmt.Errorf("campaign %d missing", id)
	}
	c.Status = model.CampaignStatusCompleted
	c.MessagesSent = sentCount
	now := time.Now()
	c.CompletedAt = &now
	return nil
}

func (r *mockCampaignRepo) Cancel(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return false, nil
	}
	if c.Status == model.CampaignStatusCompleted || c.Status == model.CampaignStatusCancelled {
		return false, nil
	}
	c.Status = model.CampaignStatusCancelled
	return true, nil
}

func (r *mockCampaignRepo) UpdateStatus(id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return fmt.Errorf("campaign %d missing", id)
	}
	c.Status = status
	return nil
}

type mockCustomerRepo struct {
	customers []model.Customer
}

func (r *mockCustomerRepo) GetByID(id int) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockCustomerRepo) GetByWhatsAppNumber(number string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.WhatsAppNumber == number {
			cp := c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockCustomerRepo) ListActive(category string) ([]model.Customer, error) {
	out := []model.Customer{}
	for _, c := range r.customers {
		if c.Status != model.CustomerStatusActive {
			continue
		}
		if category != "" && c.InterestCategory != category {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *mockCustomerRepo) CountActive(category string) (int, error) {
	list, _ := r.ListActive(category)
	return len(list), nil
}

func (r *mockCustomerRepo) Create(c *model.Customer) error {
	c.ID = len(r.customers) + 1
	r.customers = append(r.customers, *c)
	return nil
}

type mockCategoryRepo struct {
	categories map[string]*model.ProductCategory
}

func (r *mockCategoryRepo) GetByName(name string) (*model.ProductCategory, error) {
	if r.categories == nil {
		return nil, nil
	}
	pc, ok := r.categories[name]
	if !ok {
		return nil, nil
	}
	cp := *pc
	return &cp, nil
}

func (r *mockCategoryRepo) ListActive() ([]model.ProductCategory, error) {
	out := []model.ProductCategory{}
	for _, pc := range r.categories {
		if pc.IsActive {
			out = append(out, *pc)
		}
	}
	return out, nil
}

func (r *mockCategoryRepo) Create(pc *model.ProductCategory) error {
	if r.categories == nil {
		r.categories = map[string]*model.ProductCategory{}
	}
	r.categories[pc.CategoryName] = pc
	return nil
}

type mockMessageRepo struct {
	mu            sync.Mutex
	messages      []*model.Message
	statusUpdates int
}

func (r *mockMessageRepo) Create(m *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = len(r.messages) + 1
	m.CreatedAt = time.Now()
	cp := *m
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *mockMessageRepo) GetByProviderID(waMessageID string) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.WhatsAppMessageID != nil && *m.WhatsAppMessageID == waMessageID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockMessageRepo) LatestForCustomer(customerID int) (*model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].CustomerID == customerID {
			cp := *r.messages[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *mockMessageRepo) UpdateStatus(id int, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.ID == id {
			m.Status = status
			r.statusUpdates++
			return nil
		}
	}
	return fmt.Errorf("message %d missing", id)
}

func (r *mockMessageRepo) CampaignStats(campaignID int) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := map[string]int{"sent": 0, "delivered": 0, "read": 0, "failed": 0}
	for _, m := range r.messages {
		if m.CampaignID != nil && *m.CampaignID == campaignID {
			stats[m.Status]++
		}
	}
	return stats, nil
}

func (r *mockMessageRepo) byStatus(status string) []*model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Message{}
	for _, m := range r.messages {
		if m.Status == status {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out
}

func (r *mockMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

type mockReminderRepo struct {
	mu        sync.Mutex
	reminders map[int]*model.Reminder
	due       []model.DueReminder
	nextID    int
}

func newMockReminderRepo() *mockReminderRepo {
	return &mockReminderRepo{reminders: map[int]*model.Reminder{}}
}

func (r *mockReminderRepo) Create(rem *model.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rem.ID = r.nextID
	rem.CreatedAt = time.Now()
	cp := *rem
	r.reminders[rem.ID] = &cp
	return nil
}

func (r *mockReminderRepo) addDue(d model.DueReminder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	d.ID = r.nextID
	cp := d.Reminder
	cp.ID = d.ID
	r.reminders[d.ID] = &cp
	r.due = append(r.due, d)
}

func (r *mockReminderRepo) Due(asOf time.Time) ([]model.DueReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.DueReminder{}
	for _, d := range r.due {
		stored := r.reminders[d.ID]
		if stored.Status != model.ReminderStatusScheduled {
			continue
		}
		if d.ReminderDate.After(asOf) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *mockReminderRepo) MarkSent(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok || rem.Status != model.ReminderStatusScheduled {
		return false, nil
	}
	rem.Status = model.ReminderStatusSent
	now := time.Now()
	rem.SentAt = &now
	return true, nil
}

func (r *mockReminderRepo) Cancel(id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok || rem.Status == model.ReminderStatusSent {
		return false, nil
	}
	rem.Status = model.ReminderStatusCancelled
	return true, nil
}

func (r *mockReminderRepo) ListByCustomer(customerID int) ([]model.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Reminder{}
	for _, rem := range r.reminders {
		if rem.CustomerID == customerID {
			out = append(out, *rem)
		}
	}
	return out, nil
}

func (r *mockReminderRepo) get(id int) *model.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()
	rem, ok := r.reminders[id]
	if !ok {
		return nil
	}
	cp := *rem
	return &cp
}

type mockInteractionRepo struct {
	mu           sync.Mutex
	interactions []*model.Interaction
}

func (r *mockInteractionRepo) Create(i *model.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i.ID = len(r.interactions) + 1
	i.CreatedAt = time.Now()
	cp := *i
	r.interactions = append(r.interactions, &cp)
	return nil
}

func (r *mockInteractionRepo) CountByTypeBetween(from, to time.Time) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int{}
	for _, i := range r.interactions {
		counts[i.InteractionType]++
	}
	return counts, nil
}

type mockDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *mockDeduper) Seen(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	if d.seen[id] {
		return true, nil
	}
	d.seen[id] = true
	return false, nil
}
