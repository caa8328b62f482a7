package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

// ErrCampaignState is returned when a campaign operation is rejected because
// of its current status, e.g. starting a campaign that is already running or
// cancelling a completed one.
type ErrCampaignState struct {
	CampaignID int
	Status     string
}

func (e *ErrCampaignState) Error() string {
	return fmt.Sprintf("campaign %d cannot change state from status %q", e.CampaignID, e.Status)
}

func NewCampaignState(id int, status string) error {
	return &ErrCampaignState{CampaignID: id, Status: status}
}

// ErrReminderState is returned when a reminder cannot leave its current
// status, e.g. cancelling a reminder that was already sent.
type ErrReminderState struct {
	ReminderID int
}

func (e *ErrReminderState) Error() string {
	return fmt.Sprintf("reminder %d is not in a cancellable state", e.ReminderID)
}

func NewReminderState(id int) error {
	return &ErrReminderState{ReminderID: id}
}
