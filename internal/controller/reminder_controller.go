package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	appErrors "github.com/threadline/wa-marketing-backend/internal/errors"
	"github.com/threadline/wa-marketing-backend/internal/service"
)

type ReminderController struct {
	ReminderService *service.ReminderService
}

func (c *ReminderController) CustomerReminders(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid customer id", http.StatusBadRequest)
		return
	}

	reminders, err := c.ReminderService.CustomerReminders(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, map[string]interface{}{"data": reminders})
}

func (c *ReminderController) CancelReminder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid reminder id", http.StatusBadRequest)
		return
	}

	if err := c.ReminderService.CancelReminder(r.Context(), id); err != nil {
		var state *appErrors.ErrReminderState
		if errors.As(err, &state) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, map[string]interface{}{"message": "reminder cancelled"})
}
