package controller

import (
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/threadline/wa-marketing-backend/internal/service"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func (c *AnalyticsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := c.AnalyticsService.Dashboard(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, stats)
}

func (c *AnalyticsController) Engagement(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("start_date"))
	if err != nil {
		http.Error(w, "invalid start_date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("end_date"))
	if err != nil {
		http.Error(w, "invalid end_date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	// Make the end date inclusive.
	to = to.AddDate(0, 0, 1)

	engagement, err := c.AnalyticsService.Engagement(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, engagement)
}
