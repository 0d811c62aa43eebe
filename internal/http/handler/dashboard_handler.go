package handler

import (
	"net/http"
	"strconv"

	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

const (
	defaultTopClients = 10
	maxTopClients     = 100
	maxReminderDays   = 365
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	reminderService  *service.ReminderService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, reminderService *service.ReminderService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		reminderService:  reminderService,
		logger:           logger,
	}
}

// RevenueChart godoc
// @Summary Revenue, expenses and profit over time
// @Description Returns revenue, expenses and profit per bucket.
// @Tags Dashboard
// @Produce json
// @Param period query string false "Window" Enums(7days, 30days, 90days, 6months, 1year, all) default(30days)
// @Param groupBy query string false "Bucket size; defaults per period" Enums(day, week, month, year)
// @Success 200 {object} domain.Response{data=domain.RevenueChartDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/revenue-chart [get]
func (h *DashboardHandler) RevenueChart(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	chart, err := h.dashboardService.RevenueChart(r.Context(), params.Get("period"), params.Get("groupBy"))
	if err != nil {
		respondServiceError(w, r, h.logger, err, "build revenue chart")
		return
	}

	respondSuccess(w, http.StatusOK, chart)
}

// SiteStatusDistribution godoc
// @Summary Site counts per status
// @Description Returns site counts per status.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.Response{data=domain.SiteStatusDistributionDTO}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/site-status-distribution [get]
func (h *DashboardHandler) SiteStatusDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.dashboardService.SiteStatusDistribution(r.Context())
	if err != nil {
		respondServiceError(w, r, h.logger, err, "build site status distribution")
		return
	}

	respondSuccess(w, http.StatusOK, dist)
}

// ExpenseBreakdown godoc
// @Summary Expense totals per type
// @Description Returns expense totals per type.
// @Tags Dashboard
// @Produce json
// @Param period query string false "Window" Enums(7days, 30days, 90days, 6months, 1year, all) default(all)
// @Success 200 {object} domain.Response{data=domain.ExpenseBreakdownDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/expense-breakdown [get]
func (h *DashboardHandler) ExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.dashboardService.ExpenseBreakdown(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondServiceError(w, r, h.logger, err, "build expense breakdown")
		return
	}

	respondSuccess(w, http.StatusOK, breakdown)
}

// TopClients godoc
// @Summary Top clients
// @Description Ranks clients by revenue or project count.
// @Tags Dashboard
// @Produce json
// @Param sortBy query string false "Ranking" Enums(revenue, projects) default(revenue)
// @Param limit query int false "Number of clients (1-100)" default(10)
// @Success 200 {object} domain.Response{data=[]domain.TopClientDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/top-clients [get]
func (h *DashboardHandler) TopClients(w http.ResponseWriter, r *http.Request) {
	limit := defaultTopClients
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondFieldErrors(w, "Invalid query parameters", map[string]string{"limit": "Must be a positive integer"})
			return
		}
		limit = min(n, maxTopClients)
	}

	clients, err := h.dashboardService.TopClients(r.Context(), r.URL.Query().Get("sortBy"), limit)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "rank top clients")
		return
	}

	respondSuccess(w, http.StatusOK, clients)
}

// Reminders godoc
// @Summary Upcoming compliance and follow-up dates
// @Description Lists vehicle, instrument and enquiry dates falling due.
// @Tags Dashboard
// @Produce json
// @Param days query int false "Look-ahead window in days (1-365)" default(30)
// @Success 200 {object} domain.Response{data=domain.RemindersDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/reminders [get]
func (h *DashboardHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxReminderDays {
			respondFieldErrors(w, "Invalid query parameters", map[string]string{"days": "Must be between 1 and 365"})
			return
		}
		days = n
	}

	reminders, err := h.reminderService.Due(r.Context(), days)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list reminders")
		return
	}

	respondSuccess(w, http.StatusOK, reminders)
}
