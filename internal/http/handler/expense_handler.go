package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type ExpenseHandler struct {
	expenseService *service.ExpenseService
	exportService  *service.ExportService
	logger         *zap.Logger
}

func NewExpenseHandler(expenseService *service.ExpenseService, exportService *service.ExportService, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseService: expenseService,
		exportService:  exportService,
		logger:         logger,
	}
}

// List godoc
// @Summary List expenses
// @Description Get paginated list of expenses with optional filters
// @Tags Expenses
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by description"
// @Param type query string false "Filter by type"
// @Param siteId query string false "Filter by site" format(uuid)
// @Param crewId query string false "Filter by crew member" format(uuid)
// @Param sortBy query string false "Sort field" Enums(expenseDate, amount, type, createdAt, updatedAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ExpenseDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /expenses [get]
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.ExpenseSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	result, err := h.expenseService.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list expenses")
		return
	}

	respondList(w, result)
}

// Create godoc
// @Summary Create expense
// @Description Create a new expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param request body domain.CreateExpenseRequest true "Expense data"
// @Success 201 {object} domain.Response{data=domain.ExpenseDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /expenses [post]
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	expense, err := h.expenseService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create expense")
		return
	}

	respondSuccess(w, http.StatusCreated, expense)
}

// GetByID godoc
// @Summary Get expense by ID
// @Description Get expense by ID
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID" format(uuid)
// @Success 200 {object} domain.Response{data=domain.ExpenseDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get expense")
		return
	}

	respondSuccess(w, http.StatusOK, expense)
}

// Update godoc
// @Summary Update expense
// @Description Update an existing expense; omitted fields are left unchanged
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID" format(uuid)
// @Param request body domain.UpdateExpenseRequest true "Fields to change"
// @Success 200 {object} domain.Response{data=domain.ExpenseDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	expense, err := h.expenseService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update expense")
		return
	}

	respondSuccess(w, http.StatusOK, expense)
}

// Delete godoc
// @Summary Delete expense
// @Description Delete expense by ID
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID" format(uuid)
// @Success 200 {object} domain.Response
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.expenseService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete expense")
		return
	}

	respondMessage(w, "Expense deleted successfully")
}

// Export godoc
// @Summary Export expenses workbook
// @Description Returns every expense matching the list filters as a workbook.
// @Tags Expenses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param search query string false "Search by description"
// @Param type query string false "Filter by type"
// @Param siteId query string false "Filter by site" format(uuid)
// @Param crewId query string false "Filter by crew member" format(uuid)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {file} file "xlsx workbook"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /expenses/export [get]
func (h *ExpenseHandler) Export(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.ExpenseSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	buf, err := h.exportService.ExpensesWorkbook(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "export expenses")
		return
	}

	respondWorkbook(w, "expenses", buf)
}
