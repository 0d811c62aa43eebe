package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type EnquiryHandler struct {
	enquiryService *service.EnquiryService
	logger         *zap.Logger
}

func NewEnquiryHandler(enquiryService *service.EnquiryService, logger *zap.Logger) *EnquiryHandler {
	return &EnquiryHandler{
		enquiryService: enquiryService,
		logger:         logger,
	}
}

// List godoc
// @Summary List enquiries
// @Description Get paginated list of enquiries. Filters by status and windows on followUpDate.
// @Tags Enquiries
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by subject or message"
// @Param status query string false "Filter by status"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, subject, status, followUpDate)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.EnquiryDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /enquiries [get]
func (h *EnquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.EnquirySchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	result, err := h.enquiryService.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list enquiries")
		return
	}

	respondList(w, result)
}

// Create godoc
// @Summary Create enquiry
// @Description Create a new enquiry
// @Tags Enquiries
// @Accept json
// @Produce json
// @Param request body domain.CreateEnquiryRequest true "Enquiry data"
// @Success 201 {object} domain.Response{data=domain.EnquiryDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /enquiries [post]
func (h *EnquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEnquiryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.enquiryService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create enquiry")
		return
	}

	respondSuccess(w, http.StatusCreated, result)
}

// GetByID godoc
// @Summary Get enquiry by ID
// @Description Get enquiry by ID
// @Tags Enquiries
// @Produce json
// @Param id path string true "Enquiry ID" format(uuid)
// @Success 200 {object} domain.Response{data=domain.EnquiryDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /enquiries/{id} [get]
func (h *EnquiryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	result, err := h.enquiryService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get enquiry")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Update godoc
// @Summary Update enquiry
// @Description Update an existing enquiry; omitted fields are left unchanged
// @Tags Enquiries
// @Accept json
// @Produce json
// @Param id path string true "Enquiry ID" format(uuid)
// @Param request body domain.UpdateEnquiryRequest true "Fields to change"
// @Success 200 {object} domain.Response{data=domain.EnquiryDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /enquiries/{id} [put]
func (h *EnquiryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateEnquiryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.enquiryService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update enquiry")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete enquiry
// @Description Delete enquiry by ID
// @Tags Enquiries
// @Produce json
// @Param id path string true "Enquiry ID" format(uuid)
// @Success 200 {object} domain.Response
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /enquiries/{id} [delete]
func (h *EnquiryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.enquiryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete enquiry")
		return
	}

	respondMessage(w, "Enquiry deleted successfully")
}
