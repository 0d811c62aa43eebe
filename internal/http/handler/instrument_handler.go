package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type InstrumentHandler struct {
	instrumentService *service.InstrumentService
	logger            *zap.Logger
}

func NewInstrumentHandler(instrumentService *service.InstrumentService, logger *zap.Logger) *InstrumentHandler {
	return &InstrumentHandler{
		instrumentService: instrumentService,
		logger:            logger,
	}
}

// List godoc
// @Summary List instruments
// @Description Get paginated list of instruments with optional filters
// @Tags Instruments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by name or serial number"
// @Param type query string false "Filter by type"
// @Param status query string false "Filter by status"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, name, serialNumber, lastServicedOn)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.InstrumentDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /instruments [get]
func (h *InstrumentHandler) List(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.InstrumentSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	result, err := h.instrumentService.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list instruments")
		return
	}

	respondList(w, result)
}

// Create godoc
// @Summary Create instrument
// @Description Create a new instrument
// @Tags Instruments
// @Accept json
// @Produce json
// @Param request body domain.CreateInstrumentRequest true "Instrument data"
// @Success 201 {object} domain.Response{data=domain.InstrumentDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Serial number already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /instruments [post]
func (h *InstrumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInstrumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.instrumentService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create instrument")
		return
	}

	respondSuccess(w, http.StatusCreated, result)
}

// GetByID godoc
// @Summary Get instrument by ID
// @Description Get instrument by ID
// @Tags Instruments
// @Produce json
// @Param id path string true "Instrument ID" format(uuid)
// @Success 200 {object} domain.Response{data=domain.InstrumentDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id} [get]
func (h *InstrumentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	result, err := h.instrumentService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get instrument")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Update godoc
// @Summary Update instrument
// @Description Update an instrument. Status may be set directly; site assignment moves it as well.
// @Tags Instruments
// @Accept json
// @Produce json
// @Param id path string true "Instrument ID" format(uuid)
// @Param request body domain.UpdateInstrumentRequest true "Fields to change"
// @Success 200 {object} domain.Response{data=domain.InstrumentDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Serial number already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id} [put]
func (h *InstrumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateInstrumentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.instrumentService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update instrument")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete instrument
// @Description Delete instrument by ID
// @Tags Instruments
// @Produce json
// @Param id path string true "Instrument ID" format(uuid)
// @Success 200 {object} domain.Response
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /instruments/{id} [delete]
func (h *InstrumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.instrumentService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete instrument")
		return
	}

	respondMessage(w, "Instrument deleted successfully")
}
