package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type CrewHandler struct {
	crewService *service.CrewService
	logger      *zap.Logger
}

func NewCrewHandler(crewService *service.CrewService, logger *zap.Logger) *CrewHandler {
	return &CrewHandler{
		crewService: crewService,
		logger:      logger,
	}
}

// List godoc
// @Summary List crew members
// @Description Returns a page of crew members, optionally filtered by isActive.
// @Tags Crews
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by name or username"
// @Param isActive query bool false "Filter by active flag"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, name, username)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.CrewDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /crews [get]
func (h *CrewHandler) List(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.CrewSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	result, err := h.crewService.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list crews")
		return
	}

	respondList(w, result)
}

// Create godoc
// @Summary Create crew member
// @Description Create a new crew member
// @Tags Crews
// @Accept json
// @Produce json
// @Param request body domain.CreateCrewRequest true "Crew member data"
// @Success 201 {object} domain.Response{data=domain.CrewDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Username already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /crews [post]
func (h *CrewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCrewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.crewService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create crew member")
		return
	}

	respondSuccess(w, http.StatusCreated, result)
}

// GetByID godoc
// @Summary Get crew member by ID
// @Description Get crew member by ID
// @Tags Crews
// @Produce json
// @Param id path string true "Crew member ID" format(uuid)
// @Success 200 {object} domain.Response{data=domain.CrewDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /crews/{id} [get]
func (h *CrewHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	result, err := h.crewService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get crew member")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Update godoc
// @Summary Update crew member
// @Description Update an existing crew member; omitted fields are left unchanged
// @Tags Crews
// @Accept json
// @Produce json
// @Param id path string true "Crew member ID" format(uuid)
// @Param request body domain.UpdateCrewRequest true "Fields to change"
// @Success 200 {object} domain.Response{data=domain.CrewDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Username already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /crews/{id} [put]
func (h *CrewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateCrewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.crewService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update crew member")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete crew member
// @Description Delete crew member by ID
// @Tags Crews
// @Produce json
// @Param id path string true "Crew member ID" format(uuid)
// @Success 200 {object} domain.Response
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /crews/{id} [delete]
func (h *CrewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.crewService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete crew member")
		return
	}

	respondMessage(w, "Crew member deleted successfully")
}
