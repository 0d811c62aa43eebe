package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type SiteHandler struct {
	siteService *service.SiteService
	logger      *zap.Logger
}

func NewSiteHandler(siteService *service.SiteService, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{
		siteService: siteService,
		logger:      logger,
	}
}

// List godoc
// @Summary List sites
// @Description Returns a page of sites. include=client,vehicle,bill,crews,instruments populates references on every row.
// @Tags Sites
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by name, address or city"
// @Param status query string false "Filter by status"
// @Param clientId query string false "Filter by client" format(uuid)
// @Param vehicleId query string false "Filter by vehicle" format(uuid)
// @Param include query string false "Comma separated references to embed" Enums(client, crews, instruments, vehicle, bill)
// @Param sortBy query string false "Sort field" Enums(startDate, endDate, name, city, status, createdAt, updatedAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.SiteDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sites [get]
func (h *SiteHandler) List(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.SiteSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	result, err := h.siteService.List(r.Context(), q, r.URL.Query().Get("include"))
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list sites")
		return
	}

	respondList(w, result)
}

// Create godoc
// @Summary Create site
// @Description Adds a site and moves its available instruments to in-use.
// @Tags Sites
// @Accept json
// @Produce json
// @Param request body domain.CreateSiteRequest true "Site data"
// @Success 201 {object} domain.Response{data=domain.SiteDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sites [post]
func (h *SiteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSiteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	site, err := h.siteService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create site")
		return
	}

	respondSuccess(w, http.StatusCreated, site)
}

// GetByID godoc
// @Summary Get site by ID
// @Description Returns one site.
// @Tags Sites
// @Produce json
// @Param id path string true "Site ID" format(uuid)
// @Param include query string false "Comma separated references to embed" Enums(client, crews, instruments, vehicle, bill)
// @Success 200 {object} domain.Response{data=domain.SiteDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sites/{id} [get]
func (h *SiteHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	site, err := h.siteService.GetByID(r.Context(), id, r.URL.Query().Get("include"))
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get site")
		return
	}

	respondSuccess(w, http.StatusOK, site)
}

// Update godoc
// @Summary Update site
// @Description Applies a partial update. A new instrumentIds list releases dropped instruments and claims added ones.
// @Tags Sites
// @Accept json
// @Produce json
// @Param id path string true "Site ID" format(uuid)
// @Param request body domain.UpdateSiteRequest true "Fields to change"
// @Success 200 {object} domain.Response{data=domain.SiteDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sites/{id} [put]
func (h *SiteHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateSiteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	site, err := h.siteService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update site")
		return
	}

	respondSuccess(w, http.StatusOK, site)
}

// Delete godoc
// @Summary Delete site
// @Description Removes a site and releases its instruments.
// @Tags Sites
// @Produce json
// @Param id path string true "Site ID" format(uuid)
// @Success 200 {object} domain.Response
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sites/{id} [delete]
func (h *SiteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.siteService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete site")
		return
	}

	respondMessage(w, "Site deleted successfully")
}
