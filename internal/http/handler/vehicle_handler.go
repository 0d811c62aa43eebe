package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type VehicleHandler struct {
	vehicleService *service.VehicleService
	logger         *zap.Logger
}

func NewVehicleHandler(vehicleService *service.VehicleService, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		logger:         logger,
	}
}

// List godoc
// @Summary List vehicles
// @Description Get paginated list of vehicles with optional filters
// @Tags Vehicles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by name or registration number"
// @Param type query string false "Filter by type" Enums(car, truck, van, bike, other)
// @Param status query string false "Filter by status"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, name, registrationNumber, year, insuranceExpiry, serviceDueDate)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.VehicleDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /vehicles [get]
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.VehicleSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	result, err := h.vehicleService.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list vehicles")
		return
	}

	respondList(w, result)
}

// Create godoc
// @Summary Create vehicle
// @Description Registers a vehicle. Registration numbers are stored uppercase and must be unique across all admins.
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param request body domain.CreateVehicleRequest true "Vehicle data"
// @Success 201 {object} domain.Response{data=domain.VehicleDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Registration number already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /vehicles [post]
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateVehicleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.vehicleService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create vehicle")
		return
	}

	respondSuccess(w, http.StatusCreated, result)
}

// GetByID godoc
// @Summary Get vehicle by ID
// @Description Get vehicle by ID
// @Tags Vehicles
// @Produce json
// @Param id path string true "Vehicle ID" format(uuid)
// @Success 200 {object} domain.Response{data=domain.VehicleDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	result, err := h.vehicleService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get vehicle")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Update godoc
// @Summary Update vehicle
// @Description Update an existing vehicle; omitted fields are left unchanged
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID" format(uuid)
// @Param request body domain.UpdateVehicleRequest true "Fields to change"
// @Success 200 {object} domain.Response{data=domain.VehicleDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Registration number already exists"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateVehicleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.vehicleService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update vehicle")
		return
	}

	respondSuccess(w, http.StatusOK, result)
}

// Delete godoc
// @Summary Delete vehicle
// @Description Delete vehicle by ID
// @Tags Vehicles
// @Produce json
// @Param id path string true "Vehicle ID" format(uuid)
// @Success 200 {object} domain.Response
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /vehicles/{id} [delete]
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.vehicleService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete vehicle")
		return
	}

	respondMessage(w, "Vehicle deleted successfully")
}
