package handler

import (
	"net/http"

	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

type ClientHandler struct {
	clientService *service.ClientService
	logger        *zap.Logger
}

func NewClientHandler(clientService *service.ClientService, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
		logger:        logger,
	}
}

// List godoc
// @Summary List clients
// @Description Returns a page of clients.
// @Tags Clients
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by name, email, phone or company"
// @Param sortBy query string false "Sort field" Enums(createdAt, updatedAt, name, company, email)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Param startDate query string false "Window start (date or RFC3339)"
// @Param endDate query string false "Window end; a bare date covers the whole day"
// @Param year query int false "Calendar year window"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ClientDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	q, problems := parseListQuery(r, repository.ClientSchema)
	if problems != nil {
		respondFieldErrors(w, "Invalid query parameters", problems)
		return
	}

	result, err := h.clientService.List(r.Context(), q)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "list clients")
		return
	}

	respondList(w, result)
}

// Create godoc
// @Summary Create client
// @Description Adds a client.
// @Tags Clients
// @Accept json
// @Produce json
// @Param request body domain.CreateClientRequest true "Client data"
// @Success 201 {object} domain.Response{data=domain.ClientDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "create client")
		return
	}

	respondSuccess(w, http.StatusCreated, client)
}

// GetByID godoc
// @Summary Get client by ID
// @Description Returns one client, with project and billing totals when includeStats=true.
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Param includeStats query bool false "Include project and billing statistics"
// @Success 200 {object} domain.Response{data=domain.ClientDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(r.Context(), id, boolParam(r, "includeStats"))
	if err != nil {
		respondServiceError(w, r, h.logger, err, "get client")
		return
	}

	respondSuccess(w, http.StatusOK, client)
}

// Update godoc
// @Summary Update client
// @Description Applies a partial update.
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Param request body domain.UpdateClientRequest true "Fields to change"
// @Success 200 {object} domain.Response{data=domain.ClientDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req domain.UpdateClientRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	client, err := h.clientService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "update client")
		return
	}

	respondSuccess(w, http.StatusOK, client)
}

// Delete godoc
// @Summary Delete client
// @Description Removes a client with no bills and no active sites.
// @Tags Clients
// @Produce json
// @Param id path string true "Client ID" format(uuid)
// @Success 200 {object} domain.Response
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Client has bills or active sites"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.clientService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, h.logger, err, "delete client")
		return
	}

	respondMessage(w, "Client deleted successfully")
}
