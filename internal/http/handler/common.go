package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hiland-surveyors/survey-api/internal/domain"
	"github.com/hiland-surveyors/survey-api/internal/logger"
	"github.com/hiland-surveyors/survey-api/internal/repository"
	"github.com/hiland-surveyors/survey-api/internal/service"
	"go.uber.org/zap"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report JSON field names instead of Go struct field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("sitestatus", func(fl validator.FieldLevel) bool {
		return domain.SiteStatus(fl.Field().String()).IsValid()
	})

	return v
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondSuccess wraps data in the success envelope
func respondSuccess(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, domain.Response{Success: true, Data: data})
}

// respondMessage sends a success envelope carrying only a message
func respondMessage(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusOK, domain.Response{Success: true, Message: message})
}

// respondList sends a page of results with its pagination block
func respondList(w http.ResponseWriter, result *domain.PaginatedResponse) {
	respondJSON(w, http.StatusOK, domain.Response{
		Success:    true,
		Data:       result.Data,
		Pagination: result.Pagination,
	})
}

// respondError sends the failure envelope
func respondError(w http.ResponseWriter, status int, code domain.ErrorCode, message string, details interface{}) {
	respondJSON(w, status, domain.ErrorResponse{
		Success: false,
		Error: domain.ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondFieldErrors sends a 400 VALIDATION_ERROR with per-field messages
func respondFieldErrors(w http.ResponseWriter, message string, fields map[string]string) {
	respondError(w, http.StatusBadRequest, domain.CodeValidation, message, domain.FieldErrors{Fields: fields})
}

// respondValidationError converts validator errors into field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fields := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fieldPath(fe)] = formatValidationError(fe)
		}
	}
	respondFieldErrors(w, "Validation failed", fields)
}

// fieldPath returns the JSON path of a failing field without the root struct
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Must be a valid email address"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice || fe.Kind() == reflect.Ptr {
			return fmt.Sprintf("Must contain at least %s entries", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "sitestatus":
		return "Must be a valid site status"
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether to continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondError(w, http.StatusBadRequest, domain.CodeValidation, "Request body is required", nil)
			return false
		}
		respondError(w, http.StatusBadRequest, domain.CodeValidation, "Invalid request body: "+err.Error(), nil)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// respondServiceError maps a service error onto the failure envelope
func respondServiceError(w http.ResponseWriter, r *http.Request, base *zap.Logger, err error, action string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		respondFieldErrors(w, ve.Message, ve.Fields)
	case errors.Is(err, service.ErrDuplicateEmail):
		respondError(w, http.StatusBadRequest, domain.CodeDuplicateEmail, "Email already registered",
			domain.FieldErrors{Fields: map[string]string{"email": "Email already registered"}})
	case errors.Is(err, service.ErrConflict):
		var details interface{}
		if field := service.ConflictField(err); field != "" {
			details = domain.FieldErrors{Fields: map[string]string{field: err.Error()}}
		}
		respondError(w, http.StatusConflict, domain.CodeConflict, err.Error(), details)
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, domain.CodeNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, domain.CodeInvalidCredentials, "Invalid email or password", nil)
	case errors.Is(err, service.ErrUnauthorized), errors.Is(err, repository.ErrMissingOwner):
		respondError(w, http.StatusUnauthorized, domain.CodeInvalidToken, "Not authenticated", nil)
	default:
		logger.FromContext(r.Context(), base).Error("failed to "+action, zap.Error(err))
		respondError(w, http.StatusInternalServerError, domain.CodeInternal, "Internal server error", nil)
	}
}

// parseID reads the {id} URL parameter
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondFieldErrors(w, "Invalid ID", map[string]string{"id": "Must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// parseListQuery reads pagination, search, sort, filters and the date window
// a list endpoint accepts for schema
func parseListQuery(r *http.Request, schema *repository.EntitySchema) (repository.ListQuery, map[string]string) {
	params := r.URL.Query()
	problems := make(map[string]string)

	q := repository.ListQuery{
		Search:    params.Get("search"),
		SortBy:    params.Get("sortBy"),
		SortOrder: repository.ParseSortOrder(params.Get("sortOrder")),
		Filters:   make(map[string]interface{}),
	}

	q.Page = intParam(params.Get("page"), "page", problems)
	q.Limit = intParam(params.Get("limit"), "limit", problems)

	for name := range schema.Filters {
		raw := params.Get(name)
		if raw == "" {
			continue
		}
		value, err := schema.ParseFilter(name, raw)
		if err != nil {
			problems[name] = strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
			continue
		}
		q.Filters[name] = value
	}

	if raw := params.Get("startDate"); raw != "" {
		t, err := domain.ParseDate(raw)
		if err != nil {
			problems["startDate"] = "Must be YYYY-MM-DD or an RFC 3339 timestamp"
		} else {
			q.StartDate = &t
		}
	}
	if raw := params.Get("endDate"); raw != "" {
		t, err := domain.ParseDate(raw)
		if err != nil {
			problems["endDate"] = "Must be YYYY-MM-DD or an RFC 3339 timestamp"
		} else {
			if domain.IsDateOnly(raw) {
				t = t.Add(24*time.Hour - time.Millisecond)
			}
			q.EndDate = &t
		}
	}
	if raw := params.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 1900 || year > 9999 {
			problems["year"] = "Must be a four-digit year"
		} else {
			q.Year = year
		}
	}

	q.Normalize()
	if len(problems) > 0 {
		return q, problems
	}
	return q, nil
}

func intParam(raw, name string, problems map[string]string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		problems[name] = "Must be a positive integer"
		return 0
	}
	return n
}

// boolParam reads a boolean query flag, treating anything unparsable as false
func boolParam(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
