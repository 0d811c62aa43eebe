package domain

// ErrorCode is the machine-readable code in a failure envelope
type ErrorCode string

const (
	CodeValidation         ErrorCode = "VALIDATION_ERROR"
	CodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeNoToken            ErrorCode = "NO_TOKEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// ErrorBody is the error member of a failure envelope
type ErrorBody struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// FieldErrors is the details payload for validation and uniqueness errors
type FieldErrors struct {
	Fields map[string]string `json:"fields"`
}

// ValidationMessages maps validator tags to user-facing messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Must be a valid email address",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"gte":      "Must be greater than or equal to minimum value",
	"lte":      "Must be less than or equal to maximum value",
	"uuid":     "Must be a valid UUID",
	"url":      "Must be a valid URL",
	"oneof":    "Must be one of the allowed values",
	"dive":     "Contains an invalid entry",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
