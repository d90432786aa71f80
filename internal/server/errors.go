package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cashdomain "github.com/mkadic/cashbook/internal/cash/domain"
	tenantdomain "github.com/mkadic/cashbook/internal/tenant/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrNotFound           = errors.New("not_found")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

// ErrorHandlingMiddleware renders the last error attached to the gin
// context, so handlers never build error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return ErrInvalidRequest
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	// Malformed bodies and a missing scope header are request-shape
	// problems, not field validation.
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, cashdomain.ErrMalformedPayload),
		errors.Is(err, cashdomain.ErrTenantScope):
		return http.StatusBadRequest, errorPayload{
			Type:    "invalid_request",
			Message: err.Error(),
		}
	}

	var fieldErr *cashdomain.FieldError
	if errors.As(err, &fieldErr) {
		code := validationErrorCode(fieldErr.Err)
		if code == "invalid_value" {
			code = "unknown_field"
		}
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   fieldErr.Field,
					Code:    code,
					Message: fieldErr.Err.Error(),
				},
			},
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isDomainValidationError(err) {
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(err),
					Code:    validationErrorCode(err),
					Message: err.Error(),
				},
			},
		}
	}

	switch {
	case errors.Is(err, tenantdomain.ErrCodeExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "tenant code already exists",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isDomainValidationError(err error) bool {
	switch {
	case errors.Is(err, tenantdomain.ErrInvalidCode),
		errors.Is(err, tenantdomain.ErrInvalidName),
		errors.Is(err, cashdomain.ErrInvalidKind),
		errors.Is(err, cashdomain.ErrInvalidAmount),
		errors.Is(err, cashdomain.ErrInvalidDate),
		errors.Is(err, cashdomain.ErrUnknownTenant):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, tenantdomain.ErrNotFound),
		errors.Is(err, cashdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, tenantdomain.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, tenantdomain.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, cashdomain.ErrInvalidKind):
		return "invalid_kind"
	case errors.Is(err, cashdomain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, cashdomain.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, cashdomain.ErrUnknownTenant):
		return "unknown_tenant"
	default:
		return "invalid_value"
	}
}

func validationErrorField(err error) string {
	switch {
	case errors.Is(err, tenantdomain.ErrInvalidCode):
		return "code"
	case errors.Is(err, tenantdomain.ErrInvalidName):
		return "name"
	case errors.Is(err, cashdomain.ErrInvalidKind):
		return "kind"
	case errors.Is(err, cashdomain.ErrInvalidAmount):
		return "amount"
	case errors.Is(err, cashdomain.ErrInvalidDate):
		return "entry_date"
	case errors.Is(err, cashdomain.ErrUnknownTenant):
		return "tenant_code"
	default:
		return ""
	}
}
