package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/authorization"
	branchdomain "github.com/kpharma/pharmgate/internal/branch/domain"
	"github.com/kpharma/pharmgate/internal/lock"
	orderrelaydomain "github.com/kpharma/pharmgate/internal/orderrelay/domain"
	organizationdomain "github.com/kpharma/pharmgate/internal/organization/domain"
	settlementdomain "github.com/kpharma/pharmgate/internal/settlement/domain"
	"gorm.io/gorm"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrNoOrganization = errors.New("no_organization")
	ErrInvalidRequest = errors.New("invalid_request")
)

// ErrorHandlingMiddleware converts the last gin error into the JSON error
// envelope after the handler chain finishes.
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

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, successResponse{Success: true, Data: data})
}

func mapError(err error) (int, errorPayload) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, errorPayload{
			Code:    "internal_error",
			Message: "internal server error",
		}

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Code:    "unauthorized",
			Message: "unauthorized",
		}

	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusForbidden, errorPayload{
			Code:    "forbidden",
			Message: "forbidden",
		}

	case errors.Is(err, ErrNoOrganization):
		return http.StatusBadRequest, errorPayload{
			Code:    "no_organization",
			Message: "no active organization membership",
		}

	case errors.Is(err, settlementdomain.ErrIllegalTransition),
		errors.Is(err, orderrelaydomain.ErrIllegalTransition):
		// the 409 body carries the full from/to detail for operators
		return http.StatusConflict, errorPayload{
			Code:    "illegal_transition",
			Message: err.Error(),
		}

	case errors.Is(err, lock.ErrLockHeld):
		return http.StatusConflict, errorPayload{
			Code:    "transition_in_progress",
			Message: "another transition is in progress for this record",
		}

	case errors.Is(err, settlementdomain.ErrReasonRequired),
		errors.Is(err, orderrelaydomain.ErrReasonRequired):
		return http.StatusBadRequest, errorPayload{
			Code:    "reason_required",
			Message: "a non-empty reason is required",
		}

	case errors.Is(err, settlementdomain.ErrUnknownAction),
		errors.Is(err, orderrelaydomain.ErrUnknownStatus):
		return http.StatusBadRequest, errorPayload{
			Code:    "invalid_request",
			Message: err.Error(),
		}

	case errors.Is(err, settlementdomain.ErrInvalidPageToken),
		errors.Is(err, orderrelaydomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidPageToken):
		return http.StatusBadRequest, errorPayload{
			Code:    "invalid_page_token",
			Message: "invalid page token",
		}

	case errors.Is(err, auditdomain.ErrInvalidTimeRange):
		return http.StatusBadRequest, errorPayload{
			Code:    "invalid_time_range",
			Message: "invalid time range",
		}

	case errors.Is(err, branchdomain.ErrTitleRequired),
		errors.Is(err, branchdomain.ErrNameRequired),
		errors.Is(err, branchdomain.ErrDocURLRequired),
		errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{
			Code:    "invalid_request",
			Message: err.Error(),
		}

	// a record in another tenant and a read with no membership both look
	// like a missing record
	case errors.Is(err, settlementdomain.ErrNotFound),
		errors.Is(err, orderrelaydomain.ErrNotFound),
		errors.Is(err, branchdomain.ErrNotFound),
		errors.Is(err, branchdomain.ErrSettingsNotFound),
		errors.Is(err, organizationdomain.ErrNotFound),
		errors.Is(err, settlementdomain.ErrInvalidOrganization),
		errors.Is(err, orderrelaydomain.ErrInvalidOrganization),
		errors.Is(err, branchdomain.ErrInvalidOrganization),
		errors.Is(err, auditdomain.ErrInvalidOrganization),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Code:    "not_found",
			Message: "not found",
		}

	default:
		// operator surface: internal errors keep their message
		return http.StatusInternalServerError, errorPayload{
			Code:    "internal_error",
			Message: err.Error(),
		}
	}
}
