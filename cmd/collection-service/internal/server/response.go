package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docuvault/cmd/collection-service/internal/domain"
	"docuvault/pkg/monitoring"
)

// Response is the unified response envelope. Error carries the same text
// as Message on error responses; some clients read one key, some the other.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes a 200 response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created writes a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// Error maps a domain error onto the HTTP taxonomy and writes it.
func Error(c *gin.Context, err error) {
	var memberErr *domain.MemberAccessError
	if errors.As(err, &memberErr) {
		c.JSON(http.StatusForbidden, Response{
			Code:    403,
			Message: "Cannot add some documents",
			Error:   "Cannot add some documents",
			Details: memberErr.Failures,
		})
		return
	}

	statusCode, message := parseError(err)
	if statusCode == http.StatusInternalServerError {
		// Unexpected store failures are logged with context and counted;
		// the response carries a non-leaking generic message.
		_ = c.Error(err)
		monitoring.StoreErrors.WithLabelValues(c.FullPath()).Inc()
	}

	c.JSON(statusCode, Response{
		Code:    statusCode,
		Message: message,
		Error:   message,
	})
}

func parseError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrCollectionNotFound),
		errors.Is(err, domain.ErrShardNotFound),
		errors.Is(err, domain.ErrDocumentNotInCollection),
		errors.Is(err, domain.ErrGrantNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidCollectionName),
		errors.Is(err, domain.ErrInvalidCollectionType),
		errors.Is(err, domain.ErrInvalidVisibility),
		errors.Is(err, domain.ErrSmartQueryRequired),
		errors.Is(err, domain.ErrEmptyDocumentIDs),
		errors.Is(err, domain.ErrOffsetTooLarge),
		errors.Is(err, domain.ErrInvalidTenantID):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrCollectionNameTaken):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
