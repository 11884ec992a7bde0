// internal/api/response_helpers.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/CreativeCreatives/creative-creatives/internal/errors"
)

// APIResponse is the uniform envelope for every JSON response.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError is the standard error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResponseHelper centralizes response formatting so handlers stay thin.
type ResponseHelper struct{}

func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

func (rh *ResponseHelper) getRequestID(c *gin.Context) string {
	return c.GetHeader("X-Request-ID")
}

// Success writes a 200 with the data payload.
func (rh *ResponseHelper) Success(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}
	if len(message) > 0 {
		response.Message = message[0]
	}
	c.JSON(http.StatusOK, response)
}

// Accepted writes a 202 for work that continues in the background.
func (rh *ResponseHelper) Accepted(c *gin.Context, data interface{}, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}
	if len(message) > 0 {
		response.Message = message[0]
	} else {
		response.Message = "Request accepted"
	}
	c.JSON(http.StatusAccepted, response)
}

// Error writes a failure envelope with the given status.
func (rh *ResponseHelper) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, &APIResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	})
}

// AppError maps a typed application error onto an HTTP status.
func (rh *ResponseHelper) AppError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case apperrors.IsValidationError(err):
		status = http.StatusBadRequest
		code = "validation_error"
	case apperrors.IsNotFoundError(err):
		status = http.StatusNotFound
		code = "not_found"
	case apperrors.IsGatewayError(err):
		status = http.StatusBadGateway
		code = "gateway_error"
	case apperrors.IsConflictError(err):
		status = http.StatusConflict
		code = "conflict"
	}

	rh.Error(c, status, code, err.Error())
}
