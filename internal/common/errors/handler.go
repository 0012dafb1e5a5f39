// internal/common/errors/handler.go
package errors

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler converts application errors into JSON API responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// ErrorResponse is the wire shape of every error the API returns.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
	TraceID   string `json:"traceId,omitempty"`
}

// Handle is installed as the fiber app's ErrorHandler. It normalizes any
// error to a StandardError, logs it, and writes the mapped HTTP status.
func (h *ErrorHandler) Handle(ctx *fiber.Ctx, err error) error {
	stdErr := h.normalizeError(err)

	status := HTTPStatus(stdErr.Code)
	h.logError(ctx, stdErr, status)

	traceID, _ := ctx.Locals("traceId").(string)
	return ctx.Status(status).JSON(ErrorResponse{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		TraceID:   traceID,
	})
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := ErrCodeInternal
		if fiberErr.Code == fiber.StatusNotFound {
			code = ErrCodeResourceNotFound
		}
		return &StandardError{
			Code:      code,
			Message:   fiberErr.Message,
			Retryable: fiberErr.Code >= 500,
			Timestamp: time.Now().UTC(),
		}
	}

	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func (h *ErrorHandler) logError(ctx *fiber.Ctx, stdErr *StandardError, status int) {
	h.logger.Error("request failed", map[string]interface{}{
		"method":        ctx.Method(),
		"path":          ctx.Path(),
		"status":        status,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"traceId":       ctx.Locals("traceId"),
	})
}
