package handler

import (
	"github.com/gofiber/fiber/v2"

	"lawdocs/internal/http/middleware"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	Data      any          `json:"data,omitempty"`
	Errors    []fieldError `json:"errors,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
}

// fieldError is one field-level validation failure.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeData writes a success envelope.
func writeData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(response{
		Success:   true,
		Data:      data,
		RequestID: requestIDFromCtx(c),
	})
}

// writeMessage writes a success envelope that carries only a message.
func writeMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(response{
		Success:   true,
		Message:   message,
		RequestID: requestIDFromCtx(c),
	})
}

// writeError writes a failure envelope without leaking internal errors.
// message must be a safe, human-readable string (no internal details).
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(response{
		Success:   false,
		Message:   message,
		RequestID: requestIDFromCtx(c),
	})
}

// writeValidationErrors writes a failure envelope with field-level messages.
func writeValidationErrors(c *fiber.Ctx, errs []fieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(response{
		Success:   false,
		Message:   "validation failed",
		Errors:    errs,
		RequestID: requestIDFromCtx(c),
	})
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal server error"
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			switch status {
			case fiber.StatusBadRequest:
				message = "bad request"
			case fiber.StatusUnauthorized, fiber.StatusForbidden:
				message = e.Message
			case fiber.StatusNotFound:
				message = "resource not found"
			case fiber.StatusMethodNotAllowed:
				message = "method not allowed"
			case fiber.StatusRequestEntityTooLarge:
				message = "request body too large"
			default:
				message = "internal server error"
			}
		}
		return writeError(c, status, message)
	}
}
