package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/hulltrace/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Success   bool   `json:"success"`
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, unknown_algorithm, invariant_violation, timeout, internal_error
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errFromService maps a HullService error onto a response.
func errFromService(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnknownAlgorithm):
		return newError(c, fiber.StatusBadRequest, "unknown_algorithm", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return errBadRequest(c, err.Error())
	case errors.Is(err, domain.ErrInvariantViolation):
		LoggerFromCtx(c.UserContext()).Error("algorithm invariant violated", "error", err)
		return newError(c, fiber.StatusInternalServerError, "invariant_violation", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, fiber.StatusServiceUnavailable, "timeout", err.Error())
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads this.
		return newError(c, fiber.StatusServiceUnavailable, "canceled", err.Error())
	default:
		return errInternal(c, err.Error())
	}
}
