package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/hulltrace/internal/core/domain"
)

func TestErrFromService(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown algorithm", fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, "quickhull"), 400, "unknown_algorithm"},
		{"invalid input", fmt.Errorf("%w: point 0: missing y", domain.ErrInvalidInput), 400, "bad_request"},
		{"invariant violation", fmt.Errorf("Jarvis March: %w: visited 9 vertices for 8 points", domain.ErrInvariantViolation), 500, "invariant_violation"},
		{"deadline", fmt.Errorf("Chan's Algorithm: %w", context.DeadlineExceeded), 503, "timeout"},
		{"canceled", context.Canceled, 503, "canceled"},
		{"other", errors.New("boom"), 500, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{DisableStartupMessage: true})
			app.Get("/", func(c *fiber.Ctx) error {
				c.Locals("requestid", "req-7")
				return errFromService(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.StatusCode)
			}
			var e APIError
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if e.Code != tt.code || e.Status != tt.status || e.Success {
				t.Errorf("unexpected error body %+v", e)
			}
			if e.Message != tt.err.Error() {
				t.Errorf("message = %q, want %q", e.Message, tt.err.Error())
			}
			if e.RequestID != "req-7" {
				t.Errorf("request_id = %q, want req-7", e.RequestID)
			}
		})
	}
}
