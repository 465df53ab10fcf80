package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRun(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues("graham", "ok"))
	ObserveRun("graham", "ok", 3*time.Millisecond, 4, 30)
	if got := testutil.ToFloat64(RunsTotal.WithLabelValues("graham", "ok")); got != before+1 {
		t.Errorf("runs_total = %v, want %v", got, before+1)
	}

	invalid := testutil.ToFloat64(RunsTotal.WithLabelValues("jarvis", "invalid"))
	ObserveRun("jarvis", "invalid", 0, 0, 0)
	if got := testutil.ToFloat64(RunsTotal.WithLabelValues("jarvis", "invalid")); got != invalid+1 {
		t.Errorf("invalid runs = %v, want %v", got, invalid+1)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/metrics", Handler())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	if _, err := app.Test(httptest.NewRequest("GET", "/ping", nil), -1); err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "hulltrace_http_requests_total") {
		t.Error("expected hulltrace_http_requests_total in /metrics output")
	}
}
