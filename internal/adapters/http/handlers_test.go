package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/hulltrace/internal/adapters/http"
	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/usecases"
)

// ---- Mock publisher ----

type mockPublisher struct {
	publishFn func(ctx context.Context, ev *domain.RunEvent) error
}

func (m *mockPublisher) PublishRun(ctx context.Context, ev *domain.RunEvent) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, ev)
	}
	return nil
}

// ---- Test helpers ----

const squareBody = `{"points":[{"x":0,"y":0},{"x":10,"y":0},{"x":10,"y":10},{"x":0,"y":10},{"x":5,"y":5}]}`

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(opts ...func(*handler.Dependencies)) *handler.Dependencies {
	d := &handler.Dependencies{
		Hull:    usecases.NewHullService(),
		Version: "1.0.0",
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	return setupApp(makeDeps())
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

type hullResponse struct {
	Success    bool           `json:"success"`
	Algorithm  string         `json:"algorithm"`
	Hull       []domain.Point `json:"hull"`
	Steps      []domain.Step  `json:"steps"`
	Stats      domain.Stats   `json:"stats"`
	Pagination *struct {
		Offset int `json:"offset"`
		Limit  int `json:"limit"`
		Total  int `json:"total"`
	} `json:"pagination"`
}

type apiError struct {
	Success   bool   `json:"success"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// ---- Hull handler tests ----

func TestHull_Success(t *testing.T) {
	app := setupApp(makeDeps())

	for _, alg := range domain.Algorithms {
		resp := postJSON(t, app, "/v1/hull/"+string(alg), squareBody)
		if resp.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d", alg, resp.StatusCode)
		}

		var result hullResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatal(err)
		}
		if !result.Success || result.Algorithm != string(alg) {
			t.Errorf("%s: unexpected envelope success=%v algorithm=%s", alg, result.Success, result.Algorithm)
		}
		want := []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
		if len(result.Hull) != len(want) {
			t.Fatalf("%s: expected %v, got %v", alg, want, result.Hull)
		}
		for i := range want {
			if result.Hull[i] != want[i] {
				t.Errorf("%s: vertex %d: expected %v, got %v", alg, i, want[i], result.Hull[i])
			}
		}
		if result.Stats.StepCount != len(result.Steps) || len(result.Steps) == 0 {
			t.Errorf("%s: step_count %d but %d steps", alg, result.Stats.StepCount, len(result.Steps))
		}
		if last := result.Steps[len(result.Steps)-1]; last.Type != domain.StepComplete {
			t.Errorf("%s: expected final step complete, got %s", alg, last.Type)
		}
	}
}

func TestHull_ArrayPoints(t *testing.T) {
	app := setupApp(makeDeps())

	resp := postJSON(t, app, "/v1/hull/graham", `{"points":[[0,0],[4,0],[0,4],[1,1]]}`)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}
	var result hullResponse
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Stats.HullSize != 3 {
		t.Errorf("expected hull_size 3, got %d", result.Stats.HullSize)
	}
}

func TestHull_ChanStats(t *testing.T) {
	app := setupApp(makeDeps())

	resp := postJSON(t, app, "/v1/hull/chan", squareBody)
	var result hullResponse
	json.NewDecoder(resp.Body).Decode(&result)
	if result.Stats.IterationsAttempted == nil || result.Stats.SuccessfulM == nil {
		t.Fatalf("expected chan stats, got %+v", result.Stats)
	}

	resp = postJSON(t, app, "/v1/hull/graham", squareBody)
	var graham struct {
		Stats map[string]any `json:"stats"`
	}
	json.NewDecoder(resp.Body).Decode(&graham)
	if _, ok := graham.Stats["successful_m_value"]; ok {
		t.Error("graham must not report successful_m_value")
	}
}

func TestHull_DegenerateInput(t *testing.T) {
	app := setupApp(makeDeps())

	tests := map[string]int{
		`{"points":[]}`:                         0,
		`{"points":[[1,2]]}`:                    1,
		`{"points":[[1,2],[3,4]]}`:              2,
		`{"points":[[0,0],[1,1],[2,2],[3,3]]}`: 2,
	}
	for body, size := range tests {
		resp := postJSON(t, app, "/v1/hull/jarvis", body)
		if resp.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d", body, resp.StatusCode)
		}
		var result hullResponse
		json.NewDecoder(resp.Body).Decode(&result)
		if result.Stats.HullSize != size || len(result.Hull) != size {
			t.Errorf("%s: expected %d hull points, got %v", body, size, result.Hull)
		}
	}
}

func TestHull_BadRequest(t *testing.T) {
	app := setupApp(makeDeps())

	tests := []struct {
		name string
		body string
	}{
		{"not json", `points`},
		{"missing points", `{}`},
		{"points not a list", `{"points":{"x":1,"y":2}}`},
		{"missing coordinate", `{"points":[{"x":1}]}`},
		{"string coordinate", `{"points":[{"x":"a","y":1}]}`},
		{"short array", `{"points":[[1]]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/v1/hull/graham", tt.body)
			if resp.StatusCode != 400 {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			var e apiError
			json.NewDecoder(resp.Body).Decode(&e)
			if e.Code != "bad_request" || e.Success {
				t.Errorf("expected bad_request, got %+v", e)
			}
		})
	}
}

func TestHull_TooManyPoints(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Hull = usecases.NewHullService(usecases.WithMaxPoints(3))
	})
	app := setupApp(deps)

	resp := postJSON(t, app, "/v1/hull/graham", squareBody)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHull_UnknownAlgorithm(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/hull/quickhull", strings.NewReader(squareBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var e apiError
	json.NewDecoder(resp.Body).Decode(&e)
	if e.Code != "unknown_algorithm" {
		t.Errorf("expected unknown_algorithm, got %s", e.Code)
	}
	if e.RequestID != "req-42" {
		t.Errorf("expected request_id req-42, got %q", e.RequestID)
	}
}

func TestHull_UnknownAlgorithmBeforeBody(t *testing.T) {
	app := setupApp(makeDeps())

	for _, body := range []string{`{}`, `points`, `{"points":[{"x":1}]}`} {
		resp := postJSON(t, app, "/v1/hull/quickhull", body)
		if resp.StatusCode != 400 {
			t.Fatalf("%s: expected 400, got %d", body, resp.StatusCode)
		}
		var e apiError
		json.NewDecoder(resp.Body).Decode(&e)
		if e.Code != "unknown_algorithm" {
			t.Errorf("%s: expected unknown_algorithm, got %s", body, e.Code)
		}
	}
}

func TestHull_RecordStepsFalse(t *testing.T) {
	app := setupApp(makeDeps())

	body := strings.Replace(squareBody, `{"points"`, `{"record_steps":false,"points"`, 1)
	resp := postJSON(t, app, "/v1/hull/incremental", body)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result hullResponse
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Steps) != 0 {
		t.Errorf("expected no steps, got %d", len(result.Steps))
	}
	if result.Stats.StepCount == 0 {
		t.Error("expected step_count to be reported")
	}
}

func TestHull_StepPagination(t *testing.T) {
	app := setupApp(makeDeps())

	full := postJSON(t, app, "/v1/hull/graham", squareBody)
	var all hullResponse
	json.NewDecoder(full.Body).Decode(&all)

	resp := postJSON(t, app, "/v1/hull/graham?offset=2&limit=3", squareBody)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var paged hullResponse
	json.NewDecoder(resp.Body).Decode(&paged)

	if paged.Pagination == nil {
		t.Fatal("expected pagination block")
	}
	if paged.Pagination.Total != len(all.Steps) || paged.Pagination.Offset != 2 || paged.Pagination.Limit != 3 {
		t.Errorf("unexpected pagination %+v (total steps %d)", *paged.Pagination, len(all.Steps))
	}
	if len(paged.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(paged.Steps))
	}
	if paged.Steps[0].Description != all.Steps[2].Description {
		t.Errorf("page starts at %q, expected %q", paged.Steps[0].Description, all.Steps[2].Description)
	}
	if paged.Stats.StepCount != all.Stats.StepCount {
		t.Errorf("step_count must describe the full run, got %d", paged.Stats.StepCount)
	}

	link := resp.Header.Get("Link")
	for _, rel := range []string{`rel="first"`, `rel="prev"`, `rel="next"`, `rel="last"`} {
		if !strings.Contains(link, rel) {
			t.Errorf("expected %s in Link header, got %s", rel, link)
		}
	}
}

func TestHull_Protobuf(t *testing.T) {
	app := setupApp(makeDeps())

	req := httptest.NewRequest("POST", "/v1/hull/graham", strings.NewReader(squareBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", handler.MIMEProtobuf)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != handler.MIMEProtobuf {
		t.Fatalf("expected %s, got %s", handler.MIMEProtobuf, ct)
	}

	m, err := handler.DecodeStruct(readBody(t, resp.Body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m["success"] != true || m["algorithm"] != "graham" {
		t.Errorf("unexpected envelope %v / %v", m["success"], m["algorithm"])
	}
	stats, _ := m["stats"].(map[string]any)
	if stats["hull_size"] != float64(4) {
		t.Errorf("expected hull_size 4, got %v", stats["hull_size"])
	}
}

func TestHull_Timeout(t *testing.T) {
	deps := makeDeps(func(d *handler.Dependencies) {
		d.RequestTimeout = time.Nanosecond
	})
	app := setupApp(deps)

	resp := postJSON(t, app, "/v1/hull/graham", squareBody)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	var e apiError
	json.NewDecoder(resp.Body).Decode(&e)
	if e.Code != "timeout" {
		t.Errorf("expected timeout, got %s", e.Code)
	}
}

func TestHull_PublishesWithRequestID(t *testing.T) {
	got := make(chan *domain.RunEvent, 1)
	deps := makeDeps(func(d *handler.Dependencies) {
		d.Hull = usecases.NewHullService(usecases.WithPublisher(&mockPublisher{
			publishFn: func(ctx context.Context, ev *domain.RunEvent) error {
				got <- ev
				return nil
			},
		}))
	})
	app := setupApp(deps)

	req := httptest.NewRequest("POST", "/v1/hull/chan", strings.NewReader(squareBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "trace-me")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	select {
	case ev := <-got:
		if ev.RequestID != "trace-me" || ev.Algorithm != domain.Chan || ev.InputSize != 5 {
			t.Errorf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("expected a run event")
	}
}

// ---- Legacy routes ----

func TestLegacyRoutes_Deprecated(t *testing.T) {
	app := setupApp(makeDeps())

	for _, alg := range domain.Algorithms {
		resp := postJSON(t, app, "/"+string(alg), squareBody)
		if resp.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d", alg, resp.StatusCode)
		}
		if resp.Header.Get("Deprecation") != "true" {
			t.Errorf("%s: expected Deprecation header", alg)
		}
		if resp.Header.Get("Sunset") == "" {
			t.Errorf("%s: expected Sunset header", alg)
		}
		want := `</v1/hull/` + string(alg) + `>; rel="successor-version"`
		if link := resp.Header.Get("Link"); link != want {
			t.Errorf("%s: expected Link %s, got %s", alg, want, link)
		}
		var result hullResponse
		json.NewDecoder(resp.Body).Decode(&result)
		if result.Algorithm != string(alg) || result.Stats.HullSize != 4 {
			t.Errorf("%s: unexpected result %s / %d", alg, result.Algorithm, result.Stats.HullSize)
		}
	}

	resp := postJSON(t, app, "/v1/hull/graham", squareBody)
	if resp.Header.Get("Deprecation") != "" {
		t.Error("versioned route must not be deprecated")
	}
}

func TestAPIInfo(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/api-info", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var info struct {
		Version    string            `json:"version"`
		Algorithms []string          `json:"algorithms"`
		Endpoints  map[string]string `json:"endpoints"`
	}
	json.NewDecoder(resp.Body).Decode(&info)
	if info.Version != "1.0.0" || len(info.Algorithms) != 4 {
		t.Errorf("unexpected info %+v", info)
	}
	if _, ok := info.Endpoints["/v1/compare"]; !ok {
		t.Errorf("expected /v1/compare endpoint, got %v", info.Endpoints)
	}
}

// ---- Compare ----

func TestCompare_Success(t *testing.T) {
	app := setupApp(makeDeps())

	resp := postJSON(t, app, "/v1/compare", squareBody)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Success   bool `json:"success"`
		InputSize int  `json:"input_size"`
		Agree     bool `json:"agree"`
		Results   map[string]struct {
			Hull      []domain.Point `json:"hull"`
			HullSize  int            `json:"hull_size"`
			StepCount int            `json:"step_count"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Success || !result.Agree || result.InputSize != 5 {
		t.Errorf("unexpected comparison success=%v agree=%v input_size=%d", result.Success, result.Agree, result.InputSize)
	}
	if len(result.Results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(result.Results))
	}
	for alg, r := range result.Results {
		if r.HullSize != 4 || len(r.Hull) != 4 || r.StepCount == 0 {
			t.Errorf("%s: unexpected entry %+v", alg, r)
		}
	}
}

func TestCompare_Subset(t *testing.T) {
	app := setupApp(makeDeps())

	body := `{"algorithms":["graham","chan"],"points":[[0,0],[3,0],[0,3]]}`
	resp := postJSON(t, app, "/compare", body)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Results map[string]json.RawMessage `json:"results"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(result.Results))
	}

	resp = postJSON(t, app, "/v1/compare", `{"algorithms":["bogus"],"points":[]}`)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

// ---- Algorithms, health, caching ----

func TestAlgorithms_ETag(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/algorithms", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Algorithms []domain.AlgorithmInfo `json:"algorithms"`
		MaxPoints  int                    `json:"max_points"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if len(result.Algorithms) != 4 || result.MaxPoints != usecases.DefaultMaxPoints {
		t.Errorf("unexpected algorithms response %+v", result)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("expected long-lived Cache-Control, got %q", cc)
	}

	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("expected weak ETag, got %q", etag)
	}

	req := httptest.NewRequest("GET", "/v1/algorithms", nil)
	req.Header.Set("If-None-Match", `"other", `+etag)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

func TestHull_NoStore(t *testing.T) {
	app := setupApp(makeDeps())

	resp := postJSON(t, app, "/v1/hull/graham", squareBody)
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store, got %q", cc)
	}
	if resp.Header.Get("ETag") != "" {
		t.Error("computations must not carry an ETag")
	}
}

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/health", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "healthy" {
		t.Errorf("expected healthy, got %q", body["status"])
	}
}

func TestReady_NoOptionalDeps(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Checks["nats"] != "not configured" || body.Checks["cache"] != "not configured" {
		t.Errorf("unexpected checks %v", body.Checks)
	}
}

func TestReady_NoService(t *testing.T) {
	app := setupApp(&handler.Dependencies{})

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/health", nil), -1)
	if v := resp.Header.Get("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	app := setupApp(makeDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/ws/trace", nil), -1)
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("expected 426, got %d", resp.StatusCode)
	}
}

// ---- GraphQL ----

func graphqlQuery(t *testing.T, app *fiber.App, query string) map[string]any {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"query": query})
	resp := postJSON(t, app, "/graphql", string(body))
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestGraphQL_Hull(t *testing.T) {
	app := setupApp(makeDeps())

	out := graphqlQuery(t, app, `{
		hull(algorithm: "chan", points: [{x:0,y:0},{x:10,y:0},{x:10,y:10},{x:0,y:10},{x:5,y:5}], record_steps: true) {
			algorithm
			hull { x y }
			stats { hull_size step_count successful_m_value }
			steps
		}
	}`)
	if errs, ok := out["errors"]; ok {
		t.Fatalf("unexpected errors: %v", errs)
	}

	hull := out["data"].(map[string]any)["hull"].(map[string]any)
	if hull["algorithm"] != "chan" {
		t.Errorf("expected chan, got %v", hull["algorithm"])
	}
	if pts := hull["hull"].([]any); len(pts) != 4 {
		t.Errorf("expected 4 vertices, got %d", len(pts))
	}
	stats := hull["stats"].(map[string]any)
	if stats["hull_size"] != float64(4) || stats["successful_m_value"] == nil {
		t.Errorf("unexpected stats %v", stats)
	}
	if steps := hull["steps"].([]any); float64(len(steps)) != stats["step_count"] {
		t.Errorf("expected %v steps, got %d", stats["step_count"], len(steps))
	}
}

func TestGraphQL_CompareAndAlgorithms(t *testing.T) {
	app := setupApp(makeDeps())

	out := graphqlQuery(t, app, `{
		compare(points: [{x:0,y:0},{x:4,y:0},{x:0,y:4},{x:1,y:1}], algorithms: ["jarvis","incremental"]) {
			input_size agree results { algorithm stats { hull_size } }
		}
		algorithms { name complexity step_types }
	}`)
	if errs, ok := out["errors"]; ok {
		t.Fatalf("unexpected errors: %v", errs)
	}
	data := out["data"].(map[string]any)

	cmp := data["compare"].(map[string]any)
	if cmp["agree"] != true || cmp["input_size"] != float64(4) {
		t.Errorf("unexpected comparison %v", cmp)
	}
	results := cmp["results"].([]any)
	if len(results) != 2 || results[0].(map[string]any)["algorithm"] != "jarvis" {
		t.Errorf("expected jarvis then incremental, got %v", results)
	}

	if algs := data["algorithms"].([]any); len(algs) != 4 {
		t.Errorf("expected 4 algorithms, got %d", len(algs))
	}
}

func TestGraphQL_UnknownAlgorithm(t *testing.T) {
	app := setupApp(makeDeps())

	out := graphqlQuery(t, app, `{ hull(algorithm: "quickhull", points: []) { algorithm } }`)
	errs, ok := out["errors"].([]any)
	if !ok || len(errs) == 0 {
		t.Fatal("expected an error")
	}
	if msg := errs[0].(map[string]any)["message"].(string); !strings.Contains(msg, "unknown algorithm") {
		t.Errorf("unexpected message %q", msg)
	}
}

// ---- Middleware ----

func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(handler.AccessLogMiddleware())
	app.Post("/v1/hull/:algorithm", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	req := httptest.NewRequest("POST", "/v1/hull/graham", strings.NewReader("{}"))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp.Body); !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", body)
	}
}

func TestRequestIDLogMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "abc")
		return c.Next()
	})
	app.Use(handler.RequestIDLogMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(handler.RequestIDFromCtx(c.UserContext()))
	})

	resp, _ := app.Test(httptest.NewRequest("GET", "/", nil))
	if body := string(readBody(t, resp.Body)); body != "abc" {
		t.Errorf("expected abc, got %q", body)
	}
}
