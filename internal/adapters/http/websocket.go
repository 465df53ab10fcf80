package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/hulltrace/internal/adapters/nats"
	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/usecases"
	"github.com/samirrijal/hulltrace/internal/pkg/metrics"
)

const (
	pingInterval = 30 * time.Second
	maxStepDelay = time.Second
)

// wsConn serialises writes; gorilla-style connections allow one writer.
type wsConn struct {
	*websocket.Conn
	mu sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteMessage(websocket.TextMessage, data)
}

// keepAlive pings until done is closed or a write fails.
func (c *wsConn) keepAlive(done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			err := c.WriteMessage(websocket.PingMessage, nil)
			c.mu.Unlock()
			if err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// traceRequest asks for one run to be replayed step by step.
type traceRequest struct {
	Algorithm domain.Algorithm    `json:"algorithm"`
	Points    []domain.PointInput `json:"points"`
	// DelayMS paces the stream for animation, capped at one second.
	DelayMS int `json:"delay_ms"`
}

// traceFrame is one message of a trace stream.
type traceFrame struct {
	Type  string         `json:"type"` // "step" | "result" | "error"
	Index int            `json:"index,omitempty"`
	Total int            `json:"total,omitempty"`
	Step  *domain.Step   `json:"step,omitempty"`
	Hull  domain.Polygon `json:"hull,omitempty"`
	Stats *domain.Stats  `json:"stats,omitempty"`
	Error string         `json:"error,omitempty"`
}

// TraceWebSocketHandler runs hulls on request and streams their steps.
// Clients send {"algorithm":"chan","points":[[0,0],[1,0],[0,1]],"delay_ms":50}
// and receive one "step" frame per step followed by a "result" frame.
func TraceWebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(raw *websocket.Conn) {
		c := &wsConn{Conn: raw}
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		rid, _ := raw.Locals("requestid").(string)
		log := slog.Default().With("request_id", rid, "remote", raw.RemoteAddr().String())
		log.Info("ws trace client connected")

		done := make(chan struct{})
		defer close(done)
		go c.keepAlive(done)

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var req traceRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				_ = c.writeJSON(traceFrame{Type: "error", Error: "invalid JSON: " + err.Error()})
				continue
			}
			if err := streamTrace(c, deps, req, rid); err != nil {
				break
			}
		}

		log.Info("ws trace client disconnected")
	}
}

// streamTrace answers one traceRequest. Only write failures are returned;
// run failures are reported to the client.
func streamTrace(c *wsConn, deps *Dependencies, req traceRequest, rid string) error {
	ctx, cancel := context.WithTimeout(context.Background(), deps.timeout())
	defer cancel()

	res, err := deps.Hull.Run(ctx, req.Algorithm, req.Points, usecases.RunOptions{RequestID: rid})
	if err != nil {
		return c.writeJSON(traceFrame{Type: "error", Error: err.Error()})
	}

	delay := min(time.Duration(max(req.DelayMS, 0))*time.Millisecond, maxStepDelay)
	for i := range res.Steps {
		if err := c.writeJSON(traceFrame{Type: "step", Index: i, Total: len(res.Steps), Step: &res.Steps[i]}); err != nil {
			return err
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	return c.writeJSON(traceFrame{Type: "result", Total: len(res.Steps), Hull: res.Hull, Stats: &res.Stats})
}

// wsMessage is sent from client to subscribe/unsubscribe to run events.
type wsMessage struct {
	Action    string `json:"action"`    // "subscribe" | "unsubscribe"
	Algorithm string `json:"algorithm"` // algorithm filter (optional, "" = all)
}

// runFilter tracks the NATS subscriptions of one /ws/runs client. The
// wildcard subject and per-algorithm subjects are mutually exclusive, so an
// event is never delivered twice.
type runFilter struct {
	subscribe func(subject string) (unsubscribe func() error, err error)
	subs      map[string]func() error
}

func newRunFilter(subscribe func(subject string) (func() error, error)) *runFilter {
	return &runFilter{subscribe: subscribe, subs: make(map[string]func() error)}
}

// add subscribes to subject. Subscribing to one algorithm while following
// all of them narrows the stream; subscribing to all drops the per-algorithm
// subscriptions. It reports false when subject was already active.
func (f *runFilter) add(subject string) (bool, error) {
	if _, ok := f.subs[subject]; ok {
		return false, nil
	}
	unsub, err := f.subscribe(subject)
	if err != nil {
		return false, err
	}
	for s := range f.subs {
		if subject == natsadapter.RunSubjects || s == natsadapter.RunSubjects {
			f.drop(s)
		}
	}
	f.subs[subject] = unsub
	return true, nil
}

// remove unsubscribes from subject and reports whether it was active.
func (f *runFilter) remove(subject string) bool {
	if _, ok := f.subs[subject]; !ok {
		return false
	}
	f.drop(subject)
	return true
}

func (f *runFilter) drop(subject string) {
	_ = f.subs[subject]()
	delete(f.subs, subject)
}

func (f *runFilter) active() []string {
	out := make([]string, 0, len(f.subs))
	for s := range f.subs {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func (f *runFilter) close() {
	for s := range f.subs {
		f.drop(s)
	}
}

// RunsWebSocketHandler relays run-completed events from NATS to clients.
// Every client starts subscribed to all algorithms. Subscribing to one
// algorithm ({"action":"subscribe","algorithm":"chan"}) replaces the
// all-algorithms stream; further subscribes add algorithms, and a subscribe
// without an algorithm returns to the full stream.
func RunsWebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(raw *websocket.Conn) {
		c := &wsConn{Conn: raw}
		defer c.Close()

		if nc == nil {
			_ = c.writeJSON(map[string]string{"error": "run events unavailable"})
			return
		}

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := raw.RemoteAddr().String()
		slog.Info("ws runs client connected", "remote", remoteAddr)

		relay := func(msg *nats.Msg) {
			_ = c.writeJSON(json.RawMessage(msg.Data))
		}
		filter := newRunFilter(func(subject string) (func() error, error) {
			sub, err := nc.Subscribe(subject, relay)
			if err != nil {
				return nil, err
			}
			return sub.Unsubscribe, nil
		})
		defer filter.close()

		if _, err := filter.add(natsadapter.RunSubjects); err != nil {
			slog.Error("ws default subscribe failed", "error", err)
			return
		}

		done := make(chan struct{})
		defer close(done)
		go c.keepAlive(done)

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = c.writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			subject := natsadapter.RunSubjects
			if m.Algorithm != "" {
				alg, err := domain.ParseAlgorithm(m.Algorithm)
				if err != nil {
					_ = c.writeJSON(map[string]string{"error": err.Error()})
					continue
				}
				subject = natsadapter.RunSubject(alg)
			}

			switch m.Action {
			case "subscribe":
				added, err := filter.add(subject)
				switch {
				case err != nil:
					_ = c.writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
				case !added:
					_ = c.writeJSON(map[string]any{"status": "already subscribed", "subject": subject, "subjects": filter.active()})
				default:
					_ = c.writeJSON(map[string]any{"status": "subscribed", "subject": subject, "subjects": filter.active()})
				}

			case "unsubscribe":
				if filter.remove(subject) {
					_ = c.writeJSON(map[string]any{"status": "unsubscribed", "subject": subject, "subjects": filter.active()})
				} else {
					_ = c.writeJSON(map[string]string{"error": "not subscribed to " + subject})
				}

			default:
				_ = c.writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		slog.Info("ws runs client disconnected", "remote", remoteAddr)
	}
}
