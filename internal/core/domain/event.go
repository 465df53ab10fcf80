package domain

import "time"

// RunEvent announces a finished algorithm run. It carries the summary only;
// the hull and steps stay with the caller.
type RunEvent struct {
	RequestID   string    `json:"request_id,omitempty"`
	Algorithm   Algorithm `json:"algorithm"`
	InputSize   int       `json:"input_size"`
	Stats       Stats     `json:"stats"`
	Cached      bool      `json:"cached"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewRunEvent summarises res.
func NewRunEvent(res *Result, inputSize int, cached bool) *RunEvent {
	return &RunEvent{
		Algorithm:   res.Algorithm,
		InputSize:   inputSize,
		Stats:       res.Stats,
		Cached:      cached,
		CompletedAt: time.Now().UTC(),
	}
}
