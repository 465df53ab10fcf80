// Package algorithms implements the four convex hull algorithms. Every
// algorithm records its decisions into a Trace so that a run can be replayed
// step by step.
package algorithms

import "github.com/samirrijal/hulltrace/internal/core/domain"

// Trace is the ordered step log of a single run. It is owned by exactly one
// run and is not safe for concurrent use.
//
// A nil *Trace is valid and discards everything. A Trace created with
// keep=false counts steps without storing them, and skips the hull snapshots
// that would otherwise be cloned for each step.
type Trace struct {
	steps []domain.Step
	count int
	keep  bool
}

// NewTrace returns an empty trace. When keep is false only the step count is
// tracked.
func NewTrace(keep bool) *Trace {
	return &Trace{keep: keep}
}

// Record appends s. The trace takes ownership of every slice in s.
func (t *Trace) Record(s domain.Step) {
	if t == nil {
		return
	}
	t.count++
	if t.keep {
		t.steps = append(t.steps, s)
	}
}

// Len is the number of steps recorded so far, stored or not.
func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return t.count
}

// Steps returns the recorded steps. The result is never nil.
func (t *Trace) Steps() []domain.Step {
	if t == nil || t.steps == nil {
		return []domain.Step{}
	}
	return t.steps
}

// Keeping reports whether steps are being stored.
func (t *Trace) Keeping() bool {
	return t != nil && t.keep
}

// snap copies pts for inclusion in a step, or returns nil when the trace
// does not store steps.
func (t *Trace) snap(pts []domain.Point) []domain.Point {
	if !t.Keeping() {
		return nil
	}
	out := make([]domain.Point, len(pts))
	copy(out, pts)
	return out
}

// frozen returns pts with its capacity clipped so that a later append by the
// owner can never write into memory a step still references. Use it only for
// append-only slices.
func frozen(pts []domain.Point) []domain.Point {
	return pts[:len(pts):len(pts)]
}

func ref[T any](v T) *T {
	return &v
}
