package domain

import (
	"fmt"
	"strings"
)

// Algorithm names one of the supported hull algorithms.
type Algorithm string

const (
	Graham      Algorithm = "graham"
	Jarvis      Algorithm = "jarvis"
	Chan        Algorithm = "chan"
	Incremental Algorithm = "incremental"
)

// Algorithms lists every supported algorithm in a stable order.
var Algorithms = []Algorithm{Graham, Jarvis, Chan, Incremental}

// ParseAlgorithm resolves a caller-supplied name. Matching is case-insensitive.
func ParseAlgorithm(name string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	switch a {
	case Graham, Jarvis, Chan, Incremental:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Title is the human-readable algorithm name.
func (a Algorithm) Title() string {
	switch a {
	case Graham:
		return "Graham's Scan"
	case Jarvis:
		return "Jarvis March"
	case Chan:
		return "Chan's Algorithm"
	case Incremental:
		return "Incremental Hull"
	}
	return string(a)
}

// Complexity is the asymptotic running time, n input points and h hull vertices.
func (a Algorithm) Complexity() string {
	switch a {
	case Graham:
		return "O(n log n)"
	case Jarvis:
		return "O(nh)"
	case Chan:
		return "O(n log h)"
	case Incremental:
		return "O(n log h)"
	}
	return ""
}

// Stats summarises one run.
type Stats struct {
	HullSize        int     `json:"hull_size"`
	StepCount       int     `json:"step_count"`
	ExecutionTimeMS float64 `json:"execution_time_ms"`

	// Chan's Algorithm only.
	IterationsAttempted *int `json:"iterations_attempted,omitempty"`
	SuccessfulM         *int `json:"successful_m_value,omitempty"`
}

// Result is the outcome of running one algorithm over one point set.
type Result struct {
	Algorithm Algorithm `json:"algorithm"`
	Hull      Polygon   `json:"hull"`
	Steps     []Step    `json:"steps"`
	Stats     Stats     `json:"stats"`
}
