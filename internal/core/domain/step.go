package domain

// StepType tags a Step with the kind of work it describes.
type StepType string

const (
	// Graham's Scan
	StepSorting   StepType = "sorting"
	StepLowerHull StepType = "lower_hull"
	StepUpperHull StepType = "upper_hull"

	// Jarvis March
	StepJarvis            StepType = "jarvis_step"
	StepTesting           StepType = "testing"
	StepCandidateSelected StepType = "candidate_selected"

	// Chan's Algorithm
	StepTryingM        StepType = "trying_m"
	StepMiniHull       StepType = "mini_hull"
	StepJarvisPhase    StepType = "jarvis_phase"
	StepConnectingEdge StepType = "connecting_edge"
	StepFailedM        StepType = "failed_m"
	StepFallback       StepType = "fallback"

	// Incremental Hull
	StepSeed       StepType = "seed"
	StepInside     StepType = "inside"
	StepTangents   StepType = "tangents"
	StepSpliceDone StepType = "splice_done"

	StepComplete StepType = "complete"
)

// Phase refines lower_hull / upper_hull steps.
type Phase string

const (
	PhaseComplete   Phase = "complete"
	PhaseProcessing Phase = "processing"
	PhaseTesting    Phase = "testing"
	PhasePopping    Phase = "popping"
	PhaseAccepted   Phase = "accepted"
	PhaseAdded      Phase = "added"
)

// Turn names the sign of an orientation test.
type Turn string

const (
	TurnCounterClockwise Turn = "counter_clockwise"
	TurnClockwise        Turn = "clockwise"
	TurnCollinear        Turn = "collinear"
)

// Step is one unit of algorithmic work. Only the fields relevant to Type are
// set; everything else is omitted from the encoded form. Slices held by a
// Step are never written to after the step is recorded.
type Step struct {
	Type        StepType `json:"type"`
	Phase       Phase    `json:"phase,omitempty"`
	Description string   `json:"description"`

	// Points under consideration.
	CurrentPoint  *Point  `json:"current_point,omitempty"`
	Candidate     *Point  `json:"candidate,omitempty"`
	TestingPoint  *Point  `json:"testing_point,omitempty"`
	NextPoint     *Point  `json:"next_point,omitempty"`
	PoppedPoint   *Point  `json:"popped_point,omitempty"`
	AddedPoint    *Point  `json:"added_point,omitempty"`
	RightTangent  *Point  `json:"right_tangent_vertex,omitempty"`
	LeftTangent   *Point  `json:"left_tangent_vertex,omitempty"`
	TestPoints    []Point `json:"test_points,omitempty"`
	PointIndex    *int    `json:"point_index,omitempty"`
	CandidateIdx  *int    `json:"candidate_index,omitempty"`
	TestingIdx    *int    `json:"testing_index,omitempty"`
	RightTangentI *int    `json:"right_tangent_idx,omitempty"`
	LeftTangentI  *int    `json:"left_tangent_idx,omitempty"`

	// Orientation results.
	Orientation *float64 `json:"orientation,omitempty"`
	Turn        Turn     `json:"turn,omitempty"`
	IsLeftTurn  *bool    `json:"is_left_turn,omitempty"`
	IsBetter    *bool    `json:"is_better,omitempty"`

	// Partial hull state.
	SortedPoints []Point   `json:"sorted_points,omitempty"`
	LowerHull    []Point   `json:"lower_hull,omitempty"`
	UpperHull    []Point   `json:"upper_hull,omitempty"`
	HullSoFar    []Point   `json:"hull_so_far,omitempty"`
	HullBefore   []Point   `json:"hull_before,omitempty"`
	HullAfter    []Point   `json:"hull_after,omitempty"`
	FinalHull    []Point   `json:"final_hull,omitempty"`
	GroupPoints  []Point   `json:"group_points,omitempty"`
	MiniHull     []Point   `json:"mini_hull,omitempty"`
	MiniHulls    [][]Point `json:"mini_hulls,omitempty"`

	// Iteration bookkeeping.
	Iteration  *int `json:"iteration,omitempty"`
	M          *int `json:"m,omitempty"`
	GroupIdx   *int `json:"group_idx,omitempty"`
	NumGroups  *int `json:"num_groups,omitempty"`
	StepIdx    *int `json:"step,omitempty"`
	MaxSteps   *int `json:"max_steps,omitempty"`
	HullIdx    *int `json:"connecting_hull_idx,omitempty"`
	HullsTried *int `json:"mini_hulls_checked,omitempty"`
}

// TurnOf classifies an orientation value.
func TurnOf(orient float64) Turn {
	switch {
	case orient > 0:
		return TurnCounterClockwise
	case orient < 0:
		return TurnClockwise
	default:
		return TurnCollinear
	}
}
