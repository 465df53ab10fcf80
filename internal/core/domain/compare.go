package domain

// ComparisonEntry is one algorithm's outcome inside a Comparison. Steps are
// never carried, only counted.
type ComparisonEntry struct {
	Hull Polygon `json:"hull"`
	Stats
}

// Comparison runs several algorithms over the same points.
type Comparison struct {
	InputSize int                           `json:"input_size"`
	Results   map[Algorithm]ComparisonEntry `json:"results"`

	// Agree reports whether every algorithm produced the same vertex set.
	Agree bool `json:"agree"`
}

// AlgorithmInfo describes a supported algorithm.
type AlgorithmInfo struct {
	Name       Algorithm  `json:"name"`
	Title      string     `json:"title"`
	Complexity string     `json:"complexity"`
	StepTypes  []StepType `json:"step_types"`
}

// StepTypesOf lists the step types alg can emit, in the order they first
// appear in a typical run.
func StepTypesOf(alg Algorithm) []StepType {
	switch alg {
	case Graham:
		return []StepType{StepSorting, StepLowerHull, StepUpperHull, StepComplete}
	case Jarvis:
		return []StepType{StepJarvis, StepTesting, StepCandidateSelected, StepComplete}
	case Chan:
		return []StepType{StepTryingM, StepMiniHull, StepJarvisPhase, StepConnectingEdge, StepFailedM, StepFallback, StepComplete}
	case Incremental:
		return []StepType{StepSeed, StepInside, StepTangents, StepSpliceDone, StepComplete}
	}
	return nil
}

// Describe returns the AlgorithmInfo for alg.
func Describe(alg Algorithm) AlgorithmInfo {
	return AlgorithmInfo{
		Name:       alg,
		Title:      alg.Title(),
		Complexity: alg.Complexity(),
		StepTypes:  StepTypesOf(alg),
	}
}
