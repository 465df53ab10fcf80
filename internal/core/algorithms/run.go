package algorithms

import (
	"fmt"
	"slices"
	"time"

	"github.com/samirrijal/hulltrace/internal/core/domain"
)

// Options tunes a single Run.
type Options struct {
	// DiscardSteps keeps the step count but drops the steps themselves.
	DiscardSteps bool
}

type runFunc func(pts []domain.Point, tr *Trace) (domain.Polygon, domain.Stats, error)

var registry = map[domain.Algorithm]runFunc{
	domain.Graham: func(pts []domain.Point, tr *Trace) (domain.Polygon, domain.Stats, error) {
		return Graham(pts, tr), domain.Stats{}, nil
	},
	domain.Jarvis: func(pts []domain.Point, tr *Trace) (domain.Polygon, domain.Stats, error) {
		hull, err := Jarvis(pts, tr)
		return hull, domain.Stats{}, err
	},
	domain.Incremental: func(pts []domain.Point, tr *Trace) (domain.Polygon, domain.Stats, error) {
		return Incremental(pts, tr), domain.Stats{}, nil
	},
	domain.Chan: func(pts []domain.Point, tr *Trace) (domain.Polygon, domain.Stats, error) {
		hull, cs, err := Chan(pts, tr)
		if err != nil {
			return nil, domain.Stats{}, err
		}
		st := domain.Stats{}
		if len(pts) >= 3 {
			st.IterationsAttempted = ref(cs.Iterations)
			if cs.M > 0 {
				st.SuccessfulM = ref(cs.M)
			}
		}
		return hull, st, nil
	},
}

// Run executes alg over a private copy of pts and returns the hull, the
// trace and the run statistics. It never returns a partial result.
func Run(alg domain.Algorithm, pts []domain.Point, opts Options) (*domain.Result, error) {
	fn, ok := registry[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithm, alg)
	}

	tr := NewTrace(!opts.DiscardSteps)
	start := time.Now()
	hull, stats, err := fn(slices.Clone(pts), tr)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", alg.Title(), err)
	}

	if hull == nil {
		hull = domain.Polygon{}
	}
	stats.HullSize = len(hull)
	stats.StepCount = tr.Len()
	stats.ExecutionTimeMS = float64(elapsed.Microseconds()) / 1000

	return &domain.Result{
		Algorithm: alg,
		Hull:      hull,
		Steps:     tr.Steps(),
		Stats:     stats,
	}, nil
}
