package algorithms

import (
	"fmt"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/geometry"
)

// Jarvis computes the hull by gift wrapping from the lowest-leftmost point.
//
// From each hull vertex every other point is tested; a candidate is replaced
// when the tested point lies to its right, or is collinear and farther away.
// The walk stops when it returns to the start. A walk longer than the number
// of distinct points returns ErrInvariantViolation.
func Jarvis(pts []domain.Point, tr *Trace) (domain.Polygon, error) {
	if len(pts) < 3 {
		return degenerate(pts, tr), nil
	}

	points := geometry.Unique(pts)
	n := len(points)
	start := geometry.Lowest(points)
	all := tr.snap(points)

	var hull domain.Polygon
	cur := start
	for iter := 1; ; iter++ {
		if len(hull) >= n {
			return nil, fmt.Errorf("%w: jarvis march visited %d vertices for %d points",
				domain.ErrInvariantViolation, len(hull)+1, n)
		}
		hull = append(hull, points[cur])
		soFar := tr.snap(hull)

		tr.Record(domain.Step{
			Type:         domain.StepJarvis,
			CurrentPoint: ref(points[cur]),
			PointIndex:   ref(cur),
			HullSoFar:    soFar,
			SortedPoints: all,
			Iteration:    ref(iter),
			Description:  fmt.Sprintf("Step %d: added %v to hull", iter, points[cur]),
		})

		if n == 1 {
			break
		}

		q := (cur + 1) % n
		for i := range points {
			if i == cur {
				continue
			}
			o := geometry.Orientation(points[cur], points[i], points[q])
			better := o > 0 ||
				(o == 0 && geometry.DistanceSquared(points[cur], points[i]) > geometry.DistanceSquared(points[cur], points[q]))

			desc := fmt.Sprintf("Testing %v vs current candidate %v", points[i], points[q])
			switch {
			case o > 0:
				desc += " - better (candidate lies to its left)"
			case better:
				desc += " - better (collinear but farther)"
			default:
				desc += " - worse"
			}
			tr.Record(domain.Step{
				Type:         domain.StepTesting,
				CurrentPoint: ref(points[cur]),
				Candidate:    ref(points[q]),
				CandidateIdx: ref(q),
				TestingPoint: ref(points[i]),
				TestingIdx:   ref(i),
				HullSoFar:    soFar,
				Orientation:  ref(o),
				Turn:         domain.TurnOf(o),
				IsBetter:     ref(better),
				Iteration:    ref(iter),
				Description:  desc,
			})

			if better {
				q = i
				tr.Record(domain.Step{
					Type:         domain.StepCandidateSelected,
					CurrentPoint: ref(points[cur]),
					Candidate:    ref(points[i]),
					CandidateIdx: ref(i),
					HullSoFar:    soFar,
					Iteration:    ref(iter),
					Description:  fmt.Sprintf("Selected %v as new best candidate", points[i]),
				})
			}
		}

		if points[q] == points[start] {
			break
		}
		cur = q
	}

	tr.Record(domain.Step{
		Type:         domain.StepComplete,
		FinalHull:    tr.snap(hull),
		SortedPoints: all,
		Description:  fmt.Sprintf("Returned to starting point - hull complete with %d vertices", len(hull)),
	})
	return hull, nil
}
