package algorithms

import (
	"fmt"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/geometry"
)

// maxChanRounds bounds the doubling schedule. 2^(2^5) exceeds any input
// this package can hold in memory, so a sixth round means the wrap failed
// even with a single group.
const maxChanRounds = 5

// ChanStats reports how Chan's Algorithm converged.
type ChanStats struct {
	// Iterations is the number of values of m that were tried.
	Iterations int
	// M is the group size that produced the hull, or 0 when the run fell
	// back to Graham's Scan.
	M int
}

// Chan computes the hull with Chan's output-sensitive algorithm.
//
// For t = 1, 2, … the points are split into contiguous groups of
// m = 2^(2^t) (capped at n), each group is reduced to a mini-hull with
// Graham's Scan, and a Jarvis walk of at most m steps is run over the
// mini-hulls. From the current vertex the candidate in its own mini-hull is
// the next vertex of that mini-hull; every other mini-hull contributes its
// right tangent. The round succeeds when the walk closes.
//
// If the round with m = n still fails the hull is computed with Graham's
// Scan instead.
func Chan(pts []domain.Point, tr *Trace) (domain.Polygon, ChanStats, error) {
	return chanHull(pts, tr, wrapMiniHulls)
}

// wrapFunc is the bounded Jarvis walk of one round.
type wrapFunc func(points []domain.Point, minis []domain.Polygon, m int, tr *Trace) (domain.Polygon, error)

func chanHull(pts []domain.Point, tr *Trace, wrap wrapFunc) (domain.Polygon, ChanStats, error) {
	if len(pts) < 3 {
		return degenerate(pts, tr), ChanStats{}, nil
	}

	points := geometry.Unique(pts)
	n := len(points)
	if n < 3 {
		return Graham(points, tr), ChanStats{}, nil
	}

	for t := 1; ; t++ {
		if t > maxChanRounds {
			return nil, ChanStats{}, fmt.Errorf("%w: chan's algorithm exceeded %d rounds for %d points",
				domain.ErrInvariantViolation, maxChanRounds, n)
		}

		m := groupSize(t, n)
		tr.Record(domain.Step{
			Type:        domain.StepTryingM,
			M:           ref(m),
			Iteration:   ref(t),
			Description: fmt.Sprintf("Trying m = %d", m),
		})

		minis := miniHulls(points, m, tr)
		hull, err := wrap(points, minis, m, tr)
		if err != nil {
			return nil, ChanStats{}, err
		}
		if hull != nil {
			tr.Record(domain.Step{
				Type:        domain.StepComplete,
				FinalHull:   tr.snap(hull),
				M:           ref(m),
				Iteration:   ref(t),
				Description: fmt.Sprintf("Chan's Algorithm complete with m = %d - hull has %d vertices", m, len(hull)),
			})
			return hull, ChanStats{Iterations: t, M: m}, nil
		}

		tr.Record(domain.Step{
			Type:        domain.StepFailedM,
			M:           ref(m),
			Iteration:   ref(t),
			Description: fmt.Sprintf("Failed with m = %d, trying larger value", m),
		})

		if m == n {
			tr.Record(domain.Step{
				Type:        domain.StepFallback,
				M:           ref(m),
				Iteration:   ref(t),
				Description: "Wrap did not close with a single group - falling back to Graham's Scan",
			})
			hull := Graham(points, nil)
			tr.Record(domain.Step{
				Type:        domain.StepComplete,
				FinalHull:   tr.snap(hull),
				Description: fmt.Sprintf("Graham's Scan fallback complete - hull has %d vertices", len(hull)),
			})
			return hull, ChanStats{Iterations: t}, nil
		}
	}
}

// groupSize returns min(2^(2^t), n).
func groupSize(t, n int) int {
	exp := 1 << t
	if exp >= 62 {
		return n
	}
	if m := 1 << exp; m < n {
		return m
	}
	return n
}

// miniHulls splits points into contiguous groups of m and returns the hull
// of each group.
func miniHulls(points []domain.Point, m int, tr *Trace) []domain.Polygon {
	groups := (len(points) + m - 1) / m
	minis := make([]domain.Polygon, 0, groups)
	for gi := 0; gi < groups; gi++ {
		group := frozen(points[gi*m : min((gi+1)*m, len(points))])
		mini := Graham(group, nil)
		minis = append(minis, mini)

		s := domain.Step{
			Type:        domain.StepMiniHull,
			GroupIdx:    ref(gi),
			NumGroups:   ref(groups),
			Description: fmt.Sprintf("Computed mini-hull %d/%d with %d points from %d input points", gi+1, groups, len(mini), len(group)),
		}
		if tr.Keeping() {
			s.GroupPoints = group
			s.MiniHull = frozen(mini)
		}
		tr.Record(s)
	}
	return minis
}

// vertex addresses one vertex of one mini-hull.
type vertex struct {
	group, idx int
}

// wrapMiniHulls runs at most m Jarvis steps over the mini-hulls. It returns
// nil when the walk does not close in time.
func wrapMiniHulls(points []domain.Point, minis []domain.Polygon, m int, tr *Trace) (domain.Polygon, error) {
	startPt := points[geometry.Lowest(points)]
	cur, ok := locate(minis, startPt)
	if !ok {
		return nil, fmt.Errorf("%w: start point %v missing from its mini-hull", domain.ErrInvariantViolation, startPt)
	}

	var all [][]domain.Point
	if tr.Keeping() {
		all = make([][]domain.Point, len(minis))
		for i := range minis {
			all[i] = frozen(minis[i])
		}
	}
	checked := 0
	for _, mh := range minis {
		if len(mh) > 0 {
			checked++
		}
	}

	var hull domain.Polygon
	for step := 0; step < m; step++ {
		curPt := minis[cur.group][cur.idx]
		hull = append(hull, curPt)
		soFar := tr.snap(hull)
		tr.Record(domain.Step{
			Type:         domain.StepJarvisPhase,
			CurrentPoint: ref(curPt),
			HullSoFar:    soFar,
			MiniHulls:    all,
			StepIdx:      ref(step),
			MaxSteps:     ref(m),
			Description:  fmt.Sprintf("Jarvis phase step %d/%d - connecting mini-hulls", step+1, m),
		})

		next, found := nextVertex(minis, cur)
		if !found {
			return nil, fmt.Errorf("%w: no successor for %v", domain.ErrInvariantViolation, curPt)
		}
		nextPt := minis[next.group][next.idx]
		tr.Record(domain.Step{
			Type:         domain.StepConnectingEdge,
			CurrentPoint: ref(curPt),
			NextPoint:    ref(nextPt),
			HullSoFar:    soFar,
			MiniHulls:    all,
			HullIdx:      ref(next.group),
			HullsTried:   ref(checked),
			Description:  fmt.Sprintf("Connecting %v to %v from mini-hull %d", curPt, nextPt, next.group+1),
		})

		if nextPt == startPt {
			return hull, nil
		}
		cur = next
	}
	return nil, nil
}

// nextVertex picks the hull successor of cur among all mini-hulls: the point
// that leaves every other candidate on its left, ties going to the farther
// point.
func nextVertex(minis []domain.Polygon, cur vertex) (vertex, bool) {
	curPt := minis[cur.group][cur.idx]

	var best vertex
	found := false
	consider := func(c vertex) {
		cand := minis[c.group][c.idx]
		if cand == curPt {
			return
		}
		if !found {
			best, found = c, true
			return
		}
		bestPt := minis[best.group][best.idx]
		o := geometry.Orientation(curPt, cand, bestPt)
		if o > 0 || (o == 0 && geometry.DistanceSquared(curPt, cand) > geometry.DistanceSquared(curPt, bestPt)) {
			best = c
		}
	}

	if own := minis[cur.group]; len(own) > 1 {
		consider(vertex{cur.group, (cur.idx + 1) % len(own)})
	}
	for g, mh := range minis {
		if g == cur.group || len(mh) == 0 {
			continue
		}
		consider(vertex{g, geometry.RightTangent(curPt, mh)})
	}
	return best, found
}

func locate(minis []domain.Polygon, p domain.Point) (vertex, bool) {
	for g, mh := range minis {
		for i, v := range mh {
			if v == p {
				return vertex{g, i}, true
			}
		}
	}
	return vertex{}, false
}
