package algorithms

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/geometry"
)

// Graham computes the hull with the monotone chain variant of Graham's Scan.
//
// Points are sorted by x then y. The left-to-right pass keeps only strict
// left turns and so produces the lower chain; the right-to-left pass
// produces the upper chain. Collinear boundary points are dropped. The hull
// is counter-clockwise and starts at the lowest-leftmost point.
func Graham(pts []domain.Point, tr *Trace) domain.Polygon {
	if len(pts) < 3 {
		return degenerate(pts, tr)
	}

	sorted := geometry.Unique(pts)
	slices.SortFunc(sorted, comparePoints)
	shared := tr.snap(sorted)
	tr.Record(domain.Step{
		Type:         domain.StepSorting,
		Phase:        domain.PhaseComplete,
		SortedPoints: shared,
		Description:  fmt.Sprintf("Sorted %d points by x-coordinate", len(sorted)),
	})

	if len(sorted) < 3 {
		hull := domain.Polygon(sorted).Clone()
		tr.Record(domain.Step{
			Type:         domain.StepComplete,
			FinalHull:    tr.snap(hull),
			SortedPoints: shared,
			Description:  fmt.Sprintf("Only %d distinct points - hull is degenerate", len(hull)),
		})
		return hull
	}

	g := &monotone{tr: tr, sorted: shared}
	n := len(sorted)

	lower := g.chain(domain.StepLowerHull, sorted, func(k int) int { return k })
	g.lower = tr.snap(lower)
	upper := g.chain(domain.StepUpperHull, sorted, func(k int) int { return n - 1 - k })

	// Each chain ends where the other begins.
	hull := make(domain.Polygon, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)

	tr.Record(domain.Step{
		Type:         domain.StepComplete,
		LowerHull:    g.lower,
		UpperHull:    tr.snap(upper),
		FinalHull:    tr.snap(hull),
		SortedPoints: shared,
		Description:  fmt.Sprintf("Graham's Scan complete - hull has %d vertices", len(hull)),
	})
	return hull
}

// monotone carries the snapshots shared by every step of one scan.
type monotone struct {
	tr     *Trace
	sorted []domain.Point
	lower  []domain.Point // set once the lower chain is finished
}

func (g *monotone) chain(typ domain.StepType, sorted []domain.Point, index func(k int) int) []domain.Point {
	name := "lower"
	if typ == domain.StepUpperHull {
		name = "upper"
	}

	var stack []domain.Point
	step := func(phase domain.Phase, i int, p domain.Point) domain.Step {
		s := domain.Step{
			Type:         typ,
			Phase:        phase,
			CurrentPoint: ref(p),
			PointIndex:   ref(i),
			SortedPoints: g.sorted,
		}
		if typ == domain.StepLowerHull {
			s.LowerHull = g.tr.snap(stack)
		} else {
			s.LowerHull = g.lower
			s.UpperHull = g.tr.snap(stack)
		}
		return s
	}

	for k := range sorted {
		i := index(k)
		p := sorted[i]

		s := step(domain.PhaseProcessing, i, p)
		s.Description = fmt.Sprintf("Processing point %v for %s hull", p, name)
		g.tr.Record(s)

		for len(stack) >= 2 {
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			o := geometry.Orientation(a, b, p)

			s := step(domain.PhaseTesting, i, p)
			s.TestPoints = []domain.Point{a, b, p}
			s.Orientation = ref(o)
			s.IsLeftTurn = ref(o > 0)
			s.Description = fmt.Sprintf("Testing turn: %v → %v → %v (orientation: %.3f)", a, b, p, o)
			g.tr.Record(s)

			if o > 0 {
				s := step(domain.PhaseAccepted, i, p)
				s.Orientation = ref(o)
				s.Description = "Left turn confirmed - keeping current hull structure"
				g.tr.Record(s)
				break
			}

			s = step(domain.PhasePopping, i, p)
			s.PoppedPoint = ref(b)
			s.Orientation = ref(o)
			s.Description = fmt.Sprintf("Popping %v - not a left turn (orientation: %.3f)", b, o)
			g.tr.Record(s)
			stack = stack[:len(stack)-1]
		}

		stack = append(stack, p)
		s = step(domain.PhaseAdded, i, p)
		s.Description = fmt.Sprintf("Added %v to %s hull - now has %d points", p, name, len(stack))
		g.tr.Record(s)
	}
	return stack
}

func comparePoints(a, b domain.Point) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}

// degenerate handles inputs of fewer than three points, which are returned
// unchanged.
func degenerate(pts []domain.Point, tr *Trace) domain.Polygon {
	hull := domain.Polygon(pts).Clone()
	tr.Record(domain.Step{
		Type:        domain.StepComplete,
		FinalHull:   tr.snap(hull),
		Description: fmt.Sprintf("%d points - returned unchanged as a degenerate hull", len(hull)),
	})
	return hull
}
