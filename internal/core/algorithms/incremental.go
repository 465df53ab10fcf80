package algorithms

import (
	"fmt"

	"github.com/samirrijal/hulltrace/internal/core/domain"
	"github.com/samirrijal/hulltrace/internal/core/geometry"
)

// Incremental builds the hull one point at a time in input order.
//
// Until three non-collinear points have been seen the hull is rebuilt from
// the seed points. After that each point is either inside the hull (boundary
// included) and skipped, or outside, in which case both tangents are found
// by binary search and the point replaces the chain of vertices it can see.
// A point beyond the end of an edge replaces the edge's nearer vertex, so
// the hull stays strictly convex. The result is rotated to start at the
// lowest-leftmost vertex.
func Incremental(pts []domain.Point, tr *Trace) domain.Polygon {
	if len(pts) < 3 {
		return degenerate(pts, tr)
	}

	var hull domain.Polygon
	for idx, p := range pts {
		if len(hull) < 3 {
			before := tr.snap(hull)
			hull = seed(append(hull.Clone(), p))
			tr.Record(domain.Step{
				Type:        domain.StepSeed,
				AddedPoint:  ref(p),
				PointIndex:  ref(idx),
				HullBefore:  before,
				HullAfter:   tr.snap(hull),
				Description: fmt.Sprintf("Added %v to initial hull - now has %d points", p, len(hull)),
			})
			continue
		}

		if geometry.PointInConvexPolygon(p, hull) {
			tr.Record(domain.Step{
				Type:        domain.StepInside,
				AddedPoint:  ref(p),
				PointIndex:  ref(idx),
				HullBefore:  tr.snap(hull),
				Description: fmt.Sprintf("Point %v is inside current hull - no change needed", p),
			})
			continue
		}

		before := tr.snap(hull)
		r := geometry.RightTangent(p, hull)
		l := geometry.LeftTangent(p, hull)
		tr.Record(domain.Step{
			Type:          domain.StepTangents,
			AddedPoint:    ref(p),
			PointIndex:    ref(idx),
			HullBefore:    before,
			RightTangent:  ref(hull[r]),
			LeftTangent:   ref(hull[l]),
			RightTangentI: ref(r),
			LeftTangentI:  ref(l),
			Description:   fmt.Sprintf("Found tangents from %v at %v and %v", p, hull[r], hull[l]),
		})

		hull = splice(hull, p, r, l)
		tr.Record(domain.Step{
			Type:        domain.StepSpliceDone,
			AddedPoint:  ref(p),
			PointIndex:  ref(idx),
			HullBefore:  before,
			HullAfter:   tr.snap(hull),
			Description: fmt.Sprintf("Spliced %v into hull - now has %d vertices", p, len(hull)),
		})
	}

	hull = rotate(hull, geometry.Lowest(hull))
	tr.Record(domain.Step{
		Type:        domain.StepComplete,
		FinalHull:   tr.snap(hull),
		Description: fmt.Sprintf("Incremental hull complete - %d vertices", len(hull)),
	})
	return hull
}

// seed rebuilds a hull of at most three vertices from scratch.
func seed(pts []domain.Point) domain.Polygon {
	return Graham(geometry.Unique(pts), nil)
}

// splice returns the hull P, H[r], H[r+1], …, H[l]: the vertices between the
// two tangent points that p cannot see are kept and the rest are dropped.
func splice(hull domain.Polygon, p domain.Point, r, l int) domain.Polygon {
	m := len(hull)
	out := make(domain.Polygon, 0, m+1)
	out = append(out, p)
	for i := r; ; i = (i + 1) % m {
		out = append(out, hull[i])
		if i == l || len(out) > m {
			break
		}
	}
	return out
}

// rotate returns hull starting at vertex k.
func rotate(hull domain.Polygon, k int) domain.Polygon {
	if k <= 0 {
		return hull
	}
	out := make(domain.Polygon, 0, len(hull))
	out = append(out, hull[k:]...)
	return append(out, hull[:k]...)
}
