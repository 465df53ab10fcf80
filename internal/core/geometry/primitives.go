// Package geometry holds the predicates every hull algorithm is built on.
// All functions are pure and safe for concurrent use.
package geometry

import (
	"math"

	"github.com/samirrijal/hulltrace/internal/core/domain"
)

// CollinearEpsilon is the relative tolerance of Orientation: a cross
// product smaller than CollinearEpsilon·|b−a|·|c−a| is treated as exactly
// zero. Scaling by the edge lengths keeps the test independent of the
// magnitude of the coordinates.
const CollinearEpsilon = 1e-12

// Orientation returns the cross product (b−a)×(c−a), twice the signed area
// of triangle a→b→c. Positive means c lies to the left of a→b
// (counter-clockwise turn), negative to the right, zero collinear.
func Orientation(a, b, c domain.Point) float64 {
	abx, aby := b.X-a.X, b.Y-a.Y
	acx, acy := c.X-a.X, c.Y-a.Y
	v := abx*acy - aby*acx
	if math.Abs(v) <= CollinearEpsilon*math.Hypot(abx, aby)*math.Hypot(acx, acy) {
		return 0
	}
	return v
}

// DistanceSquared returns |a−b|².
func DistanceSquared(a, b domain.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// OnSegment reports whether p lies on the closed segment a–b.
func OnSegment(p, a, b domain.Point) bool {
	if Orientation(a, b, p) != 0 {
		return false
	}
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// PointInConvexPolygon reports whether p lies inside or on the boundary of
// the counter-clockwise convex polygon hull. Degenerate polygons of one or
// two vertices are treated as a point and a segment.
func PointInConvexPolygon(p domain.Point, hull []domain.Point) bool {
	switch n := len(hull); n {
	case 0:
		return false
	case 1:
		return p == hull[0]
	case 2:
		return OnSegment(p, hull[0], hull[1])
	default:
		for i := 0; i < n; i++ {
			if Orientation(hull[i], hull[(i+1)%n], p) < 0 {
				return false
			}
		}
		return true
	}
}

// IsConvex reports whether every consecutive triple of hull turns left or
// is collinear.
func IsConvex(hull []domain.Point) bool {
	n := len(hull)
	if n < 3 {
		return true
	}
	for i := 0; i < n; i++ {
		if Orientation(hull[i], hull[(i+1)%n], hull[(i+2)%n]) < 0 {
			return false
		}
	}
	return true
}

// Lowest returns the index of the point with the smallest x, breaking ties
// by the smallest y. It returns -1 for an empty slice.
func Lowest(pts []domain.Point) int {
	if len(pts) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Less(pts[best]) {
			best = i
		}
	}
	return best
}

// Unique returns pts with repeated coordinates removed, keeping the first
// occurrence of each point in its original position.
func Unique(pts []domain.Point) []domain.Point {
	seen := make(map[domain.Point]struct{}, len(pts))
	out := make([]domain.Point, 0, len(pts))
	for _, p := range pts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// SameVertices reports whether a and b contain the same set of points,
// ignoring order, rotation and repetition.
func SameVertices(a, b []domain.Point) bool {
	as := make(map[domain.Point]struct{}, len(a))
	for _, p := range a {
		as[p] = struct{}{}
	}
	bs := make(map[domain.Point]struct{}, len(b))
	for _, p := range b {
		if _, ok := as[p]; !ok {
			return false
		}
		bs[p] = struct{}{}
	}
	return len(as) == len(bs)
}
