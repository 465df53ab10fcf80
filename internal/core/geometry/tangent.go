package geometry

import (
	"math/bits"

	"github.com/samirrijal/hulltrace/internal/core/domain"
)

const (
	right = 1.0
	left  = -1.0
)

// RightTangent returns the index of the vertex v of hull such that every
// vertex lies on or to the left of the ray p→v. hull must be a strictly
// convex polygon in counter-clockwise order and p must lie outside it.
// When several vertices are collinear with p the one farthest from p wins.
//
// The search is a binary search over the circular vertex sequence and runs
// in O(log m); it degrades to a linear scan only if floating point noise
// defeats the bisection. It returns -1 for an empty hull.
func RightTangent(p domain.Point, hull []domain.Point) int {
	return tangent(p, hull, right)
}

// LeftTangent is the mirror of RightTangent: every vertex lies on or to the
// right of the ray p→v.
func LeftTangent(p domain.Point, hull []domain.Point) int {
	return tangent(p, hull, left)
}

func tangent(p domain.Point, hull []domain.Point, side float64) int {
	m := len(hull)
	switch m {
	case 0:
		return -1
	case 1:
		return 0
	}

	at := func(i int) domain.Point { return hull[((i%m)+m)%m] }
	// above(i, j) > 0 when vertex j lies strictly on the tangent's inner
	// side of the ray p→i, i.e. i is the better candidate.
	above := func(i, j int) float64 { return side * Orientation(p, at(i), at(j)) }
	farther := func(i, j int) bool {
		return DistanceSquared(p, at(i)) > DistanceSquared(p, at(j))
	}

	if m == 2 {
		switch o := above(0, 1); {
		case o > 0:
			return 0
		case o < 0:
			return 1
		case farther(1, 0):
			return 1
		default:
			return 0
		}
	}

	settle := func(c int) int {
		for _, dir := range [2]int{1, -1} {
			for k := 0; k < m; k++ {
				j := c + dir
				if above(c, j) != 0 || !farther(j, c) {
					break
				}
				c = j
			}
		}
		return ((c % m) + m) % m
	}
	isMin := func(i int) bool {
		return above(i, i-1) >= 0 && above(i, i+1) >= 0
	}
	scan := func() int {
		best := -1
		for i := range hull {
			if hull[i] == p {
				continue
			}
			if best < 0 {
				best = i
				continue
			}
			if o := above(best, i); o < 0 || (o == 0 && farther(i, best)) {
				best = i
			}
		}
		return best
	}

	if hull[0] == p {
		return scan()
	}
	if isMin(0) {
		return settle(0)
	}

	a, b := 0, m
	limit := 2*bits.Len(uint(m)) + 4
	for iter := 0; iter < limit && b-a > 1; iter++ {
		c := (a + b) / 2
		if at(c) == p {
			return scan()
		}
		if isMin(c) {
			return settle(c)
		}

		upA := above(a, a+1) > 0
		upC := above(c, c+1) > 0
		if upA {
			// a starts a climb; the minimum follows the next descent.
			switch {
			case !upC:
				a = c
			case above(a, c) > 0:
				a = c
			default:
				b = c
			}
		} else {
			// a is descending toward the minimum.
			switch {
			case upC:
				b = c
			case above(a, c) < 0:
				a = c
			default:
				b = c
			}
		}
	}

	for _, i := range [2]int{a, b} {
		if at(i) != p && isMin(i) {
			return settle(i)
		}
	}
	return scan()
}
