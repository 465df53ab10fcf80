package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Point is a 2D coordinate. Equality is exact on both coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Less orders points by x, then by y.
func (p Point) Less(o Point) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	return p.Y < o.Y
}

// Polygon is an implicitly closed vertex sequence in counter-clockwise order.
type Polygon []Point

// Clone returns a copy that shares no memory with pg. A nil polygon clones
// to an empty, non-nil one so that it encodes as [] rather than null.
func (pg Polygon) Clone() Polygon {
	out := make(Polygon, len(pg))
	copy(out, pg)
	return out
}

// PointInput is a point as supplied by a caller, before validation.
// It accepts both {"x": 1, "y": 2} and [1, 2].
type PointInput struct {
	X *float64
	Y *float64
}

func (p *PointInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty point")
	}

	switch b[0] {
	case '{':
		var obj struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		p.X, p.Y = obj.X, obj.Y
		return nil
	case '[':
		var arr []float64
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		if len(arr) != 2 {
			return fmt.Errorf("point array must have 2 elements, got %d", len(arr))
		}
		p.X, p.Y = &arr[0], &arr[1]
		return nil
	default:
		return fmt.Errorf("point must be an object or a 2-element array, got %s", string(b))
	}
}

func (p PointInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
	}{p.X, p.Y})
}

// InputOf converts validated points back into caller-side input form.
func InputOf(pts []Point) []PointInput {
	out := make([]PointInput, len(pts))
	for i := range pts {
		x, y := pts[i].X, pts[i].Y
		out[i] = PointInput{X: &x, Y: &y}
	}
	return out
}
