// Package geom provides the small set of geometric primitives shared by the
// layout engine: points, horizontal spans, and axis-aligned rectangles.
//
// Rectangles follow plot conventions: the y axis grows upward, so Y0 is the
// bottom edge and Y1 is the top edge. Canvas backends that draw with a
// y-down device space flip at their own boundary.
package geom

// Point is a 2D position.
type Point struct {
	X, Y float64
}

// Span is a horizontal interval [Start, End].
type Span struct {
	Start, End float64
}

// Width returns the extent of the span.
func (s Span) Width() float64 { return s.End - s.Start }

// Mid returns the midpoint of the span.
func (s Span) Mid() float64 { return (s.Start + s.End) / 2 }

// Rect is an axis-aligned rectangle with X0 ≤ X1 and Y0 ≤ Y1.
// Y0 is the bottom edge, Y1 the top edge.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// CenterX returns the horizontal center of the rectangle.
func (r Rect) CenterX() float64 { return (r.X0 + r.X1) / 2 }

// CenterY returns the vertical center of the rectangle.
func (r Rect) CenterY() float64 { return (r.Y0 + r.Y1) / 2 }

// Overlaps reports whether r and o share interior area. Rectangles that only
// touch along an edge or at a corner do not overlap: comparisons are strict,
// so side-by-side labels with a shared border are considered disjoint.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// Translate returns a copy of r shifted by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// Expand returns a copy of r grown by pad on every side.
// A negative pad shrinks the rectangle.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X0: r.X0 - pad, Y0: r.Y0 - pad, X1: r.X1 + pad, Y1: r.Y1 + pad}
}

// UnionAll returns the union of all given rectangles.
// The zero Rect is returned for an empty input.
func UnionAll(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	u := rects[0]
	for _, r := range rects[1:] {
		u = u.Union(r)
	}
	return u
}
