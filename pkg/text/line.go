package text

import (
	"strings"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/geom"
)

// Placed is a token that has been rendered on a canvas. It pairs the input
// token with the handle of the drawn item and answers geometry queries
// through the canvas, so its box always reflects the current position.
type Placed struct {
	Token

	// Handle references the drawn item on the canvas.
	Handle canvas.Handle

	c     canvas.Canvas
	space canvas.Space
}

// Box reports the box the token currently occupies.
func (p *Placed) Box() geom.Rect {
	return p.c.Measure(p.Handle, p.space)
}

// moveTo moves the token so its top-left corner sits at pt.
func (p *Placed) moveTo(pt geom.Point) {
	p.c.SetPosition(p.Handle, pt, p.space)
}

// Line is one horizontal slot of rendered tokens, in reading order.
type Line struct {
	Tokens []*Placed
}

// Empty reports whether the line holds no tokens.
func (l Line) Empty() bool { return len(l.Tokens) == 0 }

// BoundingBox is the union of the line's token boxes. Empty lines report the
// zero rect.
func (l Line) BoundingBox() geom.Rect {
	if l.Empty() {
		return geom.Rect{}
	}
	bb := l.Tokens[0].Box()
	for _, p := range l.Tokens[1:] {
		bb = bb.Union(p.Box())
	}
	return bb
}

// Text joins the line's token texts with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Tokens))
	for i, p := range l.Tokens {
		parts[i] = p.Token.Text
	}
	return strings.Join(parts, " ")
}
