package text

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

// Annotation is a block of wrapped text on a canvas: the lines produced by
// one or more Draw calls, moved and measured as a unit. Labels placed by the
// distributor, captions, legends and plain annotations are all Annotations
// underneath.
type Annotation struct {
	c     canvas.Canvas
	lines []Line
}

// NewAnnotation returns an empty annotation on the given canvas.
func NewAnnotation(c canvas.Canvas) *Annotation {
	return &Annotation{c: c}
}

// Draw wraps the tokens into the span anchored at y and adds the resulting
// lines to the annotation. Options are validated before anything is
// rendered; a failed Draw leaves the canvas untouched.
//
// Padding is resolved first. LPad and RPad shrink the span by their fraction
// of its width and TPad moves the anchor down by its fraction of the viewport
// height. A positive Pad then insets the result by a fixed amount on each
// side, and the anchor moves one Pad away from the text in the growth
// direction, so top-anchored blocks start lower and bottom-anchored blocks
// end higher. Centered blocks stay centered.
func (a *Annotation) Draw(tokens []Token, span geom.Span, y float64, opts DrawOptions) ([]Line, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.LPad > 0 || opts.RPad > 0 {
		w := span.Width()
		span = geom.Span{Start: span.Start + opts.LPad*w, End: span.End - opts.RPad*w}
	}
	if opts.TPad > 0 {
		y -= opts.TPad * a.c.Viewport(opts.Space).Height()
	}
	if opts.Pad > 0 {
		if 2*opts.Pad >= span.Width() {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"padding %v consumes the whole span [%v, %v]", opts.Pad, span.Start, span.End)
		}
		span = geom.Span{Start: span.Start + opts.Pad, End: span.End - opts.Pad}
		switch opts.VA {
		case VATop:
			y -= opts.Pad
		case VABottom:
			y += opts.Pad
		}
	}

	retired, final, err := Wrap(a.c, tokens, span, y, opts)
	if err != nil {
		return nil, err
	}
	if final.Empty() {
		return nil, nil
	}

	lines := append(retired, final)
	a.lines = append(a.lines, lines...)
	return lines, nil
}

// DrawString splits a plain string on whitespace and draws it.
func (a *Annotation) DrawString(s string, span geom.Span, y float64, opts DrawOptions) ([]Line, error) {
	return a.Draw(Split(s), span, y, opts)
}

// Lines returns the annotation's lines in reading order.
func (a *Annotation) Lines() []Line {
	return a.lines
}

// Text joins the annotation's lines with single spaces, reconstructing the
// token stream in reading order.
func (a *Annotation) Text() string {
	var s string
	for i, line := range a.lines {
		if i > 0 {
			s += " "
		}
		s += line.Text()
	}
	return s
}

// BoundingBox is the union of all token boxes, the box the annotation
// virtually occupies. Empty annotations report the zero rect.
func (a *Annotation) BoundingBox() geom.Rect {
	if len(a.lines) == 0 {
		return geom.Rect{}
	}
	bb := a.lines[0].BoundingBox()
	for _, line := range a.lines[1:] {
		bb = bb.Union(line.BoundingBox())
	}
	return bb
}

// SetPosition moves the whole block so the anchor point named by ha and va
// sits at p: ha picks the left edge, center or right edge of the bounding
// box, va the top edge, center or bottom edge. Relative token positions are
// preserved. Moving an empty annotation is a no-op.
func (a *Annotation) SetPosition(p geom.Point, ha Align, va VAlign) error {
	if ha != AlignLeft && ha != AlignCenter && ha != AlignRight {
		return errors.New(errors.ErrCodeInvalidArgument, "unsupported horizontal anchor %q", ha)
	}
	if !ValidVAligns[va] {
		return errors.New(errors.ErrCodeInvalidArgument, "unsupported vertical anchor %q", va)
	}
	if len(a.lines) == 0 {
		return nil
	}

	bb := a.BoundingBox()
	var dx, dy float64
	switch ha {
	case AlignLeft:
		dx = p.X - bb.X0
	case AlignCenter:
		dx = p.X - bb.CenterX()
	case AlignRight:
		dx = p.X - bb.X1
	}
	switch va {
	case VATop:
		dy = p.Y - bb.Y1
	case VACenter:
		dy = p.Y - bb.CenterY()
	case VABottom:
		dy = p.Y - bb.Y0
	}
	a.translate(dx, dy)
	return nil
}

// SetTopLeft moves the block so its bounding box's top-left corner sits at
// p. This is the interface the label distributor repositions blocks through.
func (a *Annotation) SetTopLeft(p geom.Point) {
	if len(a.lines) == 0 {
		return
	}
	bb := a.BoundingBox()
	a.translate(p.X-bb.X0, p.Y-bb.Y1)
}

// Remove deletes every drawn token from the canvas and empties the
// annotation.
func (a *Annotation) Remove() {
	for _, line := range a.lines {
		for _, p := range line.Tokens {
			a.c.Remove(p.Handle)
		}
	}
	a.lines = nil
}

func (a *Annotation) translate(dx, dy float64) {
	for _, line := range a.lines {
		for _, p := range line.Tokens {
			bb := p.Box()
			p.moveTo(geom.Point{X: bb.X0 + dx, Y: bb.Y1 + dy})
		}
	}
}
