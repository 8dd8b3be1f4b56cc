package text

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

// Wrap lays styled tokens into lines over the horizontal span, growing from
// the anchor y in the direction the vertical alignment dictates. Each token
// is rendered through the canvas and measured; a token whose right edge
// leaves the span starts a new line, unless it is the first token of its line
// or a trailing punctuation mark.
//
// Retired lines are aligned as they close; the final line is aligned with the
// terminal variant of the requested mode, so justified blocks end on a plain
// line. The final line is returned separately from the retired ones: the
// caller owns both and decides whether to treat them as one block.
//
// Validation happens before anything is rendered. With zero tokens, Wrap
// renders nothing and returns an empty final line.
func Wrap(c canvas.Canvas, tokens []Token, span geom.Span, y float64, opts DrawOptions) (retired []Line, last Line, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Line{}, err
	}
	if span.Width() <= 0 {
		return nil, Line{}, errors.New(errors.ErrCodeInvalidArgument,
			"span must have positive width, got [%v, %v]", span.Start, span.End)
	}
	if len(tokens) == 0 {
		return nil, Line{}, nil
	}

	w := &wrapper{
		c:      c,
		opts:   opts,
		span:   span,
		anchor: y,
		offset: span.Start,
	}
	w.slot = LineSpacing(c, opts.Space, opts.Style, opts.WordSpacing) * opts.LineHeight

	for _, tok := range tokens {
		w.place(tok)
	}
	alignLine(w.open, span, opts.Align.terminal())

	if opts.VA == VACenter {
		w.center()
	}
	return w.retired, w.open, nil
}

// wrapper carries the fill state of one Wrap call.
type wrapper struct {
	c      canvas.Canvas
	opts   DrawOptions
	span   geom.Span
	anchor float64
	slot   float64 // line slot height: probe height x line-height factor

	offset  float64
	retired []Line
	open    Line
}

// openTop is the top edge of the open line's slot. Growing downward, the
// open line sits below the retired ones; growing upward, it is pinned to the
// anchor and retired lines are pushed out of its way instead.
func (w *wrapper) openTop() float64 {
	if w.opts.VA == VABottom {
		return w.anchor + w.slot
	}
	return w.anchor - float64(len(w.retired))*w.slot
}

// place renders one token at the running offset, wrapping onto a new line
// when it overflows the span.
func (w *wrapper) place(tok Token) {
	st := Resolve(w.opts.Style, tok).With("pad", w.opts.WordSpacing/2)
	h := w.c.RenderText(tok.Text, geom.Point{X: w.offset, Y: w.openTop()}, st, w.opts.Space)
	p := &Placed{Token: tok, Handle: h, c: w.c, space: w.opts.Space}
	bb := p.Box()

	// A token that overflows starts a new line. The first token of a line
	// stays put however wide it is, and trailing punctuation sticks with
	// the word before it.
	if bb.X1 > w.span.End && !w.open.Empty() && !IsPunctuation(tok.Text) {
		w.retire()
		p.moveTo(geom.Point{X: w.span.Start, Y: w.openTop()})
		bb = p.Box()
	}

	if w.opts.VA == VABottom {
		// Pin the token's bottom edge to the open line's anchor.
		p.moveTo(geom.Point{X: bb.X0, Y: w.anchor + bb.Height()})
		bb = p.Box()
	}

	w.open.Tokens = append(w.open.Tokens, p)
	w.offset = bb.X1 + w.opts.WordSpacing
}

// retire closes the open line: it is aligned with the non-terminal variant
// and joins the retired list. Growing upward, every closed line moves one
// slot further from the anchor so the next line can take its place; reading
// order is preserved either way.
func (w *wrapper) retire() {
	alignLine(w.open, w.span, w.opts.Align.nonTerminal())
	w.retired = append(w.retired, w.open)

	if w.opts.VA == VABottom {
		for _, line := range w.retired {
			raise(line, w.slot)
		}
	}

	w.open = Line{}
	w.offset = w.span.Start
}

// center shifts the whole block so its bounding box is centered on the
// anchor. The block is filled top-anchored first; only this final shift
// distinguishes centered blocks.
func (w *wrapper) center() {
	bb := w.open.BoundingBox()
	for _, line := range w.retired {
		bb = bb.Union(line.BoundingBox())
	}
	dy := w.anchor - bb.CenterY()
	raise(w.open, dy)
	for _, line := range w.retired {
		raise(line, dy)
	}
}

// raise moves every token in the line up by dy.
func raise(line Line, dy float64) {
	if dy == 0 {
		return
	}
	for _, p := range line.Tokens {
		bb := p.Box()
		p.moveTo(geom.Point{X: bb.X0, Y: bb.Y1 + dy})
	}
}
