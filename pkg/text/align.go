package text

import "github.com/matzehuels/notate/pkg/geom"

// Align is the horizontal alignment of lines within their span.
type Align string

const (
	// AlignLeft keeps tokens at their flow positions, starting at the span
	// start.
	AlignLeft Align = "left"

	// AlignCenter centers each line within the span.
	AlignCenter Align = "center"

	// AlignRight moves each line so it ends at the span end.
	AlignRight Align = "right"

	// AlignJustify recomputes the gaps so each line exactly fills the
	// span. The last line of a block is left-aligned instead.
	AlignJustify Align = "justify"

	// AlignJustifyStart justifies every line except the last, which is
	// left-aligned.
	AlignJustifyStart Align = "justify-start"

	// AlignJustifyCenter justifies every line except the last, which is
	// centered.
	AlignJustifyCenter Align = "justify-center"

	// AlignJustifyEnd justifies every line except the last, which is
	// right-aligned.
	AlignJustifyEnd Align = "justify-end"
)

// ValidAligns is the set of alignments Draw accepts.
var ValidAligns = map[Align]bool{
	AlignLeft:          true,
	AlignCenter:        true,
	AlignRight:         true,
	AlignJustify:       true,
	AlignJustifyStart:  true,
	AlignJustifyCenter: true,
	AlignJustifyEnd:    true,
}

// normalize folds the accepted aliases onto their canonical names.
func (a Align) normalize() Align {
	switch a {
	case "justify-left":
		return AlignJustifyStart
	case "justify-right":
		return AlignJustifyEnd
	default:
		return a
	}
}

// nonTerminal is the alignment applied to every line that wraps.
func (a Align) nonTerminal() Align {
	switch a {
	case AlignJustify, AlignJustifyStart, AlignJustifyCenter, AlignJustifyEnd:
		return AlignJustify
	default:
		return a
	}
}

// terminal is the alignment applied to the last line of a block. Justified
// variants fall back to their plain counterpart so a short final line is not
// stretched across the span.
func (a Align) terminal() Align {
	switch a {
	case AlignJustify, AlignJustifyStart:
		return AlignLeft
	case AlignJustifyCenter:
		return AlignCenter
	case AlignJustifyEnd:
		return AlignRight
	default:
		return a
	}
}

// VAlign is the vertical anchoring of a block relative to its y coordinate.
type VAlign string

const (
	// VATop puts the top of the first line at y; text grows downward.
	VATop VAlign = "top"

	// VACenter centers the block's bounding box on y.
	VACenter VAlign = "center"

	// VABottom puts the bottom of the last line at y; text grows upward.
	VABottom VAlign = "bottom"
)

// ValidVAligns is the set of vertical alignments Draw accepts.
var ValidVAligns = map[VAlign]bool{
	VATop:    true,
	VACenter: true,
	VABottom: true,
}

// alignLine repositions a line's tokens horizontally within the span. Only x
// coordinates change; content, style and vertical position stay as they are.
// The mode must already be resolved to its terminal or non-terminal variant.
func alignLine(line Line, span geom.Span, mode Align) {
	if line.Empty() {
		return
	}

	switch mode {
	case AlignLeft:
		// Flow positions already start at the span start.

	case AlignRight:
		bb := line.BoundingBox()
		shift(line, span.End-bb.X1)

	case AlignCenter:
		bb := line.BoundingBox()
		target := span.Start + (span.Width()-bb.Width())/2
		shift(line, target-bb.X0)

	case AlignJustify:
		justify(line, span)
	}
}

// shift moves every token in the line by dx.
func shift(line Line, dx float64) {
	if dx == 0 {
		return
	}
	for _, p := range line.Tokens {
		bb := p.Box()
		p.moveTo(geom.Point{X: bb.X0 + dx, Y: bb.Y1})
	}
}

// justify spreads the line across the whole span: tokens keep their order and
// widths, and the leftover space is split evenly across the interior gaps.
// A single-token line has no interior gaps and stays at the span start.
func justify(line Line, span geom.Span) {
	n := len(line.Tokens)
	if n < 2 {
		shift(line, span.Start-line.BoundingBox().X0)
		return
	}

	var width float64
	boxes := make([]geom.Rect, n)
	for i, p := range line.Tokens {
		boxes[i] = p.Box()
		width += boxes[i].Width()
	}

	gap := (span.Width() - width) / float64(n-1)
	offset := span.Start
	for i, p := range line.Tokens {
		p.moveTo(geom.Point{X: offset, Y: boxes[i].Y1})
		offset += boxes[i].Width() + gap
	}
}
