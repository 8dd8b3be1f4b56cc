package text

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/geom"
)

// LineSpacing measures the height of one rendered line in the given style.
// The canvas owns the font metrics, so the only reliable way to know how tall
// text will be is to draw some: an ephemeral probe is rendered, measured and
// removed again. The probe text spans ascenders and descenders so the result
// covers the full glyph extent.
func LineSpacing(c canvas.Canvas, space canvas.Space, st canvas.Style, wordSpacing float64) float64 {
	probe := c.RenderText("Mg", geom.Point{}, st.With("pad", wordSpacing/2), space)
	defer c.Remove(probe)
	return c.Measure(probe, space).Height()
}

// WordSpacing derives a token gap from the glyph geometry of the given style:
// a quarter of an em dash. Callers that want spacing proportional to the font
// rather than a fixed drawing-unit value use this in place of the default.
func WordSpacing(c canvas.Canvas, space canvas.Space, st canvas.Style) float64 {
	probe := c.RenderText("—", geom.Point{}, st, space)
	defer c.Remove(probe)
	return c.Measure(probe, space).Width() / 4
}
