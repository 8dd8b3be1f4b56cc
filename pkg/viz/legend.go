package viz

import (
	"math"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/text"
)

const (
	// legendSwatchWidth is the width of a legend visual, in axes units.
	legendSwatchWidth = 0.025

	// legendEntryPad is the horizontal gap between legend entries.
	legendEntryPad = 0.025

	// legendSwatchGap is the gap between a visual and its label.
	legendSwatchGap = 0.01
)

// LegendEntry is one labelled item in the legend: an optional visual swatch
// and the label next to it.
type LegendEntry struct {
	Label      string
	Visual     canvas.Handle // nil for text-only entries
	Annotation *text.Annotation
}

// Legend collects the labelled series of a figure into rows directly above
// the plot area. Entries fill a row left to right; when a label would poke
// past the right edge, the existing rows move up and the entry starts a new
// bottom row, so the oldest entries end up on top.
//
// Labels are unique: drawing an already present label returns the existing
// entry untouched, whatever its visual type.
type Legend struct {
	fig   *Figure
	lines [][]*LegendEntry
}

// Lines returns the legend rows, top row first. The bottom row is the one
// entries are currently appended to.
func (l *Legend) Lines() [][]*LegendEntry { return l.lines }

// Contains returns the entry with the given label, or nil.
func (l *Legend) Contains(label string) *LegendEntry {
	for _, row := range l.lines {
		for _, e := range row {
			if e.Label == label {
				return e
			}
		}
	}
	return nil
}

// DrawLine adds an entry whose visual is a line segment.
func (l *Legend) DrawLine(label string, visual, labelStyle canvas.Style) (*LegendEntry, error) {
	return l.add(label, l.lineSwatch, visual, labelStyle)
}

// DrawArrow adds an entry whose visual is an arrow.
func (l *Legend) DrawArrow(label string, visual, labelStyle canvas.Style) (*LegendEntry, error) {
	return l.add(label, l.arrowSwatch, visual, labelStyle)
}

// DrawPoint adds an entry whose visual is a point marker.
func (l *Legend) DrawPoint(label string, visual, labelStyle canvas.Style) (*LegendEntry, error) {
	return l.add(label, l.pointSwatch, visual, labelStyle)
}

// DrawTextOnly adds an entry with no visual, just the label.
func (l *Legend) DrawTextOnly(label string, labelStyle canvas.Style) (*LegendEntry, error) {
	return l.add(label, nil, nil, labelStyle)
}

// swatchFunc draws a visual across the given span, vertically centered on
// cy, and returns its handle.
type swatchFunc func(span geom.Span, cy float64, st canvas.Style) canvas.Handle

// add places one entry in three steps: pick the horizontal offset on the
// bottom row, draw the label (and center the swatch on it), then decide
// whether the entry overflowed and must start a row of its own.
func (l *Legend) add(label string, swatch swatchFunc, visualStyle, labelStyle canvas.Style) (*LegendEntry, error) {
	if label == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "legend labels must not be empty")
	}
	if e := l.Contains(label); e != nil {
		return e, nil
	}

	base := 1 + l.fig.topBand()
	offset := l.offset(legendEntryPad)

	var swatchRoom float64
	if swatch != nil {
		swatchRoom = legendSwatchWidth + legendSwatchGap
	}

	// No room for even the start of the label: wrap before drawing.
	prewrap := offset+swatchRoom >= 1
	if prewrap {
		offset = 0
	}
	labelStart := offset + swatchRoom

	a := text.NewAnnotation(l.fig.c)
	opts := text.DrawOptions{
		VA:    text.VABottom,
		Space: canvas.SpaceAxes,
		Style: canvas.Style{"fontsize": l.fig.opts.Config.FontSize}.Merge(labelStyle),
	}
	if _, err := a.DrawString(label, geom.Span{Start: labelStart, End: 1}, base, opts); err != nil {
		return nil, err
	}

	var h canvas.Handle
	if swatch != nil {
		cy := a.BoundingBox().CenterY()
		h = swatch(geom.Span{Start: offset, End: offset + legendSwatchWidth}, cy, visualStyle)
	}

	e := &LegendEntry{Label: label, Visual: h, Annotation: a}

	hasRow := len(l.lines) > 0 && len(l.lines[len(l.lines)-1]) > 0
	switch {
	case hasRow && (prewrap || a.BoundingBox().X1 > 1):
		l.newline(e)
	case hasRow:
		l.lines[len(l.lines)-1] = append(l.lines[len(l.lines)-1], e)
	default:
		l.lines = append(l.lines, []*LegendEntry{e})
	}

	l.fig.opts.Logger.Debug("added legend entry", "label", label, "rows", len(l.lines))
	return e, nil
}

// offset returns the x where the next entry starts on the bottom row: just
// past the row's last label, or 0 on an empty legend.
func (l *Legend) offset(pad float64) float64 {
	if len(l.lines) == 0 {
		return 0
	}
	row := l.lines[len(l.lines)-1]
	if len(row) == 0 {
		return 0
	}
	return row[len(row)-1].Annotation.BoundingBox().X1 + pad
}

// newline turns the freshly drawn entry into a new bottom row: every
// existing row moves up by the entry's height and the entry itself moves to
// the row start.
func (l *Legend) newline(e *LegendEntry) {
	height := e.Annotation.BoundingBox().Height()
	for _, row := range l.lines {
		for _, o := range row {
			l.raise(o, height)
		}
	}

	var labelStart float64
	if e.Visual != nil {
		labelStart = legendSwatchWidth + legendSwatchGap
	}
	base := 1 + l.fig.topBand()
	_ = e.Annotation.SetPosition(geom.Point{X: labelStart, Y: base}, text.AlignLeft, text.VABottom)
	if e.Visual != nil {
		l.centerVisual(e, 0)
	}

	l.lines = append(l.lines, []*LegendEntry{e})
}

// raise moves one entry up by dy, keeping label and visual together.
func (l *Legend) raise(e *LegendEntry, dy float64) {
	bb := e.Annotation.BoundingBox()
	e.Annotation.SetTopLeft(geom.Point{X: bb.X0, Y: bb.Y1 + dy})
	if e.Visual != nil {
		vb := l.fig.c.Measure(e.Visual, canvas.SpaceAxes)
		l.fig.c.SetPosition(e.Visual, geom.Point{X: vb.X0, Y: vb.Y1 + dy}, canvas.SpaceAxes)
	}
}

// centerVisual vertically centers an entry's visual on its label, starting
// the swatch at x.
func (l *Legend) centerVisual(e *LegendEntry, x float64) {
	cy := e.Annotation.BoundingBox().CenterY()
	vb := l.fig.c.Measure(e.Visual, canvas.SpaceAxes)
	l.fig.c.SetPosition(e.Visual, geom.Point{X: x, Y: cy + vb.Height()/2}, canvas.SpaceAxes)
}

// BoundingBox returns the axes-space box the legend occupies: the full axes
// width from the bottom row's baseline to the top row's top. An empty legend
// reports a zero-height box resting on the plot area.
func (l *Legend) BoundingBox() geom.Rect {
	if len(l.lines) == 0 || len(l.lines[0]) == 0 {
		return geom.Rect{X0: 0, Y0: 1, X1: 1, Y1: 1}
	}
	bottom := math.Inf(1)
	for _, e := range l.lines[len(l.lines)-1] {
		bottom = min(bottom, e.Annotation.BoundingBox().Y0)
	}
	top := math.Inf(-1)
	for _, e := range l.lines[0] {
		top = max(top, e.Annotation.BoundingBox().Y1)
	}
	return geom.Rect{X0: 0, Y0: bottom, X1: 1, Y1: top}
}

// Height returns the vertical room the legend occupies.
func (l *Legend) Height() float64 {
	return l.BoundingBox().Height()
}

// redraw restacks all rows bottom-up from the current resting position,
// following tick-side changes without altering row membership.
func (l *Legend) redraw() {
	y := 1 + l.fig.topBand()
	for i := len(l.lines) - 1; i >= 0; i-- {
		var rowH float64
		for _, e := range l.lines[i] {
			rowH = max(rowH, e.Annotation.BoundingBox().Height())
		}
		for _, e := range l.lines[i] {
			bb := e.Annotation.BoundingBox()
			_ = e.Annotation.SetPosition(geom.Point{X: bb.X0, Y: y}, text.AlignLeft, text.VABottom)
			if e.Visual != nil {
				l.centerVisual(e, l.fig.c.Measure(e.Visual, canvas.SpaceAxes).X0)
			}
		}
		y += rowH
	}
}

func (l *Legend) lineSwatch(span geom.Span, cy float64, st canvas.Style) canvas.Handle {
	pts := []geom.Point{{X: span.Start, Y: cy}, {X: span.End, Y: cy}}
	return l.fig.c.DrawLine(pts, st, canvas.SpaceAxes)
}

func (l *Legend) arrowSwatch(span geom.Span, cy float64, st canvas.Style) canvas.Handle {
	pts := arrowPoints(geom.Point{X: span.Start, Y: cy}, geom.Point{X: span.End, Y: cy}, span.Width()*0.3)
	return l.fig.c.DrawLine(pts, st, canvas.SpaceAxes)
}

func (l *Legend) pointSwatch(span geom.Span, cy float64, st canvas.Style) canvas.Handle {
	r := st.Size(DefaultMarkerSize) / 2
	return l.fig.c.DrawCircle(geom.Point{X: span.Mid(), Y: cy}, r, st, canvas.SpaceAxes)
}

// arrowBarbAngle is the angle between an arrow's shaft and each barb.
const arrowBarbAngle = math.Pi / 6

// arrowPoints traces a polyline from tail to tip with a two-stroke head of
// the given length. Degenerate segments get no head.
func arrowPoints(tail, tip geom.Point, headLen float64) []geom.Point {
	dx, dy := tip.X-tail.X, tip.Y-tail.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return []geom.Point{tail, tip}
	}
	ux, uy := dx/n, dy/n
	sin, cos := math.Sin(arrowBarbAngle), math.Cos(arrowBarbAngle)
	left := geom.Point{X: tip.X - headLen*(ux*cos-uy*sin), Y: tip.Y - headLen*(uy*cos+ux*sin)}
	right := geom.Point{X: tip.X - headLen*(ux*cos+uy*sin), Y: tip.Y - headLen*(uy*cos-ux*sin)}
	return []geom.Point{tail, tip, left, tip, right}
}
