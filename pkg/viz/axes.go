package viz

import (
	"cmp"
	"slices"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/text"
)

// Side names an edge of the plot area.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// ValidXSides is the set of sides x ticks can sit on.
var ValidXSides = map[Side]bool{SideTop: true, SideBottom: true}

// ValidYSides is the set of sides y ticks can sit on.
var ValidYSides = map[Side]bool{SideLeft: true, SideRight: true}

// Tick is one labelled position on an axis. Ticks with an empty label hold
// their position but draw nothing.
type Tick struct {
	At    float64 `json:"at"`
	Label string  `json:"label"`
}

// SetXLim pins the horizontal data limits.
func (f *Figure) SetXLim(lo, hi float64) error {
	if hi <= lo {
		return errors.New(errors.ErrCodeInvalidArgument, "x limits must satisfy lo < hi, got [%v, %v]", lo, hi)
	}
	f.xlim = &geom.Span{Start: lo, End: hi}
	f.Redraw()
	return nil
}

// SetYLim pins the vertical data limits.
func (f *Figure) SetYLim(lo, hi float64) error {
	if hi <= lo {
		return errors.New(errors.ErrCodeInvalidArgument, "y limits must satisfy lo < hi, got [%v, %v]", lo, hi)
	}
	f.ylim = &geom.Span{Start: lo, End: hi}
	f.Redraw()
	return nil
}

// XLim returns the effective horizontal data limits: the pinned limits if
// set, otherwise the drawn data extent plus a margin, otherwise the unit
// span.
func (f *Figure) XLim() geom.Span {
	if f.xlim != nil {
		return *f.xlim
	}
	if f.extent != nil {
		return autoSpan(f.extent.X0, f.extent.X1)
	}
	return geom.Span{Start: 0, End: 1}
}

// YLim returns the effective vertical data limits. The span is always
// ascending; InvertY flips the mapping, not the limits.
func (f *Figure) YLim() geom.Span {
	if f.ylim != nil {
		return *f.ylim
	}
	if f.extent != nil {
		return autoSpan(f.extent.Y0, f.extent.Y1)
	}
	return geom.Span{Start: 0, End: 1}
}

// InvertY flips the y axis: larger data values map lower on the canvas.
// Text drawn in data space does not survive the flip, so inverted axes are
// for charts that place only shapes there; tick labels are unaffected, they
// live in axes space.
func (f *Figure) InvertY() {
	f.yflip = true
	f.Redraw()
}

// YInverted reports whether the y axis is flipped.
func (f *Figure) YInverted() bool { return f.yflip }

// SetXTicks replaces the x tick set and moves it to the given side. Ticks
// are kept sorted by position.
func (f *Figure) SetXTicks(side Side, ticks []Tick) error {
	if !ValidXSides[side] {
		return errors.New(errors.ErrCodeInvalidArgument, "x ticks go on %q or %q, not %q", SideBottom, SideTop, side)
	}
	f.xticks = sortTicks(ticks)
	f.xtickSide = side
	f.Redraw()
	return nil
}

// SetYTicks replaces the y tick set on one side. Ticks are kept sorted by
// position.
func (f *Figure) SetYTicks(side Side, ticks []Tick) error {
	if !ValidYSides[side] {
		return errors.New(errors.ErrCodeInvalidArgument, "y ticks go on %q or %q, not %q", SideLeft, SideRight, side)
	}
	f.yticks[side] = sortTicks(ticks)
	f.Redraw()
	return nil
}

// XTicks returns the current x ticks and their side.
func (f *Figure) XTicks() ([]Tick, Side) {
	return slices.Clone(f.xticks), f.xtickSide
}

// YTicks returns the current y ticks on one side.
func (f *Figure) YTicks(side Side) []Tick {
	return slices.Clone(f.yticks[side])
}

func sortTicks(ticks []Tick) []Tick {
	sorted := slices.Clone(ticks)
	slices.SortFunc(sorted, func(a, b Tick) int { return cmp.Compare(a.At, b.At) })
	return sorted
}

// autoSpan widens a data extent into axis limits. A degenerate extent gets
// half a unit on each side so the viewport never collapses.
func autoSpan(lo, hi float64) geom.Span {
	if hi == lo {
		return geom.Span{Start: lo - 0.5, End: hi + 0.5}
	}
	m := (hi - lo) * autoMargin
	return geom.Span{Start: lo - m, End: hi + m}
}

// extendExtent grows the drawn data extent and refreshes the layout, so
// autoscaled limits follow the data as charts draw.
func (f *Figure) extendExtent(r geom.Rect) {
	if f.extent == nil {
		c := r
		f.extent = &c
	} else {
		u := f.extent.Union(r)
		f.extent = &u
	}
	f.Redraw()
}

// pushViewport maps the effective limits onto the axes unit square.
func (f *Figure) pushViewport() {
	x, y := f.XLim(), f.YLim()
	view := geom.Rect{X0: x.Start, Y0: y.Start, X1: x.End, Y1: y.End}
	if f.yflip {
		view.Y0, view.Y1 = view.Y1, view.Y0
	}
	f.c.SetViewport(view)
}

// redrawTicks redraws every tick label at its current axes position. Tick
// labels live in axes space just outside the plot area: x ticks centered
// under (or over) their position, y ticks ending (or starting) one gap away
// from the side they sit on.
func (f *Figure) redrawTicks() {
	for side, anns := range f.tickText {
		for _, a := range anns {
			a.Remove()
		}
		delete(f.tickText, side)
	}

	x, y := f.XLim(), f.YLim()
	st := canvas.Style{"fontsize": f.opts.Config.FontSize}

	for _, t := range f.xticks {
		if t.Label == "" {
			continue
		}
		ax := (t.At - x.Start) / x.Width()
		opts := text.DrawOptions{Align: text.AlignCenter, VA: text.VATop, Style: st, Space: canvas.SpaceAxes}
		ty := -axesGap
		if f.xtickSide == SideTop {
			opts.VA = text.VABottom
			ty = 1 + axesGap
		}
		f.drawTick(f.xtickSide, t.Label, geom.Span{Start: ax - 0.5, End: ax + 0.5}, ty, opts)
	}

	for _, side := range []Side{SideLeft, SideRight} {
		for _, t := range f.yticks[side] {
			if t.Label == "" {
				continue
			}
			ay := (t.At - y.Start) / y.Width()
			if f.yflip {
				ay = 1 - ay
			}
			opts := text.DrawOptions{VA: text.VACenter, Style: st, Space: canvas.SpaceAxes}
			var span geom.Span
			if side == SideLeft {
				opts.Align = text.AlignRight
				span = geom.Span{Start: -1 - axesGap, End: -axesGap}
			} else {
				opts.Align = text.AlignLeft
				span = geom.Span{Start: 1 + axesGap, End: 2 + axesGap}
			}
			f.drawTick(side, t.Label, span, ay, opts)
		}
	}
}

func (f *Figure) drawTick(side Side, label string, span geom.Span, y float64, opts text.DrawOptions) {
	a := text.NewAnnotation(f.c)
	if _, err := a.DrawString(label, span, y, opts); err != nil {
		f.opts.Logger.Error("draw tick label", "label", label, "err", err)
		return
	}
	f.tickText[side] = append(f.tickText[side], a)
}

// topBand is the vertical room the x tick labels occupy above the plot area:
// twice the tallest label when ticks sit on top, zero otherwise. The legend
// and caption stack starts above it.
func (f *Figure) topBand() float64 {
	if f.xtickSide != SideTop {
		return 0
	}
	return 2 * f.tallestTick(SideTop)
}

// bottomBand is the room the x tick labels occupy below the plot area.
func (f *Figure) bottomBand() float64 {
	if f.xtickSide != SideBottom {
		return 0
	}
	return 2 * f.tallestTick(SideBottom)
}

func (f *Figure) tallestTick(side Side) float64 {
	var h float64
	for _, a := range f.tickText[side] {
		h = max(h, a.BoundingBox().Height())
	}
	return h
}

// yTickBoxes returns the bounding boxes of the drawn y tick labels on one
// side, in axes space.
func (f *Figure) yTickBoxes(side Side) []geom.Rect {
	boxes := make([]geom.Rect, 0, len(f.tickText[side]))
	for _, a := range f.tickText[side] {
		boxes = append(boxes, a.BoundingBox())
	}
	return boxes
}

// dataX converts an axes x coordinate into data coordinates under the
// current limits.
func (f *Figure) dataX(ax float64) float64 {
	x := f.XLim()
	return x.Start + ax*x.Width()
}
