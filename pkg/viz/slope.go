package viz

import (
	"math"
	"strconv"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/label"
	"github.com/matzehuels/notate/pkg/text"
)

// slopeLabelPad is the horizontal gap between the outermost tick label and a
// slope label, in data units.
const slopeLabelPad = 0.1

// Slope label placement, per slope.
const (
	WhereLeft  = "left"
	WhereRight = "right"
	WhereBoth  = "both"
)

// ValidWheres is the set of slope label placements.
var ValidWheres = map[string]bool{WhereLeft: true, WhereRight: true, WhereBoth: true}

// SlopeOptions configures one DrawSlope call.
type SlopeOptions struct {
	// StartTicks labels the left axis at the start values. Nil formats the
	// values themselves; an empty element skips that tick. Ticks merge
	// with those of earlier draws, same position wins last.
	StartTicks []string `json:"start_ticks,omitempty"`

	// EndTicks labels the right axis at the end values, like StartTicks.
	EndTicks []string `json:"end_ticks,omitempty"`

	// Labels names the slopes; either empty or one entry per slope, empty
	// elements skipped.
	Labels []string `json:"labels,omitempty"`

	// Where places each label: WhereLeft, WhereRight or WhereBoth. Nil
	// means both sides; a single element applies to every label.
	Where []string `json:"where,omitempty"`

	// Style styles the slope lines.
	Style canvas.Style `json:"style,omitempty"`

	// LabelStyle styles the slope labels.
	LabelStyle canvas.Style `json:"label_style,omitempty"`

	// KeepAxes leaves the axes as they are instead of applying the slope
	// styling (unit x limits with a tick at each end).
	KeepAxes bool `json:"keep_axes,omitempty"`

	// MaxIterations caps the label distribution passes. Zero means the
	// distributor's default.
	MaxIterations int `json:"max_iterations,omitempty"`
}

// SlopeResult is one drawn batch of slopes.
type SlopeResult struct {
	// Slopes are the drawn lines, in input order.
	Slopes []canvas.Handle

	// Left and Right are the drawn side labels, skipped ones omitted.
	Left  []*text.Annotation
	Right []*text.Annotation
}

// slopeChart holds the figure-level slope state: the merged tick sets and
// the label pool shared across draws.
type slopeChart struct {
	fig    *Figure
	styled bool

	startTicks map[float64]string
	endTicks   map[float64]string

	left, right []*text.Annotation
	labels      []*text.Annotation
}

func (s *slopeChart) draw(start, end []float64, opts SlopeOptions) (*SlopeResult, error) {
	if len(start) != len(end) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"slopes need as many end as start values, got %d and %d", len(end), len(start))
	}
	if len(start) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "slopes need at least one value pair")
	}
	if opts.StartTicks != nil && len(opts.StartTicks) != len(start) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"slopes need one start tick per value, got %d for %d", len(opts.StartTicks), len(start))
	}
	if opts.EndTicks != nil && len(opts.EndTicks) != len(end) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"slopes need one end tick per value, got %d for %d", len(opts.EndTicks), len(end))
	}
	where, err := resolveWhere(opts.Where, len(opts.Labels))
	if err != nil {
		return nil, err
	}
	if len(opts.Labels) > 0 && len(opts.Labels) != len(start) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"slopes need one label per value pair, got %d for %d", len(opts.Labels), len(start))
	}

	f := s.fig
	if !opts.KeepAxes && !s.styled {
		_ = f.SetXLim(-0.1, 1.1)
		_ = f.SetXTicks(SideBottom, []Tick{{At: 0, Label: "0"}, {At: 1, Label: "1"}})
		s.styled = true
	}

	lo, hi := start[0], start[0]
	for _, v := range start {
		lo, hi = min(lo, v), max(hi, v)
	}
	for _, v := range end {
		lo, hi = min(lo, v), max(hi, v)
	}
	f.extendExtent(geom.Rect{X0: 0, Y0: lo, X1: 1, Y1: hi})

	res := &SlopeResult{Slopes: make([]canvas.Handle, len(start))}
	for i := range start {
		pts := []geom.Point{{X: 0, Y: start[i]}, {X: 1, Y: end[i]}}
		res.Slopes[i] = f.c.DrawLine(pts, opts.Style, canvas.SpaceData)
	}

	s.startTicks = mergeTicks(s.startTicks, start, opts.StartTicks)
	s.endTicks = mergeTicks(s.endTicks, end, opts.EndTicks)
	_ = f.SetYTicks(SideLeft, ticksFromMap(s.startTicks))
	_ = f.SetYTicks(SideRight, ticksFromMap(s.endTicks))

	for i, lbl := range opts.Labels {
		if lbl == "" {
			continue
		}
		if where[i] == WhereLeft || where[i] == WhereBoth {
			a, err := s.drawSideLabel(lbl, SideLeft, start[i], opts)
			if err != nil {
				return nil, err
			}
			res.Left = append(res.Left, a)
		}
		if where[i] == WhereRight || where[i] == WhereBoth {
			a, err := s.drawSideLabel(lbl, SideRight, end[i], opts)
			if err != nil {
				return nil, err
			}
			res.Right = append(res.Right, a)
		}
	}

	s.fitAxes()
	f.opts.Logger.Debug("drew slopes", "count", len(start), "labels", len(opts.Labels))
	return res, nil
}

// resolveWhere expands the placement list to one entry per label: nil means
// both sides everywhere, a single entry broadcasts.
func resolveWhere(where []string, labels int) ([]string, error) {
	for _, w := range where {
		if !ValidWheres[w] {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"labels go %q, %q or %q, not %q", WhereLeft, WhereRight, WhereBoth, w)
		}
	}
	if labels == 0 {
		return nil, nil
	}
	switch {
	case len(where) == 0:
		where = []string{WhereBoth}
		fallthrough
	case len(where) == 1:
		all := make([]string, labels)
		for i := range all {
			all[i] = where[0]
		}
		return all, nil
	case len(where) != labels:
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"need one placement per label, got %d for %d", len(where), labels)
	}
	return where, nil
}

// mergeTicks folds a draw's tick labels into the chart-level set. Nil labels
// format the values themselves; empty labels skip their value.
func mergeTicks(existing map[float64]string, values []float64, labels []string) map[float64]string {
	if existing == nil {
		existing = make(map[float64]string, len(values))
	}
	for i, v := range values {
		lbl := strconv.FormatFloat(v, 'g', -1, 64)
		if labels != nil {
			if labels[i] == "" {
				continue
			}
			lbl = labels[i]
		}
		existing[v] = lbl
	}
	return existing
}

func ticksFromMap(m map[float64]string) []Tick {
	ticks := make([]Tick, 0, len(m))
	for at, lbl := range m {
		ticks = append(ticks, Tick{At: at, Label: lbl})
	}
	return ticks
}

// drawSideLabel places a label beside one end of a slope, well outside the
// plot area; fitAxes pulls it in next to the tick labels. All labels share
// one pool so they spread apart vertically.
func (s *slopeChart) drawSideLabel(lbl string, side Side, y float64, opts SlopeOptions) (*text.Annotation, error) {
	span := geom.Span{Start: -2, End: -1}
	align := text.AlignRight
	if side == SideRight {
		span = geom.Span{Start: 2, End: 3}
		align = text.AlignLeft
	}

	a := text.NewAnnotation(s.fig.c)
	dopts := text.DrawOptions{
		Align:       align,
		VA:          text.VACenter,
		Style:       canvas.Style{"fontsize": s.fig.opts.Config.FontSize}.Merge(opts.LabelStyle),
		WordSpacing: s.fig.XLim().Width() / 250,
		Space:       canvas.SpaceData,
	}
	if _, err := a.DrawString(lbl, span, y, dopts); err != nil {
		return nil, err
	}

	if side == SideLeft {
		s.left = append(s.left, a)
	} else {
		s.right = append(s.right, a)
	}
	s.labels = append(s.labels, a)

	blocks := make([]label.Block, len(s.labels))
	for i, la := range s.labels {
		blocks[i] = la
	}
	if err := label.Distribute(blocks, label.Options{MaxIterations: opts.MaxIterations}); err != nil {
		return nil, err
	}
	return a, nil
}

// fitAxes widens the x limits so the slope labels sit beside the plot: each
// limit extends past the outermost tick label on its side by the widest slope
// label plus a pad. Tick labels keep a fixed axes-space offset, so widening
// shifts them outward again; repeating the fit would chase that shift without
// ever settling, so it is applied once per draw and the labels land just
// inside the widened limits.
func (s *slopeChart) fitAxes() {
	if len(s.left) == 0 && len(s.right) == 0 {
		return
	}
	f := s.fig

	var lw, rw float64
	for _, a := range s.left {
		lw = max(lw, a.BoundingBox().Width())
	}
	for _, a := range s.right {
		rw = max(rw, a.BoundingBox().Width())
	}
	lw, rw = min(lw, 1), min(rw, 1)

	var lpad, rpad float64
	if len(s.left) > 0 {
		lpad = slopeLabelPad
	}
	if len(s.right) > 0 {
		rpad = slopeLabelPad
	}

	x0, x1 := -0.1, 1.1
	if boxes := f.yTickBoxes(SideLeft); len(boxes) > 0 {
		x0 = math.Inf(1)
		for _, b := range boxes {
			x0 = min(x0, f.dataX(b.X0))
		}
	}
	if boxes := f.yTickBoxes(SideRight); len(boxes) > 0 {
		x1 = math.Inf(-1)
		for _, b := range boxes {
			x1 = max(x1, f.dataX(b.X1))
		}
	}

	_ = f.SetXLim(x0-lw-lpad, x1+rw+rpad)

	for _, a := range s.left {
		bb := a.BoundingBox()
		_ = a.SetPosition(geom.Point{X: x0 - lpad, Y: bb.CenterY()}, text.AlignRight, text.VACenter)
	}
	for _, a := range s.right {
		bb := a.BoundingBox()
		_ = a.SetPosition(geom.Point{X: x1 + rpad, Y: bb.CenterY()}, text.AlignLeft, text.VACenter)
	}
}
