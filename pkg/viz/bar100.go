package viz

import (
	"math"
	"strconv"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

const (
	// DefaultMinPercentage is the smallest share any segment is drawn
	// with, so tiny values stay visible.
	DefaultMinPercentage = 1.0

	// DefaultBarPad is the padding taken off a segment, split across its
	// open sides, in percentage points.
	DefaultBarPad = 0.25

	// barHalfHeight is half the bar thickness, in row units.
	barHalfHeight = 0.4

	// percentEpsilon bounds the normalization fixpoint.
	percentEpsilon = 1e-10
)

// BarValue is one segment of a 100% bar.
type BarValue struct {
	// Value is the segment's share; segments are normalized to sum to 100.
	Value float64 `json:"value"`

	// Style overrides the bar style for this segment.
	Style canvas.Style `json:"style,omitempty"`

	// Label registers the segment in the legend. Empty adds nothing.
	Label string `json:"label,omitempty"`

	// LabelStyle overrides the legend label style for this segment.
	LabelStyle canvas.Style `json:"label_style,omitempty"`
}

// Bar100Options configures one DrawBar100 call.
type Bar100Options struct {
	// Name labels the bar's row on the left axis. Required.
	Name string `json:"name"`

	// MinPercentage is the smallest drawn share per segment. Zero means
	// DefaultMinPercentage.
	MinPercentage float64 `json:"min_percentage,omitempty"`

	// Pad is the padding per segment in percentage points, split equally
	// across its open sides and overridable per segment through the style's
	// "pad" key. Padding never shrinks a segment below the minimum share.
	// Zero means DefaultBarPad.
	Pad float64 `json:"pad,omitempty"`

	// Style styles every segment; segment styles override it.
	Style canvas.Style `json:"style,omitempty"`

	// LabelStyle styles the legend labels of labelled segments.
	LabelStyle canvas.Style `json:"label_style,omitempty"`

	// KeepAxes leaves the axes as they are instead of applying the bar
	// styling (percentage limits with ticks along the top).
	KeepAxes bool `json:"keep_axes,omitempty"`
}

// bar100Chart holds the figure-level bar state: one row tick per drawn bar.
type bar100Chart struct {
	fig    *Figure
	styled bool
	rows   []Tick
}

func (b *bar100Chart) draw(values []BarValue, opts Bar100Options) ([]canvas.Handle, error) {
	if len(values) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "bars need at least one value")
	}
	var total float64
	for _, v := range values {
		if v.Value < 0 {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "bar values must not be negative, got %v", v.Value)
		}
		total += v.Value
	}
	if total == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "bars need at least one non-zero value")
	}
	if opts.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "bars need a name")
	}

	minPct := opts.MinPercentage
	if minPct == 0 {
		minPct = DefaultMinPercentage
	}
	barPad := opts.Pad
	if barPad == 0 {
		barPad = DefaultBarPad
	}
	if minPct < 0 || minPct > 100 {
		return nil, errors.New(errors.ErrCodeConstraintViolation,
			"minimum percentage must be between 0 and 100, got %v", minPct)
	}
	if minPct*float64(len(values)) > 100 {
		return nil, errors.New(errors.ErrCodeConstraintViolation,
			"%d segments cannot all keep a %v%% minimum", len(values), minPct)
	}

	f := b.fig
	if !opts.KeepAxes && !b.styled {
		_ = f.SetXLim(0, 100)
		ticks := make([]Tick, 0, 6)
		for v := 0; v <= 100; v += 20 {
			ticks = append(ticks, Tick{At: float64(v), Label: strconv.Itoa(v) + "%"})
		}
		_ = f.SetXTicks(SideTop, ticks)
		b.styled = true
	}

	row := float64(len(b.rows))
	f.extendExtent(geom.Rect{X0: 0, Y0: row - barHalfHeight, X1: 100, Y1: row + barHalfHeight})

	percentages := toPercentages(values, minPct)
	bars := make([]canvas.Handle, 0, len(values))
	var offset float64
	for i, v := range values {
		st := opts.Style.Merge(v.Style)
		pad := barPad
		if _, ok := st["pad"]; ok {
			pad = st.Pad()
			delete(st, "pad")
		}
		padding, err := segmentPad(percentages[i], pad, minPct)
		if err != nil {
			return nil, err
		}

		if i > 0 {
			offset += padding
		}
		width := percentages[i] - padding
		if i > 0 && i < len(values)-1 {
			width -= padding
		}

		r := geom.Rect{X0: offset, Y0: row - barHalfHeight, X1: offset + width, Y1: row + barHalfHeight}
		bars = append(bars, f.c.DrawRect(r, st, canvas.SpaceData))
		offset += width + padding
	}

	b.rows = append(b.rows, Tick{At: row, Label: opts.Name})
	_ = f.SetYTicks(SideLeft, b.rows)

	for _, v := range values {
		if v.Label == "" {
			continue
		}
		st := opts.Style.Merge(v.Style).Merge(opts.LabelStyle).Merge(v.LabelStyle)
		delete(st, "pad")
		if _, err := f.Legend().DrawTextOnly(v.Label, st); err != nil {
			return nil, err
		}
	}

	f.opts.Logger.Debug("drew bar", "name", opts.Name, "segments", len(values))
	return bars, nil
}

// toPercentages normalizes the values to sum to 100, boosting each share to
// the minimum and renormalizing until the shares settle. Terminates because
// every pass moves the shares toward the fixpoint where all boosted shares
// sit exactly at the minimum.
func toPercentages(values []BarValue, minPct float64) []float64 {
	p := make([]float64, len(values))
	for i, v := range values {
		p[i] = v.Value
	}
	for range 100 {
		var total float64
		for _, v := range p {
			total += v
		}
		changed := false
		for i := range p {
			n := 100 * p[i] / total
			if math.Abs(n-p[i]) > percentEpsilon {
				changed = true
			}
			p[i] = n
		}
		for i := range p {
			if p[i] < minPct {
				if minPct-p[i] > percentEpsilon {
					changed = true
				}
				p[i] = minPct
			}
		}
		if !changed {
			break
		}
	}
	return p
}

// segmentPad returns the padding per open side of a segment. Padding eats
// into the segment but never shrinks it below the minimum share.
func segmentPad(pct, pad, minPct float64) (float64, error) {
	if pad < 0 || pad > 100 {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "bar padding must be between 0 and 100, got %v", pad)
	}
	if minPct-pct > percentEpsilon {
		return 0, errors.New(errors.ErrCodeConstraintViolation,
			"a %v%% segment cannot keep a %v%% minimum", pct, minPct)
	}
	leftover := max(pct-pad, minPct)
	return (pct - leftover) / 2, nil
}
