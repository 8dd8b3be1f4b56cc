package viz

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/label"
	"github.com/matzehuels/notate/pkg/text"
)

// PointAnnotation annotates one point of a series. The zero value draws
// nothing for that point.
type PointAnnotation struct {
	// Text is the annotation text; empty skips the point.
	Text string `json:"text,omitempty"`

	// HA picks the side of the point the text sits on: AlignLeft puts it
	// to the right of the point (text reads away from it), AlignRight to
	// the left, AlignCenter on top. Empty picks a side from the point's
	// position: points in the leading tenth of the x range annotate to the
	// right, everything else to the left.
	HA text.Align `json:"ha,omitempty"`

	// VA anchors the text above or below the point. Empty picks from the
	// point's position: points in the top tenth of the y range annotate
	// downward, everything else upward.
	VA text.VAlign `json:"va,omitempty"`

	// Style overrides the series' annotation style for this point.
	Style canvas.Style `json:"style,omitempty"`

	// MarkerStyle overrides the series' marker style for this point.
	MarkerStyle canvas.Style `json:"marker_style,omitempty"`
}

// SeriesOptions configures one DrawTimeSeries call.
type SeriesOptions struct {
	// Label is drawn past the line's last point and registered in the
	// shared end-label pool, so labels of multiple series spread apart.
	// Empty draws no label.
	Label string `json:"label,omitempty"`

	// LabelStyle styles the end label. The line color is inherited unless
	// overridden.
	LabelStyle canvas.Style `json:"label_style,omitempty"`

	// Style styles the line itself.
	Style canvas.Style `json:"style,omitempty"`

	// Annotations annotates individual points; either empty or one entry
	// per point.
	Annotations []PointAnnotation `json:"annotations,omitempty"`

	// MarkerStyle styles the markers of annotated points.
	MarkerStyle canvas.Style `json:"marker_style,omitempty"`

	// AnnotationStyle styles the annotation text of annotated points.
	AnnotationStyle canvas.Style `json:"annotation_style,omitempty"`

	// MaxIterations caps the end-label distribution passes. Zero means the
	// distributor's default.
	MaxIterations int `json:"max_iterations,omitempty"`
}

// Series is one drawn time series.
type Series struct {
	// Line is the polyline through the data points.
	Line canvas.Handle

	// Label is the end-of-line label, or nil.
	Label *text.Annotation

	// Annotations are the drawn point annotations in point order, skipped
	// points omitted.
	Annotations []*text.Annotation
}

// timeSeries holds the figure-level state shared by all series: the pool of
// end labels kept from overlapping.
type timeSeries struct {
	fig    *Figure
	labels []*text.Annotation
}

func (ts *timeSeries) draw(x, y []float64, opts SeriesOptions) (*Series, error) {
	if len(x) != len(y) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"series needs as many y as x values, got %d and %d", len(y), len(x))
	}
	if len(x) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "series needs at least one point")
	}
	if len(opts.Annotations) > 0 && len(opts.Annotations) != len(x) {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"series needs one annotation per point, got %d for %d points", len(opts.Annotations), len(x))
	}

	f := ts.fig
	pts := make([]geom.Point, len(x))
	ext := geom.Rect{X0: x[0], Y0: y[0], X1: x[0], Y1: y[0]}
	for i := range x {
		pts[i] = geom.Point{X: x[i], Y: y[i]}
		ext.X0 = min(ext.X0, x[i])
		ext.X1 = max(ext.X1, x[i])
		ext.Y0 = min(ext.Y0, y[i])
		ext.Y1 = max(ext.Y1, y[i])
	}
	f.extendExtent(ext)

	s := &Series{Line: f.c.DrawLine(pts, opts.Style, canvas.SpaceData)}
	color := opts.Style.Color("")

	if opts.Label != "" {
		a, err := ts.drawEndLabel(opts.Label, pts[len(pts)-1], color, opts)
		if err != nil {
			return nil, err
		}
		s.Label = a
	}

	for i, pa := range opts.Annotations {
		if pa.Text == "" {
			continue
		}
		a, err := ts.annotatePoint(pts[i], pa, color, opts)
		if err != nil {
			return nil, err
		}
		s.Annotations = append(s.Annotations, a)
	}

	f.opts.Logger.Debug("drew series", "points", len(x), "label", opts.Label)
	return s, nil
}

// drawEndLabel places the series label just past its last point, vertically
// centered on the line's end, then spreads the whole label pool.
func (ts *timeSeries) drawEndLabel(s string, end geom.Point, color string, opts SeriesOptions) (*text.Annotation, error) {
	f := ts.fig
	xr := f.XLim().Width()
	st := canvas.Style{"color": color}.Merge(opts.LabelStyle)

	a := text.NewAnnotation(f.c)
	dopts := text.DrawOptions{
		VA:          text.VACenter,
		Style:       st,
		WordSpacing: xr / 250,
		Space:       canvas.SpaceData,
	}
	start := end.X + 0.01*xr
	if _, err := a.DrawString(s, geom.Span{Start: start, End: start + xr}, end.Y, dopts); err != nil {
		return nil, err
	}

	ts.labels = append(ts.labels, a)
	blocks := make([]label.Block, len(ts.labels))
	for i, la := range ts.labels {
		blocks[i] = la
	}
	if err := label.Distribute(blocks, label.Options{MaxIterations: opts.MaxIterations}); err != nil {
		return nil, err
	}
	return a, nil
}

// annotatePoint marks one point and draws its annotation on the chosen side,
// nudged one percent of the axis range away from the point.
func (ts *timeSeries) annotatePoint(p geom.Point, pa PointAnnotation, color string, opts SeriesOptions) (*text.Annotation, error) {
	f := ts.fig
	mst := canvas.Style{"color": color}.Merge(opts.MarkerStyle).Merge(pa.MarkerStyle)
	f.c.DrawCircle(p, f.markerRadius(mst, DefaultMarkerSize, canvas.SpaceData), mst, canvas.SpaceData)

	xs, ys := f.XLim(), f.YLim()
	ha := pa.HA
	if ha == "" {
		if (p.X-xs.Start)/xs.Width() <= 0.1 {
			ha = text.AlignLeft
		} else {
			ha = text.AlignRight
		}
	}
	va := pa.VA
	if va == "" {
		if (p.Y-ys.Start)/ys.Width() >= 0.9 {
			va = text.VATop
		} else {
			va = text.VABottom
		}
	}

	xpad, slot := xs.Width()*0.01, xs.Width()*0.15
	var span geom.Span
	switch ha {
	case text.AlignLeft:
		span = geom.Span{Start: p.X + xpad, End: p.X + slot}
	case text.AlignRight:
		span = geom.Span{Start: p.X - slot, End: p.X - xpad}
	case text.AlignCenter:
		span = geom.Span{Start: p.X - slot/2, End: p.X + slot/2}
	default:
		return nil, errors.New(errors.ErrCodeInvalidArgument, "point annotations sit left, center or right, not %q", ha)
	}

	ay := p.Y
	switch va {
	case text.VATop:
		ay -= ys.Width() * 0.01
	case text.VABottom:
		ay += ys.Width() * 0.01
	}

	ast := canvas.Style{"color": color}.Merge(opts.AnnotationStyle).Merge(pa.Style)
	a := text.NewAnnotation(f.c)
	dopts := text.DrawOptions{
		Align:       ha,
		VA:          va,
		Style:       ast,
		WordSpacing: xs.Width() / 250,
		Space:       canvas.SpaceData,
	}
	if _, err := a.DrawString(pa.Text, span, ay, dopts); err != nil {
		return nil, err
	}
	return a, nil
}
