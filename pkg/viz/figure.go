package viz

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/text"
)

// =============================================================================
// Default Values - Single Source of Truth for Library, Themes, and CLI
// =============================================================================

const (
	// DefaultMarkerSize is the diameter of point markers as a fraction of
	// the horizontal axis range.
	DefaultMarkerSize = 0.015

	// DefaultNodeSize is the diameter of network nodes as a fraction of the
	// horizontal axis range.
	DefaultNodeSize = 0.05

	// axesGap is the breathing room between the axes box and the text
	// stacked around it, in axes units.
	axesGap = 0.015

	// footnoteDrop is how far below the axes box the footnote starts.
	footnoteDrop = 0.05

	// fontScaleStep is the relative size step between ambient text levels:
	// titles are one step larger than body text, footnotes one step smaller.
	fontScaleStep = 1.2

	// autoMargin is the fraction of the data extent added on each side when
	// axis limits are derived from the data.
	autoMargin = 0.05
)

// ShapeCanvas is the drawing surface a figure needs: the text canvas contract
// plus primitive shapes and a movable data viewport. The fake, raster and SVG
// canvases all satisfy it.
type ShapeCanvas interface {
	canvas.Canvas

	// DrawLine draws a polyline through the given points.
	DrawLine(pts []geom.Point, st canvas.Style, space canvas.Space) canvas.Handle

	// DrawRect draws a filled rectangle.
	DrawRect(r geom.Rect, st canvas.Style, space canvas.Space) canvas.Handle

	// DrawCircle draws a filled circle. The radius is in horizontal units
	// of the given space.
	DrawCircle(c geom.Point, r float64, st canvas.Style, space canvas.Space) canvas.Handle

	// SetViewport maps the given data rectangle onto the axes unit square.
	SetViewport(view geom.Rect)
}

// Options configures a figure.
type Options struct {
	// Config carries the text defaults applied to captions, ticks, labels
	// and legend entries. Zero fields fall back to the documented defaults.
	Config text.Config `json:"config"`

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults validates the options and fills unset fields with
// defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Config.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// Figure ties a canvas, its axes state and the text drawn around the plot
// area together. Chart draws, captions and legend entries all go through the
// figure so Redraw can restack them consistently.
//
// A figure is not safe for concurrent use.
type Figure struct {
	c    ShapeCanvas
	opts Options

	// Axes state. Explicit limits pin an axis; otherwise limits derive
	// from the union of drawn data extents plus a margin.
	xlim   *geom.Span
	ylim   *geom.Span
	extent *geom.Rect
	yflip  bool

	xticks    []Tick
	xtickSide Side
	yticks    map[Side][]Tick
	tickText  map[Side][]*text.Annotation

	caption  *text.Annotation
	footnote *text.Annotation
	title    *text.Annotation

	annotations []*text.Annotation
	legend      *Legend

	timeseries *timeSeries
	slope      *slopeChart
	bar100     *bar100Chart
	population *populationChart
	network    *networkChart
}

// New returns a figure on the given canvas with the axes mapped to the unit
// square.
func New(c ShapeCanvas, opts Options) (*Figure, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	f := &Figure{
		c:         c,
		opts:      opts,
		xtickSide: SideBottom,
		yticks:    make(map[Side][]Tick),
		tickText:  make(map[Side][]*text.Annotation),
	}
	f.pushViewport()
	return f, nil
}

// Canvas returns the underlying drawing surface.
func (f *Figure) Canvas() ShapeCanvas { return f.c }

// Config returns the text defaults the figure was created with.
func (f *Figure) Config() text.Config { return f.opts.Config }

// Annotations returns every annotation added through Annotate, in draw order.
func (f *Figure) Annotations() []*text.Annotation { return f.annotations }

// Legend returns the figure's legend, creating it on first use.
func (f *Figure) Legend() *Legend {
	if f.legend == nil {
		f.legend = &Legend{fig: f}
	}
	return f.legend
}

// Caption returns the current caption, or nil.
func (f *Figure) Caption() *text.Annotation { return f.caption }

// Footnote returns the current footnote, or nil.
func (f *Figure) Footnote() *text.Annotation { return f.footnote }

// Title returns the current title, or nil.
func (f *Figure) Title() *text.Annotation { return f.title }

// SetCaption draws tokens as the figure's caption: a block spanning the full
// axes width, stacked above the plot area and the legend. A previous caption
// is removed first. The vertical anchor and coordinate space are fixed; the
// remaining options are the caller's.
func (f *Figure) SetCaption(tokens []text.Token, opts text.DrawOptions) (*text.Annotation, error) {
	opts.Space = canvas.SpaceAxes
	opts.VA = text.VABottom
	if opts.LineHeight == 0 {
		opts.LineHeight = f.opts.Config.LineHeight
	}
	opts.Style = f.opts.Config.Style().Merge(opts.Style)
	a, err := f.replaceAmbient(&f.caption, tokens, 1, opts)
	if err != nil {
		return nil, err
	}
	f.opts.Logger.Debug("set caption", "lines", len(a.Lines()))
	return a, nil
}

// SetCaptionString splits a plain string on whitespace and sets it as the
// caption.
func (f *Figure) SetCaptionString(s string, opts text.DrawOptions) (*text.Annotation, error) {
	return f.SetCaption(text.Split(s), opts)
}

// SetFootnote draws tokens as the figure's footnote below the plot area, one
// font step smaller than body text.
func (f *Figure) SetFootnote(tokens []text.Token, opts text.DrawOptions) (*text.Annotation, error) {
	opts.Space = canvas.SpaceAxes
	opts.VA = text.VATop
	st := f.opts.Config.Style().With("fontsize", f.opts.Config.FontSize/fontScaleStep)
	opts.Style = st.Merge(opts.Style)
	return f.replaceAmbient(&f.footnote, tokens, 0, opts)
}

// SetFootnoteString splits a plain string on whitespace and sets it as the
// footnote.
func (f *Figure) SetFootnoteString(s string, opts text.DrawOptions) (*text.Annotation, error) {
	return f.SetFootnote(text.Split(s), opts)
}

// SetTitle draws tokens as the figure's title, one font step larger than body
// text and stacked above the caption. Titles are drawn at full opacity.
func (f *Figure) SetTitle(tokens []text.Token, opts text.DrawOptions) (*text.Annotation, error) {
	opts.Space = canvas.SpaceAxes
	opts.VA = text.VABottom
	st := canvas.Style{
		"fontsize": f.opts.Config.FontSize * fontScaleStep,
		"alpha":    1.0,
	}
	opts.Style = st.Merge(opts.Style)
	return f.replaceAmbient(&f.title, tokens, 1, opts)
}

// SetTitleString splits a plain string on whitespace and sets it as the
// title.
func (f *Figure) SetTitleString(s string, opts text.DrawOptions) (*text.Annotation, error) {
	return f.SetTitle(text.Split(s), opts)
}

// replaceAmbient swaps one of the ambient text slots and restacks. The slot's
// previous annotation is removed before the new one is drawn, so a failed
// draw clears the slot rather than leaving stale text.
func (f *Figure) replaceAmbient(slot **text.Annotation, tokens []text.Token, y float64, opts text.DrawOptions) (*text.Annotation, error) {
	if *slot != nil {
		(*slot).Remove()
		*slot = nil
	}
	a := text.NewAnnotation(f.c)
	if _, err := a.Draw(tokens, geom.Span{Start: 0, End: 1}, y, opts); err != nil {
		return nil, err
	}
	*slot = a
	f.Redraw()
	return a, nil
}

// Redraw recomputes everything whose position depends on figure-level state:
// the viewport, tick labels, the legend, and the caption, title and footnote
// stack. Chart items stay where they are; they live in data space and follow
// the viewport. Rendering sinks call Redraw before they snapshot.
func (f *Figure) Redraw() {
	f.pushViewport()
	f.redrawTicks()
	if f.legend != nil {
		f.legend.redraw()
	}
	f.redrawAmbient()
}

// redrawAmbient restacks caption, title and footnote around the plot area.
// The caption rests on top of the legend, the title on top of the caption,
// and the footnote hangs below the bottom tick labels.
func (f *Figure) redrawAmbient() {
	y := 1 + axesGap + f.topBand() + f.legendHeight()
	var captionHeight float64
	if f.caption != nil {
		_ = f.caption.SetPosition(geom.Point{X: 0, Y: y}, text.AlignLeft, text.VABottom)
		captionHeight = f.caption.BoundingBox().Height()
	}
	if f.title != nil {
		_ = f.title.SetPosition(geom.Point{X: 0, Y: y + captionHeight + axesGap}, text.AlignLeft, text.VABottom)
	}
	if f.footnote != nil {
		_ = f.footnote.SetPosition(geom.Point{X: 0, Y: -footnoteDrop - f.bottomBand()}, text.AlignLeft, text.VATop)
	}
}

func (f *Figure) legendHeight() float64 {
	if f.legend == nil {
		return 0
	}
	return f.legend.Height()
}

// markerRadius converts a marker diameter, given by the style's "size" key as
// a fraction of the x range, into units of the target space.
func (f *Figure) markerRadius(st canvas.Style, def float64, space canvas.Space) float64 {
	d := st.Size(def)
	if space == canvas.SpaceData {
		d *= f.XLim().Width()
	}
	return d / 2
}

// DrawTimeSeries draws a line through the given points and returns the drawn
// series. Repeated calls share one end-label pool, so labels of multiple
// series spread apart.
func (f *Figure) DrawTimeSeries(x, y []float64, opts SeriesOptions) (*Series, error) {
	if f.timeseries == nil {
		f.timeseries = &timeSeries{fig: f}
	}
	return f.timeseries.draw(x, y, opts)
}

// DrawSlope draws one slope per start/end value pair and returns the drawn
// slopes. Repeated calls share the side tick sets and the label pool.
func (f *Figure) DrawSlope(start, end []float64, opts SlopeOptions) (*SlopeResult, error) {
	if f.slope == nil {
		f.slope = &slopeChart{fig: f}
	}
	return f.slope.draw(start, end, opts)
}

// DrawBar100 draws one horizontal bar normalized to 100% and returns its
// segments. Repeated calls stack bars upward on the same axes.
func (f *Figure) DrawBar100(values []BarValue, opts Bar100Options) ([]canvas.Handle, error) {
	if f.bar100 == nil {
		f.bar100 = &bar100Chart{fig: f}
	}
	return f.bar100.draw(values, opts)
}

// DrawPopulation draws a dot grid of count points in the given number of rows
// and returns the points column by column. Repeated calls add columns to the
// right.
func (f *Figure) DrawPopulation(count, rows int, opts PopulationOptions) ([][]canvas.Handle, error) {
	if f.population == nil {
		f.population = &populationChart{fig: f}
	}
	return f.population.draw(count, rows, opts)
}
