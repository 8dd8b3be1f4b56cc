package pipeline

import (
	"context"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/canvas/svg"
	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/fonts"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/render"
	"github.com/matzehuels/notate/pkg/text"
	"github.com/matzehuels/notate/pkg/viz"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout draws the document on a fresh SVG canvas and exports the
// placed geometry. The canvas is returned alongside the layout so a
// following render stage can serialize it without drawing twice.
func GenerateLayout(ctx context.Context, d *document.Document, th *document.Theme, opts Options) (render.Layout, *svg.Canvas, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return render.Layout{}, nil, err
	}
	cv, err := svg.New(svgOptions(th, opts))
	if err != nil {
		return render.Layout{}, nil, err
	}
	if _, err := BuildFigure(ctx, cv, d, th, opts); err != nil {
		return render.Layout{}, nil, err
	}
	return render.Export(cv, th.Name), cv, nil
}

// BuildFigure draws the document's axes, charts and surrounding text onto
// the canvas. Charts without an explicit color pick the next theme palette
// entry, in document order.
func BuildFigure(ctx context.Context, cv viz.ShapeCanvas, d *document.Document, th *document.Theme, opts Options) (*viz.Figure, error) {
	if err := loadThemeFont(th, opts); err != nil {
		return nil, err
	}

	cfg := th.Config(d.Config)
	if opts.FontSize > 0 {
		cfg.FontSize = opts.FontSize
	}
	fig, err := viz.New(cv, viz.Options{Config: cfg, Logger: opts.Logger})
	if err != nil {
		return nil, err
	}

	if err := applyAxes(fig, d.Axes); err != nil {
		return nil, err
	}

	series := 0
	for i, c := range d.Charts {
		if err := drawChart(ctx, fig, th, c, &series); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "chart %d", i)
		}
	}

	// Charts that fit the axes to their own labels would silently override
	// an explicit pin, so pinned limits are re-applied after drawing.
	if err := reassertLims(fig, d.Axes); err != nil {
		return nil, err
	}

	if err := applyAmbientText(fig, th, d); err != nil {
		return nil, err
	}
	return fig, nil
}

// loadThemeFont registers a theme's font file with the measuring library.
func loadThemeFont(th *document.Theme, opts Options) error {
	if th.Font.Path == "" {
		return nil
	}
	lib := opts.Fonts
	if lib == nil {
		lib = fonts.Default()
	}
	return lib.LoadFile(th.Font.Family, th.Font.Path)
}

// =============================================================================
// Document Application
// =============================================================================

// applyAxes pins limits and places ticks before any chart is drawn, so chart
// placement sees the document's coordinate system.
func applyAxes(fig *viz.Figure, a *document.Axes) error {
	if a == nil {
		return nil
	}
	if a.XLim != nil {
		if err := fig.SetXLim(a.XLim[0], a.XLim[1]); err != nil {
			return err
		}
	}
	if a.YLim != nil {
		if err := fig.SetYLim(a.YLim[0], a.YLim[1]); err != nil {
			return err
		}
	}
	if a.InvertY {
		fig.InvertY()
	}
	if len(a.XTicks) > 0 {
		side := a.XTickSide
		if side == "" {
			side = viz.SideBottom
		}
		if err := fig.SetXTicks(side, a.XTicks); err != nil {
			return err
		}
	}
	if len(a.YTicksLeft) > 0 {
		if err := fig.SetYTicks(viz.SideLeft, a.YTicksLeft); err != nil {
			return err
		}
	}
	if len(a.YTicksRight) > 0 {
		if err := fig.SetYTicks(viz.SideRight, a.YTicksRight); err != nil {
			return err
		}
	}
	return nil
}

// reassertLims re-applies pinned limits after the charts are drawn.
func reassertLims(fig *viz.Figure, a *document.Axes) error {
	if a == nil {
		return nil
	}
	if a.XLim != nil {
		if err := fig.SetXLim(a.XLim[0], a.XLim[1]); err != nil {
			return err
		}
	}
	if a.YLim != nil {
		if err := fig.SetYLim(a.YLim[0], a.YLim[1]); err != nil {
			return err
		}
	}
	return nil
}

// drawChart draws one chart.
func drawChart(ctx context.Context, fig *viz.Figure, th *document.Theme, c document.Chart, series *int) error {
	switch {
	case c.TimeSeries != nil:
		o := c.TimeSeries.Options
		o.Style = seriesStyle(th, series, o.Style)
		_, err := fig.DrawTimeSeries(c.TimeSeries.X, c.TimeSeries.Y, o)
		return err
	case c.Slope != nil:
		o := c.Slope.Options
		o.Style = seriesStyle(th, series, o.Style)
		_, err := fig.DrawSlope(c.Slope.Start, c.Slope.End, o)
		return err
	case c.Bar100 != nil:
		// Bar segments color by position, independent of the series cursor.
		values := make([]viz.BarValue, len(c.Bar100.Values))
		for i, v := range c.Bar100.Values {
			if v.Style.Color("") == "" {
				v.Style = th.SeriesStyle(i).Merge(v.Style)
			}
			values[i] = v
		}
		_, err := fig.DrawBar100(values, c.Bar100.Options)
		return err
	case c.Population != nil:
		o := c.Population.Options
		o.Style = seriesStyle(th, series, o.Style)
		_, err := fig.DrawPopulation(c.Population.Count, c.Population.Rows, o)
		return err
	case c.Network != nil:
		_, err := fig.DrawNetwork(ctx, c.Network.Graph, c.Network.Options)
		return err
	case c.Annotation != nil:
		a := c.Annotation
		topts := text.DrawOptions{
			Style: th.BaseStyle().Merge(a.Text.Style),
			Align: a.Text.Align,
			VA:    a.Text.VA,
		}
		span := geom.Span{Start: a.Span[0], End: a.Span[1]}
		_, err := fig.Annotate(a.Text.Tokens, span, a.Y, viz.AnnotateOptions{Text: topts, Marker: a.Marker})
		return err
	}
	return errors.New(errors.ErrCodeInvalidDocument, "chart declares no kind")
}

// seriesStyle fills in the next palette color for a style that names none.
// The palette cursor advances either way, so removing a color override does
// not reshuffle the colors of later charts.
func seriesStyle(th *document.Theme, series *int, st canvas.Style) canvas.Style {
	i := *series
	*series++
	if st.Color("") != "" {
		return st
	}
	return th.SeriesStyle(i).Merge(st)
}

// applyAmbientText sets title, caption and footnote from the document.
func applyAmbientText(fig *viz.Figure, th *document.Theme, d *document.Document) error {
	type slot struct {
		block *document.TextBlock
		set   func([]text.Token, text.DrawOptions) (*text.Annotation, error)
	}
	for _, s := range []slot{
		{d.Title, fig.SetTitle},
		{d.Caption, fig.SetCaption},
		{d.Footnote, fig.SetFootnote},
	} {
		if s.block == nil || s.block.Empty() {
			continue
		}
		topts := text.DrawOptions{
			Style: th.BaseStyle().Merge(s.block.Style),
			Align: s.block.Align,
		}
		if _, err := s.set(s.block.Tokens, topts); err != nil {
			return err
		}
	}
	return nil
}
