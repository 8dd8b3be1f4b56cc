// Package svg implements the canvas as a self-contained SVG document. Text
// is measured with the same TrueType metrics the raster canvas uses, so a
// layout renders identically in both backends; emitted <text> elements carry
// an explicit textLength so viewers without the layout font keep the measured
// geometry.
package svg

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/fonts"
	"github.com/matzehuels/notate/pkg/geom"
)

// ============================================================================
// Default Values - Single Source of Truth
// ============================================================================

const (
	// DefaultWidth and DefaultHeight are the document size in pixels.
	DefaultWidth  = 1280
	DefaultHeight = 720

	// DefaultDPI converts point-based sizes (fonts, line widths) to pixels.
	DefaultDPI = 100.0

	// DefaultMargin is the fraction of each dimension kept free around the
	// plot area.
	DefaultMargin = 0.1

	// DefaultBackground fills the document behind all items.
	DefaultBackground = "white"

	// defaultFontSize applies when a style names no size, in points.
	defaultFontSize = 10.0
)

// Options configures an SVG canvas.
type Options struct {
	// Width and Height are the document size in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// DPI scales point-based sizes to pixels.
	DPI float64 `json:"dpi"`

	// Margin is the fraction of each dimension left around the plot area,
	// in [0, 0.5).
	Margin float64 `json:"margin"`

	// Background is the document fill color.
	Background string `json:"background"`

	// Font is the family used when a style names none.
	Font string `json:"font"`

	// EmbedFonts inlines the used library fonts as base64 @font-face rules,
	// making the document render identically without installed fonts at the
	// cost of a larger file.
	EmbedFonts bool `json:"embed_fonts"`

	// Fonts supplies the measurement faces. Defaults to the shared library.
	Fonts *fonts.Library `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "canvas size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "dpi must be positive, got %v", o.DPI)
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Margin < 0 || o.Margin >= 0.5 {
		return errors.New(errors.ErrCodeInvalidArgument, "margin must be in [0, 0.5), got %v", o.Margin)
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Background == "" {
		o.Background = DefaultBackground
	}
	if o.Font == "" {
		o.Font = fonts.DefaultName
	}
	if o.Fonts == nil {
		o.Fonts = fonts.Default()
	}
	o.validated = true
	return nil
}

type itemKind int

const (
	kindText itemKind = iota
	kindLine
	kindRect
	kindCircle
)

type item struct {
	kind  itemKind
	st    canvas.Style
	space canvas.Space

	text     string
	x, y     float64 // text top-left anchor
	wpx, hpx float64 // text box in pixels
	ascpx    float64 // baseline offset from the top

	pts    []geom.Point
	rect   geom.Rect
	center geom.Point
	radius float64

	removed bool
}

// Canvas builds an SVG document.
type Canvas struct {
	opts  Options
	view  geom.Rect
	items []*item
}

var _ canvas.Canvas = (*Canvas)(nil)

// New returns an SVG canvas with a unit-square viewport.
func New(opts Options) (*Canvas, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Canvas{
		opts: opts,
		view: geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1},
	}, nil
}

// Size returns the document dimensions in pixels.
func (c *Canvas) Size() (w, h int) {
	return c.opts.Width, c.opts.Height
}

// SetViewport sets the data-space axis limits.
func (c *Canvas) SetViewport(r geom.Rect) { c.view = r }

// Viewport reports the axis limits in data space, or the unit square in axes
// space.
func (c *Canvas) Viewport(space canvas.Space) geom.Rect {
	if space == canvas.SpaceAxes {
		return geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}
	}
	return c.view
}

// RenderText records text with its top-left corner at p.
func (c *Canvas) RenderText(text string, p geom.Point, st canvas.Style, space canvas.Space) canvas.Handle {
	it := &item{kind: kindText, st: st, space: space, text: text, x: p.X, y: p.Y}

	size := st.FontSize(defaultFontSize) * c.opts.DPI / 72
	if f, err := c.opts.Fonts.Face(st.Font(c.opts.Font), size); err == nil {
		ext := fonts.FaceExtents(f)
		it.wpx = fonts.Width(f, text)
		it.hpx = ext.Ascent + ext.Descent
		it.ascpx = ext.Ascent
	} else {
		it.wpx = 0.6 * size * float64(len([]rune(text)))
		it.hpx = 1.2 * size
		it.ascpx = size
	}

	c.items = append(c.items, it)
	return it
}

// Measure reports the box an item currently occupies. For text that is the
// tight glyph box; the style pad only grows the painted background.
func (c *Canvas) Measure(h canvas.Handle, space canvas.Space) geom.Rect {
	it := h.(*item)
	return c.convertRect(c.box(it), it.space, space)
}

// SetPosition moves an item so its box's top-left corner sits at p.
func (c *Canvas) SetPosition(h canvas.Handle, p geom.Point, space canvas.Space) {
	it := h.(*item)
	q := c.convertPoint(p, space, it.space)
	if it.kind == kindText {
		it.x, it.y = q.X, q.Y
		return
	}
	box := c.box(it)
	it.translate(q.X-box.X0, q.Y-box.Y1)
}

// Remove deletes an item from the canvas.
func (c *Canvas) Remove(h canvas.Handle) {
	h.(*item).removed = true
}

// DrawLine records a polyline through pts.
func (c *Canvas) DrawLine(pts []geom.Point, st canvas.Style, space canvas.Space) canvas.Handle {
	it := &item{kind: kindLine, st: st, space: space, pts: append([]geom.Point(nil), pts...)}
	c.items = append(c.items, it)
	return it
}

// DrawRect records a filled rectangle.
func (c *Canvas) DrawRect(r geom.Rect, st canvas.Style, space canvas.Space) canvas.Handle {
	it := &item{kind: kindRect, st: st, space: space, rect: r}
	c.items = append(c.items, it)
	return it
}

// DrawCircle records a circle of radius r around center, r in the horizontal
// units of the chosen space.
func (c *Canvas) DrawCircle(center geom.Point, r float64, st canvas.Style, space canvas.Space) canvas.Handle {
	it := &item{kind: kindCircle, st: st, space: space, center: center, radius: r}
	c.items = append(c.items, it)
	return it
}

// ----------------------------------------------------------------------------
// Geometry
// ----------------------------------------------------------------------------

type pixRect struct {
	x, y, w, h float64
}

func (c *Canvas) plot() pixRect {
	w, h := float64(c.opts.Width), float64(c.opts.Height)
	m := c.opts.Margin
	return pixRect{x: w * m, y: h * m, w: w * (1 - 2*m), h: h * (1 - 2*m)}
}

func (c *Canvas) box(it *item) geom.Rect {
	switch it.kind {
	case kindText:
		w, h := c.sizeFromPx(it.wpx, it.hpx, it.space)
		return geom.Rect{X0: it.x, Y0: it.y - h, X1: it.x + w, Y1: it.y}
	case kindLine:
		if len(it.pts) == 0 {
			return geom.Rect{}
		}
		env := geom.Rect{X0: it.pts[0].X, Y0: it.pts[0].Y, X1: it.pts[0].X, Y1: it.pts[0].Y}
		for _, p := range it.pts[1:] {
			env = env.Union(geom.Rect{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y})
		}
		return env
	case kindCircle:
		return geom.Rect{
			X0: it.center.X - it.radius, Y0: it.center.Y - it.radius,
			X1: it.center.X + it.radius, Y1: it.center.Y + it.radius,
		}
	default:
		return it.rect
	}
}

func (it *item) translate(dx, dy float64) {
	for i := range it.pts {
		it.pts[i].X += dx
		it.pts[i].Y += dy
	}
	it.rect = it.rect.Translate(dx, dy)
	it.center.X += dx
	it.center.Y += dy
	it.x += dx
	it.y += dy
}

func (c *Canvas) sizeFromPx(wpx, hpx float64, space canvas.Space) (w, h float64) {
	p := c.plot()
	w, h = wpx/p.w, hpx/p.h
	if space == canvas.SpaceData {
		w *= c.view.Width()
		h *= c.view.Height()
	}
	return w, h
}

func (c *Canvas) toAxes(p geom.Point, space canvas.Space) geom.Point {
	if space == canvas.SpaceAxes {
		return p
	}
	return geom.Point{
		X: (p.X - c.view.X0) / c.view.Width(),
		Y: (p.Y - c.view.Y0) / c.view.Height(),
	}
}

func (c *Canvas) fromAxes(p geom.Point, space canvas.Space) geom.Point {
	if space == canvas.SpaceAxes {
		return p
	}
	return geom.Point{
		X: c.view.X0 + p.X*c.view.Width(),
		Y: c.view.Y0 + p.Y*c.view.Height(),
	}
}

func (c *Canvas) convertPoint(p geom.Point, from, to canvas.Space) geom.Point {
	if from == to {
		return p
	}
	return c.fromAxes(c.toAxes(p, from), to)
}

func (c *Canvas) convertRect(r geom.Rect, from, to canvas.Space) geom.Rect {
	if from == to {
		return r
	}
	p0 := c.convertPoint(geom.Point{X: r.X0, Y: r.Y0}, from, to)
	p1 := c.convertPoint(geom.Point{X: r.X1, Y: r.Y1}, from, to)
	return geom.Rect{X0: p0.X, Y0: p0.Y, X1: p1.X, Y1: p1.Y}
}

// pixel maps a point in the given space to device coordinates, flipping y.
func (c *Canvas) pixel(pt geom.Point, space canvas.Space) (x, y float64) {
	ax := c.toAxes(pt, space)
	p := c.plot()
	return p.x + ax.X*p.w, p.y + (1-ax.Y)*p.h
}
