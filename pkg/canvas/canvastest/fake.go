// Package canvastest provides a deterministic in-memory canvas for testing
// layout code without a rasterizer.
//
// The [Fake] measures text by rune count: every rune occupies a fixed-size
// cell in data units, scaled linearly by the style's font size relative to a
// 10 pt baseline. Identical inputs therefore always produce identical boxes,
// which lets layout tests assert exact coordinates.
package canvastest

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/geom"
)

// Default glyph cell size in data units at 10 pt.
const (
	DefaultCharWidth  = 0.05
	DefaultCharHeight = 0.1
)

// Fake is an in-memory canvas with rune-count text metrics. It records every
// drawn item so tests can inspect what ended up on the surface.
type Fake struct {
	// CharWidth and CharHeight are the data-unit dimensions of a single
	// rune cell at 10 pt. Font sizes scale them linearly.
	CharWidth  float64
	CharHeight float64

	viewport geom.Rect
	items    []*Item
}

var _ canvas.Canvas = (*Fake)(nil)

// Item is one drawn element. Geometry is kept in data space; Measure converts
// on the way out.
type Item struct {
	Text    string
	Style   canvas.Style
	Kind    string // "text", "line", "rect" or "circle"
	Removed bool

	x, y float64 // top-left corner, data space
	w, h float64
}

// Box reports the rectangle the item occupies, in data space.
func (it *Item) Box() geom.Rect {
	return geom.Rect{X0: it.x, Y0: it.y - it.h, X1: it.x + it.w, Y1: it.y}
}

// New returns a fake with default metrics and a unit-square viewport, so data
// and axes coordinates coincide until SetViewport changes the limits.
func New() *Fake {
	return &Fake{
		CharWidth:  DefaultCharWidth,
		CharHeight: DefaultCharHeight,
		viewport:   geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1},
	}
}

// SetViewport sets the data-space axis limits.
func (f *Fake) SetViewport(r geom.Rect) { f.viewport = r }

// Viewport reports the axis limits in data space, or the unit square in axes
// space.
func (f *Fake) Viewport(space canvas.Space) geom.Rect {
	if space == canvas.SpaceAxes {
		return geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}
	}
	return f.viewport
}

// RenderText draws text with its top-left corner at p.
func (f *Fake) RenderText(text string, p geom.Point, st canvas.Style, space canvas.Space) canvas.Handle {
	scale := st.FontSize(10) / 10
	it := &Item{
		Text:  text,
		Style: st,
		Kind:  "text",
		w:     f.CharWidth * float64(len([]rune(text))) * scale,
		h:     f.CharHeight * scale,
	}
	d := f.toData(p, space)
	it.x, it.y = d.X, d.Y
	f.items = append(f.items, it)
	return it
}

// Measure reports the box an item currently occupies.
func (f *Fake) Measure(h canvas.Handle, space canvas.Space) geom.Rect {
	it := h.(*Item)
	r := geom.Rect{X0: it.x, Y0: it.y - it.h, X1: it.x + it.w, Y1: it.y}
	return f.fromData(r, space)
}

// SetPosition moves an item so its top-left corner sits at p.
func (f *Fake) SetPosition(h canvas.Handle, p geom.Point, space canvas.Space) {
	it := h.(*Item)
	d := f.toData(p, space)
	it.x, it.y = d.X, d.Y
}

// Remove marks an item as deleted. The item stays in the record so tests can
// assert that probes were cleaned up.
func (f *Fake) Remove(h canvas.Handle) {
	h.(*Item).Removed = true
}

// DrawLine draws a polyline and returns a handle whose box is the envelope of
// the points.
func (f *Fake) DrawLine(pts []geom.Point, st canvas.Style, space canvas.Space) canvas.Handle {
	it := &Item{Style: st, Kind: "line"}
	if len(pts) > 0 {
		env := geom.Rect{X0: pts[0].X, Y0: pts[0].Y, X1: pts[0].X, Y1: pts[0].Y}
		for _, p := range pts[1:] {
			env = env.Union(geom.Rect{X0: p.X, Y0: p.Y, X1: p.X, Y1: p.Y})
		}
		env = f.rectToData(env, space)
		it.x, it.y = env.X0, env.Y1
		it.w, it.h = env.Width(), env.Height()
	}
	f.items = append(f.items, it)
	return it
}

// DrawRect draws a rectangle.
func (f *Fake) DrawRect(r geom.Rect, st canvas.Style, space canvas.Space) canvas.Handle {
	d := f.rectToData(r, space)
	it := &Item{Style: st, Kind: "rect", x: d.X0, y: d.Y1, w: d.Width(), h: d.Height()}
	f.items = append(f.items, it)
	return it
}

// DrawCircle draws a circle of radius r around c, in the units of the chosen
// space.
func (f *Fake) DrawCircle(c geom.Point, r float64, st canvas.Style, space canvas.Space) canvas.Handle {
	d := f.rectToData(geom.Rect{X0: c.X - r, Y0: c.Y - r, X1: c.X + r, Y1: c.Y + r}, space)
	it := &Item{Style: st, Kind: "circle", x: d.X0, y: d.Y1, w: d.Width(), h: d.Height()}
	f.items = append(f.items, it)
	return it
}

// Live returns the items that have not been removed, in draw order.
func (f *Fake) Live() []*Item {
	var live []*Item
	for _, it := range f.items {
		if !it.Removed {
			live = append(live, it)
		}
	}
	return live
}

// Texts returns the text content of live text items, in draw order.
func (f *Fake) Texts() []string {
	var texts []string
	for _, it := range f.Live() {
		if it.Kind == "text" {
			texts = append(texts, it.Text)
		}
	}
	return texts
}

// toData converts a point from the given space to data space.
func (f *Fake) toData(p geom.Point, space canvas.Space) geom.Point {
	if space == canvas.SpaceData {
		return p
	}
	return geom.Point{
		X: f.viewport.X0 + p.X*f.viewport.Width(),
		Y: f.viewport.Y0 + p.Y*f.viewport.Height(),
	}
}

// rectToData converts a rect from the given space to data space.
func (f *Fake) rectToData(r geom.Rect, space canvas.Space) geom.Rect {
	if space == canvas.SpaceData {
		return r
	}
	p0 := f.toData(geom.Point{X: r.X0, Y: r.Y0}, space)
	p1 := f.toData(geom.Point{X: r.X1, Y: r.Y1}, space)
	return geom.Rect{X0: p0.X, Y0: p0.Y, X1: p1.X, Y1: p1.Y}
}

// fromData converts a rect from data space to the given space.
func (f *Fake) fromData(r geom.Rect, space canvas.Space) geom.Rect {
	if space == canvas.SpaceData {
		return r
	}
	w, h := f.viewport.Width(), f.viewport.Height()
	return geom.Rect{
		X0: (r.X0 - f.viewport.X0) / w,
		Y0: (r.Y0 - f.viewport.Y0) / h,
		X1: (r.X1 - f.viewport.X0) / w,
		Y1: (r.Y1 - f.viewport.Y0) / h,
	}
}
