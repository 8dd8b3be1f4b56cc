package raster

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/geom"
)

// rasterize paints every live item into a fresh image, supersampled by the
// configured factor and downsampled with a Lanczos filter.
func (c *Canvas) rasterize() image.Image {
	s := float64(c.opts.Supersample)
	dc := gg.NewContext(c.opts.Width*c.opts.Supersample, c.opts.Height*c.opts.Supersample)

	r, g, b, ok := parseColor(c.opts.Background)
	if !ok {
		r, g, b = 1, 1, 1
	}
	dc.SetRGB(r, g, b)
	dc.Clear()

	p := painter{c: c, dc: dc, s: s}
	for _, it := range c.items {
		if it.removed {
			continue
		}
		p.paint(it)
	}

	img := dc.Image()
	if c.opts.Supersample > 1 {
		img = imaging.Resize(img, c.opts.Width, c.opts.Height, imaging.Lanczos)
	}
	return img
}

// painter draws items into a supersampled gg context. All pixel coordinates
// are base-resolution values multiplied by s.
type painter struct {
	c  *Canvas
	dc *gg.Context
	s  float64
}

func (p *painter) paint(it *item) {
	switch it.kind {
	case kindText:
		p.text(it)
	case kindLine:
		p.line(it)
	case kindRect:
		p.rect(it)
	case kindCircle:
		p.circle(it)
	}
}

// pixel maps a point in the given space to supersampled device coordinates,
// flipping y on the way.
func (p *painter) pixel(pt geom.Point, space canvas.Space) (x, y float64) {
	ax := p.c.toAxes(pt, space)
	pl := p.c.plot()
	return (pl.x + ax.X*pl.w) * p.s, (pl.y + (1-ax.Y)*pl.h) * p.s
}

func (p *painter) setColor(spec string, def string, alpha float64) {
	r, g, b, ok := parseColor(spec)
	if !ok {
		r, g, b, ok = parseColor(def)
		if !ok {
			r, g, b = 0, 0, 0
		}
	}
	p.dc.SetRGBA(r, g, b, alpha)
}

// strokeWidth converts a point-based line width to supersampled pixels.
func (p *painter) strokeWidth(pts float64) float64 {
	return pts * p.c.opts.DPI / 72 * p.s
}

func (p *painter) text(it *item) {
	alpha := it.st.Alpha(1)

	// Box behind the glyphs first, grown by the style pad.
	if bg := it.st.Background(); bg != "" {
		box := p.c.box(it).Expand(it.st.Pad())
		x0, y1 := p.pixel(geom.Point{X: box.X0, Y: box.Y0}, it.space)
		x1, y0 := p.pixel(geom.Point{X: box.X1, Y: box.Y1}, it.space)
		p.setColor(bg, "white", alpha)
		p.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		p.dc.Fill()
		if edge := it.st.EdgeColor(); edge != "" {
			p.setColor(edge, "black", alpha)
			p.dc.SetLineWidth(p.strokeWidth(it.st.LineWidth(1)))
			p.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
			p.dc.Stroke()
		}
	}

	f, ok := p.c.face(it.st, p.s)
	if !ok {
		return
	}
	x, top := p.pixel(geom.Point{X: it.x, Y: it.y}, it.space)
	p.setColor(it.st.Color("black"), "black", alpha)
	p.dc.SetFontFace(f)
	p.dc.DrawString(it.text, x, top+it.ascpx*p.s)
}

func (p *painter) line(it *item) {
	if len(it.pts) < 2 {
		return
	}
	p.setColor(it.st.Color("black"), "black", it.st.Alpha(1))
	p.dc.SetLineWidth(p.strokeWidth(it.st.LineWidth(2)))
	if it.st.Dashed() {
		d := p.strokeWidth(4)
		p.dc.SetDash(d, d)
	}
	x, y := p.pixel(it.pts[0], it.space)
	p.dc.MoveTo(x, y)
	for _, pt := range it.pts[1:] {
		x, y = p.pixel(pt, it.space)
		p.dc.LineTo(x, y)
	}
	p.dc.Stroke()
	p.dc.SetDash()
}

func (p *painter) rect(it *item) {
	x0, y1 := p.pixel(geom.Point{X: it.rect.X0, Y: it.rect.Y0}, it.space)
	x1, y0 := p.pixel(geom.Point{X: it.rect.X1, Y: it.rect.Y1}, it.space)
	alpha := it.st.Alpha(1)

	p.setColor(it.st.Color("gray"), "gray", alpha)
	p.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
	p.dc.Fill()

	if edge := it.st.EdgeColor(); edge != "" {
		p.setColor(edge, "black", alpha)
		p.dc.SetLineWidth(p.strokeWidth(it.st.LineWidth(1)))
		p.dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
		p.dc.Stroke()
	}
}

func (p *painter) circle(it *item) {
	x, y := p.pixel(it.center, it.space)
	edgeX, _ := p.pixel(geom.Point{X: it.center.X + it.radius, Y: it.center.Y}, it.space)
	r := edgeX - x
	alpha := it.st.Alpha(1)

	p.setColor(it.st.Color("black"), "black", alpha)
	p.dc.DrawCircle(x, y, r)
	p.dc.Fill()

	if edge := it.st.EdgeColor(); edge != "" {
		p.setColor(edge, "black", alpha)
		p.dc.SetLineWidth(p.strokeWidth(it.st.LineWidth(1)))
		p.dc.DrawCircle(x, y, r)
		p.dc.Stroke()
	}
}
