package svg

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

// single-letter color aliases in the plotting tradition; everything else is
// passed through to the SVG viewer, which understands CSS colors natively.
var letters = map[string]string{
	"b": "blue", "g": "green", "r": "red", "c": "cyan",
	"m": "magenta", "y": "yellow", "k": "black", "w": "white",
}

// Render emits the current items as a complete SVG document.
func (c *Canvas) Render() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		c.opts.Width, c.opts.Height, c.opts.Width, c.opts.Height)

	if c.opts.EmbedFonts {
		c.writeFontDefs(&buf)
	}
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="%s"/>`+"\n",
		c.opts.Width, c.opts.Height, colorAttr(c.opts.Background, "white"))

	for _, it := range c.items {
		if it.removed {
			continue
		}
		c.writeItem(&buf, it)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// EncodeSVG writes the rendered document to w.
func (c *Canvas) EncodeSVG(w io.Writer) error {
	if _, err := w.Write(c.Render()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write svg")
	}
	return nil
}

// writeFontDefs inlines every used library font as a base64 @font-face rule,
// so the document renders with the same faces it was measured with.
func (c *Canvas) writeFontDefs(buf *bytes.Buffer) {
	used := make(map[string]bool)
	for _, it := range c.items {
		if it.kind == kindText && !it.removed {
			used[strings.ToLower(it.st.Font(c.opts.Font))] = true
		}
	}

	var rules []string
	for _, name := range slices.Sorted(maps.Keys(used)) {
		ttf, ok := c.opts.Fonts.TTF(name)
		if !ok {
			continue
		}
		rules = append(rules, fmt.Sprintf(
			`@font-face { font-family: %q; src: url(data:font/ttf;base64,%s) format("truetype"); }`,
			name, base64.StdEncoding.EncodeToString(ttf)))
	}
	if len(rules) == 0 {
		return
	}

	buf.WriteString("  <defs><style>\n")
	for _, rule := range rules {
		buf.WriteString("    " + rule + "\n")
	}
	buf.WriteString("  </style></defs>\n")
}

func (c *Canvas) writeItem(buf *bytes.Buffer, it *item) {
	switch it.kind {
	case kindText:
		c.writeText(buf, it)
	case kindLine:
		c.writeLine(buf, it)
	case kindRect:
		c.writeRect(buf, it)
	case kindCircle:
		c.writeCircle(buf, it)
	}
}

func (c *Canvas) writeText(buf *bytes.Buffer, it *item) {
	alpha := it.st.Alpha(1)

	if bg := it.st.Background(); bg != "" {
		box := c.box(it).Expand(it.st.Pad())
		x0, y1 := c.pixel(geom.Point{X: box.X0, Y: box.Y0}, it.space)
		x1, y0 := c.pixel(geom.Point{X: box.X1, Y: box.Y1}, it.space)
		fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.3f"`,
			x0, y0, x1-x0, y1-y0, colorAttr(bg, "white"), alpha)
		if edge := it.st.EdgeColor(); edge != "" {
			fmt.Fprintf(buf, ` stroke="%s" stroke-width="%.2f"`, colorAttr(edge, "black"), c.px(it.st.LineWidth(1)))
		}
		buf.WriteString("/>\n")
	}

	x, top := c.pixel(geom.Point{X: it.x, Y: it.y}, it.space)
	fmt.Fprintf(buf,
		`  <text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" fill="%s" fill-opacity="%.3f" textLength="%.2f">%s</text>`+"\n",
		x, top+it.ascpx,
		escapeXML(it.st.Font(c.opts.Font)), c.px(it.st.FontSize(defaultFontSize)),
		colorAttr(it.st.Color("black"), "black"), alpha, it.wpx, escapeXML(it.text))
}

func (c *Canvas) writeLine(buf *bytes.Buffer, it *item) {
	if len(it.pts) < 2 {
		return
	}
	var pts strings.Builder
	for i, p := range it.pts {
		x, y := c.pixel(p, it.space)
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%.2f,%.2f", x, y)
	}

	fmt.Fprintf(buf, `  <polyline points="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-opacity="%.3f"`,
		pts.String(), colorAttr(it.st.Color("black"), "black"), c.px(it.st.LineWidth(2)), it.st.Alpha(1))
	if it.st.Dashed() {
		d := c.px(4)
		fmt.Fprintf(buf, ` stroke-dasharray="%.2f %.2f"`, d, d)
	}
	buf.WriteString("/>\n")
}

func (c *Canvas) writeRect(buf *bytes.Buffer, it *item) {
	x0, y1 := c.pixel(geom.Point{X: it.rect.X0, Y: it.rect.Y0}, it.space)
	x1, y0 := c.pixel(geom.Point{X: it.rect.X1, Y: it.rect.Y1}, it.space)

	fmt.Fprintf(buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.3f"`,
		x0, y0, x1-x0, y1-y0, colorAttr(it.st.Color("gray"), "gray"), it.st.Alpha(1))
	if edge := it.st.EdgeColor(); edge != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%.2f"`, colorAttr(edge, "black"), c.px(it.st.LineWidth(1)))
	}
	buf.WriteString("/>\n")
}

func (c *Canvas) writeCircle(buf *bytes.Buffer, it *item) {
	cx, cy := c.pixel(it.center, it.space)
	edgeX, _ := c.pixel(geom.Point{X: it.center.X + it.radius, Y: it.center.Y}, it.space)

	fmt.Fprintf(buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"`,
		cx, cy, edgeX-cx, colorAttr(it.st.Color("black"), "black"), it.st.Alpha(1))
	if edge := it.st.EdgeColor(); edge != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="%.2f"`, colorAttr(edge, "black"), c.px(it.st.LineWidth(1)))
	}
	buf.WriteString("/>\n")
}

// px converts a point-based size to document pixels.
func (c *Canvas) px(pts float64) float64 {
	return pts * c.opts.DPI / 72
}

// colorAttr maps single-letter aliases and falls back to def for the empty
// string; other values pass through as CSS colors.
func colorAttr(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if full, ok := letters[strings.ToLower(s)]; ok {
		return full
	}
	return s
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var kindNames = map[itemKind]string{
	kindText:   "text",
	kindLine:   "line",
	kindRect:   "rect",
	kindCircle: "circle",
}

// Item is a snapshot of one live drawing element, exposed for layout export.
type Item struct {
	// Kind is "text", "line", "rect" or "circle".
	Kind string

	// Text is the string content of text items.
	Text string

	// Box is the item's envelope in device pixels, y growing downward.
	Box geom.Rect

	// Style is the style the item was drawn with.
	Style canvas.Style
}

// Items returns the live items in paint order with their final pixel boxes.
func (c *Canvas) Items() []Item {
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		if it.removed {
			continue
		}
		box := c.box(it)
		x0, y0 := c.pixel(geom.Point{X: box.X0, Y: box.Y1}, it.space)
		x1, y1 := c.pixel(geom.Point{X: box.X1, Y: box.Y0}, it.space)
		out = append(out, Item{
			Kind:  kindNames[it.kind],
			Text:  it.text,
			Box:   geom.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1},
			Style: it.st,
		})
	}
	return out
}
