package render

import (
	"encoding/json"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/canvas/svg"
	"github.com/matzehuels/notate/pkg/errors"
)

// Layout is the serializable geometry of a rendered document: every live
// item with its final device-pixel box, in paint order. This is the primary
// data interchange format for downstream tools, enabling:
//
//   - Inspecting where each token and label actually landed
//   - Hit-testing and overlay generation in web frontends
//   - Caching, via a stable content hash of the marshaled bytes
//
// Pixel coordinates grow rightward and downward from the top-left corner,
// matching the SVG output.
type Layout struct {
	// Width and Height are the document size in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Theme names the theme the document rendered with.
	Theme string `json:"theme,omitempty"`

	// Items are the live drawing elements in paint order.
	Items []Item `json:"items"`
}

// Item is one placed drawing element.
type Item struct {
	// Kind is "text", "line", "rect" or "circle".
	Kind string `json:"kind"`

	// Text is the string content of text items.
	Text string `json:"text,omitempty"`

	// X, Y anchor the item's box at its top-left corner, in pixels.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Width and Height are the box extent in pixels.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Style is the style the item was drawn with.
	Style canvas.Style `json:"style,omitempty"`
}

// Export snapshots the canvas into a layout.
func Export(c *svg.Canvas, theme string) Layout {
	w, h := c.Size()
	items := c.Items()
	l := Layout{Width: w, Height: h, Theme: theme, Items: make([]Item, len(items))}
	for i, it := range items {
		l.Items[i] = Item{
			Kind:   it.Kind,
			Text:   it.Text,
			X:      it.Box.X0,
			Y:      it.Box.Y0,
			Width:  it.Box.Width(),
			Height: it.Box.Height(),
			Style:  it.Style,
		}
	}
	return l
}

// MarshalLayout encodes a layout as pretty-printed JSON. The bytes are
// stable for identical layouts, so they double as cache-key input.
func MarshalLayout(l Layout) ([]byte, error) {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	return data, nil
}

// UnmarshalLayout decodes layout JSON.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	return l, nil
}
