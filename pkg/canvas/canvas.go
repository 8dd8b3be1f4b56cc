// Package canvas defines the drawing surface that the layout engine measures
// against and renders onto.
//
// The layout engine never touches pixels directly. It places text through a
// [Canvas], reads back the box each placement actually occupies, and adjusts
// positions until lines and labels sit where they should. Any surface that can
// render text, report bounding boxes, and move previously drawn items can host
// the engine: the built-in implementations are a PNG rasterizer
// (canvas/raster) and an SVG writer (canvas/svg), and tests use a
// deterministic fake (canvas/canvastest).
//
// # Coordinate spaces
//
// All geometry is expressed with the y-axis pointing up, so a box's Y1 is its
// top edge. Positions and boxes are interpreted in one of two spaces:
//
//   - [SpaceData]: the data coordinate system of the plot, bounded by the
//     axis limits.
//   - [SpaceAxes]: the unit square over the axes box, where (0, 0) is the
//     bottom-left corner and (1, 1) the top-right. Captions and footnotes use
//     this space so they stay put when the data limits change.
//
// # Handles
//
// Every drawing operation returns a [Handle]: an opaque reference to the drawn
// item. Handles are how the engine measures ([Canvas.Measure]), repositions
// ([Canvas.SetPosition]) and deletes ([Canvas.Remove]) items after the fact.
// A handle is only meaningful to the canvas that issued it.
package canvas

import "github.com/matzehuels/notate/pkg/geom"

// Space selects the coordinate system used to interpret positions and boxes.
type Space int

const (
	// SpaceData is the data coordinate system, bounded by the axis limits.
	SpaceData Space = iota

	// SpaceAxes is the unit square over the axes box: (0, 0) bottom-left,
	// (1, 1) top-right.
	SpaceAxes
)

// String returns the space name for logs and error messages.
func (s Space) String() string {
	switch s {
	case SpaceData:
		return "data"
	case SpaceAxes:
		return "axes"
	default:
		return "unknown"
	}
}

// Handle is an opaque reference to an item drawn on a canvas. The zero value
// is never a valid handle.
type Handle any

// Canvas is the surface the layout engine draws on and measures against.
//
// RenderText anchors the top-left corner of the text's box at p; vertical
// alignment of whole blocks is resolved by the layout engine, which
// repositions items after measuring them. Measure reports the box an item
// currently occupies, reflecting any SetPosition calls made since it was
// drawn. Remove deletes an item, which the engine uses for ephemeral probes
// such as line-height measurement.
//
// Implementations are not required to be safe for concurrent use; the layout
// engine drives a canvas from a single goroutine.
type Canvas interface {
	// RenderText draws text with its top-left corner at p and returns a
	// handle to the drawn item.
	RenderText(text string, p geom.Point, st Style, space Space) Handle

	// Measure reports the bounding box the item currently occupies.
	Measure(h Handle, space Space) geom.Rect

	// SetPosition moves an item so its top-left corner sits at p, keeping
	// its content and style.
	SetPosition(h Handle, p geom.Point, space Space)

	// Remove deletes an item from the canvas.
	Remove(h Handle)

	// Viewport reports the drawable region: the axis limits in SpaceData,
	// or the unit square in SpaceAxes.
	Viewport(space Space) geom.Rect
}
