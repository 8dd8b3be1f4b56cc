// Package render turns drawn canvases into output artifacts.
//
// # Overview
//
// The figure layer draws onto a canvas; this package handles what leaves the
// process: format conversion and layout interchange. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG via librsvg)
//   - Layout export (final item boxes as JSON)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). PDF output always goes
// through this path; PNG normally comes from the native raster canvas and
// uses [ToPNG] only when a pixel-exact match with the SVG output is wanted.
//
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Layout Export
//
// [Export] snapshots an SVG canvas into a [Layout]: every live text token,
// label, line, rectangle and circle with its final pixel box, in paint
// order. [MarshalLayout] and [UnmarshalLayout] move layouts in and out of
// JSON for the layout command, the render cache and external tools.
package render
