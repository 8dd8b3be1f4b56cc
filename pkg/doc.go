// Package pkg provides the core libraries for Notate chart rendering.
//
// # Overview
//
// Notate turns JSON chart documents into annotated figures where every label
// is placed to avoid overlapping the data and each other. The pkg directory
// is organized into four main areas:
//
//  1. Domain logic (text layout, label placement, chart drawing)
//  2. Infrastructure (caching, document storage, fonts, HTTP fetching)
//  3. Output (canvas backends, layout export, format conversion)
//  4. Orchestration (the parse → layout → render pipeline)
//
// # Architecture
//
// The typical data flow through Notate:
//
//	JSON document
//	      ↓
//	 [document] package (decode, validate, resolve theme)
//	      ↓
//	 [viz] package (draw charts on a canvas)
//	      ↓
//	 [label] + [text] packages (collision-free annotation placement)
//	      ↓
//	 SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Render a document through the pipeline:
//
//	import (
//	    "context"
//	    "os"
//	    "github.com/matzehuels/notate/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), pipeline.Options{
//	    Path:    "revenue.json",
//	    Formats: []string{"svg"},
//	})
//	os.WriteFile("revenue.svg", result.Artifacts["svg"], 0o644)
//
// Or draw directly:
//
//	import (
//	    "github.com/matzehuels/notate/pkg/canvas/svg"
//	    "github.com/matzehuels/notate/pkg/text"
//	    "github.com/matzehuels/notate/pkg/viz"
//	)
//
//	// 1. Create a canvas
//	c, _ := svg.New(svg.Options{Width: 1280, Height: 720})
//
//	// 2. Draw a chart with labeled series
//	f, _ := viz.New(c, viz.Options{})
//	f.DrawTimeSeries(x, y, viz.SeriesOptions{Label: "Revenue"})
//	f.SetTitleString("Quarterly revenue", text.DrawOptions{})
//
//	// 3. Serialize
//	data := c.Render()
//
// # Main Packages
//
// ## Domain Logic
//
// [text] - Rich text primitives: tokenization, styled token runs, line
// wrapping, alignment, and the annotation type every label is built from.
//
// [label] - Collision avoidance. Distributes annotation boxes vertically
// until none of them overlap, the core of Notate's labeling.
//
// [viz] - Chart drawing: time series, slope charts, 100% bar charts,
// population grids, and Graphviz-backed network diagrams, each with
// collision-free direct labels instead of a color legend.
//
// [document] - The JSON document model: charts, text blocks, axes limits,
// and TOML themes with validation.
//
// ## Output
//
// [canvas] - The drawing surface abstraction shared by all chart code, with
// data and axes coordinate spaces and style maps.
//
// [canvas/svg] - SVG canvas backend, the primary output path.
//
// [canvas/raster] - PNG canvas backend drawing via fogleman/gg.
//
// [render] - Layout export (the placed geometry as JSON) and external format
// conversion (SVG to PDF/PNG via rsvg-convert).
//
// [fonts] - TrueType font loading with the embedded Go family, system font
// discovery, and cached measurement faces.
//
// ## Infrastructure
//
// [cache] - Render cache with file, Redis, and null backends plus the keyer
// that derives document/layout/artifact cache keys.
//
// [store] - Document persistence for the HTTP API and CLI: memory, file,
// and MongoDB backends behind one interface.
//
// [httputil] - Cached, retrying HTTP fetching for documents loaded by URL.
//
// [errors] - Coded errors that survive wrapping, mapped to HTTP statuses by
// the server.
//
// [observability] - Hook points for pipeline stages, cache traffic, and
// outbound HTTP, used to plug in metrics without coupling.
//
// ## Orchestration
//
// [pipeline] - The complete parse → layout → render pipeline used by CLI and
// server. Ensures consistent behavior across all entry points.
//
// # Common Workflows
//
// Load and validate a document:
//
//	d, _ := document.ImportJSON("revenue.json")
//	th, _ := document.ResolveTheme("dark")
//
// Compute a layout without rendering:
//
//	layout, _ := runner.GenerateLayout(ctx, d, th, docHash, opts)
//	data, _ := render.MarshalLayout(layout)
//
// Store documents for the HTTP API:
//
//	st, _ := store.NewFileStore("")
//	rec, _ := st.Create(ctx, "quarterly report", d)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/label/...        # Specific package
//	go test -run Example           # Examples only
//
// [text]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/text
// [label]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/label
// [viz]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/viz
// [document]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/document
// [canvas]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/canvas
// [canvas/svg]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/canvas/svg
// [canvas/raster]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/canvas/raster
// [render]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/render
// [fonts]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/fonts
// [cache]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/store
// [httputil]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/notate/pkg/pipeline
package pkg
