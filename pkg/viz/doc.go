// Package viz composes the text, label and canvas layers into complete
// figures: charts with captions, footnotes, titles, axis ticks and a legend,
// all placed in the same axes coordinate system.
//
// # Figure
//
// A [Figure] wraps a [ShapeCanvas] and owns everything drawn on it. Chart
// methods add data items, [Figure.SetCaption] and friends add the narrative
// text around the plot area, and [Figure.Redraw] restacks that text after
// the layout changed. Rendering sinks call Redraw before they snapshot.
//
// # Charts
//
// Each chart type keeps its own state on the figure and is reached through a
// Draw method:
//
//   - [Figure.DrawTimeSeries] - lines with end-of-line labels and per-point
//     annotations
//   - [Figure.DrawSlope] - slope graphs with side ticks and labels
//   - [Figure.DrawBar100] - horizontal bars normalized to 100%
//   - [Figure.DrawPopulation] - dot grids
//   - [Figure.DrawNetwork] - node-link diagrams laid out by Graphviz
//
// Charts style the axes on first use (limits, tick sides) and register
// labelled series with the figure's [Legend]. Overlapping labels are spread
// by the label distributor, so repeated draws on the same figure stay
// readable.
//
// # Coordinates
//
// Everything here works in axes or data space as defined by
// [github.com/matzehuels/notate/pkg/canvas]. The plot area is the axes unit
// square; captions, legends, ticks and footnotes live just outside it at
// fixed axes offsets and survive data-limit changes unchanged.
package viz
