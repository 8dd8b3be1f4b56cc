// Package document defines the JSON document format binding data and chart
// declarations into a renderable figure.
//
// # Overview
//
// A document is the serializable counterpart of a built-up [viz.Figure]: the
// charts to draw, the text stacked around the plot area, and the axes
// styling. The format is designed for:
//
//   - Declarative rendering: the CLI and server turn documents into SVG,
//     PNG, PDF or layout JSON without any code
//   - Caching: a document's bytes hash into the pipeline's cache keys
//   - Round-trip preservation: read, render, write, and re-read identically
//
// # JSON Format
//
// A minimal document is a chart list:
//
//	{
//	  "charts": [
//	    {"timeseries": {"x": [0, 1, 2], "y": [10, 30, 20],
//	                    "options": {"label": "Lyon"}}}
//	  ]
//	}
//
// Each chart object carries exactly one chart kind: "timeseries", "slope",
// "bar100", "population", "network" or "annotation". The chart payloads
// mirror the option structs of [viz], so everything the library accepts in
// code can be said in a document.
//
// # Text Blocks
//
// Wherever the format takes text (title, caption, footnote, annotations), a
// plain string, a token list, or a full block object are all accepted:
//
//	"caption": "hello world"
//	"caption": ["hello", {"text": "world", "style": {"color": "crimson"}}]
//	"caption": {"text": "hello world", "align": "center"}
//
// Strings split into unstyled tokens on whitespace, exactly like
// [text.Split]. Mixed lists promote bare strings the same way.
//
// # Import and Export
//
// [ReadJSON] decodes a document from an io.Reader, [ImportJSON] from a file
// path; [WriteJSON] and [ExportJSON] are their writing counterparts. Reads
// validate the document before returning it, so a non-nil result is always
// structurally sound. Rendering may still fail on semantic grounds (say, a
// slope chart with mismatched value counts); those errors surface when the
// charts are drawn.
package document

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/text"
	"github.com/matzehuels/notate/pkg/viz"
)

// Version is the current document format version. Documents without a
// version field are treated as current.
const Version = 1

// Document is a renderable figure description.
type Document struct {
	// Version is the format version; zero means current.
	Version int `json:"version,omitempty" bson:"version,omitempty"`

	// Theme names the theme to render with. Empty means the default or
	// whatever theme the caller picks.
	Theme string `json:"theme,omitempty" bson:"theme,omitempty"`

	// Config overrides the text defaults for this document. Zero fields
	// fall back to the theme, then to the library defaults.
	Config text.Config `json:"config,omitempty" bson:"config,omitempty"`

	// Title, Caption and Footnote are the text blocks stacked around the
	// plot area.
	Title    *TextBlock `json:"title,omitempty" bson:"title,omitempty"`
	Caption  *TextBlock `json:"caption,omitempty" bson:"caption,omitempty"`
	Footnote *TextBlock `json:"footnote,omitempty" bson:"footnote,omitempty"`

	// Axes styles the axes explicitly; charts may restyle them further.
	Axes *Axes `json:"axes,omitempty" bson:"axes,omitempty"`

	// Charts are drawn in order.
	Charts []Chart `json:"charts" bson:"charts"`
}

// Axes pins limits and ticks before any chart is drawn.
type Axes struct {
	// XLim and YLim pin the data limits as {low, high}. Nil leaves the
	// axis autoscaling.
	XLim *[2]float64 `json:"xlim,omitempty" bson:"xlim,omitempty"`
	YLim *[2]float64 `json:"ylim,omitempty" bson:"ylim,omitempty"`

	// XTicks labels the x axis on XTickSide (empty means bottom).
	XTicks    []viz.Tick `json:"xticks,omitempty" bson:"xticks,omitempty"`
	XTickSide viz.Side   `json:"xtick_side,omitempty" bson:"xtick_side,omitempty"`

	// YTicksLeft and YTicksRight label the y axis per side.
	YTicksLeft  []viz.Tick `json:"yticks_left,omitempty" bson:"yticks_left,omitempty"`
	YTicksRight []viz.Tick `json:"yticks_right,omitempty" bson:"yticks_right,omitempty"`

	// InvertY flips the y axis so values grow downward.
	InvertY bool `json:"invert_y,omitempty" bson:"invert_y,omitempty"`
}

// Chart declares one chart. Exactly one kind must be set.
type Chart struct {
	TimeSeries *TimeSeriesChart `json:"timeseries,omitempty" bson:"timeseries,omitempty"`
	Slope      *SlopeChart      `json:"slope,omitempty" bson:"slope,omitempty"`
	Bar100     *Bar100Chart     `json:"bar100,omitempty" bson:"bar100,omitempty"`
	Population *PopulationChart `json:"population,omitempty" bson:"population,omitempty"`
	Network    *NetworkChart    `json:"network,omitempty" bson:"network,omitempty"`
	Annotation *AnnotationChart `json:"annotation,omitempty" bson:"annotation,omitempty"`
}

// Kind names the chart kind that is set, or returns an error when the chart
// carries none or several.
func (c Chart) Kind() (string, error) {
	var kinds []string
	if c.TimeSeries != nil {
		kinds = append(kinds, "timeseries")
	}
	if c.Slope != nil {
		kinds = append(kinds, "slope")
	}
	if c.Bar100 != nil {
		kinds = append(kinds, "bar100")
	}
	if c.Population != nil {
		kinds = append(kinds, "population")
	}
	if c.Network != nil {
		kinds = append(kinds, "network")
	}
	if c.Annotation != nil {
		kinds = append(kinds, "annotation")
	}
	switch len(kinds) {
	case 0:
		return "", errors.New(errors.ErrCodeInvalidDocument, "chart declares no kind")
	case 1:
		return kinds[0], nil
	default:
		return "", errors.New(errors.ErrCodeInvalidDocument,
			"chart declares several kinds: %s", strings.Join(kinds, ", "))
	}
}

// TimeSeriesChart declares one DrawTimeSeries call.
type TimeSeriesChart struct {
	X       []float64         `json:"x" bson:"x"`
	Y       []float64         `json:"y" bson:"y"`
	Options viz.SeriesOptions `json:"options" bson:"options"`
}

// SlopeChart declares one DrawSlope call.
type SlopeChart struct {
	Start   []float64        `json:"start" bson:"start"`
	End     []float64        `json:"end" bson:"end"`
	Options viz.SlopeOptions `json:"options" bson:"options"`
}

// Bar100Chart declares one DrawBar100 call.
type Bar100Chart struct {
	Values  []viz.BarValue    `json:"values" bson:"values"`
	Options viz.Bar100Options `json:"options" bson:"options"`
}

// PopulationChart declares one DrawPopulation call.
type PopulationChart struct {
	Count   int                   `json:"count" bson:"count"`
	Rows    int                   `json:"rows" bson:"rows"`
	Options viz.PopulationOptions `json:"options" bson:"options"`
}

// NetworkChart declares one DrawNetwork call.
type NetworkChart struct {
	Graph   viz.Graph          `json:"graph" bson:"graph"`
	Options viz.NetworkOptions `json:"options" bson:"options"`
}

// AnnotationChart declares one free annotation: a text block wrapped into a
// span at a y position, with an optional point marker.
type AnnotationChart struct {
	Text   TextBlock    `json:"text" bson:"text"`
	Span   [2]float64   `json:"span" bson:"span"`
	Y      float64      `json:"y" bson:"y"`
	Marker canvas.Style `json:"marker,omitempty" bson:"marker,omitempty"`
}

// Validate checks the document's structure: a known version, every chart
// with exactly one kind, and ordered axis limits. Semantic validation (value
// counts, keyword sets) happens when the charts are drawn.
func (d *Document) Validate() error {
	if d.Version < 0 || d.Version > Version {
		return errors.New(errors.ErrCodeInvalidDocument,
			"unsupported document version %d, this build reads up to %d", d.Version, Version)
	}

	cfg := d.Config
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "config")
	}

	if d.Axes != nil {
		for _, lim := range []struct {
			name string
			v    *[2]float64
		}{{"xlim", d.Axes.XLim}, {"ylim", d.Axes.YLim}} {
			if lim.v != nil && lim.v[0] >= lim.v[1] {
				return errors.New(errors.ErrCodeInvalidDocument,
					"%s is empty: [%g, %g]", lim.name, lim.v[0], lim.v[1])
			}
		}
		if d.Axes.XTickSide != "" && !viz.ValidXSides[d.Axes.XTickSide] {
			return errors.New(errors.ErrCodeInvalidDocument,
				"x ticks sit on top or bottom, not %q", d.Axes.XTickSide)
		}
	}

	for i, c := range d.Charts {
		if _, err := c.Kind(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "chart %d", i)
		}
	}
	return nil
}

// ReadJSON decodes a document from r and validates it.
//
// The returned document is independent of r and can be modified safely
// after ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ImportJSON reads a JSON document file at path.
//
// ImportJSON opens the file, decodes it using [ReadJSON], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportJSON(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// WriteJSON encodes a document as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a document to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(d, f)
}
