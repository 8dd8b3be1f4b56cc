// Package pipeline provides the core document pipeline for Notate.
//
// This package implements the complete parse → layout → render pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Load and validate the document from a file, URL, or inline bytes
//  2. Layout: Draw the document on a canvas and export the placed geometry
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "figure.json",
//	    Theme:   "dark",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Parse only
//	d, raw, err := pipeline.Parse(ctx, opts)
//
//	// Layout with an existing document
//	layout, err := runner.GenerateLayout(ctx, d, theme, hash, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, d, theme, layout, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notate/pkg/cache"
	"github.com/matzehuels/notate/pkg/canvas/svg"
	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/fonts"
	"github.com/matzehuels/notate/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultWidth is the default figure width in pixels.
	DefaultWidth = svg.DefaultWidth

	// DefaultHeight is the default figure height in pixels.
	DefaultHeight = svg.DefaultHeight

	// DefaultDPI converts point-based sizes (fonts, line widths) to pixels.
	DefaultDPI = svg.DefaultDPI

	// DefaultMargin is the fraction of each dimension kept free around the
	// plot area.
	DefaultMargin = svg.DefaultMargin

	// DefaultScale is the default PNG resolution multiplier.
	DefaultScale = 1
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the document pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Path    string `json:"path,omitempty"`   // File path or http(s) URL
	Source  []byte `json:"source,omitempty"` // Inline document bytes; wins over Path
	Theme   string `json:"theme,omitempty"`  // Built-in theme name or TOML path; wins over the document's theme
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options
	Width    int     `json:"width,omitempty"`
	Height   int     `json:"height,omitempty"`
	DPI      float64 `json:"dpi,omitempty"`
	Margin   float64 `json:"margin,omitempty"`
	FontSize float64 `json:"fontsize,omitempty"` // Overrides the document's base font size

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      int      `json:"scale,omitempty"`        // PNG resolution multiplier
	EmbedFonts bool     `json:"embed_fonts,omitempty"`  // Inline @font-face rules into the SVG
	PNGFromSVG bool     `json:"png_from_svg,omitempty"` // Rasterize the SVG with rsvg-convert instead of drawing natively

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	Fonts  *fonts.Library `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed document.
	Document *document.Document

	// DocumentHash is the content hash of the raw document bytes.
	DocumentHash string

	// Theme is the resolved theme the document was drawn with.
	Theme *document.Theme

	// Layout contains the placed geometry.
	Layout render.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ChartCount int           `json:"chart_count"`
	ItemCount  int           `json:"item_count"`
	ParseTime  time.Duration `json:"parse_time"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage. Parsing is local and
// cheap, so only layout and render are cached.
type CacheInfo struct {
	LayoutHit bool `json:"layout_hit"` // Whether the layout came from cache
	RenderHit bool `json:"render_hit"` // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// sourceLabel describes where the document comes from, for logs and hooks.
func (o *Options) sourceLabel() string {
	if o.Path != "" {
		return o.Path
	}
	return "inline"
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if len(o.Source) == 0 && o.Path == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "path or source is required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation. Defaults are
// filled eagerly so identical runs produce identical cache keys whether the
// caller spelled the defaults out or left them zero.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "fontsize must be positive, got %v", o.FontSize)
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 1 {
		return errors.New(errors.ErrCodeInvalidArgument, "scale must be at least 1, got %d", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Theme:    o.Theme,
		Width:    o.Width,
		Height:   o.Height,
		DPI:      o.DPI,
		Margin:   o.Margin,
		FontSize: o.FontSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Embed:  o.EmbedFonts,
	}
}
