package text

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for Library, Themes, and CLI
// =============================================================================

const (
	// DefaultFontSize is the font size in points used when neither the
	// style nor the theme sets one.
	DefaultFontSize = 10.0

	// DefaultWordSpacing is the gap between adjacent tokens, in drawing
	// units of the annotation's coordinate space.
	DefaultWordSpacing = 0.005

	// DefaultLineHeight is the line slot height as a multiple of the
	// measured text height.
	DefaultLineHeight = 1.25

	// DefaultAlpha is the opacity applied to ambient text such as captions
	// and footnotes.
	DefaultAlpha = 0.8
)

// Config carries the text defaults a theme or caller can override. The zero
// value is usable: ValidateAndSetDefaults fills every unset field.
type Config struct {
	// FontSize is the font size in points.
	FontSize float64 `json:"fontsize,omitempty" toml:"fontsize"`

	// WordSpacing is the gap between adjacent tokens in drawing units.
	WordSpacing float64 `json:"wordspacing,omitempty" toml:"wordspacing"`

	// LineHeight is the line slot height as a multiple of text height.
	LineHeight float64 `json:"lineheight,omitempty" toml:"lineheight"`

	// Alpha is the opacity for ambient text in [0, 1].
	Alpha float64 `json:"alpha,omitempty" toml:"alpha"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		FontSize:    DefaultFontSize,
		WordSpacing: DefaultWordSpacing,
		LineHeight:  DefaultLineHeight,
		Alpha:       DefaultAlpha,
	}
}

// ValidateAndSetDefaults fills unset fields with defaults and rejects
// negative values. It is idempotent.
func (c *Config) ValidateAndSetDefaults() error {
	if c.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "font size must not be negative, got %v", c.FontSize)
	}
	if c.WordSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "word spacing must not be negative, got %v", c.WordSpacing)
	}
	if c.LineHeight < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "line height must not be negative, got %v", c.LineHeight)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		return errors.New(errors.ErrCodeInvalidArgument, "alpha must be in [0, 1], got %v", c.Alpha)
	}

	if c.FontSize == 0 {
		c.FontSize = DefaultFontSize
	}
	if c.WordSpacing == 0 {
		c.WordSpacing = DefaultWordSpacing
	}
	if c.LineHeight == 0 {
		c.LineHeight = DefaultLineHeight
	}
	if c.Alpha == 0 {
		c.Alpha = DefaultAlpha
	}
	return nil
}

// Style returns the canvas style the config implies.
func (c Config) Style() canvas.Style {
	return canvas.Style{"fontsize": c.FontSize, "alpha": c.Alpha}
}

// DrawOptions controls a single Draw call. The zero value draws left-aligned,
// top-anchored text with the documented defaults.
type DrawOptions struct {
	// WordSpacing is the gap between adjacent tokens in drawing units.
	// Zero means DefaultWordSpacing.
	WordSpacing float64 `json:"wordspacing,omitempty"`

	// LineHeight is the line slot height as a multiple of the measured
	// text height. Zero means DefaultLineHeight.
	LineHeight float64 `json:"lineheight,omitempty"`

	// Align is the horizontal alignment of lines within the span.
	// Empty means AlignLeft.
	Align Align `json:"align,omitempty"`

	// VA is the vertical anchoring of the block relative to the y
	// coordinate. Empty means VATop.
	VA VAlign `json:"va,omitempty"`

	// Pad insets the block from the span on both sides and from the
	// anchor, in drawing units.
	Pad float64 `json:"pad,omitempty"`

	// LPad and RPad inset the span by the given fraction of its width, so
	// a block can occupy the middle of a wider band. Each is in [0, 1);
	// together they must leave part of the span usable.
	LPad float64 `json:"lpad,omitempty"`
	RPad float64 `json:"rpad,omitempty"`

	// TPad moves the anchor down by the given fraction of the viewport
	// height, reserving headroom above the block.
	TPad float64 `json:"tpad,omitempty"`

	// Style is the run-level style applied to every token; per-token
	// styles override it key-for-key.
	Style canvas.Style `json:"style,omitempty"`

	// Space selects the coordinate space positions are interpreted in.
	Space canvas.Space `json:"-"`

	validated bool
}

// ValidateAndSetDefaults validates the options and fills unset fields with
// defaults. It is idempotent and runs before anything is drawn, so a failed
// Draw leaves the canvas untouched.
func (o *DrawOptions) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.WordSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "word spacing must not be negative, got %v", o.WordSpacing)
	}
	if o.LineHeight < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "line height must not be negative, got %v", o.LineHeight)
	}
	if o.Pad < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "padding must not be negative, got %v", o.Pad)
	}
	if err := errors.ValidatePadding(o.LPad, o.RPad, o.TPad); err != nil {
		return err
	}

	if o.Align == "" {
		o.Align = AlignLeft
	}
	o.Align = o.Align.normalize()
	if !ValidAligns[o.Align] {
		return errors.New(errors.ErrCodeInvalidArgument, "unsupported alignment %q", o.Align)
	}

	if o.VA == "" {
		o.VA = VATop
	}
	if !ValidVAligns[o.VA] {
		return errors.New(errors.ErrCodeInvalidArgument, "unsupported vertical alignment %q", o.VA)
	}

	if o.WordSpacing == 0 {
		o.WordSpacing = DefaultWordSpacing
	}
	if o.LineHeight == 0 {
		o.LineHeight = DefaultLineHeight
	}

	o.validated = true
	return nil
}
