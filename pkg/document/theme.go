package document

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/text"
)

// Theme bundles the visual defaults a document renders with: text sizing,
// colors, and the font. Themes live in TOML files:
//
//	name = "print"
//
//	[text]
//	fontsize = 11
//	lineheight = 1.3
//
//	[colors]
//	background = "#ffffff"
//	foreground = "#111111"
//	palette = ["#1f77b4", "#ff7f0e", "#2ca02c"]
//
//	[font]
//	family = "Helvetica"
//
// Every field is optional; unset fields keep the defaults of [DefaultTheme].
// Unknown keys are rejected so typos fail loudly instead of silently
// rendering with defaults.
type Theme struct {
	// Name identifies the theme in logs and cache keys.
	Name string `toml:"name" json:"name"`

	// Text sets the text defaults documents inherit.
	Text text.Config `toml:"text" json:"text"`

	// Colors holds the background, the default ink, and the series palette.
	Colors ThemeColors `toml:"colors" json:"colors"`

	// Font names the typeface to measure and rasterize with. Family is the
	// lookup name; Path optionally points at a TTF file to load it from.
	Font ThemeFont `toml:"font" json:"font"`
}

// ThemeColors is the color section of a theme.
type ThemeColors struct {
	Background string   `toml:"background" json:"background"`
	Foreground string   `toml:"foreground" json:"foreground"`
	Palette    []string `toml:"palette" json:"palette"`
}

// ThemeFont is the font section of a theme.
type ThemeFont struct {
	Family string `toml:"family" json:"family"`
	Path   string `toml:"path,omitempty" json:"path,omitempty"`
}

// defaultPalette cycles through ten well-separated hues.
var defaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// DefaultTheme returns the built-in light theme: dark ink on white with the
// standard ten-color palette.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "default",
		Colors: ThemeColors{
			Background: "#ffffff",
			Foreground: "#333333",
			Palette:    append([]string(nil), defaultPalette...),
		},
		Font: ThemeFont{Family: "go"},
	}
}

// DarkTheme returns the built-in dark theme: light ink on near-black, with
// the same palette as [DefaultTheme].
func DarkTheme() *Theme {
	t := DefaultTheme()
	t.Name = "dark"
	t.Colors.Background = "#1c1c1c"
	t.Colors.Foreground = "#e8e8e8"
	return t
}

// builtinThemes maps names resolvable without a file.
func builtinThemes() map[string]*Theme {
	return map[string]*Theme{
		"default": DefaultTheme(),
		"dark":    DarkTheme(),
	}
}

// BuiltinThemeNames lists the names [ResolveTheme] accepts without a file,
// sorted for stable help output.
func BuiltinThemeNames() []string {
	m := builtinThemes()
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTheme turns a --theme argument into a theme: the empty string and
// built-in names resolve directly, anything else is read as a TOML file
// path.
func ResolveTheme(nameOrPath string) (*Theme, error) {
	if nameOrPath == "" {
		return DefaultTheme(), nil
	}
	if t, ok := builtinThemes()[nameOrPath]; ok {
		return t, nil
	}
	return LoadTheme(nameOrPath)
}

// LoadTheme reads a theme from a TOML file and validates it. Unset fields
// fall back to the defaults of [DefaultTheme]; unknown keys are an error.
func LoadTheme(path string) (*Theme, error) {
	var t Theme
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidTheme,
			"%s has unknown keys: %s", path, strings.Join(keys, ", "))
	}
	t.applyDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// applyDefaults fills unset fields from the default theme.
func (t *Theme) applyDefaults() {
	def := DefaultTheme()
	if t.Name == "" {
		t.Name = def.Name
	}
	if t.Colors.Background == "" {
		t.Colors.Background = def.Colors.Background
	}
	if t.Colors.Foreground == "" {
		t.Colors.Foreground = def.Colors.Foreground
	}
	if len(t.Colors.Palette) == 0 {
		t.Colors.Palette = def.Colors.Palette
	}
	if t.Font.Family == "" {
		t.Font.Family = def.Font.Family
	}
}

// Validate rejects themes that cannot render.
func (t *Theme) Validate() error {
	cfg := t.Text
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTheme, err, "theme %q", t.Name)
	}
	if len(t.Colors.Palette) == 0 {
		return errors.New(errors.ErrCodeInvalidTheme, "theme %q has an empty palette", t.Name)
	}
	for i, c := range t.Colors.Palette {
		if strings.TrimSpace(c) == "" {
			return errors.New(errors.ErrCodeInvalidTheme,
				"theme %q palette entry %d is empty", t.Name, i)
		}
	}
	return nil
}

// Config returns the document text config layered over the theme's: fields
// the document sets win, everything else comes from the theme.
func (t *Theme) Config(doc text.Config) text.Config {
	merged := t.Text
	if doc.FontSize != 0 {
		merged.FontSize = doc.FontSize
	}
	if doc.WordSpacing != 0 {
		merged.WordSpacing = doc.WordSpacing
	}
	if doc.LineHeight != 0 {
		merged.LineHeight = doc.LineHeight
	}
	if doc.Alpha != 0 {
		merged.Alpha = doc.Alpha
	}
	return merged
}

// SeriesStyle returns the style for the i-th unstyled series, cycling
// through the palette.
func (t *Theme) SeriesStyle(i int) canvas.Style {
	if len(t.Colors.Palette) == 0 {
		return canvas.Style{"color": DefaultTheme().Colors.Foreground}
	}
	return canvas.Style{"color": t.Colors.Palette[i%len(t.Colors.Palette)]}
}

// BaseStyle returns the style for axis ticks, captions and other chrome.
func (t *Theme) BaseStyle() canvas.Style {
	return canvas.Style{"color": t.Colors.Foreground}
}
