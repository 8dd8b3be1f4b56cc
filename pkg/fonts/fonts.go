// Package fonts loads TrueType fonts and hands out cached faces for text
// measurement and rasterization.
//
// A [Library] maps font names to parsed fonts. Every library starts with the
// embedded Go font family (no files needed at runtime):
//
//	go, go-bold, go-italic, go-bolditalic, go-mono
//
// Names outside the library are resolved against the system font directories
// on first use, so a style asking for "DejaVuSans" works wherever that font
// is installed. Faces are cached per (name, size) pair; they are not safe for
// concurrent drawing, which matches the single-threaded layout core.
package fonts

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/notate/pkg/errors"
)

// DefaultName is the font used when a style names none.
const DefaultName = "go"

// Names of the embedded Go font family.
const (
	Regular    = "go"
	Bold       = "go-bold"
	Italic     = "go-italic"
	BoldItalic = "go-bolditalic"
	Mono       = "go-mono"
)

// Extents describes the vertical geometry of a face, in pixels at 72 DPI
// (one pixel per point).
type Extents struct {
	Ascent  float64 // baseline to top of the tallest glyph
	Descent float64 // baseline to bottom of the deepest glyph
	Height  float64 // recommended baseline-to-baseline distance
}

type faceKey struct {
	name string
	size float64
}

// Library holds named fonts and a face cache. The zero value is not usable;
// construct with [New].
type Library struct {
	mu    sync.Mutex
	data  map[string][]byte
	fonts map[string]*truetype.Font
	faces map[faceKey]font.Face
}

// New returns a library preloaded with the embedded Go font family.
func New() *Library {
	return &Library{
		data: map[string][]byte{
			Regular:    goregular.TTF,
			Bold:       gobold.TTF,
			Italic:     goitalic.TTF,
			BoldItalic: gobolditalic.TTF,
			Mono:       gomono.TTF,
		},
		fonts: make(map[string]*truetype.Font),
		faces: make(map[faceKey]font.Face),
	}
}

var (
	defaultLib  *Library
	defaultOnce sync.Once
)

// Default returns the shared process-wide library.
func Default() *Library {
	defaultOnce.Do(func() { defaultLib = New() })
	return defaultLib
}

// Register adds a font under the given name, replacing any previous
// registration. The bytes are parsed lazily on first use.
func (l *Library) Register(name string, ttf []byte) {
	key := canonical(name)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.data[key] = ttf
	delete(l.fonts, key)
	for fk := range l.faces {
		if fk.name == key {
			delete(l.faces, fk)
		}
	}
}

// LoadFile reads a TTF or OTF file and registers it under the given name.
func (l *Library) LoadFile(name, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFontNotFound, err, "read font file %s", path)
	}
	l.Register(name, b)
	return nil
}

// Resolve locates a font file in the system font directories by name.
func (l *Library) Resolve(name string) (string, error) {
	if err := errors.ValidateFontName(name); err != nil {
		return "", err
	}
	path, err := findfont.Find(name)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeFontNotFound, err, "font %q not installed", name)
	}
	return path, nil
}

// TTF returns the raw font bytes registered under name, for callers that
// embed fonts into their output.
func (l *Library) TTF(name string) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.data[canonical(name)]
	return b, ok
}

// Names returns the registered font names in sorted order.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.data))
	for name := range l.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Face returns a font face for the named font at the given point size.
// Unknown names fall back to system font discovery; faces are cached.
func (l *Library) Face(name string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "font size must be positive, got %v", size)
	}
	key := faceKey{canonical(name), size}

	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.faces[key]; ok {
		return f, nil
	}

	ft, err := l.font(key.name)
	if err != nil {
		return nil, err
	}
	f := truetype.NewFace(ft, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	l.faces[key] = f
	return f, nil
}

// font returns the parsed font for name, parsing or discovering it first if
// needed. Callers hold l.mu.
func (l *Library) font(name string) (*truetype.Font, error) {
	if ft, ok := l.fonts[name]; ok {
		return ft, nil
	}
	b, ok := l.data[name]
	if !ok {
		if err := errors.ValidateFontName(name); err != nil {
			return nil, err
		}
		path, err := findfont.Find(name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err,
				"font %q is neither registered nor installed", name)
		}
		b, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "read font file %s", path)
		}
		l.data[name] = b
	}
	ft, err := truetype.Parse(b)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse font %q", name)
	}
	l.fonts[name] = ft
	return ft, nil
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Width measures the advance of s in pixels at the face's size.
func Width(f font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(f, s))
}

// FaceExtents returns the vertical geometry of a face.
func FaceExtents(f font.Face) Extents {
	m := f.Metrics()
	return Extents{
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
		Height:  fixedToFloat(m.Height),
	}
}

func fixedToFloat(x fixed.Int26_6) float64 {
	return float64(x) / 64
}
