package raster

import (
	"bytes"
	"math"
	"testing"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero value gets defaults", Options{}, false},
		{"explicit values kept", Options{Width: 640, Height: 480, DPI: 72}, false},
		{"negative width", Options{Width: -1}, true},
		{"negative height", Options{Height: -1}, true},
		{"negative dpi", Options{DPI: -72}, true},
		{"margin too large", Options{Margin: 0.5}, true},
		{"negative margin", Options{Margin: -0.1}, true},
		{"negative supersample", Options{Supersample: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidArgument) {
				t.Errorf("error code = %v, want INVALID_ARGUMENT", errors.GetCode(err))
			}
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", o.Width, o.Height, DefaultWidth, DefaultHeight)
	}
	if o.DPI != DefaultDPI {
		t.Errorf("DPI = %v, want %v", o.DPI, DefaultDPI)
	}
	if o.Margin != DefaultMargin {
		t.Errorf("Margin = %v, want %v", o.Margin, DefaultMargin)
	}
	if o.Supersample != DefaultSupersample {
		t.Errorf("Supersample = %d, want %d", o.Supersample, DefaultSupersample)
	}
	if o.Background != DefaultBackground {
		t.Errorf("Background = %q, want %q", o.Background, DefaultBackground)
	}
	if o.Fonts == nil {
		t.Errorf("Fonts not defaulted")
	}
}

func TestMeasureTopLeftAnchored(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	h := c.RenderText("Memphis", geom.Point{X: 0.25, Y: 0.75}, nil, canvas.SpaceAxes)
	bb := c.Measure(h, canvas.SpaceAxes)

	if !approx(bb.X0, 0.25) || !approx(bb.Y1, 0.75) {
		t.Errorf("top-left = (%v, %v), want (0.25, 0.75)", bb.X0, bb.Y1)
	}
	if bb.Width() <= 0 || bb.Height() <= 0 {
		t.Errorf("box %+v has no extent", bb)
	}
}

func TestMeasureScalesWithText(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	short := c.Measure(c.RenderText("M", geom.Point{}, nil, canvas.SpaceAxes), canvas.SpaceAxes)
	long := c.Measure(c.RenderText("Memphis", geom.Point{}, nil, canvas.SpaceAxes), canvas.SpaceAxes)
	if long.Width() <= short.Width() {
		t.Errorf("wider text measured narrower: %v <= %v", long.Width(), short.Width())
	}

	small := c.Measure(c.RenderText("M", geom.Point{}, canvas.Style{"fontsize": 10.0}, canvas.SpaceAxes), canvas.SpaceAxes)
	big := c.Measure(c.RenderText("M", geom.Point{}, canvas.Style{"fontsize": 20.0}, canvas.SpaceAxes), canvas.SpaceAxes)
	if big.Width() <= small.Width() || big.Height() <= small.Height() {
		t.Errorf("larger font measured smaller: %+v vs %+v", big, small)
	}
}

func TestMeasureAcrossSpaces(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.SetViewport(geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 20})

	h := c.RenderText("x", geom.Point{X: 0.5, Y: 0.5}, nil, canvas.SpaceAxes)
	d := c.Measure(h, canvas.SpaceData)
	if !approx(d.X0, 5) || !approx(d.Y1, 10) {
		t.Errorf("data top-left = (%v, %v), want (5, 10)", d.X0, d.Y1)
	}

	a := c.Measure(h, canvas.SpaceAxes)
	if !approx(a.X0, 0.5) || !approx(a.Y1, 0.5) {
		t.Errorf("axes top-left = (%v, %v), want (0.5, 0.5)", a.X0, a.Y1)
	}
}

func TestDataItemsTrackViewport(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.SetViewport(geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 20})

	h := c.RenderText("x", geom.Point{X: 5, Y: 10}, nil, canvas.SpaceData)
	if bb := c.Measure(h, canvas.SpaceAxes); !approx(bb.X0, 0.5) {
		t.Fatalf("axes X0 = %v, want 0.5", bb.X0)
	}

	// Halving the limits moves the same data point to the axes edge.
	c.SetViewport(geom.Rect{X0: 0, Y0: 0, X1: 5, Y1: 10})
	if bb := c.Measure(h, canvas.SpaceAxes); !approx(bb.X0, 1) {
		t.Errorf("axes X0 after zoom = %v, want 1", bb.X0)
	}
}

func TestSetPositionAcrossSpaces(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c.SetViewport(geom.Rect{X0: 0, Y0: 0, X1: 10, Y1: 20})

	h := c.RenderText("x", geom.Point{X: 0.1, Y: 0.9}, nil, canvas.SpaceAxes)
	c.SetPosition(h, geom.Point{X: 5, Y: 10}, canvas.SpaceData)

	bb := c.Measure(h, canvas.SpaceAxes)
	if !approx(bb.X0, 0.5) || !approx(bb.Y1, 0.5) {
		t.Errorf("axes top-left = (%v, %v), want (0.5, 0.5)", bb.X0, bb.Y1)
	}
}

func TestDrawLineEnvelope(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	pts := []geom.Point{{X: 1, Y: 2}, {X: 3, Y: 7}, {X: 2, Y: 4}}
	h := c.DrawLine(pts, nil, canvas.SpaceData)
	bb := c.Measure(h, canvas.SpaceData)

	want := geom.Rect{X0: 1, Y0: 2, X1: 3, Y1: 7}
	if bb != want {
		t.Errorf("envelope = %+v, want %+v", bb, want)
	}
}

func TestSetPositionShape(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	h := c.DrawRect(geom.Rect{X0: 0, Y0: 0, X1: 2, Y1: 2}, nil, canvas.SpaceData)
	c.SetPosition(h, geom.Point{X: 5, Y: 5}, canvas.SpaceData)

	bb := c.Measure(h, canvas.SpaceData)
	want := geom.Rect{X0: 5, Y0: 3, X1: 7, Y1: 5}
	if bb != want {
		t.Errorf("box = %+v, want %+v", bb, want)
	}
}

func TestSnapshotPixels(t *testing.T) {
	c, err := New(Options{Width: 100, Height: 100, Supersample: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	h := c.DrawRect(geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}, canvas.Style{"color": "red"}, canvas.SpaceAxes)

	img := c.Snapshot()
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("image size = %dx%d, want 100x100", b.Dx(), b.Dy())
	}

	r, g, _, _ := img.At(50, 50).RGBA()
	if r < 0xF000 || g > 0x1000 {
		t.Errorf("center pixel = (%#x, %#x), want red", r, g)
	}

	// The margin stays background-colored.
	r, g, b, _ := img.At(2, 2).RGBA()
	if r < 0xF000 || g < 0xF000 || b < 0xF000 {
		t.Errorf("margin pixel = (%#x, %#x, %#x), want white", r, g, b)
	}

	// Removed items leave no trace on the next snapshot.
	c.Remove(h)
	r, g, b, _ = c.Snapshot().At(50, 50).RGBA()
	if r < 0xF000 || g < 0xF000 || b < 0xF000 {
		t.Errorf("pixel after Remove = (%#x, %#x, %#x), want white", r, g, b)
	}
}

func TestSnapshotSupersampled(t *testing.T) {
	c, err := New(Options{Width: 50, Height: 40, Supersample: 2})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if b := c.Snapshot().Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("image size = %dx%d, want 50x40", b.Dx(), b.Dy())
	}
}

func TestEncodePNG(t *testing.T) {
	c, err := New(Options{Width: 20, Height: 20, Supersample: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("output does not start with the PNG signature")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b float64
		ok      bool
	}{
		{"#fff", 1, 1, 1, true},
		{"#FF0000", 1, 0, 0, true},
		{"red", 1, 0, 0, true},
		{"k", 0, 0, 0, true},
		{"Grey", 128.0 / 255, 128.0 / 255, 128.0 / 255, true},
		{"", 0, 0, 0, false},
		{"#12", 0, 0, 0, false},
		{"#zzzzzz", 0, 0, 0, false},
		{"nope", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, g, b, ok := parseColor(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && (!approx(r, tt.r) || !approx(g, tt.g) || !approx(b, tt.b)) {
				t.Errorf("parseColor(%q) = (%v, %v, %v), want (%v, %v, %v)", tt.in, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}
