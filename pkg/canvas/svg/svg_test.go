package svg

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/canvas/raster"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustNew(t *testing.T, opts Options) *Canvas {
	t.Helper()
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero value gets defaults", Options{}, false},
		{"negative width", Options{Width: -1}, true},
		{"negative dpi", Options{DPI: -72}, true},
		{"margin too large", Options{Margin: 0.7}, true},
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

func TestRenderText(t *testing.T) {
	c := mustNew(t, Options{})
	c.RenderText("Memphis", geom.Point{X: 0, Y: 1}, canvas.Style{"color": "#1a6b99", "fontsize": 12.0}, canvas.SpaceAxes)

	out := string(c.Render())
	if !strings.Contains(out, ">Memphis</text>") {
		t.Errorf("output missing text element:\n%s", out)
	}
	if !strings.Contains(out, `fill="#1a6b99"`) {
		t.Errorf("output missing text color")
	}
	// 12 pt at 100 DPI is 16.67 document pixels.
	if !strings.Contains(out, `font-size="16.67"`) {
		t.Errorf("output missing converted font size")
	}
	// Axes (0, 1) is the plot's top-left corner: 10%% margin of 1280x720.
	if !strings.Contains(out, `x="128.00"`) {
		t.Errorf("output missing pixel position")
	}
}

func TestRenderEscapesText(t *testing.T) {
	c := mustNew(t, Options{})
	c.RenderText("<&>", geom.Point{}, nil, canvas.SpaceAxes)

	out := string(c.Render())
	if !strings.Contains(out, ">&lt;&amp;&gt;</text>") {
		t.Errorf("markup characters not escaped:\n%s", out)
	}
}

func TestRenderSkipsRemoved(t *testing.T) {
	c := mustNew(t, Options{})
	h := c.RenderText("Memphis", geom.Point{}, nil, canvas.SpaceAxes)
	c.Remove(h)

	if out := string(c.Render()); strings.Contains(out, "Memphis") {
		t.Errorf("removed item still rendered:\n%s", out)
	}
}

func TestRenderBackground(t *testing.T) {
	c := mustNew(t, Options{Background: "#eeeeee"})
	if out := string(c.Render()); !strings.Contains(out, `fill="#eeeeee"`) {
		t.Errorf("custom background missing:\n%s", out)
	}
}

func TestRenderLetterColors(t *testing.T) {
	c := mustNew(t, Options{})
	c.RenderText("x", geom.Point{}, canvas.Style{"color": "k"}, canvas.SpaceAxes)

	if out := string(c.Render()); !strings.Contains(out, `fill="black"`) {
		t.Errorf("letter alias not mapped:\n%s", out)
	}
}

func TestRenderTextBox(t *testing.T) {
	c := mustNew(t, Options{})
	st := canvas.Style{"background": "yellow", "edgecolor": "k", "pad": 0.01}
	c.RenderText("boxed", geom.Point{X: 0.5, Y: 0.5}, st, canvas.SpaceAxes)

	out := string(c.Render())
	if !strings.Contains(out, `fill="yellow"`) {
		t.Errorf("text box fill missing:\n%s", out)
	}
	if !strings.Contains(out, `stroke="black"`) {
		t.Errorf("text box edge missing:\n%s", out)
	}
}

func TestRenderDashedLine(t *testing.T) {
	c := mustNew(t, Options{})
	pts := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	c.DrawLine(pts, canvas.Style{"dashed": true}, canvas.SpaceAxes)

	out := string(c.Render())
	if !strings.Contains(out, "<polyline") || !strings.Contains(out, "stroke-dasharray=") {
		t.Errorf("dashed polyline missing:\n%s", out)
	}
}

func TestRenderShapes(t *testing.T) {
	c := mustNew(t, Options{})
	c.DrawRect(geom.Rect{X0: 0.1, Y0: 0.1, X1: 0.9, Y1: 0.9}, canvas.Style{"color": "orange"}, canvas.SpaceAxes)
	c.DrawCircle(geom.Point{X: 0.5, Y: 0.5}, 0.1, canvas.Style{"color": "navy"}, canvas.SpaceAxes)

	out := string(c.Render())
	if !strings.Contains(out, `fill="orange"`) {
		t.Errorf("rect fill missing:\n%s", out)
	}
	if !strings.Contains(out, "<circle") || !strings.Contains(out, `fill="navy"`) {
		t.Errorf("circle missing:\n%s", out)
	}
}

func TestEmbedFonts(t *testing.T) {
	c := mustNew(t, Options{EmbedFonts: true})
	c.RenderText("x", geom.Point{}, nil, canvas.SpaceAxes)

	out := string(c.Render())
	if !strings.Contains(out, "@font-face") || !strings.Contains(out, `font-family: "go"`) {
		t.Errorf("embedded font rule missing")
	}

	plain := mustNew(t, Options{})
	plain.RenderText("x", geom.Point{}, nil, canvas.SpaceAxes)
	if strings.Contains(string(plain.Render()), "@font-face") {
		t.Errorf("fonts embedded without opting in")
	}
}

func TestEncodeSVG(t *testing.T) {
	c := mustNew(t, Options{})
	var buf bytes.Buffer
	if err := c.EncodeSVG(&buf); err != nil {
		t.Fatalf("EncodeSVG() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("<svg")) {
		t.Errorf("output does not start with an svg element")
	}
	if !bytes.HasSuffix(bytes.TrimSpace(buf.Bytes()), []byte("</svg>")) {
		t.Errorf("output is not closed")
	}
}

// Layout measured on the SVG canvas must match the raster canvas, or the two
// sinks would disagree about where everything sits.
func TestMeasureMatchesRaster(t *testing.T) {
	sc := mustNew(t, Options{})
	rc, err := raster.New(raster.Options{})
	if err != nil {
		t.Fatalf("raster.New() error = %v", err)
	}

	st := canvas.Style{"fontsize": 14.0}
	p := geom.Point{X: 0.3, Y: 0.7}
	sb := sc.Measure(sc.RenderText("Memphis Depay", p, st, canvas.SpaceAxes), canvas.SpaceAxes)
	rb := rc.Measure(rc.RenderText("Memphis Depay", p, st, canvas.SpaceAxes), canvas.SpaceAxes)

	if !approx(sb.X0, rb.X0) || !approx(sb.X1, rb.X1) || !approx(sb.Y0, rb.Y0) || !approx(sb.Y1, rb.Y1) {
		t.Errorf("svg box %+v != raster box %+v", sb, rb)
	}
}
