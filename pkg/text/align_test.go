package text

import (
	"testing"

	"github.com/matzehuels/notate/pkg/canvas/canvastest"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

func wrapParagraph(t *testing.T, align Align) []Line {
	t.Helper()
	cv := canvastest.New()
	retired, last, err := Wrap(cv, Split(paragraph), geom.Span{Start: 0, End: 2}, 0,
		DrawOptions{Align: align})
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}
	lines := append(retired, last)
	if len(lines) < 3 {
		t.Fatalf("paragraph wrapped into %d lines, need at least 3", len(lines))
	}
	return lines
}

func TestAlignLeft(t *testing.T) {
	for _, line := range wrapParagraph(t, AlignLeft) {
		if got := line.Tokens[0].Box().X0; !approx(got, 0) {
			t.Errorf("line %q starts at %v, want 0", line.Text(), got)
		}
	}
}

func TestAlignRight(t *testing.T) {
	for _, line := range wrapParagraph(t, AlignRight) {
		last := line.Tokens[len(line.Tokens)-1]
		if got := last.Box().X1; !approx(got, 2) {
			t.Errorf("line %q ends at %v, want 2", line.Text(), got)
		}
	}
}

func TestAlignCenter(t *testing.T) {
	for _, line := range wrapParagraph(t, AlignCenter) {
		bb := line.BoundingBox()
		if got := bb.CenterX(); !approx(got, 1) {
			t.Errorf("line %q centered at %v, want 1", line.Text(), got)
		}
	}
}

func TestAlignJustify(t *testing.T) {
	lines := wrapParagraph(t, AlignJustify)

	for i, line := range lines[:len(lines)-1] {
		bb := line.BoundingBox()
		if !approx(bb.X0, 0) || !approx(bb.X1, 2) {
			t.Errorf("line %d spans [%v, %v], want [0, 2]", i, bb.X0, bb.X1)
		}
	}

	// The terminal line is left-aligned, not stretched.
	final := lines[len(lines)-1]
	if got := final.Tokens[0].Box().X0; !approx(got, 0) {
		t.Errorf("terminal line starts at %v, want 0", got)
	}
}

func TestAlignJustifyTerminalVariants(t *testing.T) {
	tests := []struct {
		align Align
		check func(t *testing.T, final Line)
	}{
		{
			align: AlignJustifyStart,
			check: func(t *testing.T, final Line) {
				if got := final.Tokens[0].Box().X0; !approx(got, 0) {
					t.Errorf("terminal line starts at %v, want 0", got)
				}
			},
		},
		{
			align: AlignJustifyCenter,
			check: func(t *testing.T, final Line) {
				if got := final.BoundingBox().CenterX(); !approx(got, 1) {
					t.Errorf("terminal line centered at %v, want 1", got)
				}
			},
		},
		{
			align: AlignJustifyEnd,
			check: func(t *testing.T, final Line) {
				last := final.Tokens[len(final.Tokens)-1]
				if got := last.Box().X1; !approx(got, 2) {
					t.Errorf("terminal line ends at %v, want 2", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			lines := wrapParagraph(t, tt.align)

			// Non-terminal lines are justified across the span.
			for i, line := range lines[:len(lines)-1] {
				bb := line.BoundingBox()
				if !approx(bb.X0, 0) || !approx(bb.X1, 2) {
					t.Errorf("line %d spans [%v, %v], want [0, 2]", i, bb.X0, bb.X1)
				}
			}
			tt.check(t, lines[len(lines)-1])
		})
	}
}

func TestAlignJustifySingleLine(t *testing.T) {
	// A block of one line has only a terminal line: justify degrades to
	// plain left flow, nothing is stretched.
	cv := canvastest.New()
	retired, last, err := Wrap(cv, Split("Memphis Depay"), geom.Span{Start: 0, End: 2}, 0,
		DrawOptions{Align: AlignJustify})
	if err != nil {
		t.Fatalf("Wrap() error = %v", err)
	}

	if len(retired) != 0 {
		t.Fatalf("two words wrapped into %d retired lines, want 0", len(retired))
	}
	first, second := last.Tokens[0].Box(), last.Tokens[1].Box()
	if !approx(first.X0, 0) {
		t.Errorf("first token X0 = %v, want 0", first.X0)
	}
	if want := 7*canvastest.DefaultCharWidth + DefaultWordSpacing; !approx(second.X0, want) {
		t.Errorf("second token X0 = %v, want flow position %v", second.X0, want)
	}
	if second.X1 >= 2 {
		t.Errorf("single line was stretched to the span end")
	}
}

func TestAlignKeepsOrder(t *testing.T) {
	for _, align := range []Align{AlignRight, AlignCenter, AlignJustify} {
		t.Run(string(align), func(t *testing.T) {
			for _, line := range wrapParagraph(t, align) {
				tokens := line.Tokens
				for i := 0; i < len(tokens)-1; i++ {
					if tokens[i].Box().X0 >= tokens[i+1].Box().X0 {
						t.Fatalf("alignment reordered tokens in line %q", line.Text())
					}
				}
			}
		})
	}
}

func TestAlignInvalid(t *testing.T) {
	cv := canvastest.New()
	_, _, err := Wrap(cv, Split(paragraph), geom.Span{Start: 0, End: 2}, 0,
		DrawOptions{Align: "middle"})

	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("Wrap() error = %v, want INVALID_ARGUMENT", err)
	}
	if got := len(cv.Live()); got != 0 {
		t.Errorf("failed Wrap() drew %d items, want 0", got)
	}
}

func TestVAlignInvalid(t *testing.T) {
	cv := canvastest.New()
	_, _, err := Wrap(cv, Split(paragraph), geom.Span{Start: 0, End: 2}, 0,
		DrawOptions{VA: "baseline"})

	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Fatalf("Wrap() error = %v, want INVALID_ARGUMENT", err)
	}
	if got := len(cv.Live()); got != 0 {
		t.Errorf("failed Wrap() drew %d items, want 0", got)
	}
}
