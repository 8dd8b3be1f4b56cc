package viz

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/text"
)

// DefaultAnnotatePad is the inset between an annotation's span and its text,
// in drawing units.
const DefaultAnnotatePad = 0.01

// AnnotateOptions configures a single annotation.
type AnnotateOptions struct {
	// Text controls the wrapped text. Zero Pad means DefaultAnnotatePad.
	Text text.DrawOptions `json:"text"`

	// Marker, when non-nil, draws a point marker on the side of the span
	// the text aligns to. The marker inherits the text color unless the
	// style sets its own.
	Marker canvas.Style `json:"marker,omitempty"`
}

// Annotate draws tokens wrapped into the span, anchored at y, and remembers
// the annotation on the figure. With a marker style set, a point marker is
// placed at the span edge the text grows from: at the start for left-aligned
// text, at the end for right-aligned text, at the middle for centered text.
func (f *Figure) Annotate(tokens []text.Token, span geom.Span, y float64, opts AnnotateOptions) (*text.Annotation, error) {
	topts := opts.Text
	if topts.Pad == 0 {
		topts.Pad = DefaultAnnotatePad
	}

	a := text.NewAnnotation(f.c)
	if _, err := a.Draw(tokens, span, y, topts); err != nil {
		return nil, err
	}

	if opts.Marker != nil {
		mst := canvas.Style{"color": topts.Style.Color("")}.Merge(opts.Marker)
		var mx float64
		switch topts.Align {
		case text.AlignRight, text.AlignJustifyEnd:
			mx = span.End
		case text.AlignCenter, text.AlignJustifyCenter:
			mx = span.Mid()
		default:
			mx = span.Start
		}
		r := f.markerRadius(mst, DefaultMarkerSize, topts.Space)
		f.c.DrawCircle(geom.Point{X: mx, Y: y}, r, mst, topts.Space)
	}

	f.annotations = append(f.annotations, a)
	return a, nil
}

// AnnotateString splits a plain string on whitespace and annotates with it.
func (f *Figure) AnnotateString(s string, span geom.Span, y float64, opts AnnotateOptions) (*text.Annotation, error) {
	return f.Annotate(text.Split(s), span, y, opts)
}
