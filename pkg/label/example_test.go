package label_test

import (
	"fmt"

	"github.com/matzehuels/notate/pkg/canvas/canvastest"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/label"
	"github.com/matzehuels/notate/pkg/text"
)

// ExampleDistribute pushes two series labels that land at the same height
// apart into a readable column.
func ExampleDistribute() {
	c := canvastest.New()
	span := geom.Span{Start: 0, End: 1}

	// Both series end near y=10, so their labels overlap.
	lyon := text.NewAnnotation(c)
	_, _ = lyon.DrawString("Lyon", span, 10, text.DrawOptions{VA: text.VACenter})
	psv := text.NewAnnotation(c)
	_, _ = psv.DrawString("PSV", span, 10, text.DrawOptions{VA: text.VACenter})

	_ = label.Distribute([]label.Block{lyon, psv}, label.Options{})

	for _, a := range []*text.Annotation{lyon, psv} {
		bb := a.BoundingBox()
		fmt.Printf("%s %.2f..%.2f\n", a.Text(), bb.Y0, bb.Y1)
	}
	// Output:
	// Lyon 10.00..10.10
	// PSV 9.90..10.00
}
