// Package label spreads overlapping labels apart vertically.
//
// Charts that put a label next to every series end up with unreadable piles
// when series run close together. The distributor takes the drawn labels,
// finds chains of pairwise-overlapping boxes, and restacks each chain as a
// tight column centered where the chain already sat. Labels only ever move
// vertically: their x positions are part of the chart's meaning and are left
// alone.
//
// Anything with a measurable box that can be moved by its top-left corner can
// be distributed; [text.Annotation] satisfies [Block] directly.
//
// Distribution iterates: stacking one chain can push a label into another,
// so the scan repeats until it finds no overlapping pairs or the iteration
// cap is reached. Stopping at the cap is not an error. The arrangement found
// so far is kept; it is always at least as readable as the input.
package label

import (
	"sort"

	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

// DefaultMaxIterations bounds the scan-and-stack loop when the options leave
// it unset.
const DefaultMaxIterations = 10

// Block is a positioned label: a box that can be measured and moved. Moving
// the top-left corner must preserve the box's size.
type Block interface {
	// BoundingBox reports the box the block currently occupies.
	BoundingBox() geom.Rect

	// SetTopLeft moves the block so its box's top-left corner sits at p.
	SetTopLeft(p geom.Point)
}

// Options controls distribution. The zero value is valid.
type Options struct {
	// MaxIterations bounds the scan-and-stack loop. Zero means
	// DefaultMaxIterations.
	MaxIterations int `json:"max_iterations,omitempty"`

	validated bool
}

// ValidateAndSetDefaults validates the options and fills unset fields. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidArgument,
			"max iterations must not be negative, got %d", o.MaxIterations)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	o.validated = true
	return nil
}

// Distribute moves overlapping blocks apart vertically until no two overlap
// or the iteration cap is reached. Blocks that overlap nothing are never
// touched, so a distributed set passes through unchanged. The slice itself is
// read-only to Distribute; only block positions change.
func Distribute(blocks []Block, opts Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	for i := 0; i < opts.MaxIterations; i++ {
		groups := overlapping(blocks)
		if len(groups) == 0 {
			return nil
		}
		for _, g := range groups {
			stack(g)
		}
	}
	return nil
}

// overlapping partitions the blocks into chains of pairwise overlap and
// returns the chains with at least two members. Blocks are scanned bottom to
// top; each joins the first group it overlaps any member of. A chain missed
// by this single pass (overlap created between two existing groups) is picked
// up by a later iteration of Distribute.
func overlapping(blocks []Block) [][]Block {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BoundingBox().Y0 < sorted[j].BoundingBox().Y0
	})

	var groups [][]Block
scan:
	for _, b := range sorted {
		bb := b.BoundingBox()
		for gi, g := range groups {
			for _, member := range g {
				if bb.Overlaps(member.BoundingBox()) {
					groups[gi] = append(g, b)
					continue scan
				}
			}
		}
		groups = append(groups, []Block{b})
	}

	multi := groups[:0]
	for _, g := range groups {
		if len(g) > 1 {
			multi = append(multi, g)
		}
	}
	return multi
}

// stack rearranges one chain as a tight column: total height preserved,
// centered on the chain's union midpoint, members ordered top to bottom by
// where their centers already were.
func stack(g []Block) {
	union := g[0].BoundingBox()
	var total float64
	for _, b := range g {
		bb := b.BoundingBox()
		union = union.Union(bb)
		total += bb.Height()
	}

	ordered := make([]Block, len(g))
	copy(ordered, g)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].BoundingBox().CenterY() > ordered[j].BoundingBox().CenterY()
	})

	cursor := union.CenterY() + total/2
	for _, b := range ordered {
		bb := b.BoundingBox()
		b.SetTopLeft(geom.Point{X: bb.X0, Y: cursor})
		cursor -= bb.Height()
	}
}
