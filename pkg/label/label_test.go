package label

import (
	"math"
	"testing"

	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

// fakeBlock is a movable box that counts how often it is repositioned.
type fakeBlock struct {
	rect  geom.Rect
	moves int
}

func (b *fakeBlock) BoundingBox() geom.Rect { return b.rect }

func (b *fakeBlock) SetTopLeft(p geom.Point) {
	b.moves++
	w, h := b.rect.Width(), b.rect.Height()
	b.rect = geom.Rect{X0: p.X, Y0: p.Y - h, X1: p.X + w, Y1: p.Y}
}

func blocks(bs ...*fakeBlock) []Block {
	out := make([]Block, len(bs))
	for i, b := range bs {
		out[i] = b
	}
	return out
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDistributeTwoFullyOverlapping(t *testing.T) {
	// Two identical labels anchored at (4, 10).
	a := &fakeBlock{rect: geom.Rect{X0: 4, Y0: 9.9, X1: 4.5, Y1: 10.1}}
	b := &fakeBlock{rect: geom.Rect{X0: 4, Y0: 9.9, X1: 4.5, Y1: 10.1}}

	if err := Distribute(blocks(a, b), Options{}); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}

	if a.rect.Overlaps(b.rect) {
		t.Errorf("blocks still overlap: %+v and %+v", a.rect, b.rect)
	}

	// Centers are at least one label height apart.
	h := a.rect.Height()
	if diff := math.Abs(a.rect.CenterY() - b.rect.CenterY()); diff < h-1e-9 {
		t.Errorf("centers %v apart, want at least %v", diff, h)
	}

	// Horizontal positions never change.
	if a.rect.X0 != 4 || b.rect.X0 != 4 {
		t.Errorf("x positions moved: %v and %v, want 4", a.rect.X0, b.rect.X0)
	}

	// The stacked pair stays centered where the pile was.
	union := a.rect.Union(b.rect)
	if !approx(union.CenterY(), 10) {
		t.Errorf("combined center = %v, want 10", union.CenterY())
	}
}

func TestDistributeDisjointUntouched(t *testing.T) {
	a := &fakeBlock{rect: geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}}
	b := &fakeBlock{rect: geom.Rect{X0: 0, Y0: 2, X1: 1, Y1: 3}}

	if err := Distribute(blocks(a, b), Options{}); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	if a.moves != 0 || b.moves != 0 {
		t.Errorf("disjoint blocks were moved: %d and %d times", a.moves, b.moves)
	}
}

func TestDistributeTouchingEdgesUntouched(t *testing.T) {
	// Shared borders do not count as overlap.
	a := &fakeBlock{rect: geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}}
	b := &fakeBlock{rect: geom.Rect{X0: 0, Y0: 1, X1: 1, Y1: 2}}

	if err := Distribute(blocks(a, b), Options{}); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	if a.moves != 0 || b.moves != 0 {
		t.Errorf("touching blocks were moved: %d and %d times", a.moves, b.moves)
	}
}

func TestDistributeIdempotent(t *testing.T) {
	a := &fakeBlock{rect: geom.Rect{X0: 4, Y0: 9.9, X1: 4.5, Y1: 10.1}}
	b := &fakeBlock{rect: geom.Rect{X0: 4, Y0: 9.9, X1: 4.5, Y1: 10.1}}
	bs := blocks(a, b)

	if err := Distribute(bs, Options{}); err != nil {
		t.Fatalf("first Distribute() error = %v", err)
	}
	movesA, movesB := a.moves, b.moves

	if err := Distribute(bs, Options{}); err != nil {
		t.Fatalf("second Distribute() error = %v", err)
	}
	if a.moves != movesA || b.moves != movesB {
		t.Errorf("second Distribute() moved already-distributed blocks")
	}
}

func TestDistributeChain(t *testing.T) {
	// A overlaps B, B overlaps C, but A and C are disjoint: one chain.
	a := &fakeBlock{rect: geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}}
	b := &fakeBlock{rect: geom.Rect{X0: 0, Y0: 0.5, X1: 1, Y1: 1.5}}
	c := &fakeBlock{rect: geom.Rect{X0: 0, Y0: 1.2, X1: 1, Y1: 2.2}}

	if err := Distribute(blocks(a, b, c), Options{}); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}

	for _, pair := range [][2]*fakeBlock{{a, b}, {b, c}, {a, c}} {
		if pair[0].rect.Overlaps(pair[1].rect) {
			t.Errorf("blocks still overlap: %+v and %+v", pair[0].rect, pair[1].rect)
		}
	}

	// Vertical order is preserved and the stack is tight.
	if !(c.rect.CenterY() > b.rect.CenterY() && b.rect.CenterY() > a.rect.CenterY()) {
		t.Errorf("stacking reordered the chain")
	}
	if !approx(c.rect.Y0, b.rect.Y1) || !approx(b.rect.Y0, a.rect.Y1) {
		t.Errorf("stack has gaps: %+v %+v %+v", a.rect, b.rect, c.rect)
	}

	// The column is centered on the original union midpoint.
	union := a.rect.Union(b.rect).Union(c.rect)
	if !approx(union.CenterY(), 1.1) {
		t.Errorf("column center = %v, want 1.1", union.CenterY())
	}
}

func TestDistributeSingletonAndEmpty(t *testing.T) {
	a := &fakeBlock{rect: geom.Rect{X0: 0, Y0: 0, X1: 1, Y1: 1}}

	if err := Distribute(blocks(a), Options{}); err != nil {
		t.Fatalf("Distribute() error = %v", err)
	}
	if a.moves != 0 {
		t.Errorf("lone block was moved %d times", a.moves)
	}

	if err := Distribute(nil, Options{}); err != nil {
		t.Errorf("Distribute(nil) error = %v", err)
	}
}

func TestDistributeIterationCap(t *testing.T) {
	// Two piles whose stacked columns collide with each other, pushing
	// blocks back and forth. The loop must stop at the cap regardless.
	mk := func() []Block {
		return blocks(
			&fakeBlock{rect: geom.Rect{X0: 0, Y0: 10, X1: 1, Y1: 10.4}},
			&fakeBlock{rect: geom.Rect{X0: 0, Y0: 10, X1: 1, Y1: 10.4}},
			&fakeBlock{rect: geom.Rect{X0: 0, Y0: 10.5, X1: 1, Y1: 10.9}},
			&fakeBlock{rect: geom.Rect{X0: 0, Y0: 10.5, X1: 1, Y1: 10.9}},
		)
	}

	t.Run("single pass moves each block once", func(t *testing.T) {
		bs := mk()
		if err := Distribute(bs, Options{MaxIterations: 1}); err != nil {
			t.Fatalf("Distribute() error = %v", err)
		}
		for i, b := range bs {
			if got := b.(*fakeBlock).moves; got != 1 {
				t.Errorf("block %d moved %d times, want 1", i, got)
			}
		}
	})

	t.Run("default cap terminates", func(t *testing.T) {
		if err := Distribute(mk(), Options{}); err != nil {
			t.Errorf("Distribute() error = %v", err)
		}
	})
}

func TestDistributeInvalidOptions(t *testing.T) {
	err := Distribute(nil, Options{MaxIterations: -1})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("Distribute() error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestOptionsIdempotent(t *testing.T) {
	o := Options{MaxIterations: 3}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error = %v", err)
	}
	if o.MaxIterations != 3 {
		t.Errorf("MaxIterations = %d, want 3", o.MaxIterations)
	}
}
