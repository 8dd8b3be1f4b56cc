// Package text is the layout engine for styled text on a canvas.
//
// The engine arranges runs of word tokens into lines constrained by a
// horizontal span, aligns those lines, and groups them into annotation
// blocks that can be measured and moved as units. It owns no font metrics:
// every size it works with comes from measuring rendered text through a
// [canvas.Canvas], so the host surface stays authoritative for shaping and
// kerning.
//
// # Layout model
//
// A [Token] is one styled word. [Wrap] renders tokens left to right from the
// span start, measuring each one; a token whose right edge leaves the span
// starts a new line. Two exceptions keep the output readable: the first
// token of a line always stays, however wide, and trailing punctuation never
// starts a line. Lines fill downward from the anchor for [VATop], upward for
// [VABottom] (earlier lines are pushed away from the anchor as new ones
// arrive, preserving reading order), and [VACenter] blocks are centered on
// the anchor after filling.
//
// As each line closes it is aligned within the span. The justified modes
// align the last line with their plain counterpart, so a short final line is
// never stretched: [AlignJustify] ends on a left-aligned line,
// [AlignJustifyCenter] on a centered one, [AlignJustifyEnd] on a
// right-aligned one.
//
// Vertical metrics come from a probe: one throwaway token is rendered,
// measured and removed, and its height times the line-height factor becomes
// the line slot ([LineSpacing]).
//
// # Usage
//
// Draw a wrapped paragraph and move it afterwards:
//
//	a := text.NewAnnotation(cv)
//	lines, err := a.DrawString("Memphis Depay plays as a forward.",
//	    geom.Span{Start: 0, End: 1}, 0.8, text.DrawOptions{
//	        Align: text.AlignJustify,
//	        VA:    text.VATop,
//	    })
//	if err != nil {
//	    return err
//	}
//	bb := a.BoundingBox()
//	a.SetPosition(geom.Point{X: 0, Y: bb.Y1}, text.AlignLeft, text.VATop)
//
// Styles merge shallowly: per-token styles override the run-level style
// key-for-key ([Resolve]), and anything neither sets falls through to the
// canvas defaults.
//
// The engine is single-threaded; annotations and their canvas must not be
// shared across goroutines without external locking.
package text
