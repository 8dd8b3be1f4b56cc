package viz

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
	"github.com/matzehuels/notate/pkg/label"
	"github.com/matzehuels/notate/pkg/text"
)

// DefaultEngine is the layout engine used when none is picked.
const DefaultEngine = "neato"

// ValidEngines is the set of Graphviz layout engines a network accepts.
var ValidEngines = map[string]bool{
	"dot":   true,
	"neato": true,
	"fdp":   true,
	"sfdp":  true,
	"circo": true,
	"twopi": true,
}

// Node is one vertex of a network.
type Node struct {
	// ID identifies the node; edges reference it. Required and unique.
	ID string `json:"id"`

	// Name is drawn next to the node. Empty draws nothing.
	Name string `json:"name,omitempty"`

	// Label registers the node in the legend. Empty adds nothing.
	Label string `json:"label,omitempty"`

	// Style overrides the network's node style.
	Style canvas.Style `json:"style,omitempty"`

	// NameStyle overrides the network's name style.
	NameStyle canvas.Style `json:"name_style,omitempty"`
}

// Edge connects two nodes of a network. From == To draws a self-loop.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Name is drawn on the edge's midpoint. Empty draws nothing.
	Name string `json:"name,omitempty"`

	// Label registers the edge in the legend. Empty adds nothing.
	Label string `json:"label,omitempty"`

	// Style overrides the network's edge style.
	Style canvas.Style `json:"style,omitempty"`

	// NameStyle overrides the network's name style for this edge.
	NameStyle canvas.Style `json:"name_style,omitempty"`
}

// Graph is the input to DrawNetwork. Directed graphs draw arrows and arrowed
// legend entries.
type Graph struct {
	Directed bool   `json:"directed,omitempty"`
	Nodes    []Node `json:"nodes"`
	Edges    []Edge `json:"edges,omitempty"`
}

// NetworkOptions configures one DrawNetwork call.
type NetworkOptions struct {
	// Engine picks the Graphviz layout engine. Empty means DefaultEngine.
	Engine string `json:"engine,omitempty"`

	// Positions pins nodes to data coordinates after layout; laid-out
	// positions are normalized to the unit square first, so overrides and
	// computed positions share a scale.
	Positions map[string]geom.Point `json:"positions,omitempty"`

	// NodeStyle styles every node; node styles override it.
	NodeStyle canvas.Style `json:"node_style,omitempty"`

	// NameStyle styles node and edge names.
	NameStyle canvas.Style `json:"name_style,omitempty"`

	// EdgeStyle styles every edge; edge styles override it.
	EdgeStyle canvas.Style `json:"edge_style,omitempty"`

	// LabelStyle styles the legend labels of labelled nodes and edges.
	LabelStyle canvas.Style `json:"label_style,omitempty"`

	// MaxIterations caps the name distribution passes. Zero means the
	// distributor's default.
	MaxIterations int `json:"max_iterations,omitempty"`
}

// NetworkResult is one drawn network, keyed by node ID and edge endpoints.
type NetworkResult struct {
	Positions map[string]geom.Point
	Nodes     map[string]canvas.Handle
	Names     map[string]*text.Annotation
	Edges     map[[2]string]canvas.Handle
	EdgeNames map[[2]string]*text.Annotation
}

// networkChart holds the figure-level network state: the pool of node names
// kept from overlapping.
type networkChart struct {
	fig    *Figure
	labels []*text.Annotation
}

// DrawNetwork lays out the graph with Graphviz and draws it: nodes as
// circles, edges as lines retracted to the node borders, names next to their
// nodes and labelled elements in the legend. Repeated calls share the name
// pool, so names across draws spread apart.
func (f *Figure) DrawNetwork(ctx context.Context, g Graph, opts NetworkOptions) (*NetworkResult, error) {
	if f.network == nil {
		f.network = &networkChart{fig: f}
	}
	return f.network.draw(ctx, g, opts)
}

func (n *networkChart) draw(ctx context.Context, g Graph, opts NetworkOptions) (*NetworkResult, error) {
	engine := opts.Engine
	if engine == "" {
		engine = DefaultEngine
	}
	if !ValidEngines[engine] {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "unknown layout engine %q", engine)
	}
	known := make(map[string]bool, len(g.Nodes))
	for _, nd := range g.Nodes {
		if nd.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "nodes need an id")
		}
		if known[nd.ID] {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "duplicate node id %q", nd.ID)
		}
		known[nd.ID] = true
	}
	for _, e := range g.Edges {
		if !known[e.From] || !known[e.To] {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "edge %s-%s references an unknown node", e.From, e.To)
		}
	}
	for id := range opts.Positions {
		if !known[id] {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "position override for unknown node %q", id)
		}
	}

	res := &NetworkResult{
		Positions: map[string]geom.Point{},
		Nodes:     map[string]canvas.Handle{},
		Names:     map[string]*text.Annotation{},
		Edges:     map[[2]string]canvas.Handle{},
		EdgeNames: map[[2]string]*text.Annotation{},
	}
	if len(g.Nodes) == 0 {
		return res, nil
	}

	pos, err := layoutPositions(ctx, g, engine)
	if err != nil {
		return nil, err
	}
	pos = normalizePositions(pos)
	for id, p := range opts.Positions {
		pos[id] = p
	}
	res.Positions = pos

	f := n.fig
	radii := make(map[string]float64, len(g.Nodes))
	styles := make(map[string]canvas.Style, len(g.Nodes))
	for _, nd := range g.Nodes {
		styles[nd.ID] = opts.NodeStyle.Merge(nd.Style)
		radii[nd.ID] = f.markerRadius(styles[nd.ID], DefaultNodeSize, canvas.SpaceData)
	}

	ext := geom.Rect{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for id, p := range pos {
		r := radii[id]
		ext.X0 = min(ext.X0, p.X-r)
		ext.Y0 = min(ext.Y0, p.Y-r)
		ext.X1 = max(ext.X1, p.X+r)
		ext.Y1 = max(ext.Y1, p.Y+r)
	}
	f.extendExtent(ext)

	for _, nd := range g.Nodes {
		res.Nodes[nd.ID] = f.c.DrawCircle(pos[nd.ID], radii[nd.ID], styles[nd.ID], canvas.SpaceData)
		if nd.Label != "" {
			if _, err := f.Legend().DrawPoint(nd.Label, styles[nd.ID], opts.LabelStyle); err != nil {
				return nil, err
			}
		}
	}

	for _, nd := range g.Nodes {
		if nd.Name == "" {
			continue
		}
		a, err := n.drawName(nd, pos[nd.ID], radii[nd.ID], opts)
		if err != nil {
			return nil, err
		}
		res.Names[nd.ID] = a
	}

	for _, e := range g.Edges {
		st := opts.EdgeStyle.Merge(e.Style)
		key := [2]string{e.From, e.To}
		if e.From == e.To {
			res.Edges[key] = n.drawLoop(pos[e.From], radii[e.From], st, g.Directed)
		} else if h, ok := n.drawEdge(pos[e.From], pos[e.To], radii[e.From], radii[e.To], st, g.Directed); ok {
			res.Edges[key] = h
		}
		if e.Name != "" {
			a, err := n.drawEdgeName(e, pos[e.From], pos[e.To], radii[e.From], opts)
			if err != nil {
				return nil, err
			}
			res.EdgeNames[key] = a
		}
		if e.Label != "" {
			var err error
			if g.Directed {
				_, err = f.Legend().DrawArrow(e.Label, st, opts.LabelStyle)
			} else {
				_, err = f.Legend().DrawLine(e.Label, st, opts.LabelStyle)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	f.opts.Logger.Debug("drew network",
		"nodes", len(g.Nodes), "edges", len(g.Edges), "engine", engine, "directed", g.Directed)
	return res, nil
}

// drawName places a node's name just above it, padded by the node radius,
// and spreads the shared name pool.
func (n *networkChart) drawName(nd Node, p geom.Point, r float64, opts NetworkOptions) (*text.Annotation, error) {
	f := n.fig
	a := text.NewAnnotation(f.c)
	dopts := text.DrawOptions{
		Align:       text.AlignCenter,
		VA:          text.VABottom,
		Pad:         r,
		Style:       canvas.Style{"fontsize": f.opts.Config.FontSize}.Merge(opts.NameStyle).Merge(nd.NameStyle),
		WordSpacing: f.XLim().Width() / 250,
		Space:       canvas.SpaceData,
	}
	span := geom.Span{Start: p.X - 2*r, End: p.X + 2*r}
	if _, err := a.DrawString(nd.Name, span, p.Y, dopts); err != nil {
		return nil, err
	}

	n.labels = append(n.labels, a)
	blocks := make([]label.Block, len(n.labels))
	for i, la := range n.labels {
		blocks[i] = la
	}
	if err := label.Distribute(blocks, label.Options{MaxIterations: opts.MaxIterations}); err != nil {
		return nil, err
	}
	return a, nil
}

// drawEdge draws a straight edge retracted to the node borders, with an
// arrowhead at the target for directed graphs. Nodes that overlap leave no
// room for a line; ok is false then.
func (n *networkChart) drawEdge(u, v geom.Point, ru, rv float64, st canvas.Style, directed bool) (canvas.Handle, bool) {
	dx, dy := v.X-u.X, v.Y-u.Y
	dist := math.Hypot(dx, dy)
	if dist <= ru+rv {
		return nil, false
	}
	ux, uy := dx/dist, dy/dist
	from := geom.Point{X: u.X + ru*ux, Y: u.Y + ru*uy}
	to := geom.Point{X: v.X - rv*ux, Y: v.Y - rv*uy}

	pts := []geom.Point{from, to}
	if directed {
		pts = arrowPoints(from, to, rv*0.75)
	}
	return n.fig.c.DrawLine(pts, st, canvas.SpaceData), true
}

// drawLoop draws a self-loop: a circular arc sitting on top of the node,
// clipped where it enters the node circle, stroked twice as wide as a plain
// edge so it reads at its small size.
func (n *networkChart) drawLoop(p geom.Point, r float64, st canvas.Style, directed bool) canvas.Handle {
	pts := loopPoints(p, r)
	if directed && len(pts) >= 2 {
		tip, prev := pts[len(pts)-1], pts[len(pts)-2]
		head := arrowPoints(prev, tip, r*0.5)
		pts = append(pts, head[2:]...)
	}
	st = st.With("linewidth", st.LineWidth(1)*2)
	return n.fig.c.DrawLine(pts, st, canvas.SpaceData)
}

// loopPoints samples the arc of a self-loop in one-degree steps. The loop
// circle has half the node's radius and is centered on its rim; the arc runs
// between the two intersections with the node circle.
func loopPoints(p geom.Point, r float64) []geom.Point {
	loopR := r / 2
	c := geom.Point{X: p.X, Y: p.Y + r}

	d1 := (r*r - loopR*loopR + r*r) / (2 * r)
	d2 := r - d1
	start := int(math.Floor(math.Asin(-d2/loopR) * 180 / math.Pi))

	pts := make([]geom.Point, 0, 180-2*start)
	for i := start; i < 180-start; i++ {
		a := math.Pi*(float64(i)/180-0.5) + math.Pi/2
		pts = append(pts, geom.Point{X: c.X + loopR*math.Cos(a), Y: c.Y + loopR*math.Sin(a)})
	}
	return pts
}

// drawEdgeName writes an edge's name at its midpoint; self-loop names sit
// above the loop instead, which takes a probe draw to learn the text height
// before the final placement.
func (n *networkChart) drawEdgeName(e Edge, u, v geom.Point, r float64, opts NetworkOptions) (*text.Annotation, error) {
	f := n.fig
	xr := f.XLim().Width()
	slot := xr * 0.15
	st := canvas.Style{"fontsize": f.opts.Config.FontSize}.Merge(opts.NameStyle).Merge(e.NameStyle)
	dopts := text.DrawOptions{
		Align:       text.AlignCenter,
		VA:          text.VACenter,
		Style:       st,
		WordSpacing: xr / 250,
		Space:       canvas.SpaceData,
	}

	a := text.NewAnnotation(f.c)
	if e.From != e.To {
		mid := geom.Point{X: (u.X + v.X) / 2, Y: (u.Y + v.Y) / 2}
		span := geom.Span{Start: mid.X - slot/2, End: mid.X + slot/2}
		if _, err := a.DrawString(e.Name, span, mid.Y, dopts); err != nil {
			return nil, err
		}
		return a, nil
	}

	span := geom.Span{Start: u.X - slot/2, End: u.X + slot/2}
	if _, err := a.DrawString(e.Name, span, u.Y, dopts); err != nil {
		return nil, err
	}
	height := a.BoundingBox().Height()
	a.Remove()
	if _, err := a.DrawString(e.Name, span, u.Y+2*r+height, dopts); err != nil {
		return nil, err
	}
	return a, nil
}

// dotSource renders the graph as DOT with generated node ids, safe whatever
// the user ids contain. The layout engine rides along as a graph attribute.
func dotSource(g Graph, engine string) (string, map[string]string) {
	ids := make(map[string]string, len(g.Nodes))
	gen := make(map[string]string, len(g.Nodes))

	kw, sep := "graph", "--"
	if g.Directed {
		kw, sep = "digraph", "->"
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s G {\n", kw)
	fmt.Fprintf(&b, "\tlayout=%s;\n", engine)
	for i, nd := range g.Nodes {
		gid := fmt.Sprintf("n%d", i)
		ids[gid] = nd.ID
		gen[nd.ID] = gid
		fmt.Fprintf(&b, "\t%s;\n", gid)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "\t%s %s %s;\n", gen[e.From], sep, gen[e.To])
	}
	b.WriteString("}\n")
	return b.String(), ids
}

// layoutPositions runs the Graphviz layout and returns raw node positions.
func layoutPositions(ctx context.Context, g Graph, engine string) (map[string]geom.Point, error) {
	src, ids := dotSource(g, engine)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "initialize graphviz")
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse layout source")
	}
	defer func() { _ = graph.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.Format("plain"), &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "lay out graph")
	}
	return parsePlain(buf.Bytes(), ids)
}

// parsePlain reads node positions out of Graphviz plain output, whose node
// lines run "node <name> <x> <y> ...".
func parsePlain(out []byte, ids map[string]string) (map[string]geom.Point, error) {
	pos := make(map[string]geom.Point, len(ids))
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 || fields[0] != "node" {
			continue
		}
		id, ok := ids[fields[1]]
		if !ok {
			continue
		}
		x, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse layout position of %q", id)
		}
		y, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse layout position of %q", id)
		}
		pos[id] = geom.Point{X: x, Y: y}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read layout output")
	}
	if len(pos) != len(ids) {
		return nil, errors.New(errors.ErrCodeInternal, "layout placed %d of %d nodes", len(pos), len(ids))
	}
	return pos, nil
}

// normalizePositions maps raw layout positions onto the unit square; a
// degenerate dimension collapses to its middle.
func normalizePositions(pos map[string]geom.Point) map[string]geom.Point {
	if len(pos) == 0 {
		return pos
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pos {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	norm := make(map[string]geom.Point, len(pos))
	for id, p := range pos {
		q := geom.Point{X: 0.5, Y: 0.5}
		if maxX > minX {
			q.X = (p.X - minX) / (maxX - minX)
		}
		if maxY > minY {
			q.Y = (p.Y - minY) / (maxY - minY)
		}
		norm[id] = q
	}
	return norm
}
