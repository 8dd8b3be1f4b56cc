package viz

import (
	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/geom"
)

// DefaultPopulationHeight is the fraction of the vertical band a population
// column fills.
const DefaultPopulationHeight = 0.6

// PopulationOptions configures one DrawPopulation call.
type PopulationOptions struct {
	// Height is the filled fraction of the vertical band, in (0, 1]. Zero
	// means DefaultPopulationHeight.
	Height float64 `json:"height,omitempty"`

	// Style styles the points.
	Style canvas.Style `json:"style,omitempty"`

	// KeepAxes leaves the axes as they are instead of applying the
	// population styling (inverted y axis, so points fill top-down).
	KeepAxes bool `json:"keep_axes,omitempty"`
}

// populationChart holds the figure-level population state: how many columns
// are already drawn, so later draws continue to the right.
type populationChart struct {
	fig     *Figure
	styled  bool
	columns int
}

func (p *populationChart) draw(count, rows int, opts PopulationOptions) ([][]canvas.Handle, error) {
	if count < 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "population must not be negative, got %d", count)
	}
	if rows < 1 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "population needs at least one row, got %d", rows)
	}
	h := opts.Height
	if h == 0 {
		h = DefaultPopulationHeight
	}
	if h < 0 || h > 1 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "population height must be in (0, 1], got %v", h)
	}

	f := p.fig
	_ = f.SetYLim(-0.1, 1.1)
	if !opts.KeepAxes && !p.styled {
		f.InvertY()
		p.styled = true
	}
	if count == 0 {
		return nil, nil
	}

	lim0, lim1 := 0.5-h/2, 0.5+h/2
	var gap float64
	if rows > 1 {
		gap = (lim1 - lim0) / float64(rows-1)
	}

	columns := (count + rows - 1) / rows
	startCol := p.columns
	f.extendExtent(geom.Rect{
		X0: 1 + float64(startCol),
		Y0: lim0,
		X1: 1 + float64(startCol+columns-1),
		Y1: lim1,
	})

	r := f.markerRadius(opts.Style, DefaultMarkerSize, canvas.SpaceData)
	points := make([][]canvas.Handle, 0, columns)
	drawn := 0
	for col := range columns {
		var colPts []canvas.Handle
		for row := 0; row < rows && drawn < count; row++ {
			pt := geom.Point{X: 1 + float64(startCol+col), Y: lim0 + float64(row)*gap}
			colPts = append(colPts, f.c.DrawCircle(pt, r, opts.Style, canvas.SpaceData))
			drawn++
		}
		points = append(points, colPts)
	}
	p.columns += columns

	f.opts.Logger.Debug("drew population", "count", count, "rows", rows, "columns", columns)
	return points, nil
}
