package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/notate/pkg/canvas/raster"
	"github.com/matzehuels/notate/pkg/canvas/svg"
	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/render"
)

// Render generates output artifacts in the requested formats.
//
// The svg canvas cv carries the already-drawn document and may be nil (for
// example after a layout cache hit); the document is then drawn again on
// demand. layoutData backs the json format directly, so cached layouts
// round-trip byte for byte; pass nil to have it derived from the drawing.
func Render(ctx context.Context, d *document.Document, th *document.Theme, layoutData []byte, cv *svg.Canvas, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	ensure := func() (*svg.Canvas, error) {
		if cv != nil {
			return cv, nil
		}
		c, err := svg.New(svgOptions(th, opts))
		if err != nil {
			return nil, err
		}
		if _, err := BuildFigure(ctx, c, d, th, opts); err != nil {
			return nil, err
		}
		cv = c
		return cv, nil
	}

	// The svg document is shared by the svg, pdf and optionally png formats;
	// serialize it once.
	var svgData []byte
	svgOf := func() ([]byte, error) {
		if svgData != nil {
			return svgData, nil
		}
		c, err := ensure()
		if err != nil {
			return nil, err
		}
		svgData = c.Render()
		return svgData, nil
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = svgOf()
		case FormatPNG:
			if opts.PNGFromSVG {
				var s []byte
				if s, err = svgOf(); err == nil {
					data, err = render.ToPNG(s, float64(opts.Scale))
				}
			} else {
				data, err = renderPNG(ctx, d, th, opts)
			}
		case FormatPDF:
			var s []byte
			if s, err = svgOf(); err == nil {
				data, err = render.ToPDF(s)
			}
		case FormatJSON:
			if layoutData == nil {
				var c *svg.Canvas
				if c, err = ensure(); err == nil {
					layoutData, err = render.MarshalLayout(render.Export(c, th.Name))
				}
			}
			data = layoutData
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderPNG draws the document natively on a raster canvas. Scale multiplies
// the pixel dimensions and the DPI together, so a scale-2 PNG is the same
// figure at twice the resolution, not a larger layout.
func renderPNG(ctx context.Context, d *document.Document, th *document.Theme, opts Options) ([]byte, error) {
	cv, err := raster.New(rasterOptions(th, opts))
	if err != nil {
		return nil, err
	}
	if _, err := BuildFigure(ctx, cv, d, th, opts); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := cv.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// svgOptions builds SVG canvas options from the theme and pipeline options.
func svgOptions(th *document.Theme, opts Options) svg.Options {
	return svg.Options{
		Width:      opts.Width,
		Height:     opts.Height,
		DPI:        opts.DPI,
		Margin:     opts.Margin,
		Background: th.Colors.Background,
		Font:       th.Font.Family,
		EmbedFonts: opts.EmbedFonts,
		Fonts:      opts.Fonts,
	}
}

// rasterOptions builds raster canvas options, scaled for PNG output.
func rasterOptions(th *document.Theme, opts Options) raster.Options {
	scale := max(opts.Scale, 1)
	return raster.Options{
		Width:      opts.Width * scale,
		Height:     opts.Height * scale,
		DPI:        opts.DPI * float64(scale),
		Margin:     opts.Margin,
		Background: th.Colors.Background,
		Font:       th.Font.Family,
		Fonts:      opts.Fonts,
	}
}
