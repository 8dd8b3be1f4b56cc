package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notate/pkg/pipeline"
)

// renderCommand creates the render command for generating chart artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "render [document.json]",
		Short: "Render a document to SVG, PNG, or PDF",
		Long: `Render a document to SVG, PNG, or PDF.

The render command runs the full pipeline: it loads the document from a file
or http(s) URL, computes the layout (text measurement and annotation
placement), and writes one artifact per requested format.

Layouts and artifacts are cached locally for faster subsequent runs.

Use 'layout' to export the placed geometry without rendering.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Layout flags
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme name (default, dark) or TOML file")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "figure width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "figure height in pixels")
	cmd.Flags().Float64Var(&opts.DPI, "dpi", opts.DPI, "resolution for point-based sizes")
	cmd.Flags().Float64Var(&opts.Margin, "margin", opts.Margin, "margin as a fraction of each dimension")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", opts.FontSize, "base font size in points (0 = document's)")

	// Render flags
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().IntVar(&opts.Scale, "scale", opts.Scale, "PNG resolution multiplier")
	cmd.Flags().BoolVar(&opts.EmbedFonts, "embed-fonts", opts.EmbedFonts, "inline @font-face rules into SVG output")

	return cmd
}

// runRender executes the full pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering document...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Path, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	cached := result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit
	printStats(result.Stats.ChartCount, result.Stats.ItemCount, cached)

	return nil
}

// writeArtifacts writes one file per format and returns the written paths.
// A single format with an explicit output writes to that exact path; everything
// else derives base.<format> names from the output base or the input name.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		data, ok := artifacts[formats[0]]
		if !ok {
			return nil, fmt.Errorf("no %s artifact produced", formats[0])
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := outputBase(input, output)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return nil, fmt.Errorf("no %s artifact produced", format)
		}
		p := base + "." + format
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// outputBase derives the base output path (no extension) from the input and
// the --output flag. URL inputs write next to the working directory using the
// last path segment.
func outputBase(input, output string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if u, err := url.Parse(input); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		name := path.Base(u.Path)
		if name == "" || name == "." || name == "/" {
			name = "document"
		}
		return strings.TrimSuffix(name, path.Ext(name))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}
