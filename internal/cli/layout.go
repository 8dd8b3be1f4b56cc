package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notate/pkg/cache"
	"github.com/matzehuels/notate/pkg/pipeline"
	"github.com/matzehuels/notate/pkg/render"
)

// layoutCommand creates the layout command for computing document layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "layout [document.json]",
		Short: "Compute the layout for a document",
		Long: `Compute the layout for a document.

The layout command loads a document, measures its text, places every label
and annotation, and writes the resulting geometry as JSON (same format as
'render -f json'). Nothing is rasterized.

Results are cached locally for faster subsequent runs.

Use 'render' to go directly from a document to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	// Layout flags
	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme name (default, dark) or TOML file")
	cmd.Flags().IntVar(&opts.Width, "width", opts.Width, "figure width in pixels")
	cmd.Flags().IntVar(&opts.Height, "height", opts.Height, "figure height in pixels")
	cmd.Flags().Float64Var(&opts.DPI, "dpi", opts.DPI, "resolution for point-based sizes")
	cmd.Flags().Float64Var(&opts.Margin, "margin", opts.Margin, "margin as a fraction of each dimension")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", opts.FontSize, "base font size in points (0 = document's)")

	return cmd
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	d, raw, err := pipeline.Parse(ctx, opts)
	if err != nil {
		return fmt.Errorf("load document %s: %w", opts.Path, err)
	}
	th, err := pipeline.ResolveTheme(opts, d)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, d, th, cache.Hash(raw), opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
		outputPath = base + ".layout.json"
	}

	data, err := render.MarshalLayout(layout)
	if err != nil {
		return fmt.Errorf("serialize layout: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(d.Charts), len(layout.Items), cacheHit)
	printNewline()
	printNextStep("Render", "notate render "+opts.Path)

	return nil
}
