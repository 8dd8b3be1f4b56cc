package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notate/pkg/cache"
	"github.com/matzehuels/notate/pkg/canvas/svg"
	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/observability"
	"github.com/matzehuels/notate/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Parse
	parseStart := time.Now()
	source := opts.sourceLabel()
	observability.Pipeline().OnParseStart(ctx, source)
	d, raw, err := Parse(ctx, opts)
	var th *document.Theme
	if err == nil {
		th, err = ResolveTheme(opts, d)
	}
	charts := 0
	if d != nil {
		charts = len(d.Charts)
	}
	observability.Pipeline().OnParseComplete(ctx, source, charts, time.Since(parseStart), err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Document = d
	result.Theme = th
	result.DocumentHash = cache.Hash(raw)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.ChartCount = len(d.Charts)

	r.Logger.Info("parsed document",
		"charts", len(d.Charts),
		"theme", th.Name,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, th.Name, len(d.Charts))
	layout, layoutData, cv, layoutHit, err := r.layoutWithCanvas(ctx, d, th, result.DocumentHash, opts)
	observability.Pipeline().OnLayoutComplete(ctx, th.Name, len(layout.Items), time.Since(layoutStart), err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.ItemCount = len(layout.Items)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"items", len(layout.Items),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.renderCached(ctx, d, th, layoutData, cv, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// layoutWithCanvas is GenerateLayoutWithCacheInfo plus the drawn canvas, so
// Execute's render stage can reuse the drawing on a layout cache miss. The
// canvas is nil on a hit.
func (r *Runner) layoutWithCanvas(ctx context.Context, d *document.Document, th *document.Theme, docHash string, opts Options) (render.Layout, []byte, *svg.Canvas, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return render.Layout{}, nil, nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.layoutKey(docHash, th, opts)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cached, err := render.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, data, nil, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	layout, cv, err := GenerateLayout(ctx, d, th, opts)
	if err != nil {
		return render.Layout{}, nil, nil, false, err
	}

	data, err := render.MarshalLayout(layout)
	if err != nil {
		return render.Layout{}, nil, nil, false, err
	}
	_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	observability.Cache().OnCacheSet(ctx, "layout", len(data))

	return layout, data, cv, false, nil
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, d *document.Document, th *document.Theme, docHash string, opts Options) (render.Layout, bool, error) {
	layout, _, _, hit, err := r.layoutWithCanvas(ctx, d, th, docHash, opts)
	return layout, hit, err
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, d *document.Document, th *document.Theme, docHash string, opts Options) (render.Layout, error) {
	layout, _, err := r.GenerateLayoutWithCacheInfo(ctx, d, th, docHash, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *document.Document, th *document.Theme, layout render.Layout, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := render.MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	return r.renderCached(ctx, d, th, layoutData, nil, opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d *document.Document, th *document.Theme, layout render.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, th, layout, opts)
	return artifacts, err
}

// renderCached renders all requested formats, serving and filling the
// artifact cache.
func (r *Runner) renderCached(ctx context.Context, d *document.Document, th *document.Theme, layoutData []byte, cv *svg.Canvas, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache (unless refresh requested)
	allCached := !opts.Refresh
	artifacts := make(map[string][]byte)

	if allCached {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
			} else {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := Render(ctx, d, th, layoutData, cv, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil // Cache miss
}

// layoutKey derives the layout cache key. The resolved theme is hashed into
// the key, so edits to a theme file invalidate layouts even when the theme
// path and name stay the same.
func (r *Runner) layoutKey(docHash string, th *document.Theme, opts Options) string {
	ko := opts.LayoutKeyOpts()
	if data, err := json.Marshal(th); err == nil {
		ko.Theme = th.Name + ":" + cache.Hash(data)
	}
	return r.Keyer.LayoutKey(docHash, ko)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
