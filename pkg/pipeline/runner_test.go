package pipeline

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/notate/pkg/cache"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/render"
)

// testDocument exercises axes, charts and ambient text without external
// tools.
const testDocument = `{
	"version": 1,
	"title": "Coffee consumption",
	"caption": "Cups per day over the study period.",
	"axes": {"xlim": [0, 10], "ylim": [0, 5]},
	"charts": [
		{"timeseries": {"x": [0, 2, 4, 6, 8, 10], "y": [1, 2, 1.5, 3, 4, 3.5], "options": {"label": "cups"}}},
		{"annotation": {"text": "peak season", "span": [6, 9], "y": 4.5}}
	]
}`

func newTestLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func TestRunnerExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, newTestLogger())
	defer r.Close()

	opts := Options{
		Source:  []byte(testDocument),
		Formats: []string{FormatSVG, FormatPNG, FormatJSON},
	}
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Stats.ChartCount != 2 {
		t.Errorf("ChartCount = %d, want 2", res.Stats.ChartCount)
	}
	if res.Stats.ItemCount == 0 {
		t.Error("ItemCount should be positive")
	}
	if res.DocumentHash == "" {
		t.Error("DocumentHash should be set")
	}
	if res.Theme == nil || res.Theme.Name != "default" {
		t.Errorf("Theme = %+v, want default", res.Theme)
	}
	for _, f := range opts.Formats {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact is not an svg document")
	}
	if !bytes.HasPrefix(res.Artifacts[FormatPNG], []byte("\x89PNG")) {
		t.Error("png artifact is not a png image")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("first run should not hit the cache")
	}

	// The json artifact is the exported layout.
	l, err := render.UnmarshalLayout(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("unmarshal json artifact: %v", err)
	}
	if len(l.Items) != res.Stats.ItemCount {
		t.Errorf("json artifact has %d items, result has %d", len(l.Items), res.Stats.ItemCount)
	}

	// Second run serves layout and artifacts from cache.
	res2, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !res2.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !res2.CacheInfo.RenderHit {
		t.Error("second run should hit the render cache")
	}
	if !bytes.Equal(res2.Artifacts[FormatSVG], res.Artifacts[FormatSVG]) {
		t.Error("cached svg differs from rendered svg")
	}
}

func TestRunnerExecuteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(testDocument), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, newTestLogger())
	res, err := r.Execute(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Artifacts[FormatSVG]) == 0 {
		t.Error("svg artifact is empty")
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
}

func TestRunnerExecuteMissingFile(t *testing.T) {
	r := NewRunner(nil, nil, newTestLogger())
	_, err := r.Execute(context.Background(), Options{Path: filepath.Join(t.TempDir(), "absent.json")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, errors.ErrCodeDocumentNotFound) {
		t.Errorf("error = %v, want NOT_FOUND_DOCUMENT", err)
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, newTestLogger())

	if _, err := r.Execute(context.Background(), Options{}); err == nil {
		t.Error("missing source should fail")
	}
	opts := Options{Source: []byte(testDocument), Formats: []string{"bogus"}}
	if _, err := r.Execute(context.Background(), opts); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestRunnerThemeOption(t *testing.T) {
	r := NewRunner(nil, nil, newTestLogger())
	res, err := r.Execute(context.Background(), Options{Source: []byte(testDocument), Theme: "dark"})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Theme.Name != "dark" {
		t.Errorf("Theme = %s, want dark", res.Theme.Name)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("#1c1c1c")) {
		t.Error("svg should use the dark background")
	}
}

func TestRunnerRefreshBypassesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, newTestLogger())
	defer r.Close()

	opts := Options{Source: []byte(testDocument)}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatalf("warmup Execute: %v", err)
	}

	opts.Refresh = true
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerStageMethods(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, newTestLogger())
	defer r.Close()

	ctx := context.Background()
	opts := Options{Source: []byte(testDocument)}

	d, raw, err := Parse(ctx, opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	th, err := ResolveTheme(opts, d)
	if err != nil {
		t.Fatalf("ResolveTheme: %v", err)
	}
	hash := cache.Hash(raw)

	layout, hit, err := r.GenerateLayoutWithCacheInfo(ctx, d, th, hash, opts)
	if err != nil {
		t.Fatalf("GenerateLayoutWithCacheInfo: %v", err)
	}
	if hit {
		t.Error("first layout should miss the cache")
	}
	if len(layout.Items) == 0 {
		t.Error("layout has no items")
	}

	if _, hit, err = r.GenerateLayoutWithCacheInfo(ctx, d, th, hash, opts); err != nil || !hit {
		t.Errorf("second layout hit = %v, err = %v, want hit", hit, err)
	}

	artifacts, err := r.Render(ctx, d, th, layout, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(artifacts[FormatSVG]) == 0 {
		t.Error("svg artifact is empty")
	}
}
