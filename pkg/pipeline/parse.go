package pipeline

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/httputil"
	"github.com/matzehuels/notate/pkg/observability"
)

// fetchTTL bounds how long fetched documents are reused before the URL is
// consulted again.
const fetchTTL = 24 * time.Hour

// Parse loads and validates the document named by opts. It returns the
// document together with the raw bytes it was decoded from; the bytes feed
// the layout cache key.
func Parse(ctx context.Context, opts Options) (*document.Document, []byte, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, err
	}
	raw, err := loadSource(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	d, err := document.ReadJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}
	return d, raw, nil
}

// ResolveTheme resolves the effective theme for a document: an explicit
// option wins over the document's own theme, which wins over the default.
func ResolveTheme(opts Options, d *document.Document) (*document.Theme, error) {
	name := opts.Theme
	if name == "" {
		name = d.Theme
	}
	return document.ResolveTheme(name)
}

func loadSource(ctx context.Context, opts Options) ([]byte, error) {
	if len(opts.Source) > 0 {
		return opts.Source, nil
	}
	if isURL(opts.Path) {
		return fetchDocument(ctx, opts.Path, opts.Refresh)
	}
	data, err := os.ReadFile(opts.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeDocumentNotFound, err, "read document")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read document")
	}
	return data, nil
}

func isURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// fetchDocument downloads a document with retries, reusing the shared HTTP
// response cache unless refresh is set. Cache failures degrade to a plain
// fetch.
func fetchDocument(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	var docs *httputil.Cache
	if hc, err := httputil.NewCache("", fetchTTL); err == nil {
		docs = hc.Namespace("docs:")
	}
	if docs != nil && !refresh {
		var data []byte
		if ok, err := docs.Get(rawURL, &data); ok && err == nil {
			observability.Cache().OnCacheHit(ctx, "document")
			return data, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "document")

	host, urlPath := splitURL(rawURL)
	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		observability.HTTP().OnRequest(ctx, http.MethodGet, host, urlPath)
		start := time.Now()
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			observability.HTTP().OnError(ctx, http.MethodGet, host, urlPath, err)
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()
		observability.HTTP().OnResponse(ctx, http.MethodGet, host, urlPath, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusNotFound:
			return errors.New(errors.ErrCodeDocumentNotFound, "fetch %s: %s", rawURL, resp.Status)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return &httputil.RetryableError{Err: errors.New(errors.ErrCodeInternal, "fetch %s: %s", rawURL, resp.Status)}
		default:
			return errors.New(errors.ErrCodeInternal, "fetch %s: %s", rawURL, resp.Status)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	if docs != nil {
		_ = docs.Set(rawURL, body)
	}
	return body, nil
}

// splitURL separates a URL into host and path for hook reporting.
func splitURL(rawURL string) (host, path string) {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Host, u.Path
	}
	return rawURL, ""
}
