package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/notate/pkg/buildinfo"
	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/pipeline"
	"github.com/matzehuels/notate/pkg/store"
)

// renderRequest is the body of POST /render: pipeline options plus an
// inline document.
type renderRequest struct {
	pipeline.Options
	Document json.RawMessage `json:"document,omitempty"`
}

// renderResponse wraps a pipeline result for JSON transport. Artifact
// bytes are base64-encoded by encoding/json.
type renderResponse struct {
	DocumentHash string             `json:"document_hash"`
	Theme        string             `json:"theme"`
	Stats        pipeline.Stats     `json:"stats"`
	Cache        pipeline.CacheInfo `json:"cache"`
	Artifacts    map[string][]byte  `json:"artifacts"`
}

// documentRequest is the body of POST and PUT /documents.
type documentRequest struct {
	Name     string          `json:"name"`
	Document json.RawMessage `json:"document"`
}

// listResponse is the body of GET /documents.
type listResponse struct {
	Documents []*store.Record `json:"documents"`
	Count     int             `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// requestOptions merges an inline document into the request's pipeline
// options. Local paths would let clients read server files, so only inline
// documents and http(s) URLs are accepted.
func (s *Server) requestOptions(req renderRequest) (pipeline.Options, error) {
	opts := req.Options
	if len(req.Document) > 0 {
		opts.Source = req.Document
	}
	if opts.Path != "" && !strings.HasPrefix(opts.Path, "http://") && !strings.HasPrefix(opts.Path, "https://") {
		return opts, errors.New(errors.ErrCodeInvalidArgument,
			"path must be an http(s) URL; send local documents inline")
	}
	opts.Logger = s.logger
	return opts, nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := s.requestOptions(req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, renderResponse{
		DocumentHash: result.DocumentHash,
		Theme:        result.Theme.Name,
		Stats:        result.Stats,
		Cache:        result.CacheInfo,
		Artifacts:    result.Artifacts,
	})
}

// handleLayout computes a layout without rasterizing and returns the placed
// geometry JSON directly. The body matches POST /render; format options are
// ignored.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := s.requestOptions(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{pipeline.FormatJSON}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Document-Hash", result.DocumentHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[pipeline.FormatJSON])
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	d, err := decodeDocument(req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.store.Create(r.Context(), req.Name, d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	d, err := decodeDocument(req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rec, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), req.Name, d)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context(), store.ListOptions{
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Documents: recs, Count: len(recs)})
}

// handleRenderDocument renders a stored document to a single format and
// returns the raw artifact bytes. Query parameters: format (default svg),
// theme, width, height, scale, refresh.
func (s *Server) handleRenderDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}

	source, err := json.Marshal(rec.Document)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode stored document"))
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Source:  source,
		Theme:   r.URL.Query().Get("theme"),
		Refresh: r.URL.Query().Get("refresh") == "true",
		Width:   queryInt(r, "width"),
		Height:  queryInt(r, "height"),
		Scale:   queryInt(r, "scale"),
		Formats: []string{format},
		Logger:  s.logger,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Document-Hash", result.DocumentHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// decodeDocument parses and validates an inline document body.
func decodeDocument(raw json.RawMessage) (*document.Document, error) {
	if len(raw) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "document is required")
	}
	return document.ReadJSON(bytes.NewReader(raw))
}

// contentType maps a render format to its response content type.
func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG:
		return "image/svg+xml"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}
