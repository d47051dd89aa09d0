package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/codefolio/internal/plotpage"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
	"github.com/Sumatoshi-tech/codefolio/pkg/projects"
)

// Query parameters.
const (
	paramProgress = "progress"
	paramBrush    = "brush"
	paramQuery    = "query"
	paramYear     = "year"
	paramFormat   = "format"
	paramID       = "id"
)

// Tooltip query parameters: pointer, viewport and popup size in pixels.
const (
	paramPointerX  = "x"
	paramPointerY  = "y"
	paramViewportW = "vw"
	paramViewportH = "vh"
	paramPopupW    = "pw"
	paramPopupH    = "ph"
)

// Popup size assumed when the client does not measure it.
const (
	defaultPopupW = 280
	defaultPopupH = 120
)

const (
	formatYAML      = "yaml"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
	contentTypeYAML = "application/yaml"
	retryAfterSec   = "1"
)

var (
	errRateLimited  = errors.New("rate limit exceeded")
	errMissingID    = errors.New("missing commit id")
	errUnknownID    = errors.New("no visible commit with that id")
	errBadDimension = errors.New("not a number")
)

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleHome(rw http.ResponseWriter, hr *http.Request) {
	s.writePage(rw, hr, s.site.Home(s.projects))
}

func (s *Server) handleProjects(rw http.ResponseWriter, hr *http.Request) {
	q := hr.URL.Query()
	s.writePage(rw, hr, s.site.Projects(s.projects, q.Get(paramQuery), q.Get(paramYear)))
}

func (s *Server) handleContact(rw http.ResponseWriter, hr *http.Request) {
	s.writePage(rw, hr, s.site.Contact())
}

func (s *Server) handleMeta(rw http.ResponseWriter, hr *http.Request) {
	key := cacheKey(hr, paramProgress, paramBrush)
	if s.serveCached(rw, key) {
		return
	}

	gen := s.cache.generation()

	eng, err := s.engine(hr)
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)

		return
	}

	body, err := renderPage(s.site.Meta(eng))
	if err != nil {
		s.renderFailed(rw, hr, err)

		return
	}

	s.respond(rw, hr, gen, key, cachedResponse{contentType: contentTypeHTML, body: body})
}

func (s *Server) handleAPIMeta(rw http.ResponseWriter, hr *http.Request) {
	key := cacheKey(hr, paramProgress, paramBrush, paramFormat)
	if s.serveCached(rw, key) {
		return
	}

	gen := s.cache.generation()

	eng, err := s.engine(hr)
	if err != nil {
		writeJSON(hr.Context(), rw, http.StatusBadRequest, errorBody{Error: err.Error()})

		return
	}

	resp, err := encodeModel(hr, eng.Model())
	if err != nil {
		s.renderFailed(rw, hr, err)

		return
	}

	s.respond(rw, hr, gen, key, resp)
}

// handleAPITooltip places the detail popup for one visible commit under
// the request's progress and brush.
func (s *Server) handleAPITooltip(rw http.ResponseWriter, hr *http.Request) {
	q := hr.URL.Query()

	id := strings.TrimSpace(q.Get(paramID))
	if id == "" {
		writeJSON(hr.Context(), rw, http.StatusBadRequest, errorBody{Error: errMissingID.Error()})

		return
	}

	var dims [6]float64

	defaults := [6]float64{0, 0, 0, 0, defaultPopupW, defaultPopupH}

	for i, name := range []string{paramPointerX, paramPointerY, paramViewportW, paramViewportH, paramPopupW, paramPopupH} {
		v, err := floatParam(q.Get(name), defaults[i])
		if err != nil {
			writeJSON(hr.Context(), rw, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("%s: %v", name, err)})

			return
		}

		dims[i] = v
	}

	eng, err := s.engine(hr)
	if err != nil {
		writeJSON(hr.Context(), rw, http.StatusBadRequest, errorBody{Error: err.Error()})

		return
	}

	tip, ok := eng.Tooltip(id,
		meta.Point{X: dims[0], Y: dims[1]},
		meta.Size{W: dims[2], H: dims[3]},
		meta.Size{W: dims[4], H: dims[5]})
	if !ok {
		writeJSON(hr.Context(), rw, http.StatusNotFound, errorBody{Error: errUnknownID.Error()})

		return
	}

	s.writeModel(rw, hr, tip)
}

func floatParam(raw string, fallback float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadDimension, raw)
	}

	return v, nil
}

func (s *Server) handleAPIProjects(rw http.ResponseWriter, hr *http.Request) {
	q := hr.URL.Query()
	s.writeModel(rw, hr, projects.NewListing(s.projects, q.Get(paramQuery), q.Get(paramYear)))
}

// engine builds a private engine over the current snapshot and replays the
// request's progress and brush on it.
func (s *Server) engine(hr *http.Request) (*meta.Engine, error) {
	q := hr.URL.Query()

	query, err := meta.ParseQuery(q.Get(paramProgress), q.Get(paramBrush))
	if err != nil {
		return nil, err
	}

	eng := meta.NewEngine(s.store.Current().Commits, s.sceneOpts...)
	eng.Apply(query)

	return eng, nil
}

// limit rejects requests beyond the API rate with 429.
func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	if s.limiter == nil {
		return next
	}

	return func(rw http.ResponseWriter, hr *http.Request) {
		if !s.limiter.Allow() {
			rw.Header().Set("Retry-After", retryAfterSec)
			writeJSON(hr.Context(), rw, http.StatusTooManyRequests, errorBody{Error: errRateLimited.Error()})

			return
		}

		next(rw, hr)
	}
}

func (s *Server) writePage(rw http.ResponseWriter, hr *http.Request, page *plotpage.Page) {
	body, err := renderPage(page)
	if err != nil {
		s.renderFailed(rw, hr, err)

		return
	}

	s.write(rw, hr, cachedResponse{contentType: contentTypeHTML, body: body})
}

// writeModel answers with JSON, or YAML when format=yaml.
func (s *Server) writeModel(rw http.ResponseWriter, hr *http.Request, v any) {
	resp, err := encodeModel(hr, v)
	if err != nil {
		s.renderFailed(rw, hr, err)

		return
	}

	s.write(rw, hr, resp)
}

// serveCached writes the stored response for key, if any.
func (s *Server) serveCached(rw http.ResponseWriter, key string) bool {
	resp, ok := s.cache.get(key)
	if !ok {
		return false
	}

	rw.Header().Set(headerCache, cacheHit)
	rw.Header().Set("Content-Type", resp.contentType)
	rw.WriteHeader(http.StatusOK)
	_, _ = rw.Write(resp.body)

	return true
}

// respond stores resp for key in generation gen and writes it.
func (s *Server) respond(rw http.ResponseWriter, hr *http.Request, gen uint64, key string, resp cachedResponse) {
	s.cache.put(gen, key, resp)

	if s.cache != nil {
		rw.Header().Set(headerCache, cacheMiss)
	}

	s.write(rw, hr, resp)
}

func (s *Server) write(rw http.ResponseWriter, hr *http.Request, resp cachedResponse) {
	rw.Header().Set("Content-Type", resp.contentType)
	rw.WriteHeader(http.StatusOK)

	_, err := rw.Write(resp.body)
	if err != nil {
		s.logger.DebugContext(hr.Context(), "write response", "error", err)
	}
}

func (s *Server) renderFailed(rw http.ResponseWriter, hr *http.Request, err error) {
	s.logger.ErrorContext(hr.Context(), "render response", "path", hr.URL.Path, "error", err)
	http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func renderPage(page *plotpage.Page) ([]byte, error) {
	var buf bytes.Buffer

	err := page.Render(&buf)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	return buf.Bytes(), nil
}

func encodeModel(hr *http.Request, v any) (cachedResponse, error) {
	if hr.URL.Query().Get(paramFormat) == formatYAML {
		out, err := yaml.Marshal(v)
		if err != nil {
			return cachedResponse{}, fmt.Errorf("encode yaml: %w", err)
		}

		return cachedResponse{contentType: contentTypeYAML, body: out}, nil
	}

	out, err := json.Marshal(v)
	if err != nil {
		return cachedResponse{}, fmt.Errorf("encode json: %w", err)
	}

	return cachedResponse{contentType: contentTypeJSON, body: append(out, '\n')}, nil
}

func writeJSON(ctx context.Context, rw http.ResponseWriter, code int, v any) {
	rw.Header().Set("Content-Type", contentTypeJSON)
	rw.WriteHeader(code)

	err := json.NewEncoder(rw).Encode(v)
	if err != nil {
		slog.Default().ErrorContext(ctx, "encode json response", "error", err)
	}
}
