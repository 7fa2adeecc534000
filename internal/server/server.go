// Package server exposes the dashboard over HTTP: JSON card listings, filter
// options, HTML card pages, zip image archives and launch exports.
package server

//go:generate mockgen -destination=mock_fetcher_test.go -package=server spacedash/pkg/pipeline Fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"spacedash/pkg/archive"
	"spacedash/pkg/config"
	apperrors "spacedash/pkg/errors"
	"spacedash/pkg/export"
	"spacedash/pkg/logger"
	"spacedash/pkg/pipeline"
	"spacedash/pkg/render"
)

// Server serves the dashboard API
type Server struct {
	pipeline *pipeline.Pipeline
	builder  *archive.Builder
	cfg      *config.Config
	logger   logger.Logger
	router   *http.ServeMux
}

// New wires the routes
func New(p *pipeline.Pipeline, b *archive.Builder, cfg *config.Config, log logger.Logger) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	s := &Server{
		pipeline: p,
		builder:  b,
		cfg:      cfg,
		logger:   log,
		router:   http.NewServeMux(),
	}

	s.router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.HandleFunc("GET /api/categories", s.listCategories)
	s.router.HandleFunc("GET /api/launches/export", s.exportLaunches)
	s.router.HandleFunc("GET /api/{category}", s.listCards)
	s.router.HandleFunc("GET /api/{category}/filters", s.filterOptions)
	s.router.HandleFunc("GET /api/{category}/images.zip", s.downloadImages)
	s.router.HandleFunc("GET /api/{category}/cards.html", s.cardsPage)

	return s
}

// Handler returns the routed handler with request logging
func (s *Server) Handler() http.Handler {
	return requestLogger(s.logger, s.router)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoWithFields("Starting server", map[string]interface{}{
			"addr": s.cfg.Server.Address,
		})
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down server")
		return httpServer.Shutdown(shutdownCtx)
	}
}

type filterInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

type categoryInfo struct {
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	ArchiveName string       `json:"archive_name"`
	Filters     []filterInfo `json:"filters"`
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats := pipeline.Categories()
	out := make([]categoryInfo, 0, len(cats))
	for _, c := range cats {
		info := categoryInfo{Name: c.Name, Title: c.Title, ArchiveName: c.ArchiveName, Filters: []filterInfo{}}
		for _, f := range c.Filters {
			info.Filters = append(info.Filters, filterInfo{Key: f.Key, Label: f.Label, Kind: f.Kind.String()})
		}
		out = append(out, info)
	}
	JSONSuccess(w, out, nil)
}

// parseQuery builds a pipeline query from the path and query string.
// It writes the error response itself and reports whether to continue.
func (s *Server) parseQuery(w http.ResponseWriter, r *http.Request, categoryName string, display bool) (pipeline.Query, bool) {
	c, ok := pipeline.LookupCategory(categoryName)
	if !ok {
		JSONError(w, http.StatusNotFound, "unknown_category", fmt.Sprintf("unknown category %q", categoryName))
		return pipeline.Query{}, false
	}

	params := r.URL.Query()
	limit := s.cfg.Fetch.DefaultLimit
	if v := params.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.cfg.Fetch.MaxLimit {
			JSONError(w, http.StatusBadRequest, "invalid_limit",
				fmt.Sprintf("limit must be between 1 and %d", s.cfg.Fetch.MaxLimit))
			return pipeline.Query{}, false
		}
		limit = n
	}

	raw := map[string]string{}
	for key := range params {
		if key == "limit" || key == "format" {
			continue
		}
		raw[key] = params.Get(key)
	}
	spec, err := pipeline.ParseFilterSpec(c, raw)
	if err != nil {
		JSONError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return pipeline.Query{}, false
	}

	return pipeline.Query{Category: c, Filters: spec, Limit: limit, Display: display}, true
}

// run executes q. Fetch failures come back as an empty result with a notice.
func (s *Server) run(w http.ResponseWriter, r *http.Request, q pipeline.Query) (*pipeline.Result, bool) {
	res, err := s.pipeline.Run(r.Context(), q)
	if err != nil && !apperrors.IsFetchError(err) {
		JSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return nil, false
	}
	return res, true
}

type listMeta struct {
	Category string   `json:"category"`
	Fetched  int      `json:"fetched"`
	Selected int      `json:"selected"`
	Limit    int      `json:"limit"`
	Filters  []string `json:"filters"`
	Notice   string   `json:"notice,omitempty"`
}

type listData struct {
	Cards  []pipeline.Card     `json:"cards"`
	Images []pipeline.ImageRef `json:"images"`
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r, r.PathValue("category"), true)
	if !ok {
		return
	}
	res, ok := s.run(w, r, q)
	if !ok {
		return
	}

	cards := res.Cards
	if cards == nil {
		cards = []pipeline.Card{}
	}
	JSONSuccess(w, listData{Cards: cards, Images: res.Images}, listMeta{
		Category: q.Category.Name,
		Fetched:  res.Fetched,
		Selected: len(res.Records),
		Limit:    q.Limit,
		Filters:  q.Filters.Active(),
		Notice:   res.Notice,
	})
}

func (s *Server) filterOptions(w http.ResponseWriter, r *http.Request) {
	c, ok := pipeline.LookupCategory(r.PathValue("category"))
	if !ok {
		JSONError(w, http.StatusNotFound, "unknown_category", fmt.Sprintf("unknown category %q", r.PathValue("category")))
		return
	}

	opts, err := s.pipeline.Options(r.Context(), c)
	meta := map[string]string{}
	if err != nil {
		if !apperrors.IsFetchError(err) {
			JSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		meta["notice"] = c.FailureNotice()
	}
	JSONSuccess(w, opts, meta)
}

func (s *Server) downloadImages(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r, r.PathValue("category"), false)
	if !ok {
		return
	}
	res, ok := s.run(w, r, q)
	if !ok {
		return
	}
	if res.Failed {
		JSONError(w, http.StatusBadGateway, "fetch_failed", res.Notice)
		return
	}
	if len(res.Images) == 0 {
		JSONError(w, http.StatusNotFound, "no_images", q.Category.NoImagesNotice())
		return
	}

	a, err := s.builder.Build(r.Context(), res.Images)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "archive_failed", err.Error())
		return
	}
	logger.LogArchive(s.logger, q.Category.Name, a.Len(), len(a.Skipped()), len(a.Bytes()))

	w.Header().Set("X-Archive-Entries", strconv.Itoa(a.Len()))
	attachment(w, q.Category.ArchiveName, archive.MIMEType, a.Bytes())
}

func (s *Server) cardsPage(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r, r.PathValue("category"), true)
	if !ok {
		return
	}
	res, ok := s.run(w, r, q)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, render.Page{Title: q.Category.Title, Notice: res.Notice, Cards: res.Cards}); err != nil {
		JSONError(w, http.StatusInternalServerError, "render_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) exportLaunches(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		JSONError(w, http.StatusBadRequest, "invalid_format", err.Error())
		return
	}

	q, ok := s.parseQuery(w, r, "launches", false)
	if !ok {
		return
	}
	res, ok := s.run(w, r, q)
	if !ok {
		return
	}
	if res.Failed {
		JSONError(w, http.StatusBadGateway, "fetch_failed", res.Notice)
		return
	}

	body, err := export.Encode(export.LaunchRows(res.Records), format, s.cfg.Export.SheetName)
	if err != nil {
		JSONError(w, http.StatusInternalServerError, "export_failed", err.Error())
		return
	}
	attachment(w, format.Filename(), format.MIMEType(), body)
}
