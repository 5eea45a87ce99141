// Package server exposes detection and validation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/eykd/adsheet-go/internal/detect"
	"github.com/eykd/adsheet-go/internal/domain"
	"github.com/eykd/adsheet-go/internal/mismatch"
)

// MaxBodyBytes caps the size of a request body.
const MaxBodyBytes = 10 << 20

// Validator runs the rule engine over a table.
type Validator interface {
	Validate(ctx context.Context, table domain.Table, platform string, autoFix bool) (*domain.ValidationResult, domain.Table, error)
}

// MismatchDetector flags content placed in the wrong column.
type MismatchDetector interface {
	Detect(ctx context.Context, table domain.Table) ([]mismatch.Flag, error)
}

// PlatformLister lists the rulesets that can be resolved.
type PlatformLister interface {
	Platforms() ([]string, error)
}

// Server holds the handlers' dependencies.
type Server struct {
	validator Validator
	detector  MismatchDetector
	platforms PlatformLister
	log       zerolog.Logger
}

// New creates a Server.
func New(v Validator, d MismatchDetector, p PlatformLister, log zerolog.Logger) *Server {
	return &Server{validator: v, detector: d, platforms: p, log: log}
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/platforms", s.listPlatforms)
		r.Post("/detect", s.detectPlatform)
		r.Post("/validate", s.validate)
	})
	return r
}

// accessLog writes one line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

type platformsResponse struct {
	Platforms []string `json:"platforms"`
}

func (s *Server) listPlatforms(w http.ResponseWriter, r *http.Request) {
	names, err := s.platforms.Platforms()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	render.JSON(w, r, platformsResponse{Platforms: names})
}

type detectRequest struct {
	Headers []string `json:"headers"`
}

type detectResponse struct {
	Platform string         `json:"platform"`
	Scores   []detect.Score `json:"scores"`
}

func (s *Server) detectPlatform(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	if len(req.Headers) == 0 {
		s.fail(w, r, http.StatusBadRequest, errors.New("headers must not be empty"))
		return
	}
	render.JSON(w, r, detectResponse{
		Platform: detect.Detect(req.Headers),
		Scores:   detect.Scores(req.Headers),
	})
}

type validateRequest struct {
	Columns  []string         `json:"columns"`
	Rows     [][]domain.Value `json:"rows"`
	Platform string           `json:"platform"`
	AutoFix  bool             `json:"auto_fix"`
	Mismatch bool             `json:"mismatch"`
}

// table checks the request shape and builds the table it describes.
func (req validateRequest) table() (domain.Table, error) {
	if len(req.Columns) == 0 {
		return domain.Table{}, errors.New("columns must not be empty")
	}
	seen := make(map[string]bool, len(req.Columns))
	for _, c := range req.Columns {
		if seen[c] {
			return domain.Table{}, fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = true
	}
	t := domain.NewTable(req.Columns...)
	for i, cells := range req.Rows {
		if len(cells) > len(req.Columns) {
			return domain.Table{}, fmt.Errorf("row %d has %d cells, expected at most %d", i, len(cells), len(req.Columns))
		}
		t.AppendRow(cells...)
	}
	return t, nil
}

type tableBody struct {
	Columns []string         `json:"columns"`
	Rows    [][]domain.Value `json:"rows"`
}

func newTableBody(t domain.Table) tableBody {
	rows := make([][]domain.Value, t.Len())
	for i, row := range t.Rows {
		cells := make([]domain.Value, len(t.Columns))
		for j, c := range t.Columns {
			cells[j] = row[c]
		}
		rows[i] = cells
	}
	return tableBody{Columns: t.Columns, Rows: rows}
}

type validateResponse struct {
	Platform string              `json:"platform"`
	Issues   []domain.Issue      `json:"issues"`
	Summary  domain.SummaryStats `json:"summary"`
	Table    tableBody           `json:"table"`
	Flags    []mismatch.Flag     `json:"flags,omitempty"`
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decode(w, r, &req); err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	table, err := req.table()
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	result, verified, err := s.validator.Validate(r.Context(), table, req.Platform, req.AutoFix)
	switch {
	case errors.Is(err, domain.ErrConfigNotFound):
		s.fail(w, r, http.StatusNotFound, err)
		return
	case err != nil:
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	resp := validateResponse{
		Platform: result.Platform,
		Issues:   result.Issues,
		Summary:  result.Summary,
		Table:    newTableBody(verified),
	}
	if resp.Issues == nil {
		resp.Issues = []domain.Issue{}
	}
	if req.Mismatch {
		flags, err := s.detector.Detect(r.Context(), table)
		if err != nil {
			s.fail(w, r, http.StatusInternalServerError, err)
			return
		}
		resp.Flags = flags
	}
	render.JSON(w, r, resp)
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

// ShutdownTimeout bounds the graceful shutdown of ListenAndServe.
const ShutdownTimeout = 10 * time.Second

// ListenAndServe serves the API on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.log.Info().Msg("server stopped")
	return nil
}
