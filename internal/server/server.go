// Package server exposes the selection form over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/landcover-cli/internal/analysis"
	"github.com/sells-group/landcover-cli/internal/apperr"
	"github.com/sells-group/landcover-cli/internal/config"
	"github.com/sells-group/landcover-cli/internal/model"
)

// Runner runs one analysis for a submitted selection.
type Runner interface {
	Submit(ctx context.Context, req analysis.Request) (*analysis.Result, error)
	LastMapPath() string
}

// Options configures the HTTP front end.
type Options struct {
	ChartPath      string
	AllowedOrigins []string
	Region         string
}

// Server serves the form, runs analyses and returns the produced files.
type Server struct {
	runner Runner
	opts   Options
	log    *zap.Logger
}

// New creates a Server.
func New(runner Runner, opts Options) *Server {
	return &Server{
		runner: runner,
		opts:   opts,
		log:    zap.L().With(zap.String("component", "server")),
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handleIndex)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/map", s.handleMap)
	r.Get("/chart", s.handleChart)
	r.Get("/health", s.handleHealth)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := indexData{
		Region:     s.opts.Region,
		Years:      model.AllYears(),
		Categories: model.AllCategories(),
		CanView:    config.FileExists(s.runner.LastMapPath()),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		s.log.Error("render index", zap.Error(err))
	}
}

// analyzeRequest accepts either a JSON body or a urlencoded form.
type analyzeRequest struct {
	Year           string `json:"year"`
	Vegetation     bool   `json:"vegetation"`
	Water          bool   `json:"water"`
	Infrastructure bool   `json:"infrastructure"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body", "kind": "validation"})
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form", "kind": "validation"})
			return
		}
		req.Year = r.PostFormValue("year")
		req.Vegetation = r.PostFormValue(model.Vegetation.Key()) != ""
		req.Water = r.PostFormValue(model.Water.Key()) != ""
		req.Infrastructure = r.PostFormValue(model.Infrastructure.Key()) != ""
	}

	res, err := s.runner.Submit(r.Context(), analysis.Request{
		Year: model.Year(req.Year),
		Selection: model.Selection{
			Vegetation:     req.Vegetation,
			Water:          req.Water,
			Infrastructure: req.Infrastructure,
		},
	})
	if err != nil {
		status, kind := statusFor(err)
		switch {
		case status >= http.StatusInternalServerError:
			s.log.Error("analysis failed", zap.String("kind", kind), zap.Error(err))
		case status == statusClientClosedRequest:
			s.log.Info("analysis cancelled by client", zap.Error(err))
		}
		writeJSON(w, status, map[string]string{"error": err.Error(), "kind": kind})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"summary": res.Summary(),
		"result":  res,
	})
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	s.serveFile(w, r, s.runner.LastMapPath(), "text/html; charset=utf-8")
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	path := ""
	if s.runner.LastMapPath() != "" {
		path = s.opts.ChartPath
	}
	s.serveFile(w, r, path, "image/png")
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path, contentType string) {
	if !config.FileExists(path) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no analysis result available", "kind": "not_found"})
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	http.ServeFile(w, r, path)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusClientClosedRequest is the nginx convention for a request the
// client abandoned before the response was ready.
const statusClientClosedRequest = 499

func statusFor(err error) (int, string) {
	if eris.Is(err, analysis.ErrBusy) {
		return http.StatusConflict, "busy"
	}
	kind := apperr.Kind(err)
	switch kind {
	case "validation":
		return http.StatusBadRequest, kind
	case "not_found":
		return http.StatusNotFound, kind
	case "upstream":
		return http.StatusBadGateway, kind
	case "canceled":
		return statusClientClosedRequest, kind
	default:
		return http.StatusInternalServerError, kind
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
