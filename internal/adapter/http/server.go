// Package http exposes the service over HTTP: the insights API, report
// rendering, and the usual health and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/local-insights/internal/domain"
	"github.com/couchcryptid/local-insights/internal/render"
)

// InsightsService is the aggregation core consumed by the handlers.
type InsightsService interface {
	GetInsights(ctx context.Context, postcode, number string) (domain.Insights, error)
}

// Server hosts the HTTP API.
type Server struct {
	httpServer *http.Server
	service    InsightsService
	pdf        render.PDFRenderer // nil when no PDF pipeline is configured
	logger     *slog.Logger
}

// NewServer creates the HTTP server and routes.
func NewServer(addr string, service InsightsService, pdf render.PDFRenderer, logger *slog.Logger) *Server {
	s := &Server{
		service: service,
		pdf:     pdf,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/api/preview", s.handlePreview)
	r.Get("/api/report.html", s.handleReportHTML)
	r.Get("/api/report.pdf", s.handleReportPDF)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	insights, ok := s.getInsights(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	insights, ok := s.getInsights(w, r)
	if !ok {
		return
	}

	html, err := render.HTML(insights)
	if err != nil {
		s.logger.Error("html render failed", "postcode", insights.Postcode, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html) //nolint:errcheck // best-effort response body
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	if s.pdf == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody("pdf renderer not configured"))
		return
	}

	insights, ok := s.getInsights(w, r)
	if !ok {
		return
	}

	pdf, err := s.pdf.RenderPDF(r.Context(), insights)
	if err != nil {
		s.logger.Error("pdf render failed", "postcode", insights.Postcode, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error"))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "local-insights-"+insights.Postcode+".pdf"))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf) //nolint:errcheck // best-effort response body
}

// getInsights runs the aggregation for the request's query parameters,
// writing the error response itself when the query fails.
func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) (domain.Insights, bool) {
	postcode := r.URL.Query().Get("postcode")
	number := r.URL.Query().Get("number")

	insights, err := s.service.GetInsights(r.Context(), postcode, number)
	switch {
	case err == nil:
		return insights, true
	case errors.Is(err, domain.ErrPostcodeRequired):
		writeJSON(w, http.StatusBadRequest, errorBody("postcode is required"))
	case errors.Is(err, domain.ErrPostcodeNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("postcode not found"))
	default:
		s.logger.Error("insights failed", "postcode", postcode, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal_error"))
	}
	return domain.Insights{}, false
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
