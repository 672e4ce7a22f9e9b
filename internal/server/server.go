// Package server exposes the deal evaluator over HTTP: analysis, report
// downloads, narrative generation, and raw area-data lookups.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/metusa-property/deal-analyzer/internal/area"
	"github.com/metusa-property/deal-analyzer/internal/config"
	"github.com/metusa-property/deal-analyzer/internal/evaluator"
	"github.com/metusa-property/deal-analyzer/internal/narrative"
	"github.com/metusa-property/deal-analyzer/internal/report"
)

// Server routes HTTP requests to the evaluator and its collaborators.
type Server struct {
	cfg      config.ServerConfig
	eval     *evaluator.Evaluator
	area     *area.Service
	renderer *report.Renderer
	narrator *narrative.Generator

	router chi.Router
}

// New wires a Server. The area service and narrator may be nil-valued
// collaborators when their upstreams are not configured.
func New(cfg config.ServerConfig, eval *evaluator.Evaluator, areaSvc *area.Service,
	renderer *report.Renderer, narrator *narrative.Generator) *Server {

	s := &Server{
		cfg:      cfg,
		eval:     eval,
		area:     areaSvc,
		renderer: renderer,
		narrator: narrator,
	}
	s.router = s.buildRouter()
	return s
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	analyzeLimit := newIPRateLimiter(s.cfg.AnalyzeRPM)
	pdfLimit := newIPRateLimiter(s.cfg.PDFRPM)
	dataLimit := newIPRateLimiter(s.cfg.DataRPM)

	r.Group(func(r chi.Router) {
		r.Use(analyzeLimit.middleware)
		r.Post("/analyze", s.handleAnalyze)
	})

	r.Group(func(r chi.Router) {
		r.Use(pdfLimit.middleware)
		r.Post("/download-pdf", s.handleDownloadPDF)
		r.Post("/download-xlsx", s.handleDownloadXLSX)
		r.Post("/ai-analyze", s.handleAIAnalyze)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(dataLimit.middleware)
			r.Get("/sold-prices/{postcode}", s.handleSoldPrices)
			r.Get("/average-price/{postcode}", s.handleAveragePrice)
			r.Get("/price-trend/{postcode}", s.handlePriceTrend)
			r.Get("/rental-valuation/{postcode}", s.handleRentalValuation)
			r.Get("/market/{postcode}", s.handleMarketContext)
			r.Get("/transport/{postcode}", s.handleTransport)
		})
	})

	return r
}

// ListenAndServe runs the server until SIGINT/SIGTERM, then drains.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.Int("port", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		zap.L().Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
