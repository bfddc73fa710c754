// Package ui exposes the analysis service over HTTP.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"goenrich/adapters/report"
	"goenrich/app"
)

// App represents the HTTP application
type App struct {
	router   *chi.Mux
	analysis *app.AnalysisService
	reports  *report.Generator
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates a new HTTP application around an analysis service.
func NewApp(analysis *app.AnalysisService) *App {
	a := &App{
		router:   chi.NewRouter(),
		analysis: analysis,
		reports:  report.NewGenerator(),
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// Router returns the configured handler, mainly for tests.
func (a *App) Router() http.Handler { return a.router }

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/healthz", a.handleHealth)

	a.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/enrich", a.handleEnrich)
		r.Get("/runs", a.handleListRuns)
		r.Get("/runs/{id}", a.handleGetRun)
		r.Get("/runs/{id}/report", a.handleRunReport)
	})
}

// Serve starts the HTTP server on the configured port.
func (a *App) Serve(config Config) error {
	return http.ListenAndServe(":"+config.Port, a.router)
}
