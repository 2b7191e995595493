package web

import (
	"github.com/rohanthewiz/rweb"
)

// SetupRoutes configures all HTTP routes for the server
func (h *Handlers) SetupRoutes(s *rweb.Server) {
	// Root endpoint - serves the analysis form
	s.Get("/", h.indexHandler)

	// Rendered report for a repository
	s.Get("/report", h.reportPageHandler)

	// API endpoints
	s.Get("/api/app", h.appInfoHandler)
	s.Post("/api/analyze", h.analyzeHandler)
	s.Get("/api/runs/:id", h.runReportHandler)
}
