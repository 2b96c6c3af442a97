package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ia-solution/cybercrim/internal/config"
	"github.com/ia-solution/cybercrim/internal/report"
	"github.com/ia-solution/cybercrim/internal/scanner"
)

type Server struct {
	cfg       *config.Config
	engine    *scanner.Engine
	reportGen *report.Generator
	hub       *Hub
	mux       *http.ServeMux
}

func New(cfg *config.Config, registry *scanner.Registry) *Server {
	hub := NewHub()

	engine := scanner.NewEngine(scanner.Options{
		StepMin:   time.Duration(cfg.Scanner.StepMinMS) * time.Millisecond,
		StepMax:   time.Duration(cfg.Scanner.StepMaxMS) * time.Millisecond,
		UserAgent: cfg.Scanner.UserAgent,
	}, registry, hub)

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		reportGen: report.NewGenerator(cfg.Reports.Directory, cfg.Reports.Font),
		hub:       hub,
		mux:       http.NewServeMux(),
	}

	s.registerRoutes()
	return s
}

// Handler returns the middleware-wrapped root handler.
func (s *Server) Handler() http.Handler {
	return recoveryMiddleware(securityHeaders(loggingMiddleware(s.mux)))
}

func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	slog.Info("starting server", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/", s.handleIndex)

	// Scan API
	s.mux.HandleFunc("/api/scans", s.handleAPIScans)
	s.mux.HandleFunc("/api/scans/", s.handleAPIScan)

	// Report API
	s.mux.HandleFunc("/api/reports", s.handleAPIReports)
	s.mux.HandleFunc("/reports/", s.handleReportDownload)

	// WebSocket progress stream
	s.mux.HandleFunc("/ws", s.handleWebSocket)
}
