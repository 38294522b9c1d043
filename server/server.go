// Package server hosts the audit wizard in the browser and the audit
// service API it calls.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"housingbridge/config"
	"housingbridge/i18n"
	"housingbridge/services"
	"housingbridge/utils"
	"housingbridge/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server wires the HTTP routes to per-session wizard controllers and the
// audit engine.
type Server struct {
	cfg      *config.Config
	auditor  *services.Auditor
	reports  *services.ReportService
	sessions *sessionStore
	tmpl     *template.Template
	logger   *utils.Logger
}

// New builds a Server. Wizard sessions audit through service; the
// /api/audit route is answered by auditor.
func New(cfg *config.Config, service wizard.AuditService, auditor *services.Auditor, logger *utils.Logger) (*Server, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("server: parse templates: %w", err)
	}

	lang, err := i18n.Parse(cfg.DefaultLang)
	if err != nil {
		logger.Warn("[server] %v, using ja", err)
		lang = i18n.Japanese
	}

	s := &Server{
		cfg:     cfg,
		auditor: auditor,
		reports: services.NewReportService(logger),
		tmpl:    tmpl,
		logger:  logger,
	}
	s.sessions = newSessionStore(func() *wizard.Controller {
		ctl := wizard.New(service, logger, wizard.Options{
			Lang:             lang,
			KeepStaleResults: cfg.KeepStaleResults,
		})
		ctl.Subscribe(func(snap wizard.Snapshot) {
			logger.Debug("[wizard] step=%s loading=%t lang=%s", snap.Step, snap.Loading, snap.Lang)
		})
		return ctl
	})
	return s, nil
}

// Router returns the HTTP handler for every route.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("POST /back", s.handleBack)
	mux.HandleFunc("POST /configure", s.handleConfigure)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("POST /lang", s.handleLang)
	mux.HandleFunc("GET /export", s.handleExport)
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)

	api := s.withCORS(http.HandlerFunc(s.handleAudit))
	mux.Handle("POST "+services.AuditPath, api)
	mux.Handle("OPTIONS "+services.AuditPath, api)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	return s.logRequests(mux)
}

// ListenAndServe runs the server until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepSessions(ctx, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Serving HousingBridge at http://localhost%s", addr)
		errCh <- srv.ListenAndServe()
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
		s.logger.Info("[server] Shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) sweepSessions(ctx context.Context, maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.sweep(maxIdle); n > 0 {
				s.logger.Debug("[server] Dropped %d idle sessions", n)
			}
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("[server] %s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
