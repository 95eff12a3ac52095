// Package server exposes the business API over HTTP as JSON.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"timesheet/internal/api"
	"timesheet/internal/logging"
	"timesheet/internal/repository/sqlstore/migrations"
	"timesheet/internal/spotify"
)

var errPanic = errors.New("handler panicked")

// HealthChecker is the part of the store the health endpoints probe
type HealthChecker interface {
	Ping(ctx context.Context) error
	SchemaStatus(ctx context.Context) (*migrations.Status, error)
}

// Info identifies the running build
type Info struct {
	Name    string
	Version string
	Mode    string
}

// Options configures a Server
type Options struct {
	API     api.BusinessAPI
	Health  HealthChecker
	Spotify *spotify.Client
	Logger  *log.Logger
	Info    Info

	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Now replaces time.Now for response timestamps
	Now func() time.Time
}

// Server serves the JSON API
type Server struct {
	api     api.BusinessAPI
	health  HealthChecker
	spotify *spotify.Client
	logger  *log.Logger
	info    Info
	opts    Options
	now     func() time.Time
	handler http.Handler
}

// New creates a server and registers its routes
func New(opts Options) *Server {
	s := &Server{
		api:     opts.API,
		health:  opts.Health,
		spotify: opts.Spotify,
		logger:  logging.OrDiscard(opts.Logger),
		info:    opts.Info,
		opts:    opts,
		now:     opts.Now,
	}
	if s.now == nil {
		s.now = time.Now
	}

	mux := http.NewServeMux()
	s.routes(mux)
	s.handler = s.logRequests(s.recoverPanics(mux))
	return s
}

// Handler returns the HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(mux *http.ServeMux) {
	// Time entries
	mux.HandleFunc("GET /api/time-entries/date/{date}", s.handleEntriesByDate)
	mux.HandleFunc("GET /api/time-entries/date-range", s.handleEntriesByRange)
	mux.HandleFunc("GET /api/time-entries/daily-total/{date}", s.handleDailyTotal)
	mux.HandleFunc("GET /api/time-entries/overlaps", s.handleOverlaps)
	mux.HandleFunc("GET /api/time-entries/{id}", s.handleGetEntry)
	mux.HandleFunc("POST /api/time-entries", s.handleCreateEntry)
	mux.HandleFunc("POST /api/time-entries/bulk", s.handleBulkCreate)
	mux.HandleFunc("POST /api/time-entries/validate", s.handleValidateEntry)
	mux.HandleFunc("PUT /api/time-entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/time-entries/{id}", s.handleDeleteEntry)

	// Reports
	mux.HandleFunc("GET /api/reports/daily/{date}", s.handleDailyReport)
	mux.HandleFunc("GET /api/reports/weekly/{date}", s.handleWeeklyReport)
	mux.HandleFunc("GET /api/reports/statistics", s.handleStatistics)
	mux.HandleFunc("GET /api/reports/enhanced-statistics", s.handleEnhancedStatistics)
	mux.HandleFunc("GET /api/reports/productivity-insights", s.handleInsights)
	mux.HandleFunc("GET /api/reports/daily-range", s.handleDailyRange)
	mux.HandleFunc("GET /api/reports/current-week", s.handleCurrentWeek)
	mux.HandleFunc("GET /api/reports/last-7-days", s.handleLastDays(7))
	mux.HandleFunc("GET /api/reports/last-30-days", s.handleLastDays(30))

	// Categories
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/categories/active", s.handleListActiveCategories)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/reorder", s.handleReorderCategories)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)
	mux.HandleFunc("PATCH /api/categories/{id}/archive", s.handleArchiveCategory)

	// Tasks
	mux.HandleFunc("GET /api/tasks/category/{categoryId}", s.handleTasksByCategory)
	mux.HandleFunc("GET /api/tasks/category/{categoryId}/active", s.handleActiveTasksByCategory)
	mux.HandleFunc("GET /api/tasks/active", s.handleActiveTasks)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("PUT /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("PATCH /api/tasks/{id}/archive", s.handleArchiveTask)
	mux.HandleFunc("PUT /api/tasks/category/{categoryId}/reorder", s.handleReorderTasks)
	// a literal move-to-category segment would clash with the reorder pattern above
	mux.HandleFunc("PUT /api/tasks/{taskId}/{action}/{newCategoryId}", s.handleMoveTask)

	// Export
	mux.HandleFunc("GET /api/export/time-entries/csv", s.handleExportEntries)
	mux.HandleFunc("GET /api/export/daily-summary/csv", s.handleExportDaily)
	mux.HandleFunc("GET /api/export/task-summary/csv", s.handleExportTasks)
	mux.HandleFunc("GET /api/export/current-week/csv", s.handleExportCurrentWeek)
	mux.HandleFunc("GET /api/export/last-30-days/csv", s.handleExportLast30Days)
	mux.HandleFunc("GET /api/export/month/{year}/{month}/csv", s.handleExportMonth)

	// Health
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/health/version", s.handleVersion)
	mux.HandleFunc("GET /api/health/status", s.handleStatus)
	mux.HandleFunc("GET /api/health/ping", s.handlePing)

	// Spotify
	mux.HandleFunc("POST /api/spotify/token", s.handleSpotifyToken)
	mux.HandleFunc("POST /api/spotify/refresh", s.handleSpotifyRefresh)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		ErrorLog:     s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}

	serveErrs := make(chan error, 1)
	go func() {
		serveErrs <- srv.Serve(ln)
	}()
	s.logger.Info("Listening", "addr", ln.Addr().String(), "version", s.info.Version, "mode", s.info.Mode)

	select {
	case err := <-serveErrs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down")
	shutdownErr := srv.Shutdown(shutdownCtx)
	serveErr := <-serveErrs
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}
	return errors.Join(shutdownErr, serveErr)
}
