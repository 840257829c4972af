// Package server exposes the launch dashboard over HTTP.
//
// Query endpoints call the pure chart builders directly. The /ws endpoint
// runs one dashboard.Controller per websocket session: control events read
// from the socket are dispatched synchronously and every rebuilt chart is
// pushed back to the browser.
package server

import (
	"context"
	"embed"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/spektr-org/launchdash/dashboard"
	"github.com/spektr-org/launchdash/engine"
	"github.com/spektr-org/launchdash/render"
)

//go:embed index.html
var assets embed.FS

// Config configures the HTTP listener and chart images.
type Config struct {
	Listen          string
	ShutdownTimeout time.Duration
	ChartWidth      int
	ChartHeight     int
}

// Server serves one loaded launch table to any number of sessions.
type Server struct {
	cfg        Config
	table      *engine.LaunchTable
	options    dashboard.Options
	engineOpts []engine.Option
	renderer   *render.Renderer
	registry   *prometheus.Registry
	metrics    *dashboard.Metrics
	sessions   prometheus.Gauge
	log        logr.Logger
}

// New creates a server. The table is shared read-only by every request.
func New(cfg Config, table *engine.LaunchTable, options dashboard.Options, log logr.Logger, engineOpts ...engine.Option) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "launchdash",
		Name:      "sessions_active",
		Help:      "Open dashboard websocket sessions.",
	})
	reg.MustRegister(sessions)

	return &Server{
		cfg:        cfg,
		table:      table,
		options:    options,
		engineOpts: engineOpts,
		renderer:   render.New(cfg.ChartWidth, cfg.ChartHeight, log.WithName("render")),
		registry:   reg,
		metrics:    dashboard.NewMetrics(reg),
		sessions:   sessions,
		log:        log,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /api/options", s.handleOptions)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/charts/{name}", s.handleChart)
	mux.HandleFunc("GET /ws", s.handleSession)

	return mux
}

// Run listens until ctx is cancelled, then shuts down gracefully.
// Websocket sessions derive their context from ctx and end with it.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("dashboard listening", "addr", s.cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down dashboard", "timeout", s.cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return err
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, assets, "index.html")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "launches": s.table.Len()})
}
