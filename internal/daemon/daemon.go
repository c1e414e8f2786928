package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ecosnap-app/ecosnap/internal/api"
	"github.com/ecosnap-app/ecosnap/internal/app/actionlog"
	"github.com/ecosnap-app/ecosnap/internal/app/badges"
	"github.com/ecosnap-app/ecosnap/internal/app/catalog"
	"github.com/ecosnap-app/ecosnap/internal/app/stats"
	"github.com/ecosnap-app/ecosnap/internal/health"
	_ "github.com/ecosnap-app/ecosnap/internal/infra/metrics" // Register Prometheus metrics
	"github.com/ecosnap-app/ecosnap/internal/infra/sqlite"
)

// Daemon is the core EcoSnap runtime. It wires together all services.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Catalog *catalog.Catalog
	Log     *actionlog.Service
	Stats   *stats.Aggregator
	Streaks *stats.StreakTracker
	Badges  *badges.Engine
	Server  *api.Server
	Hub     *api.Hub
	Health  *health.Checker

	logger *log.Logger
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	logger := newLogger(cfg.Logging)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(ecosnapHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Stable node identity: config wins, else the stored id, else mint one
	if cfg.Node.ID == "" {
		id, err := db.GetState("node_id")
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("read node id: %w", err)
		}
		if id == "" {
			id = "node-" + uuid.NewString()[:8]
			if err := db.SetState("node_id", id); err != nil {
				db.Close()
				return nil, fmt.Errorf("store node id: %w", err)
			}
		}
		cfg.Node.ID = id
	}

	cat := catalog.Default()
	logSvc := actionlog.NewService(db, cat)
	agg := stats.NewAggregator(db, cat, loc)
	streaks := stats.NewStreakTracker(db, loc)

	engine, err := badges.NewEngine(db, cat, streaks, loc, badges.DefaultRules())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("badge rules: %w", err)
	}

	windowDays := cfg.Engagement.WindowDays
	if windowDays < 1 {
		windowDays = 7
	}

	srv := api.NewServer(cat, logSvc, agg, streaks, engine, cfg.Engagement.DefaultUser, windowDays)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	hub := api.NewHub(logger)
	srv.SetHub(hub)

	d := &Daemon{
		Config:  cfg,
		DB:      db,
		Catalog: cat,
		Log:     logSvc,
		Stats:   agg,
		Streaks: streaks,
		Badges:  engine,
		Server:  srv,
		Hub:     hub,
		Health:  health.NewChecker(db, cat, ecosnapHome()),
		logger:  logger,
	}
	return d, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	// Background services
	go d.Hub.Run(ctx)
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	d.logger.Info("EcoSnap serving", "addr", "http://"+addr, "node", d.Config.Node.ID)
	if d.Config.Telemetry.Prometheus {
		d.logger.Info("metrics enabled", "endpoint", "http://"+addr+"/metrics")
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// newLogger builds the daemon logger from config.
func newLogger(cfg LoggingConfig) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ecosnap",
	})
	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}
