package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csg33k/people-indicators/internal/adapters/geo"
	sqliteadapter "github.com/csg33k/people-indicators/internal/adapters/sqlite"
	"github.com/csg33k/people-indicators/internal/adapters/xlsx"
	"github.com/csg33k/people-indicators/internal/config"
	"github.com/csg33k/people-indicators/internal/handlers"
	"github.com/csg33k/people-indicators/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	repo, err := sqliteadapter.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer repo.Close()

	opts := handlers.Options{
		SessionTTL:     cfg.SessionTTL,
		MaxUploadBytes: cfg.MaxUploadBytes,
		MetricsPath:    cfg.MetricsPath,
		Logger:         logger,
	}
	if cfg.MetricsEnabled {
		opts.Metrics = metrics.Handler()
	}
	h := handlers.New(repo, xlsx.New(), geo.New(cfg.GeoJSONURL, cfg.GeoJSONTimeout), opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go sweepSessions(ctx, repo, cfg.SessionSweepInterval)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			logger.Warn("shutdown", "err", err)
		}
	}()

	logger.Info("people indicators dashboard running", "url", "http://localhost:"+cfg.Port, "database", cfg.DBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// sweepSessions drops expired sessions and their rosters on every tick and
// publishes how many are still alive.
func sweepSessions(ctx context.Context, repo *sqliteadapter.Repository, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			now := time.Now()
			n, err := repo.PurgeExpired(ctx, now)
			if err != nil {
				slog.Warn("purge expired sessions", "err", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions purged", "count", n)
			}
			if active, err := repo.CountActive(ctx, now); err == nil {
				metrics.SetActiveSessions(active)
			}
		}
	}
}
