package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/ringside/internal/api"
	"github.com/vytor/ringside/internal/config"
	"github.com/vytor/ringside/internal/db"
	"github.com/vytor/ringside/internal/jobs"
	"github.com/vytor/ringside/internal/logger"
	"github.com/vytor/ringside/internal/repository/sqlite"
	"github.com/vytor/ringside/internal/services"
	"github.com/vytor/ringside/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithJSON(cfg.LogFormat == "json"),
		logger.WithColors(cfg.LogFormat != "json"),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("ringside server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s, log_format=%s", cfg.LogLevel, cfg.LogFormat)
	log.Debug("history_limit=%d, head_to_head_limit=%d", cfg.HistoryLimit, cfg.HeadToHeadLimit)
	log.Debug("recalc_worker_count=%d, recalc_queue_size=%d", cfg.RecalcWorkerCount, cfg.RecalcQueueSize)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	wrestlerRepo := sqlite.NewWrestlerRepository(database.DB)
	statsRepo := sqlite.NewStatsRepository(database.DB)
	matchRepo := sqlite.NewMatchRepository(database.DB)
	historyRepo := sqlite.NewRatingHistoryRepository(database.DB)
	leagueRepo := sqlite.NewLeagueRepository(database.DB)

	// Services
	wrestlerService := services.NewWrestlerService(wrestlerRepo, statsRepo, historyRepo, cfg.HistoryLimit)
	matchService := services.NewMatchService(wrestlerRepo, statsRepo, matchRepo, cfg.HistoryLimit, cfg.HeadToHeadLimit)
	recalcService := services.NewRecalculationService(leagueRepo)

	recalcPool := worker.NewPool(cfg.RecalcWorkerCount, cfg.RecalcQueueSize)

	srv := &api.Server{
		DB:              database,
		WrestlerService: wrestlerService,
		MatchService:    matchService,
		JobQueue:        jobs.NewWorkerQueue(recalcPool, recalcService),
		AllowedOrigins:  cfg.CORSAllowedOrigins,
	}

	ctx, cancel := context.WithCancel(context.Background())
	recalcPool.Start(logger.NewContext(ctx, log))

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     stdlog.New(log.WithPrefix("http").Zerolog(), "", 0),
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// The pool cancels an in-flight replay, which rolls back, before the database closes.
	log.Debug("stopping recalculation pool")
	recalcPool.Stop()
	cancel()

	log.Info("ringside server stopped")
}
