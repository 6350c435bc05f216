// Package main is the entry point for the MarketLens analysis service. It
// wires the configuration, database, repositories, analysis engine, scheduler
// and HTTP server, then blocks until a shutdown signal arrives.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketlens/marketlens/internal/clients/yahoo"
	"github.com/marketlens/marketlens/internal/config"
	"github.com/marketlens/marketlens/internal/database"
	"github.com/marketlens/marketlens/internal/jobs"
	"github.com/marketlens/marketlens/internal/modules/analysis"
	"github.com/marketlens/marketlens/internal/modules/history"
	"github.com/marketlens/marketlens/internal/modules/narrative"
	"github.com/marketlens/marketlens/internal/scheduler"
	"github.com/marketlens/marketlens/internal/server"
	"github.com/marketlens/marketlens/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Int("port", cfg.Port).
		Str("data_dir", cfg.DataDir).
		Strs("watchlist", cfg.Watchlist).
		Msg("Starting MarketLens")

	db, err := database.Open(cfg.DatabasePath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	historyRepo := history.NewRepository(db.Conn(), log)
	if err := historyRepo.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize price history store")
	}

	snapshotRepo := analysis.NewSnapshotRepository(db.Conn(), log)
	if err := snapshotRepo.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize snapshot store")
	}

	yahooClient := yahoo.NewClient(cfg.YahooBaseURL, log)
	analysisService := analysis.NewService(cfg.RiskFreeRate, log)

	var narrator analysis.Narrator
	if cfg.AnthropicAPIKey != "" {
		narrativeService, err := narrative.NewService(cfg.AnthropicAPIKey, cfg.AnthropicModel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize narrative service")
		}
		narrator = narrativeService
	} else {
		log.Info().Msg("No Anthropic API key configured, narrative endpoint disabled")
	}

	analysisHandlers := analysis.NewHandlers(
		analysisService,
		yahooClient,
		historyRepo,
		snapshotRepo,
		narrator,
		log,
	)

	sched := scheduler.New(log)
	if len(cfg.Watchlist) > 0 {
		refreshJob := jobs.NewRefreshJob(cfg.Watchlist, yahooClient, historyRepo, analysisService, snapshotRepo, log)
		if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.RefreshSchedule).Msg("Failed to register refresh job")
		}
	}
	if err := sched.AddJob("0 0 3 * * *", jobs.NewMaintenanceJob(db, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register maintenance job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:              log,
		Port:             cfg.Port,
		DevMode:          cfg.DevMode,
		DB:               db,
		AnalysisHandlers: analysisHandlers,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("MarketLens stopped")
}
