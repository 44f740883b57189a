package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/trelloflash/internal/api"
	"github.com/vytor/trelloflash/internal/config"
	"github.com/vytor/trelloflash/internal/db"
	"github.com/vytor/trelloflash/internal/jobs"
	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/models"
	"github.com/vytor/trelloflash/internal/repository/sqlite"
	"github.com/vytor/trelloflash/internal/services"
	"github.com/vytor/trelloflash/internal/trello"
	"github.com/vytor/trelloflash/internal/worker"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("TrelloFlash Server Starting")
	log.Info("===========================================")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("trello_base_url=%s", cfg.TrelloBaseURL)
	log.Debug("request_timeout=%s", cfg.RequestTimeout)
	log.Debug("move_worker_count=%d", cfg.MoveWorkerCount)
	log.Debug("move_queue_size=%d", cfg.MoveQueueSize)
	log.Debug("card_amounts=%v", cfg.CardAmounts)
	log.Debug("session_idle_ttl=%s", cfg.SessionIdleTTL)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	settingsRepo := sqlite.NewSettingsRepository(database.DB)
	hiddenRepo := sqlite.NewHiddenBoardRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	creds := trello.NewCredentials(cfg.TrelloAPIKey, "")
	client := trello.New(creds,
		trello.WithBaseURL(cfg.TrelloBaseURL),
		trello.WithTimeout(cfg.RequestTimeout),
	)

	ctx, cancel := context.WithCancel(context.Background())
	movePool := worker.NewPool("move", cfg.MoveWorkerCount, cfg.MoveQueueSize)
	movePool.Start(ctx)
	queue := jobs.NewWorkerQueue(movePool, client)

	prefService := services.NewPreferenceService(settingsRepo, models.Preferences{
		SelectionMode: cfg.DefaultMode,
		CardCount:     cfg.DefaultCardCount,
	})
	authService := services.NewAuthService(settingsRepo, creds, client)
	boardService := services.NewBoardService(client, hiddenRepo, cfg.CardAmounts)
	sessionService := services.NewSessionService(client, queue, sessionRepo, prefService,
		services.WithIdleTTL(cfg.SessionIdleTTL),
	)
	queue.SetReporter(sessionService)

	if ok, err := authService.LoadStoredToken(ctx); err != nil {
		log.Warn("failed to load stored token: %v", err)
	} else if !ok {
		log.Info("no Trello token stored yet, set one with PUT /auth/token")
	}

	srv := &api.Server{
		Boards:   boardService,
		Auth:     authService,
		Sessions: sessionService,
		Prefs:    prefService,
		Ready:    database.Ready,
	}

	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     srv.Routes(),
		ReadTimeout: 15 * time.Second,
		// ?wait=true holds the response until the deck is fetched.
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
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

	log.Debug("ending live sessions")
	sessionService.Shutdown()

	log.Debug("draining move pool")
	movePool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("TrelloFlash Server Stopped")
	log.Info("===========================================")
}
