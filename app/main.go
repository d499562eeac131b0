package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wallboard/wallboard/app/api"
	"github.com/wallboard/wallboard/app/cfg"
	"github.com/wallboard/wallboard/app/database"
	"github.com/wallboard/wallboard/app/deck"
	"github.com/wallboard/wallboard/app/files"
	"github.com/wallboard/wallboard/app/images"
	"github.com/wallboard/wallboard/app/mensa"
	"github.com/wallboard/wallboard/app/news"
	"github.com/wallboard/wallboard/app/nextcloud"
	"github.com/wallboard/wallboard/app/sources"
	"github.com/wallboard/wallboard/app/transport"
)

func main() {
	// Optional .env file, matching the deployment's configuration style
	_ = godotenv.Load()

	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Wallboard API server", "version", appConfig.Version)

	db, err := database.NewConnection(appConfig.CacheDBPath)
	if err != nil {
		slog.Error("Failed to open cache database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Cache database ready", "migration_version", version, "dirty", dirty)

	sourcesCache := sources.NewCache(appConfig.SourcesDir)
	if err := sourcesCache.Run(); err != nil {
		slog.Error("Failed to load source definitions", "error", err)
		os.Exit(1)
	}
	slog.Info("Source definitions loaded", "count", sourcesCache.GetConfigCount())

	transportClient := transport.NewClient(appConfig.UserAgent, appConfig.InsecureSkipVerify)

	nextcloudClient := nextcloud.NewClient(transportClient,
		appConfig.NextcloudURL, appConfig.NextcloudUser, appConfig.NextcloudPassword)
	filesService := files.NewService(nextcloudClient)

	mensaService := mensa.NewService(mensa.NewClient(transportClient,
		appConfig.MensaAPIURL, appConfig.MensaAPIKey, appConfig.MensaLocationID))

	imageRepo := database.NewImageRepository(db)
	if pruned, err := imageRepo.DeleteExpired(); err == nil && pruned > 0 {
		slog.Debug("Pruned expired image cache entries", "count", pruned)
	}
	imagesService := images.NewService(
		images.NewClient(transportClient, appConfig.GoogleAPIKey, appConfig.GoogleSearchEngineID),
		imageRepo)

	aggregator := deck.NewAggregator(deck.NewClient(transportClient,
		appConfig.NextcloudURL, appConfig.NextcloudUser, appConfig.NextcloudPassword))

	newsService := news.NewService(transportClient, appConfig.NewsFeedURLs, appConfig.NewsMaxItems)

	handler := api.NewHandler(filesService, sourcesCache, mensaService,
		imagesService, aggregator, newsService)
	server := api.NewServer(handler)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Wallboard API server shutdown complete")
}
