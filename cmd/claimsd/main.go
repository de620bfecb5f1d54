package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/vanadhikar/claimsd/internal/common"
	"github.com/vanadhikar/claimsd/internal/export"
	"github.com/vanadhikar/claimsd/internal/extract"
	"github.com/vanadhikar/claimsd/internal/geocode"
	"github.com/vanadhikar/claimsd/internal/llm/gemini"
	"github.com/vanadhikar/claimsd/internal/pipeline"
	"github.com/vanadhikar/claimsd/internal/repository"
	"github.com/vanadhikar/claimsd/internal/schemes"
	"github.com/vanadhikar/claimsd/internal/server"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("database connect failed", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}

	lookup, err := schemes.Load()
	if err != nil {
		logger.Error("scheme table load failed", "error", err)
		os.Exit(1)
	}

	claims := repository.NewClaimRepository(pool, logger)
	communities := repository.NewCommunityRepository(pool, logger)

	model := gemini.NewClient(gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	geocoder := geocode.NewResolver(geocode.Config{
		BaseURL:   cfg.Geocode.BaseURL,
		UserAgent: cfg.Geocode.UserAgent,
		Timeout:   cfg.Geocode.Timeout,
	}, logger)

	proc := pipeline.NewProcessor(
		logger,
		pipeline.Config{UploadDir: cfg.Storage.UploadDir},
		extract.NewExtractor(logger),
		model,
		model,
		geocoder,
		claims,
	)

	svc := server.NewService(
		logger,
		proc,
		claims,
		communities,
		lookup,
		export.NewService(claims, logger),
		pool.Ping,
	)

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.NewRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	logger.Info("stopped")
}
