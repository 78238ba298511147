package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"cvlens/internal/analysis"
	"cvlens/internal/api"
	"cvlens/internal/auth"
	"cvlens/internal/config"
	"cvlens/internal/database"
	"cvlens/internal/llm"
	"cvlens/internal/resume"
	"cvlens/internal/skills"
	"cvlens/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		logger.Error("init database failed", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.AutoMigrate(&database.User{}, &database.Resume{}, &database.ResumeAnalysis{}); err != nil {
		logger.Error("auto migrate failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("database ready",
		slog.String("host", cfg.Database.Host),
		slog.String("name", cfg.Database.Name),
	)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer redisClient.Close()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Error("ping redis failed", slog.Any("error", err))
		os.Exit(1)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		logger.Error("init storage client failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("storage ready", slog.String("bucket", cfg.MinIO.Bucket))

	privateKeyPEM, err := os.ReadFile(cfg.Auth.PrivateKeyPath)
	if err != nil {
		logger.Error("read private key failed", slog.Any("error", err))
		os.Exit(1)
	}
	publicKeyPEM, err := os.ReadFile(cfg.Auth.PublicKeyPath)
	if err != nil {
		logger.Error("read public key failed", slog.Any("error", err))
		os.Exit(1)
	}
	authService, err := auth.NewAuthService(privateKeyPEM, publicKeyPEM, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		logger.Error("init auth service failed", slog.Any("error", err))
		os.Exit(1)
	}

	llmClient, err := llm.NewGeminiClient(context.Background(), cfg.LLM, logger)
	if err != nil {
		logger.Error("init llm client failed", slog.Any("error", err))
		os.Exit(1)
	}

	extractor := resume.NewExtractor(llmClient, logger)
	analyzer := analysis.NewAnalyzer(
		llmClient,
		extractor,
		skills.DefaultTaxonomy(),
		asynqClient,
		logger,
		cfg.LLM.MaxConcurrent,
		cfg.Analysis.Queue,
		cfg.Analysis.PersistMaxRetry,
	)

	router := api.NewRouter(db, redisClient, logger)
	api.RegisterRoutes(router, cfg, db, authService, redisClient, logger, storageClient, llmClient, analyzer)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("api listening", slog.String("address", address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
