package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/database"
	"github.com/karirlab/arahkarir-backend/internal/handler"
	"github.com/karirlab/arahkarir-backend/internal/logger"
	"github.com/karirlab/arahkarir-backend/internal/repository"
	"github.com/karirlab/arahkarir-backend/internal/router"
	"github.com/karirlab/arahkarir-backend/internal/service"
	"github.com/karirlab/arahkarir-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting ArahKarir Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	examRepo := repository.NewExamRepository(pool, cfg.ExamCodeMaxAttempts)
	answerRepo := repository.NewExamAnswerRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	limitsRepo := repository.NewUserLimitsRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	payloadCache := repository.NewExamPayloadCache(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(userRepo, cfg)
	limitsService := service.NewUserLimitsService(limitsRepo, userRepo, cfg, log)
	validatorService := service.NewExamValidatorService(examRepo, answerRepo, limitsService, cfg, log)
	generatorService := service.NewExamGeneratorService(examRepo, questionRepo, limitsService, payloadCache, cfg, log)
	sessionService := service.NewExamSessionService(examRepo, answerRepo, validatorService, limitsService, payloadCache, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:  handler.NewAuthHandler(authService, userRepo),
		Exam:  handler.NewExamHandler(generatorService, sessionService, validatorService, log),
		Admin: handler.NewAdminHandler(limitsService, sessionService, log),
		WS:    handler.NewWSHandler(sessionService, log, cfg.AllowedOrigins),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
