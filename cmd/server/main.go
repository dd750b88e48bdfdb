package main

import (
	"codetrack/internal/api"
	"codetrack/internal/app/service"
	"codetrack/internal/common/security"
	"codetrack/internal/domain/repository"
	"codetrack/internal/platform/config"
	"codetrack/internal/platform/database"
	"codetrack/internal/platform/executor"
	"codetrack/internal/platform/leaderboard"
	"codetrack/internal/platform/notify"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()

	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		logger.Fatal("database migrate failed", zap.Error(err))
	}
	logger.Info("database ready")

	rdb, err := leaderboard.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}
	defer rdb.Close()
	board := leaderboard.NewBoard(rdb, cfg.LeaderboardKey, logger)

	// NATS is optional; with no URL configured events are silently dropped.
	var publisher *notify.Publisher
	if cfg.NatsURL != "" {
		publisher, err = notify.NewPublisher(cfg.NatsURL, cfg.NatsSubject, logger)
		if err != nil {
			logger.Fatal("nats connect failed", zap.Error(err))
		}
		defer publisher.Close()
	}

	local := executor.NewLocalExecutor(cfg.LocalExecTimeout, logger)
	exec := local
	if cfg.JudgeBaseURL != "" {
		judge := executor.NewJudgeClient(cfg.JudgeBaseURL, cfg.JudgePollInterval, cfg.JudgeTimeout, logger)
		exec = executor.NewFallback(judge, local, logger)
	}

	tokens := security.NewTokenManager(cfg.JWTKey, cfg.JWTExp)

	userRepo := repository.NewPgUserRepository(db)
	questionRepo := repository.NewPgQuestionRepository(db)
	submissionRepo := repository.NewPgSubmissionRepository(db)

	streakService := service.NewStreakService(submissionRepo)
	svc := api.Services{
		Auth:        service.NewAuthService(userRepo, tokens),
		Question:    service.NewQuestionService(questionRepo, db),
		Submission:  service.NewSubmissionService(submissionRepo, questionRepo, exec, publisher, board, logger),
		Stats:       service.NewStatsService(submissionRepo),
		Streak:      streakService,
		Dashboard:   service.NewDashboardService(submissionRepo, streakService),
		Leaderboard: service.NewLeaderboardService(submissionRepo, userRepo, board, logger),
	}

	router := api.NewRouter(tokens, svc, logger)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	<-stop
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
