package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/config"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/oracle"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
	"github.com/rocketscienceinc/gomoku-backend/internal/terminal"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			log.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	sessionRepo := repository.NewSessionRepository(redisStorage.Connection)
	archiveRepo := repository.NewArchiveRepository(sqliteStorage.Connection)

	rules := gomoku.NewRules(conf.WinLength)
	evaluator := gomoku.NewEvaluator(rules, rand.New(rand.NewSource(time.Now().UnixNano()))) //nolint: gosec // heuristic tie-breaking, not crypto

	var advisor oracle.Advisor
	if conf.Oracle.URL != "" {
		advisor = oracle.NewHTTPAdvisor(logger, conf.Oracle)
	}

	botService := service.NewBotService(logger, rules, evaluator, advisor, conf.Oracle.Timeout)
	gamePlayService := service.NewGamePlayService(logger, conf.BoardSize, rules, botService, sessionRepo, archiveRepo)

	runner := terminal.New(logger, gamePlayService, os.Stdin, os.Stdout)

	log.Info("Starting game loop", "board-size", conf.BoardSize, "win-length", conf.WinLength)

	if err = runner.Run(ctx); err != nil {
		return fmt.Errorf("game loop error: %w", err)
	}

	return nil
}
