package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/console"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config")
	playerID := flag.String("player", "local", "player ID the stats are kept under")
	botFirst := flag.Bool("second", false, "let the bot open the game")
	flag.Parse()

	if err := run(*configPath, *playerID, *botFirst); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, playerID string, botFirst bool) error {
	conf := config.MustLoad(configPath)
	humanFirst := !botFirst && !conf.Game.BotFirst

	logFile, err := os.OpenFile(conf.ConsoleLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: config.ParseLogLevel(conf.LogLevel)}))

	ctx := context.Background()

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}

	defer func() {
		if err = sqliteStorage.Close(); err != nil {
			logger.Error("could not close sqlite storage", "error", err)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	gameUseCase := usecase.NewGameUseCase(
		logger,
		usecase.Settings{
			HumanMark:  tictactoe.Mark(conf.Game.HumanMark),
			BotMark:    tictactoe.Mark(conf.Game.BotMark),
			HumanFirst: humanFirst,
		},
		repository.NewGameRepository(),
		service.NewBotService(logger),
		service.NewStatsService(repository.NewSQLiteStatsRepository(sqliteStorage.Connection)),
	)

	program := tea.NewProgram(console.New(ctx, gameUseCase, playerID, humanFirst), tea.WithAltScreen())
	if _, err = program.Run(); err != nil {
		return fmt.Errorf("console failed: %w", err)
	}

	return nil
}
