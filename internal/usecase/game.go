package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type GameUseCase interface {
	StartGame(ctx context.Context, playerID string, humanFirst *bool) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	EndGame(ctx context.Context, gameID string) error

	Analyze(ctx context.Context, gameID string) (minimax.Analysis, error)
	Hint(ctx context.Context, gameID string) (tictactoe.Move, error)

	GetStats(ctx context.Context, playerID string) (*entity.Stats, error)
	ResetStats(ctx context.Context, playerID string) error
}

type gameRepo interface {
	Create(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
	WithLock(ctx context.Context, id string, fn func(game *entity.Game) error) error
}

type botService interface {
	MakeTurn(game *entity.Game) (tictactoe.Move, error)
	SuggestMove(game *entity.Game, mark tictactoe.Mark) (tictactoe.Move, error)
	Analyze(game *entity.Game) minimax.Analysis
}

type statsService interface {
	RecordGame(ctx context.Context, game *entity.Game) error
	GetStats(ctx context.Context, playerID string) (*entity.Stats, error)
	ResetStats(ctx context.Context, playerID string) error
}

// Settings - marks and default turn order of new games.
type Settings struct {
	HumanMark  tictactoe.Mark
	BotMark    tictactoe.Mark
	HumanFirst bool
}

type gameUseCase struct {
	logger   *slog.Logger
	settings Settings

	gameRepo     gameRepo
	botService   botService
	statsService statsService
}

func NewGameUseCase(logger *slog.Logger, settings Settings, gameRepo gameRepo, botService botService, statsService statsService) GameUseCase {
	return &gameUseCase{
		logger:   logger.With("component", "game"),
		settings: settings,

		gameRepo:     gameRepo,
		botService:   botService,
		statsService: statsService,
	}
}

// StartGame - creates a session for playerID; when the bot opens, its first move is already on the board.
func (that *gameUseCase) StartGame(ctx context.Context, playerID string, humanFirst *bool) (*entity.Game, error) {
	if playerID == "" {
		return nil, apperror.ErrEmptyPlayerID
	}

	first := that.settings.HumanFirst
	if humanFirst != nil {
		first = *humanFirst
	}

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("error generating game ID: %w", err)
	}

	game, err := entity.NewGame(gameID, playerID, that.settings.HumanMark, that.settings.BotMark, first)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	if game.IsBotTurn() {
		if _, err = that.botService.MakeTurn(game); err != nil {
			return nil, fmt.Errorf("failed to make opening bot turn: %w", err)
		}
	}

	if err = that.gameRepo.Create(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to store game: %w", err)
	}

	that.logger.Info("game started", "game_id", game.ID, "player_id", playerID, "human_first", first)

	return game, nil
}

// MakeTurn - applies the human move and the bot reply as one step; finished games are added to stats.
func (that *gameUseCase) MakeTurn(ctx context.Context, gameID string, row, col int) (*entity.Game, error) {
	log := that.logger.With("method", "MakeTurn", "game_id", gameID)

	var result entity.Game

	err := that.gameRepo.WithLock(ctx, gameID, func(game *entity.Game) error {
		if err := game.MakeTurn(game.HumanMark, row, col); err != nil {
			return fmt.Errorf("invalid turn: %w", err)
		}

		if game.IsBotTurn() {
			if _, err := that.botService.MakeTurn(game); err != nil {
				return fmt.Errorf("failed to make bot turn: %w", err)
			}
		} else {
			game.LastBotMove = nil
		}

		result = *game

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make turn: %w", err)
	}

	if result.IsFinished() {
		log.Info("game finished", "winner", result.Winner)

		if err = that.statsService.RecordGame(ctx, &result); err != nil {
			log.Error("failed to record game", "error", err)
		}
	}

	return &result, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) EndGame(ctx context.Context, gameID string) error {
	if err := that.gameRepo.DeleteByID(ctx, gameID); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	return nil
}

func (that *gameUseCase) Analyze(ctx context.Context, gameID string) (minimax.Analysis, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return minimax.Analysis{}, err
	}

	return that.botService.Analyze(game), nil
}

// Hint - optimal move for the human in an ongoing game.
func (that *gameUseCase) Hint(ctx context.Context, gameID string) (tictactoe.Move, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return tictactoe.Move{}, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return tictactoe.Move{}, err
	}

	move, err := that.botService.SuggestMove(game, game.HumanMark)
	if err != nil {
		return tictactoe.Move{}, fmt.Errorf("failed to suggest move: %w", err)
	}

	return move, nil
}

func (that *gameUseCase) GetStats(ctx context.Context, playerID string) (*entity.Stats, error) {
	stats, err := that.statsService.GetStats(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func (that *gameUseCase) ResetStats(ctx context.Context, playerID string) error {
	if err := that.statsService.ResetStats(ctx, playerID); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}

	return nil
}
