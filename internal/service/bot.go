package service

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

type BotService interface {
	MakeTurn(game *entity.Game) (tictactoe.Move, error)
	SuggestMove(game *entity.Game, mark tictactoe.Mark) (tictactoe.Move, error)
	Analyze(game *entity.Game) minimax.Analysis
}

type botService struct {
	logger *slog.Logger
}

func NewBotService(logger *slog.Logger) BotService {
	return &botService{
		logger: logger.With("component", "bot"),
	}
}

// MakeTurn - plays the optimal move for the bot mark.
func (that *botService) MakeTurn(game *entity.Game) (tictactoe.Move, error) {
	if err := game.ConfirmOngoingState(); err != nil {
		return tictactoe.Move{}, err
	}

	if game.Turn != game.BotMark {
		return tictactoe.Move{}, apperror.ErrNotYourTurn
	}

	move, err := that.SuggestMove(game, game.BotMark)
	if err != nil {
		return tictactoe.Move{}, err
	}

	if err = game.MakeTurn(game.BotMark, move.Row, move.Col); err != nil {
		return tictactoe.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	game.LastBotMove = &move

	that.logger.Debug("bot made turn", "game_id", game.ID, "row", move.Row, "col", move.Col, "status", game.Status)

	return move, nil
}

// SuggestMove - optimal move for mark on the game's board; the game is not changed.
func (that *botService) SuggestMove(game *entity.Game, mark tictactoe.Mark) (tictactoe.Move, error) {
	if !mark.IsPlayer() {
		return tictactoe.Move{}, fmt.Errorf("%w: %q", apperror.ErrInvalidMark, mark)
	}

	search := minimax.New(game.Board.Clone(), mark, mark.Opponent())

	move, ok := search.BestMove()
	if !ok {
		return tictactoe.Move{}, apperror.ErrNoAvailableMoves
	}

	return move, nil
}

// Analyze - position summary from the bot's point of view.
func (that *botService) Analyze(game *entity.Game) minimax.Analysis {
	return minimax.New(game.Board.Clone(), game.BotMark, game.HumanMark).Analyze()
}
