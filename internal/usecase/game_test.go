package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/entity"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-minimax/testing/suite"
)

var errStorageDown = errors.New("storage down")

type mockStatsService struct {
	mock.Mock
}

func (that *mockStatsService) RecordGame(ctx context.Context, game *entity.Game) error {
	args := that.Called(ctx, game)
	return args.Error(0)
}

func (that *mockStatsService) GetStats(ctx context.Context, playerID string) (*entity.Stats, error) {
	args := that.Called(ctx, playerID)
	stats, _ := args.Get(0).(*entity.Stats)
	return stats, args.Error(1)
}

func (that *mockStatsService) ResetStats(ctx context.Context, playerID string) error {
	args := that.Called(ctx, playerID)
	return args.Error(0)
}

var defaultSettings = Settings{
	HumanMark:  tictactoe.X,
	BotMark:    tictactoe.O,
	HumanFirst: true,
}

func newGameUseCase(stats statsService) GameUseCase {
	logger := suite.NewLogger()

	if stats == nil {
		stats = service.NewStatsService(repository.NewMemoryStatsRepository())
	}

	return NewGameUseCase(logger, defaultSettings, repository.NewGameRepository(), service.NewBotService(logger), stats)
}

func boolPtr(v bool) *bool {
	return &v
}

func firstLegalMove(t *testing.T, game *entity.Game) tictactoe.Move {
	t.Helper()

	moves := game.Board.LegalMoves()
	require.NotEmpty(t, moves)

	return moves[0]
}

func TestGameUseCase_StartGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Human first by default", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)

		game, err := gameUseCase.StartGame(ctx, "p1", nil)

		require.NoError(t, err)
		assert.NotEmpty(t, game.ID)
		assert.Equal(t, "p1", game.PlayerID)
		assert.Equal(t, tictactoe.X, game.Turn)
		assert.Equal(t, tictactoe.Board{}, game.Board)
		assert.Nil(t, game.LastBotMove)
	})

	t.Run("Bot opens in the first corner", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)

		// When: the human chooses to move second
		game, err := gameUseCase.StartGame(ctx, "p1", boolPtr(false))

		// Then: the bot's opening is already on the board
		require.NoError(t, err)
		assert.Equal(t, tictactoe.O, game.Board.At(0, 0))
		assert.Equal(t, tictactoe.X, game.Turn)
		require.NotNil(t, game.LastBotMove)
		assert.Equal(t, tictactoe.Move{Row: 0, Col: 0}, *game.LastBotMove)

		stored, err := gameUseCase.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.Board, stored.Board)
	})

	t.Run("Empty player ID", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)

		game, err := gameUseCase.StartGame(ctx, "", nil)

		require.ErrorIs(t, err, apperror.ErrEmptyPlayerID)
		assert.Nil(t, game)
	})
}

func TestGameUseCase_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Bot replies to the human move", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)
		game, err := gameUseCase.StartGame(ctx, "p1", nil)
		require.NoError(t, err)

		// When: the human takes a corner
		game, err = gameUseCase.MakeTurn(ctx, game.ID, 0, 0)

		// Then: the bot answers in the center and it is the human's turn again
		require.NoError(t, err)
		assert.Equal(t, tictactoe.X, game.Board.At(0, 0))
		assert.Equal(t, tictactoe.O, game.Board.At(1, 1))
		require.NotNil(t, game.LastBotMove)
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 1}, *game.LastBotMove)
		assert.Equal(t, tictactoe.X, game.Turn)
		assert.True(t, game.IsOngoing())
	})

	t.Run("Occupied cell", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)
		game, err := gameUseCase.StartGame(ctx, "p1", boolPtr(false))
		require.NoError(t, err)

		_, err = gameUseCase.MakeTurn(ctx, game.ID, 0, 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		stored, err := gameUseCase.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.Board, stored.Board)
	})

	t.Run("Out of bounds cell", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)
		game, err := gameUseCase.StartGame(ctx, "p1", nil)
		require.NoError(t, err)

		_, err = gameUseCase.MakeTurn(ctx, game.ID, 3, 0)

		require.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Unknown game", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)

		_, err := gameUseCase.MakeTurn(ctx, "9999999", 0, 0)

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Naive human loses and the loss is recorded", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)
		game, err := gameUseCase.StartGame(ctx, "p1", nil)
		require.NoError(t, err)

		// When: the human always takes the first free cell
		for game.IsOngoing() {
			move := firstLegalMove(t, game)
			game, err = gameUseCase.MakeTurn(ctx, game.ID, move.Row, move.Col)
			require.NoError(t, err)
		}

		// Then: the bot wins on the anti-diagonal
		assert.Equal(t, string(tictactoe.O), game.Winner)
		assert.Equal(t, []tictactoe.Move{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}}, game.WinningLine)

		stats, err := gameUseCase.GetStats(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, &entity.Stats{PlayerID: "p1", Losses: 1}, stats)

		_, err = gameUseCase.MakeTurn(ctx, game.ID, 2, 2)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Hints lead to a draw", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)
		game, err := gameUseCase.StartGame(ctx, "p1", nil)
		require.NoError(t, err)

		// When: the human follows every hint
		for game.IsOngoing() {
			hint, err := gameUseCase.Hint(ctx, game.ID)
			require.NoError(t, err)

			game, err = gameUseCase.MakeTurn(ctx, game.ID, hint.Row, hint.Col)
			require.NoError(t, err)
		}

		// Then: perfect play on both sides ends in a draw
		assert.Equal(t, entity.PlayerTie, game.Winner)

		stats, err := gameUseCase.GetStats(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, &entity.Stats{PlayerID: "p1", Draws: 1}, stats)
	})

	t.Run("Stats failure does not fail the turn", func(t *testing.T) {
		stats := &mockStatsService{}
		stats.On("RecordGame", mock.Anything, mock.Anything).Return(errStorageDown)
		gameUseCase := newGameUseCase(stats)

		game, err := gameUseCase.StartGame(ctx, "p1", nil)
		require.NoError(t, err)

		for game.IsOngoing() {
			move := firstLegalMove(t, game)
			game, err = gameUseCase.MakeTurn(ctx, game.ID, move.Row, move.Col)
			require.NoError(t, err)
		}

		assert.True(t, game.IsFinished())
		stats.AssertNumberOfCalls(t, "RecordGame", 1)
	})
}

func TestGameUseCase_Hint(t *testing.T) {
	ctx := context.Background()

	t.Run("Hint does not change the game", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)
		game, err := gameUseCase.StartGame(ctx, "p1", boolPtr(false))
		require.NoError(t, err)

		// When: a hint is requested after the bot's corner opening
		hint, err := gameUseCase.Hint(ctx, game.ID)

		// Then: the center is suggested and the board is untouched
		require.NoError(t, err)
		assert.Equal(t, tictactoe.Move{Row: 1, Col: 1}, hint)

		stored, err := gameUseCase.GetGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Equal(t, game.Board, stored.Board)
	})

	t.Run("Unknown game", func(t *testing.T) {
		gameUseCase := newGameUseCase(nil)

		_, err := gameUseCase.Hint(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}

func TestGameUseCase_Analyze(t *testing.T) {
	ctx := context.Background()
	gameUseCase := newGameUseCase(nil)

	game, err := gameUseCase.StartGame(ctx, "p1", boolPtr(false))
	require.NoError(t, err)

	analysis, err := gameUseCase.Analyze(ctx, game.ID)

	require.NoError(t, err)
	assert.Equal(t, minimax.Analysis{Status: minimax.StatusInProgress, MovesLeft: 8}, analysis)
}

func TestGameUseCase_EndGame(t *testing.T) {
	ctx := context.Background()
	gameUseCase := newGameUseCase(nil)

	game, err := gameUseCase.StartGame(ctx, "p1", nil)
	require.NoError(t, err)

	require.NoError(t, gameUseCase.EndGame(ctx, game.ID))

	_, err = gameUseCase.GetGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)

	err = gameUseCase.EndGame(ctx, game.ID)
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}

func TestGameUseCase_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("ResetStats", func(t *testing.T) {
		stats := &mockStatsService{}
		stats.On("ResetStats", ctx, "p1").Return(nil)
		gameUseCase := newGameUseCase(stats)

		require.NoError(t, gameUseCase.ResetStats(ctx, "p1"))
		stats.AssertExpectations(t)
	})

	t.Run("GetStats_Failure", func(t *testing.T) {
		stats := &mockStatsService{}
		stats.On("GetStats", ctx, "p1").Return(nil, errStorageDown)
		gameUseCase := newGameUseCase(stats)

		result, err := gameUseCase.GetStats(ctx, "p1")

		require.ErrorIs(t, err, errStorageDown)
		assert.Nil(t, result)
	})
}
