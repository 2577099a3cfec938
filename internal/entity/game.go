package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"

	PlayerTie = "-"
)

var ErrUnknownGameStatus = errors.New("unknown game status")

const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

type Game struct {
	ID          string           `json:"id"`
	PlayerID    string           `json:"player_id,omitempty"`
	Board       tictactoe.Board  `json:"board"`
	HumanMark   tictactoe.Mark   `json:"human_mark"`
	BotMark     tictactoe.Mark   `json:"bot_mark"`
	Turn        tictactoe.Mark   `json:"player_turn"`
	Winner      string           `json:"winner"`
	Status      string           `json:"status"`
	WinningLine []tictactoe.Move `json:"winning_line,omitempty"`
	LastBotMove *tictactoe.Move  `json:"last_bot_move,omitempty"`
}

// NewGame - empty ongoing game, humanFirst decides which side moves first.
func NewGame(id, playerID string, humanMark, botMark tictactoe.Mark, humanFirst bool) (*Game, error) {
	if !humanMark.IsPlayer() || !botMark.IsPlayer() || humanMark == botMark {
		return nil, fmt.Errorf("%w: human %q, bot %q", apperror.ErrInvalidMark, humanMark, botMark)
	}

	turn := botMark
	if humanFirst {
		turn = humanMark
	}

	return &Game{
		ID:        id,
		PlayerID:  playerID,
		HumanMark: humanMark,
		BotMark:   botMark,
		Turn:      turn,
		Status:    StatusOngoing,
	}, nil
}

func (that *Game) UpdateGameState() {
	if winner := that.Board.Winner(); winner != tictactoe.Empty {
		line, _ := that.Board.WinningLine()

		that.Winner = string(winner)
		that.WinningLine = line[:]
		that.Status = StatusFinished
		that.Turn = tictactoe.Empty

		return
	}

	// the game will continue until all the squares are full
	if that.Board.IsFull() {
		that.Winner = PlayerTie
		that.Status = StatusFinished
		that.Turn = tictactoe.Empty

		return
	}

	that.Status = StatusOngoing
}

func (that *Game) MakeTurn(mark tictactoe.Mark, row, col int) error {
	if err := that.ConfirmOngoingState(); err != nil {
		return err
	}

	if that.Turn != mark {
		return apperror.ErrNotYourTurn
	}

	if !(tictactoe.Move{Row: row, Col: col}).InBounds() {
		return fmt.Errorf("%w: row %d, col %d", apperror.ErrInvalidCell, row, col)
	}

	if !that.Board.Place(row, col, mark) {
		return apperror.ErrCellOccupied
	}

	that.Turn = mark.Opponent()
	that.UpdateGameState()

	return nil
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsBotTurn() bool {
	return that.IsOngoing() && that.Turn == that.BotMark
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGameStatus, that.Status)
	}
}

// Outcome - result of a finished game for the human player.
func (that *Game) Outcome() (string, error) {
	if !that.IsFinished() {
		return "", fmt.Errorf("%w: game %s is %s", apperror.ErrUnknownOutcome, that.ID, that.Status)
	}

	switch that.Winner {
	case string(that.HumanMark):
		return OutcomeWin, nil
	case string(that.BotMark):
		return OutcomeLoss, nil
	case PlayerTie:
		return OutcomeDraw, nil
	default:
		return "", fmt.Errorf("%w: winner %q", apperror.ErrUnknownOutcome, that.Winner)
	}
}
