package minimax

import "github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"

const (
	StatusInProgress   = "in-progress"
	StatusMaximizerWon = "maximizer-won"
	StatusMinimizerWon = "minimizer-won"
	StatusDraw         = "draw"
)

type Analysis struct {
	Status    string         `json:"status"`
	Winner    tictactoe.Mark `json:"winner"`
	MovesLeft int            `json:"moves_left"`
	Full      bool           `json:"full"`
}

// Analyze - summary of the current position from the maximizer's point of view.
func (that *Search) Analyze() Analysis {
	winner := that.board.Winner()

	status := StatusInProgress
	switch {
	case winner == that.maximizer:
		status = StatusMaximizerWon
	case winner == that.minimizer:
		status = StatusMinimizerWon
	case that.board.IsDraw():
		status = StatusDraw
	}

	return Analysis{
		Status:    status,
		Winner:    winner,
		MovesLeft: len(that.board.LegalMoves()),
		Full:      that.board.IsFull(),
	}
}
