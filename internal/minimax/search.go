// Package minimax picks optimal tic-tac-toe moves with an exhaustive
// alpha-beta search over a shared board.
//
// The search mutates the board it was built with and restores it before
// returning, so a Search and its board must not be used from more than one
// goroutine at a time.
package minimax

import (
	"math"
	"sort"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/tictactoe"
)

const winScore = 10

type Search struct {
	board     *tictactoe.Board
	maximizer tictactoe.Mark
	minimizer tictactoe.Mark
}

func New(board *tictactoe.Board, maximizer, minimizer tictactoe.Mark) *Search {
	return &Search{
		board:     board,
		maximizer: maximizer,
		minimizer: minimizer,
	}
}

// EvaluateTerminal - score of a finished board seen depth plies below the search root.
func (that *Search) EvaluateTerminal(depth int) int {
	switch that.board.Winner() {
	case that.maximizer:
		return winScore - depth
	case that.minimizer:
		return depth - winScore
	default:
		return 0
	}
}

// Minimax - value of the current board with the given side to move.
func (that *Search) Minimax(depth int, maximizing bool, alpha, beta int) int {
	if that.board.Winner() != tictactoe.Empty || that.board.IsFull() {
		return that.EvaluateTerminal(depth)
	}

	if maximizing {
		best := math.MinInt
		for _, move := range that.board.LegalMoves() {
			that.board.Place(move.Row, move.Col, that.maximizer)
			score := that.Minimax(depth+1, false, alpha, beta)
			that.board.Undo(move.Row, move.Col)

			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}

		return best
	}

	best := math.MaxInt
	for _, move := range that.board.LegalMoves() {
		that.board.Place(move.Row, move.Col, that.minimizer)
		score := that.Minimax(depth+1, true, alpha, beta)
		that.board.Undo(move.Row, move.Col)

		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}

	return best
}

// BestMove - optimal move for the maximizer; false when the board has no empty cell.
// Each candidate is scored from depth 0 and ties keep the earliest row-major candidate.
func (that *Search) BestMove() (tictactoe.Move, bool) {
	moves := that.board.LegalMoves()

	switch len(moves) {
	case 0:
		return tictactoe.Move{}, false
	case 1:
		return moves[0], true
	}

	bestScore := math.MinInt
	var bestMove tictactoe.Move

	for _, move := range moves {
		that.board.Place(move.Row, move.Col, that.maximizer)
		score := that.Minimax(0, false, math.MinInt, math.MaxInt)
		that.board.Undo(move.Row, move.Col)

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
	}

	return bestMove, true
}

// OrderedMoves - legal moves ranked center, corners, edges; row-major within a rank.
// BestMove does not use this ordering.
func (that *Search) OrderedMoves() []tictactoe.Move {
	moves := that.board.LegalMoves()

	sort.SliceStable(moves, func(i, j int) bool {
		return movePriority(moves[i]) > movePriority(moves[j])
	})

	return moves
}

func movePriority(move tictactoe.Move) int {
	center := tictactoe.Size / 2
	edge := tictactoe.Size - 1

	switch {
	case move.Row == center && move.Col == center:
		return 3
	case (move.Row == 0 || move.Row == edge) && (move.Col == 0 || move.Col == edge):
		return 2
	default:
		return 1
	}
}
