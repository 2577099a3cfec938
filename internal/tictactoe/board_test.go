package tictactoe

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestBoard_Place(t *testing.T) {
	t.Run("Places a mark into an empty cell", func(t *testing.T) {
		// Given: an empty board
		board := NewBoard()

		// When: X is placed in the center
		ok := board.Place(1, 1, X)

		// Then: the placement succeeds and the cell holds X
		require.True(t, ok)
		assert.Equal(t, X, board.At(1, 1))
	})

	t.Run("Rejects an occupied cell", func(t *testing.T) {
		// Given: a board with X in the corner
		board := NewBoard()
		require.True(t, board.Place(0, 0, X))
		before := *board

		// When: O tries the same cell
		ok := board.Place(0, 0, O)

		// Then: the placement fails and nothing changes
		assert.False(t, ok)
		assert.Equal(t, before, *board)
	})

	t.Run("Rejects out of range coordinates", func(t *testing.T) {
		board := NewBoard()

		for _, move := range []Move{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {20, 20}} {
			assert.False(t, board.Place(move.Row, move.Col, X), "move %v", move)
		}

		assert.Equal(t, Board{}, *board)
	})

	t.Run("Rejects the empty mark", func(t *testing.T) {
		board := NewBoard()

		assert.False(t, board.Place(0, 0, Empty))
		assert.False(t, board.Place(0, 0, Mark("Z")))
	})
}

func TestBoard_Undo(t *testing.T) {
	t.Run("Clears a placed mark", func(t *testing.T) {
		// Given: a board with O at (2,1)
		board := NewBoard()
		require.True(t, board.Place(2, 1, O))

		// When: the move is undone
		board.Undo(2, 1)

		// Then: the board is empty again
		assert.Equal(t, Empty, board.At(2, 1))
		assert.Equal(t, Board{}, *board)
	})

	t.Run("Undo on an empty or out of range cell is a no-op", func(t *testing.T) {
		board := NewBoard()
		require.True(t, board.Place(0, 0, X))
		before := *board

		board.Undo(1, 1)
		board.Undo(-1, 5)

		assert.Equal(t, before, *board)
	})
}

func TestBoard_PlaceUndoRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for game := 0; game < 200; game++ {
		board := NewBoard()
		mark := X

		for !board.IsTerminal() {
			moves := board.LegalMoves()
			move := moves[r.Intn(len(moves))]
			before := *board

			// place and undo must leave the grid untouched
			require.True(t, board.Place(move.Row, move.Col, mark))
			board.Undo(move.Row, move.Col)
			require.Equal(t, before, *board)

			require.True(t, board.Place(move.Row, move.Col, mark))
			mark = mark.Opponent()
		}
	}
}

func TestBoard_LegalMoves(t *testing.T) {
	t.Run("Empty board lists every cell in row-major order", func(t *testing.T) {
		board := NewBoard()

		moves := board.LegalMoves()

		require.Len(t, moves, 9)
		for i, move := range moves {
			assert.Equal(t, IndexToMove(i), move)
		}
	})

	t.Run("Each placement removes exactly the filled cell", func(t *testing.T) {
		r := rand.New(rand.NewSource(7))
		board := NewBoard()
		mark := O

		for len(board.LegalMoves()) > 0 {
			moves := board.LegalMoves()
			move := moves[r.Intn(len(moves))]

			require.True(t, board.Place(move.Row, move.Col, mark))

			after := board.LegalMoves()
			assert.Len(t, after, len(moves)-1)
			assert.NotContains(t, after, move)
			mark = mark.Opponent()
		}
	})
}

func TestBoard_Winner(t *testing.T) {
	t.Run("No winner on an empty board", func(t *testing.T) {
		board := NewBoard()

		assert.Equal(t, Empty, board.Winner())
		_, ok := board.WinningLine()
		assert.False(t, ok)
	})

	for i, line := range WinningLines {
		for _, mark := range []Mark{X, O} {
			t.Run(fmt.Sprintf("Line %d won by %s", i, mark), func(t *testing.T) {
				// Given: the line filled by mark and two opponent fillers elsewhere
				board := NewBoard()
				for _, move := range line {
					require.True(t, board.Place(move.Row, move.Col, mark))
				}

				fillers := 0
				for _, move := range board.LegalMoves() {
					if fillers == 2 {
						break
					}
					require.True(t, board.Place(move.Row, move.Col, mark.Opponent()))
					fillers++
				}

				// When: the winner is checked
				winner := board.Winner()
				winningLine, ok := board.WinningLine()

				// Then: mark wins along that line
				assert.Equal(t, mark, winner)
				require.True(t, ok)
				assert.Equal(t, line, winningLine)
			})
		}
	}

	t.Run("Lines are checked in fixed order", func(t *testing.T) {
		// Given: an unreachable board where X owns the top row and O the bottom row
		board := NewBoardFromCells([Size][Size]Mark{
			{X, X, X},
			{Empty, Empty, Empty},
			{O, O, O},
		})

		// Then: the top row is reported
		line, ok := board.WinningLine()
		require.True(t, ok)
		assert.Equal(t, X, board.Winner())
		assert.Equal(t, WinningLines[0], line)
	})
}

func TestBoard_IsFullAndIsDraw(t *testing.T) {
	t.Run("Full board without a line is a draw", func(t *testing.T) {
		board := NewBoardFromCells([Size][Size]Mark{
			{X, O, X},
			{X, O, O},
			{O, X, X},
		})

		assert.True(t, board.IsFull())
		assert.True(t, board.IsDraw())
		assert.True(t, board.IsTerminal())
	})

	t.Run("Full board with a line is not a draw", func(t *testing.T) {
		board := NewBoardFromCells([Size][Size]Mark{
			{X, X, X},
			{O, O, X},
			{X, O, O},
		})

		assert.True(t, board.IsFull())
		assert.False(t, board.IsDraw())
	})

	t.Run("Board with an empty cell is not a draw", func(t *testing.T) {
		board := NewBoardFromCells([Size][Size]Mark{
			{X, O, X},
			{X, O, O},
			{O, X, Empty},
		})

		assert.False(t, board.IsFull())
		assert.False(t, board.IsDraw())
		assert.False(t, board.IsTerminal())
	})
}

func TestBoard_ResetAndClone(t *testing.T) {
	board := NewBoard()
	require.True(t, board.Place(1, 1, X))

	clone := board.Clone()
	require.True(t, clone.Place(0, 0, O))

	// the clone does not share the grid
	assert.Equal(t, Empty, board.At(0, 0))
	assert.Equal(t, O, clone.At(0, 0))

	board.Reset()
	assert.Equal(t, Board{}, *board)
}

func TestBoard_JSON(t *testing.T) {
	t.Run("Encodes nine row-major marks", func(t *testing.T) {
		board := NewBoard()
		require.True(t, board.Place(0, 1, X))
		require.True(t, board.Place(2, 2, O))

		data, err := json.Marshal(board)

		require.NoError(t, err)
		assert.JSONEq(t, `["","X","","","","","","","O"]`, string(data))
	})

	t.Run("Rejects wrong sizes and unknown marks", func(t *testing.T) {
		var board Board

		require.ErrorIs(t, json.Unmarshal([]byte(`["X"]`), &board), ErrInvalidBoard)
		require.ErrorIs(t, json.Unmarshal([]byte(`["","","","","Z","","","",""]`), &board), ErrInvalidBoard)
	})

	t.Run("Decodes into the grid", func(t *testing.T) {
		var board Board

		err := json.Unmarshal([]byte(`["O","","","","X","","","",""]`), &board)

		require.NoError(t, err)
		assert.Equal(t, O, board.At(0, 0))
		assert.Equal(t, X, board.At(1, 1))
	})
}

func TestBoard_String(t *testing.T) {
	board := NewBoard()
	require.True(t, board.Place(0, 0, X))
	require.True(t, board.Place(1, 1, O))

	expected := "   0   1   2\n" +
		"0  X |   |  \n" +
		"   ---------\n" +
		"1    | O |  \n" +
		"   ---------\n" +
		"2    |   |  \n"

	assert.Equal(t, expected, board.String())
}

func TestMove_Index(t *testing.T) {
	for i := range Size * Size {
		assert.Equal(t, i, IndexToMove(i).Index())
	}

	assert.Equal(t, Move{Row: 2, Col: 1}, IndexToMove(7))
}
