package tictactoe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Size - number of rows and columns of the board.
const Size = 3

type Mark string

const (
	Empty Mark = ""
	X     Mark = "X"
	O     Mark = "O"
)

var ErrInvalidBoard = errors.New("invalid board encoding")

// Opponent - returns the other playing mark, Empty for anything else.
func (that Mark) Opponent() Mark {
	switch that {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (that Mark) IsPlayer() bool {
	return that == X || that == O
}

// Move - a cell coordinate on the board.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Index - row-major position of the move (0-8).
func (that Move) Index() int {
	return that.Row*Size + that.Col
}

func (that Move) InBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// IndexToMove - converts a row-major position (0-8) to a move.
func IndexToMove(index int) Move {
	return Move{Row: index / Size, Col: index % Size}
}

// WinningLines - rows, then columns, then the main and the anti diagonal.
var WinningLines = [8][3]Move{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Board - 3x3 grid. The zero value is an empty board; copying the value copies the grid.
// Turn order is not enforced here.
type Board struct {
	cells [Size][Size]Mark
}

func NewBoard() *Board {
	return &Board{}
}

// NewBoardFromCells - board with the given grid. Marks other than X and O are read as Empty.
func NewBoardFromCells(cells [Size][Size]Mark) *Board {
	board := &Board{}
	for row := range Size {
		for col := range Size {
			if cells[row][col].IsPlayer() {
				board.cells[row][col] = cells[row][col]
			}
		}
	}

	return board
}

// Place - puts mark into an empty in-range cell. Reports false and leaves the board untouched otherwise.
func (that *Board) Place(row, col int, mark Mark) bool {
	if !(Move{Row: row, Col: col}).InBounds() || !mark.IsPlayer() {
		return false
	}

	if that.cells[row][col] != Empty {
		return false
	}

	that.cells[row][col] = mark

	return true
}

// Undo - clears a cell without any validation, used for backtracking.
func (that *Board) Undo(row, col int) {
	if !(Move{Row: row, Col: col}).InBounds() {
		return
	}

	that.cells[row][col] = Empty
}

// LegalMoves - empty cells in row-major order.
func (that *Board) LegalMoves() []Move {
	moves := make([]Move, 0, Size*Size)
	for row := range Size {
		for col := range Size {
			if that.cells[row][col] == Empty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}

	return moves
}

// Winner - mark of the first completed line, Empty when there is none.
func (that *Board) Winner() Mark {
	winner, _ := that.winningLine()
	return winner
}

// WinningLine - cells of the first completed line.
func (that *Board) WinningLine() ([3]Move, bool) {
	winner, line := that.winningLine()
	return line, winner != Empty
}

func (that *Board) winningLine() (Mark, [3]Move) {
	for _, line := range WinningLines {
		a := that.cells[line[0].Row][line[0].Col]
		b := that.cells[line[1].Row][line[1].Col]
		c := that.cells[line[2].Row][line[2].Col]
		if a != Empty && a == b && b == c {
			return a, line
		}
	}

	return Empty, [3]Move{}
}

func (that *Board) IsFull() bool {
	for row := range Size {
		for col := range Size {
			if that.cells[row][col] == Empty {
				return false
			}
		}
	}

	return true
}

func (that *Board) IsDraw() bool {
	return that.IsFull() && that.Winner() == Empty
}

// IsTerminal - the game is over, either won or full.
func (that *Board) IsTerminal() bool {
	return that.Winner() != Empty || that.IsFull()
}

// At - mark in a cell, Empty for out-of-range coordinates.
func (that *Board) At(row, col int) Mark {
	if !(Move{Row: row, Col: col}).InBounds() {
		return Empty
	}

	return that.cells[row][col]
}

func (that *Board) Reset() {
	that.cells = [Size][Size]Mark{}
}

// Cells - snapshot of the grid.
func (that *Board) Cells() [Size][Size]Mark {
	return that.cells
}

func (that *Board) Clone() *Board {
	clone := *that
	return &clone
}

// String - console rendering with coordinates.
func (that *Board) String() string {
	var sb strings.Builder

	sb.WriteString("   0   1   2\n")
	for row := range Size {
		marks := make([]string, Size)
		for col := range Size {
			marks[col] = " "
			if mark := that.cells[row][col]; mark != Empty {
				marks[col] = string(mark)
			}
		}

		fmt.Fprintf(&sb, "%d  %s\n", row, strings.Join(marks, " | "))
		if row < Size-1 {
			sb.WriteString("   ---------\n")
		}
	}

	return sb.String()
}

// MarshalJSON - nine marks in row-major order.
func (that Board) MarshalJSON() ([]byte, error) {
	flat := make([]string, 0, Size*Size)
	for row := range Size {
		for col := range Size {
			flat = append(flat, string(that.cells[row][col]))
		}
	}

	return json.Marshal(flat)
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var flat []string
	if err := json.Unmarshal(data, &flat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBoard, err)
	}

	if len(flat) != Size*Size {
		return fmt.Errorf("%w: expected %d cells, got %d", ErrInvalidBoard, Size*Size, len(flat))
	}

	var cells [Size][Size]Mark
	for i, value := range flat {
		mark := Mark(value)
		if mark != Empty && !mark.IsPlayer() {
			return fmt.Errorf("%w: unknown mark %q", ErrInvalidBoard, value)
		}

		move := IndexToMove(i)
		cells[move.Row][move.Col] = mark
	}

	that.cells = cells

	return nil
}
