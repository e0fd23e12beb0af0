package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

// Cell - occupancy of a single board cell.
type Cell int

const (
	CellEmpty Cell = iota
	CellPlayerA
	CellPlayerB
)

func (that Cell) String() string {
	switch that {
	case CellPlayerA:
		return "A"
	case CellPlayerB:
		return "B"
	default:
		return "empty"
	}
}

// Opponent - returns the other player's cell value.
func (that Cell) Opponent() Cell {
	switch that {
	case CellPlayerA:
		return CellPlayerB
	case CellPlayerB:
		return CellPlayerA
	default:
		return CellEmpty
	}
}

// Coord - a single board coordinate.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Move - a player's intent to occupy a cell.
type Move struct {
	Row    int  `json:"row"`
	Col    int  `json:"col"`
	Player Cell `json:"player"`
}

// Board - a square grid of cells, stored row-major.
type Board struct {
	size  int
	cells []Cell
}

type boardJSON struct {
	Size  int    `json:"size"`
	Cells []Cell `json:"cells"`
}

func NewBoard(size int) Board {
	return Board{
		size:  size,
		cells: make([]Cell, size*size),
	}
}

// NewBoardFromCells - builds a board from row-major cell values. A slice of
// the wrong length yields an empty board of the requested size.
func NewBoardFromCells(size int, cells []Cell) Board {
	if len(cells) != size*size {
		return NewBoard(size)
	}

	board := NewBoard(size)
	copy(board.cells, cells)

	return board
}

func (that Board) Size() int {
	return that.size
}

func (that Board) At(row, col int) Cell {
	return that.cells[that.index(row, col)]
}

func (that Board) InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < that.size && col < that.size
}

func (that Board) IsEmpty(row, col int) bool {
	return that.InBounds(row, col) && that.At(row, col) == CellEmpty
}

func (that Board) Count(cell Cell) int {
	count := 0
	for _, c := range that.cells {
		if c == cell {
			count++
		}
	}
	return count
}

func (that Board) IsFull() bool {
	return that.Count(CellEmpty) == 0
}

func (that Board) Clone() Board {
	clone := Board{size: that.size, cells: make([]Cell, len(that.cells))}
	copy(clone.cells, that.cells)
	return clone
}

// Apply - places the move on a copy of the board. The receiver is never
// mutated, so boards already handed to the rules or the evaluator stay stable.
func (that Board) Apply(move Move) (Board, error) {
	if !that.InBounds(move.Row, move.Col) {
		return Board{}, fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfRange, move.Row, move.Col)
	}

	if that.At(move.Row, move.Col) != CellEmpty {
		return Board{}, fmt.Errorf("%w: (%d,%d)", apperror.ErrCellOccupied, move.Row, move.Col)
	}

	next := that.Clone()
	next.cells[next.index(move.Row, move.Col)] = move.Player

	return next, nil
}

func (that Board) index(row, col int) int {
	return row*that.size + col
}

func (that Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Size: that.size, Cells: that.cells})
}

func (that *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	if len(raw.Cells) != raw.Size*raw.Size {
		*that = NewBoard(raw.Size)
		return nil
	}

	that.size = raw.Size
	that.cells = raw.Cells

	return nil
}
