package gomoku

import (
	"strings"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// The share token is the only artifact that crosses peers in remote mode:
// one digit per cell in row-major order, no header, no checksum. Anything
// that does not look like a well-formed token decodes to a fresh board so a
// truncated link starts a new game instead of crashing the receiver.

// Encode - serializes the board to its token. Total and deterministic.
func Encode(board entity.Board) string {
	var sb strings.Builder
	sb.Grow(board.Size() * board.Size())

	for row := 0; row < board.Size(); row++ {
		for col := 0; col < board.Size(); col++ {
			switch board.At(row, col) {
			case entity.CellPlayerA:
				sb.WriteByte('1')
			case entity.CellPlayerB:
				sb.WriteByte('2')
			default:
				sb.WriteByte('0')
			}
		}
	}

	return sb.String()
}

// Decode - rebuilds a board of the given size from a token. A token of the
// wrong length yields an empty board; unknown characters yield empty cells.
func Decode(token string, size int) entity.Board {
	if len(token) != size*size {
		return entity.NewBoard(size)
	}

	cells := make([]entity.Cell, len(token))
	for i := 0; i < len(token); i++ {
		cells[i] = parseDigit(token[i])
	}

	return entity.NewBoardFromCells(size, cells)
}

func parseDigit(char byte) entity.Cell {
	switch char {
	case '1':
		return entity.CellPlayerA
	case '2':
		return entity.CellPlayerB
	default:
		return entity.CellEmpty
	}
}

// NextPlayer - infers whose move it is from the stone counts. The token
// carries no turn metadata; player A always opens, so equal counts mean A
// moves next.
func NextPlayer(board entity.Board) entity.Cell {
	if board.Count(entity.CellPlayerA) > board.Count(entity.CellPlayerB) {
		return entity.CellPlayerB
	}

	return entity.CellPlayerA
}
