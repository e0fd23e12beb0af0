package gomoku

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// directions - the four line axes: horizontal, vertical and both diagonals.
// The negative counterparts are walked by inverting the step.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// WinResult - the completed line and its owner.
type WinResult struct {
	Winner entity.Cell    `json:"winner"`
	Line   []entity.Coord `json:"line"`
}

// Rules - the game rules for a fixed win length.
type Rules struct {
	winLength int
}

func NewRules(winLength int) Rules {
	return Rules{winLength: winLength}
}

func (that Rules) WinLength() int {
	return that.winLength
}

// MakeTurn - validates and applies a move on the session, then updates the
// session state from the result of the win check at the just-played cell.
func (that Rules) MakeTurn(session *entity.Session, move entity.Move) error {
	if err := session.ConfirmOngoingState(); err != nil {
		return err
	}

	if move.Player != session.Turn {
		return apperror.ErrNotYourTurn
	}

	board, err := session.Board.Apply(move)
	if err != nil {
		return fmt.Errorf("invalid turn: %w", err)
	}

	session.Board = board
	session.RecordMove(move)

	if result, won := that.CheckWin(board, move.Row, move.Col, move.Player); won {
		session.Winner = result.Winner
		session.WinLine = result.Line
		session.Status = entity.StatusFinished
		return nil
	}

	if board.IsFull() {
		session.Status = entity.StatusFinished
		return nil
	}

	session.Turn = move.Player.Opponent()

	return nil
}

// CheckWin - reports whether the move just played at (row,col) completed a
// line. It only inspects the four lines through that cell, so it must be
// called with the last move, never as a full-board scan. The returned line is
// ordered along its direction and includes the origin cell.
func (that Rules) CheckWin(board entity.Board, row, col int, player entity.Cell) (WinResult, bool) {
	for _, dir := range directions {
		line := that.lineThrough(board, row, col, dir[0], dir[1], player)
		if len(line) >= that.winLength {
			return WinResult{Winner: player, Line: line}, true
		}
	}

	return WinResult{}, false
}

// lineThrough - collects the contiguous run of the player's stones through
// (row,col) along one axis, ordered from the negative end to the positive end.
func (that Rules) lineThrough(board entity.Board, row, col, dr, dc int, player entity.Cell) []entity.Coord {
	line := []entity.Coord{}

	back := that.walk(board, row, col, -dr, -dc, player)
	for i := len(back) - 1; i >= 0; i-- {
		line = append(line, back[i])
	}

	line = append(line, entity.Coord{Row: row, Col: col})
	line = append(line, that.walk(board, row, col, dr, dc, player)...)

	return line
}

// walk - steps outward from (row,col), excluding it, while cells hold the
// player's stones. Stops at the board edge or the first non-matching cell.
func (that Rules) walk(board entity.Board, row, col, dr, dc int, player entity.Cell) []entity.Coord {
	cells := []entity.Coord{}

	for r, c := row+dr, col+dc; board.InBounds(r, c) && board.At(r, c) == player; r, c = r+dr, c+dc {
		cells = append(cells, entity.Coord{Row: r, Col: c})
	}

	return cells
}
