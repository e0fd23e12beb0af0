package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
)

const (
	ModeHotseat = "hotseat"
	ModeBot     = "bot"
	ModeRemote  = "remote"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var ErrUnknownSessionStatus = errors.New("unknown session status")

// Session - one running game: the board plus everything the presentation
// layer needs to render it. The engine itself stays stateless; the session is
// passed in and out of every call.
type Session struct {
	ID         string  `json:"id"`
	Mode       string  `json:"mode"`
	Difficulty string  `json:"difficulty,omitempty"`
	Board      Board   `json:"board"`
	Turn       Cell    `json:"player_turn"`
	Winner     Cell    `json:"winner,omitempty"`
	WinLine    []Coord `json:"win_line,omitempty"`
	LastMove   *Move   `json:"last_move,omitempty"`
	History    []Move  `json:"history,omitempty"`
	BotPlayer  Cell    `json:"bot_player,omitempty"`
	Status     string  `json:"status"`
}

func NewSession(id, mode string, boardSize int) *Session {
	return &Session{
		ID:     id,
		Mode:   mode,
		Board:  NewBoard(boardSize),
		Turn:   CellPlayerA,
		Status: StatusOngoing,
	}
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Session) IsOngoing() bool {
	return that.Status == StatusOngoing
}

// IsDraw - finished with a full board and nobody's line completed.
func (that *Session) IsDraw() bool {
	return that.IsFinished() && that.Winner == CellEmpty
}

func (that *Session) IsWithBot() bool {
	return that.Mode == ModeBot
}

func (that *Session) ConfirmOngoingState() error {
	switch {
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSessionStatus, that.Status)
	}
}

// RecordMove - appends the move to the turn history and remembers it as the
// last move. History is a presentation convenience; win detection never
// replays it.
func (that *Session) RecordMove(move Move) {
	that.History = append(that.History, move)
	that.LastMove = &move
}
