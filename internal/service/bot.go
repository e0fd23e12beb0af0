package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/oracle"
)

type BotService interface {
	SelectMove(ctx context.Context, board entity.Board, player entity.Cell, difficulty string) entity.Move
	MakeTurn(ctx context.Context, session *entity.Session) error
}

type botService struct {
	logger *slog.Logger

	rules     gomoku.Rules
	evaluator *gomoku.Evaluator
	advisor   oracle.Advisor
	timeout   time.Duration
}

// NewBotService - the tiered move selector. The advisor may be nil; the hard
// tier then behaves exactly like the medium one.
func NewBotService(logger *slog.Logger, rules gomoku.Rules, evaluator *gomoku.Evaluator, advisor oracle.Advisor, timeout time.Duration) BotService {
	return &botService{
		logger:    logger.With("component", "bot"),
		rules:     rules,
		evaluator: evaluator,
		advisor:   advisor,
		timeout:   timeout,
	}
}

// SelectMove - picks a move for the acting player. Total: it returns a legal
// move for any board with at least one empty cell, and never surfaces an
// oracle failure to the caller.
func (that *botService) SelectMove(ctx context.Context, board entity.Board, player entity.Cell, difficulty string) entity.Move {
	switch difficulty {
	case entity.DifficultyEasy:
		return that.evaluator.SelectEasy(board, player)
	case entity.DifficultyHard:
		return that.selectHard(ctx, board, player)
	default:
		return that.evaluator.SelectMedium(board, player)
	}
}

func (that *botService) MakeTurn(ctx context.Context, session *entity.Session) error {
	move := that.SelectMove(ctx, session.Board, session.Turn, session.Difficulty)

	if err := that.rules.MakeTurn(session, move); err != nil {
		return fmt.Errorf("bot failed to make turn: %w", err)
	}

	return nil
}

// selectHard - consults the oracle and plays its suggestion only if it names
// an in-range empty cell. Absence, errors, timeouts and bad suggestions all
// degrade to the medium heuristic.
func (that *botService) selectHard(ctx context.Context, board entity.Board, player entity.Cell) entity.Move {
	if that.advisor == nil {
		return that.evaluator.SelectMedium(board, player)
	}

	ctx, cancel := context.WithTimeout(ctx, that.timeout)
	defer cancel()

	suggestion, err := that.advisor.SuggestMove(ctx, board, player)
	if err != nil {
		that.logger.Warn("oracle failed, falling back to heuristic", "error", err)
		return that.evaluator.SelectMedium(board, player)
	}

	if !board.IsEmpty(suggestion.Row, suggestion.Col) {
		that.logger.Warn("oracle suggested an illegal move, falling back to heuristic",
			"row", suggestion.Row, "col", suggestion.Col)
		return that.evaluator.SelectMedium(board, player)
	}

	return entity.Move{Row: suggestion.Row, Col: suggestion.Col, Player: player}
}
