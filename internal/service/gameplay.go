package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type archiveRepo interface {
	SaveFinished(ctx context.Context, session *entity.Session) error
}

// Snapshot - what the presentation layer is allowed to see: enough to render
// a board, nothing about how the evaluator got there.
type Snapshot struct {
	SessionID string         `json:"session_id"`
	Mode      string         `json:"mode"`
	Board     entity.Board   `json:"board"`
	Turn      entity.Cell    `json:"player_turn"`
	Winner    entity.Cell    `json:"winner,omitempty"`
	WinLine   []entity.Coord `json:"win_line,omitempty"`
	LastMove  *entity.Move   `json:"last_move,omitempty"`
	Finished  bool           `json:"finished"`
}

type GamePlayService interface {
	CreateSession(ctx context.Context, mode, difficulty string) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, sessionID string, row, col int) (*entity.Session, error)

	ExportToken(ctx context.Context, sessionID string) (string, error)
	ImportToken(ctx context.Context, token string) (*entity.Session, error)

	Snapshot(session *entity.Session) Snapshot
	CleanupSession(ctx context.Context, session *entity.Session)
}

type gamePlayService struct {
	logger *slog.Logger

	boardSize int
	rules     gomoku.Rules

	botService  BotService
	sessionRepo sessionRepo
	archiveRepo archiveRepo

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGamePlayService(logger *slog.Logger, boardSize int, rules gomoku.Rules, botService BotService, sessionRepo sessionRepo, archiveRepo archiveRepo) GamePlayService {
	return &gamePlayService{
		logger:      logger.With("component", "gameplay"),
		boardSize:   boardSize,
		rules:       rules,
		botService:  botService,
		sessionRepo: sessionRepo,
		archiveRepo: archiveRepo,
		locks:       make(map[string]*sync.Mutex),
	}
}

func (that *gamePlayService) CreateSession(ctx context.Context, mode, difficulty string) (*entity.Session, error) {
	session := entity.NewSession(generateSessionID(), mode, that.boardSize)

	if session.IsWithBot() {
		session.Difficulty = difficulty
		session.BotPlayer = entity.CellPlayerB

		// Player A always opens, so when the bot draws A it moves first.
		if pickRandomMark() == entity.CellPlayerA {
			session.BotPlayer = entity.CellPlayerA
			if err := that.botService.MakeTurn(ctx, session); err != nil {
				return nil, fmt.Errorf("bot failed to make first turn: %w", err)
			}
		}
	}

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (that *gamePlayService) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	return session, nil
}

// MakeTurn - applies the acting player's move at (row,col), lets the bot
// answer in bot mode, and persists the outcome. Submissions for one session
// are serialized so two players can never race for the same cell.
func (that *gamePlayService) MakeTurn(ctx context.Context, sessionID string, row, col int) (*entity.Session, error) {
	lock := that.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}

	move := entity.Move{Row: row, Col: col, Player: session.Turn}
	if err = that.rules.MakeTurn(session, move); err != nil {
		return session, fmt.Errorf("failed to make turn: %w", err)
	}

	if session.IsOngoing() && session.IsWithBot() && session.Turn == session.BotPlayer {
		if err = that.botService.MakeTurn(ctx, session); err != nil {
			return nil, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if session.IsFinished() {
		that.archiveSession(ctx, session)
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return session, nil
}

// ExportToken - serializes the session's board for out-of-band hand-off to
// the remote peer. The token carries the board only; the receiver infers the
// turn from stone counts.
func (that *gamePlayService) ExportToken(ctx context.Context, sessionID string) (string, error) {
	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to get session by id: %w", err)
	}

	return gomoku.Encode(session.Board), nil
}

// ImportToken - builds a remote-mode session from a received token. A corrupt
// token degrades to a fresh board rather than erroring, so a mangled link
// starts a new game.
func (that *gamePlayService) ImportToken(ctx context.Context, token string) (*entity.Session, error) {
	board := gomoku.Decode(token, that.boardSize)

	session := entity.NewSession(generateSessionID(), entity.ModeRemote, that.boardSize)
	session.Board = board
	session.Turn = gomoku.NextPlayer(board)

	if err := that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (that *gamePlayService) Snapshot(session *entity.Session) Snapshot {
	return Snapshot{
		SessionID: session.ID,
		Mode:      session.Mode,
		Board:     session.Board,
		Turn:      session.Turn,
		Winner:    session.Winner,
		WinLine:   session.WinLine,
		LastMove:  session.LastMove,
		Finished:  session.IsFinished(),
	}
}

func (that *gamePlayService) CleanupSession(ctx context.Context, session *entity.Session) {
	log := that.logger.With("method", "cleanupSession", "sessionID", session.ID)

	if err := that.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		log.Error("failed to delete session", "error", err)
	}

	that.mu.Lock()
	delete(that.locks, session.ID)
	that.mu.Unlock()
}

func (that *gamePlayService) archiveSession(ctx context.Context, session *entity.Session) {
	if that.archiveRepo == nil {
		return
	}

	if err := that.archiveRepo.SaveFinished(ctx, session); err != nil {
		that.logger.Error("failed to archive finished game", "sessionID", session.ID, "error", err)
	}
}

func (that *gamePlayService) sessionLock(sessionID string) *sync.Mutex {
	that.mu.Lock()
	defer that.mu.Unlock()

	lock, ok := that.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		that.locks[sessionID] = lock
	}

	return lock
}

// generateSessionID - generates a new unique session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "error-generating-session-id"
	}

	return base64.RawURLEncoding.EncodeToString(b)
}

func pickRandomMark() entity.Cell {
	b := make([]byte, 1)
	if _, err := rand.Read(b); err != nil {
		return entity.CellPlayerB
	}

	if b[0]%2 == 0 {
		return entity.CellPlayerA
	}

	return entity.CellPlayerB
}
