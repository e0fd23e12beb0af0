package service

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSessionRepo - an in-memory stand-in for the Redis session store.
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]*entity.Session)}
}

func (that *memSessionRepo) CreateOrUpdate(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	copied := *session
	that.sessions[session.ID] = &copied

	return nil
}

func (that *memSessionRepo) GetByID(_ context.Context, id string) (*entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, ok := that.sessions[id]
	if !ok {
		return &entity.Session{}, repository.ErrSessionNotFound
	}

	copied := *session

	return &copied, nil
}

func (that *memSessionRepo) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.sessions, id)

	return nil
}

// memArchiveRepo - records archived sessions instead of writing SQLite.
type memArchiveRepo struct {
	mu       sync.Mutex
	archived []string
}

func (that *memArchiveRepo) SaveFinished(_ context.Context, session *entity.Session) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.archived = append(that.archived, session.ID)

	return nil
}

func newGamePlayService(t *testing.T) (GamePlayService, *memSessionRepo, *memArchiveRepo) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	rules := gomoku.NewRules(5)
	evaluator := gomoku.NewEvaluator(rules, rand.New(rand.NewSource(3))) //nolint: gosec // fixed seed for deterministic tests
	bot := NewBotService(logger, rules, evaluator, nil, 50*time.Millisecond)

	sessions := newMemSessionRepo()
	archive := &memArchiveRepo{}

	return NewGamePlayService(logger, 15, rules, bot, sessions, archive), sessions, archive
}

func TestGamePlayService_CreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates an ongoing hotseat session with player A to move", func(t *testing.T) {
		// Given: a fresh service
		gameplay, _, _ := newGamePlayService(t)

		// When: creating a hotseat session
		session, err := gameplay.CreateSession(ctx, entity.ModeHotseat, "")

		// Then: the session is ongoing on an empty board with A to open
		require.NoError(t, err)
		assert.NotEmpty(t, session.ID)
		assert.True(t, session.IsOngoing())
		assert.Equal(t, entity.CellPlayerA, session.Turn)
		assert.Equal(t, 225, session.Board.Count(entity.CellEmpty))
	})

	t.Run("A bot session opens immediately when the bot draws A", func(t *testing.T) {
		// Given: a fresh service
		gameplay, _, _ := newGamePlayService(t)

		// When: creating a bot session
		session, err := gameplay.CreateSession(ctx, entity.ModeBot, entity.DifficultyMedium)

		// Then: marks are consistent with who opened
		require.NoError(t, err)
		if session.BotPlayer == entity.CellPlayerA {
			assert.Equal(t, 1, session.Board.Count(entity.CellPlayerA))
			assert.Equal(t, entity.CellPlayerB, session.Turn)
		} else {
			assert.Equal(t, 225, session.Board.Count(entity.CellEmpty))
			assert.Equal(t, entity.CellPlayerA, session.Turn)
		}
	})
}

func TestGamePlayService_MakeTurn(t *testing.T) {
	ctx := context.Background()

	t.Run("Alternates turns in hotseat mode", func(t *testing.T) {
		// Given: a hotseat session
		gameplay, _, _ := newGamePlayService(t)
		session, err := gameplay.CreateSession(ctx, entity.ModeHotseat, "")
		require.NoError(t, err)

		// When: two moves are submitted
		session, err = gameplay.MakeTurn(ctx, session.ID, 7, 7)
		require.NoError(t, err)
		assert.Equal(t, entity.CellPlayerB, session.Turn)

		session, err = gameplay.MakeTurn(ctx, session.ID, 7, 8)
		require.NoError(t, err)

		// Then: both stones are placed and A is back on the move
		assert.Equal(t, entity.CellPlayerA, session.Turn)
		assert.Equal(t, entity.CellPlayerA, session.Board.At(7, 7))
		assert.Equal(t, entity.CellPlayerB, session.Board.At(7, 8))
	})

	t.Run("Rejects a move on an occupied cell and keeps state", func(t *testing.T) {
		// Given: a session with a stone at (7,7)
		gameplay, _, _ := newGamePlayService(t)
		session, err := gameplay.CreateSession(ctx, entity.ModeHotseat, "")
		require.NoError(t, err)
		_, err = gameplay.MakeTurn(ctx, session.ID, 7, 7)
		require.NoError(t, err)

		// When: the same cell is played again
		_, err = gameplay.MakeTurn(ctx, session.ID, 7, 7)

		// Then: the move is rejected and the board keeps one stone
		assert.ErrorIs(t, err, apperror.ErrCellOccupied)

		stored, err := gameplay.GetSession(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Board.Count(entity.CellPlayerA))
	})

	t.Run("The bot answers the human move in bot mode", func(t *testing.T) {
		// Given: a bot session where the human plays A
		gameplay, sessions, _ := newGamePlayService(t)
		session := entity.NewSession("bot-game", entity.ModeBot, 15)
		session.Difficulty = entity.DifficultyMedium
		session.BotPlayer = entity.CellPlayerB
		require.NoError(t, sessions.CreateOrUpdate(ctx, session))

		// When: the human moves
		updated, err := gameplay.MakeTurn(ctx, session.ID, 7, 7)

		// Then: the bot has already replied and A is to move again
		require.NoError(t, err)
		assert.Equal(t, 1, updated.Board.Count(entity.CellPlayerA))
		assert.Equal(t, 1, updated.Board.Count(entity.CellPlayerB))
		assert.Equal(t, entity.CellPlayerA, updated.Turn)
	})

	t.Run("Archives the session once it finishes", func(t *testing.T) {
		// Given: a hotseat session four A-moves from a win
		gameplay, sessions, archive := newGamePlayService(t)
		session := entity.NewSession("to-finish", entity.ModeHotseat, 15)
		require.NoError(t, sessions.CreateOrUpdate(ctx, session))

		for i := 0; i < 4; i++ {
			_, err := gameplay.MakeTurn(ctx, session.ID, 7, 3+i)
			require.NoError(t, err)
			_, err = gameplay.MakeTurn(ctx, session.ID, 1, 3+i)
			require.NoError(t, err)
		}

		// When: A completes the line
		finished, err := gameplay.MakeTurn(ctx, session.ID, 7, 7)
		require.NoError(t, err)

		// Then: the session is finished, archived and the line reported
		assert.True(t, finished.IsFinished())
		assert.Equal(t, entity.CellPlayerA, finished.Winner)
		assert.Len(t, finished.WinLine, 5)
		assert.Contains(t, archive.archived, session.ID)
	})

	t.Run("Returns ErrSessionNotFound for an unknown session", func(t *testing.T) {
		// Given: a fresh service with no sessions
		gameplay, _, _ := newGamePlayService(t)

		// When: moving in a session that does not exist
		_, err := gameplay.MakeTurn(ctx, "missing", 0, 0)

		// Then: the lookup failure is surfaced
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})
}

func TestGamePlayService_Tokens(t *testing.T) {
	ctx := context.Background()

	t.Run("Export and import round-trip the board", func(t *testing.T) {
		// Given: a session with two stones
		gameplay, _, _ := newGamePlayService(t)
		session, err := gameplay.CreateSession(ctx, entity.ModeHotseat, "")
		require.NoError(t, err)
		_, err = gameplay.MakeTurn(ctx, session.ID, 7, 7)
		require.NoError(t, err)
		_, err = gameplay.MakeTurn(ctx, session.ID, 8, 8)
		require.NoError(t, err)

		// When: exporting and importing the token
		token, err := gameplay.ExportToken(ctx, session.ID)
		require.NoError(t, err)

		imported, err := gameplay.ImportToken(ctx, token)
		require.NoError(t, err)

		// Then: the stones survive and A is to move again
		assert.Equal(t, entity.CellPlayerA, imported.Board.At(7, 7))
		assert.Equal(t, entity.CellPlayerB, imported.Board.At(8, 8))
		assert.Equal(t, entity.CellPlayerA, imported.Turn)
		assert.Equal(t, entity.ModeRemote, imported.Mode)
	})

	t.Run("An odd stone count hands the imported turn to B", func(t *testing.T) {
		// Given: a token with a single A stone
		gameplay, _, _ := newGamePlayService(t)
		token := "1" + strings.Repeat("0", 224)

		// When: importing it
		imported, err := gameplay.ImportToken(ctx, token)

		// Then: B is to move
		require.NoError(t, err)
		assert.Equal(t, entity.CellPlayerB, imported.Turn)
	})

	t.Run("A corrupt token degrades to a fresh game", func(t *testing.T) {
		// Given: a truncated token
		gameplay, _, _ := newGamePlayService(t)

		// When: importing it
		imported, err := gameplay.ImportToken(ctx, "12012")

		// Then: the session starts on an empty board with A to open
		require.NoError(t, err)
		assert.Equal(t, 225, imported.Board.Count(entity.CellEmpty))
		assert.Equal(t, entity.CellPlayerA, imported.Turn)
	})
}

func TestGamePlayService_CleanupSession(t *testing.T) {
	ctx := context.Background()

	// Given: a stored session
	gameplay, sessions, _ := newGamePlayService(t)
	session, err := gameplay.CreateSession(ctx, entity.ModeHotseat, "")
	require.NoError(t, err)

	// When: cleaning it up
	gameplay.CleanupSession(ctx, session)

	// Then: it is gone from the store
	_, err = sessions.GetByID(ctx, session.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}
