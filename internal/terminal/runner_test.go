package terminal

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGameplay - a scripted gameplay service so the runner can be tested
// without Redis or SQLite.
type fakeGameplay struct {
	session *entity.Session
	token   string
}

func (that *fakeGameplay) CreateSession(_ context.Context, mode, difficulty string) (*entity.Session, error) {
	that.session = entity.NewSession("fake", mode, 15)
	that.session.Difficulty = difficulty

	return that.session, nil
}

func (that *fakeGameplay) GetSession(_ context.Context, _ string) (*entity.Session, error) {
	return that.session, nil
}

func (that *fakeGameplay) MakeTurn(_ context.Context, _ string, row, col int) (*entity.Session, error) {
	board, err := that.session.Board.Apply(entity.Move{Row: row, Col: col, Player: that.session.Turn})
	if err != nil {
		return that.session, err
	}

	that.session.Board = board
	that.session.Turn = that.session.Turn.Opponent()

	return that.session, nil
}

func (that *fakeGameplay) ExportToken(_ context.Context, _ string) (string, error) {
	return that.token, nil
}

func (that *fakeGameplay) ImportToken(_ context.Context, _ string) (*entity.Session, error) {
	that.session = entity.NewSession("imported", entity.ModeRemote, 15)

	return that.session, nil
}

func (that *fakeGameplay) Snapshot(session *entity.Session) service.Snapshot {
	return service.Snapshot{
		SessionID: session.ID,
		Mode:      session.Mode,
		Board:     session.Board,
		Turn:      session.Turn,
		Finished:  session.IsFinished(),
	}
}

func (that *fakeGameplay) CleanupSession(_ context.Context, _ *entity.Session) {}

func TestRunner_Run(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	t.Run("Plays a scripted hotseat exchange", func(t *testing.T) {
		// Given: a runner fed a short session script
		gameplay := &fakeGameplay{token: "101"}
		input := strings.NewReader("new hotseat\nmove 7 7\nexport\nquit\n")
		output := &bytes.Buffer{}
		runner := New(logger, gameplay, input, output)

		// When: running the loop
		err := runner.Run(context.Background())

		// Then: the board was rendered, the turn advanced and the token printed
		require.NoError(t, err)
		assert.Contains(t, output.String(), "turn: B")
		assert.Contains(t, output.String(), "token: 101")
	})

	t.Run("Reports unknown commands without exiting", func(t *testing.T) {
		// Given: a runner fed garbage and then quit
		gameplay := &fakeGameplay{}
		input := strings.NewReader("bogus\nquit\n")
		output := &bytes.Buffer{}
		runner := New(logger, gameplay, input, output)

		// When: running the loop
		err := runner.Run(context.Background())

		// Then: the error is printed, the loop survives until quit
		require.NoError(t, err)
		assert.Contains(t, output.String(), "unknown command")
	})
}
