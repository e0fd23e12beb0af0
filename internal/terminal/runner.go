package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
)

// Runner - a thin stdin/stdout driver around the gameplay service. It only
// ever consumes snapshots; all rules live behind the service.
type Runner struct {
	logger   *slog.Logger
	gameplay service.GamePlayService

	in  io.Reader
	out io.Writer

	sessionID string
}

func New(logger *slog.Logger, gameplay service.GamePlayService, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		logger:   logger.With("component", "terminal"),
		gameplay: gameplay,
		in:       in,
		out:      out,
	}
}

func (that *Runner) Run(ctx context.Context) error {
	that.printf("commands: new <hotseat|bot|remote> [easy|medium|hard] | move <row> <col> | export | import <token> | show | quit\n")

	scanner := bufio.NewScanner(that.in)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if line == "quit" {
			return nil
		}

		if err := that.handleCommand(ctx, line); err != nil {
			that.printf("error: %v\n", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

var errUnknownCommand = errors.New("unknown command")

func (that *Runner) handleCommand(ctx context.Context, line string) error {
	fields := strings.Fields(line)

	switch fields[0] {
	case "new":
		return that.handleNew(ctx, fields[1:])
	case "move":
		return that.handleMove(ctx, fields[1:])
	case "export":
		return that.handleExport(ctx)
	case "import":
		return that.handleImport(ctx, fields[1:])
	case "show":
		return that.handleShow(ctx)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, fields[0])
	}
}

func (that *Runner) handleNew(ctx context.Context, args []string) error {
	mode := entity.ModeHotseat
	if len(args) > 0 {
		mode = args[0]
	}

	difficulty := entity.DifficultyMedium
	if len(args) > 1 {
		difficulty = args[1]
	}

	session, err := that.gameplay.CreateSession(ctx, mode, difficulty)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	that.sessionID = session.ID
	that.render(that.gameplay.Snapshot(session))

	return nil
}

func (that *Runner) handleMove(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: move <row> <col>")
	}

	row, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad row: %w", err)
	}

	col, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad col: %w", err)
	}

	session, err := that.gameplay.MakeTurn(ctx, that.sessionID, row, col)
	if err != nil {
		return fmt.Errorf("failed to make turn: %w", err)
	}

	that.render(that.gameplay.Snapshot(session))

	return nil
}

func (that *Runner) handleExport(ctx context.Context) error {
	token, err := that.gameplay.ExportToken(ctx, that.sessionID)
	if err != nil {
		return fmt.Errorf("failed to export token: %w", err)
	}

	that.printf("token: %s\n", token)

	return nil
}

func (that *Runner) handleImport(ctx context.Context, args []string) error {
	token := ""
	if len(args) > 0 {
		token = args[0]
	}

	session, err := that.gameplay.ImportToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to import token: %w", err)
	}

	that.sessionID = session.ID
	that.render(that.gameplay.Snapshot(session))

	return nil
}

func (that *Runner) handleShow(ctx context.Context) error {
	session, err := that.gameplay.GetSession(ctx, that.sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	that.render(that.gameplay.Snapshot(session))

	return nil
}

func (that *Runner) render(snapshot service.Snapshot) {
	board := snapshot.Board

	for row := 0; row < board.Size(); row++ {
		var sb strings.Builder
		for col := 0; col < board.Size(); col++ {
			switch board.At(row, col) {
			case entity.CellPlayerA:
				sb.WriteString("A ")
			case entity.CellPlayerB:
				sb.WriteString("B ")
			default:
				sb.WriteString(". ")
			}
		}
		that.printf("%s\n", sb.String())
	}

	switch {
	case snapshot.Finished && snapshot.Winner != entity.CellEmpty:
		that.printf("winner: %s (line %v)\n", snapshot.Winner, snapshot.WinLine)
	case snapshot.Finished:
		that.printf("draw\n")
	default:
		that.printf("turn: %s\n", snapshot.Turn)
	}
}

func (that *Runner) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
