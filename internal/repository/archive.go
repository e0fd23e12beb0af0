package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

// ArchivedGame - the durable record of a finished game.
type ArchivedGame struct {
	ID         string    `json:"id"`
	Mode       string    `json:"mode"`
	Winner     string    `json:"winner"`
	Moves      int       `json:"moves"`
	BoardToken string    `json:"board_token"`
	FinishedAt time.Time `json:"finished_at"`
}

type ArchiveRepository interface {
	SaveFinished(ctx context.Context, session *entity.Session) error
	ListRecent(ctx context.Context, limit int) ([]ArchivedGame, error)
}

type dbArchive struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &dbArchive{
		conn: conn,
	}
}

func (that *dbArchive) SaveFinished(ctx context.Context, session *entity.Session) error {
	winner := ""
	if session.Winner != entity.CellEmpty {
		winner = session.Winner.String()
	}

	query := `INSERT OR REPLACE INTO games (id, mode, winner, moves, board_token, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		session.ID,
		session.Mode,
		winner,
		len(session.History),
		gomoku.Encode(session.Board),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	return nil
}

func (that *dbArchive) ListRecent(ctx context.Context, limit int) ([]ArchivedGame, error) {
	query := `SELECT id, mode, winner, moves, board_token, finished_at FROM games
		ORDER BY finished_at DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived games: %w", err)
	}
	defer rows.Close()

	games := []ArchivedGame{}
	for rows.Next() {
		var game ArchivedGame
		if err = rows.Scan(&game.ID, &game.Mode, &game.Winner, &game.Moves, &game.BoardToken, &game.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived game: %w", err)
		}
		games = append(games, game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate archived games: %w", err)
	}

	return games, nil
}
