// Package store persists finished games in SQLite for the scoreboard.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trytobebee/candysnake/pkg/game"
)

// ErrDuplicateSession is returned when a session id is already stored.
var ErrDuplicateSession = errors.New("session already recorded")

// Session is one finished game
type Session struct {
	ID        string      `json:"id"`
	Player    string      `json:"player"`
	BoardSize int         `json:"boardSize"`
	Score     int         `json:"score"`
	Steps     int         `json:"steps"`
	Status    game.Status `json:"status"`
	StartedAt time.Time   `json:"startedAt"`
	EndedAt   time.Time   `json:"endedAt"`
}

// Store persists game sessions in SQLite
type Store struct {
	db *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens (creating if needed) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS game_sessions (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL DEFAULT '',
			board_size INTEGER NOT NULL,
			score INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			status TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_game_sessions_score
			ON game_sessions (board_size, score DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordSession stores a finished game. Recording the same ID twice is an error.
func (s *Store) RecordSession(ctx context.Context, session Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("session id is required")
	}
	if !session.Status.Terminal() {
		return fmt.Errorf("session %s is still %s", session.ID, session.Status)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO game_sessions (id, player, board_size, score, steps, status, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		session.ID,
		strings.TrimSpace(session.Player),
		session.BoardSize,
		session.Score,
		session.Steps,
		session.Status.String(),
		toMillis(session.StartedAt),
		toMillis(session.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", session.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("insert session %s: %w", session.ID, ErrDuplicateSession)
	}
	return nil
}

// TopScores returns the best sessions, highest score first. A boardSize of 0
// includes every board.
func (s *Store) TopScores(ctx context.Context, boardSize, limit int) ([]Session, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := `SELECT id, player, board_size, score, steps, status, started_at, ended_at
		FROM game_sessions`
	args := []any{}
	if boardSize > 0 {
		query += ` WHERE board_size = ?`
		args = append(args, boardSize)
	}
	query += ` ORDER BY score DESC, ended_at ASC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var (
			sess       Session
			status     string
			start, end int64
		)
		if err := rows.Scan(&sess.ID, &sess.Player, &sess.BoardSize, &sess.Score,
			&sess.Steps, &status, &start, &end); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if err := sess.Status.UnmarshalText([]byte(status)); err != nil {
			return nil, fmt.Errorf("session %s: %w", sess.ID, err)
		}
		sess.StartedAt = fromMillis(start)
		sess.EndedAt = fromMillis(end)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// BestScore returns the highest score recorded on a board size, 0 if none.
func (s *Store) BestScore(ctx context.Context, boardSize int) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(score) FROM game_sessions WHERE board_size = ?`, boardSize).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("query best score: %w", err)
	}
	return int(best.Int64), nil
}
