// Package storage persists high scores in SQL databases.
//
// A plain file path (or ":memory:") opens SQLite through the pure-Go
// modernc.org/sqlite driver; a postgres:// or postgresql:// URL opens
// PostgreSQL through lib/pq.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/jellystone/internal/session"
)

// DefaultTopLimit is used when TopScores is called with a non-positive limit.
const DefaultTopLimit = 10

// Store manages the database connection for score persistence.
type Store struct {
	db      *sql.DB
	dialect dialect
}

var _ session.ScoreStore = (*Store)(nil)

// Stats aggregates all recorded games.
type Stats struct {
	Games      int
	HighScore  int
	AvgScore   float64
	BestLevel  int
	LastPlayed time.Time
}

// Open creates or opens the database named by dsn and runs migrations.
func Open(dsn string) (*Store, error) {
	d := dialectFor(dsn)

	if d == sqliteDialect {
		path, err := prepareSQLitePath(dsn)
		if err != nil {
			return nil, err
		}
		dsn = path
	}

	db, err := sql.Open(d.driver(), dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if d == sqliteDialect {
		// One writer at a time keeps SQLite from reporting SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: d}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// prepareSQLitePath expands ~ and creates parent directories.
func prepareSQLitePath(path string) (string, error) {
	if path == ":memory:" {
		return path, nil
	}
	if path == "" {
		return "", errors.New("storage: empty database path")
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}
	return path, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(s.dialect.schema())
	return err
}

// Dialect names the database backend ("sqlite" or "postgres").
func (s *Store) Dialect() string {
	return s.dialect.driver()
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveHighScore records a finished game.
func (s *Store) SaveHighScore(ctx context.Context, hs session.HighScore) error {
	if hs.RunID == uuid.Nil {
		hs.RunID = uuid.New()
	}
	if hs.CreatedAt.IsZero() {
		hs.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, s.dialect.rebind(
		`INSERT INTO high_scores (run_id, name, score, level, elapsed_secs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		hs.RunID.String(), hs.Name, hs.Score, hs.Level, hs.ElapsedSecs, hs.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}
	return nil
}

// TopScores retrieves the best results, highest score first. Ties go to the
// earlier game.
func (s *Store) TopScores(ctx context.Context, limit int) ([]session.HighScore, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT run_id, name, score, level, elapsed_secs, created_at
		 FROM high_scores
		 ORDER BY score DESC, created_at ASC, id ASC
		 LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []session.HighScore
	for rows.Next() {
		var (
			e         session.HighScore
			runID     string
			createdAt any
		)
		if err := rows.Scan(&runID, &e.Name, &e.Score, &e.Level, &e.ElapsedSecs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if id, err := uuid.Parse(runID); err == nil {
			e.RunID = id
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score ever recorded, or 0.
func (s *Store) HighScore(ctx context.Context) (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRowContext(ctx, "SELECT MAX(score) FROM high_scores").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Stats returns aggregate figures over all games.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	var lastPlayed any
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(MAX(level), 0), MAX(created_at)
		 FROM high_scores`,
	).Scan(&stats.Games, &stats.HighScore, &stats.AvgScore, &stats.BestLevel, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// ClearScores deletes every recorded score.
func (s *Store) ClearScores(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM high_scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

// parseTime handles drivers returning either time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case []byte:
		return parseTime(string(t))
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
