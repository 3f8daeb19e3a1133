package storage

import (
	"strconv"
	"strings"
)

type dialect int

const (
	sqliteDialect dialect = iota
	postgresDialect
)

func dialectFor(dsn string) dialect {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgresDialect
	}
	return sqliteDialect
}

func (d dialect) driver() string {
	if d == postgresDialect {
		return "postgres"
	}
	return "sqlite"
}

func (d dialect) schema() string {
	if d == postgresDialect {
		return `
		CREATE TABLE IF NOT EXISTS high_scores (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			elapsed_secs INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_high_scores_top ON high_scores(score DESC);
	`
	}
	return `
		CREATE TABLE IF NOT EXISTS high_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			elapsed_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_high_scores_top ON high_scores(score DESC);
	`
}

// rebind rewrites ? placeholders to $N for PostgreSQL.
func (d dialect) rebind(query string) string {
	if d != postgresDialect {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
