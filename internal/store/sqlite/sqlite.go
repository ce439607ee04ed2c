package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vovakirdan/wireboard-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS lines (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	color TEXT NOT NULL,
	x1 REAL NOT NULL,
	y1 REAL NOT NULL,
	x2 REAL NOT NULL,
	y2 REAL NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and ensures the schema.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// AppendLine persists one line at the end of the log.
func (s *SQLiteStore) AppendLine(ctx context.Context, line *store.Line) error {
	query := `
		INSERT INTO lines (color, x1, y1, x2, y2)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, line.Color, line.X1, line.Y1, line.X2, line.Y2)
	if err != nil {
		return fmt.Errorf("insert line: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	line.ID = id
	return nil
}

// ListLines returns the full log in insertion order.
func (s *SQLiteStore) ListLines(ctx context.Context) ([]store.Line, error) {
	query := `
		SELECT id, color, x1, y1, x2, y2, created_at
		FROM lines
		ORDER BY id ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer rows.Close()

	var lines []store.Line
	for rows.Next() {
		var l store.Line
		if err := rows.Scan(&l.ID, &l.Color, &l.X1, &l.Y1, &l.X2, &l.Y2, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lines: %w", err)
	}

	return lines, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
