package store

import (
	"context"
	"time"
)

// Line is one persisted stroke of the shared drawing.
type Line struct {
	ID        int64
	Color     string
	X1        float64
	Y1        float64
	X2        float64
	Y2        float64
	CreatedAt time.Time
}

// Store persists the drawn-line log so a restarted server can still replay
// history to late joiners.
type Store interface {
	// AppendLine persists one line at the end of the log.
	AppendLine(ctx context.Context, line *Line) error

	// ListLines returns the full log in insertion order.
	ListLines(ctx context.Context) ([]Line, error)

	// Close closes the underlying database connection.
	Close() error
}
