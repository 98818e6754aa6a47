package database

import "context"

// Database is the driver boundary: one physical connection that executes
// literal SQL and knows how to escape strings for it.
type Database interface {
	Exec(ctx context.Context, query string) (Result, error)
	Query(ctx context.Context, query string) (Rows, error)
	EscapeString(s string) string
	PingContext(ctx context.Context) error
	Close() error
}

// Rows is a forward-only cursor. Scan only needs to support *any
// destinations.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}
