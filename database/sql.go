package database

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/neodb/dialect"
)

// SqlDatabase implements Database on a single *sql.Conn checked out of a
// *sql.DB, so session state such as SET NAMES sticks.
type SqlDatabase struct {
	db      *sql.DB
	conn    *sql.Conn
	dialect dialect.Dialect
}

// NewSqlDatabase pins one connection of db. Closing the SqlDatabase closes db.
func NewSqlDatabase(ctx context.Context, db *sql.DB, d dialect.Dialect) (*SqlDatabase, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &SqlDatabase{db: db, conn: conn, dialect: d}, nil
}

// Exec executes a statement without returning rows.
func (s *SqlDatabase) Exec(ctx context.Context, query string) (Result, error) {
	return s.conn.ExecContext(ctx, query)
}

// Query executes a statement that returns rows.
func (s *SqlDatabase) Query(ctx context.Context, query string) (Rows, error) {
	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SqlDatabase) EscapeString(str string) string {
	return s.dialect.EscapeString(str)
}

func (s *SqlDatabase) Dialect() dialect.Dialect {
	return s.dialect
}

// SetDialect replaces the escaper. Call it before handing the database to
// an engine.
func (s *SqlDatabase) SetDialect(d dialect.Dialect) {
	s.dialect = d
}

func (s *SqlDatabase) PingContext(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Close returns the pinned connection and closes the underlying pool.
func (s *SqlDatabase) Close() error {
	err := s.conn.Close()
	if cerr := s.db.Close(); err == nil {
		err = cerr
	}
	return err
}

// Assert that SqlDatabase implements the Database interface.
var _ Database = (*SqlDatabase)(nil)

// *sql.Rows satisfies Rows directly.
var _ Rows = (*sql.Rows)(nil)
