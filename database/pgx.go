package database

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/neodb/dialect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxDatabase implements Database for a single *pgx.Conn.
type PgxDatabase struct {
	conn    *pgx.Conn
	dialect dialect.Dialect
}

// NewPgxDatabase wraps conn. Statements are literal SQL, so the connection
// should be configured with pgx.QueryExecModeSimpleProtocol.
func NewPgxDatabase(conn *pgx.Conn, d dialect.Dialect) *PgxDatabase {
	return &PgxDatabase{conn: conn, dialect: d}
}

// Exec executes a statement without returning rows.
func (p *PgxDatabase) Exec(ctx context.Context, query string) (Result, error) {
	tag, err := p.conn.Exec(ctx, query)
	if err != nil {
		return nil, err
	}
	return &PgxResult{cmdTag: tag}, nil
}

// Query executes a statement that returns rows.
func (p *PgxDatabase) Query(ctx context.Context, query string) (Rows, error) {
	rows, err := p.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

func (p *PgxDatabase) EscapeString(s string) string {
	return p.dialect.EscapeString(s)
}

func (p *PgxDatabase) Dialect() dialect.Dialect {
	return p.dialect
}

func (p *PgxDatabase) PingContext(ctx context.Context) error {
	return p.conn.Ping(ctx)
}

func (p *PgxDatabase) Close() error {
	return p.conn.Close(context.Background())
}

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows              pgx.Rows
	fieldDescriptions []pgconn.FieldDescription
}

// Next prepares the next result row for reading.
func (p *PgxRows) Next() bool { return p.rows.Next() }

// Scan copies the raw cells of the current row into *any destinations as
// []byte, nil for NULL. Under the simple protocol every column arrives in
// the server's text format, so uuid, json and array cells keep their textual
// form instead of pgx's decoded Go types.
func (p *PgxRows) Scan(dest ...any) error {
	raw := p.rows.RawValues()
	if len(dest) != len(raw) {
		return fmt.Errorf("expected %d destination arguments in Scan, not %d", len(raw), len(dest))
	}
	for i, d := range dest {
		ptr, ok := d.(*any)
		if !ok {
			return fmt.Errorf("scan destination %d is %T, want *any", i, d)
		}
		if raw[i] == nil {
			*ptr = nil
			continue
		}
		// RawValues is only valid until the next call to Next.
		*ptr = bytes.Clone(raw[i])
	}
	return nil
}

// Columns returns the column names.
func (p *PgxRows) Columns() ([]string, error) {
	if p.fieldDescriptions == nil {
		p.fieldDescriptions = p.rows.FieldDescriptions()
	}
	columns := make([]string, len(p.fieldDescriptions))
	for i, fd := range p.fieldDescriptions {
		columns[i] = fd.Name
	}
	return columns, nil
}

func (p *PgxRows) Err() error { return p.rows.Err() }

// Close closes the rows iterator.
func (p *PgxRows) Close() error { p.rows.Close(); return nil }

// PgxResult implements Result for pgx command tags.
type PgxResult struct {
	cmdTag pgconn.CommandTag
}

// LastInsertId is not supported in PostgreSQL; use RETURNING instead.
func (r *PgxResult) LastInsertId() (int64, error) {
	return 0, fmt.Errorf("LastInsertId not supported in PostgreSQL")
}

// RowsAffected returns the number of rows affected by the command.
func (r *PgxResult) RowsAffected() (int64, error) {
	return r.cmdTag.RowsAffected(), nil
}

// Assert that PgxDatabase implements the Database interface.
var _ Database = (*PgxDatabase)(nil)
