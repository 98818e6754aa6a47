package mock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Konsultn-Engineering/neodb/database"
	"github.com/Konsultn-Engineering/neodb/dialect"
)

// Operation names recorded in Call.Op.
const (
	OpExec  = "EXEC"
	OpQuery = "QUERY"
)

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("mock: database is closed")

// Config configures the mock database.
type Config struct {
	// Dialect escapes strings. Defaults to MySQL.
	Dialect dialect.Dialect
}

// Response describes a configured outcome for a statement.
type Response struct {
	Columns      []string
	Data         [][]any
	RowsAffected int64
	LastInsertID int64
	// Err fails the Exec or Query call itself.
	Err error
	// RowsErr is reported by Rows.Err once the cursor is exhausted.
	RowsErr error
}

// ResponseBuilder allows fluent configuration of responses.
type ResponseBuilder struct {
	m   *Database
	key string
	any bool
}

// ReturnRows sets the columns and rows returned by Query.
func (b *ResponseBuilder) ReturnRows(columns []string, data ...[]any) *ResponseBuilder {
	b.update(func(r *Response) {
		r.Columns = append([]string(nil), columns...)
		r.Data = data
	})
	return b
}

// ReturnAffected sets the affected-row count returned by Exec.
func (b *ResponseBuilder) ReturnAffected(n int64) *ResponseBuilder {
	b.update(func(r *Response) { r.RowsAffected = n })
	return b
}

// ReturnLastInsertID sets the id returned by Result.LastInsertId.
func (b *ResponseBuilder) ReturnLastInsertID(id int64) *ResponseBuilder {
	b.update(func(r *Response) { r.LastInsertID = id })
	return b
}

// ReturnRowsError makes Rows.Err report err after the last row.
func (b *ResponseBuilder) ReturnRowsError(err error) *ResponseBuilder {
	b.update(func(r *Response) { r.RowsErr = err })
	return b
}

// ReturnError fails the statement with err.
func (b *ResponseBuilder) ReturnError(err error) *Database {
	b.update(func(r *Response) { r.Err = err })
	return b.m
}

func (b *ResponseBuilder) update(fn func(*Response)) {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	var r *Response
	if b.any {
		if b.m.fallback == nil {
			b.m.fallback = &Response{}
		}
		r = b.m.fallback
	} else {
		r = b.m.responses[b.key]
		if r == nil {
			r = &Response{}
			b.m.responses[b.key] = r
		}
	}
	fn(r)
}

// Call records a statement sent to the mock.
type Call struct {
	Op  string
	SQL string
}

// Database implements database.Database for tests.
type Database struct {
	mu        sync.Mutex
	dialect   dialect.Dialect
	responses map[string]*Response
	fallback  *Response
	calls     []Call
	open      []*Rows
	closed    bool
}

// New creates an empty mock database.
func New(cfg Config) *Database {
	d := cfg.Dialect
	if d == nil {
		d = dialect.NewMySQLDialect()
	}
	return &Database{
		dialect:   d,
		responses: make(map[string]*Response),
	}
}

// On configures the response for an exact SQL string.
func (m *Database) On(sql string) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: sql}
}

// OnAny configures the response for statements without an exact match.
func (m *Database) OnAny() *ResponseBuilder {
	return &ResponseBuilder{m: m, any: true}
}

// Calls returns a copy of the recorded calls.
func (m *Database) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// Statements returns the SQL of every recorded call in order.
func (m *Database) Statements() []string {
	calls := m.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.SQL
	}
	return out
}

// OpenRows reports how many cursors handed out by Query are still open.
func (m *Database) OpenRows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.open {
		if !r.closed {
			n++
		}
	}
	return n
}

func (m *Database) lookup(op, sql string) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return Response{}, ErrClosed
	}
	m.calls = append(m.calls, Call{Op: op, SQL: sql})
	if r, ok := m.responses[sql]; ok {
		return *r, nil
	}
	if m.fallback != nil {
		return *m.fallback, nil
	}
	return Response{}, nil
}

func (m *Database) Exec(_ context.Context, query string) (database.Result, error) {
	r, err := m.lookup(OpExec, query)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return result{affected: r.RowsAffected, lastID: r.LastInsertID}, nil
}

func (m *Database) Query(_ context.Context, query string) (database.Rows, error) {
	r, err := m.lookup(OpQuery, query)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	rows := NewRows(r.Columns, r.Data...)
	rows.err = r.RowsErr
	m.mu.Lock()
	m.open = append(m.open, rows)
	m.mu.Unlock()
	return rows, nil
}

func (m *Database) EscapeString(s string) string {
	return m.dialect.EscapeString(s)
}

func (m *Database) Dialect() dialect.Dialect {
	return m.dialect
}

func (m *Database) PingContext(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *Database) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type result struct {
	affected int64
	lastID   int64
}

func (r result) RowsAffected() (int64, error) { return r.affected, nil }
func (r result) LastInsertId() (int64, error) { return r.lastID, nil }

// Rows is an in-memory cursor.
type Rows struct {
	columns []string
	data    [][]any
	pos     int
	err     error
	closed  bool
}

// NewRows builds a cursor over data. Each row must have len(columns) cells.
func NewRows(columns []string, data ...[]any) *Rows {
	return &Rows{columns: columns, data: data, pos: -1}
}

func (r *Rows) Next() bool {
	if r.closed || r.pos+1 >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.closed {
		return errors.New("mock: rows are closed")
	}
	if r.pos < 0 || r.pos >= len(r.data) {
		return errors.New("mock: Scan called without calling Next")
	}
	row := r.data[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("mock: expected %d destination arguments in Scan, not %d", len(row), len(dest))
	}
	for i, d := range dest {
		ptr, ok := d.(*any)
		if !ok {
			return fmt.Errorf("mock: scan destination %d is %T, want *any", i, d)
		}
		*ptr = row[i]
	}
	return nil
}

func (r *Rows) Columns() ([]string, error) {
	if r.closed {
		return nil, errors.New("mock: rows are closed")
	}
	return r.columns, nil
}

func (r *Rows) Err() error {
	if r.pos+1 < len(r.data) {
		return nil
	}
	return r.err
}

func (r *Rows) Close() error {
	r.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (r *Rows) Closed() bool { return r.closed }

var (
	_ database.Database = (*Database)(nil)
	_ database.Rows     = (*Rows)(nil)
)
