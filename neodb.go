// Package neodb is a thin convenience layer over a single database
// connection. It inlines escaped values into query templates, builds INSERT
// and UPDATE statements, and reshapes result sets through named fetch modes.
//
//	db, err := neodb.New(conn)
//	n, err := db.Query(ctx, "DELETE FROM sessions WHERE user_id = ?", 42)
//	name, ok, err := db.FetchOne(ctx, "SELECT name FROM users WHERE id = ?", 42)
//
// Table and column names passed to Insert and Update are quoted but never
// escaped, and Update's condition is used verbatim: never build either from
// untrusted input.
package neodb

import (
	"context"
	"crypto/rand"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Konsultn-Engineering/neodb/cache"
	"github.com/Konsultn-Engineering/neodb/database"
	"github.com/Konsultn-Engineering/neodb/dialect"
	"github.com/Konsultn-Engineering/neodb/query"
	"github.com/Konsultn-Engineering/neodb/value"
	"github.com/oklog/ulid/v2"
)

// Engine runs statements on one database connection. It is safe for
// concurrent use; statements are serialized because a connection can only
// have one statement in flight.
type Engine struct {
	db        database.Database
	dialect   dialect.Dialect
	templates *cache.TemplateCache
	logger    *slog.Logger
	debug     bool
	strict    bool
	id        ulid.ULID

	mu      sync.Mutex
	queries atomic.Int64
}

// New wraps db. The dialect used to quote identifiers is taken from db when
// it exposes one (every adapter in package database does) and falls back to
// MySQL otherwise.
func New(db database.Database, opts ...Option) (*Engine, error) {
	e := &Engine{
		db:        db,
		dialect:   dialectOf(db),
		templates: cache.NewTemplateCache(cache.DefaultTemplateCacheSize),
		logger:    slog.New(slog.DiscardHandler),
		id:        ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("engine", e.id.String())
	return e, nil
}

func dialectOf(db database.Database) dialect.Dialect {
	if d, ok := db.(interface{ Dialect() dialect.Dialect }); ok {
		return d.Dialect()
	}
	return dialect.NewMySQLDialect()
}

// ID identifies the engine in log output.
func (e *Engine) ID() string {
	return e.id.String()
}

// QueryCount returns the number of Query and Fetch calls made so far,
// including Insert and Update, whether they succeeded or not.
func (e *Engine) QueryCount() int64 {
	return e.queries.Load()
}

// Database returns the underlying connection.
func (e *Engine) Database() database.Database {
	return e.db
}

// Close closes the underlying connection. It waits for a running statement.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.Close()
}

// Query substitutes args into template, executes it and returns the number of
// affected rows. Driver errors are returned unchanged.
func (e *Engine) Query(ctx context.Context, template string, args ...any) (int64, error) {
	e.queries.Add(1)
	vals, err := value.List(args...)
	if err != nil {
		return 0, err
	}
	return e.exec(ctx, template, vals)
}

// Insert adds one or more rows to table with a single statement.
func (e *Engine) Insert(ctx context.Context, table string, rows ...value.Row) (int64, error) {
	stmt, err := query.BuildInsert(e.dialect, table, rows...)
	if err != nil {
		return 0, err
	}
	e.queries.Add(1)
	return e.exec(ctx, stmt.SQL, stmt.Args)
}

// Update sets the columns of data on the rows matching cond. cond may contain
// placeholders, filled from condArgs after the SET values.
func (e *Engine) Update(ctx context.Context, table string, data value.Row, cond string, condArgs ...any) (int64, error) {
	vals, err := value.List(condArgs...)
	if err != nil {
		return 0, err
	}
	stmt, err := query.BuildUpdate(e.dialect, table, data, cond, vals...)
	if err != nil {
		return 0, err
	}
	e.queries.Add(1)
	return e.exec(ctx, stmt.SQL, stmt.Args)
}

func (e *Engine) exec(ctx context.Context, template string, vals []value.Value) (int64, error) {
	sql, err := e.templates.Get(template).Bind(vals, e.db)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.logQuery(ctx, sql)
	res, err := e.db.Exec(ctx, sql)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (e *Engine) logQuery(ctx context.Context, sql string) {
	if e.debug {
		e.logger.DebugContext(ctx, "query", "sql", sql)
	}
}
