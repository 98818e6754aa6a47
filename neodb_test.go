package neodb

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/Konsultn-Engineering/neodb/connector"
	"github.com/Konsultn-Engineering/neodb/database"
	"github.com/Konsultn-Engineering/neodb/database/mock"
	"github.com/Konsultn-Engineering/neodb/dialect"
	"github.com/Konsultn-Engineering/neodb/fetch"
	"github.com/Konsultn-Engineering/neodb/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, opts ...Option) (*Engine, *mock.Database) {
	t.Helper()
	db := mock.New(mock.Config{})
	e, err := New(db, opts...)
	require.NoError(t, err)
	return e, db
}

func TestQuerySubstitutes(t *testing.T) {
	e, db := newEngine(t)
	db.On("DELETE FROM sessions WHERE user_id = 42 AND name = 'O\\'Brien'").ReturnAffected(3)

	n, err := e.Query(context.Background(), "DELETE FROM sessions WHERE user_id = ? AND name = ?", 42, "O'Brien")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []mock.Call{{Op: mock.OpExec, SQL: "DELETE FROM sessions WHERE user_id = 42 AND name = 'O\\'Brien'"}}, db.Calls())
}

func TestQueryPropagatesDriverError(t *testing.T) {
	e, db := newEngine(t)
	boom := errors.New("duplicate entry")
	db.OnAny().ReturnError(boom)

	_, err := e.Query(context.Background(), "INSERT INTO t VALUES (1)")
	assert.Same(t, boom, err)
}

func TestQueryFatalErrorsNeverReachDatabase(t *testing.T) {
	e, db := newEngine(t)
	ctx := context.Background()

	_, err := e.Query(ctx, "SELECT ? , ?", 1)
	assert.ErrorIs(t, err, ErrParameterCountMismatch)

	_, err = e.Query(ctx, "SELECT ?", []int{1, 2})
	assert.ErrorIs(t, err, ErrInvalidParameterType)

	_, err = e.Query(ctx, "UPDATE t SET ratio = ?", math.NaN())
	assert.ErrorIs(t, err, ErrInvalidParameterType)

	_, err = e.Fetch(ctx, fetch.Mode("assoc"), "SELECT 1")
	assert.ErrorIs(t, err, ErrUnknownFetchMode)

	_, err = e.Insert(ctx, "t", value.MustRow("a", 1), value.MustRow("b", 2))
	assert.ErrorIs(t, err, ErrMismatchedColumns)

	assert.Empty(t, db.Calls())
}

func TestInsert(t *testing.T) {
	e, db := newEngine(t)
	db.OnAny().ReturnAffected(2)

	n, err := e.Insert(context.Background(), "t",
		value.MustRow("a", 1, "b", 2),
		value.MustRow("a", 3, "b", 4),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, []string{"INSERT INTO `t` (`a`,`b`) VALUES (1,2),(3,4)"}, db.Statements())
}

func TestInsertMismatchPosition(t *testing.T) {
	e, _ := newEngine(t)

	_, err := e.Insert(context.Background(), "t",
		value.MustRow("a", 1, "b", 2),
		value.MustRow("a", 3, "b", 4),
		value.MustRow("b", 5, "a", 6),
	)
	var mismatch *MismatchedColumnsError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Position)
}

func TestUpdate(t *testing.T) {
	e, db := newEngine(t)
	db.OnAny().ReturnAffected(1)

	n, err := e.Update(context.Background(), "t", value.MustRow("x", 5), "id = ?", 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, []string{"UPDATE `t` SET `x` = 5 WHERE id = 7"}, db.Statements())
}

func TestUpdatePostgres(t *testing.T) {
	db := mock.New(mock.Config{Dialect: dialect.NewPostgresDialect()})
	e, err := New(db)
	require.NoError(t, err)

	_, err = e.Update(context.Background(), "users", value.MustRow("name", "it's"), "id = ?", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{`UPDATE "users" SET "name" = 'it''s' WHERE id = 1`}, db.Statements())
}

func TestFetchModes(t *testing.T) {
	e, db := newEngine(t)
	db.On("SELECT id, name FROM users").ReturnRows([]string{"id", "name"},
		[]any{int64(1), []byte("a")},
		[]any{int64(2), []byte("b")},
	)
	ctx := context.Background()
	const q = "SELECT id, name FROM users"

	all, err := e.FetchAll(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []value.Row{
		value.MustRow("id", 1, "name", "a"),
		value.MustRow("id", 2, "name", "b"),
	}, all)

	row, err := e.FetchRow(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, value.MustRow("id", 1, "name", "a"), row)

	index, err := e.FetchIndex(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, map[value.Value]value.Row{
		value.Int(1): value.MustRow("name", "a"),
		value.Int(2): value.MustRow("name", "b"),
	}, index)

	one, ok, err := e.FetchOne(ctx, q)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, value.Int(1), one)

	col, err := e.FetchColumn(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, []value.Value{value.Int(1), value.Int(2)}, col)

	pairs, err := e.FetchPairs(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, map[value.Value]value.Value{
		value.Int(1): value.String("a"),
		value.Int(2): value.String("b"),
	}, pairs)

	assert.Equal(t, 0, db.OpenRows(), "every cursor must be closed")
}

func TestFetchNoRows(t *testing.T) {
	e, db := newEngine(t)
	db.OnAny().ReturnRows([]string{"id"})
	ctx := context.Background()

	for _, mode := range fetch.Modes() {
		res, err := e.Fetch(ctx, mode, "SELECT id FROM users WHERE 0")
		require.NoError(t, err, mode)
		assert.Nil(t, res, mode)
	}

	v, ok, err := e.FetchOne(ctx, "SELECT id FROM users WHERE 0")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, v.IsNull())
}

func TestFetchOneNullCell(t *testing.T) {
	e, db := newEngine(t)
	db.OnAny().ReturnRows([]string{"deleted_at"}, []any{nil})

	v, ok, err := e.FetchOne(context.Background(), "SELECT deleted_at FROM users")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, v.IsNull())
}

func TestFetchSoftFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	e, db := newEngine(t, WithLogger(logger))
	db.OnAny().ReturnError(errors.New("table users doesn't exist"))

	res, err := e.Fetch(context.Background(), fetch.All, "SELECT * FROM users")
	assert.NoError(t, err)
	assert.Nil(t, res)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "table users doesn't exist")
	assert.Contains(t, logs.String(), "engine="+e.ID())
}

func TestFetchStrictFailure(t *testing.T) {
	e, db := newEngine(t, WithStrictFetch())
	boom := errors.New("table users doesn't exist")
	db.OnAny().ReturnError(boom)

	res, err := e.Fetch(context.Background(), fetch.All, "SELECT * FROM users")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrExecutionFailure)
	assert.ErrorIs(t, err, boom)
}

func TestFetchRowsErrorIsReturned(t *testing.T) {
	e, db := newEngine(t)
	boom := errors.New("connection lost")
	db.OnAny().ReturnRows([]string{"id"}, []any{int64(1)}).ReturnRowsError(boom)

	_, err := e.FetchColumn(context.Background(), "SELECT id FROM users")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, db.OpenRows())
}

func TestQueryCount(t *testing.T) {
	e, db := newEngine(t)
	ctx := context.Background()
	assert.Equal(t, int64(0), e.QueryCount())

	_, _ = e.Query(ctx, "UPDATE t SET a = 1")
	_, _ = e.Fetch(ctx, fetch.One, "SELECT 1")
	// Failed calls count too.
	_, _ = e.Query(ctx, "SELECT ?")
	_, _ = e.Fetch(ctx, fetch.Mode("bogus"), "SELECT 1")
	_, _ = e.Insert(ctx, "t", value.MustRow("a", 1))
	_, _ = e.Update(ctx, "t", value.MustRow("a", 1), "1")

	assert.Equal(t, int64(6), e.QueryCount())
	assert.Len(t, db.Calls(), 4)
}

func TestQueryCountIncludesSoftFailures(t *testing.T) {
	e, db := newEngine(t)
	db.On("SELECT broken").ReturnError(errors.New("syntax error"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := e.Fetch(ctx, fetch.All, "SELECT broken")
		require.NoError(t, err)
		assert.Nil(t, res)
	}
	_, err := e.FetchColumn(ctx, "SELECT ok")
	require.NoError(t, err)

	assert.Equal(t, int64(4), e.QueryCount())
	assert.Len(t, db.Calls(), 4)
}

func TestQueryCountConcurrent(t *testing.T) {
	e, db := newEngine(t)
	db.OnAny().ReturnRows([]string{"n"}, []any{int64(1)})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = e.Query(ctx, "DO ?", i)
		}()
		go func() {
			defer wg.Done()
			_, _, _ = e.FetchOne(ctx, "SELECT ?", i)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), e.QueryCount())
	assert.Len(t, db.Calls(), 100)
}

func TestDebugLogsStatements(t *testing.T) {
	var out bytes.Buffer
	e, db := newEngine(t, WithDebug(&out))
	db.OnAny().ReturnRows([]string{"name"}, []any{[]byte("a")})

	_, _, err := e.FetchOne(context.Background(), "SELECT name FROM users WHERE id = ?", 7)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `msg=query`)
	assert.Contains(t, out.String(), `sql="SELECT name FROM users WHERE id = 7"`)
}

func TestNoDebugNoStatementLogs(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, _ := newEngine(t, WithLogger(logger))

	_, err := e.Query(context.Background(), "DELETE FROM t")
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestOptionErrors(t *testing.T) {
	db := mock.New(mock.Config{})
	for name, opt := range map[string]Option{
		"nil logger":  WithLogger(nil),
		"nil dialect": WithDialect(nil),
		"cache size":  WithTemplateCache(0),
	} {
		_, err := New(db, opt)
		assert.Error(t, err, name)
	}
}

func TestWithDialectQuotesIdentifiers(t *testing.T) {
	e, db := newEngine(t, WithDialect(dialect.NewPostgresDialect()))

	_, err := e.Insert(context.Background(), "t", value.MustRow("a", "x'y"))
	require.NoError(t, err)
	// Identifiers follow the override, string escaping stays with the database.
	assert.Equal(t, []string{`INSERT INTO "t" ("a") VALUES ('x\'y')`}, db.Statements())
}

func TestClose(t *testing.T) {
	e, db := newEngine(t)
	require.NoError(t, e.Close())

	_, err := e.Query(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, mock.ErrClosed)
	assert.ErrorIs(t, db.PingContext(context.Background()), mock.ErrClosed)
}

// mockProvider hands out one scripted database through the connector.
type mockProvider struct{ db *mock.Database }

func (p *mockProvider) Connect(context.Context, connector.Config) (database.Database, error) {
	return p.db, nil
}
func (p *mockProvider) Dialect(connector.Config) dialect.Dialect { return p.db.Dialect() }
func (p *mockProvider) DefaultPort() int { return 1 }

func TestOpenDebugKeepsLogger(t *testing.T) {
	db := mock.New(mock.Config{})
	connector.Register("mock-debug", &mockProvider{db: db})

	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, err := Open(context.Background(), "mock-debug", connector.Config{Host: "db", Debug: true}, WithLogger(logger))
	require.NoError(t, err)

	_, err = e.Query(context.Background(), "DELETE FROM t WHERE id = ?", 7)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `sql="DELETE FROM t WHERE id = 7"`)
}

func TestDebugToDefaultLogger(t *testing.T) {
	var out bytes.Buffer
	e, _ := newEngine(t, debugTo(&out))

	_, err := e.Query(context.Background(), "DELETE FROM t")
	require.NoError(t, err)
	assert.Contains(t, out.String(), `sql="DELETE FROM t"`)
}

func TestDebugToKeepsConfiguredLogger(t *testing.T) {
	var configured, fallback bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&configured, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e, _ := newEngine(t, WithLogger(logger), debugTo(&fallback))

	_, err := e.Query(context.Background(), "DELETE FROM t")
	require.NoError(t, err)
	assert.Contains(t, configured.String(), `sql="DELETE FROM t"`)
	assert.Empty(t, fallback.String())
}
