package neodb

import (
	"context"
	"fmt"

	"github.com/Konsultn-Engineering/neodb/fetch"
	"github.com/Konsultn-Engineering/neodb/value"
)

// Fetch runs a query and reshapes its rows according to mode.
//
// A nil Result means "nothing": either no rows matched, or the database
// failed to execute the statement. The execution failure is logged at warn
// level and swallowed unless the engine was built with WithStrictFetch.
// Every other error (bad arguments, unknown mode, a failure while reading
// rows) is returned.
func (e *Engine) Fetch(ctx context.Context, mode fetch.Mode, template string, args ...any) (*fetch.Result, error) {
	e.queries.Add(1)
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", fetch.ErrUnknownFetchMode, string(mode))
	}
	vals, err := value.List(args...)
	if err != nil {
		return nil, err
	}
	sql, err := e.templates.Get(template).Bind(vals, e.db)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.logQuery(ctx, sql)
	rows, err := e.db.Query(ctx, sql)
	if err != nil {
		if e.strict {
			return nil, fmt.Errorf("%w: %w", ErrExecutionFailure, err)
		}
		e.logger.WarnContext(ctx, "fetch failed", "mode", mode.String(), "error", err)
		return nil, nil
	}
	defer rows.Close()

	return fetch.Dispatch(mode, rows)
}

// FetchAll returns every row, or nil when there are none.
func (e *Engine) FetchAll(ctx context.Context, template string, args ...any) ([]value.Row, error) {
	res, err := e.Fetch(ctx, fetch.All, template, args...)
	if err != nil || res == nil {
		return nil, err
	}
	return res.Rows, nil
}

// FetchRow returns the first row, or nil when there is none.
func (e *Engine) FetchRow(ctx context.Context, template string, args ...any) (value.Row, error) {
	res, err := e.Fetch(ctx, fetch.Row, template, args...)
	if err != nil || res == nil {
		return nil, err
	}
	return res.Row, nil
}

// FetchIndex maps the first column of each row to the rest of the row.
func (e *Engine) FetchIndex(ctx context.Context, template string, args ...any) (map[value.Value]value.Row, error) {
	res, err := e.Fetch(ctx, fetch.Index, template, args...)
	if err != nil || res == nil {
		return nil, err
	}
	return res.Index, nil
}

// FetchOne returns the first column of the first row. ok is false when there
// is no row, which tells it apart from a NULL cell.
func (e *Engine) FetchOne(ctx context.Context, template string, args ...any) (v value.Value, ok bool, err error) {
	res, err := e.Fetch(ctx, fetch.One, template, args...)
	if err != nil || res == nil {
		return value.Null(), false, err
	}
	return res.Value, true, nil
}

// FetchColumn returns the first column of every row.
func (e *Engine) FetchColumn(ctx context.Context, template string, args ...any) ([]value.Value, error) {
	res, err := e.Fetch(ctx, fetch.Column, template, args...)
	if err != nil || res == nil {
		return nil, err
	}
	return res.Column, nil
}

// FetchPairs maps the first column of each row to the second.
func (e *Engine) FetchPairs(ctx context.Context, template string, args ...any) (map[value.Value]value.Value, error) {
	res, err := e.Fetch(ctx, fetch.Pairs, template, args...)
	if err != nil || res == nil {
		return nil, err
	}
	return res.Pairs, nil
}
