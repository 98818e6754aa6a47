package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/neodb/value"
)

var (
	// ErrMismatchedColumns is matched by *MismatchedColumnsError.
	ErrMismatchedColumns = errors.New("row columns do not match the first row")
	ErrNoRows            = errors.New("insert requires at least one row")
	ErrNoColumns         = errors.New("update requires at least one column")
)

// MismatchedColumnsError reports the position of the first row in a
// multi-row insert whose column names differ from row 0.
type MismatchedColumnsError struct {
	Position int
	Want     []string
	Got      []string
}

func (e *MismatchedColumnsError) Error() string {
	return fmt.Sprintf("value set at position %d has non-matching keys: want %v, got %v", e.Position, e.Want, e.Got)
}

func (e *MismatchedColumnsError) Unwrap() error {
	return ErrMismatchedColumns
}

// Quoter quotes table and column identifiers.
type Quoter interface {
	QuoteIdentifier(name string) string
}

// Statement is a query template together with its flat value list.
type Statement struct {
	SQL  string
	Args []value.Value
}

// Bind substitutes the arguments into the template.
func (s Statement) Bind(esc Escaper) (string, error) {
	return Substitute(s.SQL, s.Args, esc)
}

// BuildInsert renders a multi-row INSERT. Columns come from the first row and
// every other row must list the same columns in the same order. Table and
// column names are quoted but not escaped.
func BuildInsert(q Quoter, table string, rows ...value.Row) (Statement, error) {
	if len(rows) == 0 {
		return Statement{}, ErrNoRows
	}

	keys := rows[0].Keys()
	cols := make([]string, len(keys))
	for i, k := range keys {
		cols[i] = q.QuoteIdentifier(k)
	}
	group := "(" + strings.TrimSuffix(strings.Repeat(Marker+",", len(keys)), ",") + ")"

	groups := make([]string, 0, len(rows))
	args := make([]value.Value, 0, len(rows)*len(keys))
	for pos, row := range rows {
		if !row.SameKeys(rows[0]) {
			return Statement{}, &MismatchedColumnsError{Position: pos, Want: keys, Got: row.Keys()}
		}
		groups = append(groups, group)
		args = append(args, row.Values()...)
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		q.QuoteIdentifier(table),
		strings.Join(cols, ","),
		strings.Join(groups, ","),
	)
	return Statement{SQL: sql, Args: args}, nil
}

// BuildUpdate renders an UPDATE whose SET placeholders precede those of the
// raw cond fragment. cond is inserted verbatim.
func BuildUpdate(q Quoter, table string, data value.Row, cond string, condArgs ...value.Value) (Statement, error) {
	if len(data) == 0 {
		return Statement{}, ErrNoColumns
	}

	sets := make([]string, len(data))
	args := make([]value.Value, 0, len(data)+len(condArgs))
	for i, f := range data {
		sets[i] = q.QuoteIdentifier(f.Name) + " = " + Marker
		args = append(args, f.Value)
	}
	args = append(args, condArgs...)

	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s",
		q.QuoteIdentifier(table),
		strings.Join(sets, ","),
		cond,
	)
	return Statement{SQL: sql, Args: args}, nil
}
