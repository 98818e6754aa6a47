package fetch

import (
	"sync"

	"github.com/Konsultn-Engineering/neodb/database"
	"github.com/Konsultn-Engineering/neodb/value"
)

// scanBuffers holds the destination slice handed to Rows.Scan. ptrs[i]
// points at vals[i].
type scanBuffers struct {
	vals []any
	ptrs []any
}

// Prepare sizes the buffers for a row of size cells.
func (sb *scanBuffers) Prepare(size int) {
	if cap(sb.vals) < size {
		sb.vals = make([]any, size)
		sb.ptrs = make([]any, size)
	}
	sb.vals = sb.vals[:size]
	sb.ptrs = sb.ptrs[:size]
	for i := range sb.vals {
		sb.vals[i] = nil
		sb.ptrs[i] = &sb.vals[i]
	}
}

// Reset drops references to driver cells so pooled buffers don't pin them.
func (sb *scanBuffers) Reset() {
	clear(sb.vals)
	sb.vals = sb.vals[:0]
	sb.ptrs = sb.ptrs[:0]
}

var scanPool = sync.Pool{
	New: func() interface{} {
		return &scanBuffers{
			vals: make([]any, 0, 16),
			ptrs: make([]any, 0, 16),
		}
	},
}

// scanner turns driver rows into value.Rows, reusing one destination slice.
type scanner struct {
	rows    database.Rows
	columns []string
	buf     *scanBuffers
}

func newScanner(rows database.Rows) (*scanner, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	buf := scanPool.Get().(*scanBuffers)
	buf.Prepare(len(columns))
	return &scanner{rows: rows, columns: columns, buf: buf}, nil
}

// release returns the buffers to the pool. The scanner is unusable after.
func (sc *scanner) release() {
	sc.buf.Reset()
	scanPool.Put(sc.buf)
	sc.buf = nil
}

// each calls fn for every row until fn returns false or the cursor ends.
func (sc *scanner) each(fn func(value.Row) bool) error {
	for sc.rows.Next() {
		if err := sc.rows.Scan(sc.buf.ptrs...); err != nil {
			return err
		}
		row := make(value.Row, len(sc.columns))
		for i, name := range sc.columns {
			row[i] = value.Field{Name: name, Value: value.FromDriver(sc.buf.vals[i])}
		}
		if !fn(row) {
			return nil
		}
	}
	return sc.rows.Err()
}
