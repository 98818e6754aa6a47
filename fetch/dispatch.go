package fetch

import (
	"fmt"

	"github.com/Konsultn-Engineering/neodb/database"
	"github.com/Konsultn-Engineering/neodb/value"
)

// Dispatch reshapes rows according to mode.
//
// Row and One read a single row; the other modes drain the cursor. When no
// row is read the result is absent (nil), including for All, Index, Column
// and Pairs: callers get nil rather than an empty collection. Keys in Index
// and Pairs are last-write-wins. Dispatch does not close rows.
func Dispatch(mode Mode, rows database.Rows) (*Result, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFetchMode, string(mode))
	}

	sc, err := newScanner(rows)
	if err != nil {
		return nil, err
	}
	defer sc.release()

	var res *Result
	switch mode {
	case All:
		err = sc.each(func(row value.Row) bool {
			res = ensure(res, mode)
			res.Rows = append(res.Rows, row)
			return true
		})
	case Row:
		err = sc.each(func(row value.Row) bool {
			res = &Result{Mode: mode, Row: row}
			return false
		})
	case Index:
		err = sc.each(func(row value.Row) bool {
			res = ensure(res, mode)
			key, _ := first(row)
			res.Index[key] = row.Rest()
			return true
		})
	case One:
		err = sc.each(func(row value.Row) bool {
			v, _ := first(row)
			res = &Result{Mode: mode, Value: v}
			return false
		})
	case Column:
		err = sc.each(func(row value.Row) bool {
			res = ensure(res, mode)
			v, _ := first(row)
			res.Column = append(res.Column, v)
			return true
		})
	case Pairs:
		err = sc.each(func(row value.Row) bool {
			res = ensure(res, mode)
			key, _ := first(row)
			var val value.Value
			if len(row) > 1 {
				val = row[1].Value
			}
			res.Pairs[key] = val
			return true
		})
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ensure allocates the accumulator on the first row.
func ensure(res *Result, mode Mode) *Result {
	if res != nil {
		return res
	}
	res = &Result{Mode: mode}
	switch mode {
	case Index:
		res.Index = make(map[value.Value]value.Row)
	case Pairs:
		res.Pairs = make(map[value.Value]value.Value)
	}
	return res
}

func first(row value.Row) (value.Value, bool) {
	if len(row) == 0 {
		return value.Null(), false
	}
	return row[0].Value, true
}
