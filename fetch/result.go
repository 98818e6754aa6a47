package fetch

import "github.com/Konsultn-Engineering/neodb/value"

// Result holds one shaped result set. Only the field belonging to Mode is
// populated. An absent result is represented by a nil *Result, never by an
// empty one.
type Result struct {
	Mode Mode

	Rows   []value.Row                 // All
	Row    value.Row                   // Row
	Index  map[value.Value]value.Row   // Index
	Value  value.Value                 // One
	Column []value.Value               // Column
	Pairs  map[value.Value]value.Value // Pairs
}

// Interface returns the populated field, or nil for a nil Result.
func (r *Result) Interface() any {
	if r == nil {
		return nil
	}
	switch r.Mode {
	case All:
		return r.Rows
	case Row:
		return r.Row
	case Index:
		return r.Index
	case One:
		return r.Value
	case Column:
		return r.Column
	case Pairs:
		return r.Pairs
	}
	return nil
}
