package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one named cell of a Row.
type Field struct {
	Name  string
	Value Value
}

// Row is an ordered mapping from column name to Value.
type Row []Field

// RowOf builds a Row from alternating name/value arguments:
//
//	RowOf("id", 1, "name", "a")
func RowOf(pairs ...any) (Row, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("RowOf: odd number of arguments (%d)", len(pairs))
	}
	row := make(Row, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("RowOf: column name at %d is %T, not string", i, pairs[i])
		}
		v, err := Of(pairs[i+1])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		row = append(row, Field{Name: name, Value: v})
	}
	return row, nil
}

// MustRow is like RowOf but panics on error.
func MustRow(pairs ...any) Row {
	row, err := RowOf(pairs...)
	if err != nil {
		panic(err)
	}
	return row
}

func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Name
	}
	return keys
}

func (r Row) Values() []Value {
	vals := make([]Value, len(r))
	for i, f := range r {
		vals[i] = f.Value
	}
	return vals
}

// Get returns the value of the first column called name.
func (r Row) Get(name string) (Value, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Null(), false
}

// Rest returns a copy of the row without its first column.
func (r Row) Rest() Row {
	if len(r) == 0 {
		return Row{}
	}
	rest := make(Row, len(r)-1)
	copy(rest, r[1:])
	return rest
}

// SameKeys reports whether both rows have the same column names in the same order.
func (r Row) SameKeys(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i].Name != other[i].Name {
			return false
		}
	}
	return true
}

// Map returns an unordered copy. Later duplicate names win.
func (r Row) Map() map[string]Value {
	m := make(map[string]Value, len(r))
	for _, f := range r {
		m[f.Name] = f.Value
	}
	return m
}

// MarshalJSON encodes the row as an object, keeping column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
