package query

import (
	"math"
	"strconv"

	"github.com/Konsultn-Engineering/neodb/value"
)

// Escape renders v as an SQL literal:
//
//	NULL          -> NULL
//	true / false  -> 1 / 0
//	int, float    -> decimal text, unquoted (NaN and infinities -> NULL)
//	string        -> 'escaped', even when the text looks numeric
//
// Composite values never reach this point; value.Of rejects them.
func Escape(v value.Value, esc Escaper) string {
	switch v.Kind() {
	case value.KindBool:
		if v.Bool() {
			return "1"
		}
		return "0"
	case value.KindNull:
		return "NULL"
	case value.KindInt:
		return strconv.FormatInt(v.Int(), 10)
	case value.KindFloat:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "NULL"
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return "'" + esc.EscapeString(v.Text()) + "'"
	}
}

// EscapeAny converts a native Go value with value.Of and escapes it.
func EscapeAny(v any, esc Escaper) (string, error) {
	val, err := value.Of(v)
	if err != nil {
		return "", err
	}
	return Escape(val, esc), nil
}
