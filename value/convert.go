package value

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"
)

// ErrInvalidParameterType is returned for composite values (slices, maps,
// structs, ...) where a scalar is required.
var ErrInvalidParameterType = errors.New("parameter must be a scalar")

const (
	// DateTimeFormat is the layout used for time.Time parameters.
	DateTimeFormat = "2006-01-02 15:04:05.999999"
	// ResultTimeFormat is the layout used for time.Time result cells.
	ResultTimeFormat = "2006-01-02 15:04:05"
)

// Of converts a native Go scalar into a Value.
//
// Named types with a scalar underlying kind are accepted, pointers are
// dereferenced (nil pointers become NULL) and driver.Valuer implementations
// are resolved first, so sql.NullString and friends work as expected.
func Of(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case float32:
		return finite(float64(x))
	case float64:
		return finite(x)
	case string:
		return String(x), nil
	case []byte:
		if x == nil {
			return Null(), nil
		}
		return String(string(x)), nil
	case time.Time:
		return String(x.Format(DateTimeFormat)), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null(), nil
	}
	if valuer, ok := v.(driver.Valuer); ok {
		dv, err := valuer.Value()
		if err != nil {
			return Null(), err
		}
		return Of(dv)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		return Of(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Null(), fmt.Errorf("%w: %d overflows int64", ErrInvalidParameterType, u)
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return finite(rv.Float())
	case reflect.String:
		return String(rv.String()), nil
	}

	return Null(), fmt.Errorf("%w: got %T", ErrInvalidParameterType, v)
}

// finite rejects NaN and infinities, which have no SQL literal form.
func finite(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null(), fmt.Errorf("%w: %v is not a finite number", ErrInvalidParameterType, f)
	}
	return Float(f), nil
}

// MustOf is like Of but panics on error. Intended for literals in tests and
// static tables.
func MustOf(v any) Value {
	val, err := Of(v)
	if err != nil {
		panic(err)
	}
	return val
}

// List converts each argument with Of.
func List(args ...any) ([]Value, error) {
	out := make([]Value, 0, len(args))
	for i, arg := range args {
		v, err := Of(arg)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// FromDriver converts a cell produced by a database driver. Text comes back
// as KindString, mirroring the text protocol, and unknown types are rendered
// with fmt rather than rejected.
func FromDriver(v any) Value {
	switch x := v.(type) {
	case float64:
		return Float(x)
	case float32:
		return Float(float64(x))
	case time.Time:
		return String(x.Format(ResultTimeFormat))
	case []byte:
		if x == nil {
			return Null()
		}
		return String(string(x))
	}
	val, err := Of(v)
	if err != nil {
		return String(fmt.Sprint(v))
	}
	return val
}
