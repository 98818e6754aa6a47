package fetch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFetchMode is returned for a Mode outside the six defined below.
// It is a programming error and is never downgraded.
var ErrUnknownFetchMode = errors.New("unknown fetch mode")

// Mode selects the shape a result set is reshaped into.
type Mode string

const (
	// All returns every row.
	All Mode = "all"
	// Row returns the first row.
	Row Mode = "row"
	// Index maps the first column of each row to the remaining columns.
	Index Mode = "index"
	// One returns the first column of the first row.
	One Mode = "one"
	// Column returns the first column of every row.
	Column Mode = "column"
	// Pairs maps the first column of each row to its second column.
	Pairs Mode = "pairs"
)

var modes = []Mode{All, Row, Index, One, Column, Pairs}

// Modes lists the defined modes.
func Modes() []Mode {
	return append([]Mode(nil), modes...)
}

// Valid reports whether m is one of the six defined modes.
func (m Mode) Valid() bool {
	for _, known := range modes {
		if m == known {
			return true
		}
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}

// ParseMode resolves a case-insensitive mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFetchMode, s)
	}
	return m, nil
}
