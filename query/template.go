package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/neodb/value"
)

// Marker is the positional placeholder recognised in query templates.
const Marker = "?"

// ErrParameterCountMismatch is returned when the number of markers in a
// template differs from the number of supplied values.
var ErrParameterCountMismatch = errors.New("number of values does not match number of placeholders")

// Escaper escapes raw string contents for use between single quotes.
type Escaper interface {
	EscapeString(s string) string
}

// Template is a query template split on its placeholder markers.
// A template with k markers has k+1 fragments. Templates are immutable and
// safe to share between goroutines.
type Template struct {
	source    string
	fragments []string
}

// Parse splits a template on every marker. Markers inside quoted literals or
// comments are not special-cased: every '?' is a placeholder.
func Parse(template string) *Template {
	return &Template{
		source:    template,
		fragments: strings.Split(template, Marker),
	}
}

// Source returns the template text as given to Parse.
func (t *Template) Source() string {
	return t.source
}

// Placeholders returns the number of markers in the template.
func (t *Template) Placeholders() int {
	return len(t.fragments) - 1
}

// Bind interleaves the fragments with the escaped values.
func (t *Template) Bind(values []value.Value, esc Escaper) (string, error) {
	if n := t.Placeholders(); n != len(values) {
		return "", fmt.Errorf("%w: %d placeholders, %d values", ErrParameterCountMismatch, n, len(values))
	}

	var sb strings.Builder
	sb.Grow(len(t.source) + 8*len(values))
	sb.WriteString(t.fragments[0])
	for i, v := range values {
		sb.WriteString(Escape(v, esc))
		sb.WriteString(t.fragments[i+1])
	}
	return sb.String(), nil
}

// Substitute parses template and binds values in one step.
func Substitute(template string, values []value.Value, esc Escaper) (string, error) {
	return Parse(template).Bind(values, esc)
}
