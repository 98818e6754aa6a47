package dialect

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// unescapeMySQL reverses MySQL backslash escapes the way the server reads a
// quoted literal.
func unescapeMySQL(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case '0':
			sb.WriteByte(0)
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 'Z':
			sb.WriteByte('\032')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// hasBareQuote reports whether s contains a quote that would end a MySQL
// literal early.
func hasBareQuote(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\'':
			return true
		}
	}
	return false
}

func TestMySQLEscapeString(t *testing.T) {
	d := NewMySQLDialect()
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"O'Reilly", `O\'Reilly`},
		{`say "hi"`, `say \"hi\"`},
		{`C:\path`, `C:\\path`},
		{"line\nbreak\r", `line\nbreak\r`},
		{"nul\x00byte", `nul\0byte`},
		{"ctrl\x1az", `ctrl\Zz`},
		{`\'`, `\\\'`},
		{"", ""},
		{"héllo wörld ✓", "héllo wörld ✓"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, d.EscapeString(tt.in))
		})
	}
}

func TestMySQLEscapeRoundTrip(t *testing.T) {
	d := NewMySQLDialect()
	inputs := []string{
		`'`, `\`, `\\'`, `''`, `' OR '1'='1`, `\'; DROP TABLE users; --`,
		"a\x00b\nc\rd\x1ae\"f", `trailing\`, "mixed ' \\ \" ✓",
	}
	for _, in := range inputs {
		escaped := d.EscapeString(in)
		assert.False(t, hasBareQuote(escaped), "bare quote in %q", escaped)
		assert.Equal(t, in, unescapeMySQL(escaped))
	}
}

func TestMySQLNoBackslashEscapes(t *testing.T) {
	d := &MySQL{NoBackslashEscapes: true}
	assert.Equal(t, `O''Reilly`, d.EscapeString("O'Reilly"))
	assert.Equal(t, `C:\path`, d.EscapeString(`C:\path`))
}

func TestPostgresEscapeString(t *testing.T) {
	d := NewPostgresDialect()
	assert.Equal(t, `O''Reilly`, d.EscapeString("O'Reilly"))
	assert.Equal(t, `a\b`, d.EscapeString(`a\b`))

	for _, in := range []string{`'`, `''`, `' OR 1=1 --`, `\'`} {
		escaped := d.EscapeString(in)
		assert.Equal(t, in, strings.ReplaceAll(escaped, "''", "'"))
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`users`", NewMySQLDialect().QuoteIdentifier("users"))
	assert.Equal(t, "`users`", NewTiDBDialect().QuoteIdentifier("users"))
	assert.Equal(t, `"users"`, NewPostgresDialect().QuoteIdentifier("users"))
}

func TestDialectNames(t *testing.T) {
	assert.Equal(t, "mysql", NewMySQLDialect().Name())
	assert.Equal(t, "tidb", NewTiDBDialect().Name())
	assert.Equal(t, "postgres", NewPostgresDialect().Name())
	assert.Equal(t, `O\'Reilly`, NewTiDBDialect().EscapeString("O'Reilly"))
}
