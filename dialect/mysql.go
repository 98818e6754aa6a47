package dialect

import "strings"

// MySQL escapes the way mysql_real_escape_string does for ASCII-compatible
// character sets. Multi-byte sets whose trailing bytes can collide with the
// backslash (gbk, big5, sjis, ...) are refused by the connector, so escaping
// byte by byte is safe here.
type MySQL struct {
	// NoBackslashEscapes must mirror the server's NO_BACKSLASH_ESCAPES sql_mode.
	// When set, quotes are doubled and backslashes are left alone.
	NoBackslashEscapes bool
}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (m *MySQL) Name() string {
	return "mysql"
}

// QuoteIdentifier wraps name in backticks. The name is not escaped.
func (m *MySQL) QuoteIdentifier(name string) string {
	return "`" + name + "`"
}

func (m *MySQL) EscapeString(s string) string {
	if m.NoBackslashEscapes {
		return strings.ReplaceAll(s, "'", "''")
	}

	var sb strings.Builder
	sb.Grow(len(s) + len(s)/8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case 0:
			sb.WriteString(`\0`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '"':
			sb.WriteString(`\"`)
		case '\032':
			sb.WriteString(`\Z`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
