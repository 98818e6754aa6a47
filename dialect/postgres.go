package dialect

import "strings"

// Postgres assumes standard_conforming_strings=on (the default since 9.1),
// where a backslash inside '...' is an ordinary character.
type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (p *Postgres) Name() string {
	return "postgres"
}

// QuoteIdentifier wraps name in double quotes. The name is not escaped.
func (p *Postgres) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

func (p *Postgres) EscapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
