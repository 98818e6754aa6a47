package dialect

// Dialect captures the server-specific parts of rendering literal SQL:
// identifier quoting and escaping of string contents for use inside single
// quotes.
type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	EscapeString(s string) string
}
