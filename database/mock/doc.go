/*
Package mock provides a scripted, in-memory implementation of
database.Database for testing code built on neodb without a server.

# Basic Usage

	m := mock.New(mock.Config{})
	m.On("SELECT id, name FROM users").ReturnRows([]string{"id", "name"},
		[]any{int64(1), "a"},
		[]any{int64(2), "b"},
	)
	m.On("DELETE FROM users").ReturnAffected(2)
	m.On("SELECT broken").ReturnError(errors.New("syntax error"))

Statements without a configured response fall back to OnAny(), and to an
empty result (no rows, zero affected) when that isn't configured either.

# Inspecting Calls

	for _, c := range m.Calls() {
		// c.Op, c.SQL
	}
*/
package mock
