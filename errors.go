package neodb

import (
	"errors"

	"github.com/Konsultn-Engineering/neodb/fetch"
	"github.com/Konsultn-Engineering/neodb/query"
	"github.com/Konsultn-Engineering/neodb/value"
)

// Errors returned by the engine. They abort the call before anything reaches
// the database, except ErrExecutionFailure which wraps the driver's error.
var (
	ErrParameterCountMismatch = query.ErrParameterCountMismatch
	ErrInvalidParameterType   = value.ErrInvalidParameterType
	ErrMismatchedColumns      = query.ErrMismatchedColumns
	ErrUnknownFetchMode       = fetch.ErrUnknownFetchMode

	// ErrExecutionFailure is only returned by Fetch on an engine built
	// with WithStrictFetch.
	ErrExecutionFailure = errors.New("statement execution failed")
)

type MismatchedColumnsError = query.MismatchedColumnsError

// Fetch modes, re-exported for callers that only import this package.
const (
	ModeAll    = fetch.All
	ModeRow    = fetch.Row
	ModeIndex  = fetch.Index
	ModeOne    = fetch.One
	ModeColumn = fetch.Column
	ModePairs  = fetch.Pairs
)
