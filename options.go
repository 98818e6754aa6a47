package neodb

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/Konsultn-Engineering/neodb/cache"
	"github.com/Konsultn-Engineering/neodb/dialect"
)

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the logger used for debug output and swallowed fetch
// failures. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		e.logger = logger
		return nil
	}
}

// WithDebug logs every substituted statement at debug level before it is
// executed. A non-nil w replaces the logger with a text logger writing to w;
// with a nil w the statements go to the current logger.
func WithDebug(w io.Writer) Option {
	return func(e *Engine) error {
		e.debug = true
		if w != nil {
			e.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		return nil
	}
}

// debugTo enables statement logging without replacing a logger set by an
// earlier option. Only an engine still on the default discarding logger
// gets a debug-level text logger on w.
func debugTo(w io.Writer) Option {
	return func(e *Engine) error {
		e.debug = true
		if e.logger.Handler() == slog.DiscardHandler {
			e.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
		return nil
	}
}

// WithDebugStderr is WithDebug(os.Stderr).
func WithDebugStderr() Option {
	return WithDebug(os.Stderr)
}

// WithStrictFetch makes Fetch return execution failures wrapped in
// ErrExecutionFailure instead of a nil result.
func WithStrictFetch() Option {
	return func(e *Engine) error {
		e.strict = true
		return nil
	}
}

// WithDialect overrides the dialect used to quote identifiers in Insert and
// Update. String escaping always stays with the database.
func WithDialect(d dialect.Dialect) Option {
	return func(e *Engine) error {
		if d == nil {
			return errors.New("nil dialect")
		}
		e.dialect = d
		return nil
	}
}

// WithTemplateCache sets how many parsed templates are kept.
func WithTemplateCache(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return errors.New("template cache size must be positive")
		}
		e.templates = cache.NewTemplateCache(size)
		return nil
	}
}
