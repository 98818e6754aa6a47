package neodb

import (
	"context"
	"os"

	"github.com/Konsultn-Engineering/neodb/connector"
)

// Open connects through a registered provider ("mysql", "tidb", "postgres")
// and wraps the connection in an Engine. The provider package must be
// imported for its side effect:
//
//	import _ "github.com/Konsultn-Engineering/neodb/providers/mysql"
//
// cfg.Debug enables statement logging after opts are applied. Statements go
// to the logger from WithLogger when one is given, which must enable debug
// level to show them, and to os.Stderr otherwise.
func Open(ctx context.Context, provider string, cfg connector.Config, opts ...Option) (*Engine, error) {
	conn, err := connector.New(provider, cfg)
	if err != nil {
		return nil, err
	}
	db, err := conn.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Debug {
		opts = append(opts[:len(opts):len(opts)], debugTo(os.Stderr))
	}
	e, err := New(db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}
