package connector

import (
	"context"

	"github.com/Konsultn-Engineering/neodb/database"
	"github.com/Konsultn-Engineering/neodb/dialect"
)

// Provider opens a single connection for one database family.
type Provider interface {
	Connect(ctx context.Context, config Config) (database.Database, error)
	Dialect(config Config) dialect.Dialect
	DefaultPort() int
}

// Connector is a provider bound to a configuration.
type Connector interface {
	Connect(ctx context.Context) (database.Database, error)
	Config() Config
}
