package postgres

import (
	"context"
	"strings"

	"github.com/Konsultn-Engineering/neodb/connector"
	"github.com/Konsultn-Engineering/neodb/database"
	"github.com/Konsultn-Engineering/neodb/dialect"
	"github.com/jackc/pgx/v5"
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
}

func (p *Provider) DefaultPort() int {
	return 5432
}

func (p *Provider) Dialect(connector.Config) dialect.Dialect {
	return dialect.NewPostgresDialect()
}

// DSN renders cfg as a postgres:// URL. The charset is sent as
// client_encoding separately, not through the URL.
func (p *Provider) DSN(cfg connector.Config) string {
	return connector.NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, cfg.Port).
		Database(cfg.Database).
		Params(cfg.Params).
		Build()
}

// Connect opens a single connection in simple-protocol mode with
// client_encoding derived from cfg.Charset.
func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (database.Database, error) {
	connCfg, err := pgx.ParseConfig(p.DSN(cfg))
	if err != nil {
		return nil, err
	}
	// Statements arrive with their values already inlined.
	connCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	connCfg.RuntimeParams["client_encoding"] = ClientEncoding(cfg.Charset)

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, err
	}
	return database.NewPgxDatabase(conn, p.Dialect(cfg)), nil
}

// ClientEncoding maps a MySQL-style charset name onto a PostgreSQL encoding.
func ClientEncoding(charset string) string {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf8mb3", "utf8mb4":
		return "UTF8"
	case "ascii":
		return "SQL_ASCII"
	default:
		return strings.ToUpper(charset)
	}
}
