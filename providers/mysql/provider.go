package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/neodb/connector"
	"github.com/Konsultn-Engineering/neodb/database"
	"github.com/Konsultn-Engineering/neodb/dialect"
	"github.com/Konsultn-Engineering/neodb/value"
	driver "github.com/go-sql-driver/mysql"
)

// safeCharsets never produce a 0x5c (backslash) byte inside a multi-byte
// character, which byte-wise escaping depends on.
var safeCharsets = map[string]bool{
	"ascii":   true,
	"binary":  true,
	"latin1":  true,
	"latin2":  true,
	"utf8":    true,
	"utf8mb3": true,
	"utf8mb4": true,
}

// Provider connects to MySQL, or to TiDB when TiDB is set.
type Provider struct {
	TiDB bool
}

func init() {
	connector.Register("mysql", &Provider{})
	connector.Register("tidb", &Provider{TiDB: true})
}

func (p *Provider) DefaultPort() int {
	if p.TiDB {
		return 4000
	}
	return 3306
}

// Dialect picks the escaper matching the sql_mode requested in cfg.Params.
// Connect replaces it with one matching the session's actual sql_mode.
func (p *Provider) Dialect(cfg connector.Config) dialect.Dialect {
	return p.dialectFor(cfg.Params["sql_mode"])
}

func (p *Provider) dialectFor(sqlMode string) dialect.Dialect {
	noBackslash := strings.Contains(strings.ToUpper(sqlMode), "NO_BACKSLASH_ESCAPES")
	if p.TiDB {
		d := dialect.NewTiDBDialect().(*dialect.TiDB)
		d.NoBackslashEscapes = noBackslash
		return d
	}
	return &dialect.MySQL{NoBackslashEscapes: noBackslash}
}

// DriverConfig translates cfg for go-sql-driver/mysql.
func (p *Provider) DriverConfig(cfg connector.Config) *driver.Config {
	mc := driver.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Database
	mc.Timeout = cfg.ConnectTimeout
	if len(cfg.Params) > 0 {
		mc.Params = make(map[string]string, len(cfg.Params))
		for k, v := range cfg.Params {
			mc.Params[k] = v
		}
	}
	return mc
}

// DSN renders cfg in the driver's DSN syntax.
func (p *Provider) DSN(cfg connector.Config) string {
	return p.DriverConfig(cfg).FormatDSN()
}

// Connect opens a single connection and runs SET NAMES with cfg.Charset.
// Charsets the backslash escaper cannot handle safely are refused.
func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (database.Database, error) {
	if !safeCharsets[strings.ToLower(cfg.Charset)] {
		return nil, fmt.Errorf("charset %q is not supported by the string escaper", cfg.Charset)
	}

	dc, err := driver.NewConnector(p.DriverConfig(cfg))
	if err != nil {
		return nil, err
	}
	return p.setup(ctx, sql.OpenDB(dc), cfg)
}

// setup pins one connection of pool, negotiates the charset and matches the
// escaper to the session's sql_mode. The server default may enable
// NO_BACKSLASH_ESCAPES without the client asking for it.
func (p *Provider) setup(ctx context.Context, pool *sql.DB, cfg connector.Config) (database.Database, error) {
	pool.SetMaxOpenConns(1)

	db, err := database.NewSqlDatabase(ctx, pool, p.Dialect(cfg))
	if err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := db.Exec(ctx, "SET NAMES "+cfg.Charset); err != nil {
		db.Close()
		return nil, err
	}
	mode, err := sessionSQLMode(ctx, db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("reading sql_mode: %w", err)
	}
	db.SetDialect(p.dialectFor(mode))
	return db, nil
}

func sessionSQLMode(ctx context.Context, db database.Database) (string, error) {
	rows, err := db.Query(ctx, "SELECT @@SESSION.sql_mode")
	if err != nil {
		return "", err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no row returned")
	}
	var cell any
	if err := rows.Scan(&cell); err != nil {
		return "", err
	}
	return value.FromDriver(cell).Text(), rows.Err()
}
