// Command neodb runs one statement against a database and prints the result
// as JSON.
//
//	neodb -host 127.0.0.1 -user app -db shop -mode pairs \
//	    -e 'SELECT id, name FROM products WHERE price > ?' 10
//
// Without -mode the statement is executed and the affected-row count printed.
// Positional arguments fill the placeholders: NULL, true, false and numbers
// are typed, anything else is a string. -strings passes every argument as a
// string.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/Konsultn-Engineering/neodb"
	"github.com/Konsultn-Engineering/neodb/connector"
	"github.com/Konsultn-Engineering/neodb/fetch"
	_ "github.com/Konsultn-Engineering/neodb/providers/mysql"
	_ "github.com/Konsultn-Engineering/neodb/providers/postgres"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "neodb:", err)
		os.Exit(1)
	}
}

type options struct {
	provider   string
	cfg        connector.Config
	mode       string
	statement  string
	allStrings bool
	args       []string
}

func parseFlags(argv []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("neodb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.provider, "driver", "mysql", "provider: mysql, tidb or postgres")
	fs.StringVar(&o.cfg.Host, "host", "127.0.0.1", "server host")
	fs.IntVar(&o.cfg.Port, "port", 0, "server port (provider default when 0)")
	fs.StringVar(&o.cfg.Username, "user", "", "user name")
	fs.StringVar(&o.cfg.Password, "password", os.Getenv("NEODB_PASSWORD"), "password (default $NEODB_PASSWORD)")
	fs.StringVar(&o.cfg.Database, "db", "", "database name")
	fs.StringVar(&o.cfg.Charset, "charset", connector.DefaultCharset, "connection character set")
	fs.BoolVar(&o.cfg.Debug, "debug", false, "log every statement to stderr before running it")
	fs.DurationVar(&o.cfg.ConnectTimeout, "timeout", 10*time.Second, "connect timeout")
	fs.StringVar(&o.mode, "mode", "", "fetch mode: all, row, index, one, column or pairs")
	fs.StringVar(&o.statement, "e", "", "statement to run")
	fs.BoolVar(&o.allStrings, "strings", false, "pass every argument as a string")
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if o.statement == "" {
		return nil, fmt.Errorf("-e is required")
	}
	o.args = fs.Args()
	return o, nil
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(argv, stderr)
	if err != nil {
		return err
	}

	var mode fetch.Mode
	if o.mode != "" {
		if mode, err = fetch.ParseMode(o.mode); err != nil {
			return err
		}
	}

	opts := []neodb.Option{neodb.WithStrictFetch()}
	if o.cfg.Debug {
		opts = append(opts, neodb.WithDebug(stderr))
		o.cfg.Debug = false
	}
	db, err := neodb.Open(ctx, o.provider, o.cfg, opts...)
	if err != nil {
		return err
	}
	defer db.Close()

	return execute(ctx, db, mode, o.statement, parseArgs(o.args, o.allStrings), stdout)
}

func execute(ctx context.Context, db *neodb.Engine, mode fetch.Mode, statement string, args []any, stdout io.Writer) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")

	if mode == "" {
		n, err := db.Query(ctx, statement, args...)
		if err != nil {
			return err
		}
		return enc.Encode(map[string]int64{"affected": n})
	}

	res, err := db.Fetch(ctx, mode, statement, args...)
	if err != nil {
		return err
	}
	return enc.Encode(res.Interface())
}

func parseArgs(raw []string, allStrings bool) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		args[i] = parseArg(s, allStrings)
	}
	return args
}

func parseArg(s string, allStrings bool) any {
	if allStrings {
		return s
	}
	switch s {
	case "NULL", "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
