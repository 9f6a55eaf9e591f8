// Package sql implements the dialect.Driver interface on top of
// database/sql for PostgreSQL, MySQL and SQLite. It builds no SQL of its
// own; statements arrive already rendered.
//
// # Driver, Conn and Tx
//
// Driver wraps a *sql.DB; Tx wraps a transaction started with Driver.Tx
// or Driver.BeginTx. Both run statements through Conn, whose Exec and
// Query take their arguments as []any and write into a *sql.Result (or
// nil) and a *Rows respectively:
//
//	import "github.com/fraiseql/fraiseql/dialect"
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	var rows sql.Rows
//	if err := drv.Query(ctx, "SELECT data FROM v_user WHERE id = $1", []any{1}, &rows); err != nil {
//	    log.Fatal(err)
//	}
//	defer rows.Close()
//
// OpenDB wraps an already opened *sql.DB instead.
//
// # Session Variables
//
// WithVar and WithIntVar attach session variables to a context. Before
// each statement run with that context, Conn issues SET name = 'value'
// for every variable. Outside a transaction the statement runs on a
// dedicated pooled connection, and on PostgreSQL (RESET) and MySQL
// (SET name = NULL) the variables are cleared again when that connection
// is released. A variable name must start with a letter or underscore and
// contain only letters, digits, underscores and dots; values are quoted
// and escaped.
//
// # Type Aliases
//
// Result, TxOptions and the Null* types alias their database/sql
// counterparts; NullScanner makes any sql.Scanner usable as a nullable
// scan destination.
package sql
