// Package dialect provides the database dialect abstraction dialect/sql
// and executor/dialectdriver are built against: a handful of target
// constants plus the minimal Driver/Tx/ExecQuerier interfaces every
// target implementation satisfies (§4.A, §4.F).
package dialect

import "context"

// Dialect name constants, mirrored from fraiseql.Target so this package
// stays importable by code (dialect/sql) that predates the root
// package's Target type in the teacher's layout.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// ExecQuerier is implemented by both Driver and Tx.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is a connection to a database of a specific dialect.
type Driver interface {
	ExecQuerier
	Tx(ctx context.Context) (Tx, error)
	Close() error
	Dialect() string
}

// Tx is a database transaction: Exec/Query plus Commit and Rollback.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
