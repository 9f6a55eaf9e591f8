// Package executor implements the Query Executor (§4.F): it binds an
// already-parsed GraphQL operation to a CompiledSchema's SQL templates,
// runs them against a pooled database connection that returns JSON-text
// rows, and streams those rows to the Response Builder without an
// intermediate parse. ParseOperation and Bind (bind.go) turn GraphQL
// operation text into the BoundQuery values that ExecuteList and
// ExecuteSingle consume.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler"
	"github.com/fraiseql/fraiseql/compiler/sqlgen"
	"github.com/fraiseql/fraiseql/dialect/sql/sqlgraph"
	"github.com/fraiseql/fraiseql/ir"
	"github.com/fraiseql/fraiseql/observability"
	"github.com/fraiseql/fraiseql/privacy"
	"github.com/fraiseql/fraiseql/response"

	sqldriver "github.com/fraiseql/fraiseql/dialect/sql"
)

// BoundQuery is the already-resolved shape of one root Query/Mutation
// field: which type it is bound to, what kind of SQL template it needs,
// and its already-rendered filter predicates (querylanguage output, or
// a federation @requires/row-filter template) plus their positional
// argument values. Pagination arguments (first/after) are carried
// separately since they drive the keyset WHERE/LIMIT clause the
// compiler's SQL Template Generator appends after the caller's own
// filters.
type BoundQuery struct {
	Field     string
	TypeName  string
	Kind      ir.OperationKind
	Filters   []string
	Args      []any
	First     int
	After     string // opaque cursor, empty for the first page
	PKValues  []any  // single-row lookup key values, for OperationSingle
}

// Executor runs BoundQuery values against a CompiledSchema's SQL
// templates on a live connection and streams results to a
// response.Builder. One Executor per (CompiledSchema, connection pool)
// pair; it holds no per-request state of its own.
type Executor struct {
	Schema  *compiler.CompiledSchema
	Driver  *sqldriver.Driver
	Dialect sqlgen.Dialect
	Shapes  map[string]*response.RowShape
	Cache   fraiseql.Cache
}

// New builds an Executor for schema's target, reconstructing the
// Response Builder's shape graph once via compiler.BuildShapes.
func New(schema *compiler.CompiledSchema, driver *sqldriver.Driver, cache fraiseql.Cache) (*Executor, error) {
	dialect, err := sqlgen.ForTarget(schema.Target)
	if err != nil {
		return nil, fmt.Errorf("executor: %w", err)
	}
	return &Executor{
		Schema:  schema,
		Driver:  driver,
		Dialect: dialect,
		Shapes:  compiler.BuildShapes(schema),
		Cache:   cache,
	}, nil
}

// ExecuteList runs bq as a keyset-paginated list query (§4.F steps 4-6):
// bind filters plus cursor plus limit, execute, stream rows to a
// response.Builder, and compute the next page's cursor from the last
// row's keyset tuple. rowFilters/rowFilterArgs are the authorization
// row filters Authorize accumulated on top of bq's own Filters/Args.
func (e *Executor) ExecuteList(ctx context.Context, bq BoundQuery, rowFilters *privacy.RowFilterSet) ([]byte, PageInfo, error) {
	ct, ok := e.Schema.Lookup(bq.TypeName)
	if !ok || ct.BoundSource == nil {
		return nil, PageInfo{}, &fraiseql.ViewBindingMissingError{TypeName: bq.TypeName}
	}

	filters := append(append([]string(nil), bq.Filters...), rowFilters.Predicates...)
	args := append(append([]any(nil), bq.Args...), rowFilters.Args...)

	placeholderOffset := len(args)
	if bq.After != "" {
		cursorValues, err := DecodeCursor(bq.After, len(ct.KeysetColumns))
		if err != nil {
			return nil, PageInfo{}, err
		}
		args = append(args, cursorValues...)
	}

	limit := bq.First
	if limit <= 0 {
		limit = defaultPageSize
	}
	// fetch one extra row to determine hasNextPage without a second
	// round trip.
	args = append(args, limit+1)

	query := sqlgen.ListQuery(e.Dialect, ct.BoundSource.View, ct.BoundSource.JSONBColumn, ct.KeysetColumns, filters, placeholderOffset)

	ctx, span := observability.StartQuery(ctx, bq.TypeName, "list")
	rows, err := e.queryRows(ctx, query, args)
	observability.EndQuery(span, len(rows), err)
	if err != nil {
		return nil, PageInfo{}, err
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	shape := e.Shapes[bq.TypeName]
	b := response.New(bq.Field, rows)
	body, err := b.BuildList(bq.Field, rows, shape)
	if err != nil {
		return nil, PageInfo{}, err
	}

	var pageInfo PageInfo
	pageInfo.HasNextPage = hasNext
	if len(rows) > 0 {
		lastKeyset, err := extractKeysetTuple(rows[len(rows)-1], ct.KeysetColumns)
		if err == nil {
			cursor, err := EncodeCursor(lastKeyset)
			if err != nil {
				return nil, PageInfo{}, err
			}
			pageInfo.EndCursor = cursor
		}
	}

	return body, pageInfo, nil
}

// ExecuteSingle runs bq as a primary-key lookup (§4.F). A missing row
// is not an error: it renders the framed `null` response per §4.E.
func (e *Executor) ExecuteSingle(ctx context.Context, bq BoundQuery, rowFilters *privacy.RowFilterSet) ([]byte, error) {
	ct, ok := e.Schema.Lookup(bq.TypeName)
	if !ok || ct.BoundSource == nil {
		return nil, &fraiseql.ViewBindingMissingError{TypeName: bq.TypeName}
	}

	filters := append(append([]string(nil), bq.Filters...), rowFilters.Predicates...)
	args := append(append([]any(nil), bq.Args...), rowFilters.Args...)
	args = append(args, bq.PKValues...)

	query := sqlgen.SingleQuery(e.Dialect, ct.BoundSource.View, ct.BoundSource.JSONBColumn, ct.KeysetColumns, filters)

	ctx, span := observability.StartQuery(ctx, bq.TypeName, "single")
	rows, err := e.queryRows(ctx, query, args)
	observability.EndQuery(span, len(rows), err)
	if err != nil {
		return nil, err
	}

	var row []byte
	if len(rows) > 0 {
		row = rows[0]
	}

	shape := e.Shapes[bq.TypeName]
	b := response.New(bq.Field, rows)
	return b.BuildSingle(bq.Field, row, shape)
}

const defaultPageSize = 20

// queryRows binds args into query on e.Driver and drains the result
// set into a slice of raw JSON-text rows (the one column every
// generated template projects, per §3 RowBytes). A SQL-level failure is
// classified via dialect/sql/sqlgraph's constraint detection before
// being wrapped as fraiseql.SqlFailureError, matching §7.
func (e *Executor) queryRows(ctx context.Context, query string, args []any) ([][]byte, error) {
	if ctx.Err() != nil {
		return nil, &fraiseql.CancelledError{}
	}

	var rs sqldriver.Rows
	if err := e.Driver.Query(ctx, query, args, &rs); err != nil {
		if ctx.Err() != nil {
			return nil, &fraiseql.CancelledError{}
		}
		return nil, &fraiseql.SqlFailureError{Code_: classify(err), Wrap: err}
	}
	defer rs.Close()

	var out [][]byte
	for rs.Next() {
		var text []byte
		if err := rs.Scan(&text); err != nil {
			return nil, &fraiseql.SqlFailureError{Code_: "SQL_FAILURE", Wrap: err}
		}
		row := make([]byte, len(text))
		copy(row, text)
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, &fraiseql.SqlFailureError{Code_: classify(err), Wrap: err}
	}
	return out, nil
}

func classify(err error) string {
	switch {
	case sqlgraph.IsUniqueConstraintError(err):
		return "CONSTRAINT_UNIQUE"
	case sqlgraph.IsForeignKeyConstraintError(err):
		return "CONSTRAINT_FOREIGN_KEY"
	case sqlgraph.IsCheckConstraintError(err):
		return "CONSTRAINT_CHECK"
	default:
		return "SQL_FAILURE"
	}
}

// extractKeysetTuple reads the keyset columns' values back out of a
// row's raw JSON text, for computing the next page's cursor (§4.F step
// 6). It decodes the keyset keys with response.ExtractFields.
func extractKeysetTuple(row []byte, keysetColumns []string) ([]any, error) {
	values, err := response.ExtractFields(row, keysetColumns)
	if err != nil {
		return nil, err
	}
	tuple := make([]any, len(keysetColumns))
	for i, col := range keysetColumns {
		tuple[i] = values[col]
	}
	return tuple, nil
}

// WithDeadline derives a stage-scoped deadline from ctx, used to give
// pool acquisition, the DB query itself, and any peer HTTP call
// independent timeouts beneath the full-request deadline (§5).
func WithDeadline(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
