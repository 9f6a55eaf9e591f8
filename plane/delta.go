package plane

import (
	"context"
	"fmt"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler/sqlgen"
	sqldriver "github.com/fraiseql/fraiseql/dialect/sql"
)

// changeLogTable is the durable event buffer every Delta-plane
// subscription reads from (§3, §6: "tb_entity_change_log: Delta-plane
// event buffer with monotonic sequence_number").
const changeLogTable = "tb_entity_change_log"

// ChangeEvent is one Debezium-shaped CDC record (§4.I: "op ∈ {c,r,u,d},
// before, after, source.table, ts_ms, sequence_number"). Op/Before/After
// are carried as already-rendered JSON text, consistent with this
// module's RowBytes discipline elsewhere -- the Delta plane never
// decodes a row it is only forwarding.
type ChangeEvent struct {
	Op             string // "c" create, "r" read/snapshot, "u" update, "d" delete
	Before         []byte // raw JSON, nil for "c"
	After          []byte // raw JSON, nil for "d"
	Source         ChangeSource
	TsMs           int64
	SequenceNumber int64
}

// ChangeSource names the origin table/typename of a ChangeEvent.
type ChangeSource struct {
	Table string
}

// FetchChangeEvents runs a subscription's compile-time WHERE predicates
// (plus the caller-supplied tenant predicate, when set) against
// tb_entity_change_log and returns events strictly ordered by
// sequence_number (§5: "Delta plane... event sequence numbers are
// strictly monotonic per tenant"). afterSequence is exclusive: pass the
// last sequence_number a subscriber has already delivered, or 0 for the
// start of the stream.
func FetchChangeEvents(ctx context.Context, driver *sqldriver.Driver, d sqlgen.Dialect, typeName string, filters []string, args []any, afterSequence int64, limit int) ([]ChangeEvent, error) {
	if ctx.Err() != nil {
		return nil, &fraiseql.CancelledError{}
	}

	allArgs := append(append([]any(nil), args...), typeName, afterSequence)
	query, allArgs := buildChangeLogQuery(d, filters, allArgs, limit)

	var rs sqldriver.Rows
	if err := driver.Query(ctx, query, allArgs, &rs); err != nil {
		if ctx.Err() != nil {
			return nil, &fraiseql.CancelledError{}
		}
		return nil, &fraiseql.SqlFailureError{Code_: "SQL_FAILURE", Wrap: err}
	}
	defer rs.Close()

	var events []ChangeEvent
	for rs.Next() {
		var (
			op                   string
			before, after        []byte
			sourceTable          string
			tsMs, sequenceNumber int64
		)
		if err := rs.Scan(&op, &before, &after, &sourceTable, &tsMs, &sequenceNumber); err != nil {
			return nil, &fraiseql.SqlFailureError{Code_: "SQL_FAILURE", Wrap: err}
		}
		events = append(events, ChangeEvent{
			Op:             op,
			Before:         cloneBytes(before),
			After:          cloneBytes(after),
			Source:         ChangeSource{Table: sourceTable},
			TsMs:           tsMs,
			SequenceNumber: sequenceNumber,
		})
	}
	if err := rs.Err(); err != nil {
		return nil, &fraiseql.SqlFailureError{Code_: "SQL_FAILURE", Wrap: err}
	}
	return events, nil
}

// buildChangeLogQuery assembles the change-log SELECT the same way
// executor/executor.go assembles its list/single templates: dialect
// quoting and placeholders, caller filters first, then the fixed
// typename/after-sequence/limit tail this function owns. args must
// already end with (typeName, afterSequence); buildChangeLogQuery
// appends the limit value itself and returns the final argument slice
// alongside the query text.
func buildChangeLogQuery(d sqlgen.Dialect, filters []string, args []any, limit int) (string, []any) {
	table := d.QuoteIdentifier(changeLogTable)
	typeCol := d.QuoteIdentifier("entity_typename")
	seqCol := d.QuoteIdentifier("sequence_number")

	placeholder := len(args) - 1 // index of typeName's placeholder (1-based below)
	query := fmt.Sprintf("SELECT op, before, after, source_table, ts_ms, sequence_number FROM %s WHERE %s = %s",
		table, typeCol, d.Placeholder(placeholder))

	for _, f := range filters {
		query += " AND " + f
	}

	seqPlaceholder := len(args) // after the typename arg
	query += fmt.Sprintf(" AND %s > %s", seqCol, d.Placeholder(seqPlaceholder))
	query += fmt.Sprintf(" ORDER BY %s ASC", seqCol)

	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT %s", d.Placeholder(len(args)))

	return query, args
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
