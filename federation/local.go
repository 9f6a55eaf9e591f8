package federation

import (
	"context"
	"fmt"
	"strings"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler"
	"github.com/fraiseql/fraiseql/compiler/sqlgen"
	"github.com/fraiseql/fraiseql/contrib/dataloader"
	sqldriver "github.com/fraiseql/fraiseql/dialect/sql"
	"github.com/fraiseql/fraiseql/response"
)

// LocalStrategy resolves `_entities` against a local view with a single
// batched query: compiler/sqlgen.EntitiesQuery's IN (...) / tuple-IN
// predicate, reordered back to representation order since SQL gives no
// ordering guarantee for an IN list (§4.G step 2 "Local"). The
// reordering itself adapts contrib/dataloader.OrderByKeys, the same
// key-ordering primitive batched field resolution uses, generalized
// here to federation batches.
type LocalStrategy struct {
	Schema  *compiler.CompiledSchema
	Driver  *sqldriver.Driver
	Dialect sqlgen.Dialect
}

var _ Strategy = (*LocalStrategy)(nil)
var _ strategyFor = (*LocalStrategy)(nil)

func (s *LocalStrategy) StrategyKind() fraiseql.ResolutionStrategyKind { return fraiseql.StrategyLocal }

// Resolve runs the batched lookup for typename against reps, keyed by
// keyFields, and returns rows in reps' own order.
func (s *LocalStrategy) Resolve(ctx context.Context, typename string, keyFields []string, reps []Representation) ([][]byte, []error) {
	var ct *compiler.CompiledType
	if s.Schema != nil {
		ct, _ = s.Schema.Lookup(typename)
	}
	return resolveViaQuery(ctx, s.Driver, s.Dialect, typename, keyFields, reps, ct)
}

// resolveViaQuery is shared by LocalStrategy and PeerDatabaseStrategy:
// both run the identical compiled `_entities` SQL template, only the
// connection differs (§4.G step 2: "No HTTP hop" for PeerDatabase).
// ct supplies the view and jsonb column to query; a nil ct, or one
// without a BoundSource, fails every representation with
// EntityNotResolvableError.
func resolveViaQuery(ctx context.Context, driver *sqldriver.Driver, dialect sqlgen.Dialect, typename string, keyFields []string, reps []Representation, ct *compiler.CompiledType) ([][]byte, []error) {
	if ct == nil || ct.BoundSource == nil {
		return nil, uniformError(len(reps), &fraiseql.EntityNotResolvableError{
			Typename: typename,
			Wrap:     fmt.Errorf("federation: %s has no local view binding", typename),
		})
	}

	query := sqlgen.EntitiesQuery(dialect, ct.BoundSource.View, ct.BoundSource.JSONBColumn, keyFields, len(reps))

	args := make([]any, 0, len(reps)*len(keyFields))
	keys := make([]string, len(reps))
	for i, rep := range reps {
		tuple := rep.KeyTuple(keyFields)
		args = append(args, tuple...)
		keys[i] = compositeKey(tuple)
	}

	var rs sqldriver.Rows
	if err := driver.Query(ctx, query, args, &rs); err != nil {
		return nil, uniformError(len(reps), &fraiseql.EntityNotResolvableError{Typename: typename, Wrap: err})
	}
	defer rs.Close()

	type row struct {
		key  string
		text []byte
	}
	var fetched []row
	for rs.Next() {
		var text []byte
		if err := rs.Scan(&text); err != nil {
			return nil, uniformError(len(reps), &fraiseql.EntityNotResolvableError{Typename: typename, Wrap: err})
		}
		cp := make([]byte, len(text))
		copy(cp, text)
		fetched = append(fetched, row{text: cp})
	}

	// The batched query returns jsonb::text rows with no key column of
	// their own to match back against -- extraction below re-derives
	// each fetched row's key tuple from its own JSON text so
	// OrderByKeys can place it at the right representation index.
	fetchedKeyed := make([]row, 0, len(fetched))
	for _, r := range fetched {
		values, err := extractKeyTuple(r.text, keyFields)
		if err != nil {
			continue
		}
		fetchedKeyed = append(fetchedKeyed, row{key: compositeKey(values), text: r.text})
	}

	ordered, errs := dataloader.OrderByKeys(keys, fetchedKeyed, func(r row) string { return r.key })
	rows := make([][]byte, len(ordered))
	outErrs := make([]error, len(ordered))
	for i, r := range ordered {
		if errs[i] != nil {
			outErrs[i] = &fraiseql.EntityNotResolvableError{Typename: typename, Index: i, Wrap: errs[i]}
			continue
		}
		rows[i] = r.text
	}
	return rows, outErrs
}

// extractKeyTuple reads keyFields' values back out of a fetched row's
// raw JSON text, since the batched query's single jsonb column carries
// no separate key columns to match rows back to representations by.
func extractKeyTuple(row []byte, keyFields []string) ([]any, error) {
	values, err := response.ExtractFields(row, keyFields)
	if err != nil {
		return nil, err
	}
	tuple := make([]any, len(keyFields))
	for i, f := range keyFields {
		tuple[i] = values[f]
	}
	return tuple, nil
}

func compositeKey(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, "\x1f")
}

func uniformError(n int, err error) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = err
	}
	return errs
}
