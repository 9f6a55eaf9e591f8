package executor

import (
	"context"
	"errors"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/privacy"
)

// Authorize installs a fresh privacy.RowFilterSet on ctx and evaluates
// policy against op (§4.F step 3). A Deny decision returns
// fraiseql.PermissionDeniedError; Allow or an exhausted chain (implicit
// Allow, per privacy.Policy.Eval) returns the populated RowFilterSet for
// the caller to bind into the compiled WHERE clause alongside the
// operation's own filters.
func Authorize(ctx context.Context, policy privacy.Policy, op privacy.Operation) (context.Context, *privacy.RowFilterSet, error) {
	set := &privacy.RowFilterSet{}
	ctx = privacy.WithRowFilters(ctx, set)
	if err := policy.Eval(ctx, op); err != nil && errors.Is(err, privacy.Deny) {
		return ctx, nil, &fraiseql.PermissionDeniedError{
			Path: []any{op.FieldName},
			Rule: err.Error(),
		}
	}
	return ctx, set, nil
}
