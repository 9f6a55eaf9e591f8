package executor

import (
	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler/sqlgen"
)

// PageInfo is the GraphQL pageInfo object attached to a list response's
// extensions by the caller's HTTP layer (out of scope here; the
// executor only computes the values).
type PageInfo struct {
	EndCursor   string
	HasNextPage bool
}

// EncodeCursor renders the opaque keyset cursor for the last row of a
// page, given the ordered keyset column values for that row (§3, §4.F
// step 6). Thin wrapper so callers outside compiler/sqlgen never import
// it just to reach this one function. A non-finite float column (NaN,
// +Inf) fails JSON encoding; that surfaces as a CursorEncodeError rather
// than panicking the request (§7).
func EncodeCursor(values []any) (string, error) {
	cursor, err := sqlgen.EncodeCursor(values)
	if err != nil {
		return "", &fraiseql.CursorEncodeError{Cause: err}
	}
	return cursor, nil
}

// DecodeCursor reverses EncodeCursor for an incoming `after` argument,
// validating its arity against the type's keyset column count. A
// malformed cursor is a client protocol error (§7).
func DecodeCursor(cursor string, expectedArity int) ([]any, error) {
	values, err := sqlgen.DecodeCursor(cursor, expectedArity)
	if err != nil {
		return nil, &fraiseql.MalformedQueryError{Reason: err.Error()}
	}
	return values, nil
}
