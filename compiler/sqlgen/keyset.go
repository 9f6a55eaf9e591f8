package sqlgen

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor is a keyset-pagination cursor: the ordered tuple of key column
// values identifying the last row of a page (§3). Cursors are opaque to
// clients -- EncodeCursor/DecodeCursor are the only supported way to
// produce or interpret one.
type Cursor struct {
	Values []any
}

// EncodeCursor serializes values as JSON and base64-encodes the result,
// producing the opaque string a list response's pageInfo.endCursor
// carries. values are ordinarily driver-scannable scalars (string/int64/
// float64/bool/time.Time formatted upstream), but a keyset column can
// still hold a non-finite float (NaN, +Inf) that json.Marshal rejects;
// that failure is returned rather than panicking the request (§7).
func EncodeCursor(values []any) (string, error) {
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("sqlgen: cursor values not json-encodable: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor reverses EncodeCursor. A malformed cursor (wrong base64,
// wrong JSON shape, wrong tuple arity) is a client protocol error, not a
// compiler error; callers surface it as fraiseql.MalformedQueryError.
func DecodeCursor(cursor string, expectedArity int) ([]any, error) {
	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, fmt.Errorf("sqlgen: invalid cursor encoding: %w", err)
	}
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("sqlgen: invalid cursor payload: %w", err)
	}
	if len(values) != expectedArity {
		return nil, fmt.Errorf("sqlgen: cursor has %d values, expected %d", len(values), expectedArity)
	}
	return values, nil
}
