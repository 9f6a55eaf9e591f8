package executor_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/executor"
)

func TestEncodeDecodeCursor_RoundTrip(t *testing.T) {
	values := []any{"u5", float64(5)}
	cursor, err := executor.EncodeCursor(values)
	require.NoError(t, err)
	require.NotEmpty(t, cursor)

	decoded, err := executor.DecodeCursor(cursor, len(values))
	require.NoError(t, err)
	require.Equal(t, values, decoded)
}

func TestEncodeCursor_NonFiniteFloatReturnsCursorEncodeError(t *testing.T) {
	_, err := executor.EncodeCursor([]any{math.NaN()})
	require.Error(t, err)

	var encodeErr *fraiseql.CursorEncodeError
	require.ErrorAs(t, err, &encodeErr)
}

func TestDecodeCursor_WrongArityIsMalformedQueryError(t *testing.T) {
	cursor, err := executor.EncodeCursor([]any{"u5"})
	require.NoError(t, err)

	_, err = executor.DecodeCursor(cursor, 2)
	require.Error(t, err)

	var malformed *fraiseql.MalformedQueryError
	require.ErrorAs(t, err, &malformed)
}

func TestDecodeCursor_InvalidEncodingIsMalformedQueryError(t *testing.T) {
	_, err := executor.DecodeCursor("not-valid-base64!!!", 1)
	require.Error(t, err)

	var malformed *fraiseql.MalformedQueryError
	require.ErrorAs(t, err, &malformed)
}

func TestDecodeCursor_ValidBase64ButInvalidJSONIsMalformedQueryError(t *testing.T) {
	// "bm90anNvbg==" base64-decodes to the plain ASCII "notjson", which is
	// not a valid JSON array payload.
	_, err := executor.DecodeCursor("bm90anNvbg==", 1)
	require.Error(t, err)

	var malformed *fraiseql.MalformedQueryError
	require.ErrorAs(t, err, &malformed)
}
