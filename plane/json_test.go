package plane_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql/plane"
	"github.com/fraiseql/fraiseql/response"
)

func userShape() *response.RowShape {
	return response.NewRowShape("User").
		Bind("id", "id", nil).
		Bind("first_name", "firstName", nil)
}

func TestRenderList_TransformsRowsIntoJSONEnvelope(t *testing.T) {
	rows := [][]byte{
		[]byte(`{"id":"u1","first_name":"Alice"}`),
		[]byte(`{"id":"u2","first_name":"Bob"}`),
	}

	out, err := plane.RenderList("users", rows, userShape())
	require.NoError(t, err)
	require.JSONEq(t,
		`{"data":{"users":[{"__typename":"User","id":"u1","firstName":"Alice"},{"__typename":"User","id":"u2","firstName":"Bob"}]}}`,
		string(out))
}

func TestRenderList_EmptyRowsProducesFramedEmptyArray(t *testing.T) {
	out, err := plane.RenderList("users", nil, userShape())
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"users":[]}}`, string(out))
}

func TestRenderSingle_NilRowProducesFramedNull(t *testing.T) {
	out, err := plane.RenderSingle("user", nil, userShape())
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"user":null}}`, string(out))
}

func TestRenderSingle_RendersSingleObject(t *testing.T) {
	out, err := plane.RenderSingle("user", []byte(`{"id":"u1","first_name":"Alice"}`), userShape())
	require.NoError(t, err)
	require.JSONEq(t, `{"data":{"user":{"__typename":"User","id":"u1","firstName":"Alice"}}}`, string(out))
}
