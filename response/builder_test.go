package response_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/response"
)

func userShape() *response.RowShape {
	return response.NewRowShape("User").
		Bind("id", "id", nil).
		Bind("first_name", "firstName", nil).
		Bind("last_name", "lastName", nil)
}

// TestBuilder_BuildList_S1 reproduces spec.md §8 scenario S1: a
// two-row User list query against fixture snake_case rows.
func TestBuilder_BuildList_S1(t *testing.T) {
	t.Parallel()

	rows := [][]byte{
		[]byte(`{"id":"u1","first_name":"Alice"}`),
		[]byte(`{"id":"u2","first_name":"Bob"}`),
	}
	b := response.New("users", rows)
	out, err := b.BuildList("users", rows, userShape())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"data":{"users":[`+
			`{"__typename":"User","id":"u1","firstName":"Alice"},`+
			`{"__typename":"User","id":"u2","firstName":"Bob"}`+
			`]}}`,
		string(out))
}

func TestBuilder_BuildList_NilShapePassthrough(t *testing.T) {
	t.Parallel()

	rows := [][]byte{
		[]byte(`{"id":"1","email":"a@example.com"}`),
	}
	b := response.New("raw", rows)
	out, err := b.BuildList("raw", rows, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"raw":[{"id":"1","email":"a@example.com"}]}}`, string(out))
}

func TestBuilder_BuildList_Empty(t *testing.T) {
	t.Parallel()

	b := response.New("users", nil)
	out, err := b.BuildList("users", nil, userShape())
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"users":[]}}`, string(out))
}

func TestBuilder_BuildSingle_Null(t *testing.T) {
	t.Parallel()

	b := response.New("user", nil)
	out, err := b.BuildSingle("user", nil, userShape())
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"user":null}}`, string(out))
}

func TestBuilder_BuildSingle_Typed(t *testing.T) {
	t.Parallel()

	row := []byte(`{"id":"u1","last_name":"Smith"}`)
	b := response.New("user", nil)
	out, err := b.BuildSingle("user", row, userShape())
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"user":{"__typename":"User","id":"u1","lastName":"Smith"}}}`, string(out))
}

func TestBuilder_BuildList_InvalidUTF8(t *testing.T) {
	t.Parallel()

	rows := [][]byte{{0xff, 0xfe, 0xfd}}
	b := response.New("users", rows)
	_, err := b.BuildList("users", rows, userShape())
	require.Error(t, err)
	var decodeErr *fraiseql.RowDecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 0, decodeErr.RowIndex)
}

func TestBuilder_BuildList_NestedObject(t *testing.T) {
	t.Parallel()

	orgShape := response.NewRowShape("Organization").Bind("org_name", "orgName", nil)
	shape := response.NewRowShape("User").
		Bind("id", "id", nil).
		Bind("home_org", "homeOrg", orgShape)

	rows := [][]byte{
		[]byte(`{"id":"u1","home_org":{"org_name":"Acme"}}`),
	}
	b := response.New("users", rows)
	out, err := b.BuildList("users", rows, shape)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"data":{"users":[{"__typename":"User","id":"u1","homeOrg":{"__typename":"Organization","orgName":"Acme"}}]}}`,
		string(out))
}

func TestBuilder_BuildList_NestedArray(t *testing.T) {
	t.Parallel()

	itemShape := response.NewRowShape("OrderItem").Bind("sku_code", "skuCode", nil)
	shape := response.NewRowShape("Order").
		Bind("id", "id", nil).
		Bind("order_items", "orderItems", itemShape)

	rows := [][]byte{
		[]byte(`{"id":"o1","order_items":[{"sku_code":"A"},{"sku_code":"B"}]}`),
	}
	b := response.New("orders", rows)
	out, err := b.BuildList("orders", rows, shape)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"data":{"orders":[{"__typename":"Order","id":"o1","orderItems":[`+
			`{"__typename":"OrderItem","skuCode":"A"},{"__typename":"OrderItem","skuCode":"B"}`+
			`]}]}}`,
		string(out))
}

func TestSnakeToCamel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "createdAt", response.SnakeToCamel("created_at"))
	assert.Equal(t, "id", response.SnakeToCamel("id"))
	assert.Equal(t, "orderItemSku", response.SnakeToCamel("order_item_sku"))
}
