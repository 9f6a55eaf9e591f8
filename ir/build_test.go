package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/ir"
)

func TestBuild_LocalBoundType(t *testing.T) {
	t.Parallel()

	doc := &ir.Document{
		Types: []ir.DocumentType{
			{
				Name:        "User",
				View:        "v_user",
				JSONBColumn: "data",
				PrimaryKey:  []string{"id"},
				Fields: []ir.DocumentField{
					{Name: "id", Semantic: "string", GraphQLType: "ID", Filterable: true},
					{Name: "email", Semantic: "string", GraphQLType: "String", Filterable: true},
				},
			},
		},
		Query: []ir.DocumentOperation{
			{Name: "users", ReturnType: "User", IsList: true, BoundType: "User", Kind: "list"},
		},
	}

	schema, err := ir.Build(doc)
	require.NoError(t, err)

	user, ok := schema.Lookup("User")
	require.True(t, ok)
	assert.Equal(t, "v_user", user.BoundSource.View)
	assert.Equal(t, fraiseql.ScalarString, user.Fields[1].Semantic)

	require.NoError(t, ir.Validate(schema))
}

func TestBuild_UnknownSemanticFamily(t *testing.T) {
	t.Parallel()

	doc := &ir.Document{
		Types: []ir.DocumentType{
			{
				Name: "User",
				View: "v_user",
				Fields: []ir.DocumentField{
					{Name: "weird", Semantic: "bitmask"},
				},
			},
		},
	}

	_, err := ir.Build(doc)
	require.Error(t, err)
}

func TestValidate_MissingBinding(t *testing.T) {
	t.Parallel()

	doc := &ir.Document{
		Types: []ir.DocumentType{
			{Name: "Orphan", Fields: []ir.DocumentField{{Name: "id", Semantic: "string"}}},
		},
	}

	schema, err := ir.Build(doc)
	require.NoError(t, err)

	err = ir.Validate(schema)
	require.Error(t, err)
	var missing *fraiseql.ViewBindingMissingError
	require.ErrorAs(t, err, &missing)
}

func TestValidate_FederationKeyMustExistAsField(t *testing.T) {
	t.Parallel()

	doc := &ir.Document{
		Types: []ir.DocumentType{
			{
				Name: "Product",
				View: "v_product",
				Fields: []ir.DocumentField{
					{Name: "sku", Semantic: "string"},
				},
				Federation: &ir.DocumentFederation{
					Keys: [][]string{{"upc"}},
				},
			},
		},
	}

	schema, err := ir.Build(doc)
	require.NoError(t, err)

	err = ir.Validate(schema)
	require.Error(t, err)
	var invalid *fraiseql.InvalidFederationError
	require.ErrorAs(t, err, &invalid)
}

func TestValidate_ArrowForeignKeyMustBeNonNullable(t *testing.T) {
	t.Parallel()

	doc := &ir.Document{
		Types: []ir.DocumentType{
			{
				Name: "Order",
				View: "v_order",
				Fields: []ir.DocumentField{
					{Name: "id", Semantic: "string"},
				},
				Arrow: []ir.DocumentArrowBatch{
					{
						Name: "orders",
						Fields: []ir.DocumentArrowField{
							{Name: "id", Type: "string", Nullable: true},
						},
					},
					{
						Name: "order_items",
						Fields: []ir.DocumentArrowField{
							{Name: "order_id", Type: "string", ForeignKey: "orders.id"},
						},
					},
				},
			},
		},
	}

	schema, err := ir.Build(doc)
	require.NoError(t, err)

	err = ir.Validate(schema)
	require.Error(t, err)
	var unrepresentable *fraiseql.UnrepresentableArrowTypeError
	require.ErrorAs(t, err, &unrepresentable)
}
