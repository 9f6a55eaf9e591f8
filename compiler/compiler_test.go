package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler"
	"github.com/fraiseql/fraiseql/ir"
)

func userSchema() *ir.Schema {
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
				Federation: &ir.DocumentFederation{Keys: [][]string{{"id"}}},
			},
		},
		Query: []ir.DocumentOperation{
			{Name: "users", ReturnType: "User", IsList: true, BoundType: "User", Kind: "list"},
			{Name: "user", ReturnType: "User", BoundType: "User", Kind: "single"},
		},
	}
	schema, err := ir.Build(doc)
	if err != nil {
		panic(err)
	}
	return schema
}

func TestCompile_DeterministicHash(t *testing.T) {
	t.Parallel()

	a, err := compiler.Compile(userSchema(), fraiseql.TargetPostgres)
	require.NoError(t, err)

	b, err := compiler.Compile(userSchema(), fraiseql.TargetPostgres)
	require.NoError(t, err)

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEmpty(t, a.Hash)

	userType, ok := a.Lookup("User")
	require.True(t, ok)
	assert.Contains(t, userType.Where, "email")
	assert.Equal(t, []string{"id"}, userType.KeysetColumns)
	require.Len(t, a.Entities, 1)
	assert.Equal(t, "User", a.Entities[0].Typename)
}

func TestCompile_UnsupportedOperatorFailsOnMySQL(t *testing.T) {
	t.Parallel()

	doc := &ir.Document{
		Types: []ir.DocumentType{
			{
				Name:        "Item",
				View:        "v_item",
				JSONBColumn: "data",
				PrimaryKey:  []string{"id"},
				Fields: []ir.DocumentField{
					{Name: "id", Semantic: "string", Filterable: true},
					{Name: "tags", Semantic: "network", Filterable: true},
				},
			},
		},
	}
	schema, err := ir.Build(doc)
	require.NoError(t, err)

	_, err = compiler.Compile(schema, fraiseql.TargetMySQL)
	require.Error(t, err)
	assert.True(t, fraiseql.IsUnsupportedOperator(err))
}

func TestCompile_UnsupportedOperatorRejectsSingleOperatorNotWholeFamily(t *testing.T) {
	t.Parallel()

	doc := &ir.Document{
		Types: []ir.DocumentType{
			{
				Name:        "Contact",
				View:        "v_contact",
				JSONBColumn: "data",
				PrimaryKey:  []string{"id"},
				Fields: []ir.DocumentField{
					{Name: "id", Semantic: "string", Filterable: true},
					{Name: "email", Semantic: "string", Filterable: true, Operators: []string{"_regex"}},
				},
			},
		},
	}
	schema, err := ir.Build(doc)
	require.NoError(t, err)

	_, err = compiler.Compile(schema, fraiseql.TargetMySQL)
	require.Error(t, err)
	require.True(t, fraiseql.IsUnsupportedOperator(err))

	var unsupported *fraiseql.UnsupportedOperatorError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "mysql", unsupported.Target)
	assert.Equal(t, "string", unsupported.ScalarFamily)
	assert.Equal(t, "_regex", unsupported.Operator)

	// MySQL's string family supports _eq/_neq/_like (among others) but
	// never _regex (§8 S2): the field's family isn't empty on this
	// manifest, so only the single requested operator is rejected.
	assert.Contains(t, unsupported.Suggestions, "_eq")
	assert.Contains(t, unsupported.Suggestions, "_neq")
	assert.Contains(t, unsupported.Suggestions, "_like")
	assert.NotContains(t, unsupported.Suggestions, "_regex")
}

func TestCompile_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	compiled, err := compiler.Compile(userSchema(), fraiseql.TargetPostgres)
	require.NoError(t, err)

	data, err := compiler.Marshal(compiled)
	require.NoError(t, err)

	decoded, err := compiler.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, compiled.Hash, decoded.Hash)
}
