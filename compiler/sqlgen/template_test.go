package sqlgen_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler/sqlgen"
)

func TestListQuery_Postgres_SingleKeyset(t *testing.T) {
	t.Parallel()

	dialect, err := sqlgen.ForTarget(fraiseql.TargetPostgres)
	require.NoError(t, err)

	sql := sqlgen.ListQuery(dialect, "v_user", "data", []string{"id"}, nil, 0)
	assert.Equal(t, `SELECT "data" FROM "v_user" WHERE "id" > $1 ORDER BY "id" LIMIT $2`, sql)
}

func TestListQuery_MySQL_CompositeKeyset(t *testing.T) {
	t.Parallel()

	dialect, err := sqlgen.ForTarget(fraiseql.TargetMySQL)
	require.NoError(t, err)

	sql := sqlgen.ListQuery(dialect, "v_order", "data", []string{"tenant_id", "id"}, nil, 0)
	assert.Equal(t, "SELECT `data` FROM `v_order` WHERE (`tenant_id`, `id`) > (?, ?) ORDER BY `tenant_id`, `id` LIMIT ?", sql)
}

func TestEntitiesQuery_SingleKey(t *testing.T) {
	t.Parallel()

	dialect, err := sqlgen.ForTarget(fraiseql.TargetPostgres)
	require.NoError(t, err)

	sql := sqlgen.EntitiesQuery(dialect, "v_user", "data", []string{"id"}, 3)
	assert.Equal(t, `SELECT "data" FROM "v_user" WHERE "id" IN ($1, $2, $3)`, sql)
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	encoded, err := sqlgen.EncodeCursor([]any{"abc", float64(42)})
	require.NoError(t, err)
	decoded, err := sqlgen.DecodeCursor(encoded, 2)
	require.NoError(t, err)
	assert.Equal(t, []any{"abc", float64(42)}, decoded)

	_, err = sqlgen.DecodeCursor(encoded, 3)
	assert.Error(t, err)
}

func TestEncodeCursor_NonFiniteFloatReturnsError(t *testing.T) {
	t.Parallel()

	_, err := sqlgen.EncodeCursor([]any{math.NaN()})
	assert.Error(t, err)
}
