package federation_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql/compiler"
	"github.com/fraiseql/fraiseql/compiler/sqlgen"
	"github.com/fraiseql/fraiseql/dialect"
	sqldriver "github.com/fraiseql/fraiseql/dialect/sql"
	"github.com/fraiseql/fraiseql/federation"
	"github.com/fraiseql/fraiseql/ir"
)

func TestLocalStrategy_ResolveReordersToRepresentationOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	drv := sqldriver.OpenDB(dialect.Postgres, db)
	pgDialect, err := sqlgen.ForTarget("postgres")
	require.NoError(t, err)

	ct := &compiler.CompiledType{
		Name: "Product",
		BoundSource: &ir.BoundSource{
			View:              "v_product",
			JSONBColumn:       "data",
			PrimaryKeyColumns: []string{"id"},
		},
	}

	strat := &federation.LocalStrategy{Driver: drv, Dialect: pgDialect}

	// Rows return in reverse of request order -- the strategy must
	// restore representation order regardless of SQL's own ordering.
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"data"}).
			AddRow(`{"id":"2","name":"B"}`).
			AddRow(`{"id":"1","name":"A"}`),
	)

	reps := []federation.Representation{
		{Typename: "Product", Fields: map[string]any{"id": "1"}},
		{Typename: "Product", Fields: map[string]any{"id": "2"}},
	}

	rows, errs := federation.ResolveLocalForTest(context.Background(), strat, "Product", []string{"id"}, reps, ct)
	require.Len(t, rows, 2)
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.JSONEq(t, `{"id":"1","name":"A"}`, string(rows[0]))
	require.JSONEq(t, `{"id":"2","name":"B"}`, string(rows[1]))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalStrategy_NoViewBinding(t *testing.T) {
	strat := &federation.LocalStrategy{}
	reps := []federation.Representation{{Typename: "Product", Fields: map[string]any{"id": "1"}}}
	rows, errs := federation.ResolveLocalForTest(context.Background(), strat, "Product", []string{"id"}, reps, nil)
	require.Len(t, rows, 0)
	require.Error(t, errs[0])
}
