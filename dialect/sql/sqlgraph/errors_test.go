package sqlgraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql/dialect/sql/sqlgraph"
)

type fakeSQLState struct{ state string }

func (e fakeSQLState) Error() string    { return "db error" }
func (e fakeSQLState) SQLState() string { return e.state }

type fakeMySQLNumber struct{ number uint16 }

func (e fakeMySQLNumber) Error() string  { return "db error" }
func (e fakeMySQLNumber) Number() uint16 { return e.number }

func TestIsUniqueConstraintError_BySQLState(t *testing.T) {
	require.True(t, sqlgraph.IsUniqueConstraintError(fakeSQLState{state: "23505"}))
}

func TestIsUniqueConstraintError_ByMySQLNumber(t *testing.T) {
	require.True(t, sqlgraph.IsUniqueConstraintError(fakeMySQLNumber{number: 1062}))
}

func TestIsUniqueConstraintError_ByStringFallback(t *testing.T) {
	require.True(t, sqlgraph.IsUniqueConstraintError(errors.New("pq: duplicate key value violates unique constraint \"users_email_key\"")))
	require.True(t, sqlgraph.IsUniqueConstraintError(errors.New("UNIQUE constraint failed: users.email")))
}

func TestIsUniqueConstraintError_UnrelatedErrorIsFalse(t *testing.T) {
	require.False(t, sqlgraph.IsUniqueConstraintError(errors.New("connection refused")))
	require.False(t, sqlgraph.IsUniqueConstraintError(nil))
}

func TestIsForeignKeyConstraintError_BySQLState(t *testing.T) {
	require.True(t, sqlgraph.IsForeignKeyConstraintError(fakeSQLState{state: "23503"}))
}

func TestIsForeignKeyConstraintError_ByStringFallback(t *testing.T) {
	require.True(t, sqlgraph.IsForeignKeyConstraintError(errors.New("violates foreign key constraint \"fk_order_customer\"")))
	require.True(t, sqlgraph.IsForeignKeyConstraintError(errors.New("FOREIGN KEY constraint failed")))
}

func TestIsCheckConstraintError_BySQLState(t *testing.T) {
	require.True(t, sqlgraph.IsCheckConstraintError(fakeSQLState{state: "23514"}))
}

func TestIsCheckConstraintError_ByStringFallback(t *testing.T) {
	require.True(t, sqlgraph.IsCheckConstraintError(errors.New("new row violates check constraint \"positive_qty\"")))
}

func TestIsConstraintError_RecognizesWrappedConstraintError(t *testing.T) {
	wrapped := sqlgraph.NewConstraintError("qty must be positive", errors.New("underlying"))
	require.True(t, sqlgraph.IsConstraintError(wrapped))
}

func TestIsConstraintError_RecognizesAnyConstraintKind(t *testing.T) {
	require.True(t, sqlgraph.IsConstraintError(fakeSQLState{state: "23505"}))
	require.True(t, sqlgraph.IsConstraintError(fakeSQLState{state: "23503"}))
	require.True(t, sqlgraph.IsConstraintError(fakeSQLState{state: "23514"}))
	require.False(t, sqlgraph.IsConstraintError(errors.New("unrelated")))
}
