package plane_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql/compiler/sqlgen"
	"github.com/fraiseql/fraiseql/dialect"
	sqldriver "github.com/fraiseql/fraiseql/dialect/sql"
	"github.com/fraiseql/fraiseql/plane"
)

func TestFetchChangeEvents_OrdersAndDecodesByOp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	drv := sqldriver.OpenDB(dialect.Postgres, db)
	pgDialect, err := sqlgen.ForTarget("postgres")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT op, before, after, source_table, ts_ms, sequence_number").
		WillReturnRows(sqlmock.NewRows([]string{"op", "before", "after", "source_table", "ts_ms", "sequence_number"}).
			AddRow("u", []byte(`{"id":"o1","status":"pending"}`), []byte(`{"id":"o1","status":"shipped"}`), "tb_order", int64(1000), int64(41)).
			AddRow("c", nil, []byte(`{"id":"o2","status":"pending"}`), "tb_order", int64(1001), int64(42)))

	events, err := plane.FetchChangeEvents(context.Background(), drv, pgDialect, "Order", nil, nil, 40, 10)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, events, 2)

	require.Equal(t, "u", events[0].Op)
	require.JSONEq(t, `{"id":"o1","status":"pending"}`, string(events[0].Before))
	require.JSONEq(t, `{"id":"o1","status":"shipped"}`, string(events[0].After))
	require.Equal(t, "tb_order", events[0].Source.Table)
	require.Equal(t, int64(41), events[0].SequenceNumber)

	require.Equal(t, "c", events[1].Op)
	require.Nil(t, events[1].Before)
	require.Equal(t, int64(42), events[1].SequenceNumber)
}

func TestFetchChangeEvents_CancelledContextShortCircuits(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	drv := sqldriver.OpenDB(dialect.Postgres, db)
	pgDialect, err := sqlgen.ForTarget("postgres")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = plane.FetchChangeEvents(ctx, drv, pgDialect, "Order", nil, nil, 0, 10)
	require.Error(t, err)
}

func TestFetchChangeEvents_EmptyResultIsEmptySlice(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	drv := sqldriver.OpenDB(dialect.Postgres, db)
	pgDialect, err := sqlgen.ForTarget("postgres")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT op, before, after, source_table, ts_ms, sequence_number").
		WillReturnRows(sqlmock.NewRows([]string{"op", "before", "after", "source_table", "ts_ms", "sequence_number"}))

	events, err := plane.FetchChangeEvents(context.Background(), drv, pgDialect, "Order", nil, nil, 0, 10)
	require.NoError(t, err)
	require.Empty(t, events)
}
