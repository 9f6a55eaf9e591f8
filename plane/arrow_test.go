package plane_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql/ir"
	"github.com/fraiseql/fraiseql/plane"
)

func orderWithItemsBatches(t *testing.T) []plane.ArrowRecordBatch {
	t.Helper()

	orderBatch := ir.ArrowBatch{
		Name: "order",
		Fields: []ir.ArrowField{
			{Name: "id", Type: ir.ArrowString},
			{Name: "customer_id", Type: ir.ArrowString},
			{Name: "total", Type: ir.ArrowDecimal128},
			{Name: "created_at", Type: ir.ArrowTimestampUTC},
		},
	}
	orderRows := [][]byte{
		[]byte(`{"id":"o1","customer_id":"c1","total":42.5,"created_at":"2026-01-01T00:00:00Z"}`),
	}
	orderRecord, err := plane.BuildArrowBatch(orderBatch, orderRows)
	require.NoError(t, err)

	itemBatch := ir.ArrowBatch{
		Name: "item",
		Fields: []ir.ArrowField{
			{Name: "id", Type: ir.ArrowString},
			{Name: "order_id", Type: ir.ArrowString, ForeignKey: "order.id"},
			{Name: "qty", Type: ir.ArrowInt64},
		},
	}
	itemRows := [][]byte{
		[]byte(`{"id":"i1","order_id":"o1","qty":2}`),
		[]byte(`{"id":"i2","order_id":"o1","qty":1}`),
		[]byte(`{"id":"i3","order_id":"o1","qty":5}`),
	}
	itemRecord, err := plane.BuildArrowBatch(itemBatch, itemRows)
	require.NoError(t, err)

	return []plane.ArrowRecordBatch{orderRecord, itemRecord}
}

func TestBuildArrowBatch_OrderWithItemsShapeAndRowCounts(t *testing.T) {
	batches := orderWithItemsBatches(t)
	require.Len(t, batches, 2)

	require.Equal(t, "order", batches[0].Name)
	require.Equal(t, 1, batches[0].NumRows)
	require.Equal(t, "o1", batches[0].Columns[0][0])
	require.InDelta(t, 42.5, batches[0].Columns[2][0], 0.0001)

	require.Equal(t, "item", batches[1].Name)
	require.Equal(t, 3, batches[1].NumRows)
	require.Equal(t, "order_id", batches[1].Schema[1].Name)
	require.Equal(t, "order.id", batches[1].Schema[1].ForeignKey)
}

func TestBuildArrowBatch_MissingNonNullableFieldErrors(t *testing.T) {
	batch := ir.ArrowBatch{
		Name: "order",
		Fields: []ir.ArrowField{
			{Name: "id", Type: ir.ArrowString, Nullable: false},
		},
	}
	rows := [][]byte{[]byte(`{"other":"x"}`)}

	_, err := plane.BuildArrowBatch(batch, rows)
	require.Error(t, err)
}

func TestBuildArrowBatch_AppliesMaskingStrategies(t *testing.T) {
	batch := ir.ArrowBatch{
		Name: "customer",
		Fields: []ir.ArrowField{
			{Name: "email", Type: ir.ArrowString, Masking: "redact"},
			{Name: "ssn", Type: ir.ArrowString, Masking: "hash"},
		},
	}
	rows := [][]byte{[]byte(`{"email":"a@example.com","ssn":"123-45-6789"}`)}

	record, err := plane.BuildArrowBatch(batch, rows)
	require.NoError(t, err)
	require.Equal(t, "***", record.Columns[0][0])
	require.NotEqual(t, "123-45-6789", record.Columns[1][0])
	require.Len(t, record.Columns[1][0], 64) // hex sha256
}

func TestEncodeDecodeArrowStream_RoundTrip(t *testing.T) {
	batches := orderWithItemsBatches(t)

	encoded, err := plane.EncodeArrowStream(batches)
	require.NoError(t, err)

	decoded, err := plane.DecodeArrowStream(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	require.Equal(t, "order", decoded[0].Name)
	require.Equal(t, 1, decoded[0].NumRows)
	require.Equal(t, "o1", decoded[0].Columns[0][0])
	require.InDelta(t, 42.5, decoded[0].Columns[2][0], 0.0001)
	ts, ok := decoded[0].Columns[3][0].(time.Time)
	require.True(t, ok)
	require.Equal(t, 2026, ts.Year())

	require.Equal(t, "item", decoded[1].Name)
	require.Equal(t, 3, decoded[1].NumRows)
	require.Equal(t, int64(2), decoded[1].Columns[2][0])
	require.Equal(t, "order.id", decoded[1].Schema[1].ForeignKey)
}

func TestEncodeArrowStream_EmptyBatchListRoundTrips(t *testing.T) {
	encoded, err := plane.EncodeArrowStream(nil)
	require.NoError(t, err)

	decoded, err := plane.DecodeArrowStream(encoded)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestDecodeArrowStream_RejectsBadMagic(t *testing.T) {
	_, err := plane.DecodeArrowStream([]byte("not an arrow stream at all"))
	require.Error(t, err)
}
