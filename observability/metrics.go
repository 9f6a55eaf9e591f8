package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meter is obtained from whatever global MeterProvider is installed.
// Setup only installs a TracerProvider (§4.J's per-span metrics are
// derived from span attributes, not a separate metrics pipeline in the
// teacher's own stack); code that wants a real metric exporter installs
// a MeterProvider via otel.SetMeterProvider before these instruments are
// first used. Until then every instrument below is otel's no-op
// implementation, so recording a metric is always safe.
var meter = otel.Meter("fraiseql")

// Metrics holds the per-span counters and histograms Module J emits
// (§4.J: "per-span metrics"). One Metrics value is created per process;
// its instruments are safe for concurrent use across requests.
type Metrics struct {
	requestCount   metric.Int64Counter
	requestErrors  metric.Int64Counter
	queryDuration  metric.Float64Histogram
	rowsReturned   metric.Int64Counter
	apqHits        metric.Int64Counter
	apqMisses      metric.Int64Counter
	subgraphErrors metric.Int64Counter
}

// NewMetrics creates every instrument Module J needs, failing fast if
// the installed MeterProvider rejects an instrument definition (a
// configuration bug, not a runtime condition).
func NewMetrics() (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.requestCount, err = meter.Int64Counter("fraiseql.request.count"); err != nil {
		return nil, err
	}
	if m.requestErrors, err = meter.Int64Counter("fraiseql.request.errors"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = meter.Float64Histogram("fraiseql.query.duration_ms"); err != nil {
		return nil, err
	}
	if m.rowsReturned, err = meter.Int64Counter("fraiseql.query.rows"); err != nil {
		return nil, err
	}
	if m.apqHits, err = meter.Int64Counter("fraiseql.apq.hits"); err != nil {
		return nil, err
	}
	if m.apqMisses, err = meter.Int64Counter("fraiseql.apq.misses"); err != nil {
		return nil, err
	}
	if m.subgraphErrors, err = meter.Int64Counter("fraiseql.subgraph.errors"); err != nil {
		return nil, err
	}
	return &m, nil
}

// RecordRequest increments the request counter and, when err is
// non-nil, the error counter.
func (m *Metrics) RecordRequest(ctx context.Context, err error) {
	m.requestCount.Add(ctx, 1)
	if err != nil {
		m.requestErrors.Add(ctx, 1)
	}
}

// RecordQuery records one SQL template execution's latency and row
// count.
func (m *Metrics) RecordQuery(ctx context.Context, durationMs float64, rows int) {
	m.queryDuration.Record(ctx, durationMs)
	m.rowsReturned.Add(ctx, int64(rows))
}

// RecordAPQLookup records whether an Automatic Persisted Query hash
// resolved against the cache.
func (m *Metrics) RecordAPQLookup(ctx context.Context, hit bool) {
	if hit {
		m.apqHits.Add(ctx, 1)
		return
	}
	m.apqMisses.Add(ctx, 1)
}

// RecordSubgraphError records one failed `_entities` HTTP subgraph
// call.
func (m *Metrics) RecordSubgraphError(ctx context.Context) {
	m.subgraphErrors.Add(ctx, 1)
}
