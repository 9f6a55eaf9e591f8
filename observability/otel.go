// Package observability implements Module J (§4.J): per-request tracing,
// per-span metrics, and a tamper-evident audit log. Traces are grounded
// on hanpama-protograph/internal/otel -- the only OpenTelemetry setup
// anywhere in the retrieved pack -- adapted from its eventbus-subscriber
// span lifecycle into direct Start/End calls, since this module has no
// eventbus package of its own to subscribe through.
package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// tracer is the package-level entry point every span helper below uses.
// Setup replaces it; until Setup is called it is otel's global no-op
// tracer, so instrumented code never needs a nil check.
var tracer = otel.Tracer("fraiseql")

// Setup configures the OTLP/gRPC trace exporter and installs it as the
// global tracer provider. An empty endpoint disables tracing entirely:
// Setup returns a no-op shutdown and leaves tracer as otel's no-op
// default.
func Setup(endpoint, target string) (func(context.Context) error, error) {
	if endpoint == "" {
		return noopShutdown, nil
	}

	exporter, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(tracerResource(target)),
	)
	otel.SetTracerProvider(provider)
	tracer = otel.Tracer("fraiseql")

	return provider.Shutdown, nil
}

func noopShutdown(context.Context) error { return nil }

// tracerResource describes this process in the OTLP resource attributes
// every span reports under: the fixed service name plus the compile
// target a given fraiseql process is serving (postgres/mysql/sqlite),
// so traces from multiple targets aren't conflated downstream.
func tracerResource(target string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("fraiseql"),
		attribute.String("fraiseql.target", target),
	)
}

// StartRequest opens the root span for one GraphQL request (§4.J: "per
// request, per query, per subgraph call" spans), tagging it with the
// operation name and kind a BoundQuery already carries.
func StartRequest(ctx context.Context, operationName, operationKind string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "graphql.request")
	span.SetAttributes(
		attribute.String("graphql.operation.name", operationName),
		attribute.String("graphql.operation.kind", operationKind),
	)
	return ctx, span
}

// EndRequest closes a request span, recording the resolved error count
// and any top-level failure.
func EndRequest(span trace.Span, errorCount int, err error) {
	span.SetAttributes(attribute.Int("graphql.error_count", errorCount))
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// StartQuery opens a span around one compiled SQL template execution
// (executor.ExecuteList/ExecuteSingle), the database-call child of the
// request span.
func StartQuery(ctx context.Context, typeName, templateKind string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "fraiseql.query")
	span.SetAttributes(
		attribute.String("fraiseql.type", typeName),
		attribute.String("fraiseql.template_kind", templateKind),
	)
	return ctx, span
}

// EndQuery closes a query span, recording the row count returned and
// any SQL-layer failure.
func EndQuery(span trace.Span, rowCount int, err error) {
	span.SetAttributes(attribute.Int("fraiseql.row_count", rowCount))
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}

// StartSubgraphCall opens a span around one outbound `_entities` HTTP
// subgraph call (federation.HttpSubgraphStrategy), propagating the W3C
// trace context onto the outbound request is the caller's
// responsibility (otel's otelhttp transport, or manual header
// injection via otel.GetTextMapPropagator()).
func StartSubgraphCall(ctx context.Context, peer, typename string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "fraiseql.subgraph_call")
	span.SetAttributes(
		attribute.String("fraiseql.federation.peer", peer),
		attribute.String("fraiseql.federation.typename", typename),
	)
	return ctx, span
}

// EndSubgraphCall closes a subgraph-call span.
func EndSubgraphCall(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
