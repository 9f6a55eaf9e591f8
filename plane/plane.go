// Package plane implements the Projection Planes (§4.I): the three
// output shapes a request can be routed to by its Accept header (JSON,
// Arrow, Delta). executor.ResolvePlane picks which of these a request
// wants; this package owns turning an already-fetched result set into
// that plane's wire bytes. All three planes share the same type system,
// authorization filters, and pagination cursor format -- only the
// serialization at the very end differs.
package plane

import "github.com/fraiseql/fraiseql"

// Plane re-exports fraiseql.Plane so callers that only need the
// projection-plane surface don't have to import the root package just
// for this one type.
type Plane = fraiseql.Plane

const (
	JSON  = fraiseql.PlaneJSON
	Arrow = fraiseql.PlaneArrow
	Delta = fraiseql.PlaneDelta
)
