package executor

import (
	"strings"

	"github.com/fraiseql/fraiseql"
)

// acceptPlanes maps an Accept header media type to the Plane it selects
// (§4.I). Unlisted media types (including a bare "*/*") fall back to
// PlaneJSON, the only plane guaranteed to exist for every schema.
var acceptPlanes = map[string]fraiseql.Plane{
	"application/json":               fraiseql.PlaneJSON,
	"application/graphql-response+json": fraiseql.PlaneJSON,
	"application/vnd.apache.arrow.stream": fraiseql.PlaneArrow,
	"application/x-ndjson+delta":     fraiseql.PlaneDelta,
}

// ResolvePlane parses an Accept header and returns the Plane it selects.
// A header listing multiple media types picks the first one this server
// recognizes, in the header's own preference order. An empty header, a
// bare "*/*", or a header naming no recognized media type selects
// PlaneJSON.
func ResolvePlane(accept string) (fraiseql.Plane, error) {
	if accept == "" {
		return fraiseql.PlaneJSON, nil
	}
	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if mediaType == "*/*" {
			return fraiseql.PlaneJSON, nil
		}
		if plane, ok := acceptPlanes[mediaType]; ok {
			return plane, nil
		}
	}
	return fraiseql.PlaneJSON, nil
}
