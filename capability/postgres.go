package capability

import "github.com/fraiseql/fraiseql"

var postgresManifest *Manifest

// Postgres returns the CapabilityManifest for the "postgres" target.
// PostgreSQL exposes the richest operator surface in the pack: native
// ILIKE, POSIX regex (~), jsonb containment (@>) and key existence (?),
// and inet/cidr subnet containment (<<=).
func Postgres() *Manifest {
	if postgresManifest != nil {
		return postgresManifest
	}
	render := renderTemplates(dollarPlaceholder)
	postgresManifest = NewManifest(fraiseql.TargetPostgres, map[fraiseql.ScalarFamily][]OperatorSpec{
		fraiseql.ScalarString: append(
			equality(fraiseql.ScalarString, render),
			stringMatching(fraiseql.ScalarString, true, render)...,
		),
		fraiseql.ScalarNumeric: append(
			equality(fraiseql.ScalarNumeric, render),
			ordering(fraiseql.ScalarNumeric, render)...,
		),
		fraiseql.ScalarBoolean: equality(fraiseql.ScalarBoolean, render),
		fraiseql.ScalarTemporal: append(
			equality(fraiseql.ScalarTemporal, render),
			ordering(fraiseql.ScalarTemporal, render)...,
		),
		fraiseql.ScalarJSONB: append(
			equality(fraiseql.ScalarJSONB, render),
			jsonbOperators(render)...,
		),
		fraiseql.ScalarNetwork: append(
			equality(fraiseql.ScalarNetwork, render),
			networkOperators(render)...,
		),
		fraiseql.ScalarVector: equality(fraiseql.ScalarVector, render),
		fraiseql.ScalarLtree:  equality(fraiseql.ScalarLtree, render),
	})
	return postgresManifest
}
