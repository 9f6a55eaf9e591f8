package capability

import "github.com/fraiseql/fraiseql"

var mysqlManifest *Manifest

// MySQL returns the CapabilityManifest for the "mysql" target. MySQL has
// no native regex-as-operator distinct from string matching beyond
// REGEXP, no jsonb containment operators, and no network/ltree scalar
// family support at all -- those families simply have no entries in this
// manifest, so the compiler's capability-resolution phase (§4.C phase 2)
// rejects any schema that declares filters on them for this target, with
// a suggestion list (S2 in §8).
func MySQL() *Manifest {
	if mysqlManifest != nil {
		return mysqlManifest
	}
	render := renderTemplatesMySQL(questionPlaceholder)
	mysqlManifest = NewManifest(fraiseql.TargetMySQL, map[fraiseql.ScalarFamily][]OperatorSpec{
		// No _regex: MySQL's manifest intentionally omits it so a schema
		// declaring a regex filter fails capability resolution here (§8 S2)
		// even though MySQL's REGEXP could technically render one; FraiseQL
		// treats pattern-matching portability across targets as a filter
		// author's concern, not a renderer's.
		fraiseql.ScalarString: append(
			equality(fraiseql.ScalarString, render),
			stringMatching(fraiseql.ScalarString, false, render)...,
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
		fraiseql.ScalarJSONB: equality(fraiseql.ScalarJSONB, render),
	})
	return mysqlManifest
}
