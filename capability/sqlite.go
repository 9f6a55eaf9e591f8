package capability

import "github.com/fraiseql/fraiseql"

var sqliteManifest *Manifest

// SQLite returns the CapabilityManifest for the "sqlite" target. SQLite
// has no native regex, no jsonb containment beyond basic equality on the
// serialized text, and no network/vector/ltree family support.
func SQLite() *Manifest {
	if sqliteManifest != nil {
		return sqliteManifest
	}
	render := renderTemplatesSQLite(questionPlaceholder)
	sqliteManifest = NewManifest(fraiseql.TargetSQLite, map[fraiseql.ScalarFamily][]OperatorSpec{
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
	return sqliteManifest
}
