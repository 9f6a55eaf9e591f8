// Package capability implements the CapabilityManifest (§3, §4.A): a
// read-only table of tables describing, per compile target and scalar
// family, which GraphQL filter operators exist and how each renders to
// SQL. Adding a database target is exactly: add a manifest (one file in
// this package) plus one dialect renderer in compiler/sqlgen; no other
// component changes.
package capability

import (
	"fmt"
	"sort"

	"github.com/fraiseql/fraiseql"
)

// OperatorSpec describes a single filter operator exposed for a given
// scalar family on a given target.
type OperatorSpec struct {
	// Name is the GraphQL-exposed filter name, e.g. "_eq", "_contains".
	Name string

	// Family is the scalar family this operator applies to.
	Family fraiseql.ScalarFamily

	// Template renders the SQL fragment for this operator. columnRef is
	// an already-quoted, dialect-specific column reference; paramIndex is
	// the 1-based positional parameter index to embed (dialects that use
	// named placeholders translate paramIndex themselves). Render never
	// interpolates a caller-supplied value directly -- only columnRef and
	// paramIndex, both controlled by the compiler, ever reach the
	// template.
	Template func(columnRef string, paramIndex int) string

	// Validate checks that a supplied filter value is acceptable for this
	// operator (e.g. _in requires a non-empty list; _regex requires a
	// syntactically valid pattern for the target's regex dialect).
	Validate func(value any) error

	// Arity is the number of bind parameters this operator consumes.
	// Almost always 1; 0 for _is_null/_is_not_null, -1 for _in/_not_in,
	// whose parameter count is resolved at bind time from the value's
	// length.
	Arity int
}

// Manifest is the CapabilityManifest for a single compile target: an
// ordered operator list per scalar family. It is immutable once
// constructed and loaded once per compile run (§3 lifecycle).
type Manifest struct {
	target     fraiseql.Target
	byFamily   map[fraiseql.ScalarFamily][]OperatorSpec
	byFamilyOp map[fraiseql.ScalarFamily]map[string]OperatorSpec
}

// NewManifest builds a Manifest for target from the given per-family
// operator lists. The same operator list may be shared across multiple
// scalar families (e.g. _eq/_neq/_in are common to almost all families).
func NewManifest(target fraiseql.Target, operators map[fraiseql.ScalarFamily][]OperatorSpec) *Manifest {
	m := &Manifest{
		target:     target,
		byFamily:   make(map[fraiseql.ScalarFamily][]OperatorSpec, len(operators)),
		byFamilyOp: make(map[fraiseql.ScalarFamily]map[string]OperatorSpec, len(operators)),
	}
	for family, ops := range operators {
		cp := make([]OperatorSpec, len(ops))
		copy(cp, ops)
		m.byFamily[family] = cp
		byOp := make(map[string]OperatorSpec, len(ops))
		for _, op := range ops {
			byOp[op.Name] = op
		}
		m.byFamilyOp[family] = byOp
	}
	return m
}

// Target returns the compile target this manifest was built for.
func (m *Manifest) Target() fraiseql.Target { return m.target }

// OperatorsFor returns the ordered list of operators available for the
// given scalar family on this target. The returned slice is owned by the
// manifest and must not be mutated.
func (m *Manifest) OperatorsFor(family fraiseql.ScalarFamily) []OperatorSpec {
	return m.byFamily[family]
}

// Lookup returns the operator spec for (family, operator name), and
// whether it exists in this manifest.
func (m *Manifest) Lookup(family fraiseql.ScalarFamily, operator string) (OperatorSpec, bool) {
	byOp, ok := m.byFamilyOp[family]
	if !ok {
		return OperatorSpec{}, false
	}
	op, ok := byOp[operator]
	return op, ok
}

// Render renders the SQL fragment for operator against columnRef at
// paramIndex, failing with UnsupportedOperator if the manifest has no
// such entry for family.
func (m *Manifest) Render(family fraiseql.ScalarFamily, operator, columnRef string, paramIndex int) (string, error) {
	op, ok := m.Lookup(family, operator)
	if !ok {
		return "", &fraiseql.UnsupportedOperatorError{
			Target:       string(m.target),
			ScalarFamily: string(family),
			Operator:     operator,
			Suggestions:  m.SuggestionsFor(family),
		}
	}
	return op.Template(columnRef, paramIndex), nil
}

// SuggestionsFor returns the sorted operator names available for family,
// used to populate UnsupportedOperatorError.Suggestions (§4.C phase 2).
func (m *Manifest) SuggestionsFor(family fraiseql.ScalarFamily) []string {
	ops := m.byFamily[family]
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.Name)
	}
	sort.Strings(out)
	return out
}

// Families returns every scalar family this manifest declares operators
// for, sorted for deterministic iteration (CompiledSchema determinism,
// §8.1).
func (m *Manifest) Families() []fraiseql.ScalarFamily {
	out := make([]fraiseql.ScalarFamily, 0, len(m.byFamily))
	for f := range m.byFamily {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ForTarget returns the built-in Manifest for target, or an error if the
// target is unknown. This is the lookup used by cmd/fraiseql's `compile`
// command given `--target <id>`.
func ForTarget(target fraiseql.Target) (*Manifest, error) {
	switch target {
	case fraiseql.TargetPostgres:
		return Postgres(), nil
	case fraiseql.TargetMySQL:
		return MySQL(), nil
	case fraiseql.TargetSQLite:
		return SQLite(), nil
	default:
		return nil, fmt.Errorf("capability: unknown target %q", target)
	}
}
