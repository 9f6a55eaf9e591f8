package compiler

import (
	"fmt"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/capability"
	"github.com/fraiseql/fraiseql/ir"
)

// resolveCapabilities is phase 2 (§4.C): for every filterable field,
// look up the CapabilityManifest entry for its scalar family and target.
// A family with zero operators on this manifest fails compilation with
// an UnsupportedOperatorError whose Operator is "*" and whose
// Suggestions are that family's own (empty) operator list -- no other
// family's operators are offered (whole-family rejection, e.g. the
// "network" family on a target that declares none of it). When a field names specific
// ir.FieldDef.RequestedOperators, each one is checked individually
// against the manifest instead, so a target that supports most but not
// all of a family's operators still rejects compilation over exactly
// the unsupported one -- the S2 scenario in §8 (MySQL string family
// supports `_eq`/`_neq`/`_like` but not `_regex`).
func resolveCapabilities(manifest *capability.Manifest, typeDef *ir.TypeDef) (map[string]WhereField, error) {
	where := make(map[string]WhereField)
	for _, field := range typeDef.Fields {
		if !field.Filterable {
			continue
		}
		ops := manifest.OperatorsFor(field.Semantic)
		if len(ops) == 0 {
			return nil, &fraiseql.UnsupportedOperatorError{
				Target:       string(manifest.Target()),
				ScalarFamily: string(field.Semantic),
				Operator:     "*",
				Suggestions:  manifest.SuggestionsFor(field.Semantic),
			}
		}

		if len(field.RequestedOperators) == 0 {
			names := make([]string, 0, len(ops))
			for _, op := range ops {
				names = append(names, op.Name)
			}
			where[field.Name] = WhereField{
				Semantic:  field.Semantic,
				Operators: names,
			}
			continue
		}

		for _, requested := range field.RequestedOperators {
			if _, ok := manifest.Lookup(field.Semantic, requested); !ok {
				return nil, &fraiseql.UnsupportedOperatorError{
					Target:       string(manifest.Target()),
					ScalarFamily: string(field.Semantic),
					Operator:     requested,
					Suggestions:  manifest.SuggestionsFor(field.Semantic),
				}
			}
		}
		where[field.Name] = WhereField{
			Semantic:  field.Semantic,
			Operators: append([]string(nil), field.RequestedOperators...),
		}
	}
	return where, nil
}

// renderFilter renders one operator application against manifest. When
// the operator is absent for family it returns the manifest's
// UnsupportedOperatorError (§7 CompileError) wrapped with the operator
// and family names, still reachable through errors.As. Nothing in this
// module calls it.
func renderFilter(manifest *capability.Manifest, family fraiseql.ScalarFamily, operator, columnRef string, paramIndex int) (string, error) {
	sql, err := manifest.Render(family, operator, columnRef, paramIndex)
	if err != nil {
		return "", fmt.Errorf("render filter %s on %s: %w", operator, family, err)
	}
	return sql, nil
}
