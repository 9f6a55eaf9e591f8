package compiler

import (
	"fmt"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/ir"
)

// resolveFederation is phase 4 (§4.C, §4.G): pins a concrete
// ResolutionStrategyKind for every type and builds the `_entities`
// binding list. A type with no federation keys at all is simply not
// part of federation and is skipped for the Entities list, but still
// gets a CompiledFederation with an empty Keys slice so downstream code
// never needs a nil check.
func resolveFederation(schema *ir.Schema) (map[string]CompiledFederation, []EntityBinding, error) {
	federations := make(map[string]CompiledFederation, len(schema.Types))
	var entities []EntityBinding

	for _, name := range schema.TypeNames() {
		typeDef := schema.Types[name]
		strategy := typeDef.Federation.Strategy
		if strategy == "" {
			strategy = fraiseql.StrategyLocal
		}

		if strategy == fraiseql.StrategyHTTPSubgraph && typeDef.Federation.Peer == "" {
			return nil, nil, &fraiseql.InvalidFederationError{
				TypeName: name,
				Reason:   "http_subgraph strategy requires a peer subgraph URL",
			}
		}
		if strategy == fraiseql.StrategyPeerDatabase && typeDef.Federation.Peer == "" {
			return nil, nil, &fraiseql.InvalidFederationError{
				TypeName: name,
				Reason:   "peer_database strategy requires a peer DSN",
			}
		}

		federations[name] = CompiledFederation{
			Keys:                 typeDef.Federation.Keys,
			Strategy:             strategy,
			Peer:                 typeDef.Federation.Peer,
			RequiresDependencies: typeDef.Federation.RequiresDependencies,
			ProvidesDeclarations: typeDef.Federation.ProvidesDeclarations,
		}

		if typeDef.Federation.HasKeys() {
			entities = append(entities, EntityBinding{
				Typename: name,
				Keys:     typeDef.Federation.Keys,
				Strategy: strategy,
				Peer:     typeDef.Federation.Peer,
			})
		}
	}

	return federations, entities, nil
}

// validateRequiresAgainstKeys rejects a @requires declaration with an
// empty dependency list. That each dependency names a field declared on
// the type is checked earlier, by ir.Validate.
func validateRequiresAgainstKeys(schema *ir.Schema, federations map[string]CompiledFederation) error {
	for name, fed := range federations {
		for field, deps := range fed.RequiresDependencies {
			if len(deps) == 0 {
				return fmt.Errorf("compiler: %s.%s declares @requires with no dependencies", name, field)
			}
		}
	}
	return nil
}
