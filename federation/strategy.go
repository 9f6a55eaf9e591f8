// Package federation implements the Entity/Federation Resolver (§4.G):
// for each `_entities(representations)` call, it groups representations
// by __typename, dispatches each group to the compile-time-selected
// ResolutionStrategyKind (Local / PeerDatabase / HttpSubgraph), and
// reassembles results in input order with per-position partial-success
// semantics (§8 property 5). Per §9, the three strategies are a small
// sealed variant set with no shared mutable base state -- the source's
// mixin/multiple-inheritance repository classes collapse into this.
package federation

import (
	"context"

	"github.com/fraiseql/fraiseql"
)

// Representation is one `_entities` input: the GraphQL __typename plus
// the key field values the request supplied, and (for @requires
// enforcement) any additional fields the gateway already resolved on
// the representation.
type Representation struct {
	Typename string
	Fields   map[string]any
}

// KeyTuple extracts the ordered values for keyFields from r.Fields, the
// shape every strategy's batched lookup needs (§3: "composite keys are
// ordered tuples").
func (r Representation) KeyTuple(keyFields []string) []any {
	tuple := make([]any, len(keyFields))
	for i, f := range keyFields {
		tuple[i] = r.Fields[f]
	}
	return tuple
}

// Strategy resolves a batch of same-typename representations to raw
// row JSON text, in input order, with a nil entry at any position that
// could not be resolved (§4.G, §8 property 5).
type Strategy interface {
	Resolve(ctx context.Context, typename string, keyFields []string, reps []Representation) ([][]byte, []error)
}

// strategyFor is implemented by each concrete resolver
// (local.go/peerdb.go/http.go) to identify itself in diagnostics and
// metrics without a type switch at call sites.
type strategyFor interface {
	StrategyKind() fraiseql.ResolutionStrategyKind
}
