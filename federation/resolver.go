package federation

import (
	"context"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/compiler"
)

// Resolver dispatches a batch of `_entities` representations to the
// compile-time-selected strategy per __typename (§4.G steps 1-2) and
// reassembles results in input order with per-position partial-success
// semantics (§8 property 5): one failed representation becomes a
// path-scoped null, not a batch-wide failure.
type Resolver struct {
	Schema *compiler.CompiledSchema

	Local        Strategy
	PeerDB       *PeerDatabaseStrategy
	HttpSubgraph *HttpSubgraphStrategy
}

// Entity is one resolved `_entities` result, matched back to the
// representation supplied at the same index.
type Entity struct {
	Row []byte
	Err error
}

// ResolveEntities is the package-level entry point a `_entities` root
// field resolver calls through; a thin wrapper over (*Resolver).Resolve
// so callers needn't import Resolver's method set just for this one
// call.
func ResolveEntities(ctx context.Context, r *Resolver, reps []Representation) []Entity {
	return r.Resolve(ctx, reps)
}

// Resolve runs reps -- in their original argument order, possibly
// mixing multiple __typenames in one batch (§4.G: "a single `_entities`
// call may ask for multiple typenames") -- through each one's bound
// strategy and returns one Entity per representation in that same
// order.
func (r *Resolver) Resolve(ctx context.Context, reps []Representation) []Entity {
	out := make([]Entity, len(reps))

	groups := make(map[string][]int)
	order := make([]string, 0)
	for i, rep := range reps {
		if _, seen := groups[rep.Typename]; !seen {
			order = append(order, rep.Typename)
		}
		groups[rep.Typename] = append(groups[rep.Typename], i)
	}

	for _, typename := range order {
		indices := groups[typename]
		binding := r.bindingFor(typename)
		if binding == nil {
			for _, i := range indices {
				out[i] = Entity{Err: &fraiseql.EntityNotResolvableError{Typename: typename, Index: i}}
			}
			continue
		}

		keyFields := keyFieldsFor(binding, reps, indices)
		if keyFields == nil {
			for _, i := range indices {
				out[i] = Entity{Err: &fraiseql.EntityNotResolvableError{Typename: typename, Index: i}}
			}
			continue
		}

		group := make([]Representation, len(indices))
		for j, i := range indices {
			group[j] = reps[i]
		}

		rows, errs := r.dispatch(ctx, binding, typename, keyFields, group)
		for j, i := range indices {
			var entity Entity
			if j < len(errs) && errs[j] != nil {
				entity.Err = errs[j]
			} else if j < len(rows) {
				entity.Row = rows[j]
			}
			out[i] = entity
		}
	}

	return out
}

func (r *Resolver) dispatch(ctx context.Context, binding *compiler.EntityBinding, typename string, keyFields []string, group []Representation) ([][]byte, []error) {
	switch binding.Strategy {
	case fraiseql.StrategyLocal:
		if r.Local == nil {
			return nil, uniformError(len(group), &fraiseql.EntityNotResolvableError{Typename: typename})
		}
		requiresErrs := r.checkRequires(typename, group)
		if requiresErrs == nil {
			return r.Local.Resolve(ctx, typename, keyFields, group)
		}
		return r.dispatchLocalPartial(ctx, typename, keyFields, group, requiresErrs)
	case fraiseql.StrategyPeerDatabase:
		if r.PeerDB == nil {
			return nil, uniformError(len(group), &fraiseql.EntityNotResolvableError{Typename: typename})
		}
		return r.PeerDB.Resolve(ctx, typename, keyFields, group)
	case fraiseql.StrategyHTTPSubgraph:
		if r.HttpSubgraph == nil || binding.Peer == "" {
			return nil, uniformError(len(group), &fraiseql.EntityNotResolvableError{Typename: typename})
		}
		return r.HttpSubgraph.ResolveAt(ctx, binding.Peer, typename, keyFields, group)
	default:
		return nil, uniformError(len(group), &fraiseql.EntityNotResolvableError{Typename: typename})
	}
}

// dispatchLocalPartial runs group's Local.Resolve against only the
// representations whose @requires dependencies are satisfied
// (requiresErrs[j] == nil), then merges the sub-call's rows/errors back
// into position, leaving every other representation's slot holding its
// already-recorded @requires error. Without this split, one failing
// representation in a batch would otherwise skip the query entirely and
// silently null out every representation that could have resolved
// (§4.G step 3: "continue with remaining fields").
func (r *Resolver) dispatchLocalPartial(ctx context.Context, typename string, keyFields []string, group []Representation, requiresErrs []error) ([][]byte, []error) {
	var satisfiedGroup []Representation
	var satisfiedIndices []int
	for j, rep := range group {
		if requiresErrs[j] == nil {
			satisfiedGroup = append(satisfiedGroup, rep)
			satisfiedIndices = append(satisfiedIndices, j)
		}
	}

	rows := make([][]byte, len(group))
	errs := requiresErrs
	if len(satisfiedGroup) == 0 {
		return rows, errs
	}

	satisfiedRows, satisfiedErrs := r.Local.Resolve(ctx, typename, keyFields, satisfiedGroup)
	for k, j := range satisfiedIndices {
		if k < len(satisfiedErrs) && satisfiedErrs[k] != nil {
			errs[j] = satisfiedErrs[k]
			continue
		}
		if k < len(satisfiedRows) {
			rows[j] = satisfiedRows[k]
		}
	}
	return rows, errs
}

// checkRequires enforces every @requires declaration on typename's
// fields against each representation in group before a Local strategy
// call (§4.G step 3). Returns nil (not an error slice) when there is
// nothing to check or everything is satisfied, so the zero value means
// "proceed."
func (r *Resolver) checkRequires(typename string, group []Representation) []error {
	ct, ok := r.Schema.Lookup(typename)
	if !ok || len(ct.Federation.RequiresDependencies) == 0 {
		return nil
	}

	deps := make(map[string]bool)
	for _, fields := range ct.Federation.RequiresDependencies {
		for _, f := range fields {
			deps[f] = true
		}
	}
	required := make([]string, 0, len(deps))
	for f := range deps {
		required = append(required, f)
	}

	var errs []error
	for i, rep := range group {
		err := CheckRequires(typename, required, rep)
		if err == nil {
			continue
		}
		if errs == nil {
			errs = make([]error, len(group))
		}
		errs[i] = err
	}
	return errs
}

func (r *Resolver) bindingFor(typename string) *compiler.EntityBinding {
	for i := range r.Schema.Entities {
		if r.Schema.Entities[i].Typename == typename {
			return &r.Schema.Entities[i]
		}
	}
	return nil
}

// keyFieldsFor picks the first @key tuple every representation in the
// group supplies values for; composite keys are tried in declaration
// order (§3: "most types declare exactly one key").
func keyFieldsFor(binding *compiler.EntityBinding, reps []Representation, indices []int) []string {
	for _, keyTuple := range binding.Keys {
		complete := true
		for _, i := range indices {
			for _, f := range keyTuple {
				if _, present := reps[i].Fields[f]; !present {
					complete = false
					break
				}
			}
			if !complete {
				break
			}
		}
		if complete {
			return keyTuple
		}
	}
	return nil
}
