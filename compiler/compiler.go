package compiler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/capability"
	"github.com/fraiseql/fraiseql/compiler/sqlgen"
	"github.com/fraiseql/fraiseql/ir"
)

// Option configures Compile via the functional-options pattern used
// throughout this codebase (fraiseql.Option, capability.Manifest
// construction).
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock Compile stamps CompiledAt with. Tests
// use this to get a deterministic timestamp; production callers never
// need it.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Compile runs the six-phase pipeline (§4.C) that turns a Schema IR plus
// a target into a content-hashed CompiledSchema:
//
//  1. structural validation (ir.Validate)
//  2. capability resolution (every filterable field's operators)
//  3. SQL template generation (compiler/sqlgen)
//  4. federation strategy resolution
//  5. Arrow projection validation
//  6. canonicalization and content hashing
//
// Compile never touches a live database; sqlgen renders templates as
// strings parameterized by position, bound at request time by executor.
func Compile(schema *ir.Schema, target fraiseql.Target, opts ...Option) (*CompiledSchema, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	// Phase 1.
	if err := ir.Validate(schema); err != nil {
		return nil, fmt.Errorf("compiler: phase 1 structural validation: %w", err)
	}

	manifest, err := capability.ForTarget(target)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	dialect, err := sqlgen.ForTarget(target)
	if err != nil {
		return nil, fmt.Errorf("compiler: %w", err)
	}

	// Phase 4 runs before phase 2/3 per type below because capability
	// resolution and template generation for a federated type still need
	// to know its resolution strategy (a PeerDatabase/HttpSubgraph type
	// renders no local SQL template at all).
	federations, entities, err := resolveFederation(schema)
	if err != nil {
		return nil, fmt.Errorf("compiler: phase 4 federation resolution: %w", err)
	}
	if err := validateRequiresAgainstKeys(schema, federations); err != nil {
		return nil, fmt.Errorf("compiler: phase 4 federation resolution: %w", err)
	}

	// Phases 2/3/5 are independent per type -- no type's capability
	// resolution, template validation, or Arrow projection depends on
	// another type's -- so they fan out over an errgroup the same way
	// the teacher's generate.go parallelizes independent per-entity
	// codegen. Each goroutine writes only to its own slot in results, so
	// no locking is needed to assemble the map afterward.
	typeNames := schema.TypeNames()
	results := make([]*CompiledType, len(typeNames))

	g, _ := errgroup.WithContext(context.Background())
	for i, name := range typeNames {
		i, name := i, name
		g.Go(func() error {
			typeDef := schema.Types[name]
			fed := federations[name]

			compiledType := &CompiledType{
				Name:          name,
				BoundSource:   typeDef.BoundSource,
				Authorization: typeDef.Authorization,
				Federation:    fed,
				Fields:        compileFields(typeDef),
			}

			if fed.Strategy == fraiseql.StrategyLocal && typeDef.BoundSource != nil {
				// Phase 2.
				where, err := resolveCapabilities(manifest, typeDef)
				if err != nil {
					return fmt.Errorf("compiler: phase 2 capability resolution on %q: %w", name, err)
				}
				compiledType.Where = where
				compiledType.KeysetColumns = keysetColumns(typeDef)

				// Phase 3.
				if err := sqlgen.ValidateTemplatable(dialect, typeDef); err != nil {
					return fmt.Errorf("compiler: phase 3 sql template generation on %q: %w", name, err)
				}
			}

			// Phase 5.
			arrow, err := resolveArrowProjections(typeDef)
			if err != nil {
				return fmt.Errorf("compiler: phase 5 arrow projection validation on %q: %w", name, err)
			}
			compiledType.Arrow = arrow

			results[i] = compiledType
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	compiledTypes := make(map[string]*CompiledType, len(typeNames))
	for i, name := range typeNames {
		compiledTypes[name] = results[i]
	}

	compiledQuery, err := compileOperations(schema.Query.Operations, dialect)
	if err != nil {
		return nil, fmt.Errorf("compiler: phase 3 sql template generation (query): %w", err)
	}
	compiledMutation, err := compileOperations(schema.Mutation.Operations, dialect)
	if err != nil {
		return nil, fmt.Errorf("compiler: phase 3 sql template generation (mutation): %w", err)
	}

	result := &CompiledSchema{
		Target:      target,
		CompiledAt:  o.now(),
		SourceTypes: schema.TypeNames(),
		Types:       compiledTypes,
		Query:       compiledQuery,
		Mutation:    compiledMutation,
		Entities:    entities,
	}

	// Phase 6.
	hash, err := computeHash(result)
	if err != nil {
		return nil, fmt.Errorf("compiler: phase 6 content hashing: %w", err)
	}
	result.Hash = hash

	return result, nil
}

func keysetColumns(typeDef *ir.TypeDef) []string {
	if typeDef.BoundSource == nil {
		return nil
	}
	cols := append([]string(nil), typeDef.BoundSource.PrimaryKeyColumns...)
	sort.Strings(cols)
	return cols
}

func compileOperations(ops []ir.OperationDef, dialect sqlgen.Dialect) ([]CompiledOperation, error) {
	compiled := make([]CompiledOperation, 0, len(ops))
	for _, op := range ops {
		templateName, err := sqlgen.TemplateName(dialect, op)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, CompiledOperation{
			Name:         op.Name,
			BoundType:    op.BoundType,
			Kind:         op.Kind,
			IsList:       op.IsList,
			ReturnType:   op.ReturnType,
			Arguments:    op.Arguments,
			TemplateName: templateName,
		})
	}
	return compiled, nil
}
