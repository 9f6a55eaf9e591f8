package ir

import (
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/fraiseql/fraiseql"
)

// semanticFamilies is the set of scalar family names a DocumentField may
// declare. Grounded on the teacher's load/schema.go field-type loader,
// generalized from Go kinds to FraiseQL's scalar families.
var semanticFamilies = map[string]fraiseql.ScalarFamily{
	"string":  fraiseql.ScalarString,
	"numeric": fraiseql.ScalarNumeric,
	"boolean": fraiseql.ScalarBoolean,
	"temporal": fraiseql.ScalarTemporal,
	"jsonb":   fraiseql.ScalarJSONB,
	"network": fraiseql.ScalarNetwork,
	"vector":  fraiseql.ScalarVector,
	"ltree":   fraiseql.ScalarLtree,
}

var arrowTypes = map[string]ArrowType{
	"string":           ArrowString,
	"int64":            ArrowInt64,
	"float64":          ArrowFloat64,
	"bool":              ArrowBool,
	"decimal128":       ArrowDecimal128,
	"timestamp_us_utc": ArrowTimestampUTC,
	"date32":           ArrowDate32,
}

var strategyKinds = map[string]fraiseql.ResolutionStrategyKind{
	"":             "",
	"local":        fraiseql.StrategyLocal,
	"peerDatabase": fraiseql.StrategyPeerDatabase,
	"httpSubgraph": fraiseql.StrategyHTTPSubgraph,
}

var operationKinds = map[string]OperationKind{
	"list":     OperationList,
	"single":   OperationSingle,
	"entities": OperationEntities,
	"mutate":   OperationMutate,
}

// Build converts a decoded Document into a Schema. Build performs only
// local, per-node translation (string enums to typed constants, struct
// reshaping); cross-type structural validation (dangling type
// references, missing resolution paths, undeclared federation fields) is the
// job of Validate, run separately so callers can build partial schemas
// for tooling (e.g. `compile --check` diagnostics) without a fully
// resolvable graph.
func Build(doc *Document) (*Schema, error) {
	schema := NewSchema()

	for _, dt := range doc.Types {
		typeDef, err := buildType(dt)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", dt.Name, err)
		}
		schema.Types[dt.Name] = typeDef
	}

	for _, op := range doc.Query {
		built, err := buildOperation(op)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", op.Name, err)
		}
		schema.Query.Operations = append(schema.Query.Operations, built)
	}

	for _, op := range doc.Mutation {
		built, err := buildOperation(op)
		if err != nil {
			return nil, fmt.Errorf("mutation %q: %w", op.Name, err)
		}
		schema.Mutation.Operations = append(schema.Mutation.Operations, built)
	}

	return schema, nil
}

func buildType(dt DocumentType) (*TypeDef, error) {
	typeDef := &TypeDef{Name: dt.Name}

	for _, df := range dt.Fields {
		field, err := buildField(df)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", df.Name, err)
		}
		typeDef.Fields = append(typeDef.Fields, field)
	}

	if dt.View != "" {
		typeDef.BoundSource = &BoundSource{
			View:              dt.View,
			JSONBColumn:       dt.JSONBColumn,
			PrimaryKeyColumns: dt.PrimaryKey,
		}
	}

	if dt.Federation != nil {
		fed, err := buildFederation(*dt.Federation)
		if err != nil {
			return nil, err
		}
		typeDef.Federation = fed
	}

	for _, batch := range dt.Arrow {
		built, err := buildArrowBatch(batch)
		if err != nil {
			return nil, fmt.Errorf("arrow batch %q: %w", batch.Name, err)
		}
		typeDef.ArrowProjections = append(typeDef.ArrowProjections, built)
	}

	if dt.Authorization != nil {
		typeDef.Authorization = AuthorizationMeta{
			RowFilters:       dt.Authorization.RowFilters,
			FieldPermissions: dt.Authorization.FieldPermissions,
		}
	}

	return typeDef, nil
}

func buildField(df DocumentField) (FieldDef, error) {
	family, ok := semanticFamilies[df.Semantic]
	if !ok {
		return FieldDef{}, &fraiseql.UnknownTypeError{
			Reference: df.Semantic,
			Context:   fmt.Sprintf("field %q", df.Name),
		}
	}
	return FieldDef{
		Name:               df.Name,
		Semantic:           family,
		GraphQLType:        df.GraphQLType,
		Nullable:           df.Nullable,
		HasDefault:         df.HasDefault,
		Default:            df.Default,
		BoundColumn:        df.BoundColumn,
		Filterable:         df.Filterable,
		RequestedOperators: df.Operators,
		TransformationHint: df.Transform,
		RelatesTo:          df.RelatesTo,
	}, nil
}

func buildFederation(df DocumentFederation) (FederationMeta, error) {
	strategy, ok := strategyKinds[df.Strategy]
	if !ok {
		return FederationMeta{}, &fraiseql.InvalidFederationError{
			TypeName: "",
			Reason:   fmt.Sprintf("unknown resolution strategy %q", df.Strategy),
		}
	}
	return FederationMeta{
		Keys:                 df.Keys,
		IsExtends:            df.Extends,
		ExternalFields:       df.External,
		ShareableFields:      df.Shareable,
		RequiresDependencies: df.Requires,
		ProvidesDeclarations: df.Provides,
		Strategy:             strategy,
		Peer:                 df.Peer,
	}, nil
}

func buildArrowBatch(db DocumentArrowBatch) (ArrowBatch, error) {
	batch := ArrowBatch{Name: db.Name}
	for _, df := range db.Fields {
		arrowType, ok := arrowTypes[df.Type]
		if !ok {
			return ArrowBatch{}, &fraiseql.UnrepresentableArrowTypeError{
				Batch:  db.Name,
				Field:  df.Name,
				Reason: fmt.Sprintf("unknown arrow type %q", df.Type),
			}
		}
		batch.Fields = append(batch.Fields, ArrowField{
			Name:       df.Name,
			Type:       arrowType,
			Nullable:   df.Nullable,
			ForeignKey: df.ForeignKey,
			Masking:    df.Masking,
		})
	}
	return batch, nil
}

func buildOperation(op DocumentOperation) (OperationDef, error) {
	kind, ok := operationKinds[op.Kind]
	if !ok {
		return OperationDef{}, fmt.Errorf("unknown operation kind %q", op.Kind)
	}
	name := op.Name
	if name == "" {
		name = defaultOperationName(op)
	}
	built := OperationDef{
		Name:       name,
		ReturnType: op.ReturnType,
		IsList:     op.IsList,
		BoundType:  op.BoundType,
		Kind:       kind,
	}
	for _, arg := range op.Arguments {
		built.Arguments = append(built.Arguments, ArgumentDef{
			Name:     arg.Name,
			Type:     arg.Type,
			Nullable: arg.Nullable,
		})
	}
	return built, nil
}

// defaultOperationName derives a root field name from a DocumentOperation
// whose authoring layer left Name empty: lowerCamel(BoundType), pluralized
// for list queries (`User` -> `users`), singularized for single lookups
// (`User` -> `user`), and left as is for every other kind.
func defaultOperationName(op DocumentOperation) string {
	base := lowerFirst(op.BoundType)
	switch op.Kind {
	case "list":
		return inflect.Pluralize(base)
	case "single":
		return inflect.Singularize(base)
	default:
		return base
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
