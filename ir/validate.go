package ir

import (
	"fmt"
	"strings"

	"github.com/fraiseql/fraiseql"
)

// Validate performs the structural checks phase 1 of compilation (§4.C)
// requires before capability resolution can run: every relatesTo and
// operation type reference resolves, every type has a resolution path
// (a local view, a non-local federation strategy, or both), Arrow
// foreign keys target non-nullable columns in a batch of the same
// projection, @key and @requires name declared fields, and @external
// appears only with @extends. It does not consult a CapabilityManifest;
// that is phase 2.
func Validate(schema *Schema) error {
	for _, name := range schema.TypeNames() {
		typeDef := schema.Types[name]
		if err := validateType(schema, typeDef); err != nil {
			return fmt.Errorf("type %q: %w", name, err)
		}
	}
	for _, op := range schema.Query.Operations {
		if err := validateOperation(schema, op); err != nil {
			return fmt.Errorf("query %q: %w", op.Name, err)
		}
	}
	for _, op := range schema.Mutation.Operations {
		if err := validateOperation(schema, op); err != nil {
			return fmt.Errorf("mutation %q: %w", op.Name, err)
		}
	}
	return nil
}

func validateType(schema *Schema, t *TypeDef) error {
	hasLocal := t.BoundSource != nil
	hasFederationStrategy := t.Federation.Strategy != "" && t.Federation.Strategy != fraiseql.StrategyLocal
	if !hasLocal && !hasFederationStrategy {
		return &fraiseql.ViewBindingMissingError{TypeName: t.Name}
	}

	fieldNames := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		fieldNames[f.Name] = true
	}

	for _, f := range t.Fields {
		if f.RelatesTo == "" {
			continue
		}
		if _, ok := schema.Lookup(f.RelatesTo); !ok {
			return &fraiseql.UnknownTypeError{
				Reference: f.RelatesTo,
				Context:   fmt.Sprintf("field %s.%s relatesTo", t.Name, f.Name),
			}
		}
	}

	for _, key := range t.Federation.Keys {
		for _, fieldName := range key {
			if !fieldNames[fieldName] {
				return &fraiseql.InvalidFederationError{
					TypeName: t.Name,
					Reason:   fmt.Sprintf("@key field %q is not declared on the type", fieldName),
				}
			}
		}
	}

	if len(t.Federation.ExternalFields) > 0 && !t.Federation.IsExtends {
		return &fraiseql.InvalidFederationError{
			TypeName: t.Name,
			Reason:   "@external declared without @extends",
		}
	}

	for field, deps := range t.Federation.RequiresDependencies {
		if !fieldNames[field] {
			return &fraiseql.InvalidFederationError{
				TypeName: t.Name,
				Reason:   fmt.Sprintf("@requires declared on undeclared field %q", field),
			}
		}
		for _, dep := range deps {
			if !fieldNames[dep] {
				return &fraiseql.InvalidFederationError{
					TypeName: t.Name,
					Reason:   fmt.Sprintf("field %q @requires undeclared field %q", field, dep),
				}
			}
		}
	}

	if err := validateArrowBatches(t); err != nil {
		return err
	}

	return nil
}

func validateArrowBatches(t *TypeDef) error {
	byBatch := make(map[string]map[string]ArrowField, len(t.ArrowProjections))
	for _, batch := range t.ArrowProjections {
		fields := make(map[string]ArrowField, len(batch.Fields))
		for _, f := range batch.Fields {
			fields[f.Name] = f
		}
		byBatch[batch.Name] = fields
	}

	for _, batch := range t.ArrowProjections {
		for _, f := range batch.Fields {
			if f.ForeignKey == "" {
				continue
			}
			parts := strings.SplitN(f.ForeignKey, ".", 2)
			if len(parts) != 2 {
				return &fraiseql.UnrepresentableArrowTypeError{
					Batch:  batch.Name,
					Field:  f.Name,
					Reason: fmt.Sprintf("foreign key %q must be \"batch.column\"", f.ForeignKey),
				}
			}
			targetBatch, targetColumn := parts[0], parts[1]
			targetFields, ok := byBatch[targetBatch]
			if !ok {
				return &fraiseql.UnrepresentableArrowTypeError{
					Batch:  batch.Name,
					Field:  f.Name,
					Reason: fmt.Sprintf("foreign key targets unknown batch %q", targetBatch),
				}
			}
			targetField, ok := targetFields[targetColumn]
			if !ok {
				return &fraiseql.UnrepresentableArrowTypeError{
					Batch:  batch.Name,
					Field:  f.Name,
					Reason: fmt.Sprintf("foreign key targets unknown column %q in batch %q", targetColumn, targetBatch),
				}
			}
			if targetField.Nullable {
				return &fraiseql.UnrepresentableArrowTypeError{
					Batch:  batch.Name,
					Field:  f.Name,
					Reason: fmt.Sprintf("foreign key target %q.%q must be non-nullable", targetBatch, targetColumn),
				}
			}
		}
	}
	return nil
}

func validateOperation(schema *Schema, op OperationDef) error {
	if op.BoundType == "" {
		return nil
	}
	if _, ok := schema.Lookup(op.BoundType); !ok {
		return &fraiseql.UnknownTypeError{
			Reference: op.BoundType,
			Context:   fmt.Sprintf("operation %q", op.Name),
		}
	}
	return nil
}
