package compiler

import (
	"github.com/fraiseql/fraiseql/ir"
	"github.com/fraiseql/fraiseql/response"
)

// compileFields derives the serializable field-rewrite table the
// Response Builder's shape graph is later reconstructed from (§4.E):
// each field's bound column, its camelCase output key, and (for a
// field whose JSON value composes a related type) that type's name.
// This is stored on CompiledType instead of a live *response.RowShape
// because CompiledSchema must stay acyclic and msgpack-serializable,
// and a RelatesTo cycle (e.g. Employee.manager RelatesTo Employee)
// would make a pointer-based shape graph impossible to round-trip
// through disk. response.BuildShapes reconstructs the pointer graph
// from this flat table once, at schema load time.
func compileFields(typeDef *ir.TypeDef) []CompiledField {
	fields := make([]CompiledField, 0, len(typeDef.Fields))
	for _, field := range typeDef.Fields {
		column := field.BoundColumn
		if column == "" {
			column = field.Name
		}
		fields = append(fields, CompiledField{
			DBColumn:  column,
			OutputKey: response.SnakeToCamel(column),
			RelatesTo: field.RelatesTo,
		})
	}
	return fields
}

// BuildShapes reconstructs the full RowShape graph for every type in a
// CompiledSchema, in one pass, safe for cyclic RelatesTo references.
// Call once at process startup after loading/compiling a schema; the
// executor holds the result alongside the CompiledSchema for the
// lifetime of the process.
func BuildShapes(schema *CompiledSchema) map[string]*response.RowShape {
	types := make([]response.TypeFields, 0, len(schema.Types))
	for _, name := range schema.SourceTypes {
		ct, ok := schema.Types[name]
		if !ok {
			continue
		}
		tf := response.TypeFields{Typename: name}
		for _, f := range ct.Fields {
			tf.Fields = append(tf.Fields, response.FieldBinding{
				DBColumn:  f.DBColumn,
				OutputKey: f.OutputKey,
				RelatesTo: f.RelatesTo,
			})
		}
		types = append(types, tf)
	}
	return response.BuildShapes(types)
}
