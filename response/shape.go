package response

// FieldShape is one field's compiled rewrite: the camelCase key it is
// rendered under, and (for a field whose bound value is itself a nested
// object or array of objects) the RowShape that value's rows must be
// transformed with in turn.
type FieldShape struct {
	Output string
	Nested *RowShape
}

// RowShape is the compile-time-derived transform plan for one row's
// object: the typename injected at its root (empty means none -- used
// for untyped nested value objects that carry no GraphQL type) and the
// rename/recursion plan for each of its bound columns. Built once per
// CompiledType from the Schema IR's field list and cached on the
// CompiledSchema; the Response Builder consults it per row but never
// recomputes it (§4.E: "rewriting happens once... never per row" refers
// to deriving the shape, not applying it -- applying a precomputed
// rename table to each row's raw bytes is still one pass per row, with
// no second parse/serialize round trip).
type RowShape struct {
	Typename string
	Fields   map[string]FieldShape
}

// NewRowShape returns an empty RowShape for typename.
func NewRowShape(typename string) *RowShape {
	return &RowShape{Typename: typename, Fields: make(map[string]FieldShape)}
}

// Bind records that dbColumn is rendered under outputKey, optionally
// recursing into a nested shape for that field's value.
func (s *RowShape) Bind(dbColumn, outputKey string, nested *RowShape) *RowShape {
	s.Fields[dbColumn] = FieldShape{Output: outputKey, Nested: nested}
	return s
}

// FieldBinding is one type's field, as a serialization-safe input to
// BuildShapes: RelatesTo names a target type by string rather than
// holding a pointer, since the compiled artifact these come from must
// stay acyclic and msgpack-serializable (§3: CompiledSchema is written
// to disk and loaded at process start).
type FieldBinding struct {
	DBColumn  string
	OutputKey string
	RelatesTo string
}

// TypeFields is one type's field list, input to BuildShapes.
type TypeFields struct {
	Typename string
	Fields   []FieldBinding
}

// BuildShapes constructs the full, possibly-cyclic graph of RowShapes
// for a set of types, resolving each field's RelatesTo name into a
// pointer to that type's own shape. Call this once at process startup
// from a loaded CompiledSchema (never per request, and never try to
// serialize the result -- a self-referential type, e.g.
// Employee.manager RelatesTo Employee, produces a RowShape whose own
// Nested pointer points back to itself, which a naive encoder would
// recurse into forever).
func BuildShapes(types []TypeFields) map[string]*RowShape {
	shapes := make(map[string]*RowShape, len(types))
	for _, t := range types {
		shapes[t.Typename] = NewRowShape(t.Typename)
	}
	for _, t := range types {
		shape := shapes[t.Typename]
		for _, f := range t.Fields {
			var nested *RowShape
			if f.RelatesTo != "" {
				nested = shapes[f.RelatesTo]
			}
			shape.Bind(f.DBColumn, f.OutputKey, nested)
		}
	}
	return shapes
}
