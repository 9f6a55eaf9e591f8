// Package ir implements the Schema IR (§3, §4): a normalized, typed graph
// of types, fields, views, keys, federation metadata, and Arrow
// projections. The IR is the compiler's only input besides the
// CapabilityManifest; it carries no database- or target-specific detail,
// so the same IR compiles against every target a CapabilityManifest
// exists for.
package ir

import "github.com/fraiseql/fraiseql"

// Schema is the Schema IR: a mapping from type name to TypeDef, plus the
// root Query/Mutation operation descriptors (§3).
type Schema struct {
	Types    map[string]*TypeDef
	Query    *OperationSet
	Mutation *OperationSet
}

// NewSchema returns an empty Schema ready for types to be added.
func NewSchema() *Schema {
	return &Schema{
		Types:    make(map[string]*TypeDef),
		Query:    &OperationSet{},
		Mutation: &OperationSet{},
	}
}

// Lookup returns the TypeDef for name, and whether it exists.
func (s *Schema) Lookup(name string) (*TypeDef, bool) {
	t, ok := s.Types[name]
	return t, ok
}

// TypeNames returns every declared type name, sorted for deterministic
// iteration (CompiledSchema hash stability, §3 invariant 5).
func (s *Schema) TypeNames() []string {
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sortStrings(names)
	return names
}

// TypeDef describes one GraphQL object type bound (or not) to a
// relational source, plus its federation and Arrow metadata.
type TypeDef struct {
	Name string

	// Fields is the ordered list of fields declared on this type. Order
	// is preserved from the input document and is significant for
	// generated WhereInputType field ordering (determinism, §3).
	Fields []FieldDef

	// BoundSource is non-nil for types resolved by a local view. A type
	// passes validation when BoundSource is set, when Federation.Strategy
	// names a non-local strategy, or both (§3 invariant 2).
	BoundSource *BoundSource

	// Federation carries this type's federation metadata. Always
	// non-nil; zero value means "not part of federation" (no keys, Local
	// strategy implied if BoundSource is set).
	Federation FederationMeta

	// ArrowProjections are the ordered Arrow batches this type
	// participates in, if any (§4.I).
	ArrowProjections []ArrowBatch

	// Authorization carries row-filter templates and field-level
	// permission descriptors for this type.
	Authorization AuthorizationMeta
}

// FieldDef is one field of a TypeDef: (name, semantic-type, nullable,
// default, bound-column, transformation hints) per §3.
type FieldDef struct {
	Name string

	// Semantic is the field's semantic scalar type, used to select the
	// CapabilityManifest operator set when this field is exposed in a
	// WhereInputType.
	Semantic fraiseql.ScalarFamily

	// GraphQLType is the GraphQL type name this field renders as in the
	// compiled schema (e.g. "String", "Int", "DateTime"); distinct from
	// Semantic, which only drives operator selection.
	GraphQLType string

	Nullable bool

	// HasDefault and Default describe a declared default value.
	HasDefault bool
	Default    any

	// BoundColumn is the JSONB path / column this field reads from the
	// bound view's JSON projection. Empty for fields with no bound
	// source (e.g. a field resolved entirely by @requires/@provides on
	// a federated type).
	BoundColumn string

	// Filterable controls whether this field is exposed in the type's
	// WhereInputType at all; unfilterable fields never trigger
	// capability resolution.
	Filterable bool

	// RequestedOperators, when non-empty, restricts capability
	// resolution to exactly these operator names instead of every
	// operator the target's manifest declares for Semantic (§4.C phase
	// 2). Each one is checked individually against the manifest, so a
	// target that supports most of a family's operators but not all of
	// them (e.g. MySQL's string family lacking `_regex`) still rejects
	// compilation over the one missing operator rather than only when
	// the whole family is absent.
	RequestedOperators []string

	// TransformationHint names an optional value transform applied
	// between the DB projection and the GraphQL value (e.g. "base64",
	// "lower"); empty means no transform.
	TransformationHint string

	// RelatesTo names the TypeDef this field's bound JSON value composes
	// (a nested object, or an array of them), when the bound view embeds
	// a related type's projection directly (§4.I JSON plane). Empty for
	// scalar fields.
	RelatesTo string
}

// BoundSource is the (view-name, jsonb-column, primary-key-column(s))
// triple a type resolves through for the JSON plane (§3).
type BoundSource struct {
	View             string
	JSONBColumn      string
	PrimaryKeyColumns []string
}

// FederationMeta is a TypeDef's federation metadata (§3).
type FederationMeta struct {
	// Keys is the set of field-name tuples declared by @key. Composite
	// keys are ordered tuples; most types declare exactly one key.
	Keys [][]string

	IsExtends bool

	// ExternalFields lists fields marked @external on an @extends type.
	ExternalFields []string

	// ShareableFields lists fields marked @shareable.
	ShareableFields []string

	// RequiresDependencies maps a field name to the field names it
	// @requires from the representation.
	RequiresDependencies map[string][]string

	// ProvidesDeclarations maps a field name to the field names it
	// @provides on the field's return type. Nothing reads it at run
	// time: no subgraph fetch is skipped on the strength of @provides.
	ProvidesDeclarations map[string][]string

	// Strategy is the resolution strategy selected for this type. It is
	// empty in the raw IR (derived at compile time, §4.C phase 4) unless
	// the input document pins one explicitly via configuration.
	Strategy fraiseql.ResolutionStrategyKind

	// Peer carries the peer-database connection descriptor for
	// StrategyPeerDatabase, or the subgraph URL for StrategyHTTPSubgraph.
	Peer string
}

// HasKeys reports whether this type declares any @key.
func (f FederationMeta) HasKeys() bool { return len(f.Keys) > 0 }

// ArrowBatch is one typed, shallow projection batch (§3, §4.I).
type ArrowBatch struct {
	Name   string
	Fields []ArrowField
}

// ArrowField is one column of an ArrowBatch.
type ArrowField struct {
	Name     string
	Type     ArrowType
	Nullable bool

	// ForeignKey optionally names a "batch.column" target in another
	// batch of the same projection; it must be non-nullable there (§3
	// invariant 4).
	ForeignKey string

	// Masking optionally names a masking strategy applied to this
	// column's values (e.g. "redact", "hash").
	Masking string
}

// ArrowType enumerates the Arrow scalar types this compiler can emit.
type ArrowType string

const (
	ArrowString       ArrowType = "string"
	ArrowInt64        ArrowType = "int64"
	ArrowFloat64      ArrowType = "float64"
	ArrowBool         ArrowType = "bool"
	ArrowDecimal128   ArrowType = "decimal128"
	ArrowTimestampUTC ArrowType = "timestamp_us_utc"
	ArrowDate32       ArrowType = "date32"
)

// AuthorizationMeta carries row-filter expression templates and
// field-level permission descriptors for a TypeDef (§3).
type AuthorizationMeta struct {
	// RowFilters are predicate expression templates declared for this
	// type. Build copies them from the document and the schema hash
	// covers them; nothing compiles them into a query. The row filters
	// the executor applies come from the privacy.RowFilterSet passed to
	// ExecuteList and ExecuteSingle.
	RowFilters []string

	// FieldPermissions maps a field name to a permission descriptor
	// (e.g. a role name or policy reference). Build copies it from the
	// document; nothing checks it when a response is built.
	FieldPermissions map[string]string
}

// OperationSet holds the root Query or Mutation operation descriptors
// for a Schema.
type OperationSet struct {
	Operations []OperationDef
}

// OperationDef describes one root Query/Mutation field: its name,
// argument shapes, and return type (§3).
type OperationDef struct {
	Name       string
	ReturnType string
	IsList     bool
	Arguments  []ArgumentDef

	// BoundType is the TypeDef name this operation resolves against.
	BoundType string

	// Kind distinguishes list/single/entities/mutation operations so the
	// SQL Template Generator (§4.C phase 3) picks the right template
	// shape.
	Kind OperationKind
}

// OperationKind is the SQL template shape an OperationDef compiles to.
type OperationKind string

const (
	OperationList     OperationKind = "list"
	OperationSingle   OperationKind = "single"
	OperationEntities OperationKind = "entities"
	OperationMutate   OperationKind = "mutate"
)

// IsSingleLookup reports whether k resolves by a primary-key argument
// rather than a keyset-paginated filter set, the distinction
// executor.Bind uses to decide whether a non-pagination argument binds
// as a PKValue or a plain filter arg.
func (k OperationKind) IsSingleLookup() bool {
	return k == OperationSingle
}

// ArgumentDef describes one argument of an OperationDef.
type ArgumentDef struct {
	Name     string
	Type     string
	Nullable bool
}

func sortStrings(s []string) {
	// insertion sort is fine: type counts in a schema are small and this
	// keeps the ir package free of a sort import used nowhere else.
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
