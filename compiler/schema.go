// Package compiler implements the Schema Compiler (§4.C): the six-phase
// pipeline that turns a Schema IR plus a CapabilityManifest into a
// content-hashed CompiledSchema artifact. Compile never touches a live
// database connection (that's compiler/sqlgen's dialect rendering plus
// executor's runtime binding); it is pure data transformation, which is
// what lets CompiledSchema be cached, diffed, and distributed.
package compiler

import (
	"time"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/ir"
)

// CompiledSchema is the compiler's sole output: a self-contained,
// content-hashed artifact the executor loads once at startup and never
// mutates. Two compiles of the same Schema IR against the same target
// produce the same Hash (§3 invariant 5). CompiledAt is stamped from the
// clock on every compile and is part of the Marshal output, so the
// serialized artifacts are byte-identical only when the clock is pinned
// with WithClock.
type CompiledSchema struct {
	// Hash is the sha256 content hash of the canonicalized artifact,
	// computed last (phase 6) over everything below it.
	Hash string

	Target      fraiseql.Target
	CompiledAt  time.Time
	SourceTypes []string // sorted type names, for diagnostics only

	Types    map[string]*CompiledType
	Query    []CompiledOperation
	Mutation []CompiledOperation

	// Entities indexes every type with federation keys, for the
	// `_entities` root field (§4.G).
	Entities []EntityBinding
}

// CompiledType is one type's fully resolved compilation output: its
// WhereInputType operator bindings, SQL template references, and Arrow
// projection layout.
type CompiledType struct {
	Name string

	// Where maps a filterable field name to the operators the target's
	// CapabilityManifest resolved for its scalar family (phase 2).
	Where map[string]WhereField

	BoundSource *ir.BoundSource

	// KeysetColumns is the ordered tuple of columns a list query for this
	// type paginates on, derived from BoundSource.PrimaryKeyColumns
	// unless the IR declares an explicit sort key (keyset pagination,
	// §3, preferred over OFFSET per the REDESIGN FLAGS).
	KeysetColumns []string

	Arrow []ir.ArrowBatch

	Authorization ir.AuthorizationMeta

	Federation CompiledFederation

	// Fields is the serializable field-rewrite table response.BuildShapes
	// reconstructs this type's *response.RowShape from at schema load
	// time (§4.E).
	Fields []CompiledField
}

// CompiledField is one field's compile-time-resolved rewrite: its bound
// column name, camelCase output key, and (for a field composing a
// related type's JSON) that type's name.
type CompiledField struct {
	DBColumn  string
	OutputKey string
	RelatesTo string
}

// WhereField is one field's resolved WhereInputType operator binding.
type WhereField struct {
	Semantic  fraiseql.ScalarFamily
	Operators []string
}

// CompiledFederation is the compile-time-resolved federation binding for
// a type (§4.C phase 4): a concrete ResolutionStrategyKind plus whatever
// that strategy needs at execution time.
type CompiledFederation struct {
	Keys     [][]string
	Strategy fraiseql.ResolutionStrategyKind

	// Peer is the resolved peer-database DSN or subgraph base URL,
	// depending on Strategy.
	Peer string

	RequiresDependencies map[string][]string
	ProvidesDeclarations map[string][]string
}

// CompiledOperation is one root Query/Mutation field's compiled template
// reference: which SQL template to render and which type it binds to.
type CompiledOperation struct {
	Name       string
	BoundType  string
	Kind       ir.OperationKind
	IsList     bool
	ReturnType string
	Arguments  []ir.ArgumentDef

	// TemplateName keys into the SQL Template Generator's output
	// (compiler/sqlgen) for this operation.
	TemplateName string
}

// EntityBinding is one type's `_entities` resolution binding: enough to
// route a representation to the right strategy without re-reading the
// whole CompiledType (§4.G).
type EntityBinding struct {
	Typename string
	Keys     [][]string
	Strategy fraiseql.ResolutionStrategyKind
	Peer     string
}

// Lookup returns the CompiledType for name, and whether it exists.
func (s *CompiledSchema) Lookup(name string) (*CompiledType, bool) {
	t, ok := s.Types[name]
	return t, ok
}
