package ir

// Document is the on-disk/input shape of a Schema IR document: plain
// JSON describing types, fields, view bindings, federation directives,
// and Arrow projections (§6 Inputs). The compiler's Load step decodes a
// Document and Build turns it into a Schema.
type Document struct {
	Types    []DocumentType     `json:"types"`
	Query    []DocumentOperation `json:"query"`
	Mutation []DocumentOperation `json:"mutation"`
}

// DocumentType is one type entry of a Document.
type DocumentType struct {
	Name   string          `json:"name"`
	Fields []DocumentField `json:"fields"`

	// View, JSONBColumn and PrimaryKey describe a local BoundSource.
	// Omitted entirely for types resolved purely through federation.
	View        string   `json:"view,omitempty"`
	JSONBColumn string   `json:"jsonbColumn,omitempty"`
	PrimaryKey  []string `json:"primaryKey,omitempty"`

	Federation    *DocumentFederation    `json:"federation,omitempty"`
	Arrow         []DocumentArrowBatch   `json:"arrow,omitempty"`
	Authorization *DocumentAuthorization `json:"authorization,omitempty"`
}

// DocumentField is one field entry of a DocumentType.
type DocumentField struct {
	Name        string `json:"name"`
	Semantic    string `json:"semantic"`
	GraphQLType string `json:"graphqlType"`
	Nullable    bool   `json:"nullable"`
	HasDefault  bool   `json:"hasDefault,omitempty"`
	Default     any    `json:"default,omitempty"`
	BoundColumn string `json:"boundColumn,omitempty"`
	Filterable  bool   `json:"filterable,omitempty"`
	Transform   string `json:"transform,omitempty"`

	// Operators restricts which of the field's scalar family's manifest
	// operators are actually exposed in the WhereInputType (§4.C phase 2:
	// "the exposed operator set"). Empty means "every operator the
	// target's manifest declares for this field's family" -- the common
	// case, set explicitly only when an author wants to narrow a field's
	// filter surface below what the target could otherwise support.
	Operators []string `json:"operators,omitempty"`

	// RelatesTo names the TypeDef this field's bound JSON value composes
	// (a nested object, or an array of them) when the bound view embeds
	// a related type's projection directly in the JSONB column (§4.I
	// JSON plane). Empty for scalar fields.
	RelatesTo string `json:"relatesTo,omitempty"`
}

// DocumentFederation mirrors the @key/@extends/@external/@requires/
// @provides/@shareable directives attached to a type.
type DocumentFederation struct {
	Keys            [][]string          `json:"keys,omitempty"`
	Extends         bool                 `json:"extends,omitempty"`
	External        []string             `json:"external,omitempty"`
	Shareable       []string             `json:"shareable,omitempty"`
	Requires        map[string][]string  `json:"requires,omitempty"`
	Provides        map[string][]string  `json:"provides,omitempty"`
	Strategy        string               `json:"strategy,omitempty"`
	Peer            string               `json:"peer,omitempty"`
}

// DocumentArrowBatch describes one Arrow projection batch definition.
type DocumentArrowBatch struct {
	Name   string               `json:"name"`
	Fields []DocumentArrowField `json:"fields"`
}

// DocumentArrowField describes one column of a DocumentArrowBatch.
type DocumentArrowField struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	ForeignKey string `json:"foreignKey,omitempty"`
	Masking    string `json:"masking,omitempty"`
}

// DocumentAuthorization carries a type's row-filter templates and
// field-level permission map.
type DocumentAuthorization struct {
	RowFilters      []string          `json:"rowFilters,omitempty"`
	FieldPermissions map[string]string `json:"fieldPermissions,omitempty"`
}

// DocumentOperation describes one root Query/Mutation field entry.
type DocumentOperation struct {
	Name       string                    `json:"name"`
	ReturnType string                    `json:"returnType"`
	IsList     bool                      `json:"isList,omitempty"`
	BoundType  string                    `json:"boundType"`
	Kind       string                    `json:"kind"`
	Arguments  []DocumentOperationArgument `json:"arguments,omitempty"`
}

// DocumentOperationArgument describes one argument of a DocumentOperation.
type DocumentOperationArgument struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable,omitempty"`
}
