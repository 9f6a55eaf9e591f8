// Package sqlgen is the SQL Template Generator (§4.C phase 3): it turns
// a resolved Schema IR type plus its CapabilityManifest bindings into
// parameterized SQL template strings, one per dialect. Templates are
// rendered with positional placeholders only ($1/?); no value is ever
// interpolated directly into a template, keeping every generated
// statement safe against injection by construction.
package sqlgen

import (
	"fmt"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/ir"
)

// Dialect is the minimal interface a target must implement for template
// generation, mirroring the teacher's interface-segregation style
// (small, single-purpose interfaces over one fat one) rather than a
// single Dialect god-interface.
type Dialect interface {
	Target() fraiseql.Target
	QuoteIdentifier(name string) string
	Placeholder(index int) string
}

// ForTarget returns the Dialect implementation for target.
func ForTarget(target fraiseql.Target) (Dialect, error) {
	switch target {
	case fraiseql.TargetPostgres:
		return postgresDialect{}, nil
	case fraiseql.TargetMySQL:
		return mysqlDialect{}, nil
	case fraiseql.TargetSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("sqlgen: unknown target %q", target)
	}
}

// ValidateTemplatable checks that typeDef carries everything phase 3
// needs to render a SQL template: a bound view, a JSONB projection
// column, and at least one primary key column for keyset pagination.
func ValidateTemplatable(dialect Dialect, typeDef *ir.TypeDef) error {
	if typeDef.BoundSource == nil {
		return fmt.Errorf("sqlgen: type %q has no bound source to template against", typeDef.Name)
	}
	if typeDef.BoundSource.View == "" {
		return fmt.Errorf("sqlgen: type %q bound source has no view name", typeDef.Name)
	}
	if typeDef.BoundSource.JSONBColumn == "" {
		return fmt.Errorf("sqlgen: type %q bound source has no jsonb projection column", typeDef.Name)
	}
	if len(typeDef.BoundSource.PrimaryKeyColumns) == 0 {
		return fmt.Errorf("sqlgen: type %q bound source has no primary key columns for keyset pagination", typeDef.Name)
	}
	return nil
}

// TemplateName returns the stable identifier a CompiledOperation uses to
// look up its rendered SQL template at execution time.
func TemplateName(dialect Dialect, op ir.OperationDef) (string, error) {
	if op.Kind == "" {
		return "", fmt.Errorf("sqlgen: operation %q has no kind", op.Name)
	}
	return fmt.Sprintf("%s.%s.%s", dialect.Target(), op.Kind, op.Name), nil
}

type postgresDialect struct{}

func (postgresDialect) Target() fraiseql.Target { return fraiseql.TargetPostgres }
func (postgresDialect) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}
func (postgresDialect) Placeholder(index int) string { return fmt.Sprintf("$%d", index) }

type mysqlDialect struct{}

func (mysqlDialect) Target() fraiseql.Target { return fraiseql.TargetMySQL }
func (mysqlDialect) QuoteIdentifier(name string) string {
	return "`" + name + "`"
}
func (mysqlDialect) Placeholder(int) string { return "?" }

type sqliteDialect struct{}

func (sqliteDialect) Target() fraiseql.Target { return fraiseql.TargetSQLite }
func (sqliteDialect) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}
func (sqliteDialect) Placeholder(int) string { return "?" }
