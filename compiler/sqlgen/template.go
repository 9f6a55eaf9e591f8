package sqlgen

import (
	"fmt"
	"strings"
)

// ListQuery renders the parameterized SQL for a list operation over a
// JSONB-projecting view: a keyset-paginated SELECT returning the raw
// JSON text column, never the parsed value (§3, §4.E -- the Response
// Builder concatenates this text directly into the HTTP response).
//
// rowFilters are already-rendered predicate templates (querylanguage
// output); keysetColumns is the ordered tuple the cursor WHERE clause
// and ORDER BY are built from. placeholderOffset lets a caller compose
// this template after already-bound filter parameters.
func ListQuery(dialect Dialect, view, jsonbColumn string, keysetColumns, rowFilters []string, placeholderOffset int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", dialect.QuoteIdentifier(jsonbColumn), dialect.QuoteIdentifier(view))

	conditions := append([]string(nil), rowFilters...)
	if len(keysetColumns) > 0 {
		conditions = append(conditions, keysetCondition(dialect, keysetColumns, placeholderOffset))
	}
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}

	if len(keysetColumns) > 0 {
		b.WriteString(" ORDER BY ")
		quoted := make([]string, len(keysetColumns))
		for i, col := range keysetColumns {
			quoted[i] = dialect.QuoteIdentifier(col)
		}
		b.WriteString(strings.Join(quoted, ", "))
	}

	b.WriteString(" LIMIT ")
	b.WriteString(dialect.Placeholder(placeholderOffset + len(keysetColumns) + 1))

	return b.String()
}

// SingleQuery renders the parameterized SQL for a single-row lookup by
// primary key.
func SingleQuery(dialect Dialect, view, jsonbColumn string, keysetColumns, rowFilters []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", dialect.QuoteIdentifier(jsonbColumn), dialect.QuoteIdentifier(view))

	conditions := make([]string, 0, len(rowFilters)+len(keysetColumns))
	conditions = append(conditions, rowFilters...)
	for i, col := range keysetColumns {
		conditions = append(conditions, fmt.Sprintf("%s = %s", dialect.QuoteIdentifier(col), dialect.Placeholder(i+1)))
	}
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	return b.String()
}

// keysetCondition renders the standard keyset-pagination predicate: a
// row-value comparison against the last-seen key tuple, which is the
// idiomatic replacement for OFFSET the REDESIGN FLAGS call for. For a
// single-column key this is a plain `col > $n`; composite keys use a
// row-value comparison, which every target in this pack's capability
// matrix supports.
func keysetCondition(dialect Dialect, keysetColumns []string, placeholderOffset int) string {
	if len(keysetColumns) == 1 {
		return fmt.Sprintf("%s > %s", dialect.QuoteIdentifier(keysetColumns[0]), dialect.Placeholder(placeholderOffset+1))
	}
	quoted := make([]string, len(keysetColumns))
	placeholders := make([]string, len(keysetColumns))
	for i, col := range keysetColumns {
		quoted[i] = dialect.QuoteIdentifier(col)
		placeholders[i] = dialect.Placeholder(placeholderOffset + i + 1)
	}
	return fmt.Sprintf("(%s) > (%s)", strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}
