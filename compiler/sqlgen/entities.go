package sqlgen

import (
	"fmt"
	"strings"
)

// EntitiesQuery renders the parameterized SQL for a batched `_entities`
// key lookup against a local view: one IN (...) predicate over the key
// tuple values extracted from the representations (§4.G). The executor
// is responsible for re-ordering the returned rows back to the
// representation order, since SQL gives no ordering guarantee for an IN
// list -- the same concern contrib/dataloader's OrderByKeys solves for
// batched field resolution, generalized here to federation.
func EntitiesQuery(dialect Dialect, view, jsonbColumn string, keysetColumns []string, batchSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s WHERE ", dialect.QuoteIdentifier(jsonbColumn), dialect.QuoteIdentifier(view))

	if len(keysetColumns) == 1 {
		placeholders := make([]string, batchSize)
		for i := range placeholders {
			placeholders[i] = dialect.Placeholder(i + 1)
		}
		fmt.Fprintf(&b, "%s IN (%s)", dialect.QuoteIdentifier(keysetColumns[0]), strings.Join(placeholders, ", "))
		return b.String()
	}

	quoted := make([]string, len(keysetColumns))
	for i, col := range keysetColumns {
		quoted[i] = dialect.QuoteIdentifier(col)
	}
	tuple := "(" + strings.Join(quoted, ", ") + ")"

	rowValues := make([]string, batchSize)
	offset := 0
	for i := 0; i < batchSize; i++ {
		placeholders := make([]string, len(keysetColumns))
		for j := range keysetColumns {
			offset++
			placeholders[j] = dialect.Placeholder(offset)
		}
		rowValues[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}
	fmt.Fprintf(&b, "%s IN (%s)", tuple, strings.Join(rowValues, ", "))
	return b.String()
}
