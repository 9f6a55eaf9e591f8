package capability

import "fmt"

// placeholderFunc renders a positional bind parameter in the dialect's
// native placeholder style. Postgres uses "$N"; MySQL and SQLite use "?"
// (ordinal position is implicit in argument order for those two).
type placeholderFunc func(paramIndex int) string

func dollarPlaceholder(paramIndex int) string { return fmt.Sprintf("$%d", paramIndex) }
func questionPlaceholder(int) string          { return "?" }

// renderTemplates returns the render(op) closure shared by a dialect's
// manifest construction: given an operator name, it returns a
// func(columnRef, paramIndex) string that quotes columnRef exactly as
// given (the compiler is responsible for dialect-correct identifier
// quoting before it ever reaches here -- §4.D: "all identifiers are
// quoted per dialect; no user input is interpolated") and substitutes the
// placeholder at paramIndex.
func renderTemplates(ph placeholderFunc) func(op string) func(string, int) string {
	return func(op string) func(string, int) string {
		switch op {
		case "_eq":
			return func(col string, idx int) string { return fmt.Sprintf("%s = %s", col, ph(idx)) }
		case "_neq":
			return func(col string, idx int) string { return fmt.Sprintf("%s <> %s", col, ph(idx)) }
		case "_gt":
			return func(col string, idx int) string { return fmt.Sprintf("%s > %s", col, ph(idx)) }
		case "_gte":
			return func(col string, idx int) string { return fmt.Sprintf("%s >= %s", col, ph(idx)) }
		case "_lt":
			return func(col string, idx int) string { return fmt.Sprintf("%s < %s", col, ph(idx)) }
		case "_lte":
			return func(col string, idx int) string { return fmt.Sprintf("%s <= %s", col, ph(idx)) }
		case "_is_null":
			return func(col string, _ int) string { return fmt.Sprintf("%s IS NULL", col) }
		case "_is_not_null":
			return func(col string, _ int) string { return fmt.Sprintf("%s IS NOT NULL", col) }
		case "_in":
			return func(col string, idx int) string { return fmt.Sprintf("%s = ANY(%s)", col, ph(idx)) }
		case "_not_in":
			return func(col string, idx int) string { return fmt.Sprintf("%s <> ALL(%s)", col, ph(idx)) }
		case "_like":
			return func(col string, idx int) string { return fmt.Sprintf("%s LIKE %s", col, ph(idx)) }
		case "_ilike":
			return func(col string, idx int) string { return fmt.Sprintf("%s ILIKE %s", col, ph(idx)) }
		case "_contains":
			return func(col string, idx int) string { return fmt.Sprintf("%s LIKE '%%' || %s || '%%'", col, ph(idx)) }
		case "_starts_with":
			return func(col string, idx int) string { return fmt.Sprintf("%s LIKE %s || '%%'", col, ph(idx)) }
		case "_ends_with":
			return func(col string, idx int) string { return fmt.Sprintf("%s LIKE '%%' || %s", col, ph(idx)) }
		case "_regex":
			return func(col string, idx int) string { return fmt.Sprintf("%s ~ %s", col, ph(idx)) }
		case "_has_key":
			return func(col string, idx int) string { return fmt.Sprintf("%s ? %s", col, ph(idx)) }
		case "_contains_path":
			return func(col string, idx int) string { return fmt.Sprintf("%s @> %s", col, ph(idx)) }
		case "_in_subnet":
			return func(col string, idx int) string { return fmt.Sprintf("%s <<= %s", col, ph(idx)) }
		default:
			return func(col string, idx int) string { return fmt.Sprintf("%s /* unknown operator %s */ %s", col, op, ph(idx)) }
		}
	}
}

// renderTemplatesMySQL is like renderTemplates but rewrites the few
// operators whose SQL syntax differs on MySQL: no ILIKE, no ~ regex
// operator (REGEXP instead), no ANY()/ALL() array comparisons (IN/NOT IN
// with an expanded placeholder list, arity resolved at bind time), and
// no jsonb containment/subnet operators (MySQL manifest omits those
// families' extra operators entirely rather than mis-rendering them).
func renderTemplatesMySQL(ph placeholderFunc) func(op string) func(string, int) string {
	base := renderTemplates(ph)
	return func(op string) func(string, int) string {
		switch op {
		case "_ilike":
			return func(col string, idx int) string { return fmt.Sprintf("LOWER(%s) LIKE LOWER(%s)", col, ph(idx)) }
		case "_regex":
			return func(col string, idx int) string { return fmt.Sprintf("%s REGEXP %s", col, ph(idx)) }
		case "_in":
			return func(col string, idx int) string { return fmt.Sprintf("%s IN (%s)", col, ph(idx)) }
		case "_not_in":
			return func(col string, idx int) string { return fmt.Sprintf("%s NOT IN (%s)", col, ph(idx)) }
		default:
			return base(op)
		}
	}
}

// renderTemplatesSQLite mirrors the MySQL adjustments for SQLite's
// simpler operator surface (no native ILIKE, no REGEXP without an
// extension, no array comparisons).
func renderTemplatesSQLite(ph placeholderFunc) func(op string) func(string, int) string {
	base := renderTemplates(ph)
	return func(op string) func(string, int) string {
		switch op {
		case "_ilike":
			return func(col string, idx int) string { return fmt.Sprintf("%s LIKE %s COLLATE NOCASE", col, ph(idx)) }
		case "_in":
			return func(col string, idx int) string { return fmt.Sprintf("%s IN (%s)", col, ph(idx)) }
		case "_not_in":
			return func(col string, idx int) string { return fmt.Sprintf("%s NOT IN (%s)", col, ph(idx)) }
		default:
			return base(op)
		}
	}
}
