// Package querylanguage is a small predicate pretty-printer used to
// render and explain row-filter expressions -- the privacy/RowFilterRule
// and AuthorizationMeta templates a CompiledType carries -- in a
// readable, ent-style debug form. It does not generate SQL; SQL
// generation for these same predicates lives in compiler/sqlgen.
package querylanguage

import (
	"fmt"
	"strings"
)

// P is a predicate expression node: a boolean test, comparison, or
// combinator that can render itself and produce its own negation.
type P interface {
	String() string
	Negate() P
}

// F is a bare identifier reference -- a field name, or another field
// being compared against -- rendered unquoted.
type F string

func (f F) String() string { return string(f) }

// rawLiteral renders its text verbatim, unquoted. Used for values
// already formatted to their exact output text (e.g. non-scientific
// float literals), so lit doesn't re-quote them as strings.
type rawLiteral string

func (r rawLiteral) String() string { return string(r) }

// lit renders value as a literal operand: quoted for strings, "nil"
// for a nil value, delegated to String() for anything implementing it
// (P, F, rawLiteral), and Go's default formatting otherwise.
func lit(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case string:
		return fmt.Sprintf("%q", v)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// BinaryExpr is a two-operand comparison: left Op right.
type BinaryExpr struct {
	Op          string
	Left, Right any
}

func (e BinaryExpr) String() string { return fmt.Sprintf("%s %s %s", lit(e.Left), e.Op, lit(e.Right)) }

// Negate wraps the comparison in a single negation.
func (e BinaryExpr) Negate() P { return UnaryExpr{Op: "!", Operand: e} }

// UnaryExpr negates Operand.
type UnaryExpr struct {
	Op      string
	Operand P
}

func (e UnaryExpr) String() string { return fmt.Sprintf("%s(%s)", e.Op, e.Operand.String()) }

// Negate wraps an already-negated expression in a second negation,
// rather than unwrapping it -- double negation is rendered explicitly.
func (e UnaryExpr) Negate() P { return UnaryExpr{Op: "!", Operand: e} }

// NaryExpr is an n-ary And/Or chain. Exactly two operands render as a
// bare "left Op right" join; three or more wrap the whole chain in
// parentheses, since a longer chain stops reading unambiguously once
// it's nested inside another expression.
type NaryExpr struct {
	Op       string
	Operands []P
}

func (e NaryExpr) String() string {
	parts := make([]string, len(e.Operands))
	for i, operand := range e.Operands {
		parts[i] = operand.String()
	}
	joined := strings.Join(parts, " "+e.Op+" ")
	if len(e.Operands) > 2 {
		return "(" + joined + ")"
	}
	return joined
}

func (e NaryExpr) Negate() P { return UnaryExpr{Op: "!", Operand: e} }

// CallExpr renders a named predicate call: Name(args...).
type CallExpr struct {
	Name string
	Args []any
}

func (e CallExpr) String() string {
	parts := make([]string, len(e.Args))
	for i, arg := range e.Args {
		parts[i] = lit(arg)
	}
	return fmt.Sprintf("%s(%s)", e.Name, strings.Join(parts, ", "))
}

func (e CallExpr) Negate() P { return UnaryExpr{Op: "!", Operand: e} }

// InExpr renders a field membership test: field [not] in [v1,v2,...].
type InExpr struct {
	Field  string
	Not    bool
	Values []any
}

func (e InExpr) String() string {
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		parts[i] = lit(v)
	}
	op := "in"
	if e.Not {
		op = "not in"
	}
	return fmt.Sprintf("%s %s [%s]", e.Field, op, strings.Join(parts, ","))
}

func (e InExpr) Negate() P { return InExpr{Field: e.Field, Not: !e.Not, Values: e.Values} }

// And combines predicates with a logical AND.
func And(ps ...P) P { return NaryExpr{Op: "&&", Operands: ps} }

// Or combines predicates with a logical OR.
func Or(ps ...P) P { return NaryExpr{Op: "||", Operands: ps} }

// Not negates p.
func Not(p P) P { return UnaryExpr{Op: "!", Operand: p} }

// EQ compares two operands for equality.
func EQ(left, right any) P { return BinaryExpr{Op: "==", Left: left, Right: right} }

// NEQ compares two operands for inequality.
func NEQ(left, right any) P { return BinaryExpr{Op: "!=", Left: left, Right: right} }

// GT compares two operands with >.
func GT(left, right any) P { return BinaryExpr{Op: ">", Left: left, Right: right} }

// GTE compares two operands with >=.
func GTE(left, right any) P { return BinaryExpr{Op: ">=", Left: left, Right: right} }

// LT compares two operands with <.
func LT(left, right any) P { return BinaryExpr{Op: "<", Left: left, Right: right} }

// LTE compares two operands with <=.
func LTE(left, right any) P { return BinaryExpr{Op: "<=", Left: left, Right: right} }

// FieldEQ checks field equals value.
func FieldEQ(field string, value any) P { return EQ(F(field), value) }

// FieldNEQ checks field does not equal value.
func FieldNEQ(field string, value any) P { return NEQ(F(field), value) }

// FieldGT checks field is greater than value.
func FieldGT(field string, value any) P { return GT(F(field), value) }

// FieldGTE checks field is greater than or equal to value.
func FieldGTE(field string, value any) P { return GTE(F(field), value) }

// FieldLT checks field is less than value.
func FieldLT(field string, value any) P { return LT(F(field), value) }

// FieldLTE checks field is less than or equal to value.
func FieldLTE(field string, value any) P { return LTE(F(field), value) }

// FieldNil checks field is nil.
func FieldNil(field string) P { return EQ(F(field), nil) }

// FieldNotNil checks field is not nil.
func FieldNotNil(field string) P { return NEQ(F(field), nil) }

// FieldIn checks field's value is one of values.
func FieldIn(field string, values ...any) P { return InExpr{Field: field, Values: values} }

// FieldNotIn checks field's value is none of values.
func FieldNotIn(field string, values ...any) P {
	return InExpr{Field: field, Not: true, Values: values}
}

// FieldContains checks field contains value as a substring.
func FieldContains(field string, value any) P {
	return CallExpr{Name: "contains", Args: []any{F(field), value}}
}

// FieldContainsFold checks field contains value as a substring, folding case.
func FieldContainsFold(field string, value any) P {
	return CallExpr{Name: "contains_fold", Args: []any{F(field), value}}
}

// FieldEqualFold checks field equals value, folding case.
func FieldEqualFold(field string, value any) P {
	return CallExpr{Name: "equal_fold", Args: []any{F(field), value}}
}

// FieldHasPrefix checks field starts with value.
func FieldHasPrefix(field string, value any) P {
	return CallExpr{Name: "has_prefix", Args: []any{F(field), value}}
}

// FieldHasSuffix checks field ends with value.
func FieldHasSuffix(field string, value any) P {
	return CallExpr{Name: "has_suffix", Args: []any{F(field), value}}
}

// HasEdge checks that edge has at least one connected vertex.
func HasEdge(edge string) P { return CallExpr{Name: "has_edge", Args: []any{F(edge)}} }

// HasEdgeWith checks that edge has at least one connected vertex
// satisfying p, nesting p's own rendering inside the call.
func HasEdgeWith(edge string, p P) P {
	return CallExpr{Name: "has_edge", Args: []any{F(edge), p}}
}
