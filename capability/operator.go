package capability

import (
	"fmt"
	"regexp"

	"github.com/fraiseql/fraiseql"
)

// errNonEmptyList validates an _in/_not_in style operator's value.
func errNonEmptyList(value any) error {
	switch v := value.(type) {
	case []any:
		if len(v) == 0 {
			return fmt.Errorf("capability: list operator requires at least one value")
		}
	}
	return nil
}

// errValidRegex validates a _regex style operator's pattern against Go's
// regexp syntax as a conservative proxy for the target's native regex
// dialect; dialect renderers still quote the pattern as a bind parameter,
// never interpolate it.
func errValidRegex(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("capability: _regex value must be a string")
	}
	if _, err := regexp.Compile(s); err != nil {
		return fmt.Errorf("capability: invalid regex pattern: %w", err)
	}
	return nil
}

func noValidation(any) error { return nil }

// equality builds the common _eq/_neq/_in/_not_in/_is_null/_is_not_null
// operator set shared by (almost) every scalar family, parameterized by
// the dialect-specific SQL each operator renders to.
func equality(family fraiseql.ScalarFamily, render func(op string) func(string, int) string) []OperatorSpec {
	return []OperatorSpec{
		{Name: "_eq", Family: family, Arity: 1, Validate: noValidation, Template: render("_eq")},
		{Name: "_neq", Family: family, Arity: 1, Validate: noValidation, Template: render("_neq")},
		{Name: "_in", Family: family, Arity: -1, Validate: errNonEmptyList, Template: render("_in")},
		{Name: "_not_in", Family: family, Arity: -1, Validate: errNonEmptyList, Template: render("_not_in")},
		{Name: "_is_null", Family: family, Arity: 0, Validate: noValidation, Template: render("_is_null")},
		{Name: "_is_not_null", Family: family, Arity: 0, Validate: noValidation, Template: render("_is_not_null")},
	}
}

// ordering builds the _gt/_gte/_lt/_lte comparison operator set for
// orderable scalar families (numeric, temporal).
func ordering(family fraiseql.ScalarFamily, render func(op string) func(string, int) string) []OperatorSpec {
	return []OperatorSpec{
		{Name: "_gt", Family: family, Arity: 1, Validate: noValidation, Template: render("_gt")},
		{Name: "_gte", Family: family, Arity: 1, Validate: noValidation, Template: render("_gte")},
		{Name: "_lt", Family: family, Arity: 1, Validate: noValidation, Template: render("_lt")},
		{Name: "_lte", Family: family, Arity: 1, Validate: noValidation, Template: render("_lte")},
	}
}

// stringMatching builds the _like/_ilike/_contains/_starts_with/_ends_with
// string-matching operator set, plus _regex where the target supports it.
func stringMatching(family fraiseql.ScalarFamily, withRegex bool, render func(op string) func(string, int) string) []OperatorSpec {
	ops := []OperatorSpec{
		{Name: "_like", Family: family, Arity: 1, Validate: noValidation, Template: render("_like")},
		{Name: "_ilike", Family: family, Arity: 1, Validate: noValidation, Template: render("_ilike")},
		{Name: "_contains", Family: family, Arity: 1, Validate: noValidation, Template: render("_contains")},
		{Name: "_starts_with", Family: family, Arity: 1, Validate: noValidation, Template: render("_starts_with")},
		{Name: "_ends_with", Family: family, Arity: 1, Validate: noValidation, Template: render("_ends_with")},
	}
	if withRegex {
		ops = append(ops, OperatorSpec{Name: "_regex", Family: family, Arity: 1, Validate: errValidRegex, Template: render("_regex")})
	}
	return ops
}

// jsonbOperators builds the _contains_path/_has_key jsonb operator set for
// targets with native JSON containment support.
func jsonbOperators(render func(op string) func(string, int) string) []OperatorSpec {
	return []OperatorSpec{
		{Name: "_has_key", Family: fraiseql.ScalarJSONB, Arity: 1, Validate: noValidation, Template: render("_has_key")},
		{Name: "_contains_path", Family: fraiseql.ScalarJSONB, Arity: 1, Validate: noValidation, Template: render("_contains_path")},
	}
}

// networkOperators builds the _in_subnet operator for inet/cidr families.
func networkOperators(render func(op string) func(string, int) string) []OperatorSpec {
	return []OperatorSpec{
		{Name: "_in_subnet", Family: fraiseql.ScalarNetwork, Arity: 1, Validate: noValidation, Template: render("_in_subnet")},
	}
}
