// Package privacy provides the policy-rule framework authorization.go
// (executor) and the compiler's AuthorizationMeta both build on: a
// chain of rules each returning Allow, Deny, or Skip, evaluated in
// order until one makes a decision (§4.H).
package privacy

import (
	"context"
	"errors"
	"fmt"
)

// Policy decision sentinel errors. Use errors.Is to check for these
// values rather than comparing directly, since Allowf/Denyf/Skipf wrap
// them with a formatted message.
var (
	// Allow terminates rule evaluation with an allow decision.
	Allow = errors.New("fraiseql/privacy: allow rule")

	// Deny terminates rule evaluation with a deny decision.
	Deny = errors.New("fraiseql/privacy: deny rule")

	// Skip defers the decision to the next rule in the chain. A policy
	// with no remaining rules after every rule Skips defaults to Allow.
	Skip = errors.New("fraiseql/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error { return fmt.Errorf(format+": %w", append(a, Allow)...) }

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error { return fmt.Errorf(format+": %w", append(a, Deny)...) }

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error { return fmt.Errorf(format+": %w", append(a, Skip)...) }

// Operation is the evaluation context a Rule inspects: the root
// Query/Mutation field being executed, the type it's bound to, and the
// raw GraphQL argument values (§4.H). Operation is intentionally a much
// thinner shape than a generated query-builder type -- privacy rules in
// FraiseQL decide whether an operation proceeds and which row filters
// apply; they do not mutate a query-builder in place since there is no
// query builder at this layer, only a SQL template plus bound
// parameters (compiler/sqlgen).
type Operation struct {
	TypeName   string
	FieldName  string
	IsMutation bool
	Arguments  map[string]any
}

// Rule decides whether an Operation is permitted, and optionally
// contributes a row-filter predicate template via RowFilters attached
// to the context (see WithRowFilters/RowFiltersFromContext).
type Rule interface {
	Eval(context.Context, Operation) error
}

// RuleFunc adapts an ordinary function to a Rule.
type RuleFunc func(context.Context, Operation) error

// Eval calls f(ctx, op).
func (f RuleFunc) Eval(ctx context.Context, op Operation) error { return f(ctx, op) }

// AlwaysAllowRule returns a Rule that always decides Allow.
func AlwaysAllowRule() Rule { return fixedDecision{Allow} }

// AlwaysDenyRule returns a Rule that always decides Deny.
func AlwaysDenyRule() Rule { return fixedDecision{Deny} }

// ContextRule builds a Rule from a context-only evaluation function,
// for rules that only need the caller identity/claims on ctx and don't
// inspect the Operation at all.
func ContextRule(eval func(context.Context) error) Rule {
	return RuleFunc(func(ctx context.Context, _ Operation) error { return eval(ctx) })
}

// OnMutation restricts rule to mutation operations; it Skips for
// queries.
func OnMutation(rule Rule) Rule {
	return RuleFunc(func(ctx context.Context, op Operation) error {
		if !op.IsMutation {
			return Skip
		}
		return rule.Eval(ctx, op)
	})
}

// Policy is an ordered chain of rules, the compiled form of a type's
// AuthorizationMeta (ir.AuthorizationMeta, compiler.CompiledType.Authorization).
type Policy []Rule

// Eval runs rules in order. The first non-Skip decision wins: Allow
// stops evaluation with a nil error, Deny stops evaluation returning
// that Deny error (wrapped as fraiseql.PermissionDeniedError by the
// caller in executor/authorization.go), and Skip falls through to the
// next rule. A context carrying a DecisionContext short-circuits
// entirely, for nested evaluation (e.g. a federation subgraph fetch
// re-using its parent request's already-made decision).
func (p Policy) Eval(ctx context.Context, op Operation) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, rule := range p {
		switch decision := rule.Eval(ctx, op); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

type decisionCtxKey struct{}

// DecisionContext attaches a policy decision to ctx so nested
// evaluation can short-circuit to it instead of re-running every rule.
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext retrieves a decision attached by DecisionContext.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

type fixedDecision struct{ decision error }

func (f fixedDecision) Eval(context.Context, Operation) error { return f.decision }

// RowFilterRule appends a row-filter predicate template (already
// rendered by compiler/sqlgen against a field and value from ctx, e.g. a
// tenant ID) to the set the executor binds into a list/single query's
// WHERE clause, then Skips so later rules still run.
type RowFilterRule struct {
	Render func(context.Context, Operation) (predicate string, args []any, err error)
}

// Eval renders the predicate and appends it to ctx's RowFilterSet, if
// one is present; it is a configuration error to use RowFilterRule
// without the executor having installed a RowFilterSet on ctx first.
func (r RowFilterRule) Eval(ctx context.Context, op Operation) error {
	set, ok := RowFiltersFromContext(ctx)
	if !ok {
		return Denyf("fraiseql/privacy: no row filter set on context for rule on %s.%s", op.TypeName, op.FieldName)
	}
	predicate, args, err := r.Render(ctx, op)
	if err != nil {
		return err
	}
	set.Add(predicate, args...)
	return Skip
}

// RowFilterSet accumulates the predicate templates and bound arguments
// a request's row-filter rules contribute, in rule-evaluation order.
type RowFilterSet struct {
	Predicates []string
	Args       []any
}

// Add appends one rendered predicate and its bound arguments.
func (s *RowFilterSet) Add(predicate string, args ...any) {
	s.Predicates = append(s.Predicates, predicate)
	s.Args = append(s.Args, args...)
}

type rowFilterCtxKey struct{}

// WithRowFilters installs set on ctx for RowFilterRule to append to.
func WithRowFilters(ctx context.Context, set *RowFilterSet) context.Context {
	return context.WithValue(ctx, rowFilterCtxKey{}, set)
}

// RowFiltersFromContext retrieves the RowFilterSet installed by
// WithRowFilters.
func RowFiltersFromContext(ctx context.Context) (*RowFilterSet, bool) {
	set, ok := ctx.Value(rowFilterCtxKey{}).(*RowFilterSet)
	return set, ok
}
