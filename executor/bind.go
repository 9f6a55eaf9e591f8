package executor

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/fraiseql/fraiseql/compiler"
)

// ParseOperation parses raw GraphQL operation text into the standard
// operation AST this package's Bind function consumes (§1: "the
// GraphQL parser proper... is assumed to produce a standard operation
// AST"). Grounded on hanpama-protograph/internal/language's
// parser.ParseQuery wrapping -- the one repo in the retrieved pack that
// uses vektah/gqlparser as its actual query parser rather than its
// federation-plugin AST alone.
func ParseOperation(source string) (*ast.QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, fmt.Errorf("executor: parse operation: %w", err)
	}
	return doc, nil
}

// Bind is the AST-to-BoundQuery translation step between the parser
// and this package's own execution boundary: it selects operationName
// out of doc (or the document's sole operation, if it defines exactly
// one and operationName is empty, matching the GraphQL spec's
// anonymous-operation rule), resolves each of its root-level fields
// against schema's compiled Query/Mutation operation table, and
// produces one BoundQuery per root field ready for
// Executor.ExecuteList/ExecuteSingle.
//
// Bind only understands the handful of argument shapes the compiled
// SQL templates themselves consume -- pagination (first/after) for
// list operations and primary-key lookup arguments for single-row
// ones. Turning a filter argument's GraphQL value into a rendered
// predicate is querylanguage's job (see compiler/sqlgen's Where
// clauses); Bind passes every other argument through as a raw scalar
// in BoundQuery.Args, in declaration order, for that layer to consume.
func Bind(doc *ast.QueryDocument, operationName string, variables map[string]any, schema *compiler.CompiledSchema) ([]BoundQuery, error) {
	op, err := selectOperation(doc, operationName)
	if err != nil {
		return nil, err
	}

	ops := schema.Query
	if op.Operation == ast.Mutation {
		ops = schema.Mutation
	}
	byName := make(map[string]compiler.CompiledOperation, len(ops))
	for _, co := range ops {
		byName[co.Name] = co
	}

	bound := make([]BoundQuery, 0, len(op.SelectionSet))
	for _, sel := range op.SelectionSet {
		field, ok := sel.(*ast.Field)
		if !ok {
			// Fragment spreads are flattened into root fields upstream
			// of this boundary; FraiseQL's compiled schema only names
			// root Query/Mutation fields, never fragment types.
			continue
		}
		co, ok := byName[field.Name]
		if !ok {
			return nil, fmt.Errorf("executor: no compiled operation named %q", field.Name)
		}

		bq := BoundQuery{
			Field:    field.Alias,
			TypeName: co.BoundType,
			Kind:     co.Kind,
		}
		if bq.Field == "" {
			bq.Field = field.Name
		}

		if err := bindArguments(&bq, field.Arguments, co, variables); err != nil {
			return nil, fmt.Errorf("executor: field %q: %w", field.Name, err)
		}
		bound = append(bound, bq)
	}
	return bound, nil
}

func selectOperation(doc *ast.QueryDocument, operationName string) (*ast.OperationDefinition, error) {
	if operationName == "" {
		if len(doc.Operations) == 1 {
			return doc.Operations[0], nil
		}
		return nil, fmt.Errorf("executor: operationName required, document defines %d operations", len(doc.Operations))
	}
	for _, op := range doc.Operations {
		if op.Name == operationName {
			return op, nil
		}
	}
	return nil, fmt.Errorf("executor: no operation named %q", operationName)
}

// bindArguments resolves first/after pagination arguments and,
// everything else, primary-key/filter scalars in their declared order.
// PKValues is only populated for single-row operations: a list
// operation's non-pagination arguments become filter args instead,
// left for the caller's querylanguage-rendered Filters/Args to line up
// positionally with (Bind itself renders no predicates).
func bindArguments(bq *BoundQuery, args ast.ArgumentList, co compiler.CompiledOperation, variables map[string]any) error {
	for _, arg := range args {
		value, err := arg.Value.Value(variables)
		if err != nil {
			return fmt.Errorf("argument %q: %w", arg.Name, err)
		}
		switch {
		case arg.Name == "first" && co.IsList:
			n, ok := value.(int64)
			if !ok {
				return fmt.Errorf("argument %q: expected an integer", arg.Name)
			}
			bq.First = int(n)
		case arg.Name == "after" && co.IsList:
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("argument %q: expected a string", arg.Name)
			}
			bq.After = s
		case co.Kind.IsSingleLookup():
			bq.PKValues = append(bq.PKValues, value)
		default:
			bq.Args = append(bq.Args, value)
		}
	}
	return nil
}
