package federation

import (
	"github.com/fraiseql/fraiseql"
)

// CheckRequires verifies every field listed in requires is present on
// rep.Fields before a local resolver runs (§4.G step 3: "@requires:
// before the local resolver executes, ensure the declared dependency
// fields are present, either in the representation itself or fetched
// from the owning subgraph beforehand"). It only checks presence in the
// representation already supplied; nothing fetches a missing
// dependency. Resolver records the returned error for that
// representation and resolves the rest of the batch.
func CheckRequires(typename string, requires []string, rep Representation) error {
	for _, field := range requires {
		if _, ok := rep.Fields[field]; !ok {
			return &fraiseql.RequiresDependencyMissingError{
				Typename: typename,
				Field:    field,
			}
		}
	}
	return nil
}

// ProvidesSatisfied reports whether fields is fully covered by the
// @provides declaration provides. Neither the executor nor Resolver
// calls it, so no subgraph fetch is skipped on the strength of a
// @provides declaration.
func ProvidesSatisfied(provides []string, fields []string) bool {
	have := make(map[string]bool, len(provides))
	for _, f := range provides {
		have[f] = true
	}
	for _, f := range fields {
		if !have[f] {
			return false
		}
	}
	return true
}
