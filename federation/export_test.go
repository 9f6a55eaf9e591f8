package federation

import (
	"context"

	"github.com/fraiseql/fraiseql/compiler"
)

// ResolveLocalForTest exposes resolveViaQuery to federation_test without
// widening the package's real exported surface.
func ResolveLocalForTest(ctx context.Context, s *LocalStrategy, typename string, keyFields []string, reps []Representation, ct *compiler.CompiledType) ([][]byte, []error) {
	return resolveViaQuery(ctx, s.Driver, s.Dialect, typename, keyFields, reps, ct)
}
