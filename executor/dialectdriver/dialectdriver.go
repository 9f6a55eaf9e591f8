// Package dialectdriver adapts dialect/sql's Driver/Conn to the
// executor's needs: opening a target connection and binding the
// per-request tenant/role session variables a row-filter policy
// depends on for database-enforced row-level security, in addition to
// FraiseQL's own row-filter templates (§4.F, §4.H).
package dialectdriver

import (
	"context"

	"github.com/fraiseql/fraiseql"
	sqldriver "github.com/fraiseql/fraiseql/dialect/sql"
)

// Open opens a *sqldriver.Driver for target's dialect name and dsn.
func Open(target fraiseql.Target, dsn string) (*sqldriver.Driver, error) {
	return sqldriver.Open(string(target), dsn)
}

// WithTenant binds the "app.tenant_id" session variable for the
// duration of ctx's query/transaction, the convention a row-filter
// template written against a Postgres RLS policy expects (§4.H).
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return sqldriver.WithVar(ctx, "app.tenant_id", tenantID)
}

// WithRole binds the "app.role" session variable, read by row-filter
// templates that branch on the caller's role rather than (or alongside)
// tenant identity.
func WithRole(ctx context.Context, role string) context.Context {
	return sqldriver.WithVar(ctx, "app.role", role)
}

// TenantFromContext returns the tenant ID bound by WithTenant, if any.
func TenantFromContext(ctx context.Context) (string, bool) {
	return sqldriver.VarFromContext(ctx, "app.tenant_id")
}
