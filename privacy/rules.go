package privacy

import (
	"context"
	"fmt"
	"slices"
)

// Viewer represents the authenticated user making a request. Application
// code implements this against its own user/claims type.
type Viewer interface {
	GetID() string
	GetRoles() []string
	// GetTenantID returns the viewer's tenant identifier for
	// multi-tenancy. Returns "" if not applicable.
	GetTenantID() string
}

type viewerCtxKey struct{}

// WithViewer attaches viewer to ctx.
func WithViewer(ctx context.Context, viewer Viewer) context.Context {
	return context.WithValue(ctx, viewerCtxKey{}, viewer)
}

// ViewerFromContext retrieves the viewer attached by WithViewer, or nil.
func ViewerFromContext(ctx context.Context) Viewer {
	v, _ := ctx.Value(viewerCtxKey{}).(Viewer)
	return v
}

// SimpleViewer is a basic Viewer implementation for tests and simple
// deployments with no richer identity provider.
type SimpleViewer struct {
	UserID   string
	Roles    []string
	TenantID string
}

func (v *SimpleViewer) GetID() string       { return v.UserID }
func (v *SimpleViewer) GetRoles() []string  { return v.Roles }
func (v *SimpleViewer) GetTenantID() string { return v.TenantID }

// DenyIfNoViewer denies an operation if no viewer is attached to ctx.
// Typically the first rule in a policy, requiring authentication before
// any later rule runs.
func DenyIfNoViewer() Rule {
	return ContextRule(func(ctx context.Context) error {
		if ViewerFromContext(ctx) == nil {
			return Denyf("privacy: viewer required")
		}
		return Skip
	})
}

// HasRole allows if the viewer has role, else Skips to the next rule.
func HasRole(role string) Rule {
	return ContextRule(func(ctx context.Context) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		if slices.Contains(viewer.GetRoles(), role) {
			return Allow
		}
		return Skip
	})
}

// HasAnyRole allows if the viewer has any of roles, else Skips.
func HasAnyRole(roles ...string) Rule {
	return ContextRule(func(ctx context.Context) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		viewerRoles := viewer.GetRoles()
		for _, role := range roles {
			if slices.Contains(viewerRoles, role) {
				return Allow
			}
		}
		return Skip
	})
}

// IsOwner allows a mutation if its field argument equals the viewer's
// ID, else Skips. field must name an argument present on the mutation's
// Operation.Arguments (typically the entity's own ID argument for an
// update/delete).
func IsOwner(field string) Rule {
	return OnMutation(RuleFunc(func(ctx context.Context, op Operation) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		value, ok := op.Arguments[field]
		if !ok {
			return Skip
		}
		if scalarString(value) == viewer.GetID() {
			return Allow
		}
		return Skip
	}))
}

// TenantRule allows a mutation whose tenant argument matches the
// viewer's tenant, and denies on a mismatch (rather than Skip), since
// tenant isolation must never silently fall through to another rule.
func TenantRule(field string) Rule {
	return OnMutation(RuleFunc(func(ctx context.Context, op Operation) error {
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Skip
		}
		viewerTenant := viewer.GetTenantID()
		if viewerTenant == "" {
			return Skip
		}
		value, ok := op.Arguments[field]
		if !ok {
			return Skip
		}
		if scalarString(value) == viewerTenant {
			return Allow
		}
		return Denyf("privacy: tenant mismatch")
	}))
}

// TenantQueryRule denies a query unless the viewer is present and has a
// non-empty tenant ID. Use as a guard ahead of a RowFilterRule binding
// "app.tenant_id" so a missing tenant never silently queries across
// every tenant's rows.
func TenantQueryRule() Rule {
	return RuleFunc(func(ctx context.Context, op Operation) error {
		if op.IsMutation {
			return Skip
		}
		viewer := ViewerFromContext(ctx)
		if viewer == nil {
			return Denyf("privacy: viewer required for tenant-filtered query")
		}
		if viewer.GetTenantID() == "" {
			return Denyf("privacy: tenant required")
		}
		return Skip
	})
}

func scalarString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
