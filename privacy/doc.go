// Package privacy provides the rule-based authorization framework that
// executor/authorization.go and a CompiledType's Authorization metadata
// build on: an ordered chain of rules, each returning Allow, Deny, or
// Skip, evaluated until one makes a decision.
//
// # Core Concepts
//
// The privacy layer is built around three main concepts:
//
//   - Policy: an ordered chain of rules that determine access to an operation
//   - Rule: a function that returns Allow, Deny, or Skip decisions
//   - Viewer: an interface representing the current user/context
//
// # Defining Policies
//
// Policies are compiled from a type's AuthorizationMeta and evaluated
// against every Query/Mutation operation bound to that type:
//
//	policy := privacy.Policy{
//	    privacy.DenyIfNoViewer(),    // Require authentication
//	    privacy.HasRole("admin"),   // Allow admins
//	    privacy.IsOwner("user_id"), // Allow owners
//	    privacy.AlwaysDenyRule(),   // Deny by default
//	}
//
// # Rule Evaluation
//
// Rules are evaluated in order until one returns a final decision:
//
//   - Allow: grants access and stops evaluation
//   - Deny: denies access and stops evaluation
//   - Skip: continues to the next rule
//
// If every rule Skips, the policy defaults to Allow.
//
// # Built-in Rules
//
//   - DenyIfNoViewer: denies if no viewer is present in context
//   - AlwaysAllowRule / AlwaysDenyRule: fixed decisions
//   - HasRole / HasAnyRole: allow if the viewer holds a role
//   - IsOwner: allow a mutation whose argument matches the viewer's ID
//   - TenantRule / TenantQueryRule: enforce tenant isolation
//   - RowFilterRule: contribute a rendered row-filter predicate instead
//     of deciding the operation outright
//
// # Viewer Interface
//
//	type Viewer interface {
//	    GetID() string
//	    GetRoles() []string
//	    GetTenantID() string
//	}
//
// A SimpleViewer implementation is provided for basic use cases:
//
//	viewer := &privacy.SimpleViewer{
//	    UserID:   "user-123",
//	    Roles:    []string{"admin", "user"},
//	    TenantID: "tenant-abc",
//	}
//
// # Context Integration
//
//	ctx := privacy.WithViewer(ctx, &privacy.SimpleViewer{
//	    UserID: "user-123",
//	    Roles:  []string{"user"},
//	})
//	err := policy.Eval(ctx, op)
package privacy
