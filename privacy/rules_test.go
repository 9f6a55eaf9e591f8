package privacy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql/privacy"
)

func TestSimpleViewer(t *testing.T) {
	viewer := &privacy.SimpleViewer{
		UserID:   "user-123",
		Roles:    []string{"admin", "user"},
		TenantID: "tenant-abc",
	}

	assert.Equal(t, "user-123", viewer.GetID())
	assert.Equal(t, []string{"admin", "user"}, viewer.GetRoles())
	assert.Equal(t, "tenant-abc", viewer.GetTenantID())
}

func TestViewerContext(t *testing.T) {
	t.Run("WithViewer_and_ViewerFromContext", func(t *testing.T) {
		viewer := &privacy.SimpleViewer{UserID: "user-123"}
		ctx := privacy.WithViewer(context.Background(), viewer)

		retrieved := privacy.ViewerFromContext(ctx)
		require.NotNil(t, retrieved)
		assert.Equal(t, "user-123", retrieved.GetID())
	})

	t.Run("ViewerFromContext_returns_nil_without_viewer", func(t *testing.T) {
		retrieved := privacy.ViewerFromContext(context.Background())
		assert.Nil(t, retrieved)
	})
}

func TestDenyIfNoViewer(t *testing.T) {
	rule := privacy.DenyIfNoViewer()

	t.Run("denies_without_viewer", func(t *testing.T) {
		err := rule.Eval(context.Background(), privacy.Operation{})
		assert.True(t, errors.Is(err, privacy.Deny))
	})

	t.Run("skips_with_viewer", func(t *testing.T) {
		viewer := &privacy.SimpleViewer{UserID: "user-123"}
		ctx := privacy.WithViewer(context.Background(), viewer)

		err := rule.Eval(ctx, privacy.Operation{})
		assert.True(t, errors.Is(err, privacy.Skip))
	})
}

func TestHasRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		viewer     *privacy.SimpleViewer
		wantResult error
	}{
		{name: "allows_with_matching_role", role: "admin", viewer: &privacy.SimpleViewer{UserID: "u1", Roles: []string{"admin", "user"}}, wantResult: privacy.Allow},
		{name: "skips_without_matching_role", role: "superadmin", viewer: &privacy.SimpleViewer{UserID: "u1", Roles: []string{"admin", "user"}}, wantResult: privacy.Skip},
		{name: "skips_without_viewer", role: "admin", viewer: nil, wantResult: privacy.Skip},
		{name: "skips_with_empty_roles", role: "admin", viewer: &privacy.SimpleViewer{UserID: "u1", Roles: []string{}}, wantResult: privacy.Skip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := privacy.HasRole(tt.role)
			ctx := context.Background()
			if tt.viewer != nil {
				ctx = privacy.WithViewer(ctx, tt.viewer)
			}

			err := rule.Eval(ctx, privacy.Operation{})
			assert.True(t, errors.Is(err, tt.wantResult))
		})
	}
}

func TestHasAnyRole(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		viewer     *privacy.SimpleViewer
		wantResult error
	}{
		{name: "allows_with_first_matching_role", roles: []string{"admin", "moderator"}, viewer: &privacy.SimpleViewer{UserID: "u1", Roles: []string{"admin"}}, wantResult: privacy.Allow},
		{name: "allows_with_second_matching_role", roles: []string{"admin", "moderator"}, viewer: &privacy.SimpleViewer{UserID: "u1", Roles: []string{"moderator"}}, wantResult: privacy.Allow},
		{name: "allows_with_any_matching_role", roles: []string{"admin", "moderator", "editor"}, viewer: &privacy.SimpleViewer{UserID: "u1", Roles: []string{"user", "editor"}}, wantResult: privacy.Allow},
		{name: "skips_without_matching_role", roles: []string{"admin", "moderator"}, viewer: &privacy.SimpleViewer{UserID: "u1", Roles: []string{"user"}}, wantResult: privacy.Skip},
		{name: "skips_without_viewer", roles: []string{"admin"}, viewer: nil, wantResult: privacy.Skip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := privacy.HasAnyRole(tt.roles...)
			ctx := context.Background()
			if tt.viewer != nil {
				ctx = privacy.WithViewer(ctx, tt.viewer)
			}

			err := rule.Eval(ctx, privacy.Operation{})
			assert.True(t, errors.Is(err, tt.wantResult))
		})
	}
}

func TestIsOwner(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		args       map[string]any
		viewer     *privacy.SimpleViewer
		wantResult error
	}{
		{name: "allows_with_matching_string_id", field: "user_id", args: map[string]any{"user_id": "user-123"}, viewer: &privacy.SimpleViewer{UserID: "user-123"}, wantResult: privacy.Allow},
		{name: "allows_with_matching_int64_id", field: "user_id", args: map[string]any{"user_id": int64(123)}, viewer: &privacy.SimpleViewer{UserID: "123"}, wantResult: privacy.Allow},
		{name: "allows_with_matching_int_id", field: "user_id", args: map[string]any{"user_id": 456}, viewer: &privacy.SimpleViewer{UserID: "456"}, wantResult: privacy.Allow},
		{name: "skips_with_non_matching_id", field: "user_id", args: map[string]any{"user_id": "user-456"}, viewer: &privacy.SimpleViewer{UserID: "user-123"}, wantResult: privacy.Skip},
		{name: "skips_without_argument", field: "user_id", args: map[string]any{}, viewer: &privacy.SimpleViewer{UserID: "user-123"}, wantResult: privacy.Skip},
		{name: "skips_without_viewer", field: "user_id", args: map[string]any{"user_id": "user-123"}, viewer: nil, wantResult: privacy.Skip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := privacy.IsOwner(tt.field)
			ctx := context.Background()
			if tt.viewer != nil {
				ctx = privacy.WithViewer(ctx, tt.viewer)
			}

			op := privacy.Operation{IsMutation: true, Arguments: tt.args}
			err := rule.Eval(ctx, op)
			assert.True(t, errors.Is(err, tt.wantResult))
		})
	}
}

func TestIsOwner_SkipsForQuery(t *testing.T) {
	rule := privacy.IsOwner("user_id")
	viewer := &privacy.SimpleViewer{UserID: "user-123"}
	ctx := privacy.WithViewer(context.Background(), viewer)

	op := privacy.Operation{IsMutation: false, Arguments: map[string]any{"user_id": "user-123"}}
	err := rule.Eval(ctx, op)
	assert.True(t, errors.Is(err, privacy.Skip))
}

func TestTenantRule(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]any
		viewer     *privacy.SimpleViewer
		wantResult error
	}{
		{name: "allows_with_matching_tenant", args: map[string]any{"tenant_id": "tenant-abc"}, viewer: &privacy.SimpleViewer{UserID: "u1", TenantID: "tenant-abc"}, wantResult: privacy.Allow},
		{name: "denies_with_non_matching_tenant", args: map[string]any{"tenant_id": "tenant-xyz"}, viewer: &privacy.SimpleViewer{UserID: "u1", TenantID: "tenant-abc"}, wantResult: privacy.Deny},
		{name: "skips_without_argument", args: map[string]any{}, viewer: &privacy.SimpleViewer{UserID: "u1", TenantID: "tenant-abc"}, wantResult: privacy.Skip},
		{name: "skips_without_viewer", args: map[string]any{"tenant_id": "tenant-abc"}, viewer: nil, wantResult: privacy.Skip},
		{name: "skips_with_empty_tenant", args: map[string]any{"tenant_id": "tenant-abc"}, viewer: &privacy.SimpleViewer{UserID: "u1", TenantID: ""}, wantResult: privacy.Skip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := privacy.TenantRule("tenant_id")
			ctx := context.Background()
			if tt.viewer != nil {
				ctx = privacy.WithViewer(ctx, tt.viewer)
			}

			op := privacy.Operation{IsMutation: true, Arguments: tt.args}
			err := rule.Eval(ctx, op)
			assert.True(t, errors.Is(err, tt.wantResult))
		})
	}
}

func TestTenantQueryRule(t *testing.T) {
	rule := privacy.TenantQueryRule()

	t.Run("denies_without_viewer", func(t *testing.T) {
		err := rule.Eval(context.Background(), privacy.Operation{})
		assert.True(t, errors.Is(err, privacy.Deny))
	})

	t.Run("denies_with_empty_tenant", func(t *testing.T) {
		viewer := &privacy.SimpleViewer{UserID: "user-123", TenantID: ""}
		ctx := privacy.WithViewer(context.Background(), viewer)

		err := rule.Eval(ctx, privacy.Operation{})
		assert.True(t, errors.Is(err, privacy.Deny))
	})

	t.Run("skips_with_viewer_and_tenant", func(t *testing.T) {
		viewer := &privacy.SimpleViewer{UserID: "user-123", TenantID: "tenant-abc"}
		ctx := privacy.WithViewer(context.Background(), viewer)

		err := rule.Eval(ctx, privacy.Operation{})
		assert.True(t, errors.Is(err, privacy.Skip))
	})

	t.Run("skips_for_mutation", func(t *testing.T) {
		viewer := &privacy.SimpleViewer{UserID: "user-123"}
		ctx := privacy.WithViewer(context.Background(), viewer)

		err := rule.Eval(ctx, privacy.Operation{IsMutation: true})
		assert.True(t, errors.Is(err, privacy.Skip))
	})
}

func TestIntegratedPolicyChain(t *testing.T) {
	t.Run("admin_allowed_through_role", func(t *testing.T) {
		policy := privacy.Policy{
			privacy.DenyIfNoViewer(),
			privacy.HasRole("admin"),
			privacy.AlwaysDenyRule(),
		}

		viewer := &privacy.SimpleViewer{UserID: "admin-1", Roles: []string{"admin"}}
		ctx := privacy.WithViewer(context.Background(), viewer)

		err := policy.Eval(ctx, privacy.Operation{IsMutation: true})
		assert.NoError(t, err)
	})

	t.Run("user_denied_without_admin_role", func(t *testing.T) {
		policy := privacy.Policy{
			privacy.DenyIfNoViewer(),
			privacy.HasRole("admin"),
			privacy.AlwaysDenyRule(),
		}

		viewer := &privacy.SimpleViewer{UserID: "user-1", Roles: []string{"user"}}
		ctx := privacy.WithViewer(context.Background(), viewer)

		err := policy.Eval(ctx, privacy.Operation{IsMutation: true})
		assert.True(t, errors.Is(err, privacy.Deny))
	})

	t.Run("owner_allowed", func(t *testing.T) {
		policy := privacy.Policy{
			privacy.DenyIfNoViewer(),
			privacy.HasRole("admin"),
			privacy.IsOwner("user_id"),
			privacy.AlwaysDenyRule(),
		}

		viewer := &privacy.SimpleViewer{UserID: "user-123", Roles: []string{"user"}}
		ctx := privacy.WithViewer(context.Background(), viewer)

		op := privacy.Operation{IsMutation: true, Arguments: map[string]any{"user_id": "user-123"}}
		err := policy.Eval(ctx, op)
		assert.NoError(t, err)
	})

	t.Run("unauthenticated_denied", func(t *testing.T) {
		policy := privacy.Policy{
			privacy.DenyIfNoViewer(),
			privacy.HasRole("admin"),
			privacy.AlwaysDenyRule(),
		}

		err := policy.Eval(context.Background(), privacy.Operation{IsMutation: true})
		assert.True(t, errors.Is(err, privacy.Deny))
	})

	t.Run("tenant_isolation", func(t *testing.T) {
		policy := privacy.Policy{
			privacy.DenyIfNoViewer(),
			privacy.TenantRule("tenant_id"),
			privacy.AlwaysDenyRule(),
		}

		viewer := &privacy.SimpleViewer{UserID: "user-1", TenantID: "tenant-a"}
		ctx := privacy.WithViewer(context.Background(), viewer)

		sameTenant := privacy.Operation{IsMutation: true, Arguments: map[string]any{"tenant_id": "tenant-a"}}
		err := policy.Eval(ctx, sameTenant)
		assert.NoError(t, err)

		otherTenant := privacy.Operation{IsMutation: true, Arguments: map[string]any{"tenant_id": "tenant-b"}}
		err = policy.Eval(ctx, otherTenant)
		assert.True(t, errors.Is(err, privacy.Deny))
	})
}

func BenchmarkRules(b *testing.B) {
	viewer := &privacy.SimpleViewer{
		UserID:   "user-123",
		Roles:    []string{"admin", "user"},
		TenantID: "tenant-abc",
	}
	ctx := privacy.WithViewer(context.Background(), viewer)
	ctxNoViewer := context.Background()
	mutationOp := privacy.Operation{IsMutation: true, Arguments: map[string]any{"user_id": "user-123"}}

	b.Run("DenyIfNoViewer_with_viewer", func(b *testing.B) {
		rule := privacy.DenyIfNoViewer()
		for i := 0; i < b.N; i++ {
			_ = rule.Eval(ctx, privacy.Operation{})
		}
	})

	b.Run("DenyIfNoViewer_without_viewer", func(b *testing.B) {
		rule := privacy.DenyIfNoViewer()
		for i := 0; i < b.N; i++ {
			_ = rule.Eval(ctxNoViewer, privacy.Operation{})
		}
	})

	b.Run("HasRole", func(b *testing.B) {
		rule := privacy.HasRole("admin")
		for i := 0; i < b.N; i++ {
			_ = rule.Eval(ctx, privacy.Operation{})
		}
	})

	b.Run("HasAnyRole_3_roles", func(b *testing.B) {
		rule := privacy.HasAnyRole("admin", "moderator", "editor")
		for i := 0; i < b.N; i++ {
			_ = rule.Eval(ctx, privacy.Operation{})
		}
	})

	b.Run("IsOwner", func(b *testing.B) {
		rule := privacy.IsOwner("user_id")
		for i := 0; i < b.N; i++ {
			_ = rule.Eval(ctx, mutationOp)
		}
	})

	b.Run("TenantRule", func(b *testing.B) {
		rule := privacy.TenantRule("tenant_id")
		tenantOp := privacy.Operation{IsMutation: true, Arguments: map[string]any{"tenant_id": "tenant-abc"}}
		for i := 0; i < b.N; i++ {
			_ = rule.Eval(ctx, tenantOp)
		}
	})

	b.Run("PolicyChain_5_rules", func(b *testing.B) {
		policy := privacy.Policy{
			privacy.DenyIfNoViewer(),
			privacy.HasRole("superadmin"),
			privacy.HasAnyRole("admin", "moderator"),
			privacy.IsOwner("user_id"),
			privacy.AlwaysDenyRule(),
		}
		for i := 0; i < b.N; i++ {
			_ = policy.Eval(ctx, mutationOp)
		}
	})
}
