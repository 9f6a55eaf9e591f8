package observability_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql/observability"
)

func buildChain(t *testing.T, secret []byte, n int) []observability.AuditEvent {
	t.Helper()
	chain := observability.NewAuditChain(secret)
	events := make([]observability.AuditEvent, 0, n)
	for i := 0; i < n; i++ {
		e := observability.NewAuditEvent(observability.AuditEvent{
			TenantID:  "tenant-1",
			Actor:     "user@example.com",
			Action:    "update",
			Target:    "order:42",
			Timestamp: time.Unix(int64(1700000000+i), 0).UTC(),
		})
		appended, err := chain.Append(e)
		require.NoError(t, err)
		events = append(events, appended)
	}
	return events
}

func TestAuditChain_VerifyChainReproducesStoredValues(t *testing.T) {
	secret := []byte("hmac-secret")
	events := buildChain(t, secret, 5)

	idx, err := observability.VerifyChain(secret, events)
	require.NoError(t, err)
	require.Equal(t, -1, idx)
}

func TestAuditChain_EachEventGetsUniqueID(t *testing.T) {
	events := buildChain(t, []byte("s"), 3)
	seen := map[string]bool{}
	for _, e := range events {
		require.NotEmpty(t, e.EventID)
		require.False(t, seen[e.EventID])
		seen[e.EventID] = true
	}
}

func TestAuditChain_LinksPrevHashToPriorEventHash(t *testing.T) {
	events := buildChain(t, []byte("s"), 3)
	require.Empty(t, events[0].PrevHash)
	require.Equal(t, events[0].Hash, events[1].PrevHash)
	require.Equal(t, events[1].Hash, events[2].PrevHash)
}

func TestAuditChain_TamperedEventBreaksChainAtThatIndex(t *testing.T) {
	secret := []byte("hmac-secret")
	events := buildChain(t, secret, 4)

	events[2].Target = "order:999" // tamper after the fact, hash/hmac untouched

	idx, err := observability.VerifyChain(secret, events)
	require.NoError(t, err)
	require.Equal(t, 2, idx)
}

func TestAuditChain_WrongSecretBreaksChainImmediately(t *testing.T) {
	events := buildChain(t, []byte("hmac-secret"), 3)

	idx, err := observability.VerifyChain([]byte("wrong-secret"), events)
	require.NoError(t, err)
	require.Equal(t, 0, idx)
}

func TestAuditChain_SeparateTenantsGetIndependentChains(t *testing.T) {
	chain := observability.NewAuditChain([]byte("s"))

	a1, err := chain.Append(observability.NewAuditEvent(observability.AuditEvent{TenantID: "a", Action: "x"}))
	require.NoError(t, err)
	b1, err := chain.Append(observability.NewAuditEvent(observability.AuditEvent{TenantID: "b", Action: "x"}))
	require.NoError(t, err)
	a2, err := chain.Append(observability.NewAuditEvent(observability.AuditEvent{TenantID: "a", Action: "y"}))
	require.NoError(t, err)

	require.Empty(t, a1.PrevHash)
	require.Empty(t, b1.PrevHash, "tenant b's first event must not chain off tenant a's")
	require.Equal(t, a1.Hash, a2.PrevHash)
}
