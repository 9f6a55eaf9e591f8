package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fraiseql/fraiseql"
	"github.com/fraiseql/fraiseql/executor"
)

func TestAPQCache_SetGetRoundTrip(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "abc123", []byte("{ users { id } }"), 0))

	got, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	require.Equal(t, "{ users { id } }", string(got))
}

func TestAPQCache_GetMissingReturnsNilNil(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	got, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAPQCache_EntryExpiresAfterTTL(t *testing.T) {
	c := executor.NewAPQCache(time.Millisecond)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Millisecond))

	time.Sleep(5 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAPQCache_ExplicitTTLOverridesDefault(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))

	time.Sleep(2 * time.Millisecond)

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAPQCache_Delete(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAPQCache_DeletePrefixRemovesSchemaScopedEntries(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "hashA:q1", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "hashA:q2", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "hashB:q1", []byte("3"), 0))

	require.NoError(t, c.DeletePrefix(ctx, "hashA:"))

	got, err := c.Get(ctx, "hashA:q1")
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = c.Get(ctx, "hashB:q1")
	require.NoError(t, err)
	require.Equal(t, "3", string(got))
}

func TestAPQCache_Clear(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, c.Clear(ctx))

	got, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestLookup_UnknownHashReturnsProtocolError(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	key := fraiseql.CacheKey{SchemaHash: "sh1", Hash: "deadbeef"}

	_, err := executor.Lookup(context.Background(), c, key)
	require.Error(t, err)

	var unknownHash *fraiseql.UnknownPersistedHashError
	require.ErrorAs(t, err, &unknownHash)
}

func TestLookup_FindsQueryPersistedEarlier(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	ctx := context.Background()
	key := fraiseql.CacheKey{SchemaHash: "sh1", Hash: "deadbeef"}

	require.NoError(t, executor.Persist(ctx, c, key, "{ users { id } }"))

	text, err := executor.Lookup(ctx, c, key)
	require.NoError(t, err)
	require.Equal(t, "{ users { id } }", text)
}

func TestAPQCache_DistributesAcrossShardsWithoutCorruption(t *testing.T) {
	c := executor.NewAPQCache(time.Hour)
	ctx := context.Background()
	for i := 0; i < 64; i++ {
		key := fraiseql.CacheKey{SchemaHash: "sh", Hash: string(rune('a' + i%26))}
		require.NoError(t, c.Set(ctx, key.String()+string(rune(i)), []byte{byte(i)}, 0))
	}
	for i := 0; i < 64; i++ {
		key := fraiseql.CacheKey{SchemaHash: "sh", Hash: string(rune('a' + i%26))}
		got, err := c.Get(ctx, key.String()+string(rune(i)))
		require.NoError(t, err)
		require.Equal(t, []byte{byte(i)}, got)
	}
}
