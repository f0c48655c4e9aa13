package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialStore(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore()

	_, ok, err := store.Get(ctx, "user-token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "user-token", `"abc"`))
	value, ok, err := store.Get(ctx, "user-token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"abc"`, value)

	require.NoError(t, store.Delete(ctx, "user-token"))
	require.NoError(t, store.Delete(ctx, "user-token"))
	_, ok, _ = store.Get(ctx, "user-token")
	assert.False(t, ok)
}

func TestCredentialStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewCredentialStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%4)
			_ = store.Set(ctx, key, "v")
			_, _, _ = store.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		_, ok, err := store.Get(ctx, fmt.Sprintf("k%d", i))
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
