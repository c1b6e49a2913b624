package federation

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStateStore(t *testing.T) *StateStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStateStore(client, 10*time.Minute)
}

func TestStateIssueAndConsume(t *testing.T) {
	store := newTestStateStore(t)
	ctx := context.Background()

	state, err := store.Issue(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	ok, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.True(t, ok)

	// One-shot: a second redemption fails.
	ok, err = store.Consume(ctx, state)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStateConsumeUnknown(t *testing.T) {
	store := newTestStateStore(t)
	ctx := context.Background()

	ok, err := store.Consume(ctx, "never-issued")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Consume(ctx, "")
	require.NoError(t, err)
	assert.False(t, ok)
}
