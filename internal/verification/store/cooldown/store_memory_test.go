package cooldown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArmActiveClear(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	store := NewMemoryWithClock(func() time.Time { return now })

	active, err := store.Active(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, store.Arm(ctx, "ada@example.com", 15*time.Minute))

	active, err = store.Active(ctx, "Ada@Example.com")
	require.NoError(t, err)
	assert.True(t, active, "lookup is case-insensitive")

	require.NoError(t, store.Clear(ctx, "ada@example.com"))
	active, err = store.Active(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, active)

	// Clearing an absent key is a no-op.
	require.NoError(t, store.Clear(ctx, "ghost@example.com"))
}

func TestEntriesExpireLazily(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	store := NewMemoryWithClock(func() time.Time { return now })

	require.NoError(t, store.Arm(ctx, "ada@example.com", 15*time.Minute))

	now = now.Add(15 * time.Minute)
	active, err := store.Active(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, active, "still active at the boundary")

	now = now.Add(time.Second)
	active, err = store.Active(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestReArmExtendsTheWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	store := NewMemoryWithClock(func() time.Time { return now })

	require.NoError(t, store.Arm(ctx, "ada@example.com", 5*time.Minute))
	now = now.Add(4 * time.Minute)
	require.NoError(t, store.Arm(ctx, "ada@example.com", 5*time.Minute))

	now = now.Add(4 * time.Minute)
	active, err := store.Active(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, active)
}
