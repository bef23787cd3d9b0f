package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comercio/internal/verification/models"
	"comercio/pkg/platform/sentinel"
)

var anchor = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestCreateEnforcesOnePendingPerEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	first := models.New("ada@example.com", 0, 3, 15*time.Minute, anchor)
	require.NoError(t, store.Create(ctx, first))

	second := models.New("Ada@Example.com", 0, 3, 15*time.Minute, anchor)
	assert.ErrorIs(t, store.Create(ctx, second), sentinel.ErrConflict, "case differences do not evade the constraint")

	// A terminal row for the same email is always allowed.
	require.NoError(t, first.Cancel())
	require.NoError(t, store.Update(ctx, first))
	require.NoError(t, store.Create(ctx, second))
}

func TestConcurrentCreateOneWinner(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.Create(ctx, models.New("ada@example.com", 0, 3, 15*time.Minute, anchor))
		}(i)
	}
	wg.Wait()

	var created, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		default:
			require.ErrorIs(t, err, sentinel.ErrConflict)
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, conflicts)
}

func TestFindPendingAndLatest(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	old := models.New("ada@example.com", 0, 3, 15*time.Minute, anchor)
	require.NoError(t, store.Create(ctx, old))
	require.NoError(t, old.Cancel())
	require.NoError(t, store.Update(ctx, old))

	current := models.New("ada@example.com", 1, 3, 15*time.Minute, anchor.Add(time.Hour))
	require.NoError(t, store.Create(ctx, current))

	pending, err := store.FindPending(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, current.ID, pending.ID)

	latest, err := store.FindLatest(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, current.ID, latest.ID)

	missing, err := store.FindPending(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListTerminalExcludesVerified(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	cancelled := models.New("ada@example.com", 0, 3, 15*time.Minute, anchor)
	require.NoError(t, store.Create(ctx, cancelled))
	require.NoError(t, cancelled.Cancel())
	require.NoError(t, store.Update(ctx, cancelled))

	expired := models.New("ada@example.com", 2, 3, 15*time.Minute, anchor.Add(time.Hour))
	require.NoError(t, store.Create(ctx, expired))
	_, err := expired.Reject()
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, expired))

	verified := models.New("ada@example.com", 0, 3, 15*time.Minute, anchor.Add(2*time.Hour))
	require.NoError(t, store.Create(ctx, verified))
	require.NoError(t, verified.Approve(anchor.Add(2*time.Hour)))
	require.NoError(t, store.Update(ctx, verified))

	terminal, err := store.ListTerminal(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Len(t, terminal, 2)
	assert.Equal(t, cancelled.ID, terminal[0].ID, "oldest first")
	assert.Equal(t, expired.ID, terminal[1].ID)
}

func TestListFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for i, email := range emails {
		req := models.New(email, 0, 3, 15*time.Minute, anchor.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Create(ctx, req))
	}
	done := models.New("d@example.com", 0, 3, 15*time.Minute, anchor.Add(time.Hour))
	require.NoError(t, store.Create(ctx, done))
	require.NoError(t, done.Cancel())
	require.NoError(t, store.Update(ctx, done))

	page, total, err := store.List(ctx, models.ListFilter{Status: models.StatusPending, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "c@example.com", page[0].Email, "newest first")

	page2, _, err := store.List(ctx, models.ListFilter{Status: models.StatusPending, Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "a@example.com", page2[0].Email)

	all, total, err := store.List(ctx, models.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Len(t, all, 4)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	req := models.New("ada@example.com", 0, 3, 15*time.Minute, anchor)
	require.NoError(t, store.Create(ctx, req))
	require.NoError(t, store.Delete(ctx, req.ID))

	pending, err := store.FindPending(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Nil(t, pending)

	assert.ErrorIs(t, store.Delete(ctx, req.ID), sentinel.ErrNotFound)
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	req := models.New("ada@example.com", 0, 3, 15*time.Minute, anchor)
	require.NoError(t, store.Create(ctx, req))

	loaded, err := store.FindPending(ctx, "ada@example.com")
	require.NoError(t, err)
	loaded.Attempts = 99

	reloaded, err := store.FindPending(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Attempts, "mutating a loaded row must not touch the store")
}
