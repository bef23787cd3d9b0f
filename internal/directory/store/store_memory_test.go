package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comercio/internal/directory/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
)

func TestProfileUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.CreateProfile(ctx, &models.Profile{Email: "ada@example.com", NationalID: "X1"}))

	err := store.CreateProfile(ctx, &models.Profile{Email: "Ada@Example.com", NationalID: "X2"})
	assert.ErrorIs(t, err, sentinel.ErrConflict, "email uniqueness is case-insensitive")

	err = store.CreateProfile(ctx, &models.Profile{Email: "other@example.com", NationalID: "X1"})
	assert.ErrorIs(t, err, sentinel.ErrConflict, "national id is unique")
}

func TestFindProfileByNationalID(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.CreateProfile(ctx, &models.Profile{Email: "ada@example.com", NationalID: "X1"}))

	found, err := store.FindProfileByNationalID(ctx, "X1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ada@example.com", found.Email)

	missing, err := store.FindProfileByNationalID(ctx, "X9")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	account := &models.Account{ID: id.NewAccountID(), Email: "ada@example.com", Roles: []string{"user"}}
	require.NoError(t, store.CreateAccount(ctx, account))
	assert.ErrorIs(t, store.CreateAccount(ctx, account), sentinel.ErrConflict)

	loaded, err := store.FindAccount(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, account.ID, loaded.ID)

	loaded.IdentityVerified = true
	loaded.ProfileCompleteness = 80
	require.NoError(t, store.SaveAccount(ctx, loaded))

	reloaded, err := store.FindAccount(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.True(t, reloaded.IdentityVerified)
	assert.Equal(t, 80, reloaded.ProfileCompleteness)

	assert.ErrorIs(t, store.SaveAccount(ctx, &models.Account{Email: "ghost@example.com"}), sentinel.ErrNotFound)
}

func TestFindVerifiedAccountExcludesSelf(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	account := &models.Account{ID: id.NewAccountID(), Email: "ada@example.com", IdentityVerified: true}
	require.NoError(t, store.CreateAccount(ctx, account))

	self, err := store.FindVerifiedAccount(ctx, "ada@example.com", account.ID)
	require.NoError(t, err)
	assert.Nil(t, self, "the account being approved is not its own duplicate")

	other, err := store.FindVerifiedAccount(ctx, "ada@example.com", id.NewAccountID())
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, account.ID, other.ID)
}

func TestListAccountsByRole(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	admin := &models.Account{ID: id.NewAccountID(), Email: "ops@example.com", Roles: []string{"user", models.RoleAdmin}}
	user := &models.Account{ID: id.NewAccountID(), Email: "ada@example.com", Roles: []string{"user"}}
	require.NoError(t, store.CreateAccount(ctx, admin))
	require.NoError(t, store.CreateAccount(ctx, user))

	admins, err := store.ListAccountsByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "ops@example.com", admins[0].Email)
}

func TestStoreHandsOutCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	require.NoError(t, store.CreateAccount(ctx, &models.Account{ID: id.NewAccountID(), Email: "ada@example.com"}))

	loaded, err := store.FindAccount(ctx, "ada@example.com")
	require.NoError(t, err)
	loaded.IdentityVerified = true

	reloaded, err := store.FindAccount(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.False(t, reloaded.IdentityVerified, "mutations require SaveAccount")
}
