package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comercio/internal/client/models"
	"comercio/internal/client/store"
	id "comercio/pkg/domain"
	dErrors "comercio/pkg/domain-errors"
	"comercio/pkg/requestcontext"
)

func newService(t *testing.T) (*Service, context.Context) {
	t.Helper()
	svc, err := New(store.NewMemory(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	return svc, requestcontext.WithTime(context.Background(), now)
}

func TestCreate(t *testing.T) {
	svc, ctx := newService(t)

	client, err := svc.Create(ctx, CreateInput{
		Name:  "  Comercial Ramos  ",
		TaxID: "b12345678",
		Email: "Info@Ramos.ES",
		Zone:  "norte",
	})
	require.NoError(t, err)
	assert.False(t, client.ID.IsNil())
	assert.Equal(t, "Comercial Ramos", client.Name)
	assert.Equal(t, "B12345678", client.TaxID, "tax id is stored uppercased")
	assert.Equal(t, "info@ramos.es", client.Email)

	t.Run("duplicate tax id is a conflict", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateInput{Name: "Other", TaxID: "B12345678"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("missing name is a validation error", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateInput{TaxID: "B00000001"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("missing tax id is a validation error", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateInput{Name: "Nameless"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestGetUpdateDelete(t *testing.T) {
	svc, ctx := newService(t)

	created, err := svc.Create(ctx, CreateInput{Name: "Comercial Ramos", TaxID: "B12345678", Zone: "norte"})
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)

	updated, err := svc.Update(ctx, created.ID, CreateInput{Name: "Comercial Ramos SL", TaxID: "B12345678", Zone: "sur"})
	require.NoError(t, err)
	assert.Equal(t, "Comercial Ramos SL", updated.Name)
	assert.Equal(t, "sur", updated.Zone)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	err = svc.Delete(ctx, created.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestGetUnknownClient(t *testing.T) {
	svc, ctx := newService(t)
	_, err := svc.Get(ctx, id.NewClientID())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestList(t *testing.T) {
	svc, ctx := newService(t)

	for _, in := range []CreateInput{
		{Name: "Alfa", TaxID: "B00000001", Zone: "norte"},
		{Name: "Bravo", TaxID: "B00000002", Zone: "sur"},
		{Name: "Charlie", TaxID: "B00000003", Zone: "norte"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	result, err := svc.List(ctx, models.ListFilter{Zone: "NORTE"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Alfa", result.Items[0].Name, "sorted by name")

	page, err := svc.List(ctx, models.ListFilter{PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Charlie", page.Items[0].Name)
}
