package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"comercio/pkg/platform/sentinel"
)

var anchor = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	req := New("ada@example.com", 2, 3, 15*time.Minute, anchor)

	assert.False(t, req.ID.IsNil())
	assert.NotEmpty(t, req.Token)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, 2, req.Attempts)
	assert.Equal(t, 3, req.MaxAttempts)
	assert.Equal(t, anchor, req.CreatedAt)
	assert.Equal(t, anchor.Add(15*time.Minute), req.ExpiresAt)
	assert.Nil(t, req.VerifiedAt)
}

func TestIsValid(t *testing.T) {
	req := New("ada@example.com", 0, 3, 15*time.Minute, anchor)

	assert.True(t, req.IsValid(anchor))
	assert.True(t, req.IsValid(anchor.Add(15*time.Minute)), "expiry boundary is inclusive")
	assert.False(t, req.IsValid(anchor.Add(15*time.Minute+time.Second)))

	require.NoError(t, req.Cancel())
	assert.False(t, req.IsValid(anchor), "terminal requests are never valid")
}

func TestApprove(t *testing.T) {
	req := New("ada@example.com", 0, 3, 15*time.Minute, anchor)
	verifiedAt := anchor.Add(time.Minute)

	require.NoError(t, req.Approve(verifiedAt))
	assert.Equal(t, StatusVerified, req.Status)
	require.NotNil(t, req.VerifiedAt)
	assert.Equal(t, verifiedAt, *req.VerifiedAt)

	assert.ErrorIs(t, req.Approve(verifiedAt), sentinel.ErrInvalidState)
}

func TestReject(t *testing.T) {
	t.Run("burns an attempt and cancels below the budget", func(t *testing.T) {
		req := New("ada@example.com", 0, 3, 15*time.Minute, anchor)

		status, err := req.Reject()
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, status)
		assert.Equal(t, 1, req.Attempts)
		assert.Equal(t, 2, req.AttemptsLeft())
	})

	t.Run("expires at the budget", func(t *testing.T) {
		req := New("ada@example.com", 2, 3, 15*time.Minute, anchor)

		status, err := req.Reject()
		require.NoError(t, err)
		assert.Equal(t, StatusExpired, status)
		assert.Equal(t, 3, req.Attempts)
		assert.Equal(t, 0, req.AttemptsLeft())
	})

	t.Run("terminal request cannot be rejected", func(t *testing.T) {
		req := New("ada@example.com", 0, 3, 15*time.Minute, anchor)
		require.NoError(t, req.Cancel())

		_, err := req.Reject()
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		assert.Equal(t, 0, req.Attempts, "failed transition must not burn an attempt")
	})
}

func TestCancel(t *testing.T) {
	req := New("ada@example.com", 1, 3, 15*time.Minute, anchor)

	require.NoError(t, req.Cancel())
	assert.Equal(t, StatusCancelled, req.Status)
	assert.Equal(t, 1, req.Attempts, "cancellation never burns an attempt")

	assert.ErrorIs(t, req.Cancel(), sentinel.ErrInvalidState)
}

func TestStatus(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusVerified, StatusCancelled, StatusExpired} {
		assert.True(t, status.IsValid(), status)
	}
	assert.False(t, Status("SHIPPED").IsValid())

	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusVerified.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusExpired.Terminal())
}

func TestListFilterNormalize(t *testing.T) {
	f := ListFilter{}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)

	f = ListFilter{Page: -3, PageSize: 500}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
}

func TestAttemptsLeftFloorsAtZero(t *testing.T) {
	req := New("ada@example.com", 5, 3, 15*time.Minute, anchor)
	assert.Equal(t, 0, req.AttemptsLeft())
}
