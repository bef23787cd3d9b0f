package models

import (
	"time"

	"github.com/google/uuid"

	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
)

// Status of a verification request. PENDING is the only non-terminal state;
// a new verification cycle for the same email is a new row, never a
// resurrected one.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusVerified  Status = "VERIFIED"
	StatusCancelled Status = "CANCELLED"
	StatusExpired   Status = "EXPIRED"
)

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// VerificationRequest is one attempt-window in the identity verification
// process.
//
// Invariants:
//   - At most one PENDING request per email at any time
//   - Attempts is the lifetime count for the email: it is pre-seeded from
//     prior terminal rows at creation and never resets
//   - VerifiedAt is set exactly once, on the transition to VERIFIED
type VerificationRequest struct {
	ID          id.RequestID `json:"id"`
	Email       string       `json:"email"`
	Token       string       `json:"token"`
	Status      Status       `json:"status"`
	Attempts    int          `json:"attempts"`
	MaxAttempts int          `json:"max_attempts"`
	CreatedAt   time.Time    `json:"created_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
	VerifiedAt  *time.Time   `json:"verified_at,omitempty"`
}

// New creates a PENDING request for email. priorAttempts carries the
// lifetime budget forward from earlier terminal rows.
func New(email string, priorAttempts, maxAttempts int, ttl time.Duration, now time.Time) *VerificationRequest {
	return &VerificationRequest{
		ID:          id.NewRequestID(),
		Email:       email,
		Token:       uuid.NewString(),
		Status:      StatusPending,
		Attempts:    priorAttempts,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// IsValid reports whether the request can still be acted on: PENDING and
// not past its expiry. Expiry is evaluated lazily against the caller's now,
// there is no background timer.
func (r *VerificationRequest) IsValid(now time.Time) bool {
	return r.Status == StatusPending && !now.After(r.ExpiresAt)
}

// Approve transitions PENDING → VERIFIED and stamps VerifiedAt.
func (r *VerificationRequest) Approve(now time.Time) error {
	if r.Status != StatusPending {
		return sentinel.ErrInvalidState
	}
	r.Status = StatusVerified
	r.VerifiedAt = &now
	return nil
}

// Reject burns one attempt and transitions PENDING → CANCELLED, or
// PENDING → EXPIRED once the lifetime budget is exhausted. Returns the
// resulting status.
func (r *VerificationRequest) Reject() (Status, error) {
	if r.Status != StatusPending {
		return r.Status, sentinel.ErrInvalidState
	}
	r.Attempts++
	if r.Attempts >= r.MaxAttempts {
		r.Status = StatusExpired
	} else {
		r.Status = StatusCancelled
	}
	return r.Status, nil
}

// Cancel transitions PENDING → CANCELLED without burning an attempt.
// Administrative withdrawal, not a user failure.
func (r *VerificationRequest) Cancel() error {
	if r.Status != StatusPending {
		return sentinel.ErrInvalidState
	}
	r.Status = StatusCancelled
	return nil
}

// AttemptsLeft is the remaining lifetime budget, floored at zero.
func (r *VerificationRequest) AttemptsLeft() int {
	return max(r.MaxAttempts-r.Attempts, 0)
}

// ListFilter narrows admin listings. Zero values mean "no constraint";
// Page is 1-based.
type ListFilter struct {
	Status   Status
	Page     int
	PageSize int
}

// Normalize applies listing defaults and bounds.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
}
