// Package domain holds typed identifiers shared across feature packages.
// Wrapping uuid.UUID in distinct named types makes cross-entity assignment a
// compile error instead of a data bug.
package domain

import (
	"github.com/google/uuid"

	dErrors "comercio/pkg/domain-errors"
)

type (
	// AccountID identifies an authentication account.
	AccountID uuid.UUID
	// RequestID identifies a verification request (ledger row).
	RequestID uuid.UUID
	// NotificationID identifies a delivered notification.
	NotificationID uuid.UUID
	// ClientID identifies a business-record client.
	ClientID uuid.UUID
)

func (id AccountID) String() string      { return uuid.UUID(id).String() }
func (id RequestID) String() string      { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }
func (id ClientID) String() string       { return uuid.UUID(id).String() }

func (id AccountID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ClientID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }

// NewAccountID returns a fresh random account ID.
func NewAccountID() AccountID { return AccountID(uuid.New()) }

// NewRequestID returns a fresh random request ID.
func NewRequestID() RequestID { return RequestID(uuid.New()) }

// NewNotificationID returns a fresh random notification ID.
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }

// NewClientID returns a fresh random client ID.
func NewClientID() ClientID { return ClientID(uuid.New()) }

func parse(raw string) (uuid.UUID, error) {
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "invalid id format")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeValidation, "id must not be nil")
	}
	return u, nil
}

// ParseAccountID parses and validates an account ID at a trust boundary.
func ParseAccountID(raw string) (AccountID, error) {
	u, err := parse(raw)
	return AccountID(u), err
}

// ParseRequestID parses and validates a request ID at a trust boundary.
func ParseRequestID(raw string) (RequestID, error) {
	u, err := parse(raw)
	return RequestID(u), err
}

// ParseNotificationID parses and validates a notification ID at a trust boundary.
func ParseNotificationID(raw string) (NotificationID, error) {
	u, err := parse(raw)
	return NotificationID(u), err
}

// ParseClientID parses and validates a client ID at a trust boundary.
func ParseClientID(raw string) (ClientID, error) {
	u, err := parse(raw)
	return ClientID(u), err
}
