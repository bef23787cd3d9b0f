// Package models defines the in-app notification record.
package models

import (
	"time"

	id "comercio/pkg/domain"
)

// Notification is a directed message for one account. Kind is a stable
// machine-readable discriminator; Title and Message are display copy.
type Notification struct {
	ID        id.NotificationID `json:"id"`
	AccountID id.AccountID      `json:"account_id"`
	Kind      string            `json:"kind"`
	Title     string            `json:"title"`
	Message   string            `json:"message"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"created_at"`
}
