// Package models defines the client business record.
package models

import (
	"time"

	id "comercio/pkg/domain"
)

// Client is a commercial counterparty tracked by the platform. TaxID is
// unique across clients.
type Client struct {
	ID        id.ClientID `json:"id"`
	Name      string      `json:"name"`
	TaxID     string      `json:"tax_id"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Zone      string      `json:"zone"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ListFilter narrows client listings. Page is 1-based.
type ListFilter struct {
	Zone     string
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
