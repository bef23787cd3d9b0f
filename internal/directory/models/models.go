package models

import (
	"slices"
	"time"

	id "comercio/pkg/domain"
)

// Profile is the personal-data record for a natural person.
//
// Invariants:
//   - Email is unique across profiles
//   - NationalID is unique across profiles; it is the real-world identity
//     key, email is only the contact channel
//   - Never deleted while an Account references it
type Profile struct {
	Email      string    `json:"email"`
	NationalID string    `json:"national_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Account is the authentication identity linked to a Profile by email.
//
// Invariants:
//   - At most one account with IdentityVerified=true per email
//   - IdentityVerified and ProfileCompleteness are mutated only by the
//     verification coordinator
type Account struct {
	ID                  id.AccountID `json:"id"`
	Email               string       `json:"email"`
	PasswordHash        string       `json:"-"`
	Roles               []string     `json:"roles"`
	EmailConfirmed      bool         `json:"email_confirmed"`
	IdentityVerified    bool         `json:"identity_verified"`
	ProfileCompleteness int          `json:"profile_completeness"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

const RoleAdmin = "admin"

// HasRole reports whether the account carries the given role.
func (a *Account) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// Completeness scores how fully populated the identity is: 20 points per
// populated field of {name, national ID, phone, address, confirmed email},
// capped at 100. Deterministic so repeated approvals agree.
func Completeness(p *Profile, a *Account) int {
	score := 0
	if p.Name != "" {
		score += 20
	}
	if p.NationalID != "" {
		score += 20
	}
	if p.Phone != "" {
		score += 20
	}
	if p.Address != "" {
		score += 20
	}
	if a.EmailConfirmed {
		score += 20
	}
	return min(score, 100)
}
