package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"comercio/internal/directory/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
	"comercio/pkg/platform/tx"
)

// PostgresStore persists profiles and accounts. Pure I/O; uniqueness of
// email and national ID is enforced by constraints, and violations surface
// as sentinel.ErrConflict so services treat the database as the race
// arbiter.
//
// Schema:
//
//	CREATE TABLE profiles (
//	    email        TEXT PRIMARY KEY,
//	    national_id  TEXT NOT NULL UNIQUE,
//	    name         TEXT NOT NULL DEFAULT '',
//	    phone        TEXT NOT NULL DEFAULT '',
//	    address      TEXT NOT NULL DEFAULT '',
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE accounts (
//	    id                   UUID PRIMARY KEY,
//	    email                TEXT NOT NULL UNIQUE,
//	    password_hash        TEXT NOT NULL DEFAULT '',
//	    roles                TEXT[] NOT NULL DEFAULT '{}',
//	    email_confirmed      BOOLEAN NOT NULL DEFAULT FALSE,
//	    identity_verified    BOOLEAN NOT NULL DEFAULT FALSE,
//	    profile_completeness INT NOT NULL DEFAULT 0,
//	    created_at           TIMESTAMPTZ NOT NULL,
//	    updated_at           TIMESTAMPTZ NOT NULL
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (s *PostgresStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO profiles (email, national_id, name, phone, address, created_at, updated_at)
		VALUES (LOWER($1), $2, $3, $4, $5, $6, $7)
	`, profile.Email, profile.NationalID, profile.Name, profile.Phone, profile.Address, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *models.Account) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, roles, email_confirmed, identity_verified, profile_completeness, created_at, updated_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8, $9)
	`, uuid.UUID(account.ID), account.Email, account.PasswordHash, pq.Array(account.Roles),
		account.EmailConfirmed, account.IdentityVerified, account.ProfileCompleteness,
		account.CreatedAt, account.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindProfile(ctx context.Context, email string) (*models.Profile, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT email, national_id, name, phone, address, created_at, updated_at
		FROM profiles
		WHERE email = LOWER($1)
	`, email)
	return scanProfile(row)
}

func (s *PostgresStore) FindProfileByNationalID(ctx context.Context, nationalID string) (*models.Profile, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT email, national_id, name, phone, address, created_at, updated_at
		FROM profiles
		WHERE national_id = $1
	`, nationalID)
	return scanProfile(row)
}

func (s *PostgresStore) FindAccount(ctx context.Context, email string) (*models.Account, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, roles, email_confirmed, identity_verified, profile_completeness, created_at, updated_at
		FROM accounts
		WHERE email = LOWER($1)
	`, email)
	return scanAccount(row)
}

func (s *PostgresStore) FindVerifiedAccount(ctx context.Context, email string, excludeID id.AccountID) (*models.Account, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, email, password_hash, roles, email_confirmed, identity_verified, profile_completeness, created_at, updated_at
		FROM accounts
		WHERE email = LOWER($1) AND identity_verified = TRUE AND id <> $2
	`, email, uuid.UUID(excludeID))
	return scanAccount(row)
}

func (s *PostgresStore) ListAccountsByRole(ctx context.Context, role string) ([]*models.Account, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, email, password_hash, roles, email_confirmed, identity_verified, profile_completeness, created_at, updated_at
		FROM accounts
		WHERE $1 = ANY(roles)
	`, role)
	if err != nil {
		return nil, fmt.Errorf("list accounts by role: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		account, err := scanAccountRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

func (s *PostgresStore) SaveAccount(ctx context.Context, account *models.Account) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET email_confirmed = $2,
		    identity_verified = $3,
		    profile_completeness = $4,
		    roles = $5,
		    updated_at = $6
		WHERE id = $1
	`, uuid.UUID(account.ID), account.EmailConfirmed, account.IdentityVerified,
		account.ProfileCompleteness, pq.Array(account.Roles), account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save account rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.Email, &p.NationalID, &p.Name, &p.Phone, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

func scanAccount(row rowScanner) (*models.Account, error) {
	account, err := scanAccountRows(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return account, err
}

func scanAccountRows(row rowScanner) (*models.Account, error) {
	var a models.Account
	var accountID uuid.UUID
	var roles pq.StringArray
	err := row.Scan(&accountID, &a.Email, &a.PasswordHash, &roles,
		&a.EmailConfirmed, &a.IdentityVerified, &a.ProfileCompleteness,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.ID = id.AccountID(accountID)
	a.Roles = roles
	return &a, nil
}
