package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"comercio/internal/client/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
	"comercio/pkg/platform/tx"
)

// PostgresStore persists client records.
//
// Schema:
//
//	CREATE TABLE clients (
//	    id          UUID PRIMARY KEY,
//	    name        TEXT NOT NULL,
//	    tax_id      TEXT NOT NULL UNIQUE,
//	    email       TEXT NOT NULL DEFAULT '',
//	    phone       TEXT NOT NULL DEFAULT '',
//	    zone        TEXT NOT NULL DEFAULT '',
//	    created_at  TIMESTAMPTZ NOT NULL,
//	    updated_at  TIMESTAMPTZ NOT NULL
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

func (s *PostgresStore) Create(ctx context.Context, client *models.Client) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO clients (id, name, tax_id, email, phone, zone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.UUID(client.ID), client.Name, client.TaxID, client.Email, client.Phone, client.Zone, client.CreatedAt, client.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, clientID id.ClientID) (*models.Client, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, name, tax_id, email, phone, zone, created_at, updated_at
		FROM clients WHERE id = $1
	`, uuid.UUID(clientID))
	return scanClient(row)
}

func (s *PostgresStore) Update(ctx context.Context, client *models.Client) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE clients
		SET name = $2, tax_id = $3, email = $4, phone = $5, zone = $6, updated_at = $7
		WHERE id = $1
	`, uuid.UUID(client.ID), client.Name, client.TaxID, client.Email, client.Phone, client.Zone, client.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, clientID id.ClientID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, uuid.UUID(clientID))
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Client, int, error) {
	q := tx.Resolve(ctx, s.db)

	var total int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM clients WHERE ($1 = '' OR LOWER(zone) = LOWER($1))
	`, filter.Zone).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, name, tax_id, email, phone, zone, created_at, updated_at
		FROM clients
		WHERE ($1 = '' OR LOWER(zone) = LOWER($1))
		ORDER BY name
		LIMIT $2 OFFSET $3
	`, filter.Zone, filter.PageSize, (filter.Page-1)*filter.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []*models.Client
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, client)
	}
	return out, total, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(row scanner) (*models.Client, error) {
	var (
		client   models.Client
		clientID uuid.UUID
	)
	err := row.Scan(&clientID, &client.Name, &client.TaxID, &client.Email, &client.Phone, &client.Zone, &client.CreatedAt, &client.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan client: %w", err)
	}
	client.ID = id.ClientID(clientID)
	return &client, nil
}
