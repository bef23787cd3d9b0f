package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"comercio/internal/verification/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
	"comercio/pkg/platform/tx"
)

// PostgresStore persists the verification ledger. Pure I/O; the partial
// unique index is what makes "at most one PENDING per email" hold under
// concurrent creates, with the losing insert surfacing as
// sentinel.ErrConflict.
//
// Schema:
//
//	CREATE TABLE verification_requests (
//	    id           UUID PRIMARY KEY,
//	    email        TEXT NOT NULL,
//	    token        TEXT NOT NULL UNIQUE,
//	    status       TEXT NOT NULL,
//	    attempts     INT NOT NULL,
//	    max_attempts INT NOT NULL,
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    expires_at   TIMESTAMPTZ NOT NULL,
//	    verified_at  TIMESTAMPTZ
//	);
//	CREATE UNIQUE INDEX verification_requests_one_pending
//	    ON verification_requests (email) WHERE status = 'PENDING';
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, req *models.VerificationRequest) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO verification_requests (id, email, token, status, attempts, max_attempts, created_at, expires_at, verified_at)
		VALUES ($1, LOWER($2), $3, $4, $5, $6, $7, $8, $9)
	`, uuid.UUID(req.ID), req.Email, req.Token, req.Status, req.Attempts, req.MaxAttempts,
		req.CreatedAt, req.ExpiresAt, req.VerifiedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create verification request: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, req *models.VerificationRequest) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE verification_requests
		SET status = $2, attempts = $3, verified_at = $4
		WHERE id = $1
	`, uuid.UUID(req.ID), req.Status, req.Attempts, req.VerifiedAt)
	if err != nil {
		return fmt.Errorf("update verification request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update verification request rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, requestID id.RequestID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM verification_requests WHERE id = $1`, uuid.UUID(requestID))
	if err != nil {
		return fmt.Errorf("delete verification request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete verification request rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindPending(ctx context.Context, email string) (*models.VerificationRequest, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, email, token, status, attempts, max_attempts, created_at, expires_at, verified_at
		FROM verification_requests
		WHERE email = LOWER($1) AND status = 'PENDING'
	`, email)
	return scanRequest(row)
}

func (s *PostgresStore) FindLatest(ctx context.Context, email string) (*models.VerificationRequest, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, email, token, status, attempts, max_attempts, created_at, expires_at, verified_at
		FROM verification_requests
		WHERE email = LOWER($1)
		ORDER BY created_at DESC
		LIMIT 1
	`, email)
	return scanRequest(row)
}

// ListTerminal returns the CANCELLED and EXPIRED rows for an email, the
// ones whose attempts count against the lifetime budget.
func (s *PostgresStore) ListTerminal(ctx context.Context, email string) ([]*models.VerificationRequest, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, email, token, status, attempts, max_attempts, created_at, expires_at, verified_at
		FROM verification_requests
		WHERE email = LOWER($1) AND status IN ('CANCELLED', 'EXPIRED')
		ORDER BY created_at ASC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("list terminal requests: %w", err)
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.VerificationRequest, int, error) {
	filter.Normalize()
	q := tx.Resolve(ctx, s.db)

	var total int
	if err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM verification_requests
		WHERE ($1 = '' OR status = $1)
	`, string(filter.Status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count verification requests: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, email, token, status, attempts, max_attempts, created_at, expires_at, verified_at
		FROM verification_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, string(filter.Status), filter.PageSize, (filter.Page-1)*filter.PageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list verification requests: %w", err)
	}
	defer rows.Close()

	out, err := collectRequests(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.VerificationRequest, error) {
	req, err := scanRequestRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return req, err
}

func scanRequestRow(row rowScanner) (*models.VerificationRequest, error) {
	var r models.VerificationRequest
	var requestID uuid.UUID
	var verifiedAt sql.NullTime
	err := row.Scan(&requestID, &r.Email, &r.Token, &r.Status, &r.Attempts, &r.MaxAttempts,
		&r.CreatedAt, &r.ExpiresAt, &verifiedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan verification request: %w", err)
	}
	r.ID = id.RequestID(requestID)
	if verifiedAt.Valid {
		r.VerifiedAt = &verifiedAt.Time
	}
	return &r, nil
}

func collectRequests(rows *sql.Rows) ([]*models.VerificationRequest, error) {
	var out []*models.VerificationRequest
	for rows.Next() {
		req, err := scanRequestRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
