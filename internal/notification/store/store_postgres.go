package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"comercio/internal/notification/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
	"comercio/pkg/platform/tx"
)

// PostgresStore persists notifications.
//
// Schema:
//
//	CREATE TABLE notifications (
//	    id          UUID PRIMARY KEY,
//	    account_id  UUID NOT NULL,
//	    kind        TEXT NOT NULL,
//	    title       TEXT NOT NULL,
//	    message     TEXT NOT NULL,
//	    metadata    JSONB NOT NULL DEFAULT '{}',
//	    read        BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX notifications_account_idx ON notifications (account_id, created_at DESC);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, n *models.Notification) error {
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	q := tx.Resolve(ctx, s.db)
	_, err = q.ExecContext(ctx, `
		INSERT INTO notifications (id, account_id, kind, title, message, metadata, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, uuid.UUID(n.ID), uuid.UUID(n.AccountID), n.Kind, n.Title, n.Message, metadata, n.Read, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByAccount(ctx context.Context, accountID id.AccountID) ([]*models.Notification, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `
		SELECT id, account_id, kind, title, message, metadata, read, created_at
		FROM notifications
		WHERE account_id = $1
		ORDER BY created_at DESC
	`, uuid.UUID(accountID))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []*models.Notification
	for rows.Next() {
		var (
			n        models.Notification
			nID      uuid.UUID
			acctID   uuid.UUID
			metadata []byte
		)
		if err := rows.Scan(&nID, &acctID, &n.Kind, &n.Title, &n.Message, &metadata, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.ID = id.NotificationID(nID)
		n.AccountID = id.AccountID(acctID)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata: %w", err)
			}
		}
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (s *PostgresStore) MarkRead(ctx context.Context, accountID id.AccountID, notificationID id.NotificationID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND account_id = $2
	`, uuid.UUID(notificationID), uuid.UUID(accountID))
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
