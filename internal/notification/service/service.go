// Package service records and serves in-app notifications. It doubles as
// the notification sink the verification workflow fans out to.
package service

import (
	"context"
	"errors"
	"log/slog"

	"comercio/internal/notification/models"
	id "comercio/pkg/domain"
	dErrors "comercio/pkg/domain-errors"
	"comercio/pkg/platform/sentinel"
	"comercio/pkg/requestcontext"
)

// Store owns notification rows.
type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByAccount(ctx context.Context, accountID id.AccountID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, accountID id.AccountID, notificationID id.NotificationID) error
}

type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("notification store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Notify records a directed message for an account.
func (s *Service) Notify(ctx context.Context, accountID id.AccountID, kind, title, message string, metadata map[string]string) error {
	if accountID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "account id is required")
	}
	n := &models.Notification{
		ID:        id.NewNotificationID(),
		AccountID: accountID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Metadata:  metadata,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, n); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record notification")
	}
	return nil
}

// List returns the account's notifications, newest first.
func (s *Service) List(ctx context.Context, accountID id.AccountID) ([]*models.Notification, error) {
	if accountID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "account id is required")
	}
	items, err := s.store.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return items, nil
}

// MarkRead acknowledges one notification for the owning account.
func (s *Service) MarkRead(ctx context.Context, accountID id.AccountID, notificationID id.NotificationID) error {
	if accountID.IsNil() || notificationID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "account id and notification id are required")
	}
	if err := s.store.MarkRead(ctx, accountID, notificationID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notification read")
	}
	return nil
}
