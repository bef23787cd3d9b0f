// Package service manages client business records.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"comercio/internal/client/models"
	id "comercio/pkg/domain"
	dErrors "comercio/pkg/domain-errors"
	"comercio/pkg/platform/sentinel"
	"comercio/pkg/requestcontext"
)

// Store owns client rows. Create and Update return sentinel.ErrConflict on
// a tax ID collision.
type Store interface {
	Create(ctx context.Context, client *models.Client) error
	Find(ctx context.Context, clientID id.ClientID) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, clientID id.ClientID) error
	List(ctx context.Context, filter models.ListFilter) ([]*models.Client, int, error)
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
		return nil, errors.New("client store is required")
	}
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CreateInput carries the caller-settable client fields.
type CreateInput struct {
	Name  string
	TaxID string
	Email string
	Phone string
	Zone  string
}

func (in *CreateInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(in.TaxID) == "" {
		return dErrors.New(dErrors.CodeValidation, "tax id is required")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	client := &models.Client{
		ID:        id.NewClientID(),
		Name:      strings.TrimSpace(in.Name),
		TaxID:     strings.ToUpper(strings.TrimSpace(in.TaxID)),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:     strings.TrimSpace(in.Phone),
		Zone:      strings.TrimSpace(in.Zone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Create(ctx, client); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "tax id already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create client")
	}

	s.logger.InfoContext(ctx, "client created",
		"client_id", client.ID,
		"actor", requestcontext.ActorEmail(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	return client, nil
}

func (s *Service) Get(ctx context.Context, clientID id.ClientID) (*models.Client, error) {
	client, err := s.store.Find(ctx, clientID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load client")
	}
	if client == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, clientID id.ClientID, in CreateInput) (*models.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	client, err := s.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	client.Name = strings.TrimSpace(in.Name)
	client.TaxID = strings.ToUpper(strings.TrimSpace(in.TaxID))
	client.Email = strings.ToLower(strings.TrimSpace(in.Email))
	client.Phone = strings.TrimSpace(in.Phone)
	client.Zone = strings.TrimSpace(in.Zone)
	client.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, client); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "tax id already registered")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "client not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update client")
	}
	return client, nil
}

func (s *Service) Delete(ctx context.Context, clientID id.ClientID) error {
	if err := s.store.Delete(ctx, clientID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "client not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete client")
	}
	s.logger.InfoContext(ctx, "client deleted",
		"client_id", clientID,
		"actor", requestcontext.ActorEmail(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}

// ListResult is one page of clients.
type ListResult struct {
	Items    []*models.Client `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func (s *Service) List(ctx context.Context, filter models.ListFilter) (*ListResult, error) {
	filter.Normalize()
	items, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list clients")
	}
	if items == nil {
		items = []*models.Client{}
	}
	return &ListResult{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}
