// Package handler serves an account's notification feed.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"comercio/internal/notification/models"
	id "comercio/pkg/domain"
	dErrors "comercio/pkg/domain-errors"
	"comercio/pkg/platform/httputil"
	"comercio/pkg/requestcontext"
)

type Service interface {
	List(ctx context.Context, accountID id.AccountID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, accountID id.AccountID, notificationID id.NotificationID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.HandleList)
	r.Post("/notifications/{id}/read", h.HandleMarkRead)
}

// HandleList handles GET /notifications for the authenticated account.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := requestcontext.AccountID(ctx)
	if accountID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	items, err := h.service.List(ctx, accountID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notifications",
			"account_id", accountID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if items == nil {
		items = []*models.Notification{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

// HandleMarkRead handles POST /notifications/{id}/read.
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := requestcontext.AccountID(ctx)
	if accountID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	notificationID, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.MarkRead(ctx, accountID, notificationID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
